package postgres

import (
	"errors"

	"superheroes/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for integrity violations
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// convertError maps PostgreSQL constraint violations onto the domain error
// taxonomy. Other errors pass through unchanged.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeForeignKeyViolation:
		return domain.NewReferentialIntegrityError(constraintField(pgErr), 0, pgErr.Message)
	case codeNotNullViolation:
		return domain.NewReferentialIntegrityError(pgErr.ColumnName, 0, pgErr.Message)
	case codeCheckViolation:
		return domain.NewValidationError(constraintField(pgErr), pgErr.Message)
	}
	return err
}

func constraintField(pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "fk_hero_powers_hero_id_heroes":
		return "hero_id"
	case "fk_hero_powers_power_id_powers":
		return "power_id"
	case "ck_powers_description_length":
		return "description"
	case "ck_hero_powers_strength":
		return "strength"
	}
	return pgErr.ConstraintName
}
