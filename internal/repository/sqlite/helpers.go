package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"superheroes/internal/domain"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ============================================================================
// Error Conversion
// ============================================================================

// convertError maps constraint failures reported by SQLite onto the domain
// error taxonomy. Other errors pass through unchanged.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}

	switch code := se.Code(); {
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		code == sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return domain.NewReferentialIntegrityError("foreign key", 0, se.Error())
	case code == sqlite3.SQLITE_CONSTRAINT_CHECK:
		return domain.NewValidationError("check", se.Error())
	case code&0xff == sqlite3.SQLITE_CONSTRAINT:
		// primary code only: classify by message
		msg := se.Error()
		switch {
		case strings.Contains(msg, "FOREIGN KEY"), strings.Contains(msg, "NOT NULL"):
			return domain.NewReferentialIntegrityError("foreign key", 0, msg)
		case strings.Contains(msg, "CHECK"):
			return domain.NewValidationError("check", msg)
		}
	}
	return err
}

// ============================================================================
// Column Lists
// ============================================================================
//
// CRITICAL: column order must match the scanArgs() of the matching row type.

const heroColumns = `id, name, super_name`

const powerColumns = `id, name, description`

const heroPowerColumns = `id, strength, hero_id, power_id`

// ============================================================================
// Row Scanners
// ============================================================================

// heroRow holds all columns from a hero query for scanning
type heroRow struct {
	ID        int64
	Name      sql.NullString
	SuperName sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match heroColumns order exactly: id, name, super_name
func (r *heroRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.SuperName}
}

// toDomain converts the scanned row to a domain.Hero
func (r *heroRow) toDomain() *domain.Hero {
	return &domain.Hero{
		ID:        r.ID,
		Name:      r.Name.String,
		SuperName: r.SuperName.String,
	}
}

// powerRow holds all columns from a power query for scanning
type powerRow struct {
	ID          int64
	Name        sql.NullString
	Description string
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match powerColumns order exactly: id, name, description
func (r *powerRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Description}
}

// toDomain converts the scanned row to a domain.Power
func (r *powerRow) toDomain() *domain.Power {
	return &domain.Power{
		ID:          r.ID,
		Name:        r.Name.String,
		Description: r.Description,
	}
}

// heroPowerRow holds all columns from a hero_powers query for scanning
type heroPowerRow struct {
	ID       int64
	Strength string
	HeroID   int64
	PowerID  int64
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match heroPowerColumns order exactly: id, strength, hero_id, power_id
func (r *heroPowerRow) scanArgs() []any {
	return []any{&r.ID, &r.Strength, &r.HeroID, &r.PowerID}
}

// toDomain converts the scanned row to a domain.HeroPower
func (r *heroPowerRow) toDomain() *domain.HeroPower {
	return &domain.HeroPower{
		ID:       r.ID,
		Strength: domain.Strength(r.Strength),
		HeroID:   r.HeroID,
		PowerID:  r.PowerID,
	}
}

// ============================================================================
// Existence Checks
// ============================================================================

func exists(ctx context.Context, q querier, table string, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, table), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s %d: %w", table, id, err)
	}
	return true, nil
}

// checkReferences verifies that both endpoints of an edge exist
func checkReferences(ctx context.Context, q querier, hp *domain.HeroPower) error {
	ok, err := exists(ctx, q, "heroes", hp.HeroID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewReferentialIntegrityError("hero_id", hp.HeroID, "references a missing hero")
	}

	ok, err = exists(ctx, q, "powers", hp.PowerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewReferentialIntegrityError("power_id", hp.PowerID, "references a missing power")
	}
	return nil
}

// nullableString stores an empty string as NULL
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
