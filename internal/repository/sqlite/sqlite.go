package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"superheroes/internal/domain"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository. dbPath may be ":memory:".
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database lives only on the connection that created it
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS heroes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		super_name TEXT
	);

	CREATE TABLE IF NOT EXISTS powers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		description TEXT NOT NULL CHECK (length(description) >= 20)
	);

	CREATE TABLE IF NOT EXISTS hero_powers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		strength TEXT NOT NULL CHECK (strength IN ('Strong', 'Weak', 'Average')),
		hero_id INTEGER NOT NULL,
		power_id INTEGER NOT NULL,
		CONSTRAINT fk_hero_powers_hero_id_heroes
			FOREIGN KEY (hero_id) REFERENCES heroes(id) ON DELETE CASCADE,
		CONSTRAINT fk_hero_powers_power_id_powers
			FOREIGN KEY (power_id) REFERENCES powers(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_hero_powers_hero ON hero_powers(hero_id);
	CREATE INDEX IF NOT EXISTS idx_hero_powers_power ON hero_powers(power_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// withTx runs fn in a transaction, committing only if fn succeeds
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ============================================================================
// Heroes
// ============================================================================

// CreateHero inserts a hero and assigns its ID
func (r *Repository) CreateHero(ctx context.Context, hero *domain.Hero) error {
	if err := hero.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO heroes (name, super_name) VALUES (?, ?)
	`, nullableString(hero.Name), nullableString(hero.SuperName))
	if err != nil {
		return fmt.Errorf("failed to insert hero: %w", convertError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read hero id: %w", err)
	}
	hero.ID = id
	return nil
}

// GetHero retrieves a hero with its edges and each edge's power
func (r *Repository) GetHero(ctx context.Context, id int64) (*domain.Hero, error) {
	var row heroRow
	err := r.db.QueryRowContext(ctx, `SELECT `+heroColumns+` FROM heroes WHERE id = ?`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("hero", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query hero: %w", err)
	}

	hero := row.toDomain()
	hero.HeroPowers = make([]*domain.HeroPower, 0)

	rows, err := r.db.QueryContext(ctx, `
		SELECT hp.id, hp.strength, hp.hero_id, hp.power_id, p.id, p.name, p.description
		FROM hero_powers hp
		JOIN powers p ON p.id = hp.power_id
		WHERE hp.hero_id = ?
		ORDER BY hp.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero powers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hpRow heroPowerRow
			pRow  powerRow
		)
		if err := rows.Scan(append(hpRow.scanArgs(), pRow.scanArgs()...)...); err != nil {
			return nil, fmt.Errorf("failed to scan hero power: %w", err)
		}
		hp := hpRow.toDomain()
		hp.Power = pRow.toDomain()
		hero.AddHeroPower(hp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hero powers: %w", err)
	}

	return hero, nil
}

// ListHeroes returns all heroes ordered by ID, without edges
func (r *Repository) ListHeroes(ctx context.Context) ([]*domain.Hero, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+heroColumns+` FROM heroes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query heroes: %w", err)
	}
	defer rows.Close()

	heroes := make([]*domain.Hero, 0)
	for rows.Next() {
		var row heroRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan hero: %w", err)
		}
		heroes = append(heroes, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating heroes: %w", err)
	}
	return heroes, nil
}

// UpdateHero writes the hero's columns
func (r *Repository) UpdateHero(ctx context.Context, hero *domain.Hero) error {
	if err := hero.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE heroes SET name = ?, super_name = ? WHERE id = ?
	`, nullableString(hero.Name), nullableString(hero.SuperName), hero.ID)
	if err != nil {
		return fmt.Errorf("failed to update hero: %w", convertError(err))
	}
	return requireAffected(res, "hero", hero.ID)
}

// DeleteHero removes a hero and all of its edges in one transaction. It
// returns the number of edges removed.
func (r *Repository) DeleteHero(ctx context.Context, id int64) (int, error) {
	return r.deleteWithEdges(ctx, "heroes", "hero", "hero_id", id)
}

// ============================================================================
// Powers
// ============================================================================

// CreatePower inserts a power and assigns its ID
func (r *Repository) CreatePower(ctx context.Context, power *domain.Power) error {
	if err := power.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO powers (name, description) VALUES (?, ?)
	`, nullableString(power.Name), power.Description)
	if err != nil {
		return fmt.Errorf("failed to insert power: %w", convertError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read power id: %w", err)
	}
	power.ID = id
	return nil
}

// GetPower retrieves a power with its edges and each edge's hero
func (r *Repository) GetPower(ctx context.Context, id int64) (*domain.Power, error) {
	var row powerRow
	err := r.db.QueryRowContext(ctx, `SELECT `+powerColumns+` FROM powers WHERE id = ?`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("power", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query power: %w", err)
	}

	power := row.toDomain()
	power.HeroPowers = make([]*domain.HeroPower, 0)

	rows, err := r.db.QueryContext(ctx, `
		SELECT hp.id, hp.strength, hp.hero_id, hp.power_id, h.id, h.name, h.super_name
		FROM hero_powers hp
		JOIN heroes h ON h.id = hp.hero_id
		WHERE hp.power_id = ?
		ORDER BY hp.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero powers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hpRow heroPowerRow
			hRow  heroRow
		)
		if err := rows.Scan(append(hpRow.scanArgs(), hRow.scanArgs()...)...); err != nil {
			return nil, fmt.Errorf("failed to scan hero power: %w", err)
		}
		hp := hpRow.toDomain()
		hp.Hero = hRow.toDomain()
		power.AddHeroPower(hp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hero powers: %w", err)
	}

	return power, nil
}

// ListPowers returns all powers ordered by ID, without edges
func (r *Repository) ListPowers(ctx context.Context) ([]*domain.Power, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+powerColumns+` FROM powers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query powers: %w", err)
	}
	defer rows.Close()

	powers := make([]*domain.Power, 0)
	for rows.Next() {
		var row powerRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan power: %w", err)
		}
		powers = append(powers, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating powers: %w", err)
	}
	return powers, nil
}

// UpdatePower writes the power's columns after re-validating the description
func (r *Repository) UpdatePower(ctx context.Context, power *domain.Power) error {
	if err := power.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE powers SET name = ?, description = ? WHERE id = ?
	`, nullableString(power.Name), power.Description, power.ID)
	if err != nil {
		return fmt.Errorf("failed to update power: %w", convertError(err))
	}
	return requireAffected(res, "power", power.ID)
}

// DeletePower removes a power and all of its edges in one transaction. It
// returns the number of edges removed.
func (r *Repository) DeletePower(ctx context.Context, id int64) (int, error) {
	return r.deleteWithEdges(ctx, "powers", "power", "power_id", id)
}

// deleteWithEdges deletes the dependent hero_powers rows explicitly before
// the parent, so the cascade does not depend on the foreign_keys pragma.
func (r *Repository) deleteWithEdges(ctx context.Context, table, kind, fkColumn string, id int64) (int, error) {
	var removed int
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, table, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFoundError(kind, id)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM hero_powers WHERE `+fkColumn+` = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete %s hero powers: %w", kind, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count deleted hero powers: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", kind, err)
		}
		removed = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ============================================================================
// Hero Powers
// ============================================================================

// CreateHeroPower inserts an edge after checking that both endpoints exist
func (r *Repository) CreateHeroPower(ctx context.Context, hp *domain.HeroPower) error {
	if err := hp.Validate(); err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, hp); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO hero_powers (strength, hero_id, power_id) VALUES (?, ?, ?)
		`, string(hp.Strength), hp.HeroID, hp.PowerID)
		if err != nil {
			return fmt.Errorf("failed to insert hero power: %w", convertError(err))
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read hero power id: %w", err)
		}
		hp.ID = id
		return nil
	})
}

// heroPowerJoin selects an edge with both endpoints
const heroPowerJoin = `
	SELECT hp.id, hp.strength, hp.hero_id, hp.power_id,
		h.id, h.name, h.super_name,
		p.id, p.name, p.description
	FROM hero_powers hp
	JOIN heroes h ON h.id = hp.hero_id
	JOIN powers p ON p.id = hp.power_id
`

func scanHeroPowerJoin(scan func(dest ...any) error) (*domain.HeroPower, error) {
	var (
		hpRow heroPowerRow
		hRow  heroRow
		pRow  powerRow
	)
	args := append(hpRow.scanArgs(), hRow.scanArgs()...)
	args = append(args, pRow.scanArgs()...)
	if err := scan(args...); err != nil {
		return nil, err
	}

	hp := hpRow.toDomain()
	hp.Hero = hRow.toDomain()
	hp.Power = pRow.toDomain()
	return hp, nil
}

// GetHeroPower retrieves an edge with its hero and power
func (r *Repository) GetHeroPower(ctx context.Context, id int64) (*domain.HeroPower, error) {
	hp, err := scanHeroPowerJoin(r.db.QueryRowContext(ctx, heroPowerJoin+` WHERE hp.id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("hero_power", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query hero power: %w", err)
	}
	return hp, nil
}

// ListHeroPowers returns all edges ordered by ID, each with its hero and power
func (r *Repository) ListHeroPowers(ctx context.Context) ([]*domain.HeroPower, error) {
	rows, err := r.db.QueryContext(ctx, heroPowerJoin+` ORDER BY hp.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero powers: %w", err)
	}
	defer rows.Close()

	edges := make([]*domain.HeroPower, 0)
	for rows.Next() {
		hp, err := scanHeroPowerJoin(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hero power: %w", err)
		}
		edges = append(edges, hp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hero powers: %w", err)
	}
	return edges, nil
}

// UpdateHeroPower writes the edge's columns after re-validating the
// strength and both references
func (r *Repository) UpdateHeroPower(ctx context.Context, hp *domain.HeroPower) error {
	if err := hp.Validate(); err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "hero_powers", hp.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFoundError("hero_power", hp.ID)
		}
		if err := checkReferences(ctx, tx, hp); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE hero_powers SET strength = ?, hero_id = ?, power_id = ? WHERE id = ?
		`, string(hp.Strength), hp.HeroID, hp.PowerID, hp.ID); err != nil {
			return fmt.Errorf("failed to update hero power: %w", convertError(err))
		}
		return nil
	})
}

// DeleteHeroPower removes a single edge
func (r *Repository) DeleteHeroPower(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hero_powers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hero power: %w", err)
	}
	return requireAffected(res, "hero_power", id)
}

// ============================================================================
// Bulk Operations
// ============================================================================

// ImportRoster replaces all data with the provided roster, keeping its IDs
func (r *Repository) ImportRoster(ctx context.Context, roster *domain.Roster) error {
	if err := roster.Validate(); err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		// Clear existing data (order matters due to foreign keys)
		for _, table := range []string{"hero_powers", "heroes", "powers"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		heroStmt, err := tx.PrepareContext(ctx, `INSERT INTO heroes (id, name, super_name) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare hero statement: %w", err)
		}
		defer heroStmt.Close()

		for _, h := range roster.Heroes {
			if _, err := heroStmt.ExecContext(ctx, h.ID, nullableString(h.Name), nullableString(h.SuperName)); err != nil {
				return fmt.Errorf("failed to insert hero %d: %w", h.ID, convertError(err))
			}
		}

		powerStmt, err := tx.PrepareContext(ctx, `INSERT INTO powers (id, name, description) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare power statement: %w", err)
		}
		defer powerStmt.Close()

		for _, p := range roster.Powers {
			if _, err := powerStmt.ExecContext(ctx, p.ID, nullableString(p.Name), p.Description); err != nil {
				return fmt.Errorf("failed to insert power %d: %w", p.ID, convertError(err))
			}
		}

		edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO hero_powers (id, strength, hero_id, power_id) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare hero power statement: %w", err)
		}
		defer edgeStmt.Close()

		for _, hp := range roster.HeroPowers {
			if _, err := edgeStmt.ExecContext(ctx, hp.ID, string(hp.Strength), hp.HeroID, hp.PowerID); err != nil {
				return fmt.Errorf("failed to insert hero power %d: %w", hp.ID, convertError(err))
			}
		}
		return nil
	})
}

// ExportRoster reads every record, without relations loaded
func (r *Repository) ExportRoster(ctx context.Context) (*domain.Roster, error) {
	roster := domain.NewRoster()

	heroes, err := r.ListHeroes(ctx)
	if err != nil {
		return nil, err
	}
	roster.Heroes = heroes

	powers, err := r.ListPowers(ctx)
	if err != nil {
		return nil, err
	}
	roster.Powers = powers

	rows, err := r.db.QueryContext(ctx, `SELECT `+heroPowerColumns+` FROM hero_powers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero powers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row heroPowerRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan hero power: %w", err)
		}
		roster.AddHeroPower(row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hero powers: %w", err)
	}

	return roster, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func requireAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(kind, id)
	}
	return nil
}
