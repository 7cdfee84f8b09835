package postgres

import (
	"context"
	"errors"
	"fmt"

	"superheroes/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements repository.Repository on a pgx connection pool
type Repository struct {
	pool *pgxpool.Pool
}

// New connects to the database at url and applies the schema
func New(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repository{pool: pool}
	if err := repo.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS heroes (
		id BIGSERIAL PRIMARY KEY,
		name TEXT,
		super_name TEXT
	);

	CREATE TABLE IF NOT EXISTS powers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT,
		description TEXT NOT NULL,
		CONSTRAINT ck_powers_description_length CHECK (char_length(description) >= 20)
	);

	CREATE TABLE IF NOT EXISTS hero_powers (
		id BIGSERIAL PRIMARY KEY,
		strength TEXT NOT NULL,
		hero_id BIGINT NOT NULL,
		power_id BIGINT NOT NULL,
		CONSTRAINT ck_hero_powers_strength CHECK (strength IN ('Strong', 'Weak', 'Average')),
		CONSTRAINT fk_hero_powers_hero_id_heroes
			FOREIGN KEY (hero_id) REFERENCES heroes(id) ON DELETE CASCADE,
		CONSTRAINT fk_hero_powers_power_id_powers
			FOREIGN KEY (power_id) REFERENCES powers(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_hero_powers_hero ON hero_powers(hero_id);
	CREATE INDEX IF NOT EXISTS idx_hero_powers_power ON hero_powers(power_id);
	`

	_, err := r.pool.Exec(ctx, schema)
	return err
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// ============================================================================
// Row Types
// ============================================================================

type heroRow struct {
	ID        int64
	Name      pgtype.Text
	SuperName pgtype.Text
}

func (r *heroRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.SuperName}
}

func (r *heroRow) toDomain() *domain.Hero {
	return &domain.Hero{ID: r.ID, Name: r.Name.String, SuperName: r.SuperName.String}
}

type powerRow struct {
	ID          int64
	Name        pgtype.Text
	Description string
}

func (r *powerRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Description}
}

func (r *powerRow) toDomain() *domain.Power {
	return &domain.Power{ID: r.ID, Name: r.Name.String, Description: r.Description}
}

type heroPowerRow struct {
	ID       int64
	Strength string
	HeroID   int64
	PowerID  int64
}

func (r *heroPowerRow) scanArgs() []any {
	return []any{&r.ID, &r.Strength, &r.HeroID, &r.PowerID}
}

func (r *heroPowerRow) toDomain() *domain.HeroPower {
	return &domain.HeroPower{
		ID:       r.ID,
		Strength: domain.Strength(r.Strength),
		HeroID:   r.HeroID,
		PowerID:  r.PowerID,
	}
}

// ============================================================================
// Heroes
// ============================================================================

// CreateHero inserts a hero and assigns its ID
func (r *Repository) CreateHero(ctx context.Context, hero *domain.Hero) error {
	if err := hero.Validate(); err != nil {
		return err
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO heroes (name, super_name) VALUES ($1, $2) RETURNING id`,
		text(hero.Name), text(hero.SuperName),
	).Scan(&hero.ID)
	if err != nil {
		return fmt.Errorf("failed to insert hero: %w", convertError(err))
	}
	return nil
}

// GetHero retrieves a hero with its edges and each edge's power
func (r *Repository) GetHero(ctx context.Context, id int64) (*domain.Hero, error) {
	var row heroRow
	err := r.pool.QueryRow(ctx, `SELECT id, name, super_name FROM heroes WHERE id = $1`, id).Scan(row.scanArgs()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("hero", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query hero: %w", err)
	}

	hero := row.toDomain()
	hero.HeroPowers = make([]*domain.HeroPower, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT hp.id, hp.strength, hp.hero_id, hp.power_id, p.id, p.name, p.description
		FROM hero_powers hp
		JOIN powers p ON p.id = hp.power_id
		WHERE hp.hero_id = $1
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
	return listHeroes(ctx, r.pool)
}

func listHeroes(ctx context.Context, q querier) ([]*domain.Hero, error) {
	rows, err := q.Query(ctx, `SELECT id, name, super_name FROM heroes ORDER BY id`)
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
	tag, err := r.pool.Exec(ctx,
		`UPDATE heroes SET name = $1, super_name = $2 WHERE id = $3`,
		text(hero.Name), text(hero.SuperName), hero.ID)
	if err != nil {
		return fmt.Errorf("failed to update hero: %w", convertError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("hero", hero.ID)
	}
	return nil
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
	err := r.pool.QueryRow(ctx,
		`INSERT INTO powers (name, description) VALUES ($1, $2) RETURNING id`,
		text(power.Name), power.Description,
	).Scan(&power.ID)
	if err != nil {
		return fmt.Errorf("failed to insert power: %w", convertError(err))
	}
	return nil
}

// GetPower retrieves a power with its edges and each edge's hero
func (r *Repository) GetPower(ctx context.Context, id int64) (*domain.Power, error) {
	var row powerRow
	err := r.pool.QueryRow(ctx, `SELECT id, name, description FROM powers WHERE id = $1`, id).Scan(row.scanArgs()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("power", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query power: %w", err)
	}

	power := row.toDomain()
	power.HeroPowers = make([]*domain.HeroPower, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT hp.id, hp.strength, hp.hero_id, hp.power_id, h.id, h.name, h.super_name
		FROM hero_powers hp
		JOIN heroes h ON h.id = hp.hero_id
		WHERE hp.power_id = $1
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
	return listPowers(ctx, r.pool)
}

func listPowers(ctx context.Context, q querier) ([]*domain.Power, error) {
	rows, err := q.Query(ctx, `SELECT id, name, description FROM powers ORDER BY id`)
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
	tag, err := r.pool.Exec(ctx,
		`UPDATE powers SET name = $1, description = $2 WHERE id = $3`,
		text(power.Name), power.Description, power.ID)
	if err != nil {
		return fmt.Errorf("failed to update power: %w", convertError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("power", power.ID)
	}
	return nil
}

// DeletePower removes a power and all of its edges in one transaction. It
// returns the number of edges removed.
func (r *Repository) DeletePower(ctx context.Context, id int64) (int, error) {
	return r.deleteWithEdges(ctx, "powers", "power", "power_id", id)
}

func (r *Repository) deleteWithEdges(ctx context.Context, table, kind, fkColumn string, id int64) (int, error) {
	var removed int
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// lock the parent row so a concurrent insert cannot attach a new edge
		var one int
		err := tx.QueryRow(ctx, `SELECT 1 FROM `+table+` WHERE id = $1 FOR UPDATE`, id).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError(kind, id)
		}
		if err != nil {
			return fmt.Errorf("failed to lock %s: %w", kind, err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM hero_powers WHERE `+fkColumn+` = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete %s hero powers: %w", kind, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", kind, err)
		}
		removed = int(tag.RowsAffected())
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

// CreateHeroPower inserts an edge. Missing endpoints surface as foreign key
// violations and are reported as referential integrity errors.
func (r *Repository) CreateHeroPower(ctx context.Context, hp *domain.HeroPower) error {
	if err := hp.Validate(); err != nil {
		return err
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO hero_powers (strength, hero_id, power_id) VALUES ($1, $2, $3) RETURNING id`,
		string(hp.Strength), hp.HeroID, hp.PowerID,
	).Scan(&hp.ID)
	if err != nil {
		return fmt.Errorf("failed to insert hero power: %w", convertError(err))
	}
	return nil
}

const heroPowerJoin = `
	SELECT hp.id, hp.strength, hp.hero_id, hp.power_id,
		h.id, h.name, h.super_name,
		p.id, p.name, p.description
	FROM hero_powers hp
	JOIN heroes h ON h.id = hp.hero_id
	JOIN powers p ON p.id = hp.power_id
`

func scanHeroPowerJoin(row pgx.Row) (*domain.HeroPower, error) {
	var (
		hpRow heroPowerRow
		hRow  heroRow
		pRow  powerRow
	)
	args := append(hpRow.scanArgs(), hRow.scanArgs()...)
	args = append(args, pRow.scanArgs()...)
	if err := row.Scan(args...); err != nil {
		return nil, err
	}

	hp := hpRow.toDomain()
	hp.Hero = hRow.toDomain()
	hp.Power = pRow.toDomain()
	return hp, nil
}

// GetHeroPower retrieves an edge with its hero and power
func (r *Repository) GetHeroPower(ctx context.Context, id int64) (*domain.HeroPower, error) {
	hp, err := scanHeroPowerJoin(r.pool.QueryRow(ctx, heroPowerJoin+` WHERE hp.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("hero_power", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query hero power: %w", err)
	}
	return hp, nil
}

// ListHeroPowers returns all edges ordered by ID, each with its hero and power
func (r *Repository) ListHeroPowers(ctx context.Context) ([]*domain.HeroPower, error) {
	rows, err := r.pool.Query(ctx, heroPowerJoin+` ORDER BY hp.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero powers: %w", err)
	}
	defer rows.Close()

	edges := make([]*domain.HeroPower, 0)
	for rows.Next() {
		hp, err := scanHeroPowerJoin(rows)
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
	tag, err := r.pool.Exec(ctx,
		`UPDATE hero_powers SET strength = $1, hero_id = $2, power_id = $3 WHERE id = $4`,
		string(hp.Strength), hp.HeroID, hp.PowerID, hp.ID)
	if err != nil {
		return fmt.Errorf("failed to update hero power: %w", convertError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("hero_power", hp.ID)
	}
	return nil
}

// DeleteHeroPower removes a single edge
func (r *Repository) DeleteHeroPower(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hero_powers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hero power: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("hero_power", id)
	}
	return nil
}

// ============================================================================
// Bulk Operations
// ============================================================================

// ImportRoster replaces all data with the provided roster, keeping its IDs.
// Sequences are advanced past the imported IDs.
func (r *Repository) ImportRoster(ctx context.Context, roster *domain.Roster) error {
	if err := roster.Validate(); err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE hero_powers, heroes, powers`); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}

		batch := &pgx.Batch{}
		for _, h := range roster.Heroes {
			batch.Queue(`INSERT INTO heroes (id, name, super_name) VALUES ($1, $2, $3)`,
				h.ID, text(h.Name), text(h.SuperName))
		}
		for _, p := range roster.Powers {
			batch.Queue(`INSERT INTO powers (id, name, description) VALUES ($1, $2, $3)`,
				p.ID, text(p.Name), p.Description)
		}
		for _, hp := range roster.HeroPowers {
			batch.Queue(`INSERT INTO hero_powers (id, strength, hero_id, power_id) VALUES ($1, $2, $3, $4)`,
				hp.ID, string(hp.Strength), hp.HeroID, hp.PowerID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert roster: %w", convertError(err))
		}

		for _, table := range []string{"heroes", "powers", "hero_powers"} {
			if _, err := tx.Exec(ctx, fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`,
				table)); err != nil {
				return fmt.Errorf("failed to reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
}

// ExportRoster reads every record in one snapshot, without relations loaded
func (r *Repository) ExportRoster(ctx context.Context) (*domain.Roster, error) {
	roster := domain.NewRoster()

	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, func(tx pgx.Tx) error {
		heroes, err := listHeroes(ctx, tx)
		if err != nil {
			return err
		}
		roster.Heroes = heroes

		powers, err := listPowers(ctx, tx)
		if err != nil {
			return err
		}
		roster.Powers = powers

		rows, err := tx.Query(ctx, `SELECT id, strength, hero_id, power_id FROM hero_powers ORDER BY id`)
		if err != nil {
			return fmt.Errorf("failed to query hero powers: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var row heroPowerRow
			if err := rows.Scan(row.scanArgs()...); err != nil {
				return fmt.Errorf("failed to scan hero power: %w", err)
			}
			roster.AddHeroPower(row.toDomain())
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return roster, nil
}

// Close releases the pool
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
