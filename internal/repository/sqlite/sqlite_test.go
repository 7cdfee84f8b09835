package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"superheroes/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err, "failed to create test repository")

	// Enable foreign keys for cascade deletes
	_, err = repo.db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err, "failed to enable foreign keys")

	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func mustHero(t *testing.T, repo *Repository, name, superName string) *domain.Hero {
	t.Helper()
	h := domain.NewHero(name, superName)
	require.NoError(t, repo.CreateHero(context.Background(), h))
	return h
}

func mustPower(t *testing.T, repo *Repository, name, description string) *domain.Power {
	t.Helper()
	p, err := domain.NewPower(name, description)
	require.NoError(t, err)
	require.NoError(t, repo.CreatePower(context.Background(), p))
	return p
}

func mustHeroPower(t *testing.T, repo *Repository, strength string, heroID, powerID int64) *domain.HeroPower {
	t.Helper()
	hp, err := domain.NewHeroPower(strength, heroID, powerID)
	require.NoError(t, err)
	require.NoError(t, repo.CreateHeroPower(context.Background(), hp))
	return hp
}

func countRows(t *testing.T, repo *Repository, table string) int {
	t.Helper()
	var n int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

// ============================================================================
// Hero CRUD Tests
// ============================================================================

func TestCreateHero(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	t.Run("assigns increasing ids", func(t *testing.T) {
		h1 := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
		h2 := mustHero(t, repo, "Doreen Green", "Squirrel Girl")
		assert.Greater(t, h1.ID, int64(0))
		assert.Greater(t, h2.ID, h1.ID)
	})

	t.Run("round trips columns", func(t *testing.T) {
		h := mustHero(t, repo, "Gwen Stacy", "Spider-Gwen")
		got, err := repo.GetHero(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Gwen Stacy", got.Name)
		assert.Equal(t, "Spider-Gwen", got.SuperName)
		assert.NotNil(t, got.HeroPowers)
		assert.Empty(t, got.HeroPowers)
	})

	t.Run("empty strings round trip", func(t *testing.T) {
		h := mustHero(t, repo, "", "")
		got, err := repo.GetHero(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "", got.Name)
	})
}

func TestGetHero(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	t.Run("missing hero", func(t *testing.T) {
		_, err := repo.GetHero(ctx, 404)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("loads edges with powers", func(t *testing.T) {
		h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
		p1 := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")
		p2 := mustPower(t, repo, "flight", "gives the wielder the power of flight")
		mustHeroPower(t, repo, "Average", h.ID, p1.ID)
		mustHeroPower(t, repo, "Strong", h.ID, p2.ID)

		got, err := repo.GetHero(ctx, h.ID)
		require.NoError(t, err)
		require.Len(t, got.HeroPowers, 2)
		assert.Equal(t, domain.StrengthAverage, got.HeroPowers[0].Strength)
		assert.Same(t, got, got.HeroPowers[0].Hero)

		powers := got.Powers()
		require.Len(t, powers, 2)
		assert.Equal(t, "elasticity", powers[0].Name)
		assert.Equal(t, "flight", powers[1].Name)
	})
}

func TestListHeroes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	heroes, err := repo.ListHeroes(ctx)
	require.NoError(t, err)
	assert.Empty(t, heroes)

	for i := 0; i < 3; i++ {
		mustHero(t, repo, fmt.Sprintf("hero-%d", i), "")
	}

	heroes, err = repo.ListHeroes(ctx)
	require.NoError(t, err)
	require.Len(t, heroes, 3)
	for i, h := range heroes {
		assert.Equal(t, fmt.Sprintf("hero-%d", i), h.Name)
		assert.Nil(t, h.HeroPowers)
	}
}

func TestUpdateHero(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
	require.NoError(t, h.Apply(map[string]any{"super_name": "Captain Marvel"}))
	require.NoError(t, repo.UpdateHero(ctx, h))

	got, err := repo.GetHero(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Captain Marvel", got.SuperName)

	t.Run("missing hero", func(t *testing.T) {
		err := repo.UpdateHero(ctx, &domain.Hero{ID: 999})
		assert.True(t, domain.IsNotFound(err))
	})
}

// ============================================================================
// Power CRUD Tests
// ============================================================================

func TestCreatePower(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	t.Run("valid power", func(t *testing.T) {
		p := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")
		got, err := repo.GetPower(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Can stretch the body into extreme lengths.", got.Description)
	})

	t.Run("invalid description is never written", func(t *testing.T) {
		before := countRows(t, repo, "powers")
		err := repo.CreatePower(ctx, &domain.Power{Name: "x", Description: "short"})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Equal(t, before, countRows(t, repo, "powers"))
	})
}

func TestGetPower(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.GetPower(ctx, 1)
	assert.True(t, domain.IsNotFound(err))

	p := mustPower(t, repo, "flight", "gives the wielder the power of flight")
	h1 := mustHero(t, repo, "Carol Danvers", "Captain Marvel")
	h2 := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
	mustHeroPower(t, repo, "Strong", h1.ID, p.ID)
	mustHeroPower(t, repo, "Weak", h2.ID, p.ID)

	got, err := repo.GetPower(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.HeroPowers, 2)

	heroes := got.Heroes()
	require.Len(t, heroes, 2)
	assert.Equal(t, h1.ID, heroes[0].ID)
	assert.Equal(t, h2.ID, heroes[1].ID)
}

func TestUpdatePower(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p := mustPower(t, repo, "flight", "gives the wielder the power of flight")

	t.Run("valid description", func(t *testing.T) {
		require.NoError(t, p.SetDescription("lets the wielder soar through the skies"))
		require.NoError(t, repo.UpdatePower(ctx, p))
		got, err := repo.GetPower(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "lets the wielder soar through the skies", got.Description)
	})

	t.Run("invalid description bypassing setter is rejected", func(t *testing.T) {
		bad := *p
		bad.Description = "tiny"
		err := repo.UpdatePower(ctx, &bad)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))

		got, err := repo.GetPower(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "lets the wielder soar through the skies", got.Description)
	})

	t.Run("missing power", func(t *testing.T) {
		err := repo.UpdatePower(ctx, &domain.Power{ID: 77, Description: "a long enough description"})
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestListPowers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	mustPower(t, repo, "a", "aaaaaaaaaaaaaaaaaaaaaaaa")
	mustPower(t, repo, "b", "bbbbbbbbbbbbbbbbbbbbbbbb")

	powers, err := repo.ListPowers(ctx)
	require.NoError(t, err)
	require.Len(t, powers, 2)
	assert.Equal(t, "a", powers[0].Name)
	assert.Equal(t, "b", powers[1].Name)
}

// ============================================================================
// Hero Power CRUD Tests
// ============================================================================

func TestCreateHeroPower(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
	p := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")

	t.Run("valid edge", func(t *testing.T) {
		hp := mustHeroPower(t, repo, "Average", h.ID, p.ID)
		got, err := repo.GetHeroPower(ctx, hp.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StrengthAverage, got.Strength)
		require.NotNil(t, got.Hero)
		require.NotNil(t, got.Power)
		assert.Equal(t, "Kamala Khan", got.Hero.Name)
		assert.Equal(t, "elasticity", got.Power.Name)
	})

	t.Run("missing hero", func(t *testing.T) {
		hp := &domain.HeroPower{Strength: domain.StrengthWeak, HeroID: 999, PowerID: p.ID}
		err := repo.CreateHeroPower(ctx, hp)
		require.Error(t, err)
		assert.True(t, domain.IsReferentialIntegrity(err))
		assert.Zero(t, hp.ID)
	})

	t.Run("missing power", func(t *testing.T) {
		hp := &domain.HeroPower{Strength: domain.StrengthWeak, HeroID: h.ID, PowerID: 999}
		assert.True(t, domain.IsReferentialIntegrity(repo.CreateHeroPower(ctx, hp)))
	})

	t.Run("null reference", func(t *testing.T) {
		hp := &domain.HeroPower{Strength: domain.StrengthWeak, PowerID: p.ID}
		assert.True(t, domain.IsReferentialIntegrity(repo.CreateHeroPower(ctx, hp)))
	})

	t.Run("invalid strength bypassing constructor", func(t *testing.T) {
		hp := &domain.HeroPower{Strength: "Invincible", HeroID: h.ID, PowerID: p.ID}
		assert.True(t, domain.IsValidation(repo.CreateHeroPower(ctx, hp)))
	})

	assert.Equal(t, 1, countRows(t, repo, "hero_powers"))
}

func TestUpdateHeroPower(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
	p := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")
	hp := mustHeroPower(t, repo, "Average", h.ID, p.ID)

	require.NoError(t, hp.Apply(map[string]any{"strength": "Strong"}))
	require.NoError(t, repo.UpdateHeroPower(ctx, hp))

	got, err := repo.GetHeroPower(ctx, hp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StrengthStrong, got.Strength)

	t.Run("moving to a missing hero", func(t *testing.T) {
		moved := *got
		moved.HeroID = 555
		assert.True(t, domain.IsReferentialIntegrity(repo.UpdateHeroPower(ctx, &moved)))
	})

	t.Run("missing edge", func(t *testing.T) {
		missing := &domain.HeroPower{ID: 42, Strength: domain.StrengthWeak, HeroID: h.ID, PowerID: p.ID}
		assert.True(t, domain.IsNotFound(repo.UpdateHeroPower(ctx, missing)))
	})
}

func TestDeleteHeroPower(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
	p := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")
	hp := mustHeroPower(t, repo, "Average", h.ID, p.ID)

	require.NoError(t, repo.DeleteHeroPower(ctx, hp.ID))
	assert.True(t, domain.IsNotFound(repo.DeleteHeroPower(ctx, hp.ID)))

	// endpoints survive
	_, err := repo.GetHero(ctx, h.ID)
	assert.NoError(t, err)
	_, err = repo.GetPower(ctx, p.ID)
	assert.NoError(t, err)
}

func TestListHeroPowers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
	p1 := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")
	p2 := mustPower(t, repo, "flight", "gives the wielder the power of flight")
	mustHeroPower(t, repo, "Average", h.ID, p1.ID)
	mustHeroPower(t, repo, "Weak", h.ID, p2.ID)

	edges, err := repo.ListHeroPowers(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "flight", edges[1].Power.Name)
	assert.Equal(t, "Kamala Khan", edges[1].Hero.Name)
}

// ============================================================================
// Cascade Delete Tests
// ============================================================================

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting a hero removes exactly its edges", func(t *testing.T) {
		repo := newTestRepo(t)
		h1 := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
		h2 := mustHero(t, repo, "Doreen Green", "Squirrel Girl")

		const n = 4
		for i := 0; i < n; i++ {
			p := mustPower(t, repo, fmt.Sprintf("power-%d", i), strings.Repeat("x", 25))
			mustHeroPower(t, repo, "Strong", h1.ID, p.ID)
			mustHeroPower(t, repo, "Weak", h2.ID, p.ID)
		}

		removed, err := repo.DeleteHero(ctx, h1.ID)
		require.NoError(t, err)
		assert.Equal(t, n, removed)

		assert.Equal(t, n, countRows(t, repo, "hero_powers"))
		assert.Equal(t, n, countRows(t, repo, "powers"))

		_, err = repo.GetHero(ctx, h1.ID)
		assert.True(t, domain.IsNotFound(err))

		survivor, err := repo.GetHero(ctx, h2.ID)
		require.NoError(t, err)
		assert.Len(t, survivor.HeroPowers, n)
	})

	t.Run("deleting a power removes exactly its edges", func(t *testing.T) {
		repo := newTestRepo(t)
		p1 := mustPower(t, repo, "flight", "gives the wielder the power of flight")
		p2 := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")

		for i := 0; i < 3; i++ {
			h := mustHero(t, repo, fmt.Sprintf("hero-%d", i), "")
			mustHeroPower(t, repo, "Average", h.ID, p1.ID)
			mustHeroPower(t, repo, "Average", h.ID, p2.ID)
		}

		removed, err := repo.DeletePower(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, removed)
		assert.Equal(t, 3, countRows(t, repo, "heroes"))
		assert.Equal(t, 3, countRows(t, repo, "hero_powers"))
	})

	t.Run("deleting a missing record", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.DeleteHero(ctx, 1)
		assert.True(t, domain.IsNotFound(err))
		_, err = repo.DeletePower(ctx, 1)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("foreign key cascade also applies to raw deletes", func(t *testing.T) {
		repo := newTestRepo(t)
		h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
		p := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")
		mustHeroPower(t, repo, "Average", h.ID, p.ID)

		_, err := repo.db.Exec(`DELETE FROM heroes WHERE id = ?`, h.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, countRows(t, repo, "hero_powers"))
	})
}

// ============================================================================
// Schema Constraint Tests
// ============================================================================

func TestSchemaConstraints(t *testing.T) {
	repo := newTestRepo(t)
	h := mustHero(t, repo, "Kamala Khan", "Ms. Marvel")
	p := mustPower(t, repo, "elasticity", "Can stretch the body into extreme lengths.")

	t.Run("check on description", func(t *testing.T) {
		_, err := repo.db.Exec(`INSERT INTO powers (name, description) VALUES ('x', 'short')`)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(convertError(err)))
	})

	t.Run("check on strength", func(t *testing.T) {
		_, err := repo.db.Exec(`INSERT INTO hero_powers (strength, hero_id, power_id) VALUES ('Mighty', ?, ?)`, h.ID, p.ID)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(convertError(err)))
	})

	t.Run("foreign key", func(t *testing.T) {
		_, err := repo.db.Exec(`INSERT INTO hero_powers (strength, hero_id, power_id) VALUES ('Weak', 999, ?)`, p.ID)
		require.Error(t, err)
		assert.True(t, domain.IsReferentialIntegrity(convertError(err)))
	})

	t.Run("named foreign key constraints", func(t *testing.T) {
		var ddl string
		require.NoError(t, repo.db.QueryRow(`SELECT sql FROM sqlite_master WHERE name = 'hero_powers'`).Scan(&ddl))
		assert.Contains(t, ddl, "fk_hero_powers_hero_id_heroes")
		assert.Contains(t, ddl, "fk_hero_powers_power_id_powers")
	})
}

func TestConvertErrorPassthrough(t *testing.T) {
	assert.NoError(t, convertError(nil))
	plain := errors.New("disk full")
	assert.Same(t, plain, convertError(plain))
}

// ============================================================================
// Bulk Operation Tests
// ============================================================================

func TestImportExportRoster(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// existing data is replaced
	mustHero(t, repo, "old", "old")

	roster := domain.NewRoster()
	roster.AddHero(&domain.Hero{ID: 10, Name: "Kamala Khan", SuperName: "Ms. Marvel"})
	roster.AddHero(&domain.Hero{ID: 11, Name: "Doreen Green", SuperName: "Squirrel Girl"})
	roster.AddPower(&domain.Power{ID: 20, Name: "elasticity", Description: "Can stretch the body into extreme lengths."})
	roster.AddHeroPower(&domain.HeroPower{ID: 30, Strength: domain.StrengthAverage, HeroID: 10, PowerID: 20})

	require.NoError(t, repo.ImportRoster(ctx, roster))

	exported, err := repo.ExportRoster(ctx)
	require.NoError(t, err)
	require.Len(t, exported.Heroes, 2)
	require.Len(t, exported.Powers, 1)
	require.Len(t, exported.HeroPowers, 1)
	assert.Equal(t, int64(10), exported.Heroes[0].ID)
	assert.Equal(t, int64(30), exported.HeroPowers[0].ID)
	assert.Equal(t, domain.StrengthAverage, exported.HeroPowers[0].Strength)

	t.Run("ids continue after imported ids", func(t *testing.T) {
		h := mustHero(t, repo, "new", "new")
		assert.Greater(t, h.ID, int64(11))
	})

	t.Run("invalid roster leaves store untouched", func(t *testing.T) {
		bad := domain.NewRoster()
		bad.AddPower(&domain.Power{ID: 1, Description: "short"})
		err := repo.ImportRoster(ctx, bad)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Equal(t, 3, countRows(t, repo, "heroes"))
	})
}
