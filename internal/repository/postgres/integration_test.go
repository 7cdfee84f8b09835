//go:build integration
// +build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"superheroes/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestRepo starts a PostgreSQL container and returns a migrated repository
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("superheroes"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repo, err := New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestPostgresRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	hero := domain.NewHero("Kamala Khan", "Ms. Marvel")
	require.NoError(t, repo.CreateHero(ctx, hero))

	power, err := domain.NewPower("elasticity", "Can stretch the body into extreme lengths.")
	require.NoError(t, err)
	require.NoError(t, repo.CreatePower(ctx, power))

	hp, err := domain.NewHeroPower("Strong", hero.ID, power.ID)
	require.NoError(t, err)
	require.NoError(t, repo.CreateHeroPower(ctx, hp))

	t.Run("get hero loads edges", func(t *testing.T) {
		got, err := repo.GetHero(ctx, hero.ID)
		require.NoError(t, err)
		require.Len(t, got.HeroPowers, 1)
		assert.Equal(t, "elasticity", got.HeroPowers[0].Power.Name)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		bad := &domain.HeroPower{Strength: domain.StrengthWeak, HeroID: hero.ID, PowerID: 9999}
		err := repo.CreateHeroPower(ctx, bad)
		assert.True(t, domain.IsReferentialIntegrity(err))
	})

	t.Run("description check", func(t *testing.T) {
		_, err := repo.pool.Exec(ctx, `INSERT INTO powers (name, description) VALUES ('x', 'short')`)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(convertError(err)))
	})

	t.Run("cascade delete", func(t *testing.T) {
		removed, err := repo.DeleteHero(ctx, hero.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = repo.GetHeroPower(ctx, hp.ID)
		assert.True(t, domain.IsNotFound(err))

		_, err = repo.GetPower(ctx, power.ID)
		assert.NoError(t, err)
	})

	t.Run("import then create continues ids", func(t *testing.T) {
		roster := domain.NewRoster()
		roster.AddHero(&domain.Hero{ID: 50, Name: "Doreen Green", SuperName: "Squirrel Girl"})
		roster.AddPower(&domain.Power{ID: 60, Name: "flight", Description: "gives the wielder the power of flight"})
		roster.AddHeroPower(&domain.HeroPower{ID: 70, Strength: domain.StrengthWeak, HeroID: 50, PowerID: 60})
		require.NoError(t, repo.ImportRoster(ctx, roster))

		exported, err := repo.ExportRoster(ctx)
		require.NoError(t, err)
		assert.Len(t, exported.Heroes, 1)
		assert.Len(t, exported.HeroPowers, 1)

		h := domain.NewHero("Gwen Stacy", "Spider-Gwen")
		require.NoError(t, repo.CreateHero(ctx, h))
		assert.Equal(t, int64(51), h.ID)
	})
}
