package repository

import (
	"context"

	"superheroes/internal/domain"
)

// Repository defines the interface for roster data access
type Repository interface {
	// Heroes
	CreateHero(ctx context.Context, hero *domain.Hero) error
	GetHero(ctx context.Context, id int64) (*domain.Hero, error)
	ListHeroes(ctx context.Context) ([]*domain.Hero, error)
	UpdateHero(ctx context.Context, hero *domain.Hero) error
	DeleteHero(ctx context.Context, id int64) (int, error)

	// Powers
	CreatePower(ctx context.Context, power *domain.Power) error
	GetPower(ctx context.Context, id int64) (*domain.Power, error)
	ListPowers(ctx context.Context) ([]*domain.Power, error)
	UpdatePower(ctx context.Context, power *domain.Power) error
	DeletePower(ctx context.Context, id int64) (int, error)

	// Hero powers
	CreateHeroPower(ctx context.Context, hp *domain.HeroPower) error
	GetHeroPower(ctx context.Context, id int64) (*domain.HeroPower, error)
	ListHeroPowers(ctx context.Context) ([]*domain.HeroPower, error)
	UpdateHeroPower(ctx context.Context, hp *domain.HeroPower) error
	DeleteHeroPower(ctx context.Context, id int64) error

	// Bulk operations
	ImportRoster(ctx context.Context, roster *domain.Roster) error
	ExportRoster(ctx context.Context) (*domain.Roster, error)

	// Close releases resources
	Close() error
}
