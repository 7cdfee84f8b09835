package service

import (
	"context"
	"fmt"
	"io"

	"superheroes/internal/codec"
	"superheroes/internal/domain"
	"superheroes/internal/repository"

	"go.uber.org/zap"
)

// RosterService provides business logic for heroes, powers and hero powers
type RosterService struct {
	repo     repository.Repository
	eventBus *EventBus
	logger   *zap.Logger
}

// NewRosterService creates a new roster service. A nil logger disables logging.
func NewRosterService(repo repository.Repository, eventBus *EventBus, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger.Named("roster"),
	}
}

func (s *RosterService) publish(t EventType, payload any) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(Event{Type: t, Payload: payload})
}

// ============================================================================
// Heroes
// ============================================================================

// GetHero retrieves a hero with its powers loaded
func (s *RosterService) GetHero(ctx context.Context, id int64) (*domain.Hero, error) {
	return s.repo.GetHero(ctx, id)
}

// ListHeroes returns all heroes
func (s *RosterService) ListHeroes(ctx context.Context) ([]*domain.Hero, error) {
	return s.repo.ListHeroes(ctx)
}

// CreateHero creates a new hero
func (s *RosterService) CreateHero(ctx context.Context, hero *domain.Hero) error {
	if err := s.repo.CreateHero(ctx, hero); err != nil {
		return err
	}

	s.logger.Debug("hero created", zap.Int64("hero_id", hero.ID))
	s.publish(EventHeroCreated, map[string]int64{"hero_id": hero.ID})
	return nil
}

// UpdateHero applies a partial update to an existing hero
func (s *RosterService) UpdateHero(ctx context.Context, id int64, updates map[string]any) (*domain.Hero, error) {
	hero, err := s.repo.GetHero(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := hero.Apply(updates); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateHero(ctx, hero); err != nil {
		return nil, err
	}

	s.publish(EventHeroUpdated, map[string]int64{"hero_id": id})
	return hero, nil
}

// DeleteHero removes a hero and its hero powers
func (s *RosterService) DeleteHero(ctx context.Context, id int64) error {
	removed, err := s.repo.DeleteHero(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Debug("hero deleted", zap.Int64("hero_id", id), zap.Int("hero_powers_removed", removed))
	s.publish(EventHeroDeleted, map[string]any{"hero_id": id, "hero_powers_removed": removed})
	return nil
}

// ============================================================================
// Powers
// ============================================================================

// GetPower retrieves a power with its hero powers loaded
func (s *RosterService) GetPower(ctx context.Context, id int64) (*domain.Power, error) {
	return s.repo.GetPower(ctx, id)
}

// ListPowers returns all powers
func (s *RosterService) ListPowers(ctx context.Context) ([]*domain.Power, error) {
	return s.repo.ListPowers(ctx)
}

// CreatePower creates a new power
func (s *RosterService) CreatePower(ctx context.Context, power *domain.Power) error {
	if err := s.repo.CreatePower(ctx, power); err != nil {
		return err
	}

	s.logger.Debug("power created", zap.Int64("power_id", power.ID))
	s.publish(EventPowerCreated, map[string]int64{"power_id": power.ID})
	return nil
}

// UpdatePower applies a partial update to an existing power. The description
// is re-validated before anything is written.
func (s *RosterService) UpdatePower(ctx context.Context, id int64, updates map[string]any) (*domain.Power, error) {
	power, err := s.repo.GetPower(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := power.Apply(updates); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePower(ctx, power); err != nil {
		return nil, err
	}

	s.publish(EventPowerUpdated, map[string]int64{"power_id": id})
	return power, nil
}

// DeletePower removes a power and its hero powers
func (s *RosterService) DeletePower(ctx context.Context, id int64) error {
	removed, err := s.repo.DeletePower(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Debug("power deleted", zap.Int64("power_id", id), zap.Int("hero_powers_removed", removed))
	s.publish(EventPowerDeleted, map[string]any{"power_id": id, "hero_powers_removed": removed})
	return nil
}

// ============================================================================
// Hero Powers
// ============================================================================

// GetHeroPower retrieves a hero power with both endpoints loaded
func (s *RosterService) GetHeroPower(ctx context.Context, id int64) (*domain.HeroPower, error) {
	return s.repo.GetHeroPower(ctx, id)
}

// ListHeroPowers returns all hero powers
func (s *RosterService) ListHeroPowers(ctx context.Context) ([]*domain.HeroPower, error) {
	return s.repo.ListHeroPowers(ctx)
}

// CreateHeroPower links a hero to a power and returns the stored edge with
// both endpoints loaded
func (s *RosterService) CreateHeroPower(ctx context.Context, hp *domain.HeroPower) (*domain.HeroPower, error) {
	if err := s.repo.CreateHeroPower(ctx, hp); err != nil {
		return nil, err
	}

	s.logger.Debug("hero power created",
		zap.Int64("hero_power_id", hp.ID),
		zap.Int64("hero_id", hp.HeroID),
		zap.Int64("power_id", hp.PowerID))
	s.publish(EventHeroPowerCreated, map[string]int64{
		"hero_power_id": hp.ID,
		"hero_id":       hp.HeroID,
		"power_id":      hp.PowerID,
	})

	return s.repo.GetHeroPower(ctx, hp.ID)
}

// UpdateHeroPower applies a partial update to an existing hero power
func (s *RosterService) UpdateHeroPower(ctx context.Context, id int64, updates map[string]any) (*domain.HeroPower, error) {
	hp, err := s.repo.GetHeroPower(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := hp.Apply(updates); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateHeroPower(ctx, hp); err != nil {
		return nil, err
	}

	s.publish(EventHeroPowerUpdated, map[string]int64{"hero_power_id": id})
	return s.repo.GetHeroPower(ctx, id)
}

// DeleteHeroPower removes a single hero power
func (s *RosterService) DeleteHeroPower(ctx context.Context, id int64) error {
	if err := s.repo.DeleteHeroPower(ctx, id); err != nil {
		return err
	}

	s.publish(EventHeroPowerDeleted, map[string]int64{"hero_power_id": id})
	return nil
}

// ============================================================================
// Import/Export
// ============================================================================

// ImportResult summarizes a roster import
type ImportResult struct {
	Heroes     int `json:"heroes"`
	Powers     int `json:"powers"`
	HeroPowers int `json:"hero_powers"`
}

// Import parses a roster document and replaces all stored records with it
func (s *RosterService) Import(ctx context.Context, importer codec.Importer, r io.Reader) (*ImportResult, error) {
	roster, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ImportRoster(ctx, roster); err != nil {
		return nil, fmt.Errorf("failed to import roster: %w", err)
	}

	result := &ImportResult{
		Heroes:     len(roster.Heroes),
		Powers:     len(roster.Powers),
		HeroPowers: len(roster.HeroPowers),
	}
	s.logger.Info("roster imported",
		zap.String("format", importer.Format()),
		zap.Int("heroes", result.Heroes),
		zap.Int("powers", result.Powers),
		zap.Int("hero_powers", result.HeroPowers))
	s.publish(EventRosterImported, result)

	return result, nil
}

// Export writes every stored record as a roster document
func (s *RosterService) Export(ctx context.Context, exporter codec.Exporter, w io.Writer) error {
	roster, err := s.repo.ExportRoster(ctx)
	if err != nil {
		return err
	}
	return exporter.Export(roster, w)
}
