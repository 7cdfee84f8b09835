package domain

import "fmt"

// Roster is the complete set of records, used for bulk import and export
type Roster struct {
	Heroes     []*Hero      `json:"heroes"`
	Powers     []*Power     `json:"powers"`
	HeroPowers []*HeroPower `json:"hero_powers"`
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{
		Heroes:     make([]*Hero, 0),
		Powers:     make([]*Power, 0),
		HeroPowers: make([]*HeroPower, 0),
	}
}

// AddHero adds a hero to the roster
func (r *Roster) AddHero(h *Hero) {
	r.Heroes = append(r.Heroes, h)
}

// AddPower adds a power to the roster
func (r *Roster) AddPower(p *Power) {
	r.Powers = append(r.Powers, p)
}

// AddHeroPower adds an edge to the roster
func (r *Roster) AddHeroPower(hp *HeroPower) {
	r.HeroPowers = append(r.HeroPowers, hp)
}

// Validate checks every record, that IDs are positive and unique per kind,
// and that every edge references a hero and a power present in the roster.
func (r *Roster) Validate() error {
	heroIDs := make(map[int64]bool, len(r.Heroes))
	for _, h := range r.Heroes {
		if err := checkRosterID("hero", h.ID, heroIDs); err != nil {
			return err
		}
	}

	powerIDs := make(map[int64]bool, len(r.Powers))
	for _, p := range r.Powers {
		if err := checkRosterID("power", p.ID, powerIDs); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("power %d: %w", p.ID, err)
		}
	}

	edgeIDs := make(map[int64]bool, len(r.HeroPowers))
	for _, hp := range r.HeroPowers {
		if err := checkRosterID("hero_power", hp.ID, edgeIDs); err != nil {
			return err
		}
		if err := hp.Validate(); err != nil {
			return fmt.Errorf("hero_power %d: %w", hp.ID, err)
		}
		if !heroIDs[hp.HeroID] {
			return NewReferentialIntegrityError("hero_id", hp.HeroID, "references a missing hero")
		}
		if !powerIDs[hp.PowerID] {
			return NewReferentialIntegrityError("power_id", hp.PowerID, "references a missing power")
		}
	}
	return nil
}

func checkRosterID(kind string, id int64, seen map[int64]bool) error {
	if id <= 0 {
		return NewValidationError("id", fmt.Sprintf("%s id must be positive, got %d.", kind, id))
	}
	if seen[id] {
		return NewValidationError("id", fmt.Sprintf("Duplicate %s id %d.", kind, id))
	}
	seen[id] = true
	return nil
}
