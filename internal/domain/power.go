package domain

import "unicode/utf8"

// MinDescriptionLength is the minimum number of characters in a power description
const MinDescriptionLength = 20

// Power represents a named, described capability
type Power struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// HeroPowers holds the loaded edges owned by this power, nil if not loaded
	HeroPowers []*HeroPower `json:"-"`
}

// NewPower creates a new power, rejecting an invalid description
func NewPower(name, description string) (*Power, error) {
	p := &Power{Name: name}
	if err := p.SetDescription(description); err != nil {
		return nil, err
	}
	return p, nil
}

// SetDescription assigns the description if it is at least
// MinDescriptionLength characters long. On failure the prior value is kept.
func (p *Power) SetDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	p.Description = description
	return nil
}

func validateDescription(description string) error {
	if description == "" || utf8.RuneCountInString(description) < MinDescriptionLength {
		return NewValidationError("description", MsgDescriptionTooShort)
	}
	return nil
}

// AddHeroPower attaches an edge to the power and points the edge back at it
func (p *Power) AddHeroPower(hp *HeroPower) {
	hp.Power = p
	hp.PowerID = p.ID
	p.HeroPowers = append(p.HeroPowers, hp)
}

// Heroes returns the heroes reachable through the loaded edges, in edge order
func (p *Power) Heroes() []*Hero {
	heroes := make([]*Hero, 0, len(p.HeroPowers))
	for _, hp := range p.HeroPowers {
		if hp.Hero != nil {
			heroes = append(heroes, hp.Hero)
		}
	}
	return heroes
}

// Apply updates the named fields. Every value is checked before any is
// written, so a rejected update leaves the power unchanged.
func (p *Power) Apply(updates map[string]any) error {
	next := *p
	for _, field := range sortedFields(updates) {
		value := updates[field]
		s, err := stringValue(field, value)
		switch field {
		case "name":
			if err != nil {
				return err
			}
			next.Name = s
		case "description":
			if err != nil {
				return err
			}
			if err := next.SetDescription(s); err != nil {
				return err
			}
		default:
			return unknownField(field)
		}
	}
	p.Name = next.Name
	p.Description = next.Description
	return nil
}

// Validate checks the stored description
func (p *Power) Validate() error {
	return validateDescription(p.Description)
}
