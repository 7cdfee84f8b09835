package domain

// Strength rates how strongly a hero wields a power
type Strength string

const (
	StrengthStrong  Strength = "Strong"
	StrengthWeak    Strength = "Weak"
	StrengthAverage Strength = "Average"
)

// Strengths lists the accepted strength values
var Strengths = []Strength{StrengthStrong, StrengthWeak, StrengthAverage}

// ParseStrength converts s to a Strength. The match is exact and case sensitive.
func ParseStrength(s string) (Strength, error) {
	st := Strength(s)
	if !st.Valid() {
		return "", NewValidationError("strength", MsgInvalidStrength)
	}
	return st, nil
}

// Valid reports whether s is one of the accepted values
func (s Strength) Valid() bool {
	switch s {
	case StrengthStrong, StrengthWeak, StrengthAverage:
		return true
	}
	return false
}

// HeroPower attaches a Power to a Hero with a strength rating
type HeroPower struct {
	ID       int64    `json:"id"`
	Strength Strength `json:"strength"`
	HeroID   int64    `json:"hero_id"`
	PowerID  int64    `json:"power_id"`

	// Hero and Power are the loaded endpoints, nil if not loaded
	Hero  *Hero  `json:"-"`
	Power *Power `json:"-"`
}

// NewHeroPower creates a new edge between a hero and a power. Both
// references are required; whether they exist is checked by the store.
func NewHeroPower(strength string, heroID, powerID int64) (*HeroPower, error) {
	hp := &HeroPower{HeroID: heroID, PowerID: powerID}
	if err := hp.SetStrength(strength); err != nil {
		return nil, err
	}
	if err := hp.validateReferences(); err != nil {
		return nil, err
	}
	return hp, nil
}

// SetStrength assigns the strength if it is one of Strong, Weak or Average.
// On failure the prior value is kept.
func (hp *HeroPower) SetStrength(strength string) error {
	st, err := ParseStrength(strength)
	if err != nil {
		return err
	}
	hp.Strength = st
	return nil
}

// Apply updates the named fields. Every value is checked before any is
// written, so a rejected update leaves the edge unchanged.
func (hp *HeroPower) Apply(updates map[string]any) error {
	next := *hp
	for _, field := range sortedFields(updates) {
		value := updates[field]
		switch field {
		case "strength":
			s, err := stringValue(field, value)
			if err != nil {
				return err
			}
			if err := next.SetStrength(s); err != nil {
				return err
			}
		case "hero_id":
			id, err := idValue(field, value)
			if err != nil {
				return err
			}
			next.HeroID = id
		case "power_id":
			id, err := idValue(field, value)
			if err != nil {
				return err
			}
			next.PowerID = id
		default:
			return unknownField(field)
		}
	}
	if err := next.validateReferences(); err != nil {
		return err
	}

	if next.HeroID != hp.HeroID {
		hp.Hero = nil
	}
	if next.PowerID != hp.PowerID {
		hp.Power = nil
	}
	hp.Strength = next.Strength
	hp.HeroID = next.HeroID
	hp.PowerID = next.PowerID
	return nil
}

// Validate checks the stored strength and that both references are set
func (hp *HeroPower) Validate() error {
	if !hp.Strength.Valid() {
		return NewValidationError("strength", MsgInvalidStrength)
	}
	return hp.validateReferences()
}

func (hp *HeroPower) validateReferences() error {
	if hp.HeroID <= 0 {
		return NewReferentialIntegrityError("hero_id", 0, "is required")
	}
	if hp.PowerID <= 0 {
		return NewReferentialIntegrityError("power_id", 0, "is required")
	}
	return nil
}
