package domain

// Hero represents a named character
type Hero struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SuperName string `json:"super_name"`

	// HeroPowers holds the loaded edges owned by this hero. A nil slice means
	// the edges were not loaded; an empty slice means the hero has none.
	HeroPowers []*HeroPower `json:"-"`
}

// NewHero creates a new hero. Hero fields carry no invariants.
func NewHero(name, superName string) *Hero {
	return &Hero{
		Name:      name,
		SuperName: superName,
	}
}

// AddHeroPower attaches an edge to the hero and points the edge back at it
func (h *Hero) AddHeroPower(hp *HeroPower) {
	hp.Hero = h
	hp.HeroID = h.ID
	h.HeroPowers = append(h.HeroPowers, hp)
}

// Powers returns the powers reachable through the loaded edges, in edge order
func (h *Hero) Powers() []*Power {
	powers := make([]*Power, 0, len(h.HeroPowers))
	for _, hp := range h.HeroPowers {
		if hp.Power != nil {
			powers = append(powers, hp.Power)
		}
	}
	return powers
}

// Apply updates the named fields. Unknown fields and non-string values are
// rejected and nothing is written.
func (h *Hero) Apply(updates map[string]any) error {
	next := *h
	for _, field := range sortedFields(updates) {
		value := updates[field]
		switch field {
		case "name":
			s, err := stringValue(field, value)
			if err != nil {
				return err
			}
			next.Name = s
		case "super_name":
			s, err := stringValue(field, value)
			if err != nil {
				return err
			}
			next.SuperName = s
		default:
			return unknownField(field)
		}
	}
	h.Name = next.Name
	h.SuperName = next.SuperName
	return nil
}

// Validate always succeeds; it exists so every record type can be checked the same way
func (h *Hero) Validate() error {
	return nil
}
