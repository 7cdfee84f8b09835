package codec

import (
	"fmt"
	"io"
	"strings"

	"superheroes/internal/domain"
)

// Importer interface for importing roster data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Roster, error)
	Format() string
}

// Exporter interface for exporting roster data to various formats
type Exporter interface {
	Export(roster *domain.Roster, w io.Writer) error
	Format() string
}

// Codec both imports and exports a single format
type Codec interface {
	Importer
	Exporter
}

// ParseError reports a document that could not be decoded at all, as
// opposed to one that decoded but holds invalid records
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", strings.ToUpper(e.Format), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ForFormat returns the codec for a format name. An empty name selects JSON.
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// rosterDocument is the wire shape shared by every format
type rosterDocument struct {
	Heroes     []heroRecord      `json:"heroes" yaml:"heroes"`
	Powers     []powerRecord     `json:"powers" yaml:"powers"`
	HeroPowers []heroPowerRecord `json:"hero_powers" yaml:"hero_powers"`
}

type heroRecord struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	SuperName string `json:"super_name" yaml:"super_name"`
}

type powerRecord struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type heroPowerRecord struct {
	ID       int64  `json:"id" yaml:"id"`
	Strength string `json:"strength" yaml:"strength"`
	HeroID   int64  `json:"hero_id" yaml:"hero_id"`
	PowerID  int64  `json:"power_id" yaml:"power_id"`
}

// toRoster builds domain records through their constructors, so invalid
// descriptions or strengths are rejected here, then checks references.
func (d *rosterDocument) toRoster() (*domain.Roster, error) {
	roster := domain.NewRoster()

	for _, h := range d.Heroes {
		hero := domain.NewHero(h.Name, h.SuperName)
		hero.ID = h.ID
		roster.AddHero(hero)
	}

	for _, p := range d.Powers {
		power, err := domain.NewPower(p.Name, p.Description)
		if err != nil {
			return nil, fmt.Errorf("power %d: %w", p.ID, err)
		}
		power.ID = p.ID
		roster.AddPower(power)
	}

	for _, hp := range d.HeroPowers {
		edge, err := domain.NewHeroPower(hp.Strength, hp.HeroID, hp.PowerID)
		if err != nil {
			return nil, fmt.Errorf("hero_power %d: %w", hp.ID, err)
		}
		edge.ID = hp.ID
		roster.AddHeroPower(edge)
	}

	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return roster, nil
}

func fromRoster(roster *domain.Roster) *rosterDocument {
	doc := &rosterDocument{
		Heroes:     make([]heroRecord, 0, len(roster.Heroes)),
		Powers:     make([]powerRecord, 0, len(roster.Powers)),
		HeroPowers: make([]heroPowerRecord, 0, len(roster.HeroPowers)),
	}
	for _, h := range roster.Heroes {
		doc.Heroes = append(doc.Heroes, heroRecord{ID: h.ID, Name: h.Name, SuperName: h.SuperName})
	}
	for _, p := range roster.Powers {
		doc.Powers = append(doc.Powers, powerRecord{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	for _, hp := range roster.HeroPowers {
		doc.HeroPowers = append(doc.HeroPowers, heroPowerRecord{
			ID:       hp.ID,
			Strength: string(hp.Strength),
			HeroID:   hp.HeroID,
			PowerID:  hp.PowerID,
		})
	}
	return doc
}
