package codec

import (
	"bytes"
	_ "embed"

	"superheroes/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// DefaultRoster returns the built-in sample roster
func DefaultRoster() (*domain.Roster, error) {
	return NewYAMLCodec().Parse(bytes.NewReader(seedYAML))
}
