package codec

import (
	"errors"
	"fmt"
	"io"

	"superheroes/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a roster from YAML. An empty document is an empty roster.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Roster, error) {
	var doc rosterDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Format: c.Format(), Err: err}
	}

	return doc.toRoster()
}

// Export exports a roster to YAML
func (c *YAMLCodec) Export(roster *domain.Roster, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(fromRoster(roster)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
