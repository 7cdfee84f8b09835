package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"superheroes/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a roster from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Roster, error) {
	var doc rosterDocument
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, &ParseError{Format: c.Format(), Err: err}
	}

	return doc.toRoster()
}

// Export exports a roster to JSON
func (c *JSONCodec) Export(roster *domain.Roster, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(fromRoster(roster)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
