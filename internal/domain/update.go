package domain

import (
	"fmt"
	"maps"
	"slices"
)

// maxExactID bounds the integers a JSON number carries without loss
const maxExactID = 1 << 53

// stringValue extracts a string from a decoded update value
func stringValue(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", NewValidationError(field, fmt.Sprintf("%s must be a string.", field))
	}
	return s, nil
}

// idValue extracts a record ID from a decoded update value. JSON numbers
// arrive as float64.
func idValue(field string, value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v >= -maxExactID && v <= maxExactID && v == float64(int64(v)) {
			return int64(v), nil
		}
	}
	return 0, NewValidationError(field, fmt.Sprintf("%s must be an integer.", field))
}

// sortedFields orders update keys so the first reported error is stable
func sortedFields(updates map[string]any) []string {
	return slices.Sorted(maps.Keys(updates))
}

func unknownField(field string) error {
	return NewValidationError(field, fmt.Sprintf("Unknown field '%s'.", field))
}
