package services

import (
	"encoding/json"
	"fmt"
)

// encodeStringList serializes a string list into its stored JSON form. A nil
// slice encodes as an empty list.
func encodeStringList(xs []string) (string, error) {
	if xs == nil {
		xs = []string{}
	}
	data, err := json.Marshal(xs)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(data), nil
}

// decodeStringList parses a stored JSON string list. An empty string decodes
// to no entries.
func decodeStringList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var xs []string
	if err := json.Unmarshal([]byte(s), &xs); err != nil {
		return nil, fmt.Errorf("invalid string list: %w", err)
	}
	return xs, nil
}
