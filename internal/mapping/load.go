package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes mappings from YAML. JSON documents are accepted as well.
func Parse(data []byte) (Mappings, error) {
	var m Mappings
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mappings: %w", err)
	}
	if m == nil {
		m = make(Mappings)
	}
	return m, nil
}

// LoadFile reads and decodes a mappings file
func LoadFile(path string) (Mappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadFiles loads each file in order and folds them together with the same
// additive rules the store uses, so later files win on conflicting keys.
func LoadFiles(paths []string) (Mappings, error) {
	out := make(Mappings)
	for _, path := range paths {
		m, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		mergeInto(out, m)
	}
	return out, nil
}

// Combine folds the given mapping sets left to right into a new set.
func Combine(sets ...Mappings) Mappings {
	out := make(Mappings)
	for _, m := range sets {
		mergeInto(out, m)
	}
	return out
}
