package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadDocument reads a scene from a JSON document on disk.
func LoadDocument(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't read scene document:\n%w", err)
	}

	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("Couldn't parse scene document %s:\n%w", path, err)
	}
	if s.Dims.Resolution[0] <= 0 || s.Dims.Resolution[1] <= 0 {
		return nil, fmt.Errorf("Scene document %s has invalid resolution %v", path, s.Dims.Resolution)
	}
	if s.Dims.WidthCm <= 0 {
		return nil, fmt.Errorf("Scene document %s has invalid width %v", path, s.Dims.WidthCm)
	}

	return &s, nil
}

// SaveDocument writes the scene to disk as an indented JSON document so
// it stays editable by hand.
func SaveDocument(path string, s *Scene) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("Couldn't serialise scene:\n%w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("Couldn't write scene document:\n%w", err)
	}
	return nil
}
