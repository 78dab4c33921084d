package calibration

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteRecord writes a calibration record to a YAML file
func WriteRecord(record *Record, path string) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// ReadRecord reads and validates a calibration record from a YAML file
func ReadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record Record
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &record, nil
}
