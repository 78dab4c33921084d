package engine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/mollmap/internal/projection"
)

var ErrNoPoints = errors.New("no points to locate")

// PointsFile is the YAML layout accepted by ReadPoints:
//
//	points:
//	  - {lat: 55.75, lon: 37.62}
//	  - {lat: -33.87, lon: 151.21}
type PointsFile struct {
	Points []projection.GeoPoint `yaml:"points"`
}

// ReadPoints loads geographic points from a YAML file. Range checks are left
// to the projector so one bad entry does not reject the whole file.
func ReadPoints(path string) ([]projection.GeoPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read points file: %w", err)
	}

	var file PointsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse points file: %w", err)
	}

	if len(file.Points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPoints, path)
	}
	return file.Points, nil
}
