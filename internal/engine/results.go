package engine

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/ivlev/mollmap/internal/projection"
	"github.com/ivlev/mollmap/internal/system"
)

// Result is the outcome of locating one point.
type Result struct {
	Index      int                 `json:"index"`
	Point      projection.GeoPoint `json:"point"`
	X          int                 `json:"x"`
	Y          int                 `json:"y"`
	PlaneX     float64             `json:"plane_x"`
	PlaneY     float64             `json:"plane_y"`
	Theta      float64             `json:"theta"`
	Iterations int                 `json:"iterations"`
	Converged  bool                `json:"converged"`
	Pole       bool                `json:"pole"`
	Error      string              `json:"error,omitempty"`
}

func (r Result) Pixel() image.Point {
	return image.Pt(r.X, r.Y)
}

// ResultsFile is the JSON document written by a locate run.
type ResultsFile struct {
	Calibration string            `json:"calibration"`
	Bounds      projection.Bounds `json:"bounds"`
	Clamp       string            `json:"clamp"`
	Results     []Result          `json:"results"`
	Host        *system.HostInfo  `json:"host,omitempty"`
}

func WriteResults(doc *ResultsFile, path string) error {
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}

func ReadResults(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var doc ResultsFile
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &doc, nil
}
