package calibration

import (
	"fmt"
	"image"

	"github.com/ivlev/mollmap/internal/analyzer"
	"github.com/ivlev/mollmap/internal/logging"
)

// Calibrator derives calibration records from rendered map images
type Calibrator struct {
	Classifier *analyzer.Classifier
	TieBreak   analyzer.TieBreak
}

// NewCalibrator creates a new Calibrator with default settings
func NewCalibrator() *Calibrator {
	return &Calibrator{
		Classifier: analyzer.NewClassifier(),
		TieBreak:   analyzer.TieFirst,
	}
}

// Calibrate finds the map outline in img and records its extremal points.
//
// The pipeline is classify -> principal cluster -> extremes. Errors from the
// classifier (ErrEmptyImage) and the cluster finder (ErrNoBoundary) are
// wrapped, so callers can retry with another threshold.
func (c *Calibrator) Calibrate(img image.Image, source string) (*Record, error) {
	logger := logging.Module("calibration")

	mask, err := c.Classifier.Classify(img)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", source, err)
	}

	clusters := analyzer.Components(mask)
	logger.Debug().
		Int("boundary_pixels", mask.Count()).
		Int("clusters", len(clusters)).
		Msg("Boundary classified")

	outline, err := c.TieBreak.Select(clusters)
	if err != nil {
		return nil, fmt.Errorf("find outline in %s: %w", source, err)
	}

	ext := analyzer.SelectExtremes(outline)
	bounds := img.Bounds()
	record := NewRecord(source, bounds.Dx(), bounds.Dy(), ext)
	record.Threshold = c.Classifier.Threshold

	if err := record.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("source", source).
		Int("outline_pixels", outline.Size()).
		Stringer("outline_rect", outline.Rect()).
		Stringer("west", ext.West).
		Stringer("east", ext.East).
		Stringer("north", ext.North).
		Stringer("south", ext.South).
		Msg("Calibration complete")

	return record, nil
}
