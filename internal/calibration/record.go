package calibration

import (
	"errors"
	"fmt"
	"image"

	"github.com/ivlev/mollmap/internal/analyzer"
	"github.com/ivlev/mollmap/internal/projection"
)

// RecordVersion is written into every new record.
const RecordVersion = "1.0"

// ErrInvalidRecord is returned for records whose points do not span a map.
var ErrInvalidRecord = errors.New("invalid calibration record")

// Record is the persisted calibration of one rendered map
type Record struct {
	Version   string `yaml:"version"`
	Source    string `yaml:"source"`              // Image the record was derived from
	Width     int    `yaml:"width"`               // Source width in pixels, 0 if unknown
	Height    int    `yaml:"height"`              // Source height in pixels, 0 if unknown
	Threshold uint8  `yaml:"threshold,omitempty"` // Background threshold used
	West      Point  `yaml:"west"`
	East      Point  `yaml:"east"`
	North     Point  `yaml:"north"`
	South     Point  `yaml:"south"`
}

// Point is a pixel coordinate
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// FromImage converts an image.Point
func FromImage(p image.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// Image converts to an image.Point
func (p Point) Image() image.Point {
	return image.Pt(p.X, p.Y)
}

// Default reproduces the bounds of the reference titan.png map.
var Default = Record{
	Version: RecordVersion,
	Source:  "data/titan.png",
	West:    Point{X: 44, Y: 329},
	East:    Point{X: 1336, Y: 329},
	North:   Point{X: 690, Y: 5},
	South:   Point{X: 690, Y: 653},
}

// NewRecord builds a record from selected extremes
func NewRecord(source string, width, height int, ext analyzer.Extremes) *Record {
	return &Record{
		Version: RecordVersion,
		Source:  source,
		Width:   width,
		Height:  height,
		West:    FromImage(ext.West),
		East:    FromImage(ext.East),
		North:   FromImage(ext.North),
		South:   FromImage(ext.South),
	}
}

// Extremes returns the four points as analyzer extremes
func (r *Record) Extremes() analyzer.Extremes {
	return analyzer.Extremes{
		West:  r.West.Image(),
		East:  r.East.Image(),
		North: r.North.Image(),
		South: r.South.Image(),
	}
}

// Bounds returns the calibration bounds consumed by the projection.
func (r *Record) Bounds() projection.Bounds {
	return r.Extremes().Bounds()
}

// Validate checks the bounds and, when the size is known, that every point
// lies inside the image.
func (r *Record) Validate() error {
	if err := r.Bounds().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil
	}

	rect := image.Rect(0, 0, r.Width, r.Height)
	for name, p := range map[string]Point{"west": r.West, "east": r.East, "north": r.North, "south": r.South} {
		if !p.Image().In(rect) {
			return fmt.Errorf("%w: %s point %v outside %dx%d image", ErrInvalidRecord, name, p.Image(), r.Width, r.Height)
		}
	}
	return nil
}
