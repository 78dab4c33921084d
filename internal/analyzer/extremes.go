package analyzer

import (
	"image"

	"github.com/ivlev/mollmap/internal/projection"
)

// Extremes holds one representative pixel per cardinal direction.
type Extremes struct {
	West  image.Point `yaml:"west" json:"west"`
	East  image.Point `yaml:"east" json:"east"`
	North image.Point `yaml:"north" json:"north"`
	South image.Point `yaml:"south" json:"south"`
}

// Bounds converts the extremes into calibration bounds.
func (e Extremes) Bounds() projection.Bounds {
	return projection.Bounds{
		Left:   float64(e.West.X),
		Right:  float64(e.East.X),
		Top:    float64(e.North.Y),
		Bottom: float64(e.South.Y),
	}
}

// SelectExtremes picks the west, east, north and south pixels of c.
//
// For each direction every pixel attaining the extreme coordinate is kept in
// scan order, and the one at index len/2 is chosen. c must not be empty.
func SelectExtremes(c Cluster) Extremes {
	if len(c.Points) == 0 {
		panic("analyzer: SelectExtremes called with an empty cluster")
	}

	return Extremes{
		West:  middleOf(c.Points, func(p image.Point) int { return -p.X }),
		East:  middleOf(c.Points, func(p image.Point) int { return p.X }),
		North: middleOf(c.Points, func(p image.Point) int { return -p.Y }),
		South: middleOf(c.Points, func(p image.Point) int { return p.Y }),
	}
}

// middleOf scans points once, maximising score. The candidate list restarts
// on a strictly better score and grows on an equal one.
func middleOf(points []image.Point, score func(image.Point) int) image.Point {
	best := score(points[0])
	candidates := []image.Point{points[0]}

	for _, p := range points[1:] {
		s := score(p)
		switch {
		case s > best:
			best = s
			candidates = candidates[:0]
			candidates = append(candidates, p)
		case s == best:
			candidates = append(candidates, p)
		}
	}

	return candidates[len(candidates)/2]
}
