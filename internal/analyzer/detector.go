package analyzer

import (
	"errors"
	"image"
)

var (
	// ErrEmptyImage is returned when an image has no pixels to classify.
	ErrEmptyImage = errors.New("image has zero width or height")
	// ErrNoBoundary is returned when a mask holds no boundary pixels at all.
	ErrNoBoundary = errors.New("no boundary found")
)

// Mask is a dense grid of boundary flags, row-major, indexed from (0,0) at
// the source image's Bounds().Min.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-false mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// At reports the flag at (x, y). Out-of-range coordinates are false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set stores the flag at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of true flags.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Cluster is a 4-connected set of mask pixels in discovery order.
type Cluster struct {
	Points []image.Point
}

// Size returns the number of pixels in the cluster.
func (c Cluster) Size() int {
	return len(c.Points)
}

// Rect returns the bounding rectangle of the cluster.
func (c Cluster) Rect() image.Rectangle {
	if len(c.Points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c.Points[0], Max: c.Points[0].Add(image.Pt(1, 1))}
	for _, p := range c.Points[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}
