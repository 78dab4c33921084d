package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/mollmap/internal/system"
)

// Marker is a filled disc with a ring border.
type Marker struct {
	Radius int
	Border int
	Fill   color.RGBA
	Stroke color.RGBA
}

// DefaultMarker is a red dot with a black ring.
var DefaultMarker = Marker{
	Radius: 5,
	Border: 2,
	Fill:   color.RGBA{R: 255, A: 255},
	Stroke: color.RGBA{A: 255},
}

// Overlay draws markers on a private copy of a map and remembers every pixel
// it covers, so the map can be put back exactly.
type Overlay struct {
	canvas *image.RGBA
	hidden map[image.Point]color.RGBA
}

// NewOverlay copies base onto a pooled canvas. Call Release when done.
func NewOverlay(base image.Image) *Overlay {
	return &Overlay{
		canvas: system.CloneToPool(base),
		hidden: make(map[image.Point]color.RGBA),
	}
}

func (o *Overlay) Image() *image.RGBA {
	return o.canvas
}

// Hidden reports how many original pixels are currently covered.
func (o *Overlay) Hidden() int {
	return len(o.hidden)
}

// PlaceMarker moves the single marker to pt: earlier markers are restored
// first.
func (o *Overlay) PlaceMarker(pt image.Point, m Marker) {
	o.Restore()
	o.AddMarker(pt, m)
}

// AddMarker paints m centred at pt on top of whatever is already drawn.
// Parts of the marker outside the canvas are skipped.
func (o *Overlay) AddMarker(pt image.Point, m Marker) {
	r2 := m.Radius * m.Radius
	inner := m.Radius - m.Border
	inner2 := inner * inner

	for dy := -m.Radius; dy <= m.Radius; dy++ {
		for dx := -m.Radius; dx <= m.Radius; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			c := m.Fill
			if d2 >= inner2 {
				c = m.Stroke
			}
			o.paint(image.Pt(pt.X+dx, pt.Y+dy), c)
		}
	}
}

func (o *Overlay) paint(p image.Point, c color.RGBA) {
	if !p.In(o.canvas.Rect) {
		return
	}
	if _, saved := o.hidden[p]; !saved {
		o.hidden[p] = o.canvas.RGBAAt(p.X, p.Y)
	}
	o.canvas.SetRGBA(p.X, p.Y, c)
}

// Restore puts back every pixel covered since the last Restore.
func (o *Overlay) Restore() {
	for p, c := range o.hidden {
		o.canvas.SetRGBA(p.X, p.Y, c)
	}
	clear(o.hidden)
}

// WritePNG encodes the current canvas to path, creating parent directories.
func (o *Overlay) WritePNG(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, o.canvas); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Release returns the canvas to the pool. The overlay must not be used after.
func (o *Overlay) Release() {
	system.PutImage(o.canvas)
	o.canvas = nil
	o.hidden = nil
}
