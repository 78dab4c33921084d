package projection

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

var (
	ErrOutsideImage       = errors.New("projected pixel outside image")
	ErrUnknownClampPolicy = errors.New("unknown clamp policy")
)

// ClampPolicy decides what happens to pixels that land outside the image.
type ClampPolicy int

const (
	// ClampNone returns the pixel as computed.
	ClampNone ClampPolicy = iota
	// ClampImage pulls the pixel onto the nearest edge of the image.
	ClampImage
	// ClampReject fails with ErrOutsideImage.
	ClampReject
)

func (c ClampPolicy) String() string {
	switch c {
	case ClampImage:
		return "clamp"
	case ClampReject:
		return "reject"
	default:
		return "none"
	}
}

// ParseClampPolicy accepts "none", "clamp" or "reject". Empty means none.
func ParseClampPolicy(name string) (ClampPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return ClampNone, nil
	case "clamp":
		return ClampImage, nil
	case "reject":
		return ClampReject, nil
	default:
		return ClampNone, fmt.Errorf("%w: %s", ErrUnknownClampPolicy, name)
	}
}

// Projector binds calibration bounds to a concrete image size and clamp policy.
// It holds no mutable state and is safe for concurrent use.
type Projector struct {
	Bounds Bounds
	Width  int
	Height int
	Policy ClampPolicy
}

// NewProjector validates the bounds before building a Projector.
func NewProjector(b Bounds, width, height int, policy ClampPolicy) (*Projector, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Projector{Bounds: b, Width: width, Height: height, Policy: policy}, nil
}

// Locate projects p and applies the clamp policy.
func (pr *Projector) Locate(p GeoPoint) (image.Point, error) {
	res, err := pr.LocateDetailed(p)
	if err != nil {
		return image.Point{}, err
	}
	return res.Pixel, nil
}

// LocateDetailed is Locate with solver diagnostics.
func (pr *Projector) LocateDetailed(p GeoPoint) (Projected, error) {
	res, err := ProjectDetailed(p, pr.Bounds)
	if err != nil {
		return Projected{}, err
	}

	rect := image.Rect(0, 0, pr.Width, pr.Height)
	if rect.Empty() || res.Pixel.In(rect) {
		return res, nil
	}

	switch pr.Policy {
	case ClampImage:
		res.Pixel = clamp(res.Pixel, rect)
	case ClampReject:
		return Projected{}, fmt.Errorf("%w: %v not in %v", ErrOutsideImage, res.Pixel, rect)
	}
	return res, nil
}

func clamp(pt image.Point, r image.Rectangle) image.Point {
	if pt.X < r.Min.X {
		pt.X = r.Min.X
	}
	if pt.X >= r.Max.X {
		pt.X = r.Max.X - 1
	}
	if pt.Y < r.Min.Y {
		pt.Y = r.Min.Y
	}
	if pt.Y >= r.Max.Y {
		pt.Y = r.Max.Y - 1
	}
	return pt
}
