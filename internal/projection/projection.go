package projection

import (
	"errors"
	"fmt"
	"image"
	"math"
)

const (
	// MaxIterations caps the Newton-Raphson refinement of the auxiliary angle.
	MaxIterations = 10
	// PoleEpsilon is the distance from ±π/2 at which iteration is skipped.
	PoleEpsilon = 1e-6
	// DerivativeEpsilon stops iteration before dividing by a vanishing derivative.
	DerivativeEpsilon = 1e-6
	// ConvergedTolerance is the residual under which a solution is reported as converged.
	ConvergedTolerance = 1e-9
)

var (
	ErrLatitudeOutOfRange  = errors.New("latitude out of range [-90, 90]")
	ErrLongitudeOutOfRange = errors.New("longitude out of range [-180, 180]")
	ErrInvalidBounds       = errors.New("invalid calibration bounds")
)

// GeoPoint is a geographic coordinate in degrees.
type GeoPoint struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// Validate checks the point lies in the projection's domain. The edges are valid.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: %v", ErrLatitudeOutOfRange, p.Lat)
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: %v", ErrLongitudeOutOfRange, p.Lon)
	}
	return nil
}

// Bounds anchors the projection's ellipse to the pixel geometry of a rendered map.
type Bounds struct {
	Left   float64 `yaml:"left" json:"left"`
	Right  float64 `yaml:"right" json:"right"`
	Top    float64 `yaml:"top" json:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
}

// Validate requires Right > Left and Bottom > Top.
func (b Bounds) Validate() error {
	if !(b.Right > b.Left) {
		return fmt.Errorf("%w: right %v must exceed left %v", ErrInvalidBounds, b.Right, b.Left)
	}
	if !(b.Bottom > b.Top) {
		return fmt.Errorf("%w: bottom %v must exceed top %v", ErrInvalidBounds, b.Bottom, b.Top)
	}
	return nil
}

// Radius returns R in pixel units: the map's pixel width spans 4√2·R.
func (b Bounds) Radius() float64 {
	return (b.Right - b.Left) / (4 * math.Sqrt2)
}

// Center returns the pixel centre of the bounds.
func (b Bounds) Center() (float64, float64) {
	return (b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2
}

// Solution describes the auxiliary angle found for a latitude.
type Solution struct {
	Theta      float64
	Iterations int
	Converged  bool
	Pole       bool
}

// Solve finds θ satisfying 2θ + sin(2θ) = π·sin(φ) for φ in radians.
//
// Near the poles θ is set to ±π/2 directly. Elsewhere at most MaxIterations
// Newton steps are taken from θ₀ = φ; whatever θ results is accepted.
func Solve(phi float64) Solution {
	if math.Abs(phi) >= math.Pi/2-PoleEpsilon {
		return Solution{
			Theta:     sign(phi) * math.Pi / 2,
			Converged: true,
			Pole:      true,
		}
	}

	target := math.Pi * math.Sin(phi)
	theta := phi
	n := 0
	for ; n < MaxIterations; n++ {
		num := 2*theta + math.Sin(2*theta) - target
		denom := 2 + 2*math.Cos(2*theta)
		if math.Abs(denom) < DerivativeEpsilon {
			break
		}
		theta -= num / denom
	}

	residual := 2*theta + math.Sin(2*theta) - target
	return Solution{
		Theta:      theta,
		Iterations: n,
		Converged:  math.Abs(residual) <= ConvergedTolerance,
	}
}

// Projected is the full result of projecting one point.
type Projected struct {
	Pixel image.Point
	// X, Y are map-plane coordinates in pixel units, origin at the map centre, y up.
	X, Y float64
	Solution
}

// Project maps a geographic point to a pixel on the calibrated map.
// The result is not clamped to the image; see Projector for that.
func Project(p GeoPoint, b Bounds) image.Point {
	return project(p, b).Pixel
}

// ProjectDetailed is Project with input validation and solver diagnostics.
func ProjectDetailed(p GeoPoint, b Bounds) (Projected, error) {
	if err := p.Validate(); err != nil {
		return Projected{}, err
	}
	if err := b.Validate(); err != nil {
		return Projected{}, err
	}
	return project(p, b), nil
}

func project(p GeoPoint, b Bounds) Projected {
	phi := p.Lat * math.Pi / 180
	lambda := p.Lon * math.Pi / 180

	sol := Solve(phi)
	r := b.Radius()

	x := r * (2 * math.Sqrt2 / math.Pi) * lambda * math.Cos(sol.Theta)
	y := r * math.Sqrt2 * math.Sin(sol.Theta)

	width := b.Right - b.Left
	height := b.Bottom - b.Top

	px := ((x+2*r*math.Sqrt2)/(4*r*math.Sqrt2))*width + b.Left
	py := ((1-y/(math.Sqrt2*r))/2)*height + b.Top

	return Projected{
		Pixel:    image.Pt(int(math.Round(px)), int(math.Round(py))),
		X:        x,
		Y:        y,
		Solution: sol,
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
