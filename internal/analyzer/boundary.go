package analyzer

import (
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the channel value every RGB channel must exceed for a
// pixel to count as background.
const DefaultThreshold = 230

// Classifier marks pixels where drawn map content meets a bright background.
type Classifier struct {
	Threshold uint8 // Channel value a background pixel must exceed on R, G and B
	Workers   int   // Row bands classified concurrently; <= 1 runs sequentially
}

// NewClassifier creates a classifier with default settings
func NewClassifier() *Classifier {
	return &Classifier{
		Threshold: DefaultThreshold,
		Workers:   runtime.NumCPU(),
	}
}

// Classify runs the default classifier over img.
func Classify(img image.Image) (*Mask, error) {
	return NewClassifier().Classify(img)
}

// Classify returns a mask that is true for every non-background pixel with at
// least one background pixel among its 8 neighbours. Neighbours outside the
// image are skipped.
func (c *Classifier) Classify(img image.Image) (*Mask, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}

	// Step 1: background flags, one read per pixel
	background := NewMask(width, height)
	c.forEachBand(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				r, g, b := straightRGB(img, bounds.Min.X+x, bounds.Min.Y+y)
				if r > c.Threshold && g > c.Threshold && b > c.Threshold {
					background.Set(x, y, true)
				}
			}
		}
	})

	// Step 2: content pixels touching background
	mask := NewMask(width, height)
	c.forEachBand(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				if background.At(x, y) {
					continue
				}
				if touchesBackground(background, x, y) {
					mask.Set(x, y, true)
				}
			}
		}
	})

	return mask, nil
}

// straightRGB returns the stored 8-bit colour of a pixel with alpha ignored.
// RGBA and NRGBA buffers are read raw; other models go through NRGBA, which
// undoes premultiplication.
func straightRGB(img image.Image, x, y int) (uint8, uint8, uint8) {
	switch im := img.(type) {
	case *image.NRGBA:
		i := im.PixOffset(x, y)
		return im.Pix[i], im.Pix[i+1], im.Pix[i+2]
	case *image.RGBA:
		i := im.PixOffset(x, y)
		return im.Pix[i], im.Pix[i+1], im.Pix[i+2]
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c.R, c.G, c.B
}

// touchesBackground checks the 8-neighbourhood; At is false outside the grid.
func touchesBackground(bg *Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if bg.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

// forEachBand splits [0, height) into contiguous row bands. Bands write
// disjoint rows, so no locking is needed.
func (c *Classifier) forEachBand(height int, fn func(y0, y1 int)) {
	workers := c.Workers
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers
	var g errgroup.Group
	for y0 := 0; y0 < height; y0 += band {
		y0, y1 := y0, min(y0+band, height)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	g.Wait()
}
