package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ivlev/mollmap/internal/projection"
	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the side of the stamped code in pixels.
const DefaultQRSize = 96

// GeoURI formats p as an RFC 5870 geo URI.
func GeoURI(p projection.GeoPoint) string {
	return fmt.Sprintf("geo:%.6f,%.6f", p.Lat, p.Lon)
}

// StampQR draws a QR code for content into the top-left corner of the
// canvas. Covered pixels are remembered like marker pixels.
func (o *Overlay) StampQR(content string, size int) error {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}

	code := qr.Image(size)
	cb := code.Bounds()
	origin := o.canvas.Rect.Min

	for y := cb.Min.Y; y < cb.Max.Y; y++ {
		for x := cb.Min.X; x < cb.Max.X; x++ {
			p := image.Pt(origin.X+x-cb.Min.X, origin.Y+y-cb.Min.Y)
			o.paint(p, color.RGBAModel.Convert(code.At(x, y)).(color.RGBA))
		}
	}
	return nil
}
