package calibration

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/ivlev/mollmap/internal/analyzer"
	"github.com/ivlev/mollmap/internal/projection"
)

// drawMollweideMap renders a filled 2:1 ellipse on a white background, the way
// a Mollweide world map outline looks, plus a few specks of noise.
func drawMollweideMap(w, h, left, right, top, bottom int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(left+right)/2, float64(top+bottom)/2
	rx, ry := float64(right-left)/2, float64(bottom-top)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.Set(x, y, color.RGBA{R: 70, G: 120, B: 60, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 250, G: 250, B: 250, A: 255})
			}
		}
	}

	// Legend specks in the corners
	img.Set(1, 1, color.Black)
	img.Set(w-2, h-2, color.Black)
	img.Set(w-3, h-2, color.Black)
	return img
}

func TestCalibrate(t *testing.T) {
	img := drawMollweideMap(120, 64, 10, 110, 7, 57)

	record, err := NewCalibrator().Calibrate(img, "synthetic.png")
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	if record.Version != RecordVersion {
		t.Errorf("Expected version %s, got %s", RecordVersion, record.Version)
	}
	if record.Width != 120 || record.Height != 64 {
		t.Errorf("Expected 120x64, got %dx%d", record.Width, record.Height)
	}

	want := projection.Bounds{Left: 10, Right: 110, Top: 7, Bottom: 57}
	if got := record.Bounds(); got != want {
		t.Errorf("Expected bounds %+v, got %+v", want, got)
	}

	// The origin must land at the centre of the drawn ellipse
	pt := projection.Project(projection.GeoPoint{}, record.Bounds())
	if pt != image.Pt(60, 32) {
		t.Errorf("Expected origin at (60,32), got %v", pt)
	}

	t.Logf("Record: west=%v east=%v north=%v south=%v", record.West, record.East, record.North, record.South)
}

func TestCalibrateBlankMap(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.White)
		}
	}

	_, err := NewCalibrator().Calibrate(img, "blank.png")
	if !errors.Is(err, analyzer.ErrNoBoundary) {
		t.Errorf("Expected ErrNoBoundary, got %v", err)
	}

	_, err = NewCalibrator().Calibrate(image.NewRGBA(image.Rectangle{}), "empty.png")
	if !errors.Is(err, analyzer.ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage, got %v", err)
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{"default", Default, false},
		{"sized", Record{Width: 20, Height: 10, West: Point{0, 5}, East: Point{19, 5}, North: Point{10, 0}, South: Point{10, 9}}, false},
		{"collapsed", Record{West: Point{5, 5}, East: Point{5, 5}, North: Point{5, 0}, South: Point{5, 9}}, true},
		{"outside image", Record{Width: 10, Height: 10, West: Point{0, 5}, East: Point{19, 5}, North: Point{5, 0}, South: Point{5, 9}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Expected ErrInvalidRecord, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestRecordWriteRead(t *testing.T) {
	record := &Record{
		Version:   RecordVersion,
		Source:    "maps/world.png",
		Width:     1380,
		Height:    660,
		Threshold: 230,
		West:      Point{X: 44, Y: 329},
		East:      Point{X: 1336, Y: 330},
		North:     Point{X: 690, Y: 5},
		South:     Point{X: 689, Y: 653},
	}

	path := filepath.Join(t.TempDir(), "nested", "world.yaml")
	if err := WriteRecord(record, path); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}

	read, err := ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}

	if *read != *record {
		t.Errorf("Record mismatch:\nwrote %+v\nread  %+v", *record, *read)
	}
}

func TestReadRecordRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := &Record{Version: RecordVersion, West: Point{X: 10}, East: Point{X: 5}}
	if err := WriteRecord(bad, path); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}

	if _, err := ReadRecord(path); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord, got %v", err)
	}
}
