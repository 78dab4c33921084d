package source

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
}

func TestImageSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.png")
	writePNG(t, path, 40, 20)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if src.PageCount() != 1 {
		t.Fatalf("Expected 1 page, got %d", src.PageCount())
	}

	w, h, err := src.GetPageDimensions(0)
	if err != nil || w != 40 || h != 20 {
		t.Errorf("Expected 40x20, got %vx%v (err %v)", w, h, err)
	}

	img, err := src.RenderPage(0, 150)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}

	if _, err := src.RenderPage(1, 150); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("Expected ErrPageOutOfRange, got %v", err)
	}
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644)

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}

	if src.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", src.PageCount())
	}
	if filepath.Base(src.Path(0)) != "a.png" {
		t.Errorf("Pages should be sorted, first is %s", src.Path(0))
	}
}

func TestOpenUnsupported(t *testing.T) {
	if _, err := Open("atlas.svg"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestIsImageExt(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".png", true},
		{".JPG", true},
		{".tiff", true},
		{".webp", true},
		{".bmp", true},
		{".pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsImageExt(tt.ext); got != tt.want {
			t.Errorf("IsImageExt(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
