package system

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestMap(t *testing.T) {
	dir := t.TempDir()

	files := []string{"europe.png", "atlas.pdf", "world.tiff"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, modTime, modTime)
	}

	notes := filepath.Join(dir, "notes.md")
	os.WriteFile(notes, []byte("x"), 0644)
	later := time.Now().Add(time.Hour)
	os.Chtimes(notes, later, later)

	want := filepath.Join(dir, "world.tiff")

	latest, err := FindLatestMap(dir)
	if err != nil {
		t.Fatalf("FindLatestMap failed: %v", err)
	}
	if latest != want {
		t.Errorf("Expected %s, got %s", want, latest)
	}

	// A file path searches its directory
	latest, err = FindLatestMap(filepath.Join(dir, "europe.png"))
	if err != nil || latest != want {
		t.Errorf("Expected %s via file path, got %s (err %v)", want, latest, err)
	}

	if _, err := FindLatestMap(t.TempDir()); err == nil {
		t.Error("Expected error for directory without maps")
	}
}

func TestImagePool(t *testing.T) {
	pool := NewImagePool()
	rect := image.Rect(0, 0, 8, 4)

	img := pool.Get(rect)
	if img.Rect != rect {
		t.Fatalf("Expected rect %v, got %v", rect, img.Rect)
	}
	pool.Put(img)

	// Foreign sizes are dropped silently
	pool.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	pool.Put(nil)

	if got := pool.Get(rect); got.Rect != rect {
		t.Errorf("Expected rect %v after reuse, got %v", rect, got.Rect)
	}
}

func TestCloneToPool(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 6, 7))
	src.Set(2, 3, color.RGBA{R: 200, A: 255})
	src.Set(5, 6, color.RGBA{B: 100, A: 255})

	dst := CloneToPool(src)
	defer PutImage(dst)

	if dst.Bounds() != src.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", src.Bounds(), dst.Bounds())
	}
	for _, p := range []image.Point{{2, 3}, {5, 6}, {4, 4}} {
		if dst.RGBAAt(p.X, p.Y) != src.RGBAAt(p.X, p.Y) {
			t.Errorf("Pixel %v differs: %v vs %v", p, dst.RGBAAt(p.X, p.Y), src.RGBAAt(p.X, p.Y))
		}
	}
}

func TestCollectHostInfo(t *testing.T) {
	info := CollectHostInfo(context.Background())
	if info.LogicalCPUs <= 0 {
		t.Errorf("Expected positive CPU count, got %d", info.LogicalCPUs)
	}
	if info.Platform == "" {
		t.Error("Expected platform to be set")
	}
	t.Logf("Host: %s", info)
}
