package calibration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateRecordPath(t *testing.T) {
	path := GenerateRecordPath("input/maps/World Map.png")

	if !strings.HasPrefix(path, DefaultDir+string(filepath.Separator)) {
		t.Errorf("Path should be in %s: %s", DefaultDir, path)
	}
	if !strings.Contains(filepath.Base(path), "World_Map_") {
		t.Errorf("Path should contain the cleaned map name: %s", path)
	}
	if filepath.Ext(path) != ".yaml" {
		t.Errorf("Path should end in .yaml: %s", path)
	}

	t.Logf("Generated path: %s", path)
}

func TestFindLatestRecord(t *testing.T) {
	dir := t.TempDir()

	// Create test files with different timestamps
	files := []string{
		filepath.Join(dir, "world_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "world_2026-02-13_01-00-00.yml"),
		filepath.Join(dir, "world_2026-02-11_15-30-00.yaml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}

	// Newer, but not a record
	notes := filepath.Join(dir, "notes.txt")
	os.WriteFile(notes, []byte("x"), 0644)
	later := time.Now().Add(10 * time.Hour)
	os.Chtimes(notes, later, later)

	latest, err := FindLatestRecord(dir)
	if err != nil {
		t.Fatalf("FindLatestRecord failed: %v", err)
	}

	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}

func TestFindLatestRecordEmpty(t *testing.T) {
	if _, err := FindLatestRecord(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
	if _, err := FindLatestRecord(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
