package calibration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultDir is where generated calibration records are stored.
const DefaultDir = "calibrations"

// GenerateRecordPath creates a timestamped record filename for the given map
func GenerateRecordPath(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		base = "map"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(DefaultDir, fmt.Sprintf("%s_%s.yaml", base, timestamp))
}

// FindLatestRecord finds the most recent record file in dir
func FindLatestRecord(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read calibrations directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var records []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(records) == 0 {
		return "", fmt.Errorf("no calibration files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(records, func(i, j int) bool {
		return records[i].modTime.After(records[j].modTime)
	})

	return records[0].path, nil
}
