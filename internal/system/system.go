package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/mollmap/internal/logging"
)

// MapExtensions are the files FindLatestMap considers.
var MapExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".webp", ".pdf"}

func InitResourceLimits() {
	logger := logging.Module("system")

	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("Не удалось получить лимит файлов")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("Не удалось установить лимит файлов")
	} else {
		logger.Debug().Uint64("nofile", uint64(rLimit.Cur)).Msg("Системный лимит открытых файлов увеличен")
	}
}

func isMapFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range MapExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// FindLatestMap returns the most recently modified map file in path. If path
// is a file, its directory is searched.
func FindLatestMap(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}

	files, err := os.ReadDir(searchDir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !isMapFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(searchDir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено карт", searchDir)
	}

	return latestFile, nil
}
