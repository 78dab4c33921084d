package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageExtensions lists the raster formats with a registered decoder.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".webp"}

func IsImageExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsImageExt(filepath.Ext(entry.Name())) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

func (s *ImageSource) GetPageDimensions(index int) (float64, float64, error) {
	if index < 0 || index >= len(s.paths) {
		return 0, 0, fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	img, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", s.paths[index], err)
	}
	return float64(img.Width), float64(img.Height), nil
}

// RenderPage decodes the page; raster maps ignore dpi.
func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.paths[index], err)
	}
	return img, nil
}

// Path returns the file backing page index.
func (s *ImageSource) Path(index int) string {
	return s.paths[index]
}

func (s *ImageSource) Close() error {
	return nil
}
