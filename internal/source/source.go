package source

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

var (
	ErrPageOutOfRange = errors.New("page index out of range")
	ErrUnsupported    = errors.New("unsupported map format")
)

// Source yields rendered map pages. Raster files have one page each, PDF
// atlases one page per sheet.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a Source implementation by the extension of path.
// Directories are opened as image sequences.
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return NewFitzPDFSource(path)
	case ext == "" || IsImageExt(ext):
		return NewImageSource(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	if index < 0 || index >= f.PageCount() {
		return 0, 0, fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage rasterizes a page on its own document handle, fitz documents
// are not safe for concurrent use.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index < 0 || index >= f.PageCount() {
		return nil, fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
