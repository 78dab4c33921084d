package system

import (
	"image"
	"image/draw"
	"sync"
)

// ImagePool переиспользует холсты *image.RGBA одного размера, чтобы
// повторные аннотации карты не нагружали GC.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetImage returns a canvas with the given bounds. Its contents are undefined.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands a canvas back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// CloneToPool copies src onto a pooled canvas with the same bounds.
func CloneToPool(src image.Image) *image.RGBA {
	dst := GetImage(src.Bounds())
	draw.Draw(dst, dst.Rect, src, src.Bounds().Min, draw.Src)
	return dst
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put ignores canvases of sizes the pool never handed out.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
