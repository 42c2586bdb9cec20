package headless

import (
	"image"
	"sync"
)

// maxPooledSurfaces bounds how many idle buffers the pool retains. Export
// jobs render pages sequentially, so a small number covers concurrent jobs
// without pinning hundreds of megabytes of page-sized rasters.
const maxPooledSurfaces = 4

// surfacePool recycles page-sized RGBA buffers between renders. Buffers
// are matched by exact dimensions; a mismatch allocates fresh.
type surfacePool struct {
	mu   sync.Mutex
	free []*image.RGBA
}

func (p *surfacePool) acquire(w, h int) *image.RGBA {
	p.mu.Lock()
	for i, img := range p.free {
		b := img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.mu.Unlock()
			clearSurface(img)
			return img
		}
	}
	p.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func (p *surfacePool) release(img *image.RGBA) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < maxPooledSurfaces {
		p.free = append(p.free, img)
	}
}

// clearSurface zeroes a recycled buffer so stale pixels from the previous
// render cannot bleed through translucent backgrounds.
func clearSurface(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}
