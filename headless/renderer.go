// Package headless re-renders book pages from their shared declarative
// model without a display. It produces pixel-identical output to the
// interactive surface at the same resolution: both run the same scene
// builder and the same rasterizer, so export parity is structural, not
// coincidental.
package headless

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/layout"
	"github.com/pillepelle-123/bookpress/raster"
	"github.com/pillepelle-123/bookpress/scene"
	"github.com/pillepelle-123/bookpress/snapshot"
	"github.com/pillepelle-123/bookpress/theme"
)

// Renderer re-renders pages to offscreen surfaces. It is safe for
// concurrent use; surfaces are pooled across renders.
type Renderer struct {
	reg   *theme.Registry
	faces *layout.Faces
	fetch *Fetcher
	calib snapshot.Calibration
	pool  surfacePool
	log   zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithHTTPClient sets the client used to resolve remote image references.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Renderer) { r.fetch = NewFetcher(c, r.log) }
}

// WithRegistry sets the theme registry.
func WithRegistry(reg *theme.Registry) Option {
	return func(r *Renderer) { r.reg = reg }
}

// WithCalibration overrides the stroke-compensation calibration.
func WithCalibration(c snapshot.Calibration) Option {
	return func(r *Renderer) { r.calib = c }
}

// New creates a renderer with the built-in themes and fonts.
func New(opts ...Option) (*Renderer, error) {
	faces, err := layout.NewFaces()
	if err != nil {
		return nil, fmt.Errorf("headless: load fonts: %w", err)
	}
	r := &Renderer{
		reg:   theme.NewRegistry(),
		faces: faces,
		calib: snapshot.DefaultCalibration,
		log:   zerolog.New(os.Stderr).With().Timestamp().Str("component", "headless").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fetch == nil {
		r.fetch = NewFetcher(nil, r.log)
	}
	return r, nil
}

// RenderPage rasterizes one page at the given pixel ratio and hands the
// buffer to fn. The buffer belongs to a pool and is recycled after fn
// returns; fn must not retain it. A ratio of 1 renders at the interactive
// canvas resolution.
func (r *Renderer) RenderPage(ctx context.Context, bk *book.Book, pageIndex int, ratio float64, fn func(*image.RGBA) error) error {
	if pageIndex < 0 || pageIndex >= len(bk.Pages) {
		return fmt.Errorf("headless: page index %d out of range (book has %d pages)", pageIndex, len(bk.Pages))
	}
	if ratio <= 0 {
		return fmt.Errorf("headless: invalid pixel ratio %v", ratio)
	}
	pg := &bk.Pages[pageIndex]

	live, err := scene.Build(pg, bk, r.reg, r.faces)
	if err != nil {
		return fmt.Errorf("headless: build scene: %w", err)
	}

	cw, chp := bk.CanvasSizeOf()
	rasterW := float64(cw) * ratio
	export, err := snapshot.Transform(live, scene.Point{}, rasterW, rasterW, r.calib)
	if err != nil {
		return fmt.Errorf("headless: snapshot: %w", err)
	}

	r.resolveImages(ctx, export, pg.ID)
	if err := ctx.Err(); err != nil {
		return err
	}

	w := int(float64(cw)*ratio + 0.5)
	h := int(float64(chp)*ratio + 0.5)
	buf := r.pool.acquire(w, h)
	defer r.pool.release(buf)

	dc := gg.NewContextForRGBA(buf)
	dc.Scale(ratio, ratio)
	if err := raster.Render(export, dc, r.faces); err != nil {
		return fmt.Errorf("headless: rasterize page %s: %w", pg.ID, err)
	}

	r.log.Debug().Str("page", pg.ID).Int("width", w).Int("height", h).Msg("page rendered")
	return fn(buf)
}

// RenderPageImage is RenderPage returning an owned copy of the raster.
func (r *Renderer) RenderPageImage(ctx context.Context, bk *book.Book, pageIndex int, ratio float64) (*image.RGBA, error) {
	var out *image.RGBA
	err := r.RenderPage(ctx, bk, pageIndex, ratio, func(buf *image.RGBA) error {
		out = image.NewRGBA(buf.Bounds())
		copy(out.Pix, buf.Pix)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveImages fetches every unresolved remote image in the scene. A
// failed fetch degrades that one element to an empty area instead of
// failing the page: a missing photo must not kill a whole book export.
func (r *Renderer) resolveImages(ctx context.Context, root *scene.Node, pageID string) {
	root.Walk(func(n *scene.Node) bool {
		if n.Kind != scene.KindImage || n.Src == "" || n.Image != nil {
			return true
		}
		img, err := r.fetch.Fetch(ctx, n.Src)
		if err != nil {
			r.log.Warn().Str("page", pageID).Str("src", n.Src).Err(err).
				Msg("image unavailable, rendering empty area")
			return true
		}
		n.Image = img
		return true
	})
}
