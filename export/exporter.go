// Package export runs the headless export pipeline as trackable jobs:
// validate the request, re-render the selected pages, post-process the
// rasters for the requested quality tier, and assemble the final PDF.
package export

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/headless"
	"github.com/pillepelle-123/bookpress/pdfgen"
	"github.com/pillepelle-123/bookpress/printpipe"
)

// ProgressFunc observes per-page job progress. pct is 0..100.
type ProgressFunc func(jobID string, pct int)

// Exporter turns export requests into finished PDFs.
type Exporter struct {
	renderer    *headless.Renderer
	store       Store
	log         zerolog.Logger
	progress    ProgressFunc
	jpegQuality int
}

// Option is a functional option for configuring a new Exporter via New.
type Option func(*Exporter)

// WithStore sets the job store.
func WithStore(s Store) Option {
	return func(e *Exporter) { e.store = s }
}

// WithRenderer sets the headless renderer.
func WithRenderer(r *headless.Renderer) Option {
	return func(e *Exporter) { e.renderer = r }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Exporter) { e.log = log }
}

// WithProgress sets a per-page progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Exporter) { e.progress = fn }
}

// WithJPEGQuality overrides the JPEG quality used for RGB page streams.
func WithJPEGQuality(q int) Option {
	return func(e *Exporter) { e.jpegQuality = q }
}

// New creates an exporter. Without options it renders with the built-in
// themes and keeps jobs in memory.
func New(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		store: NewMemoryStore(),
		log:   zerolog.New(os.Stderr).With().Timestamp().Str("component", "export").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.renderer == nil {
		r, err := headless.New(headless.WithLogger(e.log))
		if err != nil {
			return nil, newJobError("New", err)
		}
		e.renderer = r
	}
	return e, nil
}

// Store returns the job store.
func (e *Exporter) Store() Store { return e.store }

// StartExport validates a request and creates a pending job. Validation
// is fail-fast: a request the requester is not allowed to make, or that
// cannot possibly succeed, is rejected here and never enters processing.
func (e *Exporter) StartExport(bk *book.Book, role Role, opts Options) (*Job, error) {
	if !role.Valid() {
		return nil, newJobError("StartExport", fmt.Errorf("unknown role %q", role))
	}
	if !opts.Quality.Valid() {
		return nil, newJobError("StartExport", fmt.Errorf("%w: %q", ErrUnknownQuality, opts.Quality))
	}
	if !role.AllowsQuality(opts.Quality) {
		return nil, newJobError("StartExport", fmt.Errorf("%w: %s for %s", ErrForbiddenQuality, opts.Quality, role))
	}
	if _, err := opts.Range.Select(len(bk.Pages)); err != nil {
		return nil, newJobError("StartExport", err)
	}
	pp := printpipe.Options{Quality: opts.Quality, CMYK: opts.CMYK, Profile: opts.Profile}
	if err := pp.Validate(); err != nil {
		return nil, newJobError("StartExport", err)
	}

	job := &Job{
		ID:        newJobID(),
		BookID:    bk.ID,
		Role:      role,
		Options:   opts,
		State:     StatePending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := e.store.Create(job); err != nil {
		return nil, newJobError("StartExport", err)
	}
	e.log.Info().Str("job", job.ID).Str("book", bk.ID).
		Str("quality", string(opts.Quality)).Bool("cmyk", opts.CMYK).
		Msg("export job created")
	return job, nil
}

// Run processes a pending job to a terminal state. Cancellation through
// ctx is not an error: the job ends in StateCancelled with no output and
// Run returns nil.
func (e *Exporter) Run(ctx context.Context, job *Job, bk *book.Book) error {
	job.State = StateProcessing
	job.Progress = 0
	if err := e.store.Update(job); err != nil {
		return newJobError("Run", err)
	}

	pages, err := job.Options.Range.Select(len(bk.Pages))
	if err != nil {
		return e.fail(job, err)
	}
	ratio, err := job.Options.Quality.PixelRatio()
	if err != nil {
		return e.fail(job, err)
	}

	doc := pdfgen.NewDocument()
	title := job.Options.Title
	if title == "" {
		title = bk.Title
	}
	doc.SetTitle(title)
	wPt, hPt := bk.SizePointsOf()
	pp := printpipe.Options{
		Quality:     job.Options.Quality,
		CMYK:        job.Options.CMYK,
		Profile:     job.Options.Profile,
		JPEGQuality: e.jpegQuality,
	}

	for i, pageNum := range pages {
		if ctx.Err() != nil {
			return e.cancel(job)
		}
		err := e.renderer.RenderPage(ctx, bk, pageNum-1, ratio, func(buf *image.RGBA) error {
			encoded, err := printpipe.Process(buf, bk.PageSize, bk.Orientation, pp, e.log)
			if err != nil {
				return err
			}
			return doc.AddImagePage(encoded, wPt, hPt)
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return e.cancel(job)
			}
			return e.fail(job, fmt.Errorf("page %d: %w", pageNum, err))
		}

		job.Progress = (i + 1) * 100 / len(pages)
		if err := e.store.Update(job); err != nil {
			return e.fail(job, err)
		}
		if e.progress != nil {
			e.progress(job.ID, job.Progress)
		}
	}

	out, err := doc.Bytes()
	if err != nil {
		return e.fail(job, err)
	}
	job.Output = out
	job.State = StateCompleted
	job.Progress = 100
	if err := e.store.Update(job); err != nil {
		return newJobError("Run", err)
	}
	e.log.Info().Str("job", job.ID).Int("pages", len(pages)).Int("bytes", len(out)).
		Msg("export completed")
	return nil
}

// Export is StartExport followed by Run.
func (e *Exporter) Export(ctx context.Context, bk *book.Book, role Role, opts Options) (*Job, error) {
	job, err := e.StartExport(bk, role, opts)
	if err != nil {
		return nil, err
	}
	if err := e.Run(ctx, job, bk); err != nil {
		return job, err
	}
	return job, nil
}

// fail moves the job to StateFailed and returns the wrapped error.
func (e *Exporter) fail(job *Job, cause error) error {
	job.State = StateFailed
	job.Error = cause.Error()
	job.Output = nil
	if err := e.store.Update(job); err != nil {
		e.log.Error().Str("job", job.ID).Err(err).Msg("failed to persist job failure")
	}
	e.log.Error().Str("job", job.ID).Err(cause).Msg("export failed")
	return newJobError("Run", cause)
}

// cancel moves the job to StateCancelled, discarding all partial work.
func (e *Exporter) cancel(job *Job) error {
	job.State = StateCancelled
	job.Output = nil
	if err := e.store.Update(job); err != nil {
		e.log.Error().Str("job", job.ID).Err(err).Msg("failed to persist job cancellation")
	}
	e.log.Info().Str("job", job.ID).Msg("export cancelled")
	return nil
}

func newJobID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("job-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
