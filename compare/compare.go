// Package compare diagnoses differences between two PDF exports. It reads
// both documents with the reader package, checks structural properties
// (page count, physical page size) and decodes the embedded page rasters
// for a pixel-level difference measure. It exists to answer one question
// during pipeline debugging: are these two exports the same book?
package compare

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/reader"
)

// sizeTolerancePt is the allowed physical page size deviation, 0.1 mm
// expressed in PDF points.
const sizeTolerancePt = 0.1 / book.MMPerPoint

// pixelThreshold is the per-channel delta below which two pixels count as
// equal, absorbing JPEG quantization noise.
const pixelThreshold = 8

// PageDiff describes the differences found on one page pair.
type PageDiff struct {
	Page       int
	SizeDelta  float64 // max page dimension delta in points
	SizeDiffer bool
	ImageOnlyA bool // page raster present only in A
	ImageOnlyB bool
	// DiffRatio is the fraction of pixels differing beyond the noise
	// threshold, after scaling both rasters to a common size. -1 when
	// no pixel comparison was possible.
	DiffRatio float64
}

// Report is the outcome of comparing two documents.
type Report struct {
	PagesA int
	PagesB int
	Pages  []PageDiff
}

// Equal reports whether the documents match within tolerances.
func (r *Report) Equal() bool {
	if r.PagesA != r.PagesB {
		return false
	}
	for _, p := range r.Pages {
		if p.SizeDiffer || p.ImageOnlyA || p.ImageOnlyB || p.DiffRatio > 0 {
			return false
		}
	}
	return true
}

// Summary renders the report as a human-readable diagnostic.
func (r *Report) Summary() string {
	var b strings.Builder
	if r.PagesA != r.PagesB {
		fmt.Fprintf(&b, "page count differs: %d vs %d\n", r.PagesA, r.PagesB)
	}
	for _, p := range r.Pages {
		switch {
		case p.SizeDiffer:
			fmt.Fprintf(&b, "page %d: size differs by %.3f pt\n", p.Page, p.SizeDelta)
		case p.ImageOnlyA:
			fmt.Fprintf(&b, "page %d: raster present only in first document\n", p.Page)
		case p.ImageOnlyB:
			fmt.Fprintf(&b, "page %d: raster present only in second document\n", p.Page)
		case p.DiffRatio > 0:
			fmt.Fprintf(&b, "page %d: %.2f%% of pixels differ\n", p.Page, p.DiffRatio*100)
		}
	}
	if b.Len() == 0 {
		return "documents match\n"
	}
	return b.String()
}

// Files compares two PDF files on disk.
func Files(pathA, pathB string) (*Report, error) {
	docA, err := reader.Open(pathA)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	docB, err := reader.Open(pathB)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	return Documents(docA, docB)
}

// Documents compares two parsed documents page by page.
func Documents(docA, docB *reader.Document) (*Report, error) {
	report := &Report{PagesA: docA.NumPages(), PagesB: docB.NumPages()}

	n := docA.NumPages()
	if docB.NumPages() < n {
		n = docB.NumPages()
	}
	for i := 1; i <= n; i++ {
		pgA, err := docA.Page(i)
		if err != nil {
			return nil, fmt.Errorf("compare: %w", err)
		}
		pgB, err := docB.Page(i)
		if err != nil {
			return nil, fmt.Errorf("compare: %w", err)
		}
		diff, err := comparePage(i, pgA, pgB)
		if err != nil {
			return nil, err
		}
		report.Pages = append(report.Pages, diff)
	}
	return report, nil
}

func comparePage(num int, pgA, pgB *reader.Page) (PageDiff, error) {
	diff := PageDiff{Page: num, DiffRatio: -1}

	dw := pgA.MediaBox.Width() - pgB.MediaBox.Width()
	dh := pgA.MediaBox.Height() - pgB.MediaBox.Height()
	if dw < 0 {
		dw = -dw
	}
	if dh < 0 {
		dh = -dh
	}
	diff.SizeDelta = dw
	if dh > dw {
		diff.SizeDelta = dh
	}
	diff.SizeDiffer = diff.SizeDelta > sizeTolerancePt

	imgA, err := pageRaster(pgA)
	if err != nil {
		return diff, fmt.Errorf("compare: page %d: %w", num, err)
	}
	imgB, err := pageRaster(pgB)
	if err != nil {
		return diff, fmt.Errorf("compare: page %d: %w", num, err)
	}
	switch {
	case imgA == nil && imgB == nil:
		return diff, nil
	case imgB == nil:
		diff.ImageOnlyA = true
		return diff, nil
	case imgA == nil:
		diff.ImageOnlyB = true
		return diff, nil
	}

	diff.DiffRatio = pixelDiff(imgA, imgB)
	return diff, nil
}

// pageRaster decodes the page's single embedded raster, or nil when the
// page carries none.
func pageRaster(pg *reader.Page) (image.Image, error) {
	images, err := pg.Images()
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}
	return images[0].Decode()
}

// pixelDiff scales both rasters to the smaller common size and returns
// the fraction of pixels whose channel delta exceeds the noise threshold.
func pixelDiff(a, b image.Image) float64 {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	if bw := b.Bounds().Dx(); bw < w {
		w = bw
	}
	if bh := b.Bounds().Dy(); bh < h {
		h = bh
	}
	if w == 0 || h == 0 {
		return 1
	}

	na := normalize(a, w, h)
	nb := normalize(b, w, h)

	differing := 0
	for i := 0; i < len(na.Pix); i += 4 {
		if absDelta(na.Pix[i], nb.Pix[i]) > pixelThreshold ||
			absDelta(na.Pix[i+1], nb.Pix[i+1]) > pixelThreshold ||
			absDelta(na.Pix[i+2], nb.Pix[i+2]) > pixelThreshold {
			differing++
		}
	}
	return float64(differing) / float64(w*h)
}

// normalize converts any decoded raster to RGBA at the given size.
func normalize(img image.Image, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

func absDelta(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
