package reader_test

import (
	"bytes"
	"image"
	"testing"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/pdfgen"
	"github.com/pillepelle-123/bookpress/printpipe"
	"github.com/pillepelle-123/bookpress/reader"
)

// generateTestPDF builds a PDF with one solid-color raster page per given
// color, using the same assembler the export pipeline uses.
func generateTestPDF(t *testing.T, title string, pageColors ...byte) []byte {
	t.Helper()
	doc := pdfgen.NewDocument()
	doc.SetTitle(title)
	wPt, hPt := book.SizePoints(book.PageSizeA4, book.OrientationPortrait)

	for _, c := range pageColors {
		img := image.NewRGBA(image.Rect(0, 0, 60, 85))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i] = c
			img.Pix[i+3] = 0xff
		}
		page, err := printpipe.EncodeRGB(img, 0)
		if err != nil {
			t.Fatalf("encoding page image: %v", err)
		}
		if err := doc.AddImagePage(page, wPt, hPt); err != nil {
			t.Fatalf("adding page: %v", err)
		}
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("generating test PDF: %v", err)
	}
	return out
}

func TestOpenRoundTrip(t *testing.T) {
	data := generateTestPDF(t, "Round Trip", 0x10, 0x20)

	doc, err := reader.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}

	if doc.NumPages() != 2 {
		t.Errorf("expected 2 pages, got %d", doc.NumPages())
	}

	if doc.Version != "1.4" {
		t.Errorf("version = %q, want 1.4", doc.Version)
	}
}

func TestPageAccess(t *testing.T) {
	data := generateTestPDF(t, "Pages", 1, 2, 3)

	doc, err := reader.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}

	wPt, hPt := book.SizePoints(book.PageSizeA4, book.OrientationPortrait)
	for i := 1; i <= 3; i++ {
		page, err := doc.Page(i)
		if err != nil {
			t.Errorf("page %d: %v", i, err)
			continue
		}
		if page.Number != i {
			t.Errorf("page %d: number = %d", i, page.Number)
		}
		if dw := page.MediaBox.Width() - wPt; dw > 0.01 || dw < -0.01 {
			t.Errorf("page %d: width %v, want %v", i, page.MediaBox.Width(), wPt)
		}
		if dh := page.MediaBox.Height() - hPt; dh > 0.01 || dh < -0.01 {
			t.Errorf("page %d: height %v, want %v", i, page.MediaBox.Height(), hPt)
		}
	}

	// Invalid page access
	if _, err := doc.Page(0); err == nil {
		t.Error("expected error for page 0")
	}
	if _, err := doc.Page(4); err == nil {
		t.Error("expected error for page 4")
	}
}

func TestPagesIterator(t *testing.T) {
	data := generateTestPDF(t, "Iterate", 1, 2)

	doc, err := reader.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}

	count := 0
	for num, page := range doc.Pages() {
		count++
		if page.Number != num {
			t.Errorf("iterator: page.Number=%d, num=%d", page.Number, num)
		}
	}
	if count != 2 {
		t.Errorf("iterator: expected 2 iterations, got %d", count)
	}
}

func TestMetadata(t *testing.T) {
	data := generateTestPDF(t, "Our Class Book", 1)

	doc, err := reader.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}

	meta := doc.Metadata()
	if meta["Title"] != "Our Class Book" {
		t.Errorf("Title = %q, want %q", meta["Title"], "Our Class Book")
	}
	if meta["Creator"] == "" {
		t.Error("expected Creator metadata")
	}
}

func TestContentStream(t *testing.T) {
	data := generateTestPDF(t, "Content", 1)

	doc, err := reader.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}

	page, err := doc.Page(1)
	if err != nil {
		t.Fatalf("getting page: %v", err)
	}

	content, err := page.ContentStream()
	if err != nil {
		t.Fatalf("getting content stream: %v", err)
	}
	if !bytes.Contains(content, []byte("/Im0 Do")) {
		t.Errorf("content stream missing image placement: %q", content)
	}
}

func TestImageExtraction(t *testing.T) {
	data := generateTestPDF(t, "Images", 0x42)

	doc, err := reader.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	page, err := doc.Page(1)
	if err != nil {
		t.Fatalf("getting page: %v", err)
	}

	images, err := page.Images()
	if err != nil {
		t.Fatalf("extracting images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	info := images[0]
	if info.Width != 60 || info.Height != 85 {
		t.Errorf("image is %dx%d, want 60x85", info.Width, info.Height)
	}
	if info.Filter != "DCTDecode" || info.ColorSpace != "DeviceRGB" {
		t.Errorf("unexpected stream metadata: %+v", info)
	}

	img, err := info.Decode()
	if err != nil {
		t.Fatalf("decoding image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 85 {
		t.Errorf("decoded image is %v", b)
	}
}

func TestCMYKImageExtraction(t *testing.T) {
	cm := image.NewCMYK(image.Rect(0, 0, 8, 8))
	for i := 3; i < len(cm.Pix); i += 4 {
		cm.Pix[i] = 0xff // solid key
	}
	page, err := printpipe.EncodeCMYK(cm, nil)
	if err != nil {
		t.Fatalf("encoding cmyk page: %v", err)
	}
	doc := pdfgen.NewDocument()
	if err := doc.AddImagePage(page, 595.28, 841.89); err != nil {
		t.Fatalf("adding page: %v", err)
	}
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("generating PDF: %v", err)
	}

	parsed, err := reader.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	pg, err := parsed.Page(1)
	if err != nil {
		t.Fatalf("getting page: %v", err)
	}
	images, err := pg.Images()
	if err != nil || len(images) != 1 {
		t.Fatalf("images = %v, %v", images, err)
	}
	img, err := images[0].Decode()
	if err != nil {
		t.Fatalf("decoding cmyk image: %v", err)
	}
	out, ok := img.(*image.CMYK)
	if !ok {
		t.Fatalf("decoded type %T, want *image.CMYK", img)
	}
	if !bytes.Equal(out.Pix, cm.Pix) {
		t.Error("cmyk separations did not round-trip")
	}
}
