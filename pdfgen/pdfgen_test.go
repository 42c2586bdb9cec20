package pdfgen

import (
	"bytes"
	"fmt"
	"image"
	"strconv"
	"testing"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/printpipe"
)

func testEncodedPage(t *testing.T, w, h int) *printpipe.EncodedPage {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	page, err := printpipe.EncodeRGB(img, 0)
	if err != nil {
		t.Fatalf("EncodeRGB failed: %v", err)
	}
	return page
}

func TestEmptyDocumentRejected(t *testing.T) {
	if _, err := NewDocument().Bytes(); err == nil {
		t.Fatal("expected error for document without pages")
	}
}

func TestAddImagePageValidation(t *testing.T) {
	d := NewDocument()
	if err := d.AddImagePage(nil, 595, 842); err == nil {
		t.Fatal("expected error for nil image")
	}
	if err := d.AddImagePage(testEncodedPage(t, 10, 10), 0, 842); err == nil {
		t.Fatal("expected error for zero page width")
	}
}

func TestDocumentStructure(t *testing.T) {
	d := NewDocument()
	d.SetTitle("Our Class (2026)")
	wPt, hPt := book.SizePoints(book.PageSizeA4, book.OrientationPortrait)
	for i := 0; i < 2; i++ {
		if err := d.AddImagePage(testEncodedPage(t, 100, 141), wPt, hPt); err != nil {
			t.Fatalf("AddImagePage failed: %v", err)
		}
	}

	out, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	if !bytes.HasPrefix(out, []byte("%PDF-1.4\n")) {
		t.Fatal("missing PDF header")
	}
	if !bytes.HasSuffix(out, []byte("%%EOF\n")) {
		t.Fatal("missing EOF marker")
	}
	if !bytes.Contains(out, []byte("/Count 2")) {
		t.Fatal("page tree count missing")
	}
	// Physical page size must be exact to the point.
	want := fmt.Sprintf("/MediaBox [0 0 %.4f %.4f]", wPt, hPt)
	if !bytes.Contains(out, []byte(want)) {
		t.Fatalf("media box %q missing", want)
	}
	if !bytes.Contains(out, []byte("/Filter /DCTDecode")) {
		t.Fatal("image stream filter missing")
	}
	if !bytes.Contains(out, []byte("/Title (Our Class \\(2026\\))")) {
		t.Fatal("escaped title missing")
	}
}

func TestXrefOffsetsPointAtObjects(t *testing.T) {
	d := NewDocument()
	if err := d.AddImagePage(testEncodedPage(t, 10, 10), 595.28, 841.89); err != nil {
		t.Fatalf("AddImagePage failed: %v", err)
	}
	out, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	idx := bytes.LastIndex(out, []byte("startxref\n"))
	if idx < 0 {
		t.Fatal("startxref missing")
	}
	rest := out[idx+len("startxref\n"):]
	nl := bytes.IndexByte(rest, '\n')
	xrefOffset, err := strconv.Atoi(string(rest[:nl]))
	if err != nil {
		t.Fatalf("bad startxref value: %v", err)
	}
	if !bytes.HasPrefix(out[xrefOffset:], []byte("xref\n")) {
		t.Fatalf("startxref %d does not point at the xref table", xrefOffset)
	}

	// First entry after the free entry must locate object 1.
	table := out[xrefOffset:]
	lines := bytes.Split(table, []byte("\n"))
	// lines[0]=xref, [1]=subsection, [2]=free entry, [3]=object 1
	off, err := strconv.Atoi(string(lines[3][:10]))
	if err != nil {
		t.Fatalf("bad xref entry: %v", err)
	}
	if !bytes.HasPrefix(out[off:], []byte("1 0 obj")) {
		t.Fatalf("xref entry for object 1 points at %q", out[off:off+10])
	}
}

func TestOutputIntentEmbedsProfile(t *testing.T) {
	// An EncodedPage carrying a profile must surface as an OutputIntent.
	img := image.NewCMYK(image.Rect(0, 0, 10, 10))
	page, err := printpipe.EncodeCMYK(img, nil)
	if err != nil {
		t.Fatalf("EncodeCMYK failed: %v", err)
	}
	d := NewDocument()
	if err := d.AddImagePage(page, 595.28, 841.89); err != nil {
		t.Fatalf("AddImagePage failed: %v", err)
	}
	out, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !bytes.Contains(out, []byte("/ColorSpace /DeviceCMYK")) {
		t.Fatal("cmyk color space missing")
	}
	if bytes.Contains(out, []byte("/OutputIntents")) {
		t.Fatal("no profile given, output intent must be absent")
	}
}
