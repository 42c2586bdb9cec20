// Package pdfgen assembles print-ready PDF files. Each page is a single
// full-bleed raster image placed at the page's exact physical dimensions,
// which is the contract the rest of the pipeline produces: composition
// happens in the rasterizer, not in the PDF.
package pdfgen

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/pillepelle-123/bookpress/printpipe"
)

const pdfVersion = "1.4"

type pageEntry struct {
	img *printpipe.EncodedPage
	wPt float64
	hPt float64
}

// Document accumulates pages and serializes them as a PDF. It is not safe
// for concurrent use; an export job owns its document.
type Document struct {
	pages   []pageEntry
	title   string
	creator string
	now     func() time.Time
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{creator: "bookpress", now: time.Now}
}

// SetTitle sets the document title recorded in the info dictionary.
func (d *Document) SetTitle(title string) { d.title = title }

// AddImagePage appends one page. widthPt and heightPt are the physical
// page dimensions in PDF points; the image is stretched to cover the page
// exactly.
func (d *Document) AddImagePage(img *printpipe.EncodedPage, widthPt, heightPt float64) error {
	if img == nil || len(img.Data) == 0 {
		return fmt.Errorf("pdfgen: empty page image")
	}
	if widthPt <= 0 || heightPt <= 0 {
		return fmt.Errorf("pdfgen: invalid page size %gx%g pt", widthPt, heightPt)
	}
	d.pages = append(d.pages, pageEntry{img: img, wPt: widthPt, hPt: heightPt})
	return nil
}

// NumPages returns the number of pages added so far.
func (d *Document) NumPages() int { return len(d.pages) }

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if len(d.pages) == 0 {
		return 0, fmt.Errorf("pdfgen: document has no pages")
	}

	// Object numbering: 1 catalog, 2 page tree, 3 info, then three
	// objects per page (page, contents, image), then one optional ICC
	// stream plus output intent.
	const firstPageObj = 4
	objPage := func(i int) int { return firstPageObj + 3*i }
	objContents := func(i int) int { return firstPageObj + 3*i + 1 }
	objImage := func(i int) int { return firstPageObj + 3*i + 2 }

	nextObj := firstPageObj + 3*len(d.pages)
	profile := d.outputProfile()
	objICC, objIntent := 0, 0
	if profile != nil {
		objICC, objIntent = nextObj, nextObj+1
		nextObj += 2
	}
	numObjs := nextObj - 1

	var buf bytes.Buffer
	offsets := make([]int, numObjs+1)

	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", pdfVersion)

	begin := func(num int) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", num)
	}
	end := func() { buf.WriteString("endobj\n") }

	// Catalog.
	begin(1)
	buf.WriteString("<< /Type /Catalog /Pages 2 0 R")
	if objIntent != 0 {
		fmt.Fprintf(&buf, " /OutputIntents [%d 0 R]", objIntent)
	}
	buf.WriteString(" >>\n")
	end()

	// Page tree.
	begin(2)
	buf.WriteString("<< /Type /Pages /Kids [")
	for i := range d.pages {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%d 0 R", objPage(i))
	}
	fmt.Fprintf(&buf, "] /Count %d >>\n", len(d.pages))
	end()

	// Info.
	begin(3)
	buf.WriteString("<< ")
	if d.title != "" {
		fmt.Fprintf(&buf, "/Title (%s) ", escapeString(d.title))
	}
	fmt.Fprintf(&buf, "/Creator (%s) /CreationDate (D:%s) >>\n",
		escapeString(d.creator), d.now().UTC().Format("20060102150405Z"))
	end()

	for i, pg := range d.pages {
		content := fmt.Sprintf("q\n%.4f 0 0 %.4f 0 0 cm\n/Im0 Do\nQ\n", pg.wPt, pg.hPt)

		begin(objPage(i))
		fmt.Fprintf(&buf,
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.4f %.4f] /Resources << /XObject << /Im0 %d 0 R >> >> /Contents %d 0 R >>\n",
			pg.wPt, pg.hPt, objImage(i), objContents(i))
		end()

		begin(objContents(i))
		fmt.Fprintf(&buf, "<< /Length %d >>\nstream\n%s\nendstream\n", len(content), content)
		end()

		begin(objImage(i))
		fmt.Fprintf(&buf,
			"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /%s /BitsPerComponent 8 /Filter /%s /Length %d >>\nstream\n",
			pg.img.Width, pg.img.Height, pg.img.ColorSpace, pg.img.Filter, len(pg.img.Data))
		buf.Write(pg.img.Data)
		buf.WriteString("\nendstream\n")
		end()
	}

	if profile != nil {
		data := profile.Bytes()
		begin(objICC)
		fmt.Fprintf(&buf, "<< /N 4 /Length %d >>\nstream\n", len(data))
		buf.Write(data)
		buf.WriteString("\nendstream\n")
		end()

		begin(objIntent)
		fmt.Fprintf(&buf,
			"<< /Type /OutputIntent /S /GTS_PDFX /OutputConditionIdentifier (Custom) /DestOutputProfile %d 0 R >>\n",
			objICC)
		end()
	}

	// Cross-reference table and trailer.
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", numObjs+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= numObjs; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 3 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		numObjs+1, xrefOffset)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// outputProfile returns the ICC profile to embed, taken from the first
// page that carries one. Mixed-profile documents are not a thing this
// pipeline produces.
func (d *Document) outputProfile() *printpipe.Profile {
	for _, pg := range d.pages {
		if pg.img.Profile != nil {
			return pg.img.Profile
		}
	}
	return nil
}

// escapeString escapes the PDF literal-string delimiters.
func escapeString(s string) string {
	var out bytes.Buffer
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', ')', '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
