package reader

import (
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// Document is a parsed PDF file.
type Document struct {
	Version string // from the %PDF- header, e.g. "1.4"
	xref    xrefTable
	trailer Dict
	data    []byte
	pages   []*Page
}

// Open parses a PDF file from disk.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reader: opening %s: %w", filename, err)
	}
	return Parse(data)
}

// ReadFrom parses a PDF document from a reader. The content is read
// entirely into memory; the xref table needs random access.
func ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reader: reading input: %w", err)
	}
	return Parse(data)
}

// Parse builds a Document from raw PDF bytes.
func Parse(data []byte) (*Document, error) {
	doc := &Document{data: data}
	doc.Version = parseVersion(data)

	start, err := startXRefOffset(data)
	if err != nil {
		return nil, err
	}
	doc.xref, doc.trailer, err = readXRef(data, start)
	if err != nil {
		return nil, err
	}

	if err := doc.collectPages(); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseVersion extracts the version from the %PDF-1.x header line.
func parseVersion(data []byte) string {
	if len(data) < 8 {
		return ""
	}
	header := string(data[:min(20, len(data))])
	if idx := strings.Index(header, "%PDF-"); idx >= 0 {
		end := idx + 5
		for end < len(header) && header[end] != '\n' && header[end] != '\r' {
			end++
		}
		return header[idx+5 : end]
	}
	return ""
}

// NumPages returns the total number of pages in the document.
func (d *Document) NumPages() int {
	return len(d.pages)
}

// Page returns the page at the given 1-based index.
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("reader: page %d out of range [1, %d]", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// Pages returns an iterator over all pages. Index is 1-based.
func (d *Document) Pages() iter.Seq2[int, *Page] {
	return func(yield func(int, *Page) bool) {
		for i, page := range d.pages {
			if !yield(i+1, page) {
				return
			}
		}
	}
}

// Metadata returns the /Info dictionary's string entries.
func (d *Document) Metadata() map[string]string {
	meta := make(map[string]string)

	infoObj, err := d.resolveIfRef(d.trailer["Info"])
	if err != nil {
		return meta
	}
	info, ok := infoObj.(Dict)
	if !ok {
		return meta
	}

	for _, key := range []Name{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"} {
		if s, ok := info[key].(String); ok {
			meta[string(key)] = decodePDFString(s.Value)
		}
	}
	return meta
}

// resolve loads the object a reference points at. A missing or freed
// entry resolves to null, as the format prescribes.
func (d *Document) resolve(ref Reference) (Object, error) {
	entry, ok := d.xref[ref.Number]
	if !ok || !entry.InUse {
		return Null{}, nil
	}
	if entry.Offset < 0 || int(entry.Offset) >= len(d.data) {
		return nil, fmt.Errorf("reader: object %d offset %d out of bounds", ref.Number, entry.Offset)
	}

	obj, err := lex(d.data[entry.Offset:]).indirect()
	if err != nil {
		return nil, fmt.Errorf("reader: object %d: %w", ref.Number, err)
	}
	return obj.Value, nil
}

// resolveIfRef resolves an object if it is a Reference, otherwise returns
// it as-is.
func (d *Document) resolveIfRef(obj Object) (Object, error) {
	if ref, ok := obj.(Reference); ok {
		return d.resolve(ref)
	}
	return obj, nil
}

// ResolveReference is the public form of resolve.
func (d *Document) ResolveReference(ref Reference) (Object, error) {
	return d.resolve(ref)
}

// decodePDFString decodes a PDF text string: UTF-16BE when the BOM is
// present, Latin-1 otherwise.
func decodePDFString(data []byte) string {
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16BE(data[2:])
	}
	var buf strings.Builder
	for _, b := range data {
		buf.WriteRune(rune(b))
	}
	return buf.String()
}

func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	var buf strings.Builder
	for i := 0; i+1 < len(data); i += 2 {
		buf.WriteRune(rune(uint16(data[i])<<8 | uint16(data[i+1])))
	}
	return buf.String()
}
