// Package book defines the shared data model for photo books: books, pages,
// elements and backgrounds, together with the JSON schema used to exchange
// them between the editor, the persistence layer and the export pipeline.
//
// The model is deliberately free of rendering logic. Geometry is always
// expressed in page-local pixel coordinates at the base canvas resolution;
// viewport and export transforms are applied by the consumers.
package book

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Book is an ordered sequence of pages sharing a physical page format and
// optional book-level theme and palette that pages may inherit or override.
type Book struct {
	ID          string      `json:"id"`
	Title       string      `json:"title,omitempty"`
	PageSize    PageSize    `json:"pageSize,omitempty"`    // default: A4
	Orientation Orientation `json:"orientation,omitempty"` // default: portrait
	Theme       string      `json:"theme,omitempty"`
	Palette     string      `json:"palette,omitempty"`
	ShareURL    string      `json:"shareUrl,omitempty"` // printed as QR code elements
	Pages       []Page      `json:"pages"`
}

// Page is an ordered sequence of elements plus exactly one background spec.
// Element order is z-order unless an element carries an explicit z index.
type Page struct {
	ID         string      `json:"id"`
	Elements   []Element   `json:"elements"`
	Background *Background `json:"background,omitempty"`
	Theme      string      `json:"theme,omitempty"`
	Palette    string      `json:"palette,omitempty"`
	Layout     string      `json:"layout,omitempty"`
}

// Parse decodes a book from its JSON representation.
func Parse(data []byte) (*Book, error) {
	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("book: parsing: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Load reads and parses a book JSON file from disk.
func Load(filename string) (*Book, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("book: opening %s: %w", filename, err)
	}
	return Parse(data)
}

// ReadFrom parses a book from a reader.
func ReadFrom(r io.Reader) (*Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("book: reading input: %w", err)
	}
	return Parse(data)
}

// Validate checks structural invariants: element ids are unique across the
// book, every element has a known type, and page ids are unique.
func (b *Book) Validate() error {
	pageIDs := make(map[string]bool, len(b.Pages))
	elemIDs := make(map[string]bool)
	for pi := range b.Pages {
		p := &b.Pages[pi]
		if p.ID != "" {
			if pageIDs[p.ID] {
				return fmt.Errorf("book: duplicate page id %q", p.ID)
			}
			pageIDs[p.ID] = true
		}
		for ei := range p.Elements {
			el := &p.Elements[ei]
			if !el.Type.Valid() {
				return fmt.Errorf("book: page %d: unknown element type %q", pi+1, el.Type)
			}
			if el.ID == "" {
				return fmt.Errorf("book: page %d: element %d has no id", pi+1, ei)
			}
			if elemIDs[el.ID] {
				return fmt.Errorf("book: duplicate element id %q", el.ID)
			}
			elemIDs[el.ID] = true
		}
		if p.Background != nil {
			if err := p.Background.validate(); err != nil {
				return fmt.Errorf("book: page %d: %w", pi+1, err)
			}
		}
	}
	return nil
}

// Page returns the page at the given 1-based index.
func (b *Book) Page(n int) (*Page, error) {
	if n < 1 || n > len(b.Pages) {
		return nil, fmt.Errorf("book: page %d out of range [1, %d]", n, len(b.Pages))
	}
	return &b.Pages[n-1], nil
}

// NumPages returns the total number of pages in the book.
func (b *Book) NumPages() int { return len(b.Pages) }
