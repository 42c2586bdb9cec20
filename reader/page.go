package reader

import "fmt"

// Rectangle is a PDF rectangle in [llx lly urx ury] form.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent in points.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent in points.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// Page is one leaf of the page tree with its inheritable attributes
// resolved. The assembler emits exactly one content stream and one image
// XObject per page; Contents tolerates an array of streams anyway.
type Page struct {
	Number    int
	MediaBox  Rectangle
	Resources Dict
	Contents  []Stream

	doc *Document
}

// ContentStream returns the page's decoded content, with multiple streams
// concatenated in order.
func (p *Page) ContentStream() ([]byte, error) {
	var out []byte
	for _, s := range p.Contents {
		data, err := decodeStream(s)
		if err != nil {
			return nil, fmt.Errorf("reader: page %d content: %w", p.Number, err)
		}
		out = append(out, data...)
		out = append(out, '\n')
	}
	return out, nil
}

// rectangleFrom reads a 4-element numeric array.
func rectangleFrom(obj Object) (Rectangle, error) {
	arr, ok := obj.(Array)
	if !ok || len(arr) != 4 {
		return Rectangle{}, fmt.Errorf("reader: rectangle must be a 4-element array")
	}
	var v [4]float64
	for i, el := range arr {
		switch n := el.(type) {
		case Integer:
			v[i] = float64(n)
		case Real:
			v[i] = float64(n)
		default:
			return Rectangle{}, fmt.Errorf("reader: rectangle element %d is not a number", i)
		}
	}
	return Rectangle{LLX: v[0], LLY: v[1], URX: v[2], URY: v[3]}, nil
}

// collectPages walks Root -> Pages -> Kids and flattens the tree into the
// document's page list.
func (d *Document) collectPages() error {
	root, err := d.dictEntry(d.trailer, "Root")
	if err != nil {
		return fmt.Errorf("reader: document catalog: %w", err)
	}
	pages, err := d.dictEntry(root, "Pages")
	if err != nil {
		return fmt.Errorf("reader: page tree root: %w", err)
	}
	d.pages = nil
	return d.appendLeaves(pages, nil)
}

// appendLeaves recurses through a page tree node, carrying the
// inheritable attributes down to the leaves.
func (d *Document) appendLeaves(node Dict, inherited Dict) error {
	attrs := make(Dict, len(inherited)+2)
	for k, v := range inherited {
		attrs[k] = v
	}
	for _, key := range []Name{"MediaBox", "Resources"} {
		if v, ok := node[key]; ok {
			attrs[key] = v
		}
	}

	if node.GetName("Type") == "Page" {
		return d.appendPage(node, attrs)
	}

	kidsObj, err := d.resolveIfRef(node["Kids"])
	if err != nil {
		return fmt.Errorf("reader: page tree kids: %w", err)
	}
	kids, _ := kidsObj.(Array)
	for _, kid := range kids {
		kidObj, err := d.resolveIfRef(kid)
		if err != nil {
			return fmt.Errorf("reader: page tree node: %w", err)
		}
		kidDict, ok := kidObj.(Dict)
		if !ok {
			continue
		}
		if err := d.appendLeaves(kidDict, attrs); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) appendPage(node, attrs Dict) error {
	pg := &Page{Number: len(d.pages) + 1, doc: d}

	if mb, ok := attrs["MediaBox"]; ok {
		if resolved, err := d.resolveIfRef(mb); err == nil {
			if rect, err := rectangleFrom(resolved); err == nil {
				pg.MediaBox = rect
			}
		}
	}
	if res, ok := attrs["Resources"]; ok {
		if resolved, err := d.resolveIfRef(res); err == nil {
			if dict, ok := resolved.(Dict); ok {
				pg.Resources = dict
			}
		}
	}
	if contents, ok := node["Contents"]; ok {
		resolved, err := d.resolveIfRef(contents)
		if err != nil {
			return fmt.Errorf("reader: page %d contents: %w", pg.Number, err)
		}
		switch c := resolved.(type) {
		case Stream:
			pg.Contents = []Stream{c}
		case Array:
			for _, item := range c {
				if s, err := d.resolveIfRef(item); err == nil {
					if stream, ok := s.(Stream); ok {
						pg.Contents = append(pg.Contents, stream)
					}
				}
			}
		}
	}
	d.pages = append(d.pages, pg)
	return nil
}

// dictEntry resolves a dictionary-valued entry, following a reference if
// needed.
func (d *Document) dictEntry(in Dict, key Name) (Dict, error) {
	obj, ok := in[key]
	if !ok {
		return nil, fmt.Errorf("missing /%s", key)
	}
	resolved, err := d.resolveIfRef(obj)
	if err != nil {
		return nil, err
	}
	dict, ok := resolved.(Dict)
	if !ok {
		return nil, fmt.Errorf("/%s is not a dictionary", key)
	}
	return dict, nil
}
