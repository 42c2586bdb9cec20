package reader

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sort"
)

// ImageInfo describes one image XObject referenced by a page.
type ImageInfo struct {
	Name             string // resource name, e.g. "Im0"
	Width            int
	Height           int
	ColorSpace       string // e.g. "DeviceRGB", "DeviceCMYK"
	Filter           string // e.g. "DCTDecode", "FlateDecode"
	BitsPerComponent int
	stream           Stream
}

// RawData returns the image stream bytes as stored in the file, still
// encoded with the stream's filter.
func (i ImageInfo) RawData() []byte { return i.stream.Data }

// Images returns the image XObjects referenced by the page's resource
// dictionary, sorted by resource name so callers see a stable order.
func (p *Page) Images() ([]ImageInfo, error) {
	if p.Resources == nil {
		return nil, nil
	}
	xobjs, err := p.doc.resolveIfRef(p.Resources["XObject"])
	if err != nil {
		return nil, fmt.Errorf("reader: page %d xobjects: %w", p.Number, err)
	}
	dict, ok := xobjs.(Dict)
	if !ok {
		return nil, nil
	}

	names := make([]Name, 0, len(dict))
	for name := range dict {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	var images []ImageInfo
	for _, name := range names {
		resolved, err := p.doc.resolveIfRef(dict[name])
		if err != nil {
			return nil, fmt.Errorf("reader: page %d xobject %s: %w", p.Number, name, err)
		}
		s, ok := resolved.(Stream)
		if !ok || s.Dict.GetName("Subtype") != "Image" {
			continue
		}
		info := ImageInfo{
			Name:       string(name),
			ColorSpace: string(s.Dict.GetName("ColorSpace")),
			Filter:     string(s.Dict.GetName("Filter")),
			stream:     s,
		}
		if w, ok := s.Dict.GetInt("Width"); ok {
			info.Width = int(w)
		}
		if h, ok := s.Dict.GetInt("Height"); ok {
			info.Height = int(h)
		}
		if b, ok := s.Dict.GetInt("BitsPerComponent"); ok {
			info.BitsPerComponent = int(b)
		}
		images = append(images, info)
	}
	return images, nil
}

// Decode turns the image stream into a pixel image. DCTDecode streams are
// decoded as JPEG; FlateDecode streams are decompressed and interpreted
// as raw 8-bit samples in the declared color space.
func (i ImageInfo) Decode() (image.Image, error) {
	switch i.Filter {
	case "DCTDecode":
		img, err := jpeg.Decode(bytes.NewReader(i.stream.Data))
		if err != nil {
			return nil, fmt.Errorf("reader: decoding jpeg image %s: %w", i.Name, err)
		}
		return img, nil

	case "FlateDecode":
		raw, err := decodeStream(i.stream)
		if err != nil {
			return nil, fmt.Errorf("reader: decoding image %s: %w", i.Name, err)
		}
		switch i.ColorSpace {
		case "DeviceRGB":
			return rawToRGB(raw, i.Width, i.Height, i.Name)
		case "DeviceCMYK":
			return rawToCMYK(raw, i.Width, i.Height, i.Name)
		}
		return nil, fmt.Errorf("reader: image %s: unsupported color space %s", i.Name, i.ColorSpace)
	}
	return nil, fmt.Errorf("reader: image %s: unsupported filter %s", i.Name, i.Filter)
}

func rawToRGB(raw []byte, w, h int, name string) (image.Image, error) {
	if len(raw) < w*h*3 {
		return nil, fmt.Errorf("reader: image %s: %d bytes for %dx%d rgb", name, len(raw), w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4] = raw[i*3]
		img.Pix[i*4+1] = raw[i*3+1]
		img.Pix[i*4+2] = raw[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

func rawToCMYK(raw []byte, w, h int, name string) (image.Image, error) {
	if len(raw) < w*h*4 {
		return nil, fmt.Errorf("reader: image %s: %d bytes for %dx%d cmyk", name, len(raw), w, h)
	}
	img := image.NewCMYK(image.Rect(0, 0, w, h))
	copy(img.Pix, raw[:w*h*4])
	return img, nil
}
