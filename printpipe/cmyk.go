package printpipe

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"seehuhn.de/go/icc"
)

// Profile is a validated CMYK ICC profile, kept as raw bytes for
// embedding in the PDF output intent.
type Profile struct {
	data []byte
	desc string
}

// ParseProfile validates raw ICC profile data and requires a CMYK output
// space.
func ParseProfile(data []byte) (*Profile, error) {
	p, err := icc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("printpipe: parse icc profile: %w", err)
	}
	if p.ColorSpace != icc.CMYKSpace {
		return nil, fmt.Errorf("printpipe: icc profile color space %v, need CMYK", p.ColorSpace)
	}
	return &Profile{data: data, desc: fmt.Sprintf("%v", p.ColorSpace)}, nil
}

// LoadProfile reads and validates an ICC profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("printpipe: read icc profile: %w", err)
	}
	return ParseProfile(data)
}

// Bytes returns the raw profile for embedding.
func (p *Profile) Bytes() []byte { return p.data }

// ToCMYK converts an RGB raster to CMYK separation. The conversion is
// device-independent; an attached ICC profile characterizes the result
// for the press but does not alter pixel values here.
func ToCMYK(src image.Image) *image.CMYK {
	b := src.Bounds()
	dst := image.NewCMYK(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			c, m, ye, k := color.RGBToCMYK(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
			dst.Pix[i] = c
			dst.Pix[i+1] = m
			dst.Pix[i+2] = ye
			dst.Pix[i+3] = k
		}
	}
	return dst
}
