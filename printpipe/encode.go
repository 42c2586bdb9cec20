package printpipe

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/jpeg"
)

// PDF stream filter names.
const (
	FilterDCT   = "DCTDecode"
	FilterFlate = "FlateDecode"
)

// PDF color space names.
const (
	SpaceRGB  = "DeviceRGB"
	SpaceCMYK = "DeviceCMYK"
)

// defaultJPEGQuality balances file size against compression artifacts on
// photo-heavy pages.
const defaultJPEGQuality = 90

// EncodedPage is one page raster in PDF-embeddable form.
type EncodedPage struct {
	Data       []byte
	Width      int
	Height     int
	Filter     string
	ColorSpace string
	Profile    *Profile // nil means uncalibrated
}

// EncodeRGB compresses an RGB raster as a JPEG stream for DCTDecode
// embedding.
func EncodeRGB(img image.Image, quality int) (*EncodedPage, error) {
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("printpipe: jpeg encode: %w", err)
	}
	b := img.Bounds()
	return &EncodedPage{
		Data:       buf.Bytes(),
		Width:      b.Dx(),
		Height:     b.Dy(),
		Filter:     FilterDCT,
		ColorSpace: SpaceRGB,
	}, nil
}

// EncodeCMYK compresses raw CMYK separations with Flate. CMYK goes
// through Flate rather than JPEG: Adobe's inverted-sample convention for
// CMYK JPEGs is a reliable source of press-side surprises.
func EncodeCMYK(img *image.CMYK, profile *Profile) (*EncodedPage, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(img.Pix); err != nil {
		return nil, fmt.Errorf("printpipe: flate encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("printpipe: flate encode: %w", err)
	}
	b := img.Bounds()
	return &EncodedPage{
		Data:       buf.Bytes(),
		Width:      b.Dx(),
		Height:     b.Dy(),
		Filter:     FilterFlate,
		ColorSpace: SpaceCMYK,
		Profile:    profile,
	}, nil
}
