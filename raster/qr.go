package raster

import (
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// qrImage encodes content as a QR code scaled to the given box. The box is
// clamped to a sane minimum so degenerate elements still produce a
// scannable code.
func qrImage(content string, w, h int) (image.Image, error) {
	if w < 21 {
		w = 21
	}
	if h < 21 {
		h = 21
	}
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", content, err)
	}
	scaled, err := barcode.Scale(code, w, h)
	if err != nil {
		return nil, fmt.Errorf("scaling: %w", err)
	}
	return scaled, nil
}
