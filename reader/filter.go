package reader

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// decodeStream applies the stream's filter chain. The assembler writes
// only two filters: FlateDecode for compressed content and CMYK image
// data, and DCTDecode for embedded JPEGs. DCTDecode is passed through
// raw; callers that want pixels hand the bytes to the JPEG decoder.
func decodeStream(s Stream) ([]byte, error) {
	filter := s.Dict["Filter"]
	if filter == nil {
		return s.Data, nil
	}

	var filters []Name
	switch f := filter.(type) {
	case Name:
		filters = []Name{f}
	case Array:
		for _, item := range f {
			n, ok := item.(Name)
			if !ok {
				return nil, fmt.Errorf("reader: filter array holds a %T", item)
			}
			filters = append(filters, n)
		}
	default:
		return nil, fmt.Errorf("reader: /Filter is a %T", filter)
	}

	data := s.Data
	for _, f := range filters {
		switch f {
		case "FlateDecode":
			var err error
			data, err = inflate(data)
			if err != nil {
				return nil, fmt.Errorf("reader: FlateDecode: %w", err)
			}
		case "DCTDecode":
			// Kept as compressed JPEG bytes.
		default:
			return nil, fmt.Errorf("reader: unsupported filter /%s", f)
		}
	}
	return data, nil
}

// inflate decompresses a zlib stream.
func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
