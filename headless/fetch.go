package headless

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	// Image sources are user uploads; accept the formats the upload path
	// accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"
)

// maxImageBytes caps a single fetched image body.
const maxImageBytes = 32 << 20

// Fetcher resolves remote image references into decoded bitmaps.
type Fetcher struct {
	client *http.Client
	log    zerolog.Logger
}

// NewFetcher creates a fetcher using the given client, or the default
// client when nil.
func NewFetcher(client *http.Client, log zerolog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, log: log}
}

// Fetch downloads and decodes one image.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("headless: build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("headless: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("headless: fetch %s: status %d", url, resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("headless: decode %s: %w", url, err)
	}
	return img, nil
}
