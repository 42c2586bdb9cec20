package printpipe

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/pillepelle-123/bookpress/book"
)

// Options controls post-processing of one export.
type Options struct {
	Quality     Quality
	CMYK        bool
	Profile     *Profile // optional press characterization
	JPEGQuality int      // 0 means the default
}

// Process turns one rendered page raster into its final embeddable form:
// resampled to the tier's target resolution, converted to CMYK when
// requested, and stream-encoded.
func Process(raster image.Image, size book.PageSize, orient book.Orientation, opt Options, log zerolog.Logger) (*EncodedPage, error) {
	tw, th, err := TargetPixels(size, orient, opt.Quality)
	if err != nil {
		return nil, err
	}

	rgba := Resample(raster, tw, th)

	if !opt.CMYK {
		return EncodeRGB(rgba, opt.JPEGQuality)
	}
	if opt.Profile == nil {
		// Still a valid export: the separations are just not
		// characterized for a specific press.
		log.Warn().Msg("cmyk export without icc profile, output is uncalibrated")
	}
	return EncodeCMYK(ToCMYK(rgba), opt.Profile)
}

// Validate checks the option combination before a job starts.
func (o Options) Validate() error {
	if !o.Quality.Valid() {
		return fmt.Errorf("printpipe: unknown quality tier %q", o.Quality)
	}
	if o.Profile != nil && !o.CMYK {
		return fmt.Errorf("printpipe: icc profile given for rgb output")
	}
	return nil
}
