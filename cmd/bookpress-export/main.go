// Command bookpress-export renders a book JSON file to a print-ready PDF
// using the headless export pipeline.
//
// # Usage
//
//	bookpress-export -in book.json -out book.pdf [flags]
//
// # Flags
//
//   - -in: book JSON file (required)
//   - -out: output PDF file (required)
//   - -quality: preview, medium, printing or excellent (default medium)
//   - -range: "all", "START-END" or "current:N" (default all)
//   - -role: author, owner or publisher (default owner)
//   - -cmyk: convert page rasters to CMYK
//   - -icc: CMYK ICC profile file for press characterization
//   - -v: verbose progress logging
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/pillepelle-123/bookpress/book"
	"github.com/pillepelle-123/bookpress/export"
	"github.com/pillepelle-123/bookpress/printpipe"
)

func main() {
	var (
		inPath  = flag.String("in", "", "book JSON file")
		outPath = flag.String("out", "", "output PDF file")
		quality = flag.String("quality", "medium", "quality tier: preview, medium, printing, excellent")
		rng     = flag.String("range", "all", `page range: "all", "START-END" or "current:N"`)
		role    = flag.String("role", "owner", "requester role: author, owner, publisher")
		cmyk    = flag.Bool("cmyk", false, "convert page rasters to CMYK")
		iccPath = flag.String("icc", "", "CMYK ICC profile file")
		verbose = flag.Bool("v", false, "verbose progress logging")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "bookpress-export: -in and -out are required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*inPath, *outPath, *quality, *rng, *role, *cmyk, *iccPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "bookpress-export: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, quality, rng, role string, cmyk bool, iccPath string, verbose bool) error {
	bk, err := book.Load(inPath)
	if err != nil {
		return err
	}

	pageRange, err := export.ParseRange(rng)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	opts := export.Options{
		Quality: printpipe.Quality(quality),
		Range:   pageRange,
		CMYK:    cmyk,
		Title:   bk.Title,
	}
	if iccPath != "" {
		profile, err := printpipe.LoadProfile(iccPath)
		if err != nil {
			// An unavailable profile degrades to uncalibrated CMYK; it
			// never fails the export.
			log.Warn().Str("profile", iccPath).Err(err).
				Msg("icc profile unavailable, continuing uncalibrated")
		} else {
			opts.Profile = profile
		}
	}

	exporterOpts := []export.Option{export.WithLogger(log)}
	if verbose {
		exporterOpts = append(exporterOpts, export.WithProgress(func(jobID string, pct int) {
			fmt.Fprintf(os.Stderr, "\rrendering... %3d%%", pct)
			if pct == 100 {
				fmt.Fprintln(os.Stderr)
			}
		}))
	}
	exporter, err := export.New(exporterOpts...)
	if err != nil {
		return err
	}

	// Ctrl-C cancels the job cleanly: no partial file is written.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	job, err := exporter.Export(ctx, bk, export.Role(role), opts)
	if err != nil {
		return err
	}
	if job.State == export.StateCancelled {
		return fmt.Errorf("export cancelled")
	}

	if err := os.WriteFile(outPath, job.Output, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	pages, _ := pageRange.Select(bk.NumPages())
	fmt.Printf("wrote %s (%d pages, %d bytes)\n", outPath, len(pages), len(job.Output))
	return nil
}
