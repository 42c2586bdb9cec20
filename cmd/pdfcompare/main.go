// Command pdfcompare diagnoses differences between two PDF exports. It
// checks page counts and physical page sizes, then decodes the embedded
// page rasters and reports how much of each page pair differs. Both
// inputs must be files this pipeline exported; arbitrary PDFs are out of
// scope for the underlying reader.
//
// # Usage
//
//	pdfcompare a.pdf b.pdf
//
// Exit status is 0 when the documents match within tolerances, 1 when
// they differ, and 2 on error.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pillepelle-123/bookpress/compare"
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: pdfcompare a.pdf b.pdf")
		os.Exit(2)
	}

	report, err := compare.Files(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfcompare: %v\n", err)
		os.Exit(2)
	}

	fmt.Print(report.Summary())
	if !report.Equal() {
		os.Exit(1)
	}
}
