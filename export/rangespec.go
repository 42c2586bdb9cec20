package export

import (
	"fmt"
	"strconv"
	"strings"
)

// RangeKind discriminates which pages an export covers.
type RangeKind string

// Range kinds.
const (
	RangeAll     RangeKind = "all"
	RangePages   RangeKind = "range"
	RangeCurrent RangeKind = "current"
)

// RangeSpec selects the pages of an export. Page numbers are 1-based and
// ranges are inclusive.
type RangeSpec struct {
	Kind    RangeKind
	Start   int // RangePages
	End     int // RangePages
	Current int // RangeCurrent
}

// AllPages selects every page.
func AllPages() RangeSpec { return RangeSpec{Kind: RangeAll} }

// Pages selects the inclusive 1-based range [start, end].
func Pages(start, end int) RangeSpec {
	return RangeSpec{Kind: RangePages, Start: start, End: end}
}

// CurrentPage selects the single page the user is looking at.
func CurrentPage(n int) RangeSpec { return RangeSpec{Kind: RangeCurrent, Current: n} }

// ParseRange parses "all", "current:N" or "START-END".
func ParseRange(s string) (RangeSpec, error) {
	switch {
	case s == "" || s == "all":
		return AllPages(), nil
	case strings.HasPrefix(s, "current:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "current:"))
		if err != nil {
			return RangeSpec{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
		}
		return CurrentPage(n), nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return RangeSpec{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return RangeSpec{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return Pages(start, end), nil
}

// Select resolves the spec against a book's page count, returning the
// 1-based page numbers to export in order.
func (r RangeSpec) Select(numPages int) ([]int, error) {
	if numPages < 1 {
		return nil, ErrNoPages
	}
	switch r.Kind {
	case RangeAll, "":
		pages := make([]int, numPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	case RangeCurrent:
		if r.Current < 1 || r.Current > numPages {
			return nil, fmt.Errorf("%w: page %d of %d", ErrInvalidRange, r.Current, numPages)
		}
		return []int{r.Current}, nil
	case RangePages:
		if r.Start < 1 || r.End < r.Start || r.End > numPages {
			return nil, fmt.Errorf("%w: [%d, %d] of %d", ErrInvalidRange, r.Start, r.End, numPages)
		}
		pages := make([]int, 0, r.End-r.Start+1)
		for i := r.Start; i <= r.End; i++ {
			pages = append(pages, i)
		}
		return pages, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRange, r.Kind)
}
