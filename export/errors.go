package export

import (
	"errors"
	"fmt"
)

// Sentinel errors for common export failure conditions.
var (
	ErrForbiddenQuality = errors.New("export: quality tier not permitted for role")
	ErrUnknownQuality   = errors.New("export: unknown quality tier")
	ErrInvalidRange     = errors.New("export: invalid page range")
	ErrUnknownJob       = errors.New("export: unknown job")
	ErrNoPages          = errors.New("export: book has no pages")
)

// JobError represents an error that occurred during a specific export
// operation. It wraps an underlying error and includes the operation name
// for context.
type JobError struct {
	Op  string // operation name, e.g. "StartExport", "Run"
	Err error  // underlying error
}

func (e *JobError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("export.%s: unknown error", e.Op)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// newJobError creates a new JobError wrapping the given error with
// operation context.
func newJobError(op string, err error) *JobError {
	return &JobError{Op: op, Err: err}
}
