// Package errs defines the error kinds shared by the task pipeline.
//
// Callers branch on cause with errors.Is:
//
//	if errors.Is(err, errs.ErrEmptyInput) {
//		// ask the user for better assignment text
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when no parsable task entries are available.
	// It is a user-input problem, never a crash.
	ErrEmptyInput = errors.New("no tasks found")

	// ErrUnsupportedFormat is returned for an input or output format the
	// pipeline does not know (stub language, image format, LLM provider).
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrArchiveWrite is returned when assembling the working area or the
	// final archive fails. It always wraps the underlying cause.
	ErrArchiveWrite = errors.New("archive write failed")
)

// ArchiveWrite wraps cause so that both errors.Is(err, ErrArchiveWrite) and
// errors.Is(err, cause) hold.
func ArchiveWrite(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrArchiveWrite, op, cause)
}

// Unsupported reports an unknown value of the named kind.
func Unsupported(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrUnsupportedFormat, kind, value)
}
