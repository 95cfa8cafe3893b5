package gsd

import (
	"errors"
	"fmt"
)

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrNotAGSDFile is returned when a file's header magic does not match.
	ErrNotAGSDFile = errors.New("not a gsd file")

	// ErrInvalidVersion is returned when the header's gsd_version is outside
	// the supported [1.0, 2.0) window (with the 0.3 legacy exception).
	ErrInvalidVersion = errors.New("invalid gsd file version")

	// ErrFileCorrupt is returned when an on-disk structure fails validation:
	// an out-of-bounds index/namelist block, a non-monotone frame sequence,
	// or an index entry with an invalid type/id/flags/bounds.
	ErrFileCorrupt = errors.New("file corrupt")

	// ErrMemoryAllocationFailed is returned when an in-memory buffer cannot
	// be grown.
	ErrMemoryAllocationFailed = errors.New("memory allocation failed")

	// ErrNamelistFull is returned when a new chunk name is written but the
	// pre-allocated namelist block has no unused slots left.
	ErrNamelistFull = errors.New("namelist is full")

	// ErrInvalidArgument is returned for invalid inputs to an operation
	// (zero rows/columns, unknown type, non-zero flags, nil buffer, ...).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFileMustBeWritable is returned when a mutating operation is called
	// on a handle opened read-only.
	ErrFileMustBeWritable = errors.New("file must be writable")

	// ErrFileMustBeReadable is returned when a reading operation is called
	// on a handle opened in append mode.
	ErrFileMustBeReadable = errors.New("file must be readable")
)

// OpError records the operation and path involved in a failing call,
// wrapping the underlying cause (a sentinel above, or an I/O error bubbled
// up from the os package). It supports errors.Is/errors.As via Unwrap.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("gsd: %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("gsd: %s %s: %s", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// opErr wraps err in an *OpError unless it already is one (avoids nesting
// when an error already carries op/path context from a lower layer).
func opErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return &OpError{Op: op, Path: path, Err: err}
}
