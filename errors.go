package csvkit

import (
	"errors"
	"fmt"
)

// Common configuration and access errors
var (
	// ErrInvalidArgument indicates a dialect byte, open mode, newline
	// sequence, or record value that fails validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidPath indicates a resource reference that could not be
	// resolved to an openable target. It is only returned at open time;
	// constructing a Document never touches the resource.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedFilter indicates a filter name that is not registered.
	ErrUnsupportedFilter = errors.New("unsupported filter")

	// ErrReadOnly is returned when a write operation is attempted on a
	// read-only view.
	ErrReadOnly = errors.New("document is read-only")
)

// PathError records an error and the operation and resource path that
// caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// IsInvalidArgument reports whether an error indicates a configuration
// value that failed validation
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvalidPath reports whether an error indicates a resource reference
// that could not be opened
func IsInvalidPath(err error) bool {
	return errors.Is(err, ErrInvalidPath)
}

// IsUnsupportedFilter reports whether an error indicates an unregistered
// filter name
func IsUnsupportedFilter(err error) bool {
	return errors.Is(err, ErrUnsupportedFilter)
}
