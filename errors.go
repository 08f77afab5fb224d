package archivekit

import (
	"errors"
	"fmt"
	"os"
)

// Common errors
var (
	ErrNotExist             = errors.New("file does not exist")
	ErrPermission           = errors.New("permission denied")
	ErrNotSupported         = errors.New("operation not supported")
	ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrConfigFile           = errors.New("invalid configuration file")
)

// PathError records an error and the operation and file path that caused it
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

// IsNotExist reports whether an error indicates that a file or directory
// does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsPermission reports whether an error indicates that permission is denied
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsConfigError reports whether err stems from bad configuration: an
// invalid setting, an unreadable or malformed config file, or an unknown
// checksum algorithm.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrConfigFile) ||
		errors.Is(err, ErrUnsupportedAlgorithm)
}

// pathError wraps an os error, mapping the not-exist and permission cases
// onto the package sentinels.
func pathError(op, path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &PathError{Op: op, Path: path, Err: ErrNotExist}
	case os.IsPermission(err):
		return &PathError{Op: op, Path: path, Err: ErrPermission}
	default:
		return &PathError{Op: op, Path: path, Err: err}
	}
}
