package archivecheck

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// FailureKind categorizes why an archive check failed.
// The set is closed: every failure maps to exactly one kind.
type FailureKind string

const (
	KindNone             FailureKind = ""
	KindNotFound         FailureKind = "not_found"
	KindBadFormat        FailureKind = "bad_format"
	KindTruncated        FailureKind = "truncated"
	KindIOError          FailureKind = "io_error"
	KindPermissionDenied FailureKind = "permission_denied"
	KindUnexpected       FailureKind = "unexpected"
)

// Retryable reports whether a failure of this kind may succeed on a later
// attempt without the file changing. Only transient I/O errors qualify.
func (k FailureKind) Retryable() bool {
	return k == KindIOError
}

// String implements fmt.Stringer
func (k FailureKind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}

// CheckError represents a failed archive check.
// It implements the error interface and carries the failure kind for programmatic handling.
type CheckError struct {
	// Kind categorizes the failure.
	Kind FailureKind

	// Message is the human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *CheckError) Unwrap() error {
	return e.Err
}

// NewCheckError creates a new CheckError
func NewCheckError(kind FailureKind, message string, err error) *CheckError {
	return &CheckError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// IsCheckError checks if an error is a CheckError
func IsCheckError(err error) bool {
	var checkErr *CheckError
	return errors.As(err, &checkErr)
}

// IsKind checks if an error is a CheckError of the specified kind
func IsKind(err error, kind FailureKind) bool {
	return KindOf(err) == kind
}

// KindOf returns the failure kind of err. CheckErrors report their own kind,
// other errors are classified by Classify.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.Kind
	}
	return Classify(err)
}

// Classify maps an arbitrary error from the filesystem or an archive reader
// onto a FailureKind.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, io.ErrUnexpectedEOF):
		return KindTruncated
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return KindIOError
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return KindIOError
	}
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return KindIOError
	}
	return KindUnexpected
}
