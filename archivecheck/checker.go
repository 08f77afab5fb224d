package archivecheck

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Archive format names, as used in records and reports
const (
	FormatZip = "zip"
	FormatTar = "tar"
	Format7z  = "7z"
)

// Checker performs a full structural read of one archive format.
//
// Check must never panic or return an error to its caller: every failure
// mode is folded into the returned Outcome. Use Run to also guard against
// panics raised inside third-party readers.
type Checker interface {
	// Name returns the format name (zip, tar, 7z).
	Name() string

	// Extensions returns the file suffixes this checker handles, including the dot.
	Extensions() []string

	// Check reads the archive at path back in full.
	Check(ctx context.Context, path string) Outcome
}

// Run invokes c.Check, converting a panic into an unexpected outcome and
// filling in Duration.
func Run(ctx context.Context, c Checker, path string) (out Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Valid:  false,
				Kind:   KindUnexpected,
				Reason: fmt.Sprintf("%s checker panicked: %v", c.Name(), r),
			}
		}
		out.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		return Failed(NewCheckError(KindUnexpected, "check cancelled", err))
	}
	return c.Check(ctx, path)
}

// preflight verifies that path names a readable regular file before a
// format reader is pointed at it.
func preflight(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewCheckError(KindNotFound, "file not found", err)
		}
		if os.IsPermission(err) {
			return nil, NewCheckError(KindPermissionDenied, "cannot stat file", err)
		}
		return nil, NewCheckError(KindIOError, "cannot stat file", err)
	}
	if !info.Mode().IsRegular() {
		return nil, NewCheckError(KindBadFormat, "not a regular file", nil)
	}
	return info, nil
}

// drain reads r to EOF, checking ctx between chunks, and returns the number
// of bytes read.
func drain(ctx context.Context, r io.Reader, buf []byte) (int64, error) {
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := r.Read(buf)
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// copyBufferSize is the chunk size used while reading entries back
const copyBufferSize = 32 * 1024
