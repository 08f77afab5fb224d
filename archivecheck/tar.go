package archivecheck

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// tarBlockSize is the size of a tar header or padding block
const tarBlockSize = 512

// TarChecker validates uncompressed TAR archives.
// Every header is parsed and every entry body is read back; the archive must
// end with the two zero blocks of the end-of-archive marker.
type TarChecker struct {
	// MaxFiles is the maximum number of entries allowed. Zero means unbounded.
	MaxFiles int

	// RequireEndMarker rejects archives that stop without the two zero
	// blocks. Archive/tar accepts a bare EOF, so without this a tar cut at
	// an entry boundary would pass.
	RequireEndMarker bool
}

// DefaultTarChecker creates a tar checker that requires the end marker
func DefaultTarChecker() *TarChecker {
	return &TarChecker{
		RequireEndMarker: true,
	}
}

// Name implements Checker
func (c *TarChecker) Name() string { return FormatTar }

// Extensions implements Checker
func (c *TarChecker) Extensions() []string { return []string{".tar"} }

// Check implements Checker
func (c *TarChecker) Check(ctx context.Context, path string) Outcome {
	info, err := preflight(path)
	if err != nil {
		return Failed(err)
	}
	if info.Size() == 0 {
		return Failed(NewCheckError(KindBadFormat, "empty file", nil))
	}

	f, err := os.Open(path)
	if err != nil {
		return Failed(NewCheckError(Classify(err), "cannot open archive", err))
	}
	defer f.Close()

	// countingReader hides f's Seek method, so the tar reader consumes
	// padding and end blocks through Read and every byte is counted.
	cr := &countingReader{r: f}
	tr := tar.NewReader(cr)

	var (
		entries int
		total   int64
		buf     = make([]byte, copyBufferSize)
	)

	for {
		if err := ctx.Err(); err != nil {
			return Failed(NewCheckError(KindUnexpected, "check cancelled", err))
		}

		before := cr.n
		header, err := tr.Next()
		if err == io.EOF {
			if c.RequireEndMarker && cr.n-before < 2*tarBlockSize {
				kind := KindTruncated
				if entries == 0 {
					kind = refineKind(path, FormatTar, kind)
				}
				return Failed(NewCheckError(kind, "missing end-of-archive marker", nil))
			}
			break
		}
		if err != nil && !(errors.Is(err, tar.ErrInsecurePath) && header != nil) {
			kind := tarKind(err)
			if entries == 0 {
				kind = refineKind(path, FormatTar, kind)
			}
			return Failed(NewCheckError(kind, "invalid tar header", err))
		}

		entries++
		if c.MaxFiles > 0 && entries > c.MaxFiles {
			return Failed(NewCheckError(KindBadFormat,
				fmt.Sprintf("too many files: %d (max: %d)", entries, c.MaxFiles), nil))
		}

		n, err := drain(ctx, tr, buf)
		total += n
		if err != nil {
			return Failed(NewCheckError(tarKind(err),
				fmt.Sprintf("failed to read entry %q", header.Name), err))
		}
	}

	return Passed(entries, total)
}

func tarKind(err error) FailureKind {
	switch {
	case errors.Is(err, tar.ErrHeader), errors.Is(err, tar.ErrFieldTooLong):
		return KindBadFormat
	default:
		return Classify(err)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
