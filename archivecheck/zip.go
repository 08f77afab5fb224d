package archivecheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zip"
)

// ZipChecker validates ZIP archives by opening the central directory and
// reading every entry back to EOF. The reader verifies each entry's CRC-32
// at EOF, so corrupt or truncated entry data is detected.
type ZipChecker struct {
	// MaxFiles is the maximum number of entries allowed in the archive.
	// Zero means unbounded.
	MaxFiles int

	// MaxUncompressedSize is the maximum total uncompressed size in bytes.
	// Zero means unbounded.
	MaxUncompressedSize int64
}

// DefaultZipChecker creates a zip checker with no limits
func DefaultZipChecker() *ZipChecker {
	return &ZipChecker{}
}

// Name implements Checker
func (c *ZipChecker) Name() string { return FormatZip }

// Extensions implements Checker
func (c *ZipChecker) Extensions() []string { return []string{".zip"} }

// Check implements Checker
func (c *ZipChecker) Check(ctx context.Context, path string) Outcome {
	if _, err := preflight(path); err != nil {
		return Failed(err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		kind := KindOf(err)
		if errors.Is(err, zip.ErrFormat) || kind == KindUnexpected {
			kind = refineKind(path, FormatZip, KindTruncated)
		}
		return Failed(NewCheckError(kind, "cannot open archive", err))
	}
	defer r.Close()

	if c.MaxFiles > 0 && len(r.File) > c.MaxFiles {
		return Failed(NewCheckError(KindBadFormat,
			fmt.Sprintf("archive contains too many files: %d (max: %d)", len(r.File), c.MaxFiles), nil))
	}

	var (
		entries int
		total   int64
		buf     = make([]byte, copyBufferSize)
	)

	for _, file := range r.File {
		if file.FileInfo().IsDir() {
			entries++
			continue
		}

		n, err := c.readEntry(ctx, file, buf)
		total += n
		if err != nil {
			return Failed(NewCheckError(zipEntryKind(err),
				fmt.Sprintf("error reading entry %q", file.Name), err))
		}
		entries++

		if c.MaxUncompressedSize > 0 && total > c.MaxUncompressedSize {
			return Failed(NewCheckError(KindBadFormat,
				fmt.Sprintf("archive expands beyond %d bytes", c.MaxUncompressedSize), nil))
		}
	}

	return Passed(entries, total)
}

func (c *ZipChecker) readEntry(ctx context.Context, file *zip.File, buf []byte) (int64, error) {
	rc, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	return drain(ctx, rc, buf)
}

// zipEntryKind classifies errors raised while reading entry data
func zipEntryKind(err error) FailureKind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindUnexpected
	case errors.Is(err, zip.ErrChecksum), errors.Is(err, zip.ErrAlgorithm), errors.Is(err, zip.ErrFormat):
		return KindBadFormat
	default:
		kind := Classify(err)
		if kind == KindUnexpected {
			// flate and other decompressor errors mean corrupt entry data
			return KindBadFormat
		}
		return kind
	}
}
