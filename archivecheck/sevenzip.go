package archivecheck

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
)

// SevenZipChecker validates 7z archives. The header database is parsed on
// open, then every file entry is decompressed to EOF so the reader verifies
// its CRC.
type SevenZipChecker struct {
	// MaxFiles is the maximum number of entries allowed. Zero means unbounded.
	MaxFiles int
}

// DefaultSevenZipChecker creates a 7z checker with no limits
func DefaultSevenZipChecker() *SevenZipChecker {
	return &SevenZipChecker{}
}

// Name implements Checker
func (c *SevenZipChecker) Name() string { return Format7z }

// Extensions implements Checker
func (c *SevenZipChecker) Extensions() []string { return []string{".7z"} }

// Check implements Checker
func (c *SevenZipChecker) Check(ctx context.Context, path string) Outcome {
	if _, err := preflight(path); err != nil {
		return Failed(err)
	}

	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return Failed(NewCheckError(sevenZipOpenKind(path, err), "cannot open archive", err))
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

		n, err := readSevenZipEntry(ctx, file, buf)
		total += n
		if err != nil {
			return Failed(NewCheckError(sevenZipEntryKind(err),
				fmt.Sprintf("error reading entry %q", file.Name), err))
		}
		entries++
	}

	return Passed(entries, total)
}

func readSevenZipEntry(ctx context.Context, file *sevenzip.File, buf []byte) (int64, error) {
	rc, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	return drain(ctx, rc, buf)
}

func sevenZipOpenKind(path string, err error) FailureKind {
	switch kind := Classify(err); kind {
	case KindNotFound, KindPermissionDenied, KindIOError:
		return kind
	case KindTruncated:
		return refineKind(path, Format7z, kind)
	default:
		if errors.Is(err, io.EOF) {
			return refineKind(path, Format7z, KindTruncated)
		}
		return KindBadFormat
	}
}

func sevenZipEntryKind(err error) FailureKind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindUnexpected
	case errors.Is(err, io.EOF):
		return KindTruncated
	}
	kind := Classify(err)
	if kind == KindUnexpected {
		// decompressor and CRC errors mean corrupt entry data
		return KindBadFormat
	}
	return kind
}
