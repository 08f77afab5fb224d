package archivekit

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gobeaver/archivekit/archivecheck"
	"go.uber.org/zap"
)

// Validator checks archives for structural integrity and, optionally,
// against an expected checksum.
type Validator struct {
	workers   int
	expected  string
	algorithm ChecksumAlgorithm
	logWriter *LogWriter
	logger    *zap.Logger
	registry  *archivecheck.Registry
	selector  FileSelector
	hook      func(Record)
}

// New creates a Validator. An unknown checksum algorithm is reported here,
// before any file is touched.
func New(opts ...Option) (*Validator, error) {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}

	alg, err := ParseChecksumAlgorithm(o.Algorithm)
	if err != nil {
		return nil, err
	}

	v := &Validator{
		workers:   o.Workers,
		expected:  strings.TrimSpace(o.ExpectedChecksum),
		algorithm: alg,
		logWriter: o.LogWriter,
		logger:    o.Logger,
		registry:  o.Registry,
		selector:  o.Selector,
		hook:      o.RecordHook,
	}
	if v.workers <= 0 {
		v.workers = runtime.NumCPU()
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	if v.registry == nil {
		v.registry = archivecheck.GetDefaultRegistry()
	}
	if v.selector == nil {
		v.selector = All()
	}
	return v, nil
}

// Workers returns the worker pool size
func (v *Validator) Workers() int { return v.workers }

// Algorithm returns the checksum algorithm in use
func (v *Validator) Algorithm() ChecksumAlgorithm { return v.algorithm }

// Validate validates target, which may be a single file or a directory.
//
// A directory is walked recursively and its files are validated
// concurrently; the returned records are in completion order. Failures of
// individual files are recorded, never returned. The error is non-nil only
// when target cannot be read or ctx is done, in which case the records
// completed so far are returned along with ctx.Err().
func (v *Validator) Validate(ctx context.Context, target string) ([]Record, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, pathError("validate", target, err)
	}

	if !info.IsDir() {
		rec := v.ValidateFile(ctx, target)
		if v.hook != nil {
			v.hook(rec)
		}
		return []Record{rec}, ctx.Err()
	}
	return v.validateDir(ctx, target)
}

func (v *Validator) validateDir(ctx context.Context, root string) ([]Record, error) {
	paths := make(chan string)
	results := make(chan Record)
	collected := make(chan []Record, 1)

	var wg sync.WaitGroup
	for i := 0; i < v.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				if ctx.Err() != nil {
					continue
				}
				results <- v.ValidateFile(ctx, path)
			}
		}()
	}

	// Collector: the only goroutine touching records
	go func() {
		var records []Record
		for rec := range results {
			if v.hook != nil {
				v.hook(rec)
			}
			records = append(records, rec)
		}
		collected <- records
	}()

	walkErr := Walk(ctx, root, v.selector, v.logger, func(file FileInfo) error {
		select {
		case paths <- file.Path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(paths)
	wg.Wait()
	close(results)
	records := <-collected

	v.logger.Info("directory validated",
		zap.String("root", root),
		zap.Int("files", len(records)),
		zap.Int("workers", v.workers))

	if err := ctx.Err(); err != nil {
		return records, err
	}
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		return records, walkErr
	}
	return records, nil
}

// ValidateFile runs the per-file procedure synchronously: classify by
// extension, check the archive, verify the checksum, write the log file.
// It never fails; every problem is captured in the returned Record.
func (v *Validator) ValidateFile(ctx context.Context, path string) Record {
	start := time.Now()
	rec := Record{Path: path}

	checker, ok := v.registry.Lookup(path)
	if !ok {
		rec.Format = FormatResult{Format: FormatUnsupported}
		v.logger.Debug("unsupported file format", zap.String("file", path))
	} else {
		out := archivecheck.Run(ctx, checker, path)
		rec.Format = FormatResult{
			Format:  checker.Name(),
			Valid:   out.Valid,
			Failure: out.Kind,
			Reason:  out.Reason,
			Entries: out.Entries,
		}
		if !out.Valid {
			v.logger.Debug("archive check failed",
				zap.String("file", path),
				zap.String("kind", string(out.Kind)),
				zap.String("reason", out.Reason))
		}

		if v.expected != "" {
			rec.Checksum = v.verifyChecksum(ctx, path)
		}
	}

	rec.CheckedAt = time.Now().UTC()
	rec.Duration = time.Since(start)

	if v.logWriter != nil {
		if _, err := v.logWriter.WriteLog(rec); err != nil {
			v.logger.Error("failed to write validation log", zap.String("file", path), zap.Error(err))
		}
	}
	return rec
}

func (v *Validator) verifyChecksum(ctx context.Context, path string) *ChecksumResult {
	res := &ChecksumResult{
		Algorithm: v.algorithm,
		Expected:  v.expected,
	}

	actual, err := ChecksumFile(ctx, path, v.algorithm)
	if err != nil {
		res.Failure = checksumFailure(err)
		res.Reason = err.Error()
		return res
	}

	res.Actual = actual
	res.Valid = ChecksumsEqual(actual, v.expected)
	if !res.Valid {
		res.Reason = "checksum mismatch"
	}
	return res
}

func checksumFailure(err error) archivecheck.FailureKind {
	switch {
	case IsNotExist(err):
		return archivecheck.KindNotFound
	case IsPermission(err):
		return archivecheck.KindPermissionDenied
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return archivecheck.KindUnexpected
	}
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return archivecheck.KindIOError
	}
	return archivecheck.Classify(err)
}
