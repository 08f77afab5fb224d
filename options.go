package archivekit

import (
	"github.com/gobeaver/archivekit/archivecheck"
	"go.uber.org/zap"
)

// Option configures a Validator
type Option func(*Options)

// Options contains all settings of a Validator
type Options struct {
	// Workers is the size of the worker pool used in directory mode.
	// Zero or less means one worker per CPU.
	Workers int

	// ExpectedChecksum enables checksum verification for supported files
	ExpectedChecksum string

	// Algorithm names the checksum algorithm, "sha256" when empty
	Algorithm string

	// LogWriter receives one log file per validated file. Nil disables logging.
	LogWriter *LogWriter

	// Logger receives diagnostics
	Logger *zap.Logger

	// Registry maps extensions to archive checkers
	Registry *archivecheck.Registry

	// Selector filters files in directory mode
	Selector FileSelector

	// RecordHook is called once per record, from a single goroutine
	RecordHook func(Record)
}

// WithWorkers sets the worker pool size
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithChecksum verifies every supported file against expected using algorithm
func WithChecksum(expected string, algorithm string) Option {
	return func(o *Options) {
		o.ExpectedChecksum = expected
		o.Algorithm = algorithm
	}
}

// WithAlgorithm sets the checksum algorithm without enabling verification
func WithAlgorithm(algorithm string) Option {
	return func(o *Options) {
		o.Algorithm = algorithm
	}
}

// WithLogWriter sets the writer for per-file log files
func WithLogWriter(w *LogWriter) Option {
	return func(o *Options) {
		o.LogWriter = w
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithRegistry replaces the default checker registry
func WithRegistry(r *archivecheck.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithSelector filters the files validated in directory mode
func WithSelector(s FileSelector) Option {
	return func(o *Options) {
		o.Selector = s
	}
}

// WithRecordHook registers a callback invoked for each record as it completes
func WithRecordHook(fn func(Record)) Option {
	return func(o *Options) {
		o.RecordHook = fn
	}
}
