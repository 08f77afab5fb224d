package archivekit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultLogBaseName prefixes every log file name
	DefaultLogBaseName = "validation_log_"

	// DefaultMaxLogs is the number of log files retained by default
	DefaultMaxLogs = 5

	logSuffix = ".json"
)

// LogEntry is the content of one log file
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	File      string    `json:"file"`
	Results   Record    `json:"results"`
}

// LogWriter persists one JSON file per validated file into a directory and
// keeps at most maxLogs of them, evicting the oldest.
//
// File names sort chronologically:
//
//	validation_log_20240102_150405_123456_000000.json
//
// The trailing sequence number separates files written within the same
// microsecond. LogWriter is safe for concurrent use.
type LogWriter struct {
	dir      string
	maxLogs  int
	baseName string
	now      func() time.Time
	logger   *zap.Logger

	nameMu    sync.Mutex
	lastStamp time.Time
	seq       int

	rotateMu sync.Mutex
}

// LogWriterOption configures a LogWriter
type LogWriterOption func(*LogWriter)

// WithLogBaseName sets the file name prefix of the rotation set
func WithLogBaseName(name string) LogWriterOption {
	return func(w *LogWriter) {
		w.baseName = name
	}
}

// WithClock replaces the time source used for file names and timestamps
func WithClock(now func() time.Time) LogWriterOption {
	return func(w *LogWriter) {
		w.now = now
	}
}

// WithLogWriterLogger sets the logger used for rotation diagnostics
func WithLogWriterLogger(logger *zap.Logger) LogWriterOption {
	return func(w *LogWriter) {
		w.logger = logger
	}
}

// NewLogWriter creates a log writer for dir, creating the directory if needed
func NewLogWriter(dir string, maxLogs int, opts ...LogWriterOption) (*LogWriter, error) {
	if maxLogs < 1 {
		return nil, fmt.Errorf("%w: max logs must be at least 1, got %d", ErrInvalidConfig, maxLogs)
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: log directory is empty", ErrInvalidConfig)
	}

	w := &LogWriter{
		dir:      dir,
		maxLogs:  maxLogs,
		baseName: DefaultLogBaseName,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.baseName == "" {
		// an empty prefix would put every .json file in dir under rotation
		return nil, fmt.Errorf("%w: log base name is empty", ErrInvalidConfig)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pathError("mkdir", dir, err)
	}
	return w, nil
}

// Dir returns the log directory
func (w *LogWriter) Dir() string { return w.dir }

// MaxLogs returns the retention limit
func (w *LogWriter) MaxLogs() int { return w.maxLogs }

// WriteLog writes rec to a new log file, then trims the directory to
// maxLogs files. It returns the path of the file written.
func (w *LogWriter) WriteLog(rec Record) (string, error) {
	for {
		stamp, seq := w.nextName()
		path := filepath.Join(w.dir, w.fileName(stamp, seq))

		entry := []LogEntry{{
			Timestamp: stamp,
			File:      rec.Path,
			Results:   rec,
		}}
		data, err := json.MarshalIndent(entry, "", "    ")
		if err != nil {
			return "", fmt.Errorf("failed to encode log entry: %w", err)
		}

		err = writeNew(path, data)
		if errors.Is(err, os.ErrExist) {
			// another process logging into the same directory took this name
			continue
		}
		if err != nil {
			return "", pathError("write", path, err)
		}
		w.logger.Debug("validation result logged", zap.String("log", path), zap.String("file", rec.Path))

		if err := w.rotate(); err != nil {
			return path, err
		}
		return path, nil
	}
}

// nextName returns a microsecond timestamp that never moves backwards and
// a sequence number unique within that timestamp.
func (w *LogWriter) nextName() (time.Time, int) {
	w.nameMu.Lock()
	defer w.nameMu.Unlock()

	stamp := w.now().UTC().Truncate(time.Microsecond)
	if stamp.Before(w.lastStamp) {
		stamp = w.lastStamp
	}
	if stamp.Equal(w.lastStamp) {
		w.seq++
	} else {
		w.seq = 0
	}
	w.lastStamp = stamp
	return stamp, w.seq
}

// writeNew writes data to path, failing if the file already exists
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (w *LogWriter) fileName(stamp time.Time, seq int) string {
	return fmt.Sprintf("%s%s_%06d_%06d%s",
		w.baseName, stamp.Format("20060102_150405"), stamp.Nanosecond()/int(time.Microsecond), seq, logSuffix)
}

// LogFiles returns the names of the files in the rotation set, oldest first
func (w *LogWriter) LogFiles() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, pathError("readdir", w.dir, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, w.baseName) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// rotate deletes the oldest log files until at most maxLogs remain
func (w *LogWriter) rotate() error {
	w.rotateMu.Lock()
	defer w.rotateMu.Unlock()

	names, err := w.LogFiles()
	if err != nil {
		return err
	}

	for len(names) > w.maxLogs {
		oldest := filepath.Join(w.dir, names[0])
		names = names[1:]

		if err := os.Remove(oldest); err != nil {
			if os.IsNotExist(err) {
				w.logger.Warn("log file already removed", zap.String("log", oldest))
				continue
			}
			return pathError("rotate", oldest, err)
		}
		w.logger.Debug("rotated out old log file", zap.String("log", oldest))
	}
	return nil
}
