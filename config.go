package archivekit

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gobeaver/beaver-kit/config"
	"github.com/tidwall/jsonc"
)

// Config holds run settings. Values come from the environment first, then
// from an optional JSON config file; command-line flags override both.
type Config struct {
	// Directory receiving the per-file log files
	LogDirectory string `env:"ARCHIVEKIT_LOG_DIRECTORY,default:logs"`

	// Number of log files retained
	MaxLogs int `env:"ARCHIVEKIT_MAX_LOGS,default:5"`

	// Checksum algorithm used when none is given
	DefaultAlgorithm string `env:"ARCHIVEKIT_DEFAULT_ALGORITHM,default:sha256"`

	// Report output
	ReportPath   string `env:"ARCHIVEKIT_REPORT_PATH"`
	ReportFormat string `env:"ARCHIVEKIT_REPORT_FORMAT,default:json"`

	// Worker pool size, 0 = one per CPU
	Workers int `env:"ARCHIVEKIT_WORKERS,default:0"`

	// Directory mode filters
	Include string `env:"ARCHIVEKIT_INCLUDE"` // comma-separated glob patterns
	Exclude string `env:"ARCHIVEKIT_EXCLUDE"` // comma-separated glob patterns
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// fileConfig mirrors the keys of a JSON config file. Pointers tell an
// absent key from a zero value.
type fileConfig struct {
	LogDirectory     *string  `json:"log_directory"`
	MaxLogs          *int     `json:"max_logs"`
	DefaultAlgorithm *string  `json:"default_algorithm"`
	ReportPath       *string  `json:"report_path"`
	ReportFormat     *string  `json:"report_format"`
	Workers          *int     `json:"workers"`
	Include          []string `json:"include"`
	Exclude          []string `json:"exclude"`
}

// LoadFile overlays the keys present in the JSON file at path onto c.
// Comments and trailing commas are accepted.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigFile, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", ErrConfigFile, path, err)
	}

	if fc.LogDirectory != nil {
		c.LogDirectory = *fc.LogDirectory
	}
	if fc.MaxLogs != nil {
		c.MaxLogs = *fc.MaxLogs
	}
	if fc.DefaultAlgorithm != nil {
		c.DefaultAlgorithm = *fc.DefaultAlgorithm
	}
	if fc.ReportPath != nil {
		c.ReportPath = *fc.ReportPath
	}
	if fc.ReportFormat != nil {
		c.ReportFormat = *fc.ReportFormat
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.Include != nil {
		c.Include = strings.Join(fc.Include, ",")
	}
	if fc.Exclude != nil {
		c.Exclude = strings.Join(fc.Exclude, ",")
	}
	return nil
}

// IncludePatterns returns the include globs
func (c *Config) IncludePatterns() []string { return splitPatterns(c.Include) }

// ExcludePatterns returns the exclude globs
func (c *Config) ExcludePatterns() []string { return splitPatterns(c.Exclude) }

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.LogDirectory == "" {
		return fmt.Errorf("%w: log directory is empty", ErrInvalidConfig)
	}
	if c.MaxLogs < 1 {
		return fmt.Errorf("%w: max logs must be at least 1, got %d", ErrInvalidConfig, c.MaxLogs)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := ParseChecksumAlgorithm(c.DefaultAlgorithm); err != nil {
		return err
	}
	if _, err := IncludeExclude(c.IncludePatterns(), c.ExcludePatterns()); err != nil {
		return err
	}
	return nil
}

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
