package main

import (
	"strings"

	"github.com/gobeaver/archivekit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runFlags are the settings shared by validate and watch
type runFlags struct {
	checksum     string
	algorithm    string
	logDirectory string
	maxLogs      int
	configPath   string
	workers      int
	include      []string
	exclude      []string

	// validate only
	reportPath   string
	reportFormat string
}

func (f *runFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.checksum, "checksum", "", "Expected checksum of each archive")
	flags.StringVar(&f.algorithm, "algorithm", string(archivekit.DefaultChecksumAlgorithm), "Checksum algorithm")
	flags.StringVar(&f.logDirectory, "log-directory", "logs", "Directory for per-file log files")
	flags.IntVar(&f.maxLogs, "max-logs", archivekit.DefaultMaxLogs, "Number of log files to keep")
	flags.StringVar(&f.configPath, "config", "", "JSON config file")
	flags.IntVarP(&f.workers, "workers", "w", 0, "Number of parallel workers (0 = one per CPU)")
	flags.StringSliceVar(&f.include, "include", nil, "Only validate files matching these glob patterns")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "Skip files matching these glob patterns")
}

func (f *runFlags) registerReport(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.reportPath, "report", "o", "", "Write a report to this file")
	flags.StringVarP(&f.reportFormat, "report-format", "f", "json", "Report format (json, csv, html)")
}

// resolveConfig layers the settings: defaults, then environment, then the
// config file, then every flag the user set explicitly.
func (f *runFlags) resolveConfig(cmd *cobra.Command) (*archivekit.Config, error) {
	cfg, err := archivekit.GetConfig()
	if err != nil {
		return nil, err
	}

	if f.configPath != "" {
		if err := cfg.LoadFile(f.configPath); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("algorithm") {
		cfg.DefaultAlgorithm = f.algorithm
	}
	if changed("log-directory") {
		cfg.LogDirectory = f.logDirectory
	}
	if changed("max-logs") {
		cfg.MaxLogs = f.maxLogs
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("include") {
		cfg.Include = strings.Join(f.include, ",")
	}
	if changed("exclude") {
		cfg.Exclude = strings.Join(f.exclude, ",")
	}
	if changed("report") {
		cfg.ReportPath = f.reportPath
	}
	if changed("report-format") {
		cfg.ReportFormat = f.reportFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newValidator builds the log writer and validator for cfg. A log
// directory that cannot be created is fatal.
func (f *runFlags) newValidator(cfg *archivekit.Config, logger *zap.Logger, hook func(archivekit.Record)) (*archivekit.Validator, error) {
	selector, err := archivekit.IncludeExclude(cfg.IncludePatterns(), cfg.ExcludePatterns())
	if err != nil {
		return nil, configError(err)
	}

	logWriter, err := archivekit.NewLogWriter(cfg.LogDirectory, cfg.MaxLogs,
		archivekit.WithLogWriterLogger(logger))
	if err != nil {
		if archivekit.IsConfigError(err) {
			return nil, configError(err)
		}
		return nil, fatalError(err)
	}

	opts := []archivekit.Option{
		archivekit.WithWorkers(cfg.Workers),
		archivekit.WithChecksum(f.checksum, cfg.DefaultAlgorithm),
		archivekit.WithLogWriter(logWriter),
		archivekit.WithLogger(logger),
		archivekit.WithSelector(selector),
	}
	if hook != nil {
		opts = append(opts, archivekit.WithRecordHook(hook))
	}

	v, err := archivekit.New(opts...)
	if err != nil {
		return nil, configError(err)
	}
	return v, nil
}
