package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gobeaver/archivekit"
	"github.com/gobeaver/archivekit/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Exit codes
const (
	exitOK     = 0
	exitFatal  = 1
	exitConfig = 2
)

var version = "0.1.0"

// globalFlags are shared by every subcommand
type globalFlags struct {
	verbose bool
	logFile string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and maps the outcome to an exit code
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "archivekit",
		Short: "Validate the integrity of ZIP, TAR and 7z archives",
		Long: `Checks archives for structural integrity, optionally verifies a checksum,
and writes one JSON log file per validated file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Also write diagnostics to this file (size-rotated)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return configError(err)
	})

	// Disable built-in help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(validateCmd(g))
	rootCmd.AddCommand(watchCmd(g))
	rootCmd.AddCommand(algorithmsCmd())

	return rootCmd
}

// newLogger builds the diagnostics logger. Verbose mode uses the
// development config; otherwise only errors reach stderr as JSON.
// With a log file, entries are teed into a lumberjack-rotated file.
func newLogger(g *globalFlags) (*zap.Logger, func(), error) {
	var (
		logger *zap.Logger
		err    error
	)
	if g.verbose {
		logger, err = zap.NewDevelopment()
	} else {
		// Silent logger - only errors
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if g.logFile == "" {
		return logger, func() { _ = logger.Sync() }, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   g.logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	level := zapcore.InfoLevel
	if g.verbose {
		level = zapcore.DebugLevel
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(rotator),
		level,
	)
	logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))

	return logger, func() {
		_ = logger.Sync()
		_ = rotator.Close()
	}, nil
}

// exitError carries an exit code through cobra's error return
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func configError(err error) error { return &exitError{code: exitConfig, err: err} }
func fatalError(err error) error  { return &exitError{code: exitFatal, err: err} }

// exitCode maps a command error to the process exit code. Errors that were
// not tagged explicitly are classified by their sentinel.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch {
	case archivekit.IsConfigError(err),
		errors.Is(err, report.ErrUnsupportedFormat),
		archivekit.IsNotExist(err),
		archivekit.IsPermission(err):
		return exitConfig
	default:
		// flag parsing and usage errors from cobra end up here as well
		return exitFatal
	}
}
