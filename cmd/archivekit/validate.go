package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gobeaver/archivekit"
	"github.com/gobeaver/archivekit/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func validateCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate an archive or every archive under a directory",
		Long: `Checks the structure of a ZIP, TAR or 7z archive, or of every file below a
directory. Files with other extensions are recorded as unsupported. When
--checksum is given, each supported file is also hashed and compared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, g, f, args[0])
		},
	}

	f.register(cmd)
	f.registerReport(cmd)
	return cmd
}

func runValidate(cmd *cobra.Command, g *globalFlags, f *runFlags, target string) error {
	cfg, err := f.resolveConfig(cmd)
	if err != nil {
		return configError(err)
	}
	format, err := report.ParseFormat(cfg.ReportFormat)
	if err != nil {
		return configError(err)
	}

	logger, closeLogger, err := newLogger(g)
	if err != nil {
		return fatalError(err)
	}
	defer closeLogger()

	out := newConsole(cmd.OutOrStdout())
	v, err := f.newValidator(cfg, logger, out.Record)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out.Info("Validating %s", target)
	logger.Info("validation started",
		zap.String("target", target),
		zap.Int("workers", v.Workers()),
		zap.String("algorithm", string(v.Algorithm())))

	records, err := v.Validate(ctx, target)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		if archivekit.IsNotExist(err) || archivekit.IsPermission(err) {
			return configError(err)
		}
		return fatalError(err)
	}

	out.Summary(archivekit.Summarize(records))

	if cfg.ReportPath != "" {
		if err := report.WriteFile(cfg.ReportPath, records, format); err != nil {
			return fatalError(err)
		}
		out.Info("Report written to %s", cfg.ReportPath)
	}

	if interrupted {
		logger.Warn("validation interrupted", zap.Int("records", len(records)))
		return fatalError(errors.New("interrupted"))
	}
	return nil
}
