package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gobeaver/archivekit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func watchCmd(g *globalFlags) *cobra.Command {
	var (
		f        = &runFlags{}
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Validate archives as they appear in a directory",
		Long: `Watches a directory tree and validates each archive once it has stopped
changing. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			cfg, err := f.resolveConfig(cmd)
			if err != nil {
				return configError(err)
			}

			logger, closeLogger, err := newLogger(g)
			if err != nil {
				return fatalError(err)
			}
			defer closeLogger()

			out := newConsole(cmd.OutOrStdout())
			v, err := f.newValidator(cfg, logger, nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out.Info("Watching %s (press Ctrl+C to stop)", dir)

			var records []archivekit.Record
			err = v.Watch(ctx, dir, debounce, func(rec archivekit.Record) {
				records = append(records, rec)
				out.Record(rec)
			})
			if err != nil {
				if archivekit.IsNotExist(err) || archivekit.IsPermission(err) || isNotDir(err) {
					return configError(err)
				}
				return fatalError(err)
			}

			logger.Info("watch stopped", zap.Int("records", len(records)))
			out.Summary(archivekit.Summarize(records))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", archivekit.DefaultDebounce, "Quiet period before a changed file is validated")
	return cmd
}

func isNotDir(err error) bool {
	return errors.Is(err, archivekit.ErrNotSupported)
}
