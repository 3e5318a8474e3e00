package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/config"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print every preferred solution change",
		Long: `Track events from the notifier stream and print the event, its preferred
origin, magnitude and focal mechanism whenever one of them changes.

Examples:
  quakewatch watch --config config/config.yaml
  QUAKEWATCH_NATS_URL=nats://bus:4222 quakewatch watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, cmd)
		},
	}
}

func runWatch(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.LoadWatchConfig(opts.ConfigFile, opts.EnvPath)
	if err != nil {
		return err
	}
	if err := initLogger(opts, cfg.BaseConfig, "watch"); err != nil {
		return err
	}

	svc, err := newTrackerService(ctx, cfg.Debug, cfg.Database, cfg.NATS, cfg.Tracker, cfg.Server)
	if err != nil {
		return err
	}
	svc.tracker.RegisterHook(watch.New(cmd.OutOrStdout(), svc.tracker.Records()))

	logger.InfoCtx(ctx, "Watching events",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
	)
	return svc.run(ctx)
}
