package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/archive"
	"github.com/quakewatch/quakewatch/internal/bridge"
	"github.com/quakewatch/quakewatch/internal/config"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
	"github.com/quakewatch/quakewatch/internal/providers/jetstream"
)

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Store notified records in the event database",
		Long: `Consume the notifier stream and upsert every event, origin, magnitude and
focal mechanism into PostgreSQL, so trackers started later can load what they missed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(rootOpts, cmd)
		},
	}
}

func runArchive(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.LoadArchiveConfig(opts.ConfigFile, opts.EnvPath)
	if err != nil {
		return err
	}
	if err := initLogger(opts, cfg.BaseConfig, "archive"); err != nil {
		return err
	}

	st, closeDB, err := openStore(ctx, cfg.Database, true)
	if err != nil {
		return err
	}
	defer closeDB()

	subscriber, err := jetstream.NewSubscriber(jetstreamConfig(cfg.NATS), adapter.NewNatsJetStream())
	if err != nil {
		return err
	}

	br := bridge.NewBridge(subscriber, messaging.NewCodec(adapter.NewJSON()), archive.New(st))
	defer br.Close()

	logger.InfoCtx(ctx, "Archiving notifier records", zap.String("dbname", cfg.Database.DBName))
	if err := br.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
