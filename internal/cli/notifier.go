package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/config"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
	"github.com/quakewatch/quakewatch/internal/notifierlog"
	"github.com/quakewatch/quakewatch/internal/providers/jetstream"
)

// TimeWindowFormat is the layout of the --begin and --end flags, in UTC
const TimeWindowFormat = "2006-01-02 15:04:05"

// PlayOptions holds flags for the notifier play command.
type PlayOptions struct {
	*RootOptions
	Begin string
	End   string
	Speed float64
}

// NewNotifierCommand creates the notifier command group.
func NewNotifierCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifier",
		Short: "Record and replay the notifier stream",
	}

	cmd.AddCommand(newNotifierLogCommand(rootOpts))
	cmd.AddCommand(newNotifierPlayCommand(rootOpts))

	return cmd
}

func newNotifierLogCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append every notifier message to a log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifierLog(rootOpts, path, cmd)
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", "", "log file, overrides path from the configuration")

	return cmd
}

func newNotifierPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Publish a recorded notifier log",
		Long: `Publish the messages of a notifier log onto the bus, keeping the recorded gaps
between them divided by --speed.

Examples:
  quakewatch notifier play notifier.log
  quakewatch notifier play --speed 0 notifier.log
  quakewatch notifier play --begin "2024-03-01 00:00:00" --end "2024-03-02 00:00:00" notifier.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifierPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Begin, "begin", "", "skip messages recorded before this UTC time")
	cmd.Flags().StringVar(&opts.End, "end", "", "skip messages recorded at or after this UTC time")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "playback speed, 0 publishes without waiting")

	return cmd
}

func runNotifierLog(opts *RootOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.LoadNotifierLogConfig(opts.ConfigFile, opts.EnvPath)
	if err != nil {
		return err
	}
	if err := initLogger(opts, cfg.BaseConfig, "notifier-log"); err != nil {
		return err
	}
	if path == "" {
		path = cfg.Path
	}

	subscriber, err := jetstream.NewSubscriber(jetstreamConfig(cfg.NATS), adapter.NewNatsJetStream())
	if err != nil {
		return err
	}
	defer subscriber.Close()

	recorder := notifierlog.NewRecorder(subscriber, adapter.NewFileSystem(), adapter.NewClock(), path)
	if err := recorder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runNotifierPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	playerCfg, err := opts.playerConfig()
	if err != nil {
		return err
	}

	cfg, err := config.LoadNotifierLogConfig(opts.ConfigFile, opts.EnvPath)
	if err != nil {
		return err
	}
	if err := initLogger(opts.RootOptions, cfg.BaseConfig, "notifier-play"); err != nil {
		return err
	}

	f, err := adapter.NewFileSystem().Open(path)
	if err != nil {
		return fmt.Errorf("failed to open notifier log %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	publisher, err := jetstream.NewPublisher(jetstreamConfig(cfg.NATS), adapter.NewNatsJetStream())
	if err != nil {
		return err
	}
	defer publisher.Close()

	player := notifierlog.NewPlayer(playerCfg, publisher, messaging.NewCodec(adapter.NewJSON()), adapter.NewClock())
	published, err := player.Play(ctx, f)
	logger.InfoCtx(ctx, "Notifier log played", zap.String("path", path), zap.Int("published", published))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (o *PlayOptions) playerConfig() (notifierlog.PlayerConfig, error) {
	cfg := notifierlog.PlayerConfig{Speed: o.Speed}
	if o.Speed < 0 {
		return cfg, fmt.Errorf("invalid speed %v: must not be negative", o.Speed)
	}

	var err error
	if cfg.Begin, err = parseWindowTime("begin", o.Begin); err != nil {
		return cfg, err
	}
	if cfg.End, err = parseWindowTime("end", o.End); err != nil {
		return cfg, err
	}
	if cfg.Begin != nil && cfg.End != nil && !cfg.Begin.Before(*cfg.End) {
		return cfg, fmt.Errorf("begin %s is not before end %s", o.Begin, o.End)
	}
	return cfg, nil
}

func parseWindowTime(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(TimeWindowFormat, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q, expected %q: %w", flag, value, TimeWindowFormat, err)
	}
	return &t, nil
}
