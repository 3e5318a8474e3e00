package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/config"
	"github.com/quakewatch/quakewatch/internal/launcher"
	"github.com/quakewatch/quakewatch/internal/logger"
)

// LaunchOptions holds flags for the launch command.
type LaunchOptions struct {
	*RootOptions
	Command string
}

// NewLaunchCommand creates the launch command.
func NewLaunchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LaunchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Run a program for significant events",
		Long: `Track events from the notifier stream and run a program once per event as soon
as its preferred magnitude and depth pass the configured thresholds.

The event ID replaces {event} in the command, or is appended when the command
has no placeholder.

Examples:
  quakewatch launch --exec "/opt/shakemap/bin/run {event}"
  quakewatch launch --config config/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Command, "exec", "", "program to run, overrides launcher.command")

	return cmd
}

func runLaunch(opts *LaunchOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.LoadLaunchConfig(opts.ConfigFile, opts.EnvPath)
	if err != nil {
		return err
	}
	if opts.Command != "" {
		cfg.Launcher.Command = opts.Command
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := initLogger(opts.RootOptions, cfg.BaseConfig, "launch"); err != nil {
		return err
	}

	svc, err := newTrackerService(ctx, cfg.Debug, cfg.Database, cfg.NATS, cfg.Tracker, cfg.Server)
	if err != nil {
		return err
	}

	l, err := launcher.New(ctx, launcher.Config{
		Command:         cfg.Launcher.Command,
		MinMagnitude:    cfg.Launcher.MinMagnitude,
		MaxDepth:        cfg.Launcher.MaxDepth,
		TriggerOnOrigin: cfg.Launcher.TriggerOnOrigin,
		Workers:         cfg.Launcher.Workers,
		Timeout:         cfg.Launcher.Timeout,
	}, adapter.NewCommander(), adapter.NewClock())
	if err != nil {
		return err
	}
	defer l.Close()
	svc.tracker.RegisterHook(l)

	logger.InfoCtx(ctx, "Launching programs for significant events",
		zap.String("command", cfg.Launcher.Command),
		zap.Float64("minMagnitude", cfg.Launcher.MinMagnitude),
		zap.Float64("maxDepth", cfg.Launcher.MaxDepth),
	)
	return svc.run(ctx)
}
