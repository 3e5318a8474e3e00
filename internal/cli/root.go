package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	EnvPath    string
	Debug      bool
}

// NewRootCommand creates the root command for the quakewatch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quakewatch",
		Short: "Track preferred solutions of seismic events",
		Long: `quakewatch follows the notifier stream of an earthquake processing system and
keeps the preferred origin, magnitude and focal mechanism of every recent event.
Every change of a preferred solution is reported to the configured hooks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.EnvPath, "env-path", "", "directory holding .env files (default config/)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")

	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewLaunchCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))
	cmd.AddCommand(NewNotifierCommand(opts))

	return cmd
}
