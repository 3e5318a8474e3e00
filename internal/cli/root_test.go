package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "quakewatch", cmd.Use)
	assert.Contains(t, cmd.Long, "preferred origin")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"watch"},
		{"launch"},
		{"archive"},
		{"notifier", "log"},
		{"notifier", "play"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("env-path"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestPlayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	playCmd, _, err := cmd.Find([]string{"notifier", "play"})
	require.NoError(t, err)

	speedFlag := playCmd.Flags().Lookup("speed")
	require.NotNil(t, speedFlag)
	assert.Equal(t, "1", speedFlag.DefValue)
	require.NotNil(t, playCmd.Flags().Lookup("begin"))
	require.NotNil(t, playCmd.Flags().Lookup("end"))

	assert.Error(t, playCmd.Args(playCmd, []string{}))
	assert.NoError(t, playCmd.Args(playCmd, []string{"notifier.log"}))
}

func TestPlayOptions_PlayerConfig(t *testing.T) {
	tests := []struct {
		name     string
		opts     PlayOptions
		errMsg   string
		validate func(t *testing.T, opts PlayOptions)
	}{
		{
			name: "no window",
			opts: PlayOptions{Speed: 2},
			validate: func(t *testing.T, opts PlayOptions) {
				cfg, err := opts.playerConfig()
				require.NoError(t, err)
				assert.Nil(t, cfg.Begin)
				assert.Nil(t, cfg.End)
				assert.Equal(t, 2.0, cfg.Speed)
			},
		},
		{
			name: "window in UTC",
			opts: PlayOptions{Begin: "2024-03-01 00:00:00", End: "2024-03-01 06:30:00"},
			validate: func(t *testing.T, opts PlayOptions) {
				cfg, err := opts.playerConfig()
				require.NoError(t, err)
				require.NotNil(t, cfg.Begin)
				require.NotNil(t, cfg.End)
				assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *cfg.Begin)
				assert.Equal(t, time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC), *cfg.End)
			},
		},
		{
			name:   "bad begin",
			opts:   PlayOptions{Begin: "2024-03-01T00:00:00Z"},
			errMsg: "invalid --begin",
		},
		{
			name:   "empty window",
			opts:   PlayOptions{Begin: "2024-03-02 00:00:00", End: "2024-03-01 00:00:00"},
			errMsg: "is not before end",
		},
		{
			name:   "negative speed",
			opts:   PlayOptions{Speed: -1},
			errMsg: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.errMsg != "" {
				_, err := tt.opts.playerConfig()
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			tt.validate(t, tt.opts)
		})
	}
}
