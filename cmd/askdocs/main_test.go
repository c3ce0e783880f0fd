package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findStringFlag(t *testing.T, flags []cli.Flag, name string) *cli.StringFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("flag %q not found", name)
	return nil
}

func findIntFlag(t *testing.T, flags []cli.Flag, name string) *cli.IntFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("flag %q not found", name)
	return nil
}

func TestServiceFlags(t *testing.T) {
	flags := serviceFlags()

	t.Run("db is required", func(t *testing.T) {
		dbFlag := findStringFlag(t, flags, "db")
		assert.True(t, dbFlag.Required)
		assert.Contains(t, dbFlag.Aliases, "d")
	})

	t.Run("ai-host has a default", func(t *testing.T) {
		hostFlag := findStringFlag(t, flags, "ai-host")
		assert.Equal(t, "https://api.openai.com/v1", hostFlag.Value)
	})

	t.Run("ai-token reads OPENAI_API_KEY", func(t *testing.T) {
		tokenFlag := findStringFlag(t, flags, "ai-token")
		assert.Contains(t, tokenFlag.EnvVars, "OPENAI_API_KEY")
		assert.Empty(t, tokenFlag.Value)
	})

	t.Run("models have defaults", func(t *testing.T) {
		assert.Equal(t, "text-embedding-3-small", findStringFlag(t, flags, "embedding-model").Value)
		assert.Equal(t, "gpt-4o-mini", findStringFlag(t, flags, "chat-model").Value)
	})

	t.Run("plan defaults to freebie", func(t *testing.T) {
		assert.Equal(t, "freebie", findStringFlag(t, flags, "plan").Value)
	})
}

func TestReindexCommandFlags(t *testing.T) {
	cmd := &cli.Command{
		Name:   "reindex",
		Action: reindexCommand,
		Flags: append(serviceFlags(),
			&cli.IntFlag{Name: "batch-size", Value: 100},
			&cli.IntFlag{Name: "report-interval", Value: 100},
			&cli.IntFlag{Name: "max-retries", Value: 3},
		),
	}
	app := &cli.App{Name: "askdocs", Commands: []*cli.Command{cmd}}

	t.Run("missing db flag fails", func(t *testing.T) {
		err := app.Run([]string{"askdocs", "reindex"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("batch-size has default value of 100", func(t *testing.T) {
		assert.Equal(t, 100, findIntFlag(t, cmd.Flags, "batch-size").Value)
	})

	t.Run("report-interval has default value of 100", func(t *testing.T) {
		assert.Equal(t, 100, findIntFlag(t, cmd.Flags, "report-interval").Value)
	})

	t.Run("max-retries has default value of 3", func(t *testing.T) {
		assert.Equal(t, 3, findIntFlag(t, cmd.Flags, "max-retries").Value)
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
				assert.True(t, slog.Default().Enabled(nil, tc.expected))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newApp().Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}
