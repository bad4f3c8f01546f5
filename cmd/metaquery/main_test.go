package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func testApp() *cli.App {
	return &cli.App{
		Name: "metaquery",
		Commands: []*cli.Command{
			{
				Name:   "query",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name: "extractor-host",
					},
					&cli.StringFlag{
						Name:  "extractor-model",
						Value: "qwen2.5:3b",
					},
				},
			},
		},
	}
}

func TestQueryCommandValidation(t *testing.T) {
	app := testApp()

	t.Run("missing db flag fails", func(t *testing.T) {
		err := app.Run([]string{"metaquery", "query", "users over 30"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("missing query text fails", func(t *testing.T) {
		err := app.Run([]string{"metaquery", "query", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query text")
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
