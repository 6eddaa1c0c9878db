// AngelaMos | 2026
// root.go

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/barulogix/barulogix-api/internal/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "barulogix",
		Short:         "BaruLogix delivery tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(
		&configPath,
		"config",
		"",
		"path to a YAML config file (environment variables override it)",
	)

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(setupLogger(cfg.Log))
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newKeygenCmd(),
		newCreateAdminCmd(loadConfig),
		newCleanupCmd(loadConfig),
	)

	return root
}

type configLoader func() (*config.Config, error)

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
