package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-morph/config"
)

var rootCmd = &cobra.Command{
	Use:   "morphview",
	Short: "Morph between 3D models rendered as point clouds",
	Long: `morphview samples a list of meshes into equally sized point clouds and morphs the
points from one model to the next whenever a new model is selected.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "morph.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

// newLogger builds the stderr text logger for a level name.
//
// Parameters:
//   - level: debug, info, warn or error (case-insensitive)
//
// Returns:
//   - *slog.Logger: the logger
//   - error: an error for an unknown level
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})), nil
}

// setup reads the persistent flags shared by every subcommand.
func setup(cmd *cobra.Command) (config.Config, string, *slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(level)
	if err != nil {
		return config.Config{}, "", nil, err
	}
	slog.SetDefault(logger)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", nil, err
	}
	logger.Debug("config loaded", "path", path, "models", len(cfg.Models), "duration", cfg.Duration)
	return cfg, path, logger, nil
}
