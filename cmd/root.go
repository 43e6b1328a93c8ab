package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crop_service/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "crop_service",
		Short:        "Crop recommendation service",
		Long:         "Ranks crops for a region by blending classifier probabilities, Monte Carlo climate risk and agronomic rules.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to YAML config file (overrides CROP_SERVICE_CONFIG env var)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newRecommendCmd())
	root.AddCommand(newSimulateCmd())
	return root
}

// loadConfig resolves the config path from the --config flag, then the
// CROP_SERVICE_CONFIG env var.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CROP_SERVICE_CONFIG")
	}
	return config.Load(path)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})).
		With("service", "crop_service")
}
