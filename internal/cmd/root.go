package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/config"
)

// settings holds defaults and environment overrides; flags write into it
var settings = config.LoadSettings()

var rootCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare self-hosted software alternatives",
	Long: `Compare renders feature comparison tables for self-hosted software
alternatives: media servers, password managers, music streaming, file sync
and any category defined in a data directory.

Each category groups feature keys into sections. Tools are scored per section,
and can be searched, filtered by supported features and pinned to the front.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", settings.LogLevel.String(), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", settings.LogFormat, "Log format: text or json")
	rootCmd.PersistentFlags().String("log-file", settings.LogFile, "Log file path (default: stderr)")
}

// configureLogging sets up logging based on command flags
func configureLogging(cmd *cobra.Command) *slog.Logger {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logFile, _ := cmd.Flags().GetString("log-file")

	if level, err := config.ParseLogLevel(logLevel); err == nil {
		settings.LogLevel = level
	}
	settings.LogFormat = logFormat
	settings.LogFile = logFile

	return settings.ConfigureLogger()
}

// exitOnError logs err and terminates the process
func exitOnError(logger *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logger.Error(msg, "error", err)
	os.Exit(1)
}
