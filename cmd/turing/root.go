package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/spf13/cobra"
)

// app holds what PersistentPreRunE prepared for the running command.
var app struct {
	cfg     config.Config
	logger  *slog.Logger
	logFile io.Closer
}

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a Turing machine interpreter and compiler",
	Long: `Turing parses Turing machine descriptions written in YAML, runs them,
and rewrites them as universal machine programs or over a binary alphabet.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.logFile != nil {
			app.logFile.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Settings file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-json", "", "Also write JSON logs to this file")
}

// setup loads the settings file, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON, _ = cmd.Flags().GetString("log-json")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	var opts []logging.Option
	if cfg.LogJSON != "" {
		f, err := os.OpenFile(cfg.LogJSON, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		app.logFile = f
		opts = append(opts, logging.WithJSONSink(f))
	}

	app.cfg = cfg
	app.logger = logging.New(level, opts...)
	return nil
}

// newEngine builds an engine from the loaded settings.
func newEngine(opts ...turing.Option) *turing.Engine {
	base := []turing.Option{turing.WithLogger(app.logger)}
	if app.cfg.MaxSteps != 0 {
		base = append(base, turing.WithMaxSteps(app.cfg.MaxSteps))
	}
	return turing.New(append(base, opts...)...)
}

// readDocument reads a machine document from path, or from stdin for "-".
func readDocument(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine: %w", err)
	}
	return data, nil
}
