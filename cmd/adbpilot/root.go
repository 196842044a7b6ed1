package main

import (
	"fmt"
	"os"

	"github.com/aretw0/adbpilot/internal/cli"
	"github.com/aretw0/adbpilot/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adbpilot",
	Short: "adbpilot drives an Android device through adb",
	Long: `adbpilot executes automation plans (ordered lists of taps, waits, app launches,
messages and calls) against an Android device through the adb bridge.

It can run a plan file once, serve an HTTP API, or act as an MCP server for AI agents.`,
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
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("adb", "", "Path to the adb binary")
	rootCmd.PersistentFlags().String("serial", "", "Target device serial (adb -s)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Record commands instead of sending them to a device")
}

// loadConfig reads the configuration file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("adb") {
		cfg.ADB.Binary, _ = flags.GetString("adb")
	}
	if flags.Changed("serial") {
		cfg.ADB.Serial, _ = flags.GetString("serial")
	}
	if flags.Changed("dry-run") {
		cfg.Executor.DryRun, _ = flags.GetBool("dry-run")
	}
	return cfg, cfg.Validate()
}

// newApp loads configuration and builds the application for a command.
func newApp(cmd *cobra.Command) (*cli.App, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	logger, err := cli.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		return nil, cfg, err
	}
	if !cfg.Executor.DryRun {
		if _, err := cfg.ADB.LookPath(); err != nil {
			logger.Warn("adb not found; device commands will fail", "error", err)
		}
	}
	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		return nil, cfg, fmt.Errorf("error initializing adbpilot: %w", err)
	}
	return app, cfg, nil
}
