// Package cmd implements the aseprite-mcp CLI commands using Cobra.
// It provides the MCP server entrypoint plus supporting commands for
// configuration, environment diagnosis, and interactive setup.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/config"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/slogger"
)

// verbosity counts repeated -v flags: 0 warn, 1 info, 2+ debug.
var verbosity int

// appConfig holds the loaded application configuration.
var appConfig *config.Config

// configLoader is used for reading and persisting configuration.
var configLoader *config.Loader

var rootCmd = &cobra.Command{
	Use:   "aseprite-mcp",
	Short: "MCP server for driving Aseprite",
	Long: `Aseprite-mcp exposes Aseprite's scripting engine as MCP tools.

An MCP client connects over stdio and calls tools that create canvases,
draw primitives, export images, and route finished files into organized
directories. Each call generates a Lua script and runs it through the
Aseprite executable in batch mode.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := slogger.New(slogger.Config{Verbosity: verbosity})

		// Store dependencies in context for subcommands
		ctx := cmd.Context()
		ctx = slogger.WithLogger(ctx, logger)
		ctx = WithConfig(ctx, appConfig)
		ctx = WithLoader(ctx, configLoader)
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

func initConfig() {
	loader, err := config.NewLoader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
		return
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config validation failed: %v\n", err)
	}

	appConfig = cfg
	configLoader = loader
}
