package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/exec"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/server"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/slogger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Run the MCP server, reading requests from stdin and writing responses
to stdout. Logs go to stderr so the protocol stream stays clean.

This is the command an MCP client configuration should launch:

  {"command": "aseprite-mcp", "args": ["serve"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slogger.L(ctx)
		if term.IsTerminal(int(os.Stdin.Fd())) {
			logger.Warn("stdin is a terminal; serve expects an MCP client on stdio")
		}

		opts := &aseprite.Options{Logger: logger}
		cfg := ConfigFromContext(ctx)
		if cfg != nil {
			opts.Executable = cfg.Aseprite.Path
			opts.Timeout = cfg.Aseprite.Timeout
			opts.ScriptDir = cfg.Aseprite.ScriptDir
		}
		client := aseprite.NewClient(exec.New(), opts)

		srv := server.New(server.Options{
			Client: client,
			Loader: LoaderFromContext(ctx),
			Config: cfg,
			Logger: logger,
		})

		// A canceled context is the normal shutdown path, not a failure.
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
