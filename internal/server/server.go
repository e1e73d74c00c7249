// Package server assembles the MCP server that exposes the Aseprite tools
// over a transport.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/config"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/slogger"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/tools"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/version"
)

// Name is the implementation name advertised during the MCP handshake.
const Name = "aseprite-mcp"

// Options configures a Server.
type Options struct {
	// Client runs Aseprite commands on behalf of the tools.
	Client aseprite.Client

	// Loader persists configuration changes made through tools. Optional.
	Loader *config.Loader

	// Config supplies tool defaults such as the disk space floor. Optional.
	Config *config.Config

	// Logger receives server lifecycle and tool logs. Defaults to discarding.
	Logger *slog.Logger
}

// Server wraps an MCP server with every Aseprite tool registered.
type Server struct {
	mcp    *mcp.Server
	logger *slog.Logger
}

// New assembles the MCP server and registers the tool handlers.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slogger.Discard()
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: version.Version,
	}, nil)
	tools.New(opts.Client, opts.Loader, opts.Config, logger).Register(srv)

	return &Server{mcp: srv, logger: logger}
}

// Run serves MCP over stdin and stdout until the client disconnects or ctx
// is canceled. Logs must go to stderr while running; stdout carries the
// protocol stream.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("server started", "name", Name, "version", version.Version)
	defer s.logger.Info("server stopped")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to a transport and returns the session.
// Used by tests to drive the server in memory.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
