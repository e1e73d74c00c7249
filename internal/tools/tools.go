// Package tools implements the MCP tools exposed by the Aseprite server.
//
// Every tool resolves to a plain text result. Conditions the caller can act
// on, such as bad arguments, missing files, or a non-zero Aseprite exit, are
// reported in the result text rather than as protocol errors so conversational
// clients can relay them directly.
package tools

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/config"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/slogger"
)

// fallbackMinSpaceMB is used when no configuration is available.
const fallbackMinSpaceMB = 100

// Tools bundles the dependencies shared by every tool handler.
type Tools struct {
	client aseprite.Client
	loader *config.Loader
	cfg    *config.Config
	logger *slog.Logger
}

// New creates the tool set backed by client. The loader and config may be
// nil, in which case configuration-dependent tools fall back to built-in
// defaults.
func New(client aseprite.Client, loader *config.Loader, cfg *config.Config, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slogger.Discard()
	}
	return &Tools{client: client, loader: loader, cfg: cfg, logger: logger}
}

// Register adds every tool to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_canvas",
		Description: "Create a new Aseprite canvas with specified dimensions.",
	}, t.CreateCanvas)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_layer",
		Description: "Add a new layer to an Aseprite file.",
	}, t.AddLayer)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_frame",
		Description: "Add a new frame to an Aseprite file.",
	}, t.AddFrame)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_canvas_info",
		Description: "Get information about an Aseprite canvas, including dimensions, layers, and frames.",
	}, t.GetCanvasInfo)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "draw_pixels",
		Description: "Draw individual pixels on the canvas with specified colors.",
	}, t.DrawPixels)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "draw_line",
		Description: "Draw a line on the canvas.",
	}, t.DrawLine)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "draw_rectangle",
		Description: "Draw a rectangle on the canvas.",
	}, t.DrawRectangle)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fill_area",
		Description: "Fill an area with color using the paint bucket tool.",
	}, t.FillArea)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "draw_circle",
		Description: "Draw a circle on the canvas.",
	}, t.DrawCircle)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_sprite",
		Description: "Export an Aseprite file to another image format.",
	}, t.ExportSprite)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_animation",
		Description: "Export an Aseprite file as an animated GIF or WebP.",
	}, t.ExportAnimation)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_spritesheet",
		Description: "Export an Aseprite file as a sprite sheet.",
	}, t.ExportSpritesheet)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "route_file",
		Description: "Route a completed file to a user-defined output directory with validation.",
	}, t.RouteFile)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_output_directory",
		Description: "Validate an output directory for file routing operations.",
	}, t.ValidateOutputDirectory)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_default_output_directory",
		Description: "Set a default output directory for specific file types.",
	}, t.SetDefaultOutputDirectory)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_recent_routes",
		Description: "List recently routed files for reference.",
	}, t.ListRecentRoutes)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_organized_structure",
		Description: "Create an organized directory structure for file routing.",
	}, t.CreateOrganizedStructure)
}

// minSpaceMB returns the disk space floor for directory validation. A
// configured zero disables the floor; without a config the built-in default
// applies.
func (t *Tools) minSpaceMB() int {
	if t.cfg != nil {
		return t.cfg.Output.MinSpaceMB
	}
	return fallbackMinSpaceMB
}

// commandFailure logs and renders an escalated execution error.
func (t *Tools) commandFailure(err error) string {
	t.logger.Error("aseprite command error", "error", err)
	return fmt.Sprintf("Error executing Aseprite command: %v", err)
}

// textResult wraps msg as a plain text tool result.
func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: msg}}}
}

// checkFile returns a failure message when path does not name an existing
// file, or "" when it does.
func checkFile(path string) string {
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("File not found: %s", path)
	}
	return ""
}

// stem returns the last path element of name without its extension.
func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// orTrue dereferences an optional boolean argument that defaults to true
// when the caller omits it.
func orTrue(b *bool) bool {
	return b == nil || *b
}

// orInt dereferences an optional integer argument, substituting def when the
// caller omits it. An explicit zero passes through to validation.
func orInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// groupDigits inserts comma separators into a string of decimal digits.
func groupDigits(s string) string {
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// formatBytes renders a byte count with thousands separators.
func formatBytes(n int64) string {
	return groupDigits(strconv.FormatInt(n, 10))
}

// formatMB renders a megabyte count with thousands separators and one
// decimal place.
func formatMB(mb float64) string {
	s := strconv.FormatFloat(mb, 'f', 1, 64)
	i := strings.IndexByte(s, '.')
	return groupDigits(s[:i]) + s[i:]
}
