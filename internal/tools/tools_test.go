package tools

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite/mocks"
)

// resultText unwraps the single text content of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

// newTestTools builds a tool set with no configuration and a silent logger.
func newTestTools(client aseprite.Client) *Tools {
	return New(client, nil, nil, nil)
}

// intp returns a pointer to v for optional integer arguments.
func intp(v int) *int {
	return &v
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	client := &mocks.ClientMock{
		RunScriptFunc: func(_ context.Context, _, _ string, _ time.Duration) (*aseprite.Result, error) {
			return &aseprite.Result{Status: aseprite.StatusOK}, nil
		},
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "aseprite", Version: "test"}, nil)
	newTestTools(client).Register(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close() //nolint:errcheck // test cleanup

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := mcpClient.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // test cleanup

	t.Run("lists every tool", func(t *testing.T) {
		res, err := session.ListTools(ctx, nil)
		require.NoError(t, err)

		var names []string
		for _, tool := range res.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{
			"create_canvas",
			"add_layer",
			"add_frame",
			"get_canvas_info",
			"draw_pixels",
			"draw_line",
			"draw_rectangle",
			"fill_area",
			"draw_circle",
			"export_sprite",
			"export_animation",
			"export_spritesheet",
			"route_file",
			"validate_output_directory",
			"set_default_output_directory",
			"list_recent_routes",
			"create_organized_structure",
		}, names)
	})

	t.Run("round trips a tool call", func(t *testing.T) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "create_canvas",
			Arguments: map[string]any{"width": 0, "height": 32},
		})
		require.NoError(t, err)

		require.Len(t, res.Content, 1)
		tc, ok := res.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "Error: Width and height must be positive integers", tc.Text)
	})
}

func TestStem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name", in: "canvas", want: "canvas"},
		{name: "strips extension", in: "canvas.txt", want: "canvas"},
		{name: "keeps earlier dots", in: "archive.tar.gz", want: "archive.tar"},
		{name: "drops the directory", in: "sprites/canvas.txt", want: "canvas"},
		{name: "trailing dot", in: "canvas.", want: "canvas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stem(tt.in))
		})
	}
}

func TestEnsureExt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ext  string
		want string
	}{
		{name: "appends missing extension", in: "result", ext: "png", want: "result.png"},
		{name: "keeps matching extension", in: "result.png", ext: "png", want: "result.png"},
		{name: "keeps uppercase match", in: "result.PNG", ext: "png", want: "result.PNG"},
		{name: "replaces mismatched extension", in: "out.gif", ext: "png", want: "out.png"},
		{name: "replacement drops the directory", in: "renders/out.gif", ext: "png", want: "out.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ensureExt(tt.in, tt.ext))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1048576, "1,048,576"},
		{12345678, "12,345,678"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestFormatMB(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{99.94, "99.9"},
		{1234.56, "1,234.6"},
		{102400, "102,400.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMB(tt.in))
	}
}

func TestOrTrue(t *testing.T) {
	yes, no := true, false
	assert.True(t, orTrue(nil))
	assert.True(t, orTrue(&yes))
	assert.False(t, orTrue(&no))
}

func TestOrInt(t *testing.T) {
	assert.Equal(t, 10, orInt(nil, 10))
	assert.Equal(t, 5, orInt(intp(5), 10))
	assert.Equal(t, 0, orInt(intp(0), 10), "an explicit zero is not the default")
}
