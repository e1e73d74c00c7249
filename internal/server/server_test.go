package server

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

func TestNew(t *testing.T) {
	ctx := context.Background()

	client := &mocks.ClientMock{
		RunScriptFunc: func(_ context.Context, _, _ string, _ time.Duration) (*aseprite.Result, error) {
			return &aseprite.Result{Status: aseprite.StatusOK, Output: "ok"}, nil
		},
	}
	srv := New(Options{Client: client})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.Connect(ctx, serverTransport)
	require.NoError(t, err)
	defer serverSession.Close() //nolint:errcheck // test cleanup

	clientSession, err := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil).
		Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer clientSession.Close() //nolint:errcheck // test cleanup

	t.Run("exposes the tool set", func(t *testing.T) {
		listed, err := clientSession.ListTools(ctx, &mcp.ListToolsParams{})
		require.NoError(t, err)
		assert.Len(t, listed.Tools, 17)
	})

	t.Run("dispatches tool calls", func(t *testing.T) {
		res, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
			Name:      "create_canvas",
			Arguments: map[string]any{"width": 32, "height": 32},
		})
		require.NoError(t, err)
		require.Len(t, res.Content, 1)

		tc, ok := res.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "Canvas created successfully: canvas.aseprite (32x32)", tc.Text)
		assert.Len(t, client.RunScriptCalls(), 1)
	})
}
