package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesview/notesview/internal/catalog"
	"github.com/notesview/notesview/internal/nav"
	"github.com/notesview/notesview/internal/notes"
)

func newTestServer(t *testing.T, withCatalog bool) *Server {
	t.Helper()

	fs := afero.NewMemMapFs()
	files := map[string]string{
		"docs/my_notes.md":        "# Hello\n\nAbout me.\n",
		"docs/Smart Contracts.md": "# Smart Contracts\n\nCode is law.\n",
	}
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}

	resolver := notes.NewResolver("docs", notes.DefaultHome)
	deps := Deps{
		Title:    "my_notes",
		Table:    nav.Table{{Name: "Blockchain", Subpages: []string{"Smart Contracts", "Rollups"}}},
		Loader:   notes.NewLoader(notes.NewFSSource(fs), resolver),
		Resolver: resolver,
	}
	if withCatalog {
		deps.Catalog = catalog.New(fs, resolver)
	}
	return NewServer(deps)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listTopicsTool, "list_topics"},
		{readNoteTool, "read_note"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
		})
	}
	assert.Contains(t, readNoteTool.InputSchema.Required, "id")
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, false)
	require.NotNil(t, srv.mcp)
	require.NotNil(t, srv.deps.Renderer)
}

func TestHandleListTopics(t *testing.T) {
	ctx := context.Background()

	t.Run("with catalog", func(t *testing.T) {
		srv := newTestServer(t, true)
		result, err := srv.handleListTopics(ctx, call(map[string]any{}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		text := resultText(t, result)
		assert.Contains(t, text, "# my_notes")
		assert.Contains(t, text, "- About (home, read with an empty id)\n")
		assert.Contains(t, text, "## Blockchain")
		assert.Contains(t, text, "- Smart Contracts\n")
		assert.Contains(t, text, "- Rollups (missing)\n")
	})

	t.Run("without catalog", func(t *testing.T) {
		srv := newTestServer(t, false)
		result, err := srv.handleListTopics(ctx, call(map[string]any{}))
		require.NoError(t, err)
		assert.NotContains(t, resultText(t, result), "(missing)")
	})

	t.Run("filtered", func(t *testing.T) {
		srv := newTestServer(t, false)
		result, err := srv.handleListTopics(ctx, call(map[string]any{"query": "roll"}))
		require.NoError(t, err)
		text := resultText(t, result)
		assert.Contains(t, text, "- Rollups")
		assert.NotContains(t, text, "Smart Contracts")
	})

	t.Run("no match", func(t *testing.T) {
		srv := newTestServer(t, false)
		result, err := srv.handleListTopics(ctx, call(map[string]any{"query": "zzzz"}))
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "No notes match")
	})
}

func TestHandleReadNote(t *testing.T) {
	srv := newTestServer(t, false)
	ctx := context.Background()

	t.Run("markdown", func(t *testing.T) {
		result, err := srv.handleReadNote(ctx, call(map[string]any{"id": " Smart Contracts "}))
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Equal(t, "# Smart Contracts\n\nCode is law.\n", resultText(t, result))
	})

	t.Run("html", func(t *testing.T) {
		result, err := srv.handleReadNote(ctx, call(map[string]any{"id": "Smart Contracts", "format": "html"}))
		require.NoError(t, err)
		assert.Contains(t, resultText(t, result), `<p class="md-p">Code is law.</p>`)
	})

	t.Run("home", func(t *testing.T) {
		result, err := srv.handleReadNote(ctx, call(map[string]any{"id": ""}))
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "About me.")
	})

	t.Run("missing note", func(t *testing.T) {
		result, err := srv.handleReadNote(ctx, call(map[string]any{"id": "Rollups"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "No note found")
	})

	t.Run("invalid id", func(t *testing.T) {
		result, err := srv.handleReadNote(ctx, call(map[string]any{"id": "../etc/passwd"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "not a valid note identifier")
	})

	t.Run("missing id", func(t *testing.T) {
		result, err := srv.handleReadNote(ctx, call(map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}
