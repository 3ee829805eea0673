package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/notesview/notesview/internal/notes"
)

// handleListTopics renders the navigation table as markdown.
func (s *Server) handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")

	var available map[string]bool
	if s.deps.Catalog != nil {
		var err error
		available, err = s.deps.Catalog.Available()
		if err != nil {
			s.logger.Warnw("listing available notes", "error", err)
			available = nil
		}
	}

	entries := s.deps.Table.Filter(query)
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No notes match %q.", query)), nil
	}

	var b strings.Builder
	if s.deps.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", s.deps.Title)
	}
	fmt.Fprintf(&b, "- %s (home, read with an empty id)%s\n", s.deps.Resolver.Label(""), missingMark(available, ""))
	for _, e := range entries {
		fmt.Fprintf(&b, "\n## %s\n\n", e.Topic.Name)
		for _, sub := range e.Topic.Subpages {
			fmt.Fprintf(&b, "- %s%s\n", sub, missingMark(available, sub))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func missingMark(available map[string]bool, id string) string {
	if available == nil || available[id] {
		return ""
	}
	return " (missing)"
}

// handleReadNote loads a note through the same loader the viewer uses.
func (s *Server) handleReadNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	id = notes.Normalize(id)

	res := s.deps.Loader.Load(ctx, id)
	if res.Status != notes.StatusReady {
		switch {
		case errors.Is(res.Err, notes.ErrInvalidIdentifier):
			return mcp.NewToolResultError(fmt.Sprintf("%q is not a valid note identifier.", id)), nil
		case errors.Is(res.Err, notes.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("No note found for %q. Use list_topics to see the available notes.", id)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("failed to load note %q: %v", id, res.Err)), nil
		}
	}

	if request.GetString("format", "markdown") == "html" {
		doc, err := s.deps.Renderer.Render([]byte(res.Text))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render note: %v", err)), nil
		}
		return mcp.NewToolResultText(string(doc.HTML)), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}
