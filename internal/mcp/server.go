// Package mcp exposes the navigation table and the notes as Model Context
// Protocol tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/notesview/notesview/internal/catalog"
	"github.com/notesview/notesview/internal/logging"
	"github.com/notesview/notesview/internal/nav"
	"github.com/notesview/notesview/internal/notes"
	"github.com/notesview/notesview/internal/render"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Deps are the components the tools read from.
type Deps struct {
	Title    string
	Table    nav.Table
	Loader   notes.ContentLoader
	Resolver notes.Resolver
	Renderer *render.Renderer
	// Catalog marks which notes have a file. Nil when notes are remote.
	Catalog *catalog.Catalog
	Logger  *zap.SugaredLogger
}

// Server wraps an MCP server that exposes the notes tools.
type Server struct {
	deps   Deps
	logger *zap.SugaredLogger
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(deps Deps) *Server {
	if deps.Renderer == nil {
		deps.Renderer = render.New("")
	}
	s := &Server{deps: deps, logger: logging.OrNop(deps.Logger)}

	s.mcp = server.NewMCPServer(
		"notesview",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listTopicsTool, s.handleListTopics)
	s.mcp.AddTool(readNoteTool, s.handleReadNote)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
