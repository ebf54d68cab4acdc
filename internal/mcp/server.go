// Package mcp exposes the tech-tree engine as Model Context Protocol tools
// served over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes tech-tree lookup tools.
type Server struct {
	eng      *engine.Engine
	searcher search.Searcher
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over eng. searcher may be nil, in which
// case search_entities is not registered.
func NewServer(eng *engine.Engine, searcher search.Searcher) *Server {
	s := &Server{
		eng:      eng,
		searcher: searcher,
	}

	s.mcp = server.NewMCPServer(
		"techtree",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(composeHelpTool, s.handleComposeHelp)
	s.mcp.AddTool(highlightPathTool, s.handleHighlightPath)
	s.mcp.AddTool(civAvailabilityTool, s.handleCivAvailability)
	s.mcp.AddTool(placeOverlayTool, s.handlePlaceOverlay)
	if s.searcher != nil {
		s.mcp.AddTool(searchEntitiesTool, s.handleSearchEntities)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
