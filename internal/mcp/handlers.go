package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/civ"
	"github.com/ziadkadry99/techtree/internal/overlay"
	"github.com/ziadkadry99/techtree/internal/search"
)

// handleComposeHelp returns the composed help markup of an entity.
func (s *Server) handleComposeHelp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	kind, err := requireKind(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h := s.eng.Compose(kind, id, request.GetString("name", ""))

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (%s, %s)\n\n", h.Name, h.ID, h.Kind)
	if h.Cost != "" {
		fmt.Fprintf(&sb, "Cost:%s\n\n", h.Cost)
	}
	sb.WriteString(h.Help)
	sb.WriteString("\n")
	if request.GetBool("advanced", false) && h.Advanced != "" {
		sb.WriteString("\n")
		sb.WriteString(h.Advanced)
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleHighlightPath lists the prerequisite chain of a node.
func (s *Server) handleHighlightPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	if _, err := s.eng.Node(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown node %q", id)), nil
	}

	var sb strings.Builder
	for i, step := range s.eng.Graph.HighlightPath(id) {
		n, _ := s.eng.Node(step.Node)
		fmt.Fprintf(&sb, "%d. %s (%s)", i+1, s.eng.Catalogue.DisplayName(n), step.Node)
		if step.Edge != nil {
			fmt.Fprintf(&sb, " via %s", step.Edge.ID())
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleCivAvailability reports per-civilization availability of an entity.
func (s *Server) handleCivAvailability(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	kind, err := requireKind(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var badges []civ.Badge
	if civID := request.GetString("civ", ""); civID != "" {
		ok := s.eng.Civs.IsAvailable(civID, kind, id)
		badges = []civ.Badge{{Civ: civID, Available: ok, Opacity: civ.Opacity(ok)}}
	} else {
		badges = s.eng.Civs.Badges(kind, id)
	}
	if len(badges) == 0 {
		return mcp.NewToolResultText("No civilizations loaded."), nil
	}

	var sb strings.Builder
	for _, b := range badges {
		status := "unavailable"
		if b.Available {
			status = "available"
		}
		fmt.Fprintf(&sb, "%s: %s\n", b.Civ, status)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handlePlaceOverlay positions a popup of the given size next to a node.
func (s *Server) handlePlaceOverlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	n, err := s.eng.Node(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown node %q", id)), nil
	}

	size := overlay.Size{
		Width:  request.GetFloat("width", 0),
		Height: request.GetFloat("height", 0),
	}
	vp := overlay.Viewport{
		Height:  request.GetFloat("viewport_height", 800),
		ScrollX: request.GetFloat("scroll_x", 0),
	}
	p := overlay.Place(n.Rect, size, vp)

	text := fmt.Sprintf("strategy: %s\ntop: %g\nleft: %g\n", p.Strategy, p.Top, p.Left)
	if p.Unchecked {
		text += "note: vertical bounds were not checked\n"
	}
	return mcp.NewToolResultText(text), nil
}

// handleSearchEntities runs a semantic search over entity help text.
func (s *Server) handleSearchEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	var kind catalogue.Kind
	if k := request.GetString("kind", ""); k != "" {
		if kind, err = catalogue.ParseKind(k); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	results, err := s.searcher.Search(ctx, query, limit, kind)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The index may be empty. Run `techtree search --reindex` to build it."), nil
	}
	return mcp.NewToolResultText(search.FormatResults(results)), nil
}

func requireKind(request mcp.CallToolRequest) (catalogue.Kind, error) {
	k, err := request.RequireString("kind")
	if err != nil {
		return "", fmt.Errorf("missing required parameter: kind")
	}
	return catalogue.ParseKind(k)
}
