// Package highlight applies ancestor-path highlighting to a rendering
// surface and keeps the transient hover state separate from the committed
// focus.
package highlight

import (
	"sort"

	"github.com/ziadkadry99/techtree/internal/graph"
)

// Surface is the rendering side of the highlighter. Implementations toggle
// the highlighted look of a node or edge and reorder edges within their
// drawing group.
type Surface interface {
	SetNodeHighlight(id string, on bool)
	SetEdgeHighlight(id string, on bool)
	// BringEdgeToFront moves the edge to the end of its rendering group so
	// later, unhighlighted edges do not cover it.
	BringEdgeToFront(id string)
}

// Highlighter marks the path from a node to its root on a Surface.
type Highlighter struct {
	graph   *graph.NodeGraph
	surface Surface

	nodes map[string]bool
	edges map[string]bool
	focus string
}

// New creates a Highlighter for g drawing onto s.
func New(g *graph.NodeGraph, s Surface) *Highlighter {
	return &Highlighter{
		graph:   g,
		surface: s,
		nodes:   make(map[string]bool),
		edges:   make(map[string]bool),
	}
}

// Apply clears any existing marks, then highlights id, each of its
// ancestors, and every edge on the way up. Highlighted edges are brought to
// the front.
func (h *Highlighter) Apply(id string) {
	h.Clear()
	for _, step := range h.graph.HighlightPath(id) {
		h.nodes[step.Node] = true
		h.surface.SetNodeHighlight(step.Node, true)
		if step.Edge == nil {
			continue
		}
		eid := step.Edge.ID()
		h.edges[eid] = true
		h.surface.SetEdgeHighlight(eid, true)
		h.surface.BringEdgeToFront(eid)
	}
}

// Clear removes every highlight mark. It is safe to call with nothing
// highlighted.
func (h *Highlighter) Clear() {
	for _, id := range sortedKeys(h.nodes) {
		h.surface.SetNodeHighlight(id, false)
		delete(h.nodes, id)
	}
	for _, id := range sortedKeys(h.edges) {
		h.surface.SetEdgeHighlight(id, false)
		delete(h.edges, id)
	}
}

// RestoreFocusHighlight clears the current marks and re-applies the
// highlight of the focused node, if there is one.
func (h *Highlighter) RestoreFocusHighlight() {
	h.Clear()
	if h.focus != "" {
		h.Apply(h.focus)
	}
}

// SetFocus commits id as the focused node. An empty id clears the focus.
func (h *Highlighter) SetFocus(id string) {
	h.focus = id
}

// Focus returns the focused node id, or "" when nothing is focused.
func (h *Highlighter) Focus() string {
	return h.focus
}

// Highlighted returns the currently marked node and edge ids, sorted.
func (h *Highlighter) Highlighted() (nodes, edges []string) {
	return sortedKeys(h.nodes), sortedKeys(h.edges)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
