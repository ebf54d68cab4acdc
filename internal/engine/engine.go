// Package engine bundles the read-only pieces built from a loaded catalogue:
// the parent index, the help composer and the civilization index. It is
// shared by sessions, the HTTP API, the MCP tools and the exporters.
package engine

import (
	"fmt"
	"log"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/civ"
	"github.com/ziadkadry99/techtree/internal/graph"
	"github.com/ziadkadry99/techtree/internal/helptext"
)

// Engine is safe for concurrent use; nothing in it is mutated after New.
type Engine struct {
	Catalogue *catalogue.Catalogue
	Graph     *graph.NodeGraph
	Composer  *helptext.Composer
	Civs      *civ.Index
}

// Help is the composed popup content of one entity.
type Help struct {
	ID       string         `json:"id"`
	Kind     catalogue.Kind `json:"kind"`
	Name     string         `json:"name"`
	Help     string         `json:"help"`
	Advanced string         `json:"advanced"`
	Cost     string         `json:"cost"`
}

// New builds an Engine over cat. Diagnostics from the graph and the composer
// go to logf, or to the standard logger when logf is nil.
func New(cat *catalogue.Catalogue, logf func(format string, args ...any)) *Engine {
	if logf == nil {
		logf = log.Printf
	}
	return &Engine{
		Catalogue: cat,
		Graph:     graph.New(cat.Layout.Connections, graph.WithLogf(logf)),
		Composer:  helptext.NewComposer(cat.Stats, cat.Strings, helptext.WithLogf(logf)),
		Civs:      civ.NewIndex(cat.Civs),
	}
}

// Node returns the laid-out node with the given id.
func (e *Engine) Node(id string) (catalogue.Node, error) {
	n, ok := e.Catalogue.Layout.Node(id)
	if !ok {
		return catalogue.Node{}, fmt.Errorf("node %s: %w", id, catalogue.ErrNotFound)
	}
	return n, nil
}

// Compose builds the help content for an entity. An empty name is resolved
// through the layout and string table.
func (e *Engine) Compose(kind catalogue.Kind, id, name string) Help {
	if name == "" {
		name = e.nameFor(kind, id)
	}
	return Help{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Help:     e.Composer.ComposeHelp(name, id, kind),
		Advanced: e.Composer.ComposeAdvancedStats(name, id, kind),
		Cost:     e.Composer.FormatEntityCost(id, kind),
	}
}

// ComposeNode builds the help content for a laid-out node.
func (e *Engine) ComposeNode(n catalogue.Node) Help {
	return e.Compose(n.Kind, n.ID, e.Catalogue.DisplayName(n))
}

func (e *Engine) nameFor(kind catalogue.Kind, id string) string {
	if n, ok := e.Catalogue.Layout.Node(id); ok {
		return e.Catalogue.DisplayName(n)
	}
	return e.Catalogue.DisplayName(catalogue.Node{ID: id, Kind: kind})
}
