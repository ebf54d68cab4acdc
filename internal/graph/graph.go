// Package graph indexes the prerequisite edges of a laid-out diagram and
// computes the ancestor path used for highlighting.
package graph

import (
	"log"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

// Duplicate records a child that appeared in more than one connection. The
// later edge replaced the earlier one in the parent index.
type Duplicate struct {
	Child    string
	Dropped  catalogue.Connection
	Replaced catalogue.Connection
}

// Step is one element of a highlight path: a node, and the edge that leads
// from it to its parent. Edge is nil at the root.
type Step struct {
	Node string
	Edge *catalogue.Connection
}

// NodeGraph maps each child node to the single edge that connects it to its
// parent.
type NodeGraph struct {
	parents    map[string]catalogue.Connection
	duplicates []Duplicate
}

// Option configures a NodeGraph build.
type Option func(*buildOptions)

type buildOptions struct {
	logf func(format string, args ...any)
}

// WithLogf routes duplicate-edge diagnostics to fn instead of the standard
// logger.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(o *buildOptions) { o.logf = fn }
}

// New builds the parent index from a list of parent->child connections.
// When a child appears twice the later connection wins; each overwrite is
// reported through the diagnostic logger and kept in Duplicates.
func New(conns []catalogue.Connection, opts ...Option) *NodeGraph {
	o := buildOptions{logf: log.Printf}
	for _, opt := range opts {
		opt(&o)
	}

	g := &NodeGraph{parents: make(map[string]catalogue.Connection, len(conns))}
	for _, c := range conns {
		if prev, ok := g.parents[c.Child]; ok && prev != c {
			g.duplicates = append(g.duplicates, Duplicate{Child: c.Child, Dropped: prev, Replaced: c})
			o.logf("graph: node %s has more than one parent; keeping %s, dropping %s", c.Child, c.ID(), prev.ID())
		}
		g.parents[c.Child] = c
	}
	return g
}

// Parent returns the connection from id to its parent.
func (g *NodeGraph) Parent(id string) (catalogue.Connection, bool) {
	c, ok := g.parents[id]
	return c, ok
}

// Duplicates lists the connections that were overwritten while building.
func (g *NodeGraph) Duplicates() []Duplicate {
	return g.duplicates
}

// Len returns the number of nodes that have a parent.
func (g *NodeGraph) Len() int {
	return len(g.parents)
}

// HighlightPath walks from id up to its root and returns the visited nodes in
// ascending order, each with the edge to its parent. The walk stops at the
// first repeated node, so a malformed edge list with a cycle still
// terminates.
func (g *NodeGraph) HighlightPath(id string) []Step {
	var path []Step
	seen := make(map[string]bool)
	for cur := id; !seen[cur]; {
		seen[cur] = true
		c, ok := g.parents[cur]
		if !ok {
			path = append(path, Step{Node: cur})
			break
		}
		edge := c
		path = append(path, Step{Node: cur, Edge: &edge})
		cur = c.Parent
	}
	return path
}

// Ancestors returns the node ids on the path from id to the root, id first.
func (g *NodeGraph) Ancestors(id string) []string {
	path := g.HighlightPath(id)
	ids := make([]string, len(path))
	for i, s := range path {
		ids[i] = s.Node
	}
	return ids
}
