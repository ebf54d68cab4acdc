// Package diagrams renders parts of the prerequisite graph as mermaid
// flowcharts for the static site and the CLI.
package diagrams

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/graph"
)

// LabelFunc returns the display label of a node id.
type LabelFunc func(id string) string

// PathDiagram draws a highlight path bottom-up: the hovered node at the
// bottom, its root at the top.
func PathDiagram(path []graph.Step, label LabelFunc) string {
	var b strings.Builder
	b.WriteString("graph BT\n")
	if len(path) == 0 {
		return b.String()
	}

	for i, s := range path {
		shape := "[\"%s\"]"
		if i == 0 {
			shape = "([\"%s\"])"
		}
		fmt.Fprintf(&b, "    %s"+shape+"\n", sanitizeID(s.Node), escapeMermaid(label(s.Node)))
	}
	for _, s := range path {
		if s.Edge == nil {
			continue
		}
		fmt.Fprintf(&b, "    %s --> %s\n", sanitizeID(s.Edge.Child), sanitizeID(s.Edge.Parent))
	}
	return b.String()
}

// SubtreeDiagram draws root and every node reachable below it through
// conns, top-down. depth limits how many levels are drawn; 0 means no limit.
func SubtreeDiagram(root string, conns []catalogue.Connection, depth int, label LabelFunc) string {
	children := make(map[string][]string)
	for _, c := range conns {
		children[c.Parent] = append(children[c.Parent], c.Child)
	}

	var b strings.Builder
	b.WriteString("graph TD\n")
	fmt.Fprintf(&b, "    %s([\"%s\"])\n", sanitizeID(root), escapeMermaid(label(root)))

	seen := map[string]bool{root: true}
	level := []string{root}
	for d := 1; len(level) > 0 && (depth == 0 || d <= depth); d++ {
		var next []string
		for _, parent := range level {
			for _, child := range children[parent] {
				if !seen[child] {
					seen[child] = true
					fmt.Fprintf(&b, "    %s[\"%s\"]\n", sanitizeID(child), escapeMermaid(label(child)))
					next = append(next, child)
				}
				fmt.Fprintf(&b, "    %s --> %s\n", sanitizeID(parent), sanitizeID(child))
			}
		}
		level = next
	}
	return b.String()
}

// sanitizeID converts a node id into a safe mermaid node ID.
func sanitizeID(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		".", "_",
		"-", "_",
		" ", "_",
		">", "_",
		":", "_",
	)
	return "n_" + replacer.Replace(s)
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
