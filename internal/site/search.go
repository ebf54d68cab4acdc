package site

import (
	"encoding/json"
	"os"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/search"
)

// SearchEntry is one entity in the client-side search index.
type SearchEntry struct {
	Path    string         `json:"path"`
	Title   string         `json:"title"`
	Kind    catalogue.Kind `json:"kind"`
	Summary string         `json:"summary"`
}

const maxSummary = 300

// buildSearchIndex builds the client-side search index from composed help.
func buildSearchIndex(pages []page) []SearchEntry {
	entries := make([]SearchEntry, 0, len(pages))
	for _, p := range pages {
		summary := search.PlainText(p.help.Help)
		if r := []rune(summary); len(r) > maxSummary {
			summary = string(r[:maxSummary]) + "..."
		}
		entries = append(entries, SearchEntry{
			Path:    p.relPath,
			Title:   p.help.Name,
			Kind:    p.node.Kind,
			Summary: summary,
		})
	}
	return entries
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
