// Package search indexes composed entity help text in an embedded vector
// store so entities can be found by description ("cheap ranged unit").
package search

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/progress"
)

const (
	collectionName = "entities"
	indexFile      = "chromem.gob.gz"
)

// Result is one search hit.
type Result struct {
	ID         string         `json:"id"`
	Kind       catalogue.Kind `json:"kind"`
	Name       string         `json:"name"`
	Text       string         `json:"text"`
	Similarity float32        `json:"similarity"`
}

// Searcher finds entities by description. *Index implements it.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, kind catalogue.Kind) ([]Result, error)
}

// Index is a chromem-go collection of entity documents.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewIndex creates an empty in-memory index.
func NewIndex(e Embedder) (*Index, error) {
	db := chromem.NewDB()
	ef := embeddingFunc(e)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col, embedFunc: ef}, nil
}

// Build adds one document per laid-out node.
func (idx *Index) Build(ctx context.Context, eng *engine.Engine, r progress.Reporter) error {
	nodes := eng.Catalogue.Layout.Nodes
	r.Start(len(nodes))
	defer r.Finish()

	for i, n := range nodes {
		h := eng.ComposeNode(n)
		doc := chromem.Document{
			ID:      n.ID,
			Content: h.Name + ". " + PlainText(h.Help),
			Metadata: map[string]string{
				"kind": string(n.Kind),
				"name": h.Name,
			},
		}
		if err := idx.collection.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("indexing %s: %w", n.ID, err)
		}
		r.Update(i+1, n.ID)
	}
	return nil
}

// Search returns up to limit entities closest to query. kind, if not empty,
// restricts results to one entity kind.
func (idx *Index) Search(ctx context.Context, query string, limit int, kind catalogue.Kind) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	count := idx.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	limit = min(limit, count)

	var where map[string]string
	if kind != "" {
		where = map[string]string{"kind": string(kind)}
	}

	results, err := idx.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			ID:         r.ID,
			Kind:       catalogue.Kind(r.Metadata["kind"]),
			Name:       r.Metadata["name"],
			Text:       r.Content,
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

// Count returns the number of indexed documents.
func (idx *Index) Count() int {
	return idx.collection.Count()
}

// Persist writes the index to dir.
func (idx *Index) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index dir: %w", err)
	}
	return idx.db.ExportToFile(filepath.Join(dir, indexFile), true, "")
}

// Load replaces the index contents with the copy persisted in dir.
func (idx *Index) Load(dir string) error {
	if err := idx.db.ImportFromFile(filepath.Join(dir, indexFile), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := idx.db.GetCollection(collectionName, idx.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	idx.collection = col
	return nil
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`[\s\x{00a0}]+`)
)

// PlainText strips markup from composed help so only the words are embedded.
func PlainText(markup string) string {
	s := tagRe.ReplaceAllString(markup, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// FormatResults renders search results as human-readable text.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s (%s, %s) similarity %.4f\n", i+1, r.Name, r.ID, r.Kind, r.Similarity)
		sb.WriteString("   " + r.Text + "\n")
	}
	return sb.String()
}
