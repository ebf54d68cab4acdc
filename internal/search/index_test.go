package search

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/progress"
)

// mockEmbedder returns deterministic embeddings based on text content.
// Texts sharing words produce similar vectors.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *mockEmbedder) Name() string { return "mock" }

func (m *mockEmbedder) vector(text string) []float32 {
	vec := make([]float32, m.dims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := 0
		for _, ch := range word {
			h = h*31 + int(ch)
		}
		if h < 0 {
			h = -h
		}
		vec[h%m.dims] += 1
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func testEngine() *engine.Engine {
	cat := catalogue.New()
	cat.Layout.Nodes = []catalogue.Node{
		{ID: "unit_4", Kind: catalogue.KindUnit},
		{ID: "building_87", Kind: catalogue.KindBuilding},
		{ID: "tech_93", Kind: catalogue.KindTechnology},
	}
	cat.Stats.Put(&catalogue.Entity{Kind: catalogue.KindUnit, ID: 4, NameStringID: 1, HelpStringID: 2})
	cat.Stats.Put(&catalogue.Entity{Kind: catalogue.KindBuilding, ID: 87, NameStringID: 3, HelpStringID: 4})
	cat.Stats.Put(&catalogue.Entity{Kind: catalogue.KindTechnology, ID: 93, NameStringID: 5, HelpStringID: 6})
	cat.Strings[1] = "Archer"
	cat.Strings[2] = "ranged foot soldier shoots arrows"
	cat.Strings[3] = "Archery Range"
	cat.Strings[4] = "building that trains ranged foot soldiers"
	cat.Strings[5] = "Ballistics"
	cat.Strings[6] = "towers and ships hit moving targets"
	return engine.New(cat, func(string, ...any) {})
}

func TestBuildAndSearch(t *testing.T) {
	ctx := context.Background()
	idx, err := NewIndex(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Build(ctx, testEngine(), progress.Nop{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Count() != 3 {
		t.Fatalf("Count = %d, want 3", idx.Count())
	}

	results, err := idx.Search(ctx, "Ballistics towers and ships hit moving targets", 10, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (limit clamped to count)", len(results))
	}
	if results[0].ID != "tech_93" || results[0].Kind != catalogue.KindTechnology {
		t.Errorf("top result = %+v, want tech_93", results[0])
	}

	filtered, err := idx.Search(ctx, "ranged foot soldier", 5, catalogue.KindBuilding)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].ID != "building_87" {
		t.Errorf("filtered = %+v", filtered)
	}
}

func TestPersistAndLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	emb := &mockEmbedder{dims: 32}

	idx, _ := NewIndex(emb)
	if err := idx.Build(ctx, testEngine(), progress.Nop{}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, _ := NewIndex(emb)
	if err := loaded.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Count() != 3 {
		t.Errorf("loaded Count = %d", loaded.Count())
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, _ := NewIndex(&mockEmbedder{dims: 8})
	results, err := idx.Search(context.Background(), "anything", 5, "")
	if err != nil || results != nil {
		t.Errorf("Search on empty index = %v, %v", results, err)
	}
}

func TestPlainText(t *testing.T) {
	in := `<p class="helptext__heading">Create <b>Archer</b></p><h3>Stats</h3><p>HP: 30&nbsp;</p>`
	if got := PlainText(in); got != "Create Archer Stats HP: 30" {
		t.Errorf("PlainText = %q", got)
	}
}

func TestFormatResults(t *testing.T) {
	if FormatResults(nil) != "No results found." {
		t.Error("empty results text")
	}
	out := FormatResults([]Result{{ID: "unit_4", Kind: catalogue.KindUnit, Name: "Archer", Text: "Archer. shoots", Similarity: 0.5}})
	if !strings.Contains(out, "1. Archer (unit_4, UNIT)") {
		t.Errorf("FormatResults = %q", out)
	}
}
