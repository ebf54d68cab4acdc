package catalogue

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// testdataDir returns the absolute path to the testdata/techtree directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file location")
	}
	dir := filepath.Join(filepath.Dir(file), "..", "..", "testdata", "techtree")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("testdata dir does not exist: %s", dir)
	}
	return dir
}

func TestLoadSampleData(t *testing.T) {
	cat, err := Load(context.Background(), testdataDir(t), LoadOptions{Locale: "en"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if n := len(cat.Layout.Nodes); n != 8 {
		t.Errorf("nodes = %d, want 8", n)
	}
	if n := len(cat.Layout.Connections); n != 3 {
		t.Errorf("connections = %d, want 3", n)
	}
	if c := cat.Layout.Connections[0]; c.Parent != "building_87" || c.Child != "unit_4" {
		t.Errorf("first connection = %+v", c)
	}

	archer, err := cat.EntityForNode(KindUnit, "unit_4")
	if err != nil {
		t.Fatalf("EntityForNode: %v", err)
	}
	if archer.Stats == nil || archer.Stats.Cost == nil || *archer.Stats.Cost.Gold != 45 {
		t.Errorf("archer stats = %+v", archer.Stats)
	}
	if archer.Stats.Cost.Food != nil {
		t.Error("absent resource should stay nil")
	}
	if len(archer.Stats.Attacks) != 2 {
		t.Errorf("attacks = %v", archer.Stats.Attacks)
	}

	wonder, err := cat.EntityForNode(KindBuilding, "building_276")
	if err != nil {
		t.Fatalf("EntityForNode wonder: %v", err)
	}
	if wonder.Stats != nil {
		t.Errorf("wonder should have no stat record, got %+v", wonder.Stats)
	}

	if got := cat.Strings[5083]; got != "Archer" {
		t.Errorf("string 5083 = %q, want English", got)
	}
}

func TestLoadTOMLOverridesJSON(t *testing.T) {
	cat, err := Load(context.Background(), testdataDir(t), LoadOptions{Locale: "en"})
	if err != nil {
		t.Fatal(err)
	}

	goths, ok := cat.Civ("Goths")
	if !ok {
		t.Fatal("Goths missing")
	}
	if len(goths.Units) != 1 || goths.Units[0] != 4 {
		t.Errorf("Goths units = %v, want TOML profile [4]", goths.Units)
	}
	if goths.Unique.CastleAgeUniqueUnit != 41 {
		t.Errorf("Goths unique = %+v", goths.Unique)
	}

	britons, ok := cat.Civ("Britons")
	if !ok {
		t.Fatal("Britons missing")
	}
	if britons.ID != "Britons" || britons.MonkPrefix != "meso_" {
		t.Errorf("Britons = %+v", britons)
	}
}

func TestLoadLocaleSelection(t *testing.T) {
	cat, err := Load(context.Background(), testdataDir(t), LoadOptions{Locale: "de"})
	if err != nil {
		t.Fatal(err)
	}
	if got := cat.Strings[5083]; got != "Bogenschütze" {
		t.Errorf("string 5083 = %q, want German", got)
	}
	if _, ok := cat.Strings[5084]; ok {
		t.Error("English-only string leaked into the German table")
	}
}

func TestLoadIncludeFilterAndProgress(t *testing.T) {
	var (
		mu    sync.Mutex
		names []string
		total int
	)
	cat, err := Load(context.Background(), testdataDir(t), LoadOptions{
		Include: []string{"layout.json", "civs/**"},
		Progress: func(done, n int, name string) {
			mu.Lock()
			defer mu.Unlock()
			names = append(names, name)
			total = n
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Stats) != 0 {
		t.Errorf("data.json was not included but stats were loaded")
	}
	if len(cat.Layout.Nodes) == 0 {
		t.Error("layout not loaded")
	}
	if total != 2 || len(names) != 2 {
		t.Errorf("progress total = %d, names = %v", total, names)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(context.Background(), t.TempDir(), LoadOptions{}); err == nil {
		t.Error("expected error for empty directory")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"units": {"x": {}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(context.Background(), dir, LoadOptions{})
	if err == nil || !strings.Contains(err.Error(), "not numeric") {
		t.Errorf("err = %v, want non-numeric key error", err)
	}

	if _, err := Load(context.Background(), dir, LoadOptions{Include: []string{"[a-"}}); err == nil {
		t.Error("expected error for bad pattern")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		rel    string
		locale string
		want   fileKind
	}{
		{"data.json", "", fileData},
		{"v2/layout.json", "", fileLayout},
		{"civs.json", "", fileCivsJSON},
		{"civs/britons.toml", "", fileCivTOML},
		{"strings/en.json", "en", fileStrings},
		{"strings/de.json", "en", fileUnknown},
		{"strings/de.json", "", fileStrings},
		{"README.md", "", fileUnknown},
	}
	for _, tt := range tests {
		if got := classify(tt.rel, tt.locale); got != tt.want {
			t.Errorf("classify(%q, %q) = %v, want %v", tt.rel, tt.locale, got, tt.want)
		}
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadMergesLayoutsInPathOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"layout.json": `{"nodes": [{"id": "building_87"}, {"id": "unit_4"}],
			"connections": [{"parent": "building_87", "child": "unit_4"}]}`,
		"mods/extra/layout.json": `{"nodes": [{"id": "building_12"}],
			"connections": [{"parent": "building_12", "child": "unit_4"}]}`,
	})
	opts := LoadOptions{Include: []string{"layout.json", "mods/*/layout.json"}}

	// Parsing is concurrent; the merged order must not depend on which
	// file finishes first.
	for i := 0; i < 20; i++ {
		cat, err := Load(context.Background(), dir, opts)
		if err != nil {
			t.Fatal(err)
		}
		conns := cat.Layout.Connections
		if len(conns) != 2 {
			t.Fatalf("connections = %v, want 2", conns)
		}
		if conns[0].Parent != "building_87" || conns[1].Parent != "building_12" {
			t.Fatalf("run %d: connections = %v, want layout.json first", i, conns)
		}
		if ids := []string{cat.Layout.Nodes[0].ID, cat.Layout.Nodes[2].ID}; ids[0] != "building_87" || ids[1] != "building_12" {
			t.Fatalf("run %d: nodes = %v", i, cat.Layout.Nodes)
		}
	}
}

func TestLoadLaterCivsFileWins(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"civs.json":            `{"Britons": {"units": [4]}, "Goths": {"units": [4]}}`,
		"mods/extra/civs.json": `{"Britons": {"units": [4, 5]}, "Goths": {"units": [7]}}`,
		"civs/goths.toml":      "id = \"Goths\"\nunits = [41]\n",
	})
	opts := LoadOptions{Include: []string{"civs.json", "civs/*.toml", "mods/*/civs.json"}}

	for i := 0; i < 20; i++ {
		cat, err := Load(context.Background(), dir, opts)
		if err != nil {
			t.Fatal(err)
		}
		britons, ok := cat.Civ("Britons")
		if !ok || len(britons.Units) != 2 {
			t.Fatalf("run %d: Britons = %+v, want the later civs.json entry", i, britons)
		}
		goths, ok := cat.Civ("Goths")
		if !ok || len(goths.Units) != 1 || goths.Units[0] != 41 {
			t.Fatalf("run %d: Goths = %+v, want the TOML profile", i, goths)
		}
	}
}

func TestLoadSkipsNullCivilization(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"civs.json": `{"Goths": null, "Britons": {"units": [4]}}`,
	})
	cat, err := Load(context.Background(), dir, LoadOptions{Include: []string{"civs.json"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := cat.Civ("Goths"); ok {
		t.Error("null civilization should be skipped")
	}
	if b, ok := cat.Civ("Britons"); !ok || b.ID != "Britons" {
		t.Errorf("Britons = %+v", b)
	}
}
