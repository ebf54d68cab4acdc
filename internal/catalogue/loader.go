package catalogue

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultInclude matches every data file the loader understands.
var DefaultInclude = []string{
	"data.json",
	"layout.json",
	"civs.json",
	"civs/*.toml",
	"strings/*.json",
}

// LoadOptions controls which files are read from a data directory.
type LoadOptions struct {
	// Include holds doublestar patterns relative to the data directory.
	Include []string
	// Locale selects strings/<locale>.json. Other locale files are skipped.
	Locale string
	// Progress, if set, is called after each file is parsed.
	Progress func(done, total int, name string)
}

// fileKind classifies a data file by its relative path.
type fileKind int

const (
	fileUnknown fileKind = iota
	fileData
	fileLayout
	fileCivsJSON
	fileCivTOML
	fileStrings
)

func classify(rel, locale string) fileKind {
	base := path.Base(rel)
	dir := path.Base(path.Dir(rel))
	switch {
	case base == "data.json":
		return fileData
	case base == "layout.json":
		return fileLayout
	case base == "civs.json":
		return fileCivsJSON
	case dir == "civs" && strings.HasSuffix(base, ".toml"):
		return fileCivTOML
	case dir == "strings" && strings.HasSuffix(base, ".json"):
		if locale == "" || strings.TrimSuffix(base, ".json") == locale {
			return fileStrings
		}
	}
	return fileUnknown
}

// Load reads a data directory into a Catalogue. Files are parsed in
// parallel, each into its own partial catalogue, and merged in sorted path
// order once all of them are read: layout nodes and connections keep file
// order, later files override earlier ones with the same civilization id,
// and a TOML profile always wins over a civs.json entry.
func Load(ctx context.Context, dir string, opts LoadOptions) (*Catalogue, error) {
	fsys := os.DirFS(dir)
	files, err := matchFiles(fsys, opts.Include)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found in %s", dir)
	}

	type job struct {
		rel  string
		kind fileKind
	}
	var jobs []job
	for _, rel := range files {
		if kind := classify(rel, opts.Locale); kind != fileUnknown {
			jobs = append(jobs, job{rel: rel, kind: kind})
		}
	}

	var (
		mu    sync.Mutex
		done  int
		parts = make([]*Catalogue, len(jobs))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, j := range jobs {
		i, rel, kind := i, j.rel, j.kind
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, rel)
			if err != nil {
				return fmt.Errorf("reading %s: %w", rel, err)
			}
			part := New()
			if err := parseInto(part, kind, rel, data); err != nil {
				return fmt.Errorf("parsing %s: %w", rel, err)
			}
			parts[i] = part

			mu.Lock()
			defer mu.Unlock()
			done++
			if opts.Progress != nil {
				opts.Progress(done, len(jobs), rel)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat := New()
	fromTOML := make(map[string]bool)
	for i, part := range parts {
		cat.Layout.Nodes = append(cat.Layout.Nodes, part.Layout.Nodes...)
		cat.Layout.Connections = append(cat.Layout.Connections, part.Layout.Connections...)
		for _, entities := range part.Stats {
			for _, e := range entities {
				cat.Stats.Put(e)
			}
		}
		for id, s := range part.Strings {
			cat.Strings[id] = s
		}
		isTOML := jobs[i].kind == fileCivTOML
		for id, c := range part.Civs {
			if fromTOML[id] && !isTOML {
				continue
			}
			cat.Civs[id] = c
			fromTOML[id] = fromTOML[id] || isTOML
		}
	}
	return cat, nil
}

// matchFiles expands include patterns against fsys, deduplicated and sorted.
func matchFiles(fsys fs.FS, include []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("bad include pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// parseInto decodes one file into cat, which holds only that file's content.
func parseInto(cat *Catalogue, kind fileKind, rel string, data []byte) error {
	switch kind {
	case fileData:
		return parseData(cat, data)
	case fileLayout:
		var l Layout
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		cat.Layout.Nodes = append(cat.Layout.Nodes, l.Nodes...)
		cat.Layout.Connections = append(cat.Layout.Connections, l.Connections...)
		return nil
	case fileCivsJSON:
		var m map[string]*Civilization
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		for id, c := range m {
			if c == nil {
				continue
			}
			c.ID = id
			cat.Civs[id] = c
		}
		return nil
	case fileCivTOML:
		var c Civilization
		if err := toml.Unmarshal(data, &c); err != nil {
			return err
		}
		if c.ID == "" {
			c.ID = strings.TrimSuffix(path.Base(rel), ".toml")
		}
		cat.Civs[c.ID] = &c
		return nil
	case fileStrings:
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		for k, v := range m {
			id, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			cat.Strings[id] = v
		}
		return nil
	}
	return nil
}

func parseData(cat *Catalogue, data []byte) error {
	var raw map[Partition]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kinds := map[Partition]Kind{
		PartitionUnits:     KindUnit,
		PartitionBuildings: KindBuilding,
		PartitionTechs:     KindTechnology,
	}
	for part, body := range raw {
		kind, ok := kinds[part]
		if !ok {
			continue
		}
		var entities map[string]*Entity
		if err := json.Unmarshal(body, &entities); err != nil {
			return fmt.Errorf("%s: %w", part, err)
		}
		for key, e := range entities {
			id, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("%s: entity key %q is not numeric", part, key)
			}
			if e == nil {
				e = &Entity{}
			}
			e.Kind = kind
			e.ID = id
			cat.Stats.Put(e)
		}
	}
	return nil
}
