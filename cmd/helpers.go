package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/config"
	"github.com/ziadkadry99/techtree/internal/db"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/progress"
	"github.com/ziadkadry99/techtree/internal/search"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `techtree init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// diagnostics returns the sink for data-quality warnings. They are only
// shown with --verbose.
func diagnostics() func(format string, args ...any) {
	if verbose {
		return log.Printf
	}
	return log.New(io.Discard, "", 0).Printf
}

// loadEngine builds the engine from the imported snapshot in the database,
// or straight from the data directory when nothing was imported yet. The
// returned database may be nil and must be closed by the caller otherwise.
func loadEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, *db.DB, error) {
	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	cat, err := catalogue.NewStore(database).Load(ctx, cfg.Locale)
	if errors.Is(err, catalogue.ErrNotFound) {
		if verbose {
			fmt.Fprintf(os.Stderr, "No imported snapshot in %s; reading %s directly\n", cfg.Database, cfg.DataDir)
		}
		cat, err = catalogue.Load(ctx, cfg.DataDir, catalogue.LoadOptions{
			Include: cfg.Include,
			Locale:  cfg.Locale,
		})
	}
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("loading catalogue: %w", err)
	}

	return engine.New(cat, diagnostics()), database, nil
}

// createEmbedder creates the embedder used by the search index.
func createEmbedder(cfg *config.Config) (search.Embedder, error) {
	apiKey := os.Getenv(config.EmbeddingAPIKeyEnvVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is required for search", config.EmbeddingAPIKeyEnvVar)
	}
	return search.NewOpenAIEmbedder(apiKey, cfg.Search.EmbeddingModel), nil
}

// openSearchIndex loads the persisted search index. With rebuild set, or
// when no index exists yet, it is rebuilt from eng and persisted.
func openSearchIndex(ctx context.Context, cfg *config.Config, eng *engine.Engine, rebuild bool) (*search.Index, error) {
	embedder, err := createEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	idx, err := search.NewIndex(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	if !rebuild {
		if err := idx.Load(cfg.Search.IndexDir); err == nil && idx.Count() > 0 {
			return idx, nil
		}
	}

	if err := idx.Build(ctx, eng, progress.NewReporter("Indexing")); err != nil {
		return nil, fmt.Errorf("building search index: %w", err)
	}
	if err := idx.Persist(cfg.Search.IndexDir); err != nil {
		return nil, fmt.Errorf("saving search index: %w", err)
	}
	return idx, nil
}

// nodeKind resolves the kind of id from the layout, or from an explicit
// --kind flag value for entities that are not laid out.
func nodeKind(eng *engine.Engine, id, flag string) (catalogue.Kind, error) {
	if flag != "" {
		return catalogue.ParseKind(flag)
	}
	n, err := eng.Node(id)
	if err != nil {
		return "", fmt.Errorf("%w (pass --kind for entities outside the layout)", err)
	}
	return n.Kind, nil
}
