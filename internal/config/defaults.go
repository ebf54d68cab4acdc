package config

import "github.com/ziadkadry99/techtree/internal/catalogue"

// DefaultInclude are the data files read by `techtree import`, relative to
// the data directory.
var DefaultInclude = catalogue.DefaultInclude

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:    "data",
		Include:    append([]string(nil), DefaultInclude...),
		Database:   ".techtree/techtree.db",
		Locale:     "en",
		DefaultCiv: "Britons",
		Server: ServerConfig{
			Port: 8080,
		},
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 800,
		},
		Search: SearchConfig{
			Enabled:        false,
			EmbeddingModel: "text-embedding-3-small",
			IndexDir:       ".techtree/search",
		},
		Site: SiteConfig{
			OutputDir: "site",
			Title:     "Tech Tree",
		},
	}
}
