package config

// Config is the top-level techtree configuration, corresponding to .techtree.yml.
type Config struct {
	DataDir    string         `yaml:"data_dir" koanf:"data_dir"`
	Include    []string       `yaml:"include" koanf:"include"`
	Database   string         `yaml:"database" koanf:"database"`
	Locale     string         `yaml:"locale" koanf:"locale"`
	DefaultCiv string         `yaml:"default_civ" koanf:"default_civ"`
	Server     ServerConfig   `yaml:"server" koanf:"server"`
	Viewport   ViewportConfig `yaml:"viewport" koanf:"viewport"`
	Search     SearchConfig   `yaml:"search" koanf:"search"`
	Site       SiteConfig     `yaml:"site" koanf:"site"`
}

// ServerConfig holds settings for `techtree serve`.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ViewportConfig is the default diagram container used when a placement
// request does not carry its own.
type ViewportConfig struct {
	Width  float64 `yaml:"width" koanf:"width"`
	Height float64 `yaml:"height" koanf:"height"`
}

// SearchConfig controls the semantic search index.
type SearchConfig struct {
	Enabled        bool   `yaml:"enabled" koanf:"enabled"`
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`
	IndexDir       string `yaml:"index_dir" koanf:"index_dir"`
}

// SiteConfig controls the static export.
type SiteConfig struct {
	OutputDir string `yaml:"output_dir" koanf:"output_dir"`
	Title     string `yaml:"title" koanf:"title"`
}
