package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectDataDir looks for a directory holding a data.json in the usual
// places.
func detectDataDir() string {
	for _, dir := range []string{"data", "assets/data", "."} {
		if _, err := os.Stat(filepath.Join(dir, "data.json")); err == nil {
			return dir
		}
	}
	return "data"
}

// detectLocales lists the string tables under dir/strings.
func detectLocales(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "strings", "*.json"))
	var locales []string
	for _, m := range matches {
		locales = append(locales, strings.TrimSuffix(filepath.Base(m), ".json"))
	}
	sort.Strings(locales)
	return locales
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to techtree! Let's configure your diagram.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (data.json, layout.json, civs, strings)",
		Default: detectDataDir(),
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	includePrompt := promptui.Prompt{
		Label:   "Data file patterns (comma-separated globs)",
		Default: strings.Join(DefaultInclude, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.Include = include
	}

	// 2. Locale.
	if locales := detectLocales(dataDir); len(locales) > 0 {
		localePrompt := promptui.Select{
			Label: "Select string table locale",
			Items: locales,
		}
		_, locale, err := localePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("locale selection: %w", err)
		}
		cfg.Locale = locale
	} else {
		fmt.Printf("No string tables found under %s/strings; using %q.\n\n", dataDir, cfg.Locale)
	}

	// 3. Default civilization.
	civPrompt := promptui.Prompt{
		Label:   "Default civilization",
		Default: cfg.DefaultCiv,
	}
	civ, err := civPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default civ: %w", err)
	}
	cfg.DefaultCiv = civ

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("not a valid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Semantic search.
	searchPrompt := promptui.Select{
		Label: "Enable semantic search (needs " + EmbeddingAPIKeyEnvVar + ")",
		Items: []string{"no", "yes"},
	}
	searchIdx, _, err := searchPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("search selection: %w", err)
	}
	cfg.Search.Enabled = searchIdx == 1
	if cfg.Search.Enabled && os.Getenv(EmbeddingAPIKeyEnvVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running techtree search.\n", EmbeddingAPIKeyEnvVar)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
