package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/progress"
	"github.com/ziadkadry99/techtree/internal/search"
	"github.com/ziadkadry99/techtree/internal/site"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Generate a static reference website",
	Long:  `Generates a self-contained static HTML site with one page per entity, its prerequisites, availability and stats, plus navigation and search.`,
	RunE:  runSite,
}

func init() {
	siteCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	siteCmd.Flags().Int("port", 8080, "port for the local dev server")
	siteCmd.Flags().Bool("open", false, "open browser automatically when serving")
	siteCmd.Flags().String("output", "", "override output directory (defaults to site.output_dir)")
	rootCmd.AddCommand(siteCmd)
}

func runSite(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, database, err := loadEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.Site.OutputDir
	}

	generator := site.NewGenerator(eng, outputDir, cfg.Site.Title)
	generator.Progress = progress.NewReporter("Rendering")
	pageCount, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}

	fmt.Printf("Static site generated: %s (%d pages)\n", outputDir, pageCount)

	serve, _ := cmd.Flags().GetBool("serve")
	if !serve {
		return nil
	}
	port, _ := cmd.Flags().GetInt("port")
	openBrowser, _ := cmd.Flags().GetBool("open")

	// Semantic search is optional; the client-side index always works.
	var searcher search.Searcher
	if cfg.Search.Enabled {
		idx, err := openSearchIndex(ctx, cfg, eng, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Semantic search unavailable: %v\n", err)
		} else {
			searcher = idx
			fmt.Printf("Semantic search enabled (%d entities indexed)\n", idx.Count())
		}
	}

	fmt.Printf("Serving at http://localhost:%d (press Ctrl+C to stop)\n", port)
	if err := site.Serve(outputDir, port, openBrowser, searcher); err != nil {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
