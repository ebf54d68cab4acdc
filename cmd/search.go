package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find entities by description",
	Long: `Searches the composed help text of every laid-out entity by meaning.
The index is built on first use and stored under search.index_dir.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().String("kind", "", "restrict results to one kind (unit, unique_unit, building, tech)")
	searchCmd.Flags().Bool("reindex", false, "rebuild the index before searching")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Search.Enabled {
		return fmt.Errorf("search is disabled; set search.enabled in %s", cfgFile)
	}

	var kind catalogue.Kind
	if k, _ := cmd.Flags().GetString("kind"); k != "" {
		if kind, err = catalogue.ParseKind(k); err != nil {
			return err
		}
	}

	eng, database, err := loadEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	reindex, _ := cmd.Flags().GetBool("reindex")
	idx, err := openSearchIndex(ctx, cfg, eng, reindex)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := idx.Search(ctx, strings.Join(args, " "), limit, kind)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []search.Result{}
		}
		return enc.Encode(results)
	}
	fmt.Print(search.FormatResults(results))
	return nil
}
