package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/audit"
	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/config"
	"github.com/ziadkadry99/techtree/internal/db"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/progress"
	"github.com/ziadkadry99/techtree/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the diagram data files into the local database",
	Long: `Reads layout, stats, strings and civilization profiles from the data
directory (filtered by the include patterns in .techtree.yml) and stores a
snapshot in the local SQLite database used by the other commands.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("data", "", "override the data directory")
	importCmd.Flags().String("locale", "", "override the string table locale")
	importCmd.Flags().Bool("history", false, "list previous imports instead of importing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if history, _ := cmd.Flags().GetBool("history"); history {
		return printImportHistory(cmd, cfg)
	}
	if dir, _ := cmd.Flags().GetString("data"); dir != "" {
		cfg.DataDir = dir
	}
	if locale, _ := cmd.Flags().GetString("locale"); locale != "" {
		cfg.Locale = locale
	}

	reporter := progress.NewReporter("Importing")
	cat, err := catalogue.Load(ctx, cfg.DataDir, catalogue.LoadOptions{
		Include:  cfg.Include,
		Locale:   cfg.Locale,
		Progress: progress.Func(reporter),
	})
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.DataDir, err)
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := catalogue.NewStore(database).Save(ctx, cat, cfg.Locale); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	eng := engine.New(cat, diagnostics())
	out := cmd.OutOrStdout()
	ui.Banner(out, "import")
	ui.Table(out, []string{"Item", "Count"}, [][]string{
		{"Nodes", strconv.Itoa(len(cat.Layout.Nodes))},
		{"Connections", strconv.Itoa(len(cat.Layout.Connections))},
		{"Units", strconv.Itoa(len(cat.Stats[catalogue.PartitionUnits]))},
		{"Buildings", strconv.Itoa(len(cat.Stats[catalogue.PartitionBuildings]))},
		{"Technologies", strconv.Itoa(len(cat.Stats[catalogue.PartitionTechs]))},
		{"Strings (" + cfg.Locale + ")", strconv.Itoa(len(cat.Strings))},
		{"Civilizations", strconv.Itoa(len(cat.Civs))},
	})

	var dups []string
	for _, d := range eng.Graph.Duplicates() {
		fmt.Fprintf(out, "%s %s has more than one parent; keeping %s, dropped %s\n",
			ui.WarnIcon(), d.Child, d.Replaced.ID(), d.Dropped.ID())
		dups = append(dups, d.Child+": "+d.Dropped.ID())
	}
	if !eng.Civs.Has(cfg.DefaultCiv) && len(cat.Civs) > 0 {
		fmt.Fprintf(out, "%s default civilization %q is not in the data\n", ui.WarnIcon(), cfg.DefaultCiv)
	}

	entry, err := audit.NewStore(database).Log(ctx, audit.Entry{
		DataDir:     cfg.DataDir,
		Locale:      cfg.Locale,
		Nodes:       len(cat.Layout.Nodes),
		Connections: len(cat.Layout.Connections),
		Entities:    len(cat.Stats[catalogue.PartitionUnits]) + len(cat.Stats[catalogue.PartitionBuildings]) + len(cat.Stats[catalogue.PartitionTechs]),
		Strings:     len(cat.Strings),
		Civs:        len(cat.Civs),
		Duplicates:  dups,
	})
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}

	fmt.Fprintf(out, "\nSnapshot saved to %s (import %s)\n", cfg.Database, entry.ID)
	return nil
}

func printImportHistory(cmd *cobra.Command, cfg *config.Config) error {
	database, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	entries, err := audit.NewStore(database).List(context.Background(), audit.Filter{})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No imports recorded. Run `techtree import` first.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Locale,
			strconv.Itoa(e.Nodes),
			strconv.Itoa(e.Entities),
			strconv.Itoa(e.Civs),
			strconv.Itoa(len(e.Duplicates)),
			e.DataDir,
		})
	}
	ui.Table(cmd.OutOrStdout(), []string{"When", "Locale", "Nodes", "Entities", "Civs", "Duplicates", "Data"}, rows)
	return nil
}
