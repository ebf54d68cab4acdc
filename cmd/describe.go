package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/search"
	"github.com/ziadkadry99/techtree/internal/ui"
)

var describeCmd = &cobra.Command{
	Use:   "describe [id]",
	Short: "Print the composed help text of an entity",
	Long: `Composes the popup help text of an entity: its description, cost and stat lines.

Entities are addressed by node id (unit_4, building_87, tech_93). Use --match to
describe every laid-out node whose id matches a glob, e.g. --match 'tech_*'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().String("kind", "", "entity kind for ids outside the layout (unit, unique_unit, building, tech)")
	describeCmd.Flags().Bool("advanced", false, "include the advanced stat block")
	describeCmd.Flags().Bool("html", false, "print the markup instead of plain text")
	describeCmd.Flags().String("match", "", "describe every node whose id matches this glob")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	match, _ := cmd.Flags().GetString("match")
	if (len(args) == 0) == (match == "") {
		return fmt.Errorf("pass either an entity id or --match")
	}
	if match != "" && !doublestar.ValidatePattern(match) {
		return fmt.Errorf("invalid --match pattern %q", match)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, database, err := loadEngine(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	kindFlag, _ := cmd.Flags().GetString("kind")
	advanced, _ := cmd.Flags().GetBool("advanced")
	asHTML, _ := cmd.Flags().GetBool("html")

	var helps []engine.Help
	if match != "" {
		for _, n := range eng.Catalogue.Layout.Nodes {
			if ok, _ := doublestar.Match(match, n.ID); ok {
				helps = append(helps, eng.ComposeNode(n))
			}
		}
		if len(helps) == 0 {
			return fmt.Errorf("no node matches %q", match)
		}
	} else {
		id := args[0]
		kind, err := nodeKind(eng, id, kindFlag)
		if err != nil {
			return err
		}
		if _, err := catalogue.NumericID(id); err != nil {
			return err
		}
		helps = append(helps, eng.Compose(kind, id, ""))
	}

	for i, h := range helps {
		if i > 0 {
			fmt.Println()
		}
		ui.Brand.Printf("%s", h.Name)
		ui.Subtle.Printf(" (%s, %s)\n", h.ID, h.Kind)
		printHelp(h.Help, asHTML)
		if advanced && h.Advanced != "" {
			printHelp(h.Advanced, asHTML)
		}
	}
	return nil
}

func printHelp(markup string, asHTML bool) {
	if asHTML {
		fmt.Fprintln(os.Stdout, markup)
		return
	}
	fmt.Fprintln(os.Stdout, search.PlainText(markup))
}
