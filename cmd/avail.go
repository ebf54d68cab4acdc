package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/ui"
)

var availCmd = &cobra.Command{
	Use:   "avail <id>",
	Short: "Show which civilizations can build an entity",
	Long: `Lists every civilization with an availability mark for the given entity.
With --civ, prints only whether that civilization has it and exits non-zero if not.`,
	Args: cobra.ExactArgs(1),
	RunE: runAvail,
}

func init() {
	availCmd.Flags().String("kind", "", "entity kind for ids outside the layout")
	availCmd.Flags().String("civ", "", "check a single civilization")
	rootCmd.AddCommand(availCmd)
}

func runAvail(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, database, err := loadEngine(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	id := args[0]
	kindFlag, _ := cmd.Flags().GetString("kind")
	kind, err := nodeKind(eng, id, kindFlag)
	if err != nil {
		return err
	}

	if civID, _ := cmd.Flags().GetString("civ"); civID != "" {
		if !eng.Civs.Has(civID) {
			fmt.Printf("%s unknown civilization %q\n", ui.WarnIcon(), civID)
		}
		ok := eng.Civs.IsAvailable(civID, kind, id)
		fmt.Printf("%s %s %s\n", ui.StatusIcon(ok), civID, id)
		if !ok {
			return fmt.Errorf("%s is not available to %s", id, civID)
		}
		return nil
	}

	var rows [][]string
	for _, b := range eng.Civs.Badges(kind, id) {
		rows = append(rows, []string{b.Civ, ui.StatusIcon(b.Available), fmt.Sprintf("%.1f", b.Opacity)})
	}
	if len(rows) == 0 {
		fmt.Println("No civilizations loaded.")
		return nil
	}
	ui.Table(cmd.OutOrStdout(), []string{"CIV", "AVAILABLE", "OPACITY"}, rows)
	return nil
}
