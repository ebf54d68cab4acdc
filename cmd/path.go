package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/diagrams"
	"github.com/ziadkadry99/techtree/internal/ui"
)

var pathCmd = &cobra.Command{
	Use:   "path <node-id>",
	Short: "Print the prerequisite path from a node to its root",
	Long:  `Prints every node and edge that is highlighted when the given node is hovered, from the node itself up to the root of its branch.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		label := func(nid string) string {
			if n, ok := eng.Catalogue.Layout.Node(nid); ok {
				return eng.Catalogue.DisplayName(n)
			}
			return nid
		}
		if depth, _ := cmd.Flags().GetInt("subtree"); cmd.Flags().Changed("subtree") {
			fmt.Fprint(cmd.OutOrStdout(), diagrams.SubtreeDiagram(id, eng.Catalogue.Layout.Connections, depth, label))
			return nil
		}
		if asMermaid, _ := cmd.Flags().GetBool("mermaid"); asMermaid {
			fmt.Fprint(cmd.OutOrStdout(), diagrams.PathDiagram(eng.Graph.HighlightPath(id), label))
			return nil
		}

		var rows [][]string
		for i, step := range eng.Graph.HighlightPath(id) {
			edge := "-"
			if step.Edge != nil {
				edge = step.Edge.ID()
			}
			rows = append(rows, []string{fmt.Sprint(i), step.Node, label(step.Node), edge})
		}

		if _, err := eng.Node(id); err != nil {
			fmt.Printf("%s %s is not laid out; highlighting it affects no node\n\n", ui.WarnIcon(), id)
		}
		ui.Table(cmd.OutOrStdout(), []string{"#", "NODE", "NAME", "EDGE"}, rows)
		return nil
	},
}

func init() {
	pathCmd.Flags().Bool("mermaid", false, "print the path as a mermaid flowchart")
	pathCmd.Flags().Int("subtree", 0, "print everything below the node as a mermaid flowchart, N levels deep (0 = all)")
	rootCmd.AddCommand(pathCmd)
}
