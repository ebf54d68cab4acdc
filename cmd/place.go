package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/overlay"
)

var placeCmd = &cobra.Command{
	Use:   "place <node-id>",
	Short: "Compute where the detail popup of a node is drawn",
	Long:  `Runs the popup placement for a node with the given popup size and viewport, and prints the chosen position as JSON.`,
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

		n, err := eng.Node(args[0])
		if err != nil {
			return err
		}

		width, _ := cmd.Flags().GetFloat64("width")
		height, _ := cmd.Flags().GetFloat64("height")
		vp := overlay.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
		if cmd.Flags().Changed("viewport-height") {
			vp.Height, _ = cmd.Flags().GetFloat64("viewport-height")
		}
		if cmd.Flags().Changed("viewport-width") {
			vp.Width, _ = cmd.Flags().GetFloat64("viewport-width")
		}
		vp.ScrollX, _ = cmd.Flags().GetFloat64("scroll-x")

		p := overlay.Place(n.Rect, overlay.Size{Width: width, Height: height}, vp)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

func init() {
	placeCmd.Flags().Float64("width", 320, "popup width")
	placeCmd.Flags().Float64("height", 240, "popup height")
	placeCmd.Flags().Float64("viewport-width", 0, "container width (defaults to viewport.width from config)")
	placeCmd.Flags().Float64("viewport-height", 0, "container height (defaults to viewport.height from config)")
	placeCmd.Flags().Float64("scroll-x", 0, "horizontal scroll offset of the container")
	rootCmd.AddCommand(placeCmd)
}
