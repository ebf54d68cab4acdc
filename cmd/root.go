package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "techtree",
	Short: "Interaction and content engine for game tech-tree diagrams",
	Long: `techtree loads a tech-tree diagram (layout, entity stats, localized
strings and civilization profiles) and serves the interactions around it:
prerequisite path highlighting, popup placement, composed help text and
per-civilization availability. It runs as an HTTP/websocket backend, an MCP
server, a static site exporter, or a plain CLI.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

