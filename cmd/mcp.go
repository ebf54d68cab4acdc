package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/techtree/internal/mcp"
	"github.com/ziadkadry99/techtree/internal/search"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing help composition, prerequisite paths, availability and placement as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var searcher search.Searcher
		if cfg.Search.Enabled {
			idx, err := openSearchIndex(ctx, cfg, eng, false)
			if err != nil {
				// Stdout carries the protocol; warnings go to stderr.
				fmt.Fprintf(os.Stderr, "Warning: search_entities disabled: %v\n", err)
			} else {
				searcher = idx
			}
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "techtree MCP server started on stdio (nodes=%d)\n", len(eng.Catalogue.Layout.Nodes))

		return mcpserver.NewServer(eng, searcher).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
