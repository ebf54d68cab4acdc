package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize techtree configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to locate the diagram data and generates a .techtree.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("\nWrote %s. Next: `techtree import` to load %s.\n", cfgFile, cfg.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
