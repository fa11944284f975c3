package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stocksync",
	Short: "Bidirectional inventory sync between storefront and warehouse",
	Long: "stocksync reconciles stock quantities between the storefront catalog\n" +
		"and the external warehouse management system.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and banner",
	Run: func(cmd *cobra.Command, args []string) {
		figure.NewFigure("stocksync", "", true).Print()
		version := os.Getenv("APP_VERSION")
		if version == "" {
			version = "dev"
		}
		fmt.Println("version:", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI. Exit code is non-zero on any propagated error.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
