package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kinimod0/gOASper/gds"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "goasper",
	Short: "GDSII to OASIS layout converter",
	Long: `Convert IC layout files from the GDSII stream format to OASIS.

Examples:
  goasper convert chip.gds chip.oas     # Convert a layout
  goasper cells chip.gds                # List cell names
  goasper info chip.gds                 # Per-cell geometry statistics
  goasper browse chip.gds               # Interactive cell browser`,
	Version: "0.9.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger, err := zap.NewDevelopment()
			if err == nil {
				gds.SetLogger(logger)
			}
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
