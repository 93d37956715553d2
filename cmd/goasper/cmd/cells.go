package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	goasper "github.com/kinimod0/gOASper"
)

var cellsCmd = &cobra.Command{
	Use:   "cells <input.gds>",
	Short: "List cell names in declaration order",
	Args:  cobra.ExactArgs(1),
	RunE:  runCells,
}

func init() {
	rootCmd.AddCommand(cellsCmd)
}

func runCells(cmd *cobra.Command, args []string) error {
	lib, err := goasper.LoadGDS(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	for _, name := range goasper.CellNames(lib) {
		fmt.Println(name)
	}
	return nil
}
