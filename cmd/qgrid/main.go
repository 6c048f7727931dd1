package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/qgrid/internal/app"
	"github.com/kobzarvs/qgrid/internal/logger"
)

var (
	sheet string
	debug bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qgrid <file.csv|file.tsv|file.xlsx>",
		Short: "Edit tabular data in the terminal",
		Long: `qgrid opens a CSV, TSV or XLSX file as a spreadsheet-style grid.
Column types, validators and flags come from an optional <file>.qgrid.toml
next to the data file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	rootCmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to open (default: first sheet)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Write debug-level entries to the log file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "qgrid:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return err
	}
	if err := logger.Init(debug); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Close()
	logger.Info("starting", "path", args[0], "sheet", sheet)

	return app.New(app.Options{Path: args[0], Sheet: sheet}).Run()
}
