package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/ringmap/internal/storage"
)

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogInfoCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage SQLite dataset catalogs",
	Long: `Manage SQLite dataset catalogs.

A catalog stores every hierarchy node as one row. Any command that takes a
dataset accepts a catalog path (.db, .sqlite, .sqlite3).`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <dataset> <db>",
	Short: "Build a catalog from a JSON, YAML or JSONL dataset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := storage.Import(args[0], args[1])
		if err != nil {
			exitWithError(ExitDataError, "importing %s: %v", args[0], err)
		}
		if humanOutput {
			outputHuman("Imported %d records into %s\n", n, args[1])
			return nil
		}
		return outputJSON(CountResponse{Status: "imported", Records: n, Path: args[1]})
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <db> <out.jsonl>",
	Short: "Write a catalog out as JSONL records",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := storage.Export(args[0], args[1])
		if err != nil {
			exitWithError(ExitDataError, "exporting %s: %v", args[0], err)
		}
		if humanOutput {
			outputHuman("Exported %d records to %s\n", n, args[1])
			return nil
		}
		return outputJSON(CountResponse{Status: "exported", Records: n, Path: args[1]})
	},
}

var catalogInfoCmd = &cobra.Command{
	Use:   "info <db>",
	Short: "Count catalog rows per hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.OpenDB(args[0])
		if err != nil {
			exitWithError(ExitError, "opening catalog: %v", err)
		}
		defer db.Close()

		counts, err := db.Count()
		if err != nil {
			exitWithError(ExitError, "counting rows: %v", err)
		}
		if !humanOutput {
			return outputJSON(counts)
		}
		for h, n := range counts {
			outputHuman("%-7s %d\n", h, n)
		}
		return nil
	},
}
