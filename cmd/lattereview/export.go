// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinchung58/LatteReview/internal/results"
	"github.com/kevinchung58/LatteReview/internal/ris"
	"github.com/kevinchung58/LatteReview/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run as CSV or annotated RIS",
	Long: `Export writes one stored run's final results to stdout or a file.
CSV needs only the results database. RIS re-exports the original citation
file with ReviewDecision and ReviewScore annotations, so it also needs the
--input file the run screened.

Without --run the most recent run is exported.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	resultsDir, _ := cmd.Flags().GetString("results-dir")
	store, err := results.NewStore(types.ResultsConfig{ResultsDir: resultsDir})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	runID, _ := cmd.Flags().GetString("run")
	if runID == "" {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return fmt.Errorf("no stored runs in %s", resultsDir)
		}
		runID = runs[0].ID
		fmt.Fprintf(os.Stderr, "exporting most recent run %s\n", runID)
	}

	runResults, err := store.Results(ctx, runID)
	if err != nil {
		return err
	}
	if len(runResults) == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "csv", "":
		return results.WriteCSV(out, runResults)
	case "ris":
		inputPath, _ := cmd.Flags().GetString("input")
		if inputPath == "" {
			return fmt.Errorf("--input (the screened RIS file) is required for RIS export")
		}
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		records, err := ris.Parse(f)
		f.Close()
		if err != nil {
			return err
		}
		return results.WriteRIS(out, records, runResults)
	default:
		return fmt.Errorf("unsupported format %q: use csv or ris", format)
	}
}

func init() {
	exportCmd.Flags().String("results-dir", "results", "directory holding the results database")
	exportCmd.Flags().String("run", "", "run ID to export (default: most recent)")
	exportCmd.Flags().String("format", "csv", "output format: csv or ris")
	exportCmd.Flags().String("input", "", "original RIS file (required for --format ris)")
	exportCmd.Flags().String("output", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
