// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinchung58/LatteReview/internal/results"
	"github.com/kevinchung58/LatteReview/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs or search their reasoning",
	Long: `Runs lists the runs in the results database, newest first. With
--search it instead runs a full-text query over reasoning summaries and
detailed logs across all runs.`,
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	resultsDir, _ := cmd.Flags().GetString("results-dir")
	store, err := results.NewStore(types.ResultsConfig{ResultsDir: resultsDir})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if query, _ := cmd.Flags().GetString("search"); query != "" {
		limit, _ := cmd.Flags().GetInt("limit")
		hits, err := store.Search(ctx, query, limit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No matches found.")
			return nil
		}
		for _, h := range hits {
			fmt.Printf("%s  %-20s  %s\n", h.RunID, h.RecordID, h.Snippet)
		}
		return nil
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %6s  %7s\n", "Run", "Created", "Rounds", "Records")
	for _, m := range runs {
		fmt.Printf("%-36s  %-20s  %6d  %7d\n",
			m.ID, m.CreatedAt.Format("2006-01-02 15:04:05"), m.Rounds, m.Records)
	}
	return nil
}

func init() {
	runsCmd.Flags().String("results-dir", "results", "directory holding the results database")
	runsCmd.Flags().String("search", "", "full-text query over stored results")
	runsCmd.Flags().Int("limit", 20, "maximum search hits")

	rootCmd.AddCommand(runsCmd)
}
