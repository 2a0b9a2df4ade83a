// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinchung58/LatteReview/internal/review"
	"github.com/kevinchung58/LatteReview/internal/ris"
	"github.com/kevinchung58/LatteReview/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a workflow file (and optionally an RIS file) without running it",
	Long: `Validate loads a workflow YAML file and reports configuration problems:
unknown agent or filter types, duplicate names, a filter on the first
round, or a score filter without a preceding scoring agent. With --input
it also checks the RIS records for missing IDs, titles, or abstracts.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	workflowPath, _ := cmd.Flags().GetString("workflow")
	if workflowPath == "" {
		return fmt.Errorf("--workflow is required")
	}

	workflow, err := review.LoadWorkflowFile(workflowPath)
	if err != nil {
		var cfgErr *review.ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("workflow invalid: %w", err)
		}
		return err
	}

	fmt.Printf("workflow ok: %d round(s)\n", len(workflow.Rounds))
	for i, round := range workflow.Rounds {
		fmt.Printf("  round %s (%s): %d agent(s)", types.RoundID(i), round.Name, len(round.Agents))
		if round.Filter != nil {
			fmt.Printf(", filter %s", round.Filter.Type)
		}
		fmt.Println()
	}

	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return nil
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
	if err := review.ValidateRecords(records); err != nil {
		return fmt.Errorf("records invalid: %w", err)
	}
	fmt.Printf("records ok: %d record(s)\n", len(records))
	return nil
}

func init() {
	validateCmd.Flags().String("workflow", "", "workflow YAML file (required)")
	validateCmd.Flags().String("input", "", "RIS citation file to check")

	rootCmd.AddCommand(validateCmd)
}
