// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kevinchung58/LatteReview/internal/agent"
	"github.com/kevinchung58/LatteReview/internal/results"
	"github.com/kevinchung58/LatteReview/internal/review"
	"github.com/kevinchung58/LatteReview/internal/ris"
	"github.com/kevinchung58/LatteReview/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a review workflow over an RIS citation file",
	Long: `Run loads records from an RIS file, executes every workflow round over
them, and stores the run in the results database. Interrupting a run keeps
the outcomes already produced; the stored results mark unreached rounds.

Use --simulate to dry-run the workflow with a deterministic offline
reviewer instead of the Gemini API.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	workflowPath, _ := cmd.Flags().GetString("workflow")
	inputPath, _ := cmd.Flags().GetString("input")
	if workflowPath == "" || inputPath == "" {
		return fmt.Errorf("--workflow and --input are required")
	}

	workflow, err := review.LoadWorkflowFile(workflowPath)
	if err != nil {
		return err
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
	if len(records) == 0 {
		return fmt.Errorf("no records found in %s", inputPath)
	}

	cfg := reviewConfigFromFlags(cmd)
	invoker, err := buildInvoker(cmd, cfg)
	if err != nil {
		return err
	}

	// Ctrl-C stops issuing new work but keeps completed outcomes.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := review.NewEngine(workflow, invoker, cfg, os.Stdout)
	run, runErr := engine.Run(ctx, records)
	if run == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", runErr)
	}

	resultsDir, _ := cmd.Flags().GetString("results-dir")
	store, err := results.NewStore(types.ResultsConfig{ResultsDir: resultsDir})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRun(context.Background(), run, len(workflow.Rounds)); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	printRunSummary(run)
	fmt.Printf("\nrun %s saved to %s\n", run.RunID, resultsDir)
	return runErr
}

// buildInvoker picks the agent backend: simulated for dry runs, Gemini
// otherwise. The API key resolves flag > LATTEREVIEW_API_KEY > secrets.
func buildInvoker(cmd *cobra.Command, cfg types.ReviewConfig) (review.Invoker, error) {
	simulate, _ := cmd.Flags().GetBool("simulate")
	if simulate {
		return agent.Simulated{}, nil
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key: set --api-key, LATTEREVIEW_API_KEY, or .secrets/gemini-api-key (or use --simulate)")
	}

	return &agent.Gemini{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
	}, nil
}

func reviewConfigFromFlags(cmd *cobra.Command) types.ReviewConfig {
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	maxConcurrent, _ := cmd.Flags().GetInt("max-concurrent")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}

	return types.ReviewConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     loadedSecrets.Get("gemini-api-key", apiKey),
			MaxRetries: maxRetries,
		},
		MaxConcurrent:     maxConcurrent,
		InvocationTimeout: timeout,
	}
}

func printRunSummary(run *review.RunResult) {
	var included, excluded, unsure, na int
	for _, r := range run.Results {
		switch r.FinalDecision {
		case types.DecisionIncluded:
			included++
		case types.DecisionExcluded:
			excluded++
		case types.DecisionUnsure:
			unsure++
		default:
			na++
		}
	}
	fmt.Printf("\n%d records: %d included, %d excluded, %d unsure, %d not evaluated\n",
		len(run.Results), included, excluded, unsure, na)
}

func init() {
	runCmd.Flags().String("workflow", "", "workflow YAML file (required)")
	runCmd.Flags().String("input", "", "RIS citation file to screen (required)")
	runCmd.Flags().String("results-dir", "results", "directory for the results database")
	runCmd.Flags().String("model", agent.DefaultGeminiModel, "Gemini model identifier")
	runCmd.Flags().String("api-key", "", "Gemini API key (default: secrets or LATTEREVIEW_API_KEY)")
	runCmd.Flags().Int("max-concurrent", 4, "maximum parallel agent invocations per round")
	runCmd.Flags().Duration("timeout", 60*time.Second, "per-invocation timeout")
	runCmd.Flags().Int("max-retries", 3, "retry attempts for transient API failures")
	runCmd.Flags().Bool("simulate", false, "use the deterministic offline reviewer")

	rootCmd.AddCommand(runCmd)
}
