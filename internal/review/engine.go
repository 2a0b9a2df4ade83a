// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

// RunState is the engine's position in the pipeline state machine.
type RunState string

const (
	StatePending     RunState = "pending"
	StateFiltering   RunState = "filtering"
	StateExecuting   RunState = "executing"
	StateAggregating RunState = "aggregating"
	StateDone        RunState = "done"
	StateFailed      RunState = "failed"
)

// Engine orchestrates one review run: filter, execute (with debate
// inline), repeat per round, then aggregate. The workflow configuration
// is read-only once Run validates it.
type Engine struct {
	workflow types.WorkflowConfig
	invoker  Invoker
	cfg      types.ReviewConfig
	progress io.Writer

	mu    sync.Mutex
	state RunState
}

// NewEngine builds an engine for one workflow. progress receives
// per-round status lines; pass nil to discard them.
func NewEngine(workflow types.WorkflowConfig, invoker Invoker, cfg types.ReviewConfig, progress io.Writer) *Engine {
	if progress == nil {
		progress = io.Discard
	}
	return &Engine{
		workflow: workflow,
		invoker:  invoker,
		cfg:      cfg,
		progress: progress,
		state:    StatePending,
	}
}

// State reports the engine's current run state. Safe to call from
// another goroutine while Run executes.
func (e *Engine) State() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s RunState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// RunResult is the output of one pipeline run: exactly one FinalResult
// per input record, plus the full outcome log that produced them.
type RunResult struct {
	// RunID uniquely identifies this run in the results store.
	RunID string

	// Results holds one row per input record, in input order.
	Results []types.FinalResult

	// Outcomes is the append-only outcome log in creation order.
	Outcomes []types.Outcome
}

// Run executes the whole pipeline over the record set. Configuration
// problems are rejected up front with a *ConfigError before any agent
// invocation. Rounds run strictly sequentially; a context cancellation
// between or during rounds stops further work but still aggregates and
// returns everything computed so far, alongside ctx.Err().
func (e *Engine) Run(ctx context.Context, records []types.Record) (*RunResult, error) {
	e.setState(StatePending)

	if err := ValidateWorkflow(e.workflow); err != nil {
		e.setState(StateFailed)
		return nil, err
	}
	if err := ValidateRecords(records); err != nil {
		e.setState(StateFailed)
		return nil, err
	}

	log := NewOutcomeLog()
	working := records

	for i, round := range e.workflow.Rounds {
		if ctx.Err() != nil {
			break
		}

		if i > 0 {
			e.setState(StateFiltering)
			before := len(working)
			working = selectRecords(working, log, types.RoundID(i-1), round.Filter)
			fmt.Fprintf(e.progress, "round %s (%s): filter %s kept %d of %d records\n",
				types.RoundID(i), round.Name, round.Filter.Type, len(working), before)
		}

		e.setState(StateExecuting)
		fmt.Fprintf(e.progress, "round %s (%s): evaluating %d records with %d agents\n",
			types.RoundID(i), round.Name, len(working), len(round.Agents))

		outcomes := runRound(ctx, e.invoker, working, round, i, e.cfg, e.progress)
		log.Append(outcomes...)
	}

	e.setState(StateAggregating)
	// Every original record gets a row, including those filtered out
	// early: their results reflect the rounds they did reach.
	results := make([]types.FinalResult, len(records))
	for i, r := range records {
		results[i] = Aggregate(r, log, e.workflow)
	}

	e.setState(StateDone)
	fmt.Fprintf(e.progress, "aggregated %d results from %d outcomes\n", len(results), log.Len())

	result := &RunResult{
		RunID:    uuid.NewString(),
		Results:  results,
		Outcomes: log.All(),
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled, returning partial outcomes: %w", err)
	}
	return result, nil
}
