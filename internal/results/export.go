// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kevinchung58/LatteReview/internal/ris"
	"github.com/kevinchung58/LatteReview/pkg/types"
)

// WriteCSV renders results as CSV with one row per record. A missing
// final score is written as "N/A", mirroring how the results render in
// reports.
func WriteCSV(w io.Writer, results []types.FinalResult) error {
	cw := csv.NewWriter(w)

	header := []string{"record_id", "final_decision", "final_score", "reasoning_summary", "extracted_concepts"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.RecordID,
			string(r.FinalDecision),
			formatScore(r.FinalScore),
			r.ReasoningSummary,
			strings.Join(r.ExtractedConcepts, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", r.RecordID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRIS re-exports the reviewed records as RIS with each record
// annotated by its final decision and score, so verdicts travel with
// the references into reference managers.
func WriteRIS(w io.Writer, records []types.Record, results []types.FinalResult) error {
	annotations := make(map[string]ris.Annotation, len(results))
	for _, r := range results {
		ann := ris.Annotation{Decision: string(r.FinalDecision)}
		if r.FinalScore != nil {
			ann.Score = formatScore(r.FinalScore)
		}
		annotations[r.RecordID] = ann
	}
	return ris.Write(w, records, annotations)
}

// formatScore renders a final score with one decimal, or "N/A" when no
// score was produced.
func formatScore(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}
