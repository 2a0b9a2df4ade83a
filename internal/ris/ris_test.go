// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ris

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

const sampleRIS = `TY  - JOUR
TI  - Deep Learning for Systematic Reviews
ID  - rec-001
AU  - Chen, Wei
AU  - Martin, Sofia
AB  - We study automated screening with neural models.
PY  - 2021/03/15
JO  - Journal of Biomedical Informatics
KW  - deep learning
KW  - screening
ER  -

TY  - JOUR
T1  - Crowdsourcing Abstract Screening
AN  - rec-002
N2  - Crowdsourced annotation pipelines for citation triage.
Y1  - 2019//
T2  - Research Synthesis Methods
ER  -
`

func TestParseMapsTagsOntoRecords(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleRIS))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "rec-001", first.ID)
	assert.Equal(t, "Deep Learning for Systematic Reviews", first.Title)
	assert.Equal(t, "We study automated screening with neural models.", first.Abstract)
	assert.Equal(t, []string{"Chen, Wei", "Martin, Sofia"}, first.Authors)
	assert.Equal(t, "2021", first.Year)
	assert.Equal(t, "Journal of Biomedical Informatics", first.Journal)
	assert.Equal(t, []string{"deep learning", "screening"}, first.Keywords)

	// Alias tags (T1, AN, N2, Y1, T2) map onto the same fields.
	second := records[1]
	assert.Equal(t, "rec-002", second.ID)
	assert.Equal(t, "Crowdsourcing Abstract Screening", second.Title)
	assert.Equal(t, "Crowdsourced annotation pipelines for citation triage.", second.Abstract)
	assert.Equal(t, "2019", second.Year)
	assert.Equal(t, "Research Synthesis Methods", second.Journal)
}

func TestParseSynthesizesMissingID(t *testing.T) {
	input := "TY  - JOUR\nTI  - Untagged Reference\nER  - \n"
	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "record-1", records[0].ID)
}

func TestParseJoinsWrappedAbstractLines(t *testing.T) {
	input := "TY  - JOUR\nTI  - Wrapped\nAB  - First part of the abstract\ncontinues on the next line.\nER  - \n"
	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "First part of the abstract continues on the next line.", records[0].Abstract)
}

func TestParseTagOutsideReference(t *testing.T) {
	_, err := Parse(strings.NewReader("TI  - No TY came first\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing TY")
}

func TestParseMissingERFlushesAtEOF(t *testing.T) {
	input := "TY  - JOUR\nTI  - Truncated Export\nID  - rec-009\n"
	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-009", records[0].ID)
}

func TestWriteAnnotatesVerdicts(t *testing.T) {
	records := []types.Record{
		{
			ID:       "rec-001",
			Title:    "Deep Learning for Systematic Reviews",
			Abstract: "We study automated screening.",
			Authors:  []string{"Chen, Wei"},
			Year:     "2021",
			Journal:  "JBI",
			Keywords: []string{"screening"},
		},
		{ID: "rec-002", Title: "Unreviewed Reference", Abstract: "No verdict yet."},
	}
	annotations := map[string]Annotation{
		"rec-001": {Decision: "Included", Score: "4.5"},
	}

	var buf strings.Builder
	require.NoError(t, Write(&buf, records, annotations))
	out := buf.String()

	assert.Contains(t, out, "TY  - JOUR\n")
	assert.Contains(t, out, "TI  - Deep Learning for Systematic Reviews\n")
	assert.Contains(t, out, "AU  - Chen, Wei\n")
	assert.Contains(t, out, "N1  - ReviewDecision: Included\n")
	assert.Contains(t, out, "N1  - ReviewScore: 4.5\n")

	// Records without an annotation carry no review notes.
	_, secondRef, _ := strings.Cut(out, "rec-002")
	assert.NotContains(t, secondRef, "N1  - ")
}

func TestWriteParseRoundTrip(t *testing.T) {
	records := []types.Record{
		{
			ID:       "rt-1",
			Title:    "Round Trip",
			Abstract: "Survives export and import.",
			Authors:  []string{"Doe, Alex", "Roe, Sam"},
			Year:     "2022",
			Journal:  "Test Journal",
			Keywords: []string{"ris", "round-trip"},
		},
	}

	var buf strings.Builder
	require.NoError(t, Write(&buf, records, nil))

	parsed, err := Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}
