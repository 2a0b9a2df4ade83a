// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ris reads and writes RIS citation files. Parsing maps the
// common tag aliases onto Record fields; writing can annotate each
// reference with its screening verdict so the output re-imports into
// reference managers.
package ris

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

// fieldFor maps RIS tags onto Record fields. Several tags alias the
// same field across reference-manager dialects.
var fieldFor = map[string]string{
	"TI": "title", "T1": "title",
	"AB": "abstract", "N2": "abstract",
	"AU": "authors", "A1": "authors",
	"PY": "year", "Y1": "year",
	"JO": "journal", "JF": "journal", "T2": "journal",
	"KW": "keywords",
	"ID": "id", "AN": "id", "UT": "id",
}

// Parse reads RIS references from r. References start at a TY tag and
// end at ER. Repeated AU/KW tags accumulate; for single-valued fields
// the first occurrence wins. Records missing an ID get a synthetic one
// from their position.
func Parse(r io.Reader) ([]types.Record, error) {
	var (
		records []types.Record
		cur     *types.Record
		lineNo  int
	)

	flush := func() {
		if cur == nil {
			return
		}
		if cur.ID == "" {
			cur.ID = fmt.Sprintf("record-%d", len(records)+1)
		}
		records = append(records, *cur)
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		tag, value, ok := splitTagLine(line)
		if !ok {
			// Continuation of the previous field value is the common
			// cause; RIS exporters wrap long abstracts without a tag.
			if cur != nil && cur.Abstract != "" {
				cur.Abstract += " " + strings.TrimSpace(line)
			}
			continue
		}

		switch tag {
		case "TY":
			flush()
			cur = &types.Record{}
			continue
		case "ER":
			flush()
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("line %d: tag %s outside a reference (missing TY)", lineNo, tag)
		}

		switch fieldFor[tag] {
		case "title":
			if cur.Title == "" {
				cur.Title = value
			}
		case "abstract":
			if cur.Abstract == "" {
				cur.Abstract = value
			}
		case "authors":
			cur.Authors = append(cur.Authors, value)
		case "year":
			if cur.Year == "" {
				cur.Year = yearPart(value)
			}
		case "journal":
			if cur.Journal == "" {
				cur.Journal = value
			}
		case "keywords":
			cur.Keywords = append(cur.Keywords, value)
		case "id":
			if cur.ID == "" {
				cur.ID = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading RIS input: %w", err)
	}

	flush()
	return records, nil
}

// splitTagLine parses a "XX  - value" RIS line. The tag is two
// uppercase alphanumeric characters followed by two spaces and a dash.
func splitTagLine(line string) (tag, value string, ok bool) {
	if len(line) < 6 || line[2:6] != "  - " {
		return "", "", false
	}
	tag = line[:2]
	for _, c := range tag {
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return "", "", false
		}
	}
	return tag, strings.TrimSpace(line[6:]), true
}

// yearPart strips the RIS date suffix: "2021/03/15" and "2021//" both
// yield "2021".
func yearPart(value string) string {
	if i := strings.IndexByte(value, '/'); i >= 0 {
		return value[:i]
	}
	return value
}

// Annotation carries the screening verdict written alongside a record
// on export. Score is the formatted final score, empty when none.
type Annotation struct {
	Decision string
	Score    string
}

// Write renders records to w in RIS format. When annotations has an
// entry for a record's ID, ReviewDecision and ReviewScore notes are
// appended so the verdict survives a round trip through a reference
// manager.
func Write(w io.Writer, records []types.Record, annotations map[string]Annotation) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeRecord(w, rec, annotations[rec.ID]); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func writeRecord(w io.Writer, rec types.Record, ann Annotation) error {
	var b strings.Builder
	b.WriteString("TY  - JOUR\n")

	writeTag := func(tag, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s  - %s\n", tag, value)
		}
	}

	writeTag("TI", rec.Title)
	writeTag("ID", rec.ID)
	for _, au := range rec.Authors {
		writeTag("AU", au)
	}
	writeTag("AB", rec.Abstract)
	writeTag("PY", rec.Year)
	writeTag("JO", rec.Journal)
	for _, kw := range rec.Keywords {
		writeTag("KW", kw)
	}

	if ann.Decision != "" {
		fmt.Fprintf(&b, "N1  - ReviewDecision: %s\n", ann.Decision)
	}
	if ann.Score != "" {
		fmt.Fprintf(&b, "N1  - ReviewScore: %s\n", ann.Score)
	}

	b.WriteString("ER  - \n")
	_, err := io.WriteString(w, b.String())
	return err
}
