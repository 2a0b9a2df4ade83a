// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Record holds one citation under review, as parsed from an RIS file.
// A Record is immutable once loaded; the pipeline annotates it with
// outcomes but never mutates it.
type Record struct {
	// ID is the unique citation identifier (RIS ID/AN/UT tag).
	ID string `json:"id" yaml:"id"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the article authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year as it appears in the source file.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// Journal is the journal or venue name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Keywords lists the source keywords (RIS KW tags).
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}
