// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Construct names used in reports and errors.
const (
	ConstructHeader       = "header"
	ConstructSection      = "section"
	ConstructMath         = "math-environment"
	ConstructEnvironment  = "special-environment"
	ConstructCitation     = "citation"
	ConstructBibliography = "bibliography"
	ConstructComment      = "comment"
)

// ConversionReport summarizes a single LaTeX to Org conversion.
type ConversionReport struct {
	// Input is the LaTeX source path (empty for stream conversions).
	Input string `json:"input" yaml:"input"`

	// Output is the Org output path.
	Output string `json:"output" yaml:"output"`

	// Preamble is the secondary preamble file, if one was written.
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`

	// Lines is the number of source lines read.
	Lines int `json:"lines" yaml:"lines"`

	// Constructs counts recognizer matches by construct name.
	Constructs map[string]int `json:"constructs" yaml:"constructs"`

	// CitationKeys lists cited keys in first-seen order without duplicates.
	CitationKeys []string `json:"citation_keys" yaml:"citation_keys"`

	// Citations is the total number of key references, duplicates included.
	Citations int `json:"citations" yaml:"citations"`

	// ConvertedAt is when the conversion finished.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
