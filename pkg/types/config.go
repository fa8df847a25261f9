package types

// NotePosition selects how a citation with a single bracketed note is read.
type NotePosition string

const (
	NotePre  NotePosition = "prenote"
	NotePost NotePosition = "postnote"
)

// RuleConfig is a user-supplied line rewriter rule. Pattern is an RE2
// expression; Replacement may reference groups as ${1}.
type RuleConfig struct {
	Pattern     string `json:"pattern" yaml:"pattern" mapstructure:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement" mapstructure:"replacement"`
}

// ConversionConfig holds settings for a LaTeX to Org conversion run.
type ConversionConfig struct {
	// CitationLineLimit is the number of extra lines a citation may pull
	// while its braces are unbalanced (default 10).
	CitationLineLimit int `json:"citation_line_limit" yaml:"citation_line_limit" mapstructure:"citation_line_limit"`

	// SectionLineLimit is the number of extra lines a sectioning command may
	// pull while its title is unterminated (default 3).
	SectionLineLimit int `json:"section_line_limit" yaml:"section_line_limit" mapstructure:"section_line_limit"`

	// HeaderLineLimit bounds the extra lines pulled for a single preamble
	// field such as a multi-line \title (default 10).
	HeaderLineLimit int `json:"header_line_limit" yaml:"header_line_limit" mapstructure:"header_line_limit"`

	// EnvironmentLineLimit bounds the lines consumed by one environment
	// block (default 1000).
	EnvironmentLineLimit int `json:"environment_line_limit" yaml:"environment_line_limit" mapstructure:"environment_line_limit"`

	// CommentBlockLines and CommentBlockChars are the thresholds above which
	// a comment run is wrapped in an export block instead of being emitted
	// line by line.
	CommentBlockLines int `json:"comment_block_lines" yaml:"comment_block_lines" mapstructure:"comment_block_lines"`
	CommentBlockChars int `json:"comment_block_chars" yaml:"comment_block_chars" mapstructure:"comment_block_chars"`

	// BibliographyExtension is appended to each \bibliography entry.
	BibliographyExtension string `json:"bibliography_extension" yaml:"bibliography_extension" mapstructure:"bibliography_extension"`

	// PreambleSuffix replaces the ".org" extension of the output file to
	// name the secondary preamble file.
	PreambleSuffix string `json:"preamble_suffix" yaml:"preamble_suffix" mapstructure:"preamble_suffix"`

	// InlinePreamble writes unmapped preamble lines as #+latex_header:
	// lines into the main output instead of a secondary file.
	InlinePreamble bool `json:"inline_preamble" yaml:"inline_preamble" mapstructure:"inline_preamble"`

	// SingleNote decides whether \citep[x]{k} carries a prenote or a postnote.
	SingleNote NotePosition `json:"single_note" yaml:"single_note" mapstructure:"single_note"`

	// MathEnvironments are emitted verbatim, including their \begin and \end lines.
	MathEnvironments []string `json:"math_environments" yaml:"math_environments" mapstructure:"math_environments"`

	// VerbatimEnvironments are emitted verbatim inside a #+begin_src text block.
	VerbatimEnvironments []string `json:"verbatim_environments" yaml:"verbatim_environments" mapstructure:"verbatim_environments"`

	// ExcludedEnvironments are left to line-by-line conversion.
	ExcludedEnvironments []string `json:"excluded_environments" yaml:"excluded_environments" mapstructure:"excluded_environments"`

	// SectionDepths maps sectioning command names to Org heading depth.
	SectionDepths map[string]int `json:"section_depths" yaml:"section_depths" mapstructure:"section_depths"`

	// Rules are appended to the built-in line rewriter table.
	Rules []RuleConfig `json:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`

	// IndexDir holds the citation index database. Empty disables indexing.
	IndexDir string `json:"index_dir,omitempty" yaml:"index_dir,omitempty" mapstructure:"index_dir"`
}

// DefaultConversionConfig returns the built-in conversion settings.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		CitationLineLimit:     10,
		SectionLineLimit:      3,
		HeaderLineLimit:       10,
		EnvironmentLineLimit:  1000,
		CommentBlockLines:     5,
		CommentBlockChars:     400,
		BibliographyExtension: ".bib",
		PreambleSuffix:        "-preamble.org",
		SingleNote:            NotePre,
		MathEnvironments: []string{
			"equation", "equation*", "align", "align*", "alignat", "alignat*",
			"gather", "gather*", "multline", "multline*", "flalign", "flalign*",
			"eqnarray", "eqnarray*", "displaymath", "math",
		},
		VerbatimEnvironments: []string{"verbatim", "verbatim*", "Verbatim", "lstlisting", "minted"},
		ExcludedEnvironments: []string{
			"document", "itemize", "enumerate", "description", "center", "appendices",
			"tiny", "scriptsize", "footnotesize", "small", "normalsize",
			"large", "Large", "LARGE", "huge", "Huge",
		},
		SectionDepths: map[string]int{
			"chapter":       1,
			"section":       1,
			"subsection":    2,
			"abstract":      2,
			"subsubsection": 3,
			"paragraph":     4,
			"subparagraph":  5,
		},
	}
}
