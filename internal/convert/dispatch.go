// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/pdiddy/l2org/internal/logging"
	"github.com/pdiddy/l2org/internal/rewrite"
	"github.com/pdiddy/l2org/pkg/types"
)

// MatchKind is the outcome of offering pending text to a recognizer.
type MatchKind int

const (
	// NoMatch leaves the text untouched for the next recognizer.
	NoMatch MatchKind = iota
	// FullMatch means the text was consumed and output written.
	FullMatch
	// PartialMatch means part of the text was consumed; Match.Rest is
	// dispatched again before the next source line is read.
	PartialMatch
)

// Match is the result of a recognizer.
type Match struct {
	Kind MatchKind

	// Rest is the unconsumed text of a PartialMatch.
	Rest string

	// RestAtLineStart reports whether Rest begins a new output line, which
	// decides whether line-anchored constructs may open on it.
	RestAtLineStart bool
}

func full() Match {
	return Match{Kind: FullMatch}
}

func partial(rest string, atLineStart bool) Match {
	return Match{Kind: PartialMatch, Rest: rest, RestAtLineStart: atLineStart}
}

// pending is the text currently being dispatched.
type pending struct {
	text        string
	atLineStart bool
	line        int
}

// recognizer detects, consumes and converts one construct.
type recognizer struct {
	construct string
	recognize func(*run, pending) (Match, error)
}

// recognizers in dispatch priority order. Header detection must run before
// sectioning, and the literal environment list before the export default.
var recognizers = []recognizer{
	{types.ConstructHeader, (*run).header},
	{types.ConstructSection, (*run).section},
	{types.ConstructMath, (*run).literalEnvironment},
	{types.ConstructEnvironment, (*run).exportEnvironment},
	{types.ConstructCitation, (*run).citation},
	{types.ConstructBibliography, (*run).bibliography},
	{types.ConstructComment, (*run).comment},
}

// sectionCommands is the fixed set of sectioning commands the section
// recognizer opens on. Commands absent from the configured depth table are
// rejected rather than skipped.
var sectionCommands = []string{
	"part", "chapter", "section", "subsection", "subsubsection",
	"paragraph", "subparagraph", "abstract",
}

// Converter turns a LaTeX document into Org mode in a single pass. A
// Converter holds no per-document state and may be reused sequentially.
type Converter struct {
	cfg       types.ConversionConfig
	rw        *rewrite.Rewriter
	log       *slog.Logger
	math      map[string]bool
	verbatim  map[string]bool
	excluded  map[string]bool
	sectionRe *regexp.Regexp
}

// New validates cfg and returns a Converter. A nil rw selects the built-in
// rewriter table extended with cfg.Rules; a non-nil rw is used as given. A
// nil log discards diagnostics.
func New(cfg types.ConversionConfig, rw *rewrite.Rewriter, log *slog.Logger) (*Converter, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if rw == nil {
		rules, err := rewrite.CompileRules(cfg.Rules)
		if err != nil {
			return nil, err
		}
		rw = rewrite.Default()
		rw.Append(rules...)
	}
	if log == nil {
		log = logging.Discard()
	}

	names := append([]string(nil), sectionCommands...)
	for name := range cfg.SectionDepths {
		if !slices.Contains(names, name) {
			names = append(names, regexp.QuoteMeta(name))
		}
	}

	return &Converter{
		cfg:       cfg,
		rw:        rw,
		log:       log,
		math:      set(cfg.MathEnvironments),
		verbatim:  set(cfg.VerbatimEnvironments),
		excluded:  set(cfg.ExcludedEnvironments),
		sectionRe: regexp.MustCompile(`\\(` + strings.Join(names, "|") + `)(\*?)[\[{]`),
	}, nil
}

func validate(cfg types.ConversionConfig) error {
	limits := []struct {
		name  string
		value int
	}{
		{"citation_line_limit", cfg.CitationLineLimit},
		{"section_line_limit", cfg.SectionLineLimit},
		{"header_line_limit", cfg.HeaderLineLimit},
		{"environment_line_limit", cfg.EnvironmentLineLimit},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", l.name, l.value)
		}
	}
	if cfg.EnvironmentLineLimit == 0 {
		return fmt.Errorf("environment_line_limit must be positive")
	}
	for name, depth := range cfg.SectionDepths {
		if depth < 1 {
			return fmt.Errorf("section_depths: %s has depth %d, want 1 or more", name, depth)
		}
	}
	switch cfg.SingleNote {
	case types.NotePre, types.NotePost:
	default:
		return fmt.Errorf("single_note must be %q or %q, got %q", types.NotePre, types.NotePost, cfg.SingleNote)
	}
	return nil
}

// Convert reads LaTeX from r and writes Org mode to out. Preamble lines
// that map to no Org keyword go to preamble, or inline into out when
// preamble is nil or the configuration asks for inlining.
//
// A fatal *ParseError stops the conversion; output written before the
// failing construct is flushed to out.
func (c *Converter) Convert(r io.Reader, out io.Writer, preamble *PreambleSink) (types.ConversionReport, error) {
	w := bufio.NewWriter(out)
	run := &run{
		c:        c,
		src:      NewLineSource(r),
		w:        w,
		preamble: preamble,
		seen:     make(map[string]bool),
		report:   types.ConversionReport{Constructs: make(map[string]int)},
	}
	if c.cfg.InlinePreamble {
		run.preamble = nil
	}

	err := run.scan()
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("writing output: %w", ferr)
	}

	run.report.Lines = run.src.Lines()
	run.report.ConvertedAt = time.Now().UTC()
	return run.report, err
}

// run is the state of one conversion.
type run struct {
	c        *Converter
	src      *LineSource
	w        *bufio.Writer
	preamble *PreambleSink
	seen     map[string]bool
	report   types.ConversionReport

	// held is text before converted citations on the current line, with
	// citeToken placeholders; cites are the placeholders' Org links.
	held  string
	cites []string
}

// scan alternates between reading a line and dispatching it. A partial
// match re-enters dispatch with the remainder without reading.
func (r *run) scan() error {
	for {
		line, err := r.src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		p := pending{text: line, atLineStart: true, line: r.src.Lines()}
		for {
			m, err := r.dispatch(p)
			if err != nil {
				if r.held != "" {
					r.emit(r.rewrite(""))
				}
				return err
			}
			if m.Kind != PartialMatch {
				break
			}
			p = pending{text: m.Rest, atLineStart: m.RestAtLineStart, line: r.src.Lines()}
		}
	}
}

// dispatch offers p to each recognizer in priority order. Unclaimed text
// goes through the line rewriter.
func (r *run) dispatch(p pending) (Match, error) {
	for _, rec := range recognizers {
		m, err := rec.recognize(r, p)
		if err != nil {
			return Match{}, err
		}
		if m.Kind == NoMatch {
			continue
		}
		r.report.Constructs[rec.construct]++
		r.c.log.Debug("construct converted", "construct", rec.construct, "line", p.line, "partial", m.Kind == PartialMatch)
		return m, nil
	}
	r.emit(r.rewrite(p.text))
	return full(), nil
}

// hold keeps pre and a placeholder for the converted citation org until
// the rest of the line is known.
func (r *run) hold(pre, org string) {
	r.held += pre + citeToken(len(r.cites))
	r.cites = append(r.cites, org)
}

// rewrite runs the held text followed by s through the line rewriter as one
// fragment, then puts the held citations back.
func (r *run) rewrite(s string) string {
	out := expandCites(r.c.rw.Rewrite(r.held+s), r.cites)
	r.held, r.cites = "", nil
	return out
}

func (r *run) emit(s string) {
	// bufio.Writer errors are sticky and reported by Flush.
	_, _ = r.w.WriteString(s)
}

// startLine ends the current output line when a construct that must start
// a line follows text already written on it.
func (r *run) startLine(p pending, pre string) {
	if strings.TrimSpace(pre) != "" || r.held != "" {
		r.emit(r.rewrite(pre))
		r.emit("\n")
		return
	}
	if !p.atLineStart {
		r.emit("\n")
	}
}

// extend appends the next source line to buf, joining with a single space
// in place of buf's line ending. pulled counts the lines taken so far; more
// than limit is an unterminated construct.
func (r *run) extend(buf string, pulled *int, limit int, construct string, line int) (string, error) {
	*pulled++
	if *pulled > limit {
		return "", parseError(construct, line, buf,
			fmt.Errorf("%w: no close within %d lines", ErrUnterminated, limit))
	}
	next, err := r.src.Next()
	if errors.Is(err, io.EOF) {
		return "", parseError(construct, line, buf, fmt.Errorf("%w: end of input", ErrUnterminated))
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return trimEOL(buf) + " " + next, nil
}

func (r *run) addKeys(keys []string) {
	for _, k := range keys {
		r.report.Citations++
		if r.seen[k] {
			continue
		}
		r.seen[k] = true
		r.report.CitationKeys = append(r.report.CitationKeys, k)
	}
}

// code returns s up to its first unescaped comment marker.
func code(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && !escaped(s, i) {
			return s[:i]
		}
	}
	return s
}

// trimEOL removes a trailing "\n" or "\r\n".
func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// collapse joins the fields of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
