// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/l2org/pkg/types"
)

const beginDocument = `\begin{document}`

var (
	documentClassRe = regexp.MustCompile(`^\s*\\documentclass\s*(?:\[([^\]]*)\])?\s*\{([^}]*)\}`)
	headerFieldRe   = regexp.MustCompile(`^\s*\\(title|author|date|email)\s*(?:\[[^\]]*\])?\s*\{`)
	authorAndRe     = regexp.MustCompile(`\s*\\and\s*`)
)

// orgLaTeXClasses are the document classes Org's LaTeX exporter defines
// out of the box; other classes would fail the export.
var orgLaTeXClasses = map[string]bool{
	"article": true,
	"report":  true,
	"book":    true,
	"beamer":  true,
}

// headerFields is the output order of the mapped preamble fields.
var headerFields = []string{"title", "author", "email", "date"}

// headerAccumulator collects the preamble until \begin{document}.
type headerAccumulator struct {
	fields       map[string]string
	class        string
	classOptions string
	other        []string
}

// header converts the preamble between \documentclass and \begin{document}.
func (r *run) header(p pending) (Match, error) {
	if !p.atLineStart || !strings.HasPrefix(strings.TrimLeft(code(p.text), " \t"), `\documentclass`) {
		return Match{}, nil
	}

	acc := &headerAccumulator{fields: make(map[string]string)}

	text := p.text
	pulled := 0
	for {
		m := documentClassRe.FindStringSubmatch(code(text))
		if m != nil {
			acc.classOptions = strings.TrimSpace(m[1])
			acc.class = strings.TrimSpace(m[2])
			text = text[len(m[0]):]
			break
		}
		if strings.Contains(code(text), "}") {
			return Match{}, parseError(types.ConstructHeader, p.line, text, ErrMalformed)
		}
		var err error
		text, err = r.extend(text, &pulled, r.c.cfg.HeaderLineLimit, types.ConstructHeader, p.line)
		if err != nil {
			return Match{}, err
		}
	}
	if err := r.classify(acc, text, p.line); err != nil {
		return Match{}, err
	}

	for consumed := 0; ; consumed++ {
		if consumed >= r.c.cfg.EnvironmentLineLimit {
			return Match{}, parseError(types.ConstructHeader, p.line, `\documentclass`,
				fmt.Errorf("%w: no %s within %d lines", ErrUnterminated, beginDocument, consumed))
		}
		next, err := r.src.Next()
		if errors.Is(err, io.EOF) {
			return Match{}, parseError(types.ConstructHeader, p.line, `\documentclass`,
				fmt.Errorf("%w: end of input before %s", ErrUnterminated, beginDocument))
		}
		if err != nil {
			return Match{}, fmt.Errorf("reading input: %w", err)
		}

		if i := strings.Index(code(next), beginDocument); i >= 0 {
			if err := r.classify(acc, next[:i], r.src.Lines()); err != nil {
				return Match{}, err
			}
			if err := r.flushHeader(acc); err != nil {
				return Match{}, err
			}
			rest := next[i+len(beginDocument):]
			if strings.TrimSpace(rest) == "" {
				return full(), nil
			}
			return partial(strings.TrimLeft(rest, " \t"), true), nil
		}

		if err := r.classify(acc, next, r.src.Lines()); err != nil {
			return Match{}, err
		}
	}
}

// classify sorts one preamble line into mapped fields or other content.
// A line may hold several fields, and a field may continue onto following
// lines while its braces are open.
func (r *run) classify(acc *headerAccumulator, text string, line int) error {
	for strings.TrimSpace(text) != "" {
		loc := headerFieldRe.FindStringSubmatchIndex(code(text))
		if loc == nil {
			acc.other = append(acc.other, strings.TrimRight(trimEOL(text), " \t"))
			return nil
		}
		name := text[loc[2]:loc[3]]
		brace := loc[1] - 1

		pulled := 0
		for {
			sp, err := Extract('{', '}', text[brace:])
			if err == nil {
				acc.fields[name] = r.fieldValue(name, sp.Content)
				text = text[brace+sp.End+1:]
				break
			}
			text, err = r.extend(text, &pulled, r.c.cfg.HeaderLineLimit, types.ConstructHeader, line)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *run) fieldValue(name, raw string) string {
	if name == "author" {
		raw = authorAndRe.ReplaceAllString(raw, ", ")
	}
	return collapse(r.c.rw.Rewrite(raw))
}

// flushHeader writes the Org keywords for the preamble in fixed order and
// routes unmapped lines to the preamble sink.
func (r *run) flushHeader(acc *headerAccumulator) error {
	r.emit("#+startup: latexpreview\n")
	for _, f := range headerFields {
		if v, ok := acc.fields[f]; ok {
			r.emit("#+" + f + ": " + v + "\n")
		}
	}
	if orgLaTeXClasses[acc.class] {
		r.emit("#+latex_class: " + acc.class + "\n")
	}
	if acc.classOptions != "" {
		r.emit("#+latex_class_options: [" + acc.classOptions + "]\n")
	}

	if len(acc.other) == 0 {
		return nil
	}
	if r.preamble == nil {
		for _, l := range acc.other {
			r.emit("#+latex_header: " + l + "\n")
		}
		return nil
	}
	for _, l := range acc.other {
		if _, err := io.WriteString(r.preamble.W, "#+latex_header: "+l+"\n"); err != nil {
			return fmt.Errorf("writing preamble: %w", err)
		}
	}
	r.emit("#+setupfile: " + r.preamble.Ref + "\n")
	return nil
}
