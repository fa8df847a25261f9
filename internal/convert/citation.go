// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/l2org/pkg/types"
)

// citeRe matches a citation command followed by its first delimiter. It
// covers natbib (\citep, \citet, \citeauthor...) and the biblatex forms
// that org-ref understands.
var citeRe = regexp.MustCompile(
	`\\((?:[Cc]ite[a-zA-Z]*|parencite|textcite|autocite|footcite|smartcite|supercite|fullcite|nocite)\*?)[\[{]`)

// Citation is a decomposed citation command.
type Citation struct {
	Command  string
	Prenote  string
	Postnote string
	Keys     []string
}

// Org renders the citation as an org-ref link. Empty notes are omitted, so
// the four shapes are cmd:&k, cmd:pre;&k, cmd:&k;post and cmd:pre;&k;post.
func (c Citation) Org() string {
	var b strings.Builder
	b.WriteString("[[")
	b.WriteString(c.Command)
	b.WriteString(":")
	if c.Prenote != "" {
		b.WriteString(c.Prenote)
		b.WriteString(";")
	}
	for i, k := range c.Keys {
		if i > 0 {
			b.WriteString(";")
		}
		b.WriteString("&")
		b.WriteString(k)
	}
	if c.Postnote != "" {
		b.WriteString(";")
		b.WriteString(c.Postnote)
	}
	b.WriteString("]]")
	return b.String()
}

// ParseCitation decomposes the citation command at the start of s, whose
// command name is name. It returns the citation and the number of bytes of s
// it spans. A single bracketed note is a prenote when single is NotePre and
// a postnote otherwise. ErrUnbalanced means s ends before the key list closes.
func ParseCitation(s, name string, single types.NotePosition) (Citation, int, error) {
	cite := Citation{Command: name}
	pos := 1 + len(name)

	var notes []string
	for len(notes) < 2 {
		pos = skipSpace(s, pos)
		if pos >= len(s) || s[pos] != '[' {
			break
		}
		sp, err := Extract('[', ']', s[pos:])
		if err != nil {
			return cite, 0, err
		}
		notes = append(notes, strings.TrimSpace(sp.Content))
		pos += sp.End + 1
	}

	pos = skipSpace(s, pos)
	if pos >= len(s) {
		return cite, 0, ErrUnbalanced
	}
	if s[pos] != '{' {
		return cite, 0, fmt.Errorf("%w: expected '{' before citation keys", ErrMalformed)
	}
	sp, err := Extract('{', '}', s[pos:])
	if err != nil {
		return cite, 0, err
	}

	for _, k := range strings.Split(sp.Content, ",") {
		if k = strings.TrimSpace(k); k != "" {
			cite.Keys = append(cite.Keys, k)
		}
	}
	if len(cite.Keys) == 0 {
		return cite, 0, fmt.Errorf("%w: citation has no keys", ErrMalformed)
	}

	switch len(notes) {
	case 1:
		if single == types.NotePost {
			cite.Postnote = notes[0]
		} else {
			cite.Prenote = notes[0]
		}
	case 2:
		cite.Prenote, cite.Postnote = notes[0], notes[1]
	}
	return cite, pos + sp.End + 1, nil
}

// citation converts the first citation on the line. Text before it is held
// with the citation until the rest of the line has been dispatched, so the
// line is rewritten as a whole; text after it is dispatched again so every
// citation on a line is converted.
func (r *run) citation(p pending) (Match, error) {
	loc := citeRe.FindStringSubmatchIndex(code(p.text))
	if loc == nil {
		return Match{}, nil
	}
	name := p.text[loc[2]:loc[3]]
	start := loc[0]

	buf := p.text
	pulled := 0
	for {
		cite, n, err := ParseCitation(buf[start:], name, r.c.cfg.SingleNote)
		if err == nil {
			r.hold(buf[:start], r.note(cite).Org())
			r.addKeys(cite.Keys)

			rest := buf[start+n:]
			if rest == "" {
				r.emit(r.rewrite(""))
				return full(), nil
			}
			return partial(rest, false), nil
		}
		if !errors.Is(err, ErrUnbalanced) {
			return Match{}, parseError(types.ConstructCitation, p.line, buf[start:], err)
		}
		buf, err = r.extend(buf, &pulled, r.c.cfg.CitationLineLimit, types.ConstructCitation, p.line)
		if err != nil {
			return Match{}, err
		}
	}
}

// note rewrites the citation notes as inline text.
func (r *run) note(c Citation) Citation {
	if c.Prenote != "" {
		c.Prenote = collapse(r.c.rw.Rewrite(c.Prenote))
	}
	if c.Postnote != "" {
		c.Postnote = collapse(r.c.rw.Rewrite(c.Postnote))
	}
	return c
}

// inline converts citations and inline markup inside an already isolated
// fragment such as a heading title. The fragment must be complete.
func (r *run) inline(s string, line int) (string, error) {
	var (
		b     strings.Builder
		cites []string
	)
	for {
		loc := citeRe.FindStringSubmatchIndex(s)
		if loc == nil {
			b.WriteString(s)
			return expandCites(r.c.rw.Rewrite(b.String()), cites), nil
		}
		name := s[loc[2]:loc[3]]
		cite, n, err := ParseCitation(s[loc[0]:], name, r.c.cfg.SingleNote)
		if err != nil {
			if errors.Is(err, ErrUnbalanced) {
				err = fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			return "", parseError(types.ConstructCitation, line, s, err)
		}
		b.WriteString(s[:loc[0]])
		b.WriteString(citeToken(len(cites)))
		cites = append(cites, r.note(cite).Org())
		r.addKeys(cite.Keys)
		s = s[loc[0]+n:]
	}
}

// citeToken stands in for converted citation i while the surrounding text
// goes through the rewriter. It uses private-use runes no rule matches.
func citeToken(i int) string {
	return "\ue000" + strconv.Itoa(i) + "\ue001"
}

// expandCites replaces the citation tokens in s with their Org links.
func expandCites(s string, cites []string) string {
	for i, c := range cites {
		s = strings.Replace(s, citeToken(i), c, 1)
	}
	return s
}
