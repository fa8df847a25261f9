// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/l2org/pkg/types"
)

// sectionParts is a decomposed sectioning command.
type sectionParts struct {
	short string
	title string
	// rest is the text after the closing brace of the title.
	rest string
}

// section converts \section{Title} and its relatives to an Org heading. The
// short form \section[Short]{Title} adds an ALT_TITLE property. Text after
// the title is dispatched again.
func (r *run) section(p pending) (Match, error) {
	loc := r.c.sectionRe.FindStringSubmatchIndex(code(p.text))
	if loc == nil {
		return Match{}, nil
	}
	name := p.text[loc[2]:loc[3]]
	starred := loc[5] > loc[4]

	depth, ok := r.c.cfg.SectionDepths[name]
	if !ok {
		return Match{}, parseError(types.ConstructSection, p.line, p.text,
			fmt.Errorf("%w \\%s: no heading depth configured in section_depths", ErrUnknownCommand, name))
	}

	pre := p.text[:loc[0]]
	buf := p.text[loc[0]:]
	head := loc[5] - loc[0]

	var parts sectionParts
	pulled := 0
	for {
		var err error
		parts, err = parseSection(buf, head)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrUnbalanced) {
			return Match{}, parseError(types.ConstructSection, p.line, buf, err)
		}
		buf, err = r.extend(buf, &pulled, r.c.cfg.SectionLineLimit, types.ConstructSection, p.line)
		if err != nil {
			return Match{}, err
		}
	}

	title, err := r.inline(parts.title, p.line)
	if err != nil {
		return Match{}, err
	}

	r.startLine(p, pre)
	r.emit(strings.Repeat("*", depth) + " " + collapse(title) + "\n")
	if parts.short != "" || starred {
		r.emit(":PROPERTIES:\n")
		if parts.short != "" {
			r.emit(":ALT_TITLE: " + collapse(r.c.rw.Rewrite(parts.short)) + "\n")
		}
		if starred {
			r.emit(":UNNUMBERED: t\n")
		}
		r.emit(":END:\n")
	}

	if strings.TrimSpace(parts.rest) == "" {
		return full(), nil
	}
	return partial(strings.TrimLeft(parts.rest, " \t"), true), nil
}

// parseSection splits buf, which starts with a sectioning command whose
// name and star end at head, into its optional short title, its title and
// the remaining text. ErrUnbalanced means buf ends before the title closes.
func parseSection(buf string, head int) (sectionParts, error) {
	var parts sectionParts
	pos := head
	if pos < len(buf) && buf[pos] == '[' {
		sp, err := Extract('[', ']', buf[pos:])
		if err != nil {
			return parts, err
		}
		parts.short = sp.Content
		pos += sp.End + 1
	}
	pos = skipSpace(buf, pos)
	if pos >= len(buf) {
		return parts, ErrUnbalanced
	}
	if buf[pos] != '{' {
		return parts, fmt.Errorf("%w: expected '{' after sectioning command", ErrMalformed)
	}
	sp, err := Extract('{', '}', buf[pos:])
	if err != nil {
		return parts, err
	}
	parts.title = sp.Content
	parts.rest = buf[pos+sp.End+1:]
	return parts, nil
}

// skipSpace returns the index of the first non-blank byte of s at or after
// pos, treating line endings as blank.
func skipSpace(s string, pos int) int {
	for pos < len(s) && strings.IndexByte(" \t\r\n", s[pos]) >= 0 {
		pos++
	}
	return pos
}
