// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

func isComment(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "%")
}

// comment passes a run of consecutive comment lines through to LaTeX
// export. Long runs become one export block; short runs become #+latex:
// lines. The first line after the run is read ahead and dispatched again.
func (r *run) comment(p pending) (Match, error) {
	if !p.atLineStart || !isComment(p.text) {
		return Match{}, nil
	}

	lines := []string{strings.TrimLeft(trimEOL(p.text), " \t")}
	chars := len(lines[0])
	var rest string
	for {
		next, err := r.src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Match{}, fmt.Errorf("reading input: %w", err)
		}
		if !isComment(next) {
			rest = next
			break
		}
		l := strings.TrimLeft(trimEOL(next), " \t")
		lines = append(lines, l)
		chars += len(l)
	}

	if len(lines) > r.c.cfg.CommentBlockLines || chars > r.c.cfg.CommentBlockChars {
		r.emit("#+BEGIN_EXPORT latex\n")
		for _, l := range lines {
			r.emit(l + "\n")
		}
		r.emit("#+END_EXPORT\n")
	} else {
		for _, l := range lines {
			r.emit("#+latex: " + l + "\n")
		}
	}

	if rest == "" {
		return full(), nil
	}
	return partial(rest, true), nil
}
