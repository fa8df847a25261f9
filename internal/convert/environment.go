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

var (
	beginEnvRe    = regexp.MustCompile(`^[ \t]*\\begin\{([^{}]+)\}`)
	listingLangRe = regexp.MustCompile(`language\s*=\s*\{?([A-Za-z0-9+#-]+)`)
)

// environmentName returns the environment opened at the start of p.
func environmentName(p pending) (string, bool) {
	if !p.atLineStart {
		return "", false
	}
	m := beginEnvRe.FindStringSubmatch(p.text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// literalEnvironment passes math environments through unchanged and turns
// verbatim environments into Org source blocks.
func (r *run) literalEnvironment(p pending) (Match, error) {
	name, ok := environmentName(p)
	if !ok || !(r.c.math[name] || r.c.verbatim[name]) {
		return Match{}, nil
	}

	verbatim := r.c.verbatim[name]
	lines, err := r.collectEnvironment(p, name, !verbatim, types.ConstructMath)
	if err != nil {
		return Match{}, err
	}

	if verbatim {
		r.emitSource(name, strings.Join(lines, ""))
		return full(), nil
	}
	r.emitLines(lines)
	return full(), nil
}

// exportEnvironment wraps every other environment, except the excluded
// ones, in a LaTeX export block.
func (r *run) exportEnvironment(p pending) (Match, error) {
	name, ok := environmentName(p)
	if !ok || r.c.math[name] || r.c.verbatim[name] || r.c.excluded[name] {
		return Match{}, nil
	}

	lines, err := r.collectEnvironment(p, name, true, types.ConstructEnvironment)
	if err != nil {
		return Match{}, err
	}

	r.emit("#+BEGIN_EXPORT latex\n")
	r.emitLines(lines)
	r.emit("#+END_EXPORT\n")
	return full(), nil
}

// collectEnvironment reads lines from p up to and including the line that
// closes environment name. Nested environments of the same name are
// counted when nested is set; otherwise the first end token closes, as in
// verbatim text.
func (r *run) collectEnvironment(p pending, name string, nested bool, construct string) ([]string, error) {
	begin := `\begin{` + name + `}`
	end := `\end{` + name + `}`
	limit := r.c.cfg.EnvironmentLineLimit

	lines := []string{p.text}
	line := p.text[strings.Index(p.text, begin)+len(begin):]
	depth := 1
	for {
		if nested {
			c := code(line)
			depth += strings.Count(c, begin) - strings.Count(c, end)
			if depth <= 0 {
				return lines, nil
			}
		} else if strings.Contains(line, end) {
			return lines, nil
		}

		if len(lines) >= limit {
			return nil, parseError(construct, p.line, trimEOL(p.text),
				fmt.Errorf("%w: no %s within %d lines", ErrUnterminated, end, limit))
		}
		next, err := r.src.Next()
		if errors.Is(err, io.EOF) {
			return nil, parseError(construct, p.line, trimEOL(p.text),
				fmt.Errorf("%w: end of input before %s", ErrUnterminated, end))
		}
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		lines = append(lines, next)
		line = next
	}
}

func (r *run) emitLines(lines []string) {
	for _, l := range lines {
		r.emit(l)
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "\n") {
		r.emit("\n")
	}
}

// emitSource writes the body of a verbatim environment as an Org source
// block. The body is not converted.
func (r *run) emitSource(name, block string) {
	begin := `\begin{` + name + `}`
	end := `\end{` + name + `}`

	body := block[strings.Index(block, begin)+len(begin):]
	lang := "text"

	opts := strings.TrimLeft(body, " \t")
	if strings.HasPrefix(opts, "[") {
		if sp, err := Extract('[', ']', opts); err == nil {
			if m := listingLangRe.FindStringSubmatch(sp.Content); m != nil {
				lang = strings.ToLower(m[1])
			}
			opts = opts[sp.End+1:]
			body = opts
		}
	}
	if name == "minted" && strings.HasPrefix(opts, "{") {
		if sp, err := Extract('{', '}', opts); err == nil {
			lang = strings.TrimSpace(sp.Content)
			body = opts[sp.End+1:]
		}
	}

	// The rest of the \begin line is not part of the body.
	if i := strings.IndexByte(body, '\n'); i >= 0 && strings.TrimSpace(body[:i]) == "" {
		body = body[i+1:]
	}

	content, after := body, ""
	if i := strings.Index(body, end); i >= 0 {
		content, after = body[:i], body[i+len(end):]
	}
	// Indentation before \end is not part of the body either.
	if i := strings.LastIndexByte(content, '\n'); strings.TrimSpace(content[i+1:]) == "" {
		content = content[:i+1]
	}

	r.emit("#+begin_src " + lang + "\n")
	r.emit(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		r.emit("\n")
	}
	r.emit("#+end_src\n")
	if strings.TrimSpace(after) != "" {
		r.emit(strings.TrimLeft(after, " \t"))
		if !strings.HasSuffix(after, "\n") {
			r.emit("\n")
		}
	}
}
