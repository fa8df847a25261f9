// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/l2org/pkg/types"
)

var bibliographyRe = regexp.MustCompile(`\\(?:bibliography|addbibresource)\s*(?:\[[^\]]*\])?\s*\{`)

// bibliography converts \bibliography{a,b} into an org-ref
// bibliography:a.bib,b.bib link. The declaration must close on its line.
func (r *run) bibliography(p pending) (Match, error) {
	loc := bibliographyRe.FindStringIndex(code(p.text))
	if loc == nil {
		return Match{}, nil
	}
	brace := loc[1] - 1
	sp, err := Extract('{', '}', p.text[brace:])
	if err != nil {
		return Match{}, parseError(types.ConstructBibliography, p.line, p.text,
			fmt.Errorf("%w: declaration does not close on its line", ErrUnterminated))
	}

	ext := r.c.cfg.BibliographyExtension
	var files []string
	for _, f := range strings.Split(sp.Content, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if ext != "" && !strings.HasSuffix(f, ext) {
			f += ext
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return Match{}, parseError(types.ConstructBibliography, p.line, p.text,
			fmt.Errorf("%w: no bibliography files", ErrMalformed))
	}

	r.startLine(p, p.text[:loc[0]])
	r.emit("bibliography:" + strings.Join(files, ",") + "\n")

	rest := p.text[brace+sp.End+1:]
	if strings.TrimSpace(rest) == "" {
		return full(), nil
	}
	return partial(strings.TrimLeft(rest, " \t"), true), nil
}
