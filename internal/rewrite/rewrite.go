// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite converts single lines of LaTeX into Org mode text using an
// ordered table of regular expression substitutions. Rules are applied in
// sequence; later rules rely on the output of earlier ones, so the table must
// never be reordered.
package rewrite

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/l2org/pkg/types"
)

// Rule is one substitution in the rewriter table. Replacement uses the
// regexp.Expand syntax (${1} for the first group).
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Rewriter applies an ordered list of rules to isolated lines or fragments.
type Rewriter struct {
	rules []Rule
}

// New returns a Rewriter applying rules in the given order.
func New(rules []Rule) *Rewriter {
	r := &Rewriter{rules: make([]Rule, len(rules))}
	copy(r.rules, rules)
	return r
}

// Default returns a Rewriter with the built-in LaTeX to Org table.
func Default() *Rewriter {
	return New(defaultRules)
}

// Append adds rules after the existing table.
func (r *Rewriter) Append(rules ...Rule) {
	r.rules = append(r.rules, rules...)
}

// Len returns the number of rules in the table.
func (r *Rewriter) Len() int {
	return len(r.rules)
}

// Rewrite applies every rule in order and returns the converted text.
func (r *Rewriter) Rewrite(line string) string {
	for _, rule := range r.rules {
		line = rule.Pattern.ReplaceAllString(line, rule.Replacement)
	}
	return line
}

// CompileRules compiles user-supplied rules from configuration.
func CompileRules(cfgs []types.RuleConfig) ([]Rule, error) {
	rules := make([]Rule, 0, len(cfgs))
	for i, c := range cfgs {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %d (%q): %w", i+1, c.Pattern, err)
		}
		rules = append(rules, Rule{Pattern: re, Replacement: c.Replacement})
	}
	return rules, nil
}
