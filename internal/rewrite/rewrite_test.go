// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/l2org/pkg/types"
)

func TestDefaultRewrite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "Nothing to see here.\n", "Nothing to see here.\n"},
		{"bold and emphasis", "\\textbf{bold} and \\emph{it}\n", "*bold* and /it/\n"},
		{"figure tie", "See Figure~3.\n", "See Figure 3.\n"},
		{"inline math", "$x$ is tiny\n", "\\(x\\) is tiny\n"},
		{"trivial exponent", "$10^{3}$ m\n", "10^{3} m\n"},
		{"label", "\\label{sec:intro}\n", "label:sec:intro\n"},
		{"eqref before ref", "see \\eqref{eq:1} and \\ref{fig:2}\n", "see eqref:eq:1 and ref:fig:2\n"},
		{"item", "\\item first\n", "+ first\n"},
		{"description item", "\\item[Term] text\n", "+ Term :: text\n"},
		{"itemize line dropped", "\\begin{itemize}\n", ""},
		{"center line dropped", "  \\end{center}\n", ""},
		{"url", "\\url{https://x.org}\n", " https://x.org \n"},
		{"escaped ampersand", "a \\& b\n", "a & b\n"},
		{"tabular separator", "a & b \\\\\n", "a | b  \n"},
		{"vspace line", "\\vspace{1cm}\n", "\n\n"},
		{"per mille", "5~\\textperthousand\n", "5\u00a0‰\n"},
		{"full line bold", "\\textbf{Methods}\n", "\n**** Methods\n"},
		{"end document dropped", "\\end{document}\n", ""},
		{"bibliographystyle", "\\bibliographystyle{plain}\n", "bibliographystyle:plain\n"},
		{"caption", "\\caption{A plot}\n", "Caption: A plot\n"},
	}

	rw := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rw.Rewrite(tt.in))
		})
	}
}

func TestRewriteOrderIsSignificant(t *testing.T) {
	first := Rule{Pattern: regexp.MustCompile(`a`), Replacement: `b`}
	second := Rule{Pattern: regexp.MustCompile(`b`), Replacement: `c`}

	assert.Equal(t, "cc", New([]Rule{first, second}).Rewrite("ab"))
	assert.Equal(t, "bb", New([]Rule{second, first}).Rewrite("ab"))
}

func TestAppend(t *testing.T) {
	rw := Default()
	n := rw.Len()

	rules, err := CompileRules([]types.RuleConfig{
		{Pattern: `\\foo\{([^}]*)\}`, Replacement: `=${1}=`},
	})
	require.NoError(t, err)

	rw.Append(rules...)
	assert.Equal(t, n+1, rw.Len())
	assert.Equal(t, "a =code= b\n", rw.Rewrite("a \\foo{code} b\n"))

	// The default table is not modified by appending to a copy.
	assert.Equal(t, n, Default().Len())
}

func TestCompileRulesError(t *testing.T) {
	_, err := CompileRules([]types.RuleConfig{{Pattern: `(unclosed`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1")
}
