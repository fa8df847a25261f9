// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import "regexp"

func rule(pattern, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// refRules builds the reference rewrites for a word such as "Figure" and
// its abbreviation "Fig". Non-breaking ties and thin spaces become a plain
// space; parenthesized numbers lose their parentheses.
func refRules(word, abbrev string) []Rule {
	return []Rule{
		rule(`( `+word+`s*)[~ ]\(([^)]*)\)`, `${1} ${2}`),
		rule(`( `+word+`s*)\\,\(([^)]*)\)`, `${1} ${2}`),
		rule(`( `+word+`s*)[~ ]`, `${1} `),
		rule(`( `+word+`s*),`, `${1} `),

		rule(`( `+abbrev+`s*)\.*[~ ]\(([^)]*)\)`, `${1}.${2}`),
		rule(`( `+abbrev+`s*)\.*\\,\(([^)]*)\)`, `${1}.${2}`),
		rule(`( `+abbrev+`s*)\.*[~ ]`, `${1}.`),
		rule(`( `+abbrev+`s*)\.*,`, `${1}.`),
	}
}

// dropEnvironmentLines removes whole lines that open or close one of the given
// environments.
func dropEnvironmentLines(names ...string) []Rule {
	var rules []Rule
	for _, n := range names {
		rules = append(rules,
			rule(`^.*\\begin\{`+n+`\}.*\n`, ``),
			rule(`^.*\\end\{`+n+`\}.*\n`, ``),
		)
	}
	return rules
}

func concat(groups ...[]Rule) []Rule {
	var out []Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var defaultRules = concat(
	// References to equations, figures and tables.
	refRules(`[Ee]quation`, `[Ee]q`),
	refRules(`[Ff]igure`, `[Ff]ig`),
	refRules(`[Tt]able`, `[Tt]ab`),

	// Trivial inline math becomes plain text.
	[]Rule{
		rule(`\$([0-9A-Za-z]+)?([\^|_])(\{\d+\})([0-9A-Za-z])?\$`, `${1}${2}${3}${4}`),
		rule(`\$(:?[<|>])*(:?[0-9]*)(\^\{[0-9]*\})\$`, `${1}${2}${3}`),
		rule(`\$(:?[<|>])*(:?[0-9]*)(:?\^)*(:?[0-9])*\$`, `${1}${2}${3}${4}`),
		rule(`\$([<|>])*\$`, `${1}`),

		rule(`~`, "\u00a0"),
		rule(`\$\\sim\$`, `~`),
		rule(`\\textasciitilde\{\}`, `~`),
		rule(`\\textperthousand\\`, `‰`),
		rule(`\\textperthousand`, `‰`),
	},

	// Layout commands with no Org equivalent.
	[]Rule{
		rule(`^.*\\setcounter[\[{].*\n`, ``),
		rule(`^.*\\setlength[\[{].*\n`, ``),
		rule(`^.*\\newlength[\[{].*\n`, ``),
		rule(`^.*\\addtolength[\[{].*\n`, ``),
		rule(`^.*\\raggedleft.*\n`, ``),
		rule(`^.*\\raggedright.*\n`, ``),
		rule(`^ *\\raggedcolumns *\n`, ``),
		rule(`^ *\\vspace\**\{[^}]*\} *\n`, "\n\n"),
		rule(` *\\vspace\**\{[^}]*\} *`, "\n\n"),
		rule(`^ *\\addvspace\**\{[^}]*\} *\n`, "\n\n"),
		rule(` *\\addvspace\**\{[^}]*\} *`, "\n\n"),
		rule(`^ *\\hspace\**\{[^}]*\} *\n`, ``),
		rule(` *\\hspace\**\{[^}]*\} *`, ``),
		rule(`\\vfill`, ``),
		rule(`^ *\\noindent *\n`, ``),
		rule(` *\\noindent *`, ``),
		rule(` *\\parbox\{[^}]*\} *`, ``),

		// A trailing \label moves to its own line.
		rule(`\} *\\label *\{([^}]*)\}`, "}\n\\label{${1}}"),
	},

	// Document structure.
	[]Rule{
		rule(`^.*\\begin\{document\}.*\n`, ``),
		rule(`^.*\\end\{document\}.*\n`, ``),
		rule(`^.*\\end\{document\}`, ``),
		rule(`^ *\\maketitle *\r?\n`, ``),
		rule(`\\maketitle`, ``),
		rule(`^ *\\tableofcontents *\r?\n`, ``),
		rule(`(^.*\\bibliographystyle\{)(.*)\}`, `bibliographystyle:${2}`),
	},
	dropEnvironmentLines(`center`, `tiny`, `footnotesize`, `scriptsize`, `normalsize`,
		`[Ll]arge`, `LARGE`, `[Hh]uge`),
	[]Rule{
		rule(`\\centering`, ``),
		rule(`\\caption\{([^{}]*)\}`, `Caption: ${1}`),
		rule(`\\caption\{`, `Caption: `),
	},

	// Lists.
	[]Rule{
		rule(`^.*\\begin\{itemize.*\n`, ``),
		rule(`^.*\\end\{itemize.*\n`, ``),
		rule(`^.*\\begin\{enumerate.*\n`, ``),
		rule(`^.*\\end\{enumerate.*\n`, ``),
		rule(`^.*\\begin\{description.*\n`, ``),
		rule(`^.*\\end\{description.*\n`, ``),
		rule(`\\item\[([^\]]*)\] *`, `+ ${1} :: `),
		rule(`\\item *`, `+ `),
	},

	// Verbatim blocks that reach the rewriter.
	[]Rule{
		rule(`^.*\\begin\{verbatim.*\n`, "#+begin_src text\n"),
		rule(`^.*\\end\{verbatim.*\n`, "#+end_src\n"),
	},

	// Appendices.
	[]Rule{
		rule(`^.*\\begin\{appendices.*\n`, ``),
		rule(`^.*\\end\{appendices.*\n`, ``),
		rule(`\\appendix`, ``),
	},

	// Font sizes and page breaks.
	[]Rule{
		rule(`\\tiny`, ``),
		rule(`\\footnotesize`, ``),
		rule(`\\small`, ``),
		rule(`\\normalsize`, ``),
		rule(`\\large`, ``),
		rule(`\\Large`, ``),
		rule(`\\LARGE`, ``),
		rule(`\\huge`, ``),
		rule(`\\Huge`, ``),

		rule(`\\newline`, ``),
		rule(`\\pagebreak`, ``),
		rule(`\\newpage`, ``),
		rule(`^.*\\newtheorem\{.*\n`, ``),
	},

	// A line holding only \textbf is used as a paragraph heading.
	[]Rule{
		rule(`^ *\\textbf[* ]*\{([^}]*)\} *(\r?\n)?$`, "\n**** ${1}${2}"),
	},

	// Labels, references and links.
	[]Rule{
		rule(`\\label[* ]*\{([^}]*)\}`, `label:${1}`),
		rule(`\\eqref[* ]*\{([^}]*)\}`, `eqref:${1}`),
		rule(`\\ref[* ]*\{([^}]*)\}`, `ref:${1}`),
		rule(`\\url[* ]*\{([^}]*)\}`, ` ${1} `),
		rule(`\\href[* ]*\{([^}]*)\}\{([^}]*)\}`, ` ${2} (${1}) `),
	},

	// Emphasis.
	[]Rule{
		rule(`\\textbf[* ]*\{([^}]*)\}`, `*${1}*`),
		rule(`\\textit[* ]*\{([^}]*)\}`, `/${1}/`),
		rule(`\\textsc[* ]*\{([^}]*)\}`, `/${1}/`),
		rule(`\\emph[* ]*\{([^}]*)\}`, `/${1}/`),
		rule(`\\uline[* ]*\{([^}]*)\}`, `_${1}_`),

		rule(`\{\\bf *([^}]*)\}`, `*${1}*`),
		rule(`\{\\it *([^}]*)\}`, `/${1}/`),
		rule(`\{\\em *([^}]*)\}`, `/${1}/`),
		rule(`\{\\sc *([^}]*)\}`, `/${1}/`),

		rule(`\\bf\{([^}]*)\}`, `*${1}*`),
		rule(`\\it\{([^}]*)\}`, `/${1}/`),
		rule(`\\em\{([^}]*)\}`, `/${1}/`),
		rule(`\\sc\{([^}]*)\}`, `/${1}/`),

		rule(`\\textrm[* ]*\{([^}]*)\}`, `${1}`),
	},

	// Inline math.
	[]Rule{
		rule(`\$([^$]*)\$`, `\(${1}\)`),
	},

	// Symbols.
	[]Rule{
		rule(` & `, ` | `),
		rule(`\\\\`, ` `),
		rule(`\\&`, `&`),
		rule(`\\ldots\\*`, `...`),
		rule(`\\LaTeX\\*`, `LaTeX`),
		rule(`\\BibTeX\\*`, `BibTeX`),
		rule(`\.\\ `, `. `),
	},
)
