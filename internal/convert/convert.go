// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements LaTeX-to-Org conversion as a single streaming
// pass. A dispatcher offers each input line to a fixed, ordered set of
// recognizers (preamble, sectioning, environments, citations, bibliography,
// comments); the first that claims the line consumes as many further lines
// as its construct needs and may hand back trailing text for another round.
// Lines no recognizer claims go through the line rewriter.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/l2org/pkg/types"
)

const (
	texExt = ".tex"
	orgExt = ".org"
)

// PreambleSink receives preamble lines that map to no Org keyword. Ref is
// the name the main output uses to include it with #+setupfile:.
type PreambleSink struct {
	W   io.Writer
	Ref string
}

// OutputPath derives the Org output path for a LaTeX input: a .tex
// extension is replaced, any other name gets .org appended, and a doubled
// .org.org collapses to .org.
func OutputPath(input string) string {
	out := strings.TrimSuffix(input, texExt) + orgExt
	for strings.HasSuffix(out, orgExt+orgExt) {
		out = strings.TrimSuffix(out, orgExt)
	}
	return out
}

// PreamblePath derives the secondary preamble file from the output path by
// replacing its extension with suffix.
func PreamblePath(output, suffix string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + suffix
}

// ConvertFile converts the LaTeX file at input into output. An empty output
// uses OutputPath(input). Progress is printed to w. The output and preamble
// files are closed on every path; after a fatal error they keep whatever was
// written before it.
func ConvertFile(c *Converter, input, output string, w io.Writer) (report types.ConversionReport, err error) {
	if output == "" {
		output = OutputPath(input)
	}
	if samePath(input, output) {
		return report, fmt.Errorf("input and output file have the same name: %s", output)
	}

	fmt.Fprintf(w, "Input file:  %s\n", input)
	fmt.Fprintf(w, "Output file: %s\n", output)

	in, err := os.Open(input)
	if err != nil {
		return report, fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return report, fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()

	pf := &lazyFile{path: PreamblePath(output, c.cfg.PreambleSuffix)}
	defer func() {
		if cerr := pf.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing preamble: %w", cerr)
		}
	}()
	sink := &PreambleSink{W: pf, Ref: filepath.Base(pf.path)}

	report, err = c.Convert(in, out, sink)
	report.Input = input
	report.Output = output
	if pf.f != nil {
		report.Preamble = pf.path
	}
	if err != nil {
		return report, fmt.Errorf("converting %s: %w", input, err)
	}

	if report.Preamble != "" {
		fmt.Fprintf(w, "Preamble:    %s\n", report.Preamble)
	}
	fmt.Fprintf(w, "%d lines processed.\n", report.Lines)
	return report, nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
	Reports   []types.ConversionReport
}

// Total returns the number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertPaths converts each input to its derived output path, printing
// per-file status to w. A failed document does not stop the batch.
func ConvertPaths(c *Converter, inputs []string, w io.Writer) BatchResult {
	var result BatchResult
	for _, in := range inputs {
		report, err := ConvertFile(c, in, "", w)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", in, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s\n", in)
		result.Converted++
		result.Reports = append(result.Reports, report)
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// lazyFile creates its file on the first write, so documents without
// unmapped preamble lines leave no empty preamble file behind.
type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if l.f == nil {
		f, err := os.Create(l.path)
		if err != nil {
			return 0, err
		}
		l.f = f
	}
	return l.f.Write(p)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
