// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/l2org/pkg/types"
)

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := New(types.DefaultConversionConfig(), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// writeTeX creates a LaTeX file in a temp dir and returns its path.
func writeTeX(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"paper.tex", "paper.org"},
		{"dir/paper.tex", "dir/paper.org"},
		{"paper", "paper.org"},
		{"paper.org", "paper.org"},
		{"notes.txt", "notes.txt.org"},
		{"paper.tex.tex", "paper.tex.org"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPreamblePath(t *testing.T) {
	if got := PreamblePath("dir/paper.org", "-preamble.org"); got != "dir/paper-preamble.org" {
		t.Errorf("PreamblePath = %q", got)
	}
	if got := PreamblePath("paper", "-preamble.org"); got != "paper-preamble.org" {
		t.Errorf("PreamblePath without extension = %q", got)
	}
}

func TestConvertFile(t *testing.T) {
	input := writeTeX(t, "paper.tex", sampleDocument)
	var log bytes.Buffer

	report, err := ConvertFile(newTestConverter(t), input, "", &log)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}

	output := filepath.Join(filepath.Dir(input), "paper.org")
	preamble := filepath.Join(filepath.Dir(input), "paper-preamble.org")
	if report.Output != output {
		t.Errorf("report.Output = %q, want %q", report.Output, output)
	}
	if report.Preamble != preamble {
		t.Errorf("report.Preamble = %q, want %q", report.Preamble, preamble)
	}
	if report.Lines != 10 {
		t.Errorf("report.Lines = %d, want 10", report.Lines)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "#+setupfile: paper-preamble.org\n") {
		t.Errorf("output should include the preamble file, got:\n%s", data)
	}
	if !strings.HasSuffix(string(data), "Body.\n") {
		t.Errorf("output should end with the document body, got:\n%s", data)
	}

	pre, err := os.ReadFile(preamble)
	if err != nil {
		t.Fatalf("reading preamble: %v", err)
	}
	if !strings.HasPrefix(string(pre), "#+latex_header: \\usepackage{amsmath}\n") {
		t.Errorf("preamble = %q", pre)
	}

	for _, want := range []string{"Input file:  ", "Output file: ", "Preamble:    ", "10 lines processed."} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log output %q does not contain %q", log.String(), want)
		}
	}
}

func TestConvertFile_NoPreambleFile(t *testing.T) {
	input := writeTeX(t, "plain.tex", "\\section{Only}\nText.\n")
	output := filepath.Join(t.TempDir(), "custom.org")

	report, err := ConvertFile(newTestConverter(t), input, output, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if report.Preamble != "" {
		t.Errorf("report.Preamble = %q, want empty", report.Preamble)
	}
	if _, err := os.Stat(PreamblePath(output, "-preamble.org")); !os.IsNotExist(err) {
		t.Errorf("preamble file should not exist, stat err = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "* Only\nText.\n" {
		t.Errorf("output = %q", data)
	}
}

func TestConvertFile_SameName(t *testing.T) {
	input := writeTeX(t, "paper.org", "text\n")

	_, err := ConvertFile(newTestConverter(t), input, "", &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "same name") {
		t.Fatalf("expected same-name error, got %v", err)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "text\n" {
		t.Errorf("input was modified: %q", data)
	}
}

func TestConvertFile_FatalErrorKeepsPartialOutput(t *testing.T) {
	input := writeTeX(t, "broken.tex", "First.\n\\cite{a\n")

	_, err := ConvertFile(newTestConverter(t), input, "", &bytes.Buffer{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("ParseError.Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(err.Error(), "broken.tex") {
		t.Errorf("error should name the input file: %v", err)
	}

	data, err := os.ReadFile(OutputPath(input))
	if err != nil {
		t.Fatalf("reading partial output: %v", err)
	}
	if string(data) != "First.\n" {
		t.Errorf("partial output = %q, want %q", data, "First.\n")
	}
}

func TestConvertFile_MissingInput(t *testing.T) {
	_, err := ConvertFile(newTestConverter(t), filepath.Join(t.TempDir(), "missing.tex"), "", &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "opening input") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestConvertPaths(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.tex")
	bad := filepath.Join(dir, "b.tex")
	if err := os.WriteFile(good, []byte("\\cite{x}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("\\begin{table}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	result := ConvertPaths(newTestConverter(t), []string{good, bad, filepath.Join(dir, "c.tex")}, &log)

	if result.Converted != 1 {
		t.Errorf("converted = %d, want 1", result.Converted)
	}
	if result.Failed != 2 {
		t.Errorf("failed = %d, want 2", result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 3 {
		t.Errorf("total = %d, want 3", result.Total())
	}
	if len(result.Reports) != 1 || result.Reports[0].CitationKeys[0] != "x" {
		t.Errorf("reports = %+v", result.Reports)
	}

	output := log.String()
	if !strings.Contains(output, "Batch summary: 1 converted, 2 failed (total: 3)") {
		t.Errorf("batch output should contain summary line, got:\n%s", output)
	}
	if !strings.Contains(output, "failed:    "+bad) {
		t.Errorf("batch output should name the failed file, got:\n%s", output)
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	report := types.ConversionReport{
		Input:        "a.tex",
		Output:       "a.org",
		Lines:        3,
		Constructs:   map[string]int{types.ConstructCitation: 2},
		CitationKeys: []string{"k1", "k2"},
		Citations:    3,
	}
	if err := WriteReport(path, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if got["input"] != "a.tex" || got["citations"] != 3 {
		t.Errorf("report fields = %v", got)
	}
	if _, ok := got["preamble"]; ok {
		t.Error("empty preamble should be omitted")
	}
}
