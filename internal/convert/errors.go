// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalanced is returned by Extract when the opening delimiter has
	// no matching close in the text.
	ErrUnbalanced = errors.New("unbalanced delimiters")

	// ErrUnterminated means a multi-line construct did not close within its
	// line budget or before the end of input.
	ErrUnterminated = errors.New("unterminated construct")

	// ErrMalformed means a construct matched its opening pattern but its
	// structure could not be extracted.
	ErrMalformed = errors.New("malformed construct")

	// ErrUnknownCommand means a sectioning command has no heading depth.
	ErrUnknownCommand = errors.New("unknown command")
)

// maxErrorText bounds the offending text quoted in a ParseError.
const maxErrorText = 160

// ParseError is a fatal conversion error. It names the construct, the
// source line where the construct opened, and the text that failed.
type ParseError struct {
	Construct string
	Line      int
	Text      string
	Err       error
}

func (e *ParseError) Error() string {
	text := e.Text
	if len(text) > maxErrorText {
		text = text[:maxErrorText-3] + "..."
	}
	return fmt.Sprintf("line %d: %s: %v in %q", e.Line, e.Construct, e.Err, text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(construct string, line int, text string, err error) *ParseError {
	return &ParseError{Construct: construct, Line: line, Text: text, Err: err}
}
