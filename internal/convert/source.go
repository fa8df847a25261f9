// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bufio"
	"errors"
	"io"
)

// LineSource is a forward-only reader of input lines. Lines keep their line
// ending; the final line may lack one. It never rewinds: a recognizer that
// reads ahead must hand unused text back to the dispatcher itself.
type LineSource struct {
	r     *bufio.Reader
	lines int
	done  bool
}

// NewLineSource wraps r as a LineSource.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: bufio.NewReader(r)}
}

// Next returns the next line including its line ending. It returns io.EOF
// once the input is exhausted.
func (s *LineSource) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		s.done = true
		if line == "" {
			return "", io.EOF
		}
	}
	s.lines++
	return line, nil
}

// Lines returns the number of lines read so far. It is also the 1-based
// number of the most recently returned line.
func (s *LineSource) Lines() int {
	return s.lines
}
