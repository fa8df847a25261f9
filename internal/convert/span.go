// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

// Span is the text between a balanced pair of delimiters together with its
// position in the string it was extracted from. Offsets are byte offsets.
type Span struct {
	// Content is the text strictly inside the outermost delimiter pair.
	Content string

	// Start is the number of bytes preceding the first opening delimiter.
	Start int

	// End is the index of the matching closing delimiter. Text after the
	// span is text[End+1:].
	End int
}

// Extract returns the span opened by the first open delimiter in text and
// closed by its matching close delimiter. Nested pairs of the same
// delimiters are kept in the content, so "{a{b}c}" yields "a{b}c".
// Delimiters escaped with a backslash are not counted; after a line break
// \\ they are.
//
// Callers pass text beginning with open. When no balanced close exists,
// Extract returns a Span with End == len(text) and ErrUnbalanced; callers
// that read line by line use this to pull more input.
func Extract(open, close byte, text string) (Span, error) {
	depth := 0
	start := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != open && c != close {
			continue
		}
		if escaped(text, i) {
			continue
		}
		if c == open {
			if start < 0 {
				start = i
			}
			depth++
			continue
		}
		if start < 0 {
			// A close before any open does not count.
			continue
		}
		depth--
		if depth == 0 {
			return Span{Content: text[start+1 : i], Start: start, End: i}, nil
		}
	}
	if start < 0 {
		start = len(text)
	}
	return Span{Start: start, End: len(text)}, ErrUnbalanced
}

// escaped reports whether s[i] is preceded by an odd run of backslashes.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
