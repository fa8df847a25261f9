// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		open, close byte
		text        string
		want        Span
		wantErr     error
	}{
		{
			name: "nested braces",
			open: '{', close: '}',
			text: "{a{b}c}",
			want: Span{Content: "a{b}c", Start: 0, End: 6},
		},
		{
			name: "brackets with trailing text",
			open: '[', close: ']',
			text: "[Short]{Long}",
			want: Span{Content: "Short", Start: 0, End: 6},
		},
		{
			name: "empty content",
			open: '{', close: '}',
			text: "{}rest",
			want: Span{Content: "", Start: 0, End: 1},
		},
		{
			name: "text before the opening delimiter",
			open: '{', close: '}',
			text: "xy{z}",
			want: Span{Content: "z", Start: 2, End: 4},
		},
		{
			name: "escaped delimiters are not counted",
			open: '{', close: '}',
			text: `{a\}b}`,
			want: Span{Content: `a\}b`, Start: 0, End: 5},
		},
		{
			name: "line break before the close",
			open: '{', close: '}',
			text: `{a\\}`,
			want: Span{Content: `a\\`, Start: 0, End: 4},
		},
		{
			name: "escaped close after a line break",
			open: '{', close: '}',
			text: `{a\\\}}`,
			want: Span{Content: `a\\\}`, Start: 0, End: 6},
		},
		{
			name: "unbalanced",
			open: '{', close: '}',
			text:    "{abc",
			want:    Span{Start: 0, End: 4},
			wantErr: ErrUnbalanced,
		},
		{
			name: "no opening delimiter",
			open: '{', close: '}',
			text:    "abc",
			want:    Span{Start: 3, End: 3},
			wantErr: ErrUnbalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.open, tt.close, tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractRemainder(t *testing.T) {
	text := `{Title} and more`
	sp, err := Extract('{', '}', text)
	if err != nil {
		t.Fatal(err)
	}
	if rest := text[sp.End+1:]; rest != " and more" {
		t.Errorf("remainder = %q, want %q", rest, " and more")
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"text % note", "text "},
		{`50\% done`, `50\% done`},
		{`x\\% \cite{y`, `x\\`},
		{`a\\\% b`, `a\\\% b`},
		{"% all comment", ""},
	}
	for _, tt := range tests {
		if got := code(tt.in); got != tt.want {
			t.Errorf("code(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
