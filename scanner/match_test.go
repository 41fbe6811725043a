package scanner

import (
	"reflect"
	"testing"
)

func TestMatcher_Targets(t *testing.T) {
	m, err := NewMatcher(LinkPattern)
	if err != nil {
		t.Fatalf("NewMatcher() error: %v", err)
	}

	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "single link",
			line: "See [ok](https://example.com/) for details.",
			want: []string{"https://example.com/"},
		},
		{
			name: "multiple links",
			line: "[a](https://a.example) and [b](docs/b.md) and [c](#c)",
			want: []string{"https://a.example", "docs/b.md", "#c"},
		},
		{
			name: "captures title and spaces byte-exact",
			line: `[t]( https://example.com "Title" )`,
			want: []string{` https://example.com "Title" `},
		},
		{
			name: "unicode label and target",
			line: "[café](https://example.com/naïve) ✓",
			want: []string{"https://example.com/naïve"},
		},
		{
			name: "empty label does not match",
			line: "[](https://example.com)",
			want: nil,
		},
		{
			name: "nested brackets do not match",
			line: "[[x]](https://example.com)",
			want: nil,
		},
		{
			name: "parentheses inside target stop the match",
			line: "[wiki](https://en.wikipedia.org/wiki/Go_(language))",
			want: nil,
		},
		{
			name: "image syntax matches",
			line: "![logo](img/logo.png)",
			want: []string{"img/logo.png"},
		},
		{
			name: "no links",
			line: "plain text with (parens) and [brackets]",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Targets(tt.line)
			if err != nil {
				t.Fatalf("Targets() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Targets(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestNewMatcher_Errors(t *testing.T) {
	if _, err := NewMatcher(`\[(`); err == nil {
		t.Error("expected error for invalid pattern")
	}
	if _, err := NewMatcher(`\[[^\]]+\]`); err == nil {
		t.Error("expected error for pattern without capture group")
	}
}
