package urlutil

import "testing"

func TestIsHTTPScheme(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		expected bool
	}{
		{name: "http", rawURL: "http://example.com", expected: true},
		{name: "https", rawURL: "https://example.com/page", expected: true},
		{name: "uppercase scheme", rawURL: "HTTPS://example.com", expected: true},
		{name: "mailto", rawURL: "mailto:user@example.com", expected: false},
		{name: "ftp", rawURL: "ftp://files.example.com", expected: false},
		{name: "relative path", rawURL: "docs/guide.md", expected: false},
		{name: "empty", rawURL: "", expected: false},
		{name: "unparseable", rawURL: "http://[::1", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTTPScheme(tt.rawURL); got != tt.expected {
				t.Errorf("IsHTTPScheme(%q) = %v, want %v", tt.rawURL, got, tt.expected)
			}
		})
	}
}
