package urlutil

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Kind
		wantURL string
	}{
		{name: "https url", raw: "https://example.com/", want: KindRemote, wantURL: "https://example.com/"},
		{name: "http url with fragment", raw: "http://Example.com/a#b", want: KindRemote, wantURL: "http://example.com/a"},
		{name: "protocol relative", raw: "//example.com/x", want: KindRemote, wantURL: "https://example.com/x"},
		{name: "markdown title", raw: `https://example.com/ "Example"`, want: KindRemote, wantURL: "https://example.com/"},
		{name: "angle brackets with space", raw: "<https://example.com/a b>", want: KindRemote, wantURL: "https://example.com/a%20b"},
		{name: "angle brackets plain", raw: "<https://example.com/>", want: KindRemote, wantURL: "https://example.com/"},
		{name: "empty", raw: "   ", want: KindEmpty},
		{name: "anchor", raw: "#section", want: KindAnchor},
		{name: "relative file", raw: "docs/guide.md", want: KindLocal},
		{name: "relative file with anchor", raw: "../README.md#usage", want: KindLocal},
		{name: "absolute file", raw: "/etc/hosts", want: KindLocal},
		{name: "windows path", raw: `C:\docs\index.md`, want: KindLocal},
		{name: "mailto", raw: "mailto:someone@example.com", want: KindMail},
		{name: "ftp", raw: "ftp://files.example.com/a", want: KindUnsupportedScheme},
		{name: "file scheme", raw: "file:///tmp/a", want: KindUnsupportedScheme},
		{name: "missing host", raw: "https:///nope", want: KindMissingHost},
		{name: "malformed", raw: "http://[::1", want: KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got.Kind != tt.want {
				t.Fatalf("Classify(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.want)
			}
			if got.URL != tt.wantURL {
				t.Errorf("Classify(%q).URL = %q, want %q", tt.raw, got.URL, tt.wantURL)
			}
		})
	}
}

func TestCleanTarget(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com", "https://example.com"},
		{"  https://example.com  ", "https://example.com"},
		{`https://example.com "Title"`, "https://example.com"},
		{"<https://example.com/with space>", "https://example.com/with space"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanTarget(tt.raw); got != tt.want {
			t.Errorf("CleanTarget(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
