package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind describes what a raw link target refers to.
type Kind int

const (
	// KindRemote is an http(s) URL that can be checked over the network.
	KindRemote Kind = iota
	// KindEmpty is a blank target.
	KindEmpty
	// KindAnchor is a fragment within the current document.
	KindAnchor
	// KindMail is a mailto: address.
	KindMail
	// KindUnsupportedScheme is a URL with a scheme other than http(s) or mailto.
	KindUnsupportedScheme
	// KindLocal is a relative or absolute file path.
	KindLocal
	// KindMissingHost is an http(s) URL with no host.
	KindMissingHost
	// KindMalformed is text that cannot be parsed as a URL.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindRemote:
		return "remote"
	case KindEmpty:
		return "empty"
	case KindAnchor:
		return "anchor"
	case KindMail:
		return "mail"
	case KindUnsupportedScheme:
		return "unsupported-scheme"
	case KindLocal:
		return "local"
	case KindMissingHost:
		return "missing-host"
	default:
		return "malformed"
	}
}

// Target is the classification of a raw link target.
type Target struct {
	Kind   Kind
	URL    string // Normalized request URL, set only for KindRemote
	Scheme string // Lowercased scheme, if any
	Err    error  // Parse error for KindMalformed
}

// Classify decides how a raw link target should be verified.
// The raw text is cleaned of surrounding whitespace, angle brackets and a
// trailing Markdown title before it is parsed.
func Classify(raw string) Target {
	s := CleanTarget(raw)
	if s == "" {
		return Target{Kind: KindEmpty}
	}
	if strings.HasPrefix(s, "#") {
		return Target{Kind: KindAnchor}
	}
	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return Target{Kind: KindMalformed, Err: err}
	}

	scheme := strings.ToLower(parsed.Scheme)
	switch {
	case scheme == "":
		return Target{Kind: KindLocal}
	case len(scheme) == 1:
		// Windows drive letter, e.g. C:\docs\index.md
		return Target{Kind: KindLocal, Scheme: scheme}
	case scheme == "mailto":
		return Target{Kind: KindMail, Scheme: scheme}
	case !isHTTP(scheme):
		return Target{Kind: KindUnsupportedScheme, Scheme: scheme}
	case parsed.Host == "":
		return Target{Kind: KindMissingHost, Scheme: scheme}
	}

	normalized, err := Normalize(s)
	if err != nil {
		return Target{Kind: KindMalformed, Scheme: scheme, Err: fmt.Errorf("normalize: %w", err)}
	}
	return Target{Kind: KindRemote, URL: normalized, Scheme: scheme}
}

// CleanTarget strips Markdown decoration from a captured link destination:
// surrounding whitespace, <angle brackets> and an optional "title".
func CleanTarget(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "<") {
		if end := strings.Index(s, ">"); end > 0 {
			return strings.TrimSpace(s[1:end])
		}
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}
	return s
}
