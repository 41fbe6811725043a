package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// linkAttrs lists the attribute holding a link target for each element.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"area":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"iframe": "src",
}

// Ref is a link target found in a document and the line it starts on.
type Ref struct {
	Line   int
	Target string
}

// ExtractHTML parses HTML from the given reader and extracts the link
// targets of anchor, link, image, script, source and iframe elements.
// Targets are returned in document order, unresolved and not deduplicated.
// Empty attributes are skipped since they point to the current page.
func ExtractHTML(body io.Reader) ([]Ref, error) {
	tokenizer := html.NewTokenizer(body)
	line := 1
	var refs []Ref

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return refs, fmt.Errorf("parse html at line %d: %w", line, err)
			}
			return refs, nil
		}

		// Raw must be read before Token, which may reuse its buffer.
		startLine := line
		line += bytes.Count(tokenizer.Raw(), []byte("\n"))

		if tokenType != html.StartTagToken && tokenType != html.SelfClosingTagToken {
			continue
		}

		token := tokenizer.Token()
		key, ok := linkAttrs[token.Data]
		if !ok {
			continue
		}
		for _, attr := range token.Attr {
			if attr.Key == key && attr.Val != "" {
				refs = append(refs, Ref{Line: startLine, Target: attr.Val})
			}
		}
	}
}
