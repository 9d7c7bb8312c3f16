package reader

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"

	"newsdigest/app/store"
)

// Extractor extracts an article from an HTML page.
type Extractor struct {
	parser readability.Parser
}

// NewExtractor creates new Extractor.
func NewExtractor(debug bool) Extractor {
	svc := Extractor{parser: readability.NewParser()}
	svc.parser.Debug = debug

	return svc
}

// Extract extracts an article from an HTML page.
func (e Extractor) Extract(rd io.Reader) (store.Article, error) {
	doc, err := readability.FromReader(rd, nil)
	if err != nil {
		return store.Article{}, fmt.Errorf("parse html: %w", err)
	}

	content := e.sanitize(doc.TextContent)

	return store.Article{
		Title:          doc.Title,
		Description:    doc.Excerpt,
		Content:        content,
		Author:         doc.Byline,
		ImageURL:       doc.Image,
		HasFullContent: content != "",
	}, nil
}

func (e Extractor) sanitize(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	// nbsp
	s = strings.ReplaceAll(s, " ", " ")

	re := regexp.MustCompile(`\s+`)
	sanitized := re.ReplaceAllString(s, " ")

	return strings.TrimSpace(sanitized)
}
