package fetcher

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var spaceRe = regexp.MustCompile(`\s+`)

// StripHTML drops markup from a feed snippet, keeping the text of its
// nodes separated by single spaces. Script and style bodies are thrown
// away entirely.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	tz := html.NewTokenizer(strings.NewReader(s))

	var (
		b    strings.Builder
		skip int
	)

	for {
		switch tz.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.StartTagToken:
			if name, _ := tz.TagName(); isSkipTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := tz.TagName(); isSkipTag(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tz.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isSkipTag(name []byte) bool {
	n := string(name)
	return n == "script" || n == "style"
}

func collapseSpace(s string) string {
	// nbsp
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
