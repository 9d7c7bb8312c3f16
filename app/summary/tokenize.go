package summary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]+`)
	punctRe       = regexp.MustCompile(`[^\w\s]`)
)

// Sentence length bounds: anything shorter is likely a heading or
// fragment artifact, anything longer a run-on or boilerplate.
const (
	minSentenceLen = 20
	maxSentenceLen = 300
)

// splitSentences splits text on punctuation runs and keeps sentences of
// reasonable length.
func splitSentences(text string) []string {
	var sentences []string

	for _, raw := range sentenceEndRe.Split(text, -1) {
		sent := strings.TrimSpace(raw)
		if n := utf8.RuneCountInString(sent); n > minSentenceLen && n < maxSentenceLen {
			sentences = append(sentences, sent)
		}
	}

	return sentences
}

// tokenize lowercases the text, strips punctuation and drops tokens
// that are too short or purely numeric to carry signal.
func tokenize(text string) []string {
	text = strings.ToLower(punctRe.ReplaceAllString(text, " "))

	var words []string
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) <= 2 || isNumeric(w) {
			continue
		}
		words = append(words, w)
	}

	return words
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
