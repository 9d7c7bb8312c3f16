// Package summary produces extractive article summaries: verbatim
// sentences picked from the source text by deterministic scoring, no
// model involved.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"newsdigest/app/store"
)

// shortCircuitAt is the blob length below which scoring is pointless.
const shortCircuitAt = 100

// scoredSentence is an ephemeral scoring record, it never leaves the
// summarization call.
type scoredSentence struct {
	text  string
	index int
	score float64
}

// Summarizer scores sentences by word frequency, position, title
// overlap and domain-signal keywords. It is pure and reentrant, one
// instance is safe to share across goroutines.
type Summarizer struct {
	stopWords         map[string]struct{}
	importantKeywords map[string]struct{}
}

// New creates a summarizer with the built-in English stop-word and
// important-keyword sets.
func New() *Summarizer {
	return &Summarizer{
		stopWords:         toSet(stopWords),
		importantKeywords: toSet(importantKeywords),
	}
}

// Summarize returns at most maxSentences sentences of the article,
// re-joined in source order, truncated to maxLength runes with an
// ellipsis marker when cut.
func (s *Summarizer) Summarize(article store.Article, maxSentences, maxLength int) string {
	fullText := fmt.Sprintf("%s. %s. %s", article.Title, article.Description, article.Content)

	if utf8.RuneCountInString(fullText) < shortCircuitAt {
		return store.Truncate(fullText, maxLength)
	}

	sentences := splitSentences(fullText)

	if len(sentences) == 0 {
		return store.Truncate(article.Description, maxLength)
	}

	if len(sentences) <= maxSentences {
		return store.Truncate(strings.Join(sentences, " "), maxLength)
	}

	scored := s.scoreSentences(sentences, article.Title)

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > maxSentences {
		scored = scored[:maxSentences]
	}

	// back to source order, a summary reads better in narrative order
	// than in score order
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].index < scored[j].index })

	parts := make([]string, len(scored))
	for i, sc := range scored {
		parts[i] = sc.text
	}

	return truncateAtWord(strings.Join(parts, " "), maxLength)
}

func (s *Summarizer) scoreSentences(sentences []string, title string) []scoredSentence {
	var allWords []string
	for _, sentence := range sentences {
		allWords = append(allWords, tokenize(sentence)...)
	}

	wordFreq := map[string]int{}
	for _, w := range allWords {
		wordFreq[w]++
	}

	// stop words carry no signal unless they double as domain keywords
	for w := range wordFreq {
		if _, stop := s.stopWords[w]; !stop {
			continue
		}
		if _, important := s.importantKeywords[w]; !important {
			delete(wordFreq, w)
		}
	}
	for w := range s.importantKeywords {
		if freq, ok := wordFreq[w]; ok {
			wordFreq[w] = freq * 2
		}
	}

	titleWords := toSet(tokenize(title))

	var scored []scoredSentence
	for i, sentence := range sentences {
		words := tokenize(sentence)
		if len(words) == 0 {
			continue
		}

		freqSum := 0
		for _, w := range words {
			freqSum += wordFreq[w]
		}
		baseScore := float64(freqSum) / float64(len(words))

		positionBonus := 0.5
		if i < 3 {
			positionBonus = 1.0
		}

		titleOverlap := 0
		for w := range toSet(words) {
			if _, ok := titleWords[w]; ok {
				titleOverlap++
			}
		}
		titleBonus := float64(titleOverlap) * 0.5

		lengthPenalty := 1.0
		switch {
		case len(words) < 5:
			lengthPenalty = 0.5
		case len(words) > 40:
			lengthPenalty = 0.7
		}

		keywordCount := 0
		for _, w := range words {
			if _, ok := s.importantKeywords[w]; ok {
				keywordCount++
			}
		}
		keywordBonus := float64(keywordCount) * 0.3

		scored = append(scored, scoredSentence{
			text:  sentence,
			index: i,
			score: (baseScore + positionBonus + titleBonus + keywordBonus) * lengthPenalty,
		})
	}

	return scored
}

// KeyPhrases returns the n most frequent bigrams of the article text
// whose leading token is not a stop word.
func (s *Summarizer) KeyPhrases(article store.Article, n int) []string {
	text := fmt.Sprintf("%s %s %s", article.Title, article.Description, article.Content)
	words := tokenize(text)

	counts := map[string]int{}
	var order []string
	for i := 0; i < len(words)-1; i++ {
		if _, stop := s.stopWords[words[i]]; stop {
			continue
		}

		bigram := words[i] + " " + words[i+1]
		if counts[bigram] == 0 {
			order = append(order, bigram)
		}
		counts[bigram]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	if len(order) > n {
		order = order[:n]
	}
	return order
}

// truncateAtWord cuts s to at most max runes at a whitespace boundary
// and appends an ellipsis marker when it actually cut something.
func truncateAtWord(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	cut := string(r[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return cut + "..."
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
