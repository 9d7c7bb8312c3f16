package summary

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/app/store"
)

func TestSummarizer_Summarize_shortText(t *testing.T) {
	s := New()

	article := store.Article{Title: "Brief note", Description: "Nothing much happened"}

	got := s.Summarize(article, 3, 250)
	assert.Equal(t, "Brief note. Nothing much happened. ", got)
}

func TestSummarizer_Summarize_shortTextTruncated(t *testing.T) {
	s := New()

	article := store.Article{Title: "A short headline about events somewhere far away"}

	got := s.Summarize(article, 3, 20)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 20+3)
}

func TestSummarizer_Summarize_lengthBound(t *testing.T) {
	s := New()

	article := store.Article{
		Title:       "City council approves the new transit plan",
		Description: "The plan reshapes bus routes across the city.",
		Content: "The city council voted on Tuesday to approve a sweeping overhaul of public transit. " +
			"The plan will add twelve new bus routes across underserved neighborhoods. " +
			"Officials said construction of dedicated lanes begins early next year. " +
			"Advocates have pushed for these changes for nearly a decade. " +
			"Opponents argued the project costs far too much money. " +
			"The mayor called the vote a defining moment for the city. " +
			"Funding comes from a mix of federal grants and local taxes.",
	}

	for _, maxLen := range []int{60, 120, 250} {
		got := s.Summarize(article, 3, maxLen)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), maxLen+3, "max length %d", maxLen)
	}
}

func TestSummarizer_Summarize_deterministic(t *testing.T) {
	s := New()

	article := store.Article{
		Title:       "Researchers reveal new battery technology",
		Description: "A significant advance in energy storage.",
		Content: "Scientists announced a breakthrough in battery design on Monday. " +
			"The new cells store twice the energy of conventional designs. " +
			"Laboratory tests showed stable performance over thousands of cycles. " +
			"Manufacturers plan to launch production within two years. " +
			"The research team spent five years developing the chemistry. " +
			"Experts called the results a major step for electric vehicles.",
	}

	first := s.Summarize(article, 3, 250)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Summarize(article, 3, 250))
	}
}

func TestSummarizer_Summarize_picksSentencesFromSource(t *testing.T) {
	s := New()

	article := store.Article{
		Title:       "New AI Breakthrough in Medicine",
		Description: "Researchers announce a significant discovery.",
		Content: "Scientists at the university developed a new method for treating disease. " +
			"The research team announced a major breakthrough in the field of medicine. " +
			"The discovery could improve treatment for millions of patients worldwide. " +
			"Early tests show significant improvements in patient outcomes. " +
			"The technology will launch in hospitals next year. " +
			"Further research studies are planned to validate the findings.",
	}

	got := s.Summarize(article, 2, 180)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 180+3)

	// exactly two source sentences, re-joined in source order
	blob := article.Title + ". " + article.Description + ". " + article.Content
	var picked []string
	for _, sent := range splitSentences(blob) {
		if strings.Contains(got, sent) {
			picked = append(picked, sent)
		}
	}
	require.Len(t, picked, 2)
	assert.Equal(t, strings.Join(picked, " "), got)
}

func TestSummarizer_Summarize_fewSentencesJoined(t *testing.T) {
	s := New()

	article := store.Article{
		Title:       "A headline that is long enough to pass the filter",
		Description: "A description that is also long enough to pass through the sentence filter easily.",
	}

	got := s.Summarize(article, 5, 500)
	assert.Equal(t, "A headline that is long enough to pass the filter "+
		"A description that is also long enough to pass through the sentence filter easily", got)
}

func TestSummarizer_KeyPhrases(t *testing.T) {
	s := New()

	article := store.Article{
		Title:   "Machine learning budgets grow",
		Content: "Machine learning budgets keep growing. Machine learning budgets doubled last year.",
	}

	phrases := s.KeyPhrases(article, 2)
	require.NotEmpty(t, phrases)
	assert.Equal(t, "machine learning", phrases[0])
}
