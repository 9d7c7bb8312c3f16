package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Test Feed</title>
<link>https://example.com</link>
<item>
  <title>Quantum computing hits new milestone</title>
  <link>https://example.com/quantum</link>
  <description><![CDATA[<p>Researchers in <b>quantum computing</b> celebrate.</p>]]></description>
  <pubDate>Mon, 02 Jan 2023 10:00:00 +0000</pubDate>
  <media:content url="https://img.example.com/quantum.jpg" type="image/jpeg"/>
</item>
<item>
  <title>Computing advances continue</title>
  <link>https://example.com/computing</link>
  <description>General computing news</description>
  <pubDate>Tue, 03 Jan 2023 10:00:00 +0000</pubDate>
  <enclosure url="https://img.example.com/chip.jpg" type="image/jpeg" length="1"/>
</item>
<item>
  <title>Football results</title>
  <link>https://example.com/football</link>
  <description>weekend scores</description>
  <pubDate>Wed, 04 Jan 2023 10:00:00 +0000</pubDate>
</item>
</channel>
</rss>`

func testRSS(t *testing.T) *RSS {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, err := w.Write([]byte(testFeed))
		require.NoError(t, err)
	}))
	t.Cleanup(ts.Close)

	return NewRSS(slog.Default(), ts.Client(), []FeedSource{
		{Name: "testsrc", URLs: []string{ts.URL}},
	})
}

func TestRSS_Fetch(t *testing.T) {
	r := testRSS(t)

	articles, err := r.Fetch(context.Background(), "quantum computing", 10)
	require.NoError(t, err)
	require.Len(t, articles, 2, "direct match and 50%-of-terms match, football filtered out")

	// newest first
	assert.Equal(t, "Computing advances continue", articles[0].Title)
	assert.Equal(t, "2023-01-03T10:00:00Z", articles[0].PublishedDate)
	assert.Equal(t, "https://img.example.com/chip.jpg", articles[0].ImageURL, "image from enclosure")

	quantum := articles[1]
	assert.Equal(t, "Quantum computing hits new milestone", quantum.Title)
	assert.Equal(t, "2023-01-02T10:00:00Z", quantum.PublishedDate)
	assert.Equal(t, "Mon, 02 Jan 2023 10:00:00 +0000", quantum.PublishedAt)
	assert.Equal(t, "https://img.example.com/quantum.jpg", quantum.ImageURL, "image from media:content")
	assert.Equal(t, "Researchers in quantum computing celebrate.", quantum.Description, "markup stripped")
	assert.Equal(t, "Researchers in quantum computing celebrate.", quantum.Content)
	assert.Equal(t, "https://example.com/quantum", quantum.URL)
	assert.Equal(t, "TESTSRC", quantum.Source.Name)
	assert.Equal(t, "testsrc", quantum.Author, "author falls back to the outlet name")
	assert.True(t, quantum.HasFullContent)
}

func TestRSS_Fetch_noMatches(t *testing.T) {
	r := testRSS(t)

	articles, err := r.Fetch(context.Background(), "completely unrelated topic", 10)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestRSS_Fetch_brokenFeedSkipped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte("not xml at all"))
		require.NoError(t, err)
	}))
	defer ts.Close()

	r := NewRSS(slog.Default(), ts.Client(), []FeedSource{
		{Name: "broken", URLs: []string{ts.URL}},
	})

	articles, err := r.Fetch(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestQueryMatches(t *testing.T) {
	tbl := []struct {
		query, text string
		want        bool
	}{
		{"quantum computing", "computing budgets grow", true},    // 1 of 2 terms
		{"quantum computing power", "computing is fine", false},  // 1 of 3 terms
		{"quantum", "nothing relevant here", false},              // 0 of 1
		{"quantum", "quantum leap", true},                        // exact term
	}

	for _, tt := range tbl {
		assert.Equal(t, tt.want, queryMatches(tt.query, tt.text), "query %q text %q", tt.query, tt.text)
	}
}
