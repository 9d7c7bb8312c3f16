package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"newsdigest/app/store"
)

func TestGuardian_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "climate", q.Get("q"))
		assert.Equal(t, "bodyText,thumbnail,shortUrl,trailText", q.Get("show-fields"))
		assert.Equal(t, "5", q.Get("page-size"))
		assert.Equal(t, "newest", q.Get("order-by"))
		assert.Equal(t, "test", q.Get("api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"response": {"results": [
			{
				"webTitle": "Climate summit opens",
				"webUrl": "https://www.theguardian.com/environment/climate-summit",
				"webPublicationDate": "2023-04-01T08:30:00Z",
				"fields": {
					"trailText": "Leaders gather for talks",
					"bodyText": "Delegates from almost two hundred countries arrived on Monday.",
					"thumbnail": "https://media.example.com/summit.jpg",
					"shortUrl": "https://gu.com/p/abc"
				}
			},
			{
				"webTitle": "Second story",
				"webUrl": "https://www.theguardian.com/second",
				"webPublicationDate": "2023-04-01T07:00:00Z",
				"fields": {}
			}
		]}}`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	g := NewGuardian(slog.Default(), ts.Client(), ts.URL, "")

	articles, err := g.Fetch(context.Background(), "climate", 5)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, store.Article{
		Title:          "Climate summit opens",
		Description:    "Leaders gather for talks",
		Content:        "Delegates from almost two hundred countries arrived on Monday.",
		URL:            "https://gu.com/p/abc",
		ImageURL:       "https://media.example.com/summit.jpg",
		PublishedAt:    "2023-04-01T08:30:00Z",
		PublishedDate:  "2023-04-01T08:30:00Z",
		Source:         store.Source{Name: "The Guardian"},
		HasFullContent: true,
	}, articles[0])

	// placeholders and webUrl fallback when fields are missing
	assert.Equal(t, "https://www.theguardian.com/second", articles[1].URL)
	assert.Equal(t, "No description available", articles[1].Description)
}

func TestGuardian_Fetch_pageSizeCapped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("page-size"))
		_, err := w.Write([]byte(`{"response": {"results": []}}`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	g := NewGuardian(slog.Default(), ts.Client(), ts.URL, "")

	articles, err := g.Fetch(context.Background(), "q", 200)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestGuardian_Fetch_badStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	g := NewGuardian(slog.Default(), ts.Client(), ts.URL, "")

	_, err := g.Fetch(context.Background(), "q", 5)
	assert.ErrorContains(t, err, "bad status code: 429")
}
