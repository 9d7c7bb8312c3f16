package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"newsdigest/app/store"
)

// sourceMock is a mock implementation of Source.
type sourceMock struct {
	name      string
	FetchFunc func(ctx context.Context, query string, limit int) ([]store.Article, error)
	calls     int
}

func (m *sourceMock) Name() string { return m.name }

func (m *sourceMock) Fetch(ctx context.Context, query string, limit int) ([]store.Article, error) {
	m.calls++
	return m.FetchFunc(ctx, query, limit)
}

func TestAggregator_dedupsByTitle(t *testing.T) {
	first := &sourceMock{name: "x", FetchFunc: func(context.Context, string, int) ([]store.Article, error) {
		return []store.Article{{Title: "Space Mission Launches", URL: "https://x.example.com/1"}}, nil
	}}
	second := &sourceMock{name: "y", FetchFunc: func(context.Context, string, int) ([]store.Article, error) {
		return []store.Article{
			{Title: "Space Mission Launches", URL: "https://y.example.com/1"},
			{Title: "Rover Sends First Images", URL: "https://y.example.com/2"},
		}, nil
	}}

	got := NewAggregator(slog.Default(), first, second).Aggregate(context.Background(), "space", 10)

	assert.Len(t, got, 2)
	assert.Equal(t, "Space Mission Launches", got[0].Title)
	assert.Equal(t, "https://x.example.com/1", got[0].URL, "first seen wins")
	assert.Equal(t, "Rover Sends First Images", got[1].Title)
}

func TestAggregator_toleratesSourceFailure(t *testing.T) {
	broken := &sourceMock{name: "broken", FetchFunc: func(context.Context, string, int) ([]store.Article, error) {
		return nil, errors.New("connection refused")
	}}
	healthy := &sourceMock{name: "healthy", FetchFunc: func(context.Context, string, int) ([]store.Article, error) {
		return []store.Article{{Title: "Still Works", URL: "https://example.com/1"}}, nil
	}}

	got := NewAggregator(slog.Default(), broken, healthy).Aggregate(context.Background(), "q", 10)

	assert.Len(t, got, 1)
	assert.Equal(t, "Still Works", got[0].Title)
}

func TestAggregator_allSourcesDown(t *testing.T) {
	broken := &sourceMock{name: "broken", FetchFunc: func(context.Context, string, int) ([]store.Article, error) {
		return nil, errors.New("boom")
	}}

	got := NewAggregator(slog.Default(), broken).Aggregate(context.Background(), "q", 10)
	assert.Empty(t, got)
}

func TestAggregator_stopsAtLimit(t *testing.T) {
	first := &sourceMock{name: "first", FetchFunc: func(_ context.Context, _ string, limit int) ([]store.Article, error) {
		articles := make([]store.Article, limit)
		for i := range articles {
			articles[i] = store.Article{Title: string(rune('A' + i))}
		}
		return articles, nil
	}}
	second := &sourceMock{name: "second", FetchFunc: func(context.Context, string, int) ([]store.Article, error) {
		return []store.Article{{Title: "never seen"}}, nil
	}}

	got := NewAggregator(slog.Default(), first, second).Aggregate(context.Background(), "q", 5)

	assert.Len(t, got, 5)
	assert.Zero(t, second.calls, "fallback source should not be queried once the cap is reached")
}

func TestAggregator_truncatesToLimit(t *testing.T) {
	src := &sourceMock{name: "src", FetchFunc: func(context.Context, string, int) ([]store.Article, error) {
		return []store.Article{
			{Title: "one"}, {Title: "two"}, {Title: "three"}, {Title: "four"},
		}, nil
	}}

	got := NewAggregator(slog.Default(), src).Aggregate(context.Background(), "q", 3)
	assert.Len(t, got, 3)
}

func TestNormalizeDate(t *testing.T) {
	tbl := []struct {
		in, want string
	}{
		{"2023-01-02T10:04:05Z", "2023-01-02T10:04:05Z"},
		{"Mon, 02 Jan 2023 10:04:05 +0000", "2023-01-02T10:04:05Z"},
		{"not a date at all", "not a date at all"},
		{"", ""},
	}

	for _, tt := range tbl {
		assert.Equal(t, tt.want, normalizeDate(tt.in), "input: %q", tt.in)
	}
}
