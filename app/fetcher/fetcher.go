// Package fetcher contains adapters to external news sources and an
// aggregator that merges their results into a single article list.
package fetcher

import (
	"context"
	"time"

	"github.com/samber/lo"
	"golang.org/x/exp/slog"

	"newsdigest/app/store"
)

// Placeholders for fields a source may omit.
const (
	noTitle       = "No Title"
	noDescription = "No description available"
)

// Source fetches articles matching the query from one external news source.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]store.Article, error)
}

// Aggregator queries sources in priority order, full-text capable ones
// first, and merges their results.
type Aggregator struct {
	log     *slog.Logger
	sources []Source
}

// NewAggregator creates new aggregator over the given ordered source list.
func NewAggregator(lg *slog.Logger, sources ...Source) *Aggregator {
	return &Aggregator{log: lg, sources: sources}
}

// Aggregate collects up to limit articles. A failed source contributes
// nothing and never fails the aggregation as a whole; with every source
// down the result is simply empty.
func (a *Aggregator) Aggregate(ctx context.Context, query string, limit int) []store.Article {
	var articles []store.Article

	for _, src := range a.sources {
		fetched, err := src.Fetch(ctx, query, limit)
		if err != nil {
			a.log.WarnCtx(ctx, "source failed",
				slog.String("source", src.Name()),
				slog.Any("err", err))
			continue
		}

		a.log.DebugCtx(ctx, "source responded",
			slog.String("source", src.Name()),
			slog.Int("articles", len(fetched)))

		articles = append(articles, fetched...)
		if len(articles) >= limit {
			break
		}
	}

	// dedup by exact title, first seen wins; two sources frequently
	// carry the same story under the same headline
	articles = lo.Filter(articles, func(article store.Article, _ int) bool {
		return article.Title != ""
	})
	articles = lo.UniqBy(articles, func(article store.Article) string {
		return article.Title
	})

	if len(articles) > limit {
		articles = articles[:limit]
	}

	return articles
}

// normalizeDate brings the source-native timestamp to the RFC 3339 form,
// which sorts lexicographically the same as chronologically. Unparseable
// values pass through as-is.
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}

	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
	}

	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC().Format(time.RFC3339)
		}
	}

	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
