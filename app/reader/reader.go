// Package reader retrieves full article pages for headline-only sources
// and extracts their readable text.
package reader

import (
	"context"
	"fmt"
	"net/http"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/exp/slog"

	"newsdigest/app/store"
)

// Service fetches a page and runs it through the extractor. Extracted
// pages are cached by URL, article bodies do not change between views.
type Service struct {
	log       *slog.Logger
	cl        *http.Client
	extractor Extractor
	cache     cache.Cache[string, store.Article]
}

// NewService creates new reader service.
func NewService(lg *slog.Logger, cl *http.Client, extractor Extractor) *Service {
	return &Service{
		log:       lg,
		cl:        cl,
		extractor: extractor,
		cache: cache.NewCache[string, store.Article]().
			WithLRU().
			WithMaxKeys(100),
	}
}

// CacheStat returns cache stats.
func (s *Service) CacheStat() cache.Stats { return s.cache.Stat() }

// Read returns the readable text of the page at the given URL.
func (s *Service) Read(ctx context.Context, u string) (store.Article, error) {
	if article, ok := s.cache.Get(u); ok {
		return article, nil
	}

	s.log.DebugCtx(ctx, "reading article page", slog.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return store.Article{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.cl.Do(req)
	if err != nil {
		return store.Article{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return store.Article{}, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	article, err := s.extractor.Extract(resp.Body)
	if err != nil {
		return store.Article{}, fmt.Errorf("extract article: %w", err)
	}
	article.URL = u

	s.cache.Set(u, article, 0)
	return article, nil
}
