// Package store contains entities and persistent stores to keep them in.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is an error that is returned when the requested entity is not found.
var ErrNotFound = errors.New("not found")

// Bookmarks defines methods for the bookmark store.
type Bookmarks interface {
	Add(ctx context.Context, article Article) (added bool, err error)
	Remove(ctx context.Context, url string) error
	IsBookmarked(ctx context.Context, url string) (bool, error)
	List(ctx context.Context) ([]Bookmark, error)
}

// Cache defines methods for the offline article cache. Load returns
// ErrNotFound both when nothing was saved and when the saved set is
// older than the store's expiry, callers treat these identically.
type Cache interface {
	Save(ctx context.Context, articles []Article, metadata map[string]string) error
	Load(ctx context.Context) ([]Article, error)
	Clear(ctx context.Context) error
	Valid(ctx context.Context) bool
	Info(ctx context.Context) (CacheInfo, error)
}

// CacheInfo describes the state of the offline cache.
type CacheInfo struct {
	Timestamp    time.Time         `json:"timestamp"`
	Age          time.Duration     `json:"age"`
	ArticleCount int               `json:"article_count"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Valid        bool              `json:"is_valid"`
}
