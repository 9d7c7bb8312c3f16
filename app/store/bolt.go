package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bookmarksBktName = "bookmarks"
	cacheBktName     = "cache"

	cacheKey = "articles"
)

// Bolt is a storage that uses BoltDB as a backend. It keeps bookmarks
// keyed by article URL and a single snapshot of the last aggregation
// for offline access.
type Bolt struct {
	db       *bolt.DB
	cacheTTL time.Duration
	now      func() time.Time
}

// NewBolt creates new Bolt storage.
func NewBolt(dir string, cacheTTL time.Duration) (*Bolt, error) {
	db, err := bolt.Open(path.Join(dir, "newsdigest.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bookmarksBktName, cacheBktName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create top-level bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db, cacheTTL: cacheTTL, now: time.Now}, nil
}

// Add puts the article to bookmarks, returns false if the URL is
// already bookmarked.
func (b *Bolt) Add(_ context.Context, article Article) (added bool, err error) {
	err = b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(bookmarksBktName))

		if bkt.Get([]byte(article.URL)) != nil {
			return nil
		}

		bts, err := json.Marshal(Bookmark{Article: article, SavedAt: b.now()})
		if err != nil {
			return fmt.Errorf("marshal bookmark: %w", err)
		}

		if err := bkt.Put([]byte(article.URL), bts); err != nil {
			return fmt.Errorf("put bookmark to storage: %w", err)
		}

		added = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update storage: %w", err)
	}

	return added, nil
}

// Remove removes the bookmark with the given URL from storage.
func (b *Bolt) Remove(_ context.Context, url string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(bookmarksBktName))

		if err := bkt.Delete([]byte(url)); err != nil {
			return fmt.Errorf("remove: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// IsBookmarked reports whether the URL is present in the bookmark store.
func (b *Bolt) IsBookmarked(_ context.Context, url string) (ok bool, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket([]byte(bookmarksBktName)).Get([]byte(url)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("view storage: %w", err)
	}

	return ok, nil
}

// List returns all bookmarks, most recently saved first.
func (b *Bolt) List(_ context.Context) ([]Bookmark, error) {
	var result []Bookmark
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(bookmarksBktName))
		err := bkt.ForEach(func(k, v []byte) error {
			var bm Bookmark
			if err := json.Unmarshal(v, &bm); err != nil {
				return fmt.Errorf("unmarshal bookmark %s: %w", k, err)
			}
			result = append(result, bm)
			return nil
		})
		if err != nil {
			return fmt.Errorf("foreach: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view storage: %w", err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SavedAt.After(result[j].SavedAt)
	})

	return result, nil
}

type cacheEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Articles  []Article         `json:"articles"`
}

// Save stores the article set with the current timestamp for offline access.
func (b *Bolt) Save(_ context.Context, articles []Article, metadata map[string]string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(cacheBktName))

		bts, err := json.Marshal(cacheEntry{
			Timestamp: b.now(),
			Metadata:  metadata,
			Articles:  articles,
		})
		if err != nil {
			return fmt.Errorf("marshal cache entry: %w", err)
		}

		if err := bkt.Put([]byte(cacheKey), bts); err != nil {
			return fmt.Errorf("put cache entry to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// Load returns the cached article set, or ErrNotFound when nothing was
// saved or the snapshot is older than the TTL.
func (b *Bolt) Load(_ context.Context) (articles []Article, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		entry, err := b.cacheEntry(tx)
		if err != nil {
			return err
		}

		if b.now().Sub(entry.Timestamp) > b.cacheTTL {
			return ErrNotFound
		}

		articles = entry.Articles
		return nil
	})
	if err != nil {
		if err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("view storage: %w", err)
	}

	return articles, nil
}

// Valid reports whether a cached set exists and has not expired yet.
func (b *Bolt) Valid(ctx context.Context) bool {
	info, err := b.Info(ctx)
	return err == nil && info.Valid
}

// Info returns the state of the offline cache.
func (b *Bolt) Info(_ context.Context) (info CacheInfo, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		entry, err := b.cacheEntry(tx)
		if err != nil {
			return err
		}

		age := b.now().Sub(entry.Timestamp)
		info = CacheInfo{
			Timestamp:    entry.Timestamp,
			Age:          age,
			ArticleCount: len(entry.Articles),
			Metadata:     entry.Metadata,
			Valid:        age <= b.cacheTTL,
		}
		return nil
	})
	if err != nil {
		if err == ErrNotFound {
			return CacheInfo{}, err
		}
		return CacheInfo{}, fmt.Errorf("view storage: %w", err)
	}

	return info, nil
}

// Clear drops the cached article set.
func (b *Bolt) Clear(_ context.Context) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(cacheBktName)).Delete([]byte(cacheKey)); err != nil {
			return fmt.Errorf("remove: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

func (b *Bolt) cacheEntry(tx *bolt.Tx) (cacheEntry, error) {
	bts := tx.Bucket([]byte(cacheBktName)).Get([]byte(cacheKey))
	if bts == nil {
		return cacheEntry{}, ErrNotFound
	}

	var entry cacheEntry
	if err := json.Unmarshal(bts, &entry); err != nil {
		return cacheEntry{}, fmt.Errorf("unmarshal cache entry: %w", err)
	}

	return entry, nil
}

// Close closes the storage.
func (b *Bolt) Close() error { return b.db.Close() }
