package fetcher

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/exp/slog"

	"newsdigest/app/store"
)

// FeedSource is a named outlet with one or more feed URLs.
type FeedSource struct {
	Name string
	URLs []string
}

// DefaultFeeds returns the built-in outlet table, in priority order.
func DefaultFeeds() []FeedSource {
	return []FeedSource{
		{Name: "bbc", URLs: []string{
			"http://feeds.bbci.co.uk/news/rss.xml",
			"http://feeds.bbci.co.uk/news/technology/rss.xml",
			"http://feeds.bbci.co.uk/news/science_and_environment/rss.xml",
			"http://feeds.bbci.co.uk/news/business/rss.xml",
		}},
		{Name: "npr", URLs: []string{
			"https://feeds.npr.org/1001/rss.xml",
			"https://feeds.npr.org/1019/rss.xml",
			"https://feeds.npr.org/1007/rss.xml",
		}},
		{Name: "reuters", URLs: []string{
			"https://www.reutersagency.com/feed/?taxonomy=best-topics&post_type=best",
		}},
		{Name: "techcrunch", URLs: []string{
			"https://techcrunch.com/feed/",
		}},
		{Name: "sciencedaily", URLs: []string{
			"https://www.sciencedaily.com/rss/all.xml",
		}},
		{Name: "mit_news", URLs: []string{
			"https://news.mit.edu/rss/feed",
		}},
	}
}

// RSS fetches articles from RSS/Atom feeds. Feeds carry the story body
// in the entry itself, so results are marked full-content.
type RSS struct {
	log    *slog.Logger
	parser *gofeed.Parser
	feeds  []FeedSource
}

// NewRSS creates new RSS source over the given outlet table.
func NewRSS(lg *slog.Logger, cl *http.Client, feeds []FeedSource) *RSS {
	parser := gofeed.NewParser()
	parser.Client = cl

	return &RSS{log: lg, parser: parser, feeds: feeds}
}

// Name returns the source name.
func (r *RSS) Name() string { return "RSS" }

// Fetch walks the outlet table, keeping entries that match the query,
// and returns them newest first. A broken feed or a malformed entry is
// skipped, never fatal for the whole walk.
func (r *RSS) Fetch(ctx context.Context, query string, limit int) ([]store.Article, error) {
	var articles []store.Article

	for _, src := range r.feeds {
		articles = append(articles, r.fetchSource(ctx, src, query, limit)...)
		if len(articles) >= limit {
			break
		}
	}

	// RFC 3339 strings order the same way the timestamps do; malformed
	// dates sort by their raw value
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedDate > articles[j].PublishedDate
	})

	if len(articles) > limit {
		articles = articles[:limit]
	}

	return articles, nil
}

func (r *RSS) fetchSource(ctx context.Context, src FeedSource, query string, limit int) []store.Article {
	var articles []store.Article
	queryLower := strings.ToLower(query)

	for _, feedURL := range src.URLs {
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			r.log.WarnCtx(ctx, "feed failed",
				slog.String("source", src.Name),
				slog.String("url", feedURL),
				slog.Any("err", err))
			continue
		}

		items := feed.Items
		if len(items) > limit {
			items = items[:limit]
		}

		for _, item := range items {
			if item == nil {
				continue
			}

			title := strings.ToLower(item.Title)
			summary := strings.ToLower(item.Description)

			if !strings.Contains(title, queryLower) &&
				!strings.Contains(summary, queryLower) &&
				!queryMatches(queryLower, title+" "+summary) {
				continue
			}

			articles = append(articles, parseItem(item, src.Name))
		}

		if len(articles) >= limit {
			break
		}
	}

	return articles
}

// queryMatches reports whether at least half of the query terms occur
// in the text. Coarse on purpose: no stemming, plain substring per term.
func queryMatches(query, text string) bool {
	words := strings.Fields(query)

	matches := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			matches++
		}
	}

	return float64(matches) >= float64(len(words))*0.5
}

func parseItem(item *gofeed.Item, source string) store.Article {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	published := item.Published
	if published == "" {
		published = item.Updated
	}

	title := item.Title
	if title == "" {
		title = noTitle
	}

	author := source
	if item.Author != nil && item.Author.Name != "" {
		author = item.Author.Name
	}

	return store.Article{
		Title:          title,
		Description:    StripHTML(item.Description),
		Content:        StripHTML(content),
		URL:            item.Link,
		ImageURL:       itemImage(item),
		PublishedAt:    published,
		PublishedDate:  itemDate(item),
		Source:         store.Source{Name: strings.ToUpper(source)},
		Author:         author,
		HasFullContent: true,
	}
}

// itemDate returns the entry timestamp in sortable form, falling back
// to the raw string when the feed carries an unparseable date.
func itemDate(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	if item.Published != "" {
		return item.Published
	}
	return item.Updated
}

// itemImage tries media:content, then media:thumbnail, then enclosures
// with an image type.
func itemImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
		for _, ext := range media["thumbnail"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.Contains(enc.Type, "image") {
			return enc.URL
		}
	}

	return ""
}
