package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/exp/slog"

	"newsdigest/app/store"
)

// DefaultNewsAPIURL is the NewsAPI "everything" endpoint base.
const DefaultNewsAPIURL = "https://newsapi.org/v2"

// NewsAPI fetches headlines from NewsAPI. The free tier serves
// snippet-limited content only, so its articles are never full-content.
// Without an API key the source is disabled and yields nothing.
type NewsAPI struct {
	log     *slog.Logger
	cl      *http.Client
	baseURL string
	key     string
}

// NewNewsAPI creates new NewsAPI source.
func NewNewsAPI(lg *slog.Logger, cl *http.Client, baseURL, key string) *NewsAPI {
	if baseURL == "" {
		baseURL = DefaultNewsAPIURL
	}
	return &NewsAPI{log: lg, cl: cl, baseURL: baseURL, key: key}
}

// Name returns the source name.
func (n *NewsAPI) Name() string { return "NewsAPI" }

type newsAPIResponse struct {
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Fetch queries NewsAPI, ordered by publication date. A missing key is
// not an error, the call is skipped entirely.
func (n *NewsAPI) Fetch(ctx context.Context, query string, limit int) ([]store.Article, error) {
	if n.key == "" {
		n.log.DebugCtx(ctx, "no api key configured, source disabled")
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("apiKey", n.key)
	params.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		n.baseURL+"/everything?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := n.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			n.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]store.Article, 0, len(body.Articles))
	for _, item := range body.Articles {
		title := item.Title
		if title == "" {
			title = noTitle
		}

		description := item.Description
		if description == "" {
			description = noDescription
		}

		articles = append(articles, store.Article{
			Title:          title,
			Description:    description,
			Content:        item.Content,
			URL:            item.URL,
			ImageURL:       item.URLToImage,
			PublishedAt:    item.PublishedAt,
			PublishedDate:  normalizeDate(item.PublishedAt),
			Source:         store.Source{Name: item.Source.Name},
			Author:         item.Author,
			HasFullContent: false,
		})
	}

	return articles, nil
}
