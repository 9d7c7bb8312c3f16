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

// DefaultGuardianURL is the Guardian content API endpoint.
const DefaultGuardianURL = "https://content.guardianapis.com"

const guardianPageSizeCap = 50

// Guardian fetches articles from the Guardian content API. The API
// serves full body text, so its articles are marked full-content.
type Guardian struct {
	log     *slog.Logger
	cl      *http.Client
	baseURL string
	key     string
}

// NewGuardian creates new Guardian source. An empty key falls back to
// the free-tier "test" key.
func NewGuardian(lg *slog.Logger, cl *http.Client, baseURL, key string) *Guardian {
	if baseURL == "" {
		baseURL = DefaultGuardianURL
	}
	if key == "" {
		key = "test"
	}
	return &Guardian{log: lg, cl: cl, baseURL: baseURL, key: key}
}

// Name returns the source name.
func (g *Guardian) Name() string { return "The Guardian" }

type guardianResponse struct {
	Response struct {
		Results []struct {
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				TrailText string `json:"trailText"`
				BodyText  string `json:"bodyText"`
				Thumbnail string `json:"thumbnail"`
				ShortURL  string `json:"shortUrl"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

// Fetch queries the Guardian search endpoint, newest first.
func (g *Guardian) Fetch(ctx context.Context, query string, limit int) ([]store.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("show-fields", "bodyText,thumbnail,shortUrl,trailText")
	params.Set("page-size", strconv.Itoa(minInt(limit, guardianPageSizeCap)))
	params.Set("order-by", "newest")
	params.Set("api-key", g.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/search?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			g.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	var body guardianResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]store.Article, 0, len(body.Response.Results))
	for _, item := range body.Response.Results {
		articleURL := item.Fields.ShortURL
		if articleURL == "" {
			articleURL = item.WebURL
		}

		title := item.WebTitle
		if title == "" {
			title = noTitle
		}

		description := item.Fields.TrailText
		if description == "" {
			description = noDescription
		}

		articles = append(articles, store.Article{
			Title:          title,
			Description:    description,
			Content:        item.Fields.BodyText,
			URL:            articleURL,
			ImageURL:       item.Fields.Thumbnail,
			PublishedAt:    item.WebPublicationDate,
			PublishedDate:  normalizeDate(item.WebPublicationDate),
			Source:         store.Source{Name: "The Guardian"},
			HasFullContent: true,
		})
	}

	return articles, nil
}
