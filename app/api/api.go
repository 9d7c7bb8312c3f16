// Package api exposes the aggregation pipeline over a small JSON HTTP API.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"

	"newsdigest/app/fetcher"
	"newsdigest/app/learn"
	"newsdigest/app/reader"
	"newsdigest/app/store"
	"newsdigest/app/summary"
)

const previewLength = 300

// Rest is a REST controller over the aggregation pipeline.
type Rest struct {
	Logger     *slog.Logger
	Aggregator *fetcher.Aggregator
	Reader     *reader.Service
	Summarizer *summary.Summarizer
	Bookmarks  store.Bookmarks
	Cache      store.Cache
	Version    string

	MaxSentences  int
	MaxSummaryLen int
	DefaultLimit  int
}

// newsArticle is an article enriched for display.
type newsArticle struct {
	store.Article
	Summary     string      `json:"summary"`
	Preview     string      `json:"preview"`
	Educational bool        `json:"educational"`
	Topic       learn.Topic `json:"topic"`
	TutorialURL string      `json:"tutorial_url,omitempty"`
	Bookmarked  bool        `json:"bookmarked"`
}

// Router assembles the gin engine with all routes and middleware.
func (s *Rest) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(RequestID(), Logger(s.Logger), Recovery(s.Logger))

	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	v1.GET("/news", s.getNews)
	v1.GET("/news/read", s.readArticle)
	v1.GET("/bookmarks", s.listBookmarks)
	v1.POST("/bookmarks", s.addBookmark)
	v1.DELETE("/bookmarks", s.removeBookmark)
	v1.GET("/cache", s.cacheInfo)
	v1.DELETE("/cache", s.clearCache)

	return r
}

// fieldQueries maps a user's field of interest to the search query sent
// to the sources; an unknown field is used as the query itself.
var fieldQueries = map[string]string{
	"Artificial Intelligence":  "artificial intelligence OR AI OR machine learning",
	"Finance & Economics":      "finance OR economics OR business OR stock market",
	"Science & Research":       "science OR research OR scientific discovery",
	"Technology & Engineering": "technology OR engineering OR innovation",
	"Health & Medicine":        "health OR medicine OR medical research OR healthcare",
	"Space & Astronomy":        "space OR astronomy OR NASA OR space exploration",
	"technology":               "technology OR innovation",
}

// QueryForField resolves the search query for the given field of interest.
func QueryForField(field string) string {
	if q, ok := fieldQueries[field]; ok {
		return q
	}
	if field == "" {
		return fieldQueries["technology"]
	}
	return field
}

func (s *Rest) getNews(c *gin.Context) {
	ctx := c.Request.Context()

	query := c.Query("query")
	field := c.Query("field")
	if query == "" {
		query = QueryForField(field)
	}

	limit := s.DefaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	refresh := c.Query("refresh") == "true"

	if !refresh {
		if articles, err := s.Cache.Load(ctx); err == nil {
			s.Logger.DebugCtx(ctx, "serving articles from cache", slog.Int("count", len(articles)))
			c.JSON(http.StatusOK, gin.H{"articles": s.enrichAll(c, articles), "cached": true})
			return
		}
	}

	articles := s.Aggregator.Aggregate(ctx, query, limit)

	if len(articles) > 0 {
		meta := map[string]string{"query": query}
		if field != "" {
			meta["field"] = field
		}
		if err := s.Cache.Save(ctx, articles, meta); err != nil {
			s.Logger.WarnCtx(ctx, "failed to save cache", slog.Any("err", err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"articles": s.enrichAll(c, articles), "cached": false})
}

func (s *Rest) enrichAll(c *gin.Context, articles []store.Article) []newsArticle {
	result := make([]newsArticle, 0, len(articles))
	for _, article := range articles {
		result = append(result, s.enrich(c, article))
	}
	return result
}

func (s *Rest) enrich(c *gin.Context, article store.Article) newsArticle {
	ctx := c.Request.Context()

	na := newsArticle{
		Article: article,
		Summary: s.Summarizer.Summarize(article, s.MaxSentences, s.MaxSummaryLen),
		Preview: article.Preview(previewLength),
		Topic:   learn.DetectTopic(article.Title, article.Description),
	}

	if learn.IsEducational(article) {
		na.Educational = true
		na.TutorialURL = learn.TutorialLink(article)
	}

	if ok, err := s.Bookmarks.IsBookmarked(ctx, article.URL); err == nil {
		na.Bookmarked = ok
	}

	return na
}

func (s *Rest) readArticle(c *gin.Context) {
	u := c.Query("url")
	if u == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	article, err := s.Reader.Read(c.Request.Context(), u)
	if err != nil {
		s.Logger.WarnCtx(c.Request.Context(), "failed to read article",
			slog.String("url", u), slog.Any("err", err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read article"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (s *Rest) listBookmarks(c *gin.Context) {
	bookmarks, err := s.Bookmarks.List(c.Request.Context())
	if err != nil {
		s.Logger.ErrorCtx(c.Request.Context(), "failed to list bookmarks", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookmarks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks, "count": len(bookmarks)})
}

func (s *Rest) addBookmark(c *gin.Context) {
	var article store.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article"})
		return
	}
	if article.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article url is required"})
		return
	}

	added, err := s.Bookmarks.Add(c.Request.Context(), article)
	if err != nil {
		s.Logger.ErrorCtx(c.Request.Context(), "failed to add bookmark", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add bookmark"})
		return
	}

	if !added {
		c.JSON(http.StatusConflict, gin.H{"added": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"added": true})
}

func (s *Rest) removeBookmark(c *gin.Context) {
	u := c.Query("url")
	if u == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	if err := s.Bookmarks.Remove(c.Request.Context(), u); err != nil {
		s.Logger.ErrorCtx(c.Request.Context(), "failed to remove bookmark", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove bookmark"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Rest) cacheInfo(c *gin.Context) {
	info, err := s.Cache.Info(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cache is empty"})
			return
		}
		s.Logger.ErrorCtx(c.Request.Context(), "failed to get cache info", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cache info"})
		return
	}

	c.JSON(http.StatusOK, info)
}

func (s *Rest) clearCache(c *gin.Context) {
	if err := s.Cache.Clear(c.Request.Context()); err != nil {
		s.Logger.ErrorCtx(c.Request.Context(), "failed to clear cache", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cache"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Rest) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.Version})
}
