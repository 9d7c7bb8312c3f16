// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pkgz/requester"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"newsdigest/app/api"
	"newsdigest/app/fetcher"
	"newsdigest/app/reader"
	"newsdigest/app/store"
	"newsdigest/app/summary"
	"newsdigest/pkg/logx"
)

// Run is a command to run the news digest server.
type Run struct {
	Addr      string `long:"addr" env:"ADDR" default:":8080" description:"address to listen on"`
	StorePath string `long:"store-path" env:"STORE_PATH" default:"./var" description:"parent dir for bolt files"`

	Cache struct {
		TTL time.Duration `long:"ttl" env:"TTL" default:"6h" description:"offline cache expiry"`
	} `group:"cache" namespace:"cache" env-namespace:"CACHE"`

	Fetch struct {
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"timeout for source requests"`
		Limit   int           `long:"limit" env:"LIMIT" default:"20" description:"default article cap per aggregation"`

		Guardian struct {
			URL string `long:"url" env:"URL" description:"guardian API base URL"`
			Key string `long:"key" env:"KEY" description:"guardian API key, free tier used when empty"`
		} `group:"guardian" namespace:"guardian" env-namespace:"GUARDIAN"`

		NewsAPI struct {
			URL string `long:"url" env:"URL" description:"newsapi base URL"`
			Key string `long:"key" env:"KEY" description:"newsapi key, source disabled when empty"`
		} `group:"newsapi" namespace:"newsapi" env-namespace:"NEWSAPI"`
	} `group:"fetch" namespace:"fetch" env-namespace:"FETCH"`

	Summary struct {
		MaxSentences int `long:"max-sentences" env:"MAX_SENTENCES" default:"3" description:"sentences per summary"`
		MaxLength    int `long:"max-length" env:"MAX_LENGTH" default:"250" description:"summary length cap"`
	} `group:"summary" namespace:"summary" env-namespace:"SUMMARY"`
}

// Version is the application version, stamped by the entrypoint.
var Version = "unknown"

// Execute runs the command.
func (r Run) Execute(_ []string) error {
	lg := slog.Default()

	s, err := store.NewBolt(r.StorePath, r.Cache.TTL)
	if err != nil {
		return fmt.Errorf("make store: %w", err)
	}

	defer func() {
		if err := s.Close(); err != nil {
			lg.Error("close bolt store", slog.Any("err", err))
		}
	}()

	httpCl := func(prefix string) *http.Client {
		return requester.New(
			http.Client{Timeout: r.Fetch.Timeout},
			logx.LoggingRoundTripper(
				lg.With(slog.String("prefix", prefix)),
				logx.RoundTripperOpts{
					Level:        slog.LevelDebug,
					SecretParams: []string{"api-key", "apiKey"},
				},
			),
		).Client()
	}

	agg := fetcher.NewAggregator(
		lg.With(slog.String("prefix", "aggregator")),
		fetcher.NewGuardian(
			lg.With(slog.String("prefix", "guardian")),
			httpCl("guardian"),
			r.Fetch.Guardian.URL,
			r.Fetch.Guardian.Key,
		),
		fetcher.NewRSS(
			lg.With(slog.String("prefix", "rss")),
			httpCl("rss"),
			fetcher.DefaultFeeds(),
		),
		fetcher.NewNewsAPI(
			lg.With(slog.String("prefix", "newsapi")),
			httpCl("newsapi"),
			r.Fetch.NewsAPI.URL,
			r.Fetch.NewsAPI.Key,
		),
	)

	rdr := reader.NewService(
		lg.With(slog.String("prefix", "reader")),
		httpCl("reader"),
		reader.NewExtractor(false),
	)

	rest := &api.Rest{
		Logger:        lg.With(slog.String("prefix", "api")),
		Aggregator:    agg,
		Reader:        rdr,
		Summarizer:    summary.New(),
		Bookmarks:     s,
		Cache:         s,
		Version:       Version,
		MaxSentences:  r.Summary.MaxSentences,
		MaxSummaryLen: r.Summary.MaxLength,
		DefaultLimit:  r.Fetch.Limit,
	}

	srv := &http.Server{
		Addr:              r.Addr,
		Handler:           rest.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-sig:
			slog.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	ewg.Go(func() error {
		lg.Info("starting server", slog.String("addr", r.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})
	ewg.Go(func() error {
		<-ctx.Done()

		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		lg.Info("shutting down server")
		if err := srv.Shutdown(shCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("server stopped")
	return nil
}
