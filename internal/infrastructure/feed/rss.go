// Package feed pulls candidate articles from configured RSS sources.
package feed

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"TrendRadar/internal/config"
	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
)

const defaultEntryLimit = 15

// RSSFetcher implements ports.NewsSource over a set of RSS feeds.
type RSSFetcher struct {
	feeds  []config.FeedConfig
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.NewsSource = (*RSSFetcher)(nil)

// NewRSSFetcher builds a fetcher; nil client falls back to a 30s timeout.
func NewRSSFetcher(feeds []config.FeedConfig, client *http.Client, logger *slog.Logger) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client

	return &RSSFetcher{feeds: feeds, parser: parser, logger: logger}
}

// FetchSince parses every configured feed and returns entries published at
// or after the cutoff. A feed that fails to parse is logged and skipped so
// one dead source does not starve the newsletter.
func (f *RSSFetcher) FetchSince(ctx context.Context, cutoff time.Time) ([]domain.Article, error) {
	var articles []domain.Article

	for _, src := range f.feeds {
		parsed, err := f.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if f.logger != nil {
				f.logger.Warn("feed parse failed", "feed", src.Name, "url", src.URL, "error", err)
			}
			continue
		}

		limit := src.Limit
		if limit <= 0 {
			limit = defaultEntryLimit
		}

		count := 0
		for _, item := range parsed.Items {
			if count >= limit {
				break
			}

			published := publishedAt(item)
			if !published.IsZero() && published.Before(cutoff) {
				continue
			}
			if item.Link == "" || item.Title == "" {
				continue
			}

			source := src.Name
			if source == "" {
				source = parsed.Title
			}

			articles = append(articles, domain.Article{
				URL:         item.Link,
				Title:       strings.TrimSpace(item.Title),
				Source:      source,
				Section:     src.Section,
				Summary:     strings.TrimSpace(item.Description),
				PublishedAt: published,
			})
			count++
		}

		if f.logger != nil {
			f.logger.Debug("feed fetched", "feed", src.Name, "entries", count)
		}
	}

	return articles, nil
}

func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return time.Time{}
}
