// Package sites implements the per-company page scrapers behind the
// scraper registry.
package sites

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is one fetched and parsed company page plus its content hash.
type Page struct {
	Doc  *goquery.Document
	Hash string
}

// Fetcher wraps HTTP retrieval with retries, backoff and content hashing.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries int
}

// NewFetcher wires an HTTP client; nil falls back to a 30s-timeout default.
func NewFetcher(client *http.Client, userAgent string, maxRetries int) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if userAgent == "" {
		userAgent = "TrendRadar-CompetitiveIntel/1.0"
	}
	return &Fetcher{client: client, userAgent: userAgent, maxRetries: maxRetries}
}

// FetchPage retrieves one URL with exponential backoff between attempts.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		page, err := f.fetchOnce(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if attempt < f.maxRetries {
			wait := time.Duration(1<<attempt) * time.Second
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", pageURL, lastErr)
}

// FetchPages retrieves every named page, skipping the ones that keep
// failing; a page missing from a capture is not fatal for the snapshot.
func (f *Fetcher) FetchPages(ctx context.Context, pages map[string]string, logger *slog.Logger) map[string]*Page {
	fetched := make(map[string]*Page, len(pages))
	for name, pageURL := range pages {
		page, err := f.FetchPage(ctx, pageURL)
		if err != nil {
			if logger != nil {
				logger.Warn("page fetch failed", "page", name, "url", pageURL, "error", err)
			}
			continue
		}
		fetched[name] = page
	}
	return fetched
}

func (f *Fetcher) fetchOnce(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return &Page{Doc: doc, Hash: contentHash(raw)}, nil
}

func contentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func pageHashes(pages map[string]*Page) map[string]string {
	hashes := make(map[string]string, len(pages))
	for name, page := range pages {
		hashes[name] = page.Hash
	}
	return hashes
}
