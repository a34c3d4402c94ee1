package domain

import "time"

// HistoryCap is the maximum number of published newsletters retained for
// deduplication. Insertion is append-only; the oldest entry is evicted once
// the cap is exceeded.
const HistoryCap = 52

// PublishedArticle records one article as it appeared in a sent newsletter.
type PublishedArticle struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// HistoryEntry is a persisted record of one previously published newsletter.
type HistoryEntry struct {
	IssueID     string             `json:"issue_id"`
	PublishedAt time.Time          `json:"published_at"`
	Articles    []PublishedArticle `json:"articles"`
}

// URLs returns the article URLs contained in the entry.
func (h HistoryEntry) URLs() []string {
	urls := make([]string, 0, len(h.Articles))
	for _, a := range h.Articles {
		urls = append(urls, a.URL)
	}
	return urls
}

// Titles returns the article titles contained in the entry.
func (h HistoryEntry) Titles() []string {
	titles := make([]string, 0, len(h.Articles))
	for _, a := range h.Articles {
		titles = append(titles, a.Title)
	}
	return titles
}
