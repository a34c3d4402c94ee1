package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendRadar/internal/domain"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Ratio("insurtech", "insurtech"))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))

	// One matching block "bcd" of 3 over total length 8.
	assert.InDelta(t, 0.75, Ratio("abcd", "bcde"), 1e-9)
}

func TestRatioIsSymmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"ai transforms insurance", "ai transforms the insurance industry"},
		{"cloud claims automation", "claims automation cloud"},
		{"", "nonempty"},
	}
	for _, p := range pairs {
		assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "pair %q / %q", p[0], p[1])
	}
}

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ai transforms insurance", NormalizeTitle("  AI   Transforms\tInsurance\n"))
	assert.Equal(t, "", NormalizeTitle("   "))
}

func historyWith(articles ...domain.PublishedArticle) []domain.HistoryEntry {
	return []domain.HistoryEntry{{
		IssueID:     "issue-1",
		PublishedAt: time.Date(2026, time.February, 23, 8, 0, 0, 0, time.UTC),
		Articles:    articles,
	}}
}

func TestFilterNewEmptyHistoryIsIdentity(t *testing.T) {
	t.Parallel()

	candidates := []domain.Article{
		{URL: "https://example.com/a", Title: "First"},
		{URL: "https://example.com/b", Title: "Second"},
	}

	got := FilterNew(candidates, nil, DefaultTitleSimilarity)
	assert.Equal(t, candidates, got)
}

func TestFilterNewDropsExactURL(t *testing.T) {
	t.Parallel()

	history := historyWith(domain.PublishedArticle{
		URL:   "https://example.com/covered",
		Title: "Completely Different Headline",
	})
	candidates := []domain.Article{
		{URL: "https://example.com/covered", Title: "Totally Unrelated Title"},
		{URL: "https://example.com/fresh", Title: "Quantum Underwriting Arrives"},
	}

	got := FilterNew(candidates, history, DefaultTitleSimilarity)
	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/fresh", got[0].URL)
}

func TestFilterNewDropsSimilarTitle(t *testing.T) {
	t.Parallel()

	history := historyWith(domain.PublishedArticle{
		URL:   "https://example.com/old",
		Title: "AI Transforms The Insurance Industry",
	})
	candidates := []domain.Article{
		{URL: "https://example.com/new", Title: "AI Transforms Insurance"},
		{URL: "https://example.com/other", Title: "Lisbon Startup Raises Series B"},
	}

	got := FilterNew(candidates, history, 0.75)
	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/other", got[0].URL)
}

func TestFilterNewPreservesOrder(t *testing.T) {
	t.Parallel()

	history := historyWith(domain.PublishedArticle{URL: "https://example.com/b", Title: "B"})
	candidates := []domain.Article{
		{URL: "https://example.com/c", Title: "Gamma"},
		{URL: "https://example.com/b", Title: "Beta"},
		{URL: "https://example.com/a", Title: "Alpha"},
	}

	got := FilterNew(candidates, history, DefaultTitleSimilarity)
	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/c", got[0].URL)
	assert.Equal(t, "https://example.com/a", got[1].URL)
}

func TestFilterNewNeverMutatesHistory(t *testing.T) {
	t.Parallel()

	history := historyWith(
		domain.PublishedArticle{URL: "https://example.com/x", Title: "X"},
		domain.PublishedArticle{URL: "https://example.com/y", Title: "Y"},
	)
	candidates := []domain.Article{{URL: "https://example.com/x", Title: "X"}}

	FilterNew(candidates, history, DefaultTitleSimilarity)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Articles, 2)
}
