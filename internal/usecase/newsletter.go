package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"TrendRadar/internal/config"
	"TrendRadar/internal/dedup"
	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
	"TrendRadar/internal/report"
	"TrendRadar/internal/scoring"
)

// NewsletterDeps wires the adapters used by the newsletter pipeline.
type NewsletterDeps struct {
	News     ports.NewsSource
	Analyzer ports.Analyzer
	History  ports.HistoryStore
	Archive  ports.ArticleArchive
	Sender   ports.NewsletterSender
	Logger   *slog.Logger
	Config   config.NewsletterConfig
}

// Newsletter implements the weekly issue workflow: fetch recent articles, drop
// everything already published, score the rest, and deliver the top picks.
type Newsletter struct {
	news     ports.NewsSource
	analyzer ports.Analyzer
	history  ports.HistoryStore
	archive  ports.ArticleArchive
	sender   ports.NewsletterSender
	logger   *slog.Logger
	cfg      config.NewsletterConfig
	now      func() time.Time
}

// IssueResult reports what one newsletter run produced.
type IssueResult struct {
	Issue    report.Issue
	Subject  string
	HTML     string
	Text     string
	Sent     bool
	Selected []domain.Article
}

// NewNewsletter constructs the newsletter pipeline.
func NewNewsletter(deps NewsletterDeps) *Newsletter {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := deps.Config
	if cfg.MinScore <= 0 {
		cfg.MinScore = scoring.DefaultMinScore
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = dedup.DefaultTitleSimilarity
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 7
	}
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 12
	}

	return &Newsletter{
		news:     deps.News,
		analyzer: deps.Analyzer,
		history:  deps.History,
		archive:  deps.Archive,
		sender:   deps.Sender,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run produces one issue. With preview set, the issue is rendered but neither
// sent nor recorded in history. A run that selects no articles returns a nil
// result without error.
func (n *Newsletter) Run(ctx context.Context, preview bool) (*IssueResult, error) {
	if n.news == nil {
		return nil, nil
	}

	now := n.now().UTC()
	cutoff := now.AddDate(0, 0, -n.cfg.MaxAgeDays)

	candidates, err := n.news.FetchSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	n.logger.Info("articles fetched", "count", len(candidates), "cutoff", cutoff)

	fresh, err := n.dropPublished(ctx, candidates)
	if err != nil {
		return nil, err
	}
	n.logger.Info("articles after dedup", "count", len(fresh))

	selected, err := n.scoreAndSelect(ctx, fresh)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		n.logger.Info("no articles cleared the relevance bar, skipping issue")
		return nil, nil
	}

	issue := report.NewIssue(selected, now)
	html, err := report.RenderHTML(issue)
	if err != nil {
		return nil, err
	}

	result := &IssueResult{
		Issue:    issue,
		Subject:  report.Subject(n.cfg.SubjectPrefix, now),
		HTML:     html,
		Text:     report.RenderText(issue),
		Selected: selected,
	}

	if preview {
		return result, nil
	}

	if n.sender != nil {
		if err := n.sender.Send(ctx, result.Subject, result.HTML, result.Text); err != nil {
			return nil, fmt.Errorf("deliver issue: %w", err)
		}
		result.Sent = true
	}

	if err := n.record(ctx, issue, selected, now); err != nil {
		// The issue already went out; surface the bookkeeping failure.
		return result, err
	}

	n.logger.Info("issue published", "issue", issue.ID, "articles", len(selected))
	return result, nil
}

// dropPublished removes candidates already covered by a past issue, first via
// the history log and then via the optional archive.
func (n *Newsletter) dropPublished(ctx context.Context, candidates []domain.Article) ([]domain.Article, error) {
	var history []domain.HistoryEntry
	if n.history != nil {
		var err error
		history, err = n.history.Entries(ctx)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
	}

	fresh := dedup.FilterNew(candidates, history, n.cfg.SimilarityThreshold)

	if n.archive == nil || len(fresh) == 0 {
		return fresh, nil
	}

	urls := make([]string, len(fresh))
	for i, a := range fresh {
		urls[i] = a.URL
	}
	published, err := n.archive.AlreadyPublished(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("check archive: %w", err)
	}

	kept := make([]domain.Article, 0, len(fresh))
	for _, a := range fresh {
		if !published[a.URL] {
			kept = append(kept, a)
		}
	}
	return kept, nil
}

// scoreAndSelect analyzes each candidate, recomputes the weighted total, and
// keeps the highest scoring articles above the minimum.
func (n *Newsletter) scoreAndSelect(ctx context.Context, candidates []domain.Article) ([]domain.Article, error) {
	if n.analyzer == nil {
		return nil, nil
	}

	weights := scoring.Weights(n.cfg.Weights)
	if len(weights) == 0 {
		weights = scoring.DefaultWeights()
	}

	var selected []domain.Article
	for _, article := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		analysis, err := n.analyzer.Analyze(ctx, article)
		if err != nil {
			n.logger.Warn("analysis failed, skipping article", "url", article.URL, "error", err)
			continue
		}

		result, err := scoring.Score(analysis.Scores, weights)
		if err != nil {
			n.logger.Warn("scoring failed, skipping article", "url", article.URL, "error", err)
			continue
		}
		analysis.OverallScore = result.Total
		article.Analysis = analysis

		if result.Total < n.cfg.MinScore {
			n.logger.Debug("article below threshold", "url", article.URL, "score", result.Total)
			continue
		}
		selected = append(selected, article)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Analysis.OverallScore > selected[j].Analysis.OverallScore
	})
	if len(selected) > n.cfg.MaxArticles {
		selected = selected[:n.cfg.MaxArticles]
	}
	return selected, nil
}

// record appends the issue to the history log and the optional archive so
// future runs never repeat these articles.
func (n *Newsletter) record(ctx context.Context, issue report.Issue, selected []domain.Article, now time.Time) error {
	if n.history != nil {
		entry := domain.HistoryEntry{IssueID: issue.ID, PublishedAt: now}
		for _, a := range selected {
			entry.Articles = append(entry.Articles, domain.PublishedArticle{URL: a.URL, Title: a.Title})
		}
		if err := n.history.Append(ctx, entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
	}

	if n.archive != nil {
		for _, a := range selected {
			if err := n.archive.SavePublished(ctx, issue.ID, a); err != nil {
				return fmt.Errorf("archive article %s: %w", a.URL, err)
			}
		}
	}
	return nil
}
