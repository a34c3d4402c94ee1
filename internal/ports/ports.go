package ports

import (
	"context"
	"time"

	"TrendRadar/internal/domain"
)

// CompanySource captures a fresh snapshot of one tracked company.
type CompanySource interface {
	Capture(ctx context.Context, companyID string) (*domain.Snapshot, error)
	Companies() []string
}

// SnapshotStore persists the immutable snapshot sequence per company.
// Retrieval is newest-first so the differ always receives adjacent entries.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Latest(ctx context.Context, companyID string) (*domain.Snapshot, error)
	Previous(ctx context.Context, companyID string) (*domain.Snapshot, error)
}

// NewsSource pulls candidate articles published after the cutoff.
type NewsSource interface {
	FetchSince(ctx context.Context, cutoff time.Time) ([]domain.Article, error)
}

// Analyzer scores an article across the eight relevance dimensions.
type Analyzer interface {
	Analyze(ctx context.Context, article domain.Article) (*domain.Analysis, error)
}

// HistoryStore is the append-only log of published newsletters the
// deduplicator reads. Append enforces the retention cap.
type HistoryStore interface {
	Entries(ctx context.Context) ([]domain.HistoryEntry, error)
	Append(ctx context.Context, entry domain.HistoryEntry) error
}

// NewsletterSender delivers a rendered issue to the configured recipients.
type NewsletterSender interface {
	Send(ctx context.Context, subject, htmlBody, textBody string) error
}

// ArticleArchive keeps an audit trail of articles that made it into an issue.
type ArticleArchive interface {
	AlreadyPublished(ctx context.Context, urls []string) (map[string]bool, error)
	SavePublished(ctx context.Context, issueID string, article domain.Article) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
