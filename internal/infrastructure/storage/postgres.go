package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
)

// PostgresArchive keeps an audit trail of articles included in sent issues.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleArchive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AlreadyPublished returns a map with URLs that already exist in the archive.
func (a *PostgresArchive) AlreadyPublished(ctx context.Context, urls []string) (map[string]bool, error) {
	if a.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := a.builder.
		Select("url").
		From("published_articles").
		Where(sq.Eq{"url": urls}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build published query: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query published: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SavePublished upserts one published article row.
func (a *PostgresArchive) SavePublished(ctx context.Context, issueID string, article domain.Article) error {
	if a.db == nil {
		return nil
	}

	score := 0.0
	action := string(domain.ActionMonitor)
	if article.Analysis != nil {
		score = article.Analysis.OverallScore
		action = string(article.Analysis.Action)
	}

	query, args, err := a.builder.
		Insert("published_articles").
		Columns("url", "title", "source", "issue_id", "score", "action", "published_at").
		Values(article.URL, article.Title, article.Source, issueID, score, action, article.PublishedAt).
		Suffix(`ON CONFLICT (url) DO UPDATE
                SET issue_id = EXCLUDED.issue_id,
                    score = EXCLUDED.score,
                    action = EXCLUDED.action,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build published insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert published: %w", err)
	}
	return nil
}
