// Package app wires configuration into the pipelines and their adapters.
package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"TrendRadar/internal/config"
	"TrendRadar/internal/domain"
	"TrendRadar/internal/infrastructure/analyzer"
	"TrendRadar/internal/infrastructure/email"
	"TrendRadar/internal/infrastructure/feed"
	"TrendRadar/internal/infrastructure/scheduler"
	"TrendRadar/internal/infrastructure/sites"
	"TrendRadar/internal/infrastructure/storage"
	"TrendRadar/internal/logging"
	"TrendRadar/internal/ports"
	"TrendRadar/internal/report"
	"TrendRadar/internal/scraper"
	"TrendRadar/internal/usecase"
)

// Application holds the wired pipelines and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	tracker    *usecase.Tracker
	newsletter *usecase.Newsletter
	source     ports.CompanySource
	snapshots  ports.SnapshotStore
	db         *sql.DB
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.Scraping.TimeoutSeconds) * time.Second}

	fetcher := sites.NewFetcher(httpClient, cfg.Scraping.UserAgent, cfg.Scraping.MaxRetries)
	registry := scraper.NewRegistry()
	registry.Register(sites.NewFixoScraper(fetcher, baseLogger.With("component", "scraper.fixo")))
	registry.Register(sites.NewWebelScraper(fetcher, baseLogger.With("component", "scraper.webel")))
	registry.Register(sites.NewTaskRabbitScraper(fetcher, baseLogger.With("component", "scraper.taskrabbit")))

	source := sites.NewSource(registry, cfg.Companies, baseLogger.With("component", "source"))
	snapshots := storage.NewSnapshotStore(cfg.Storage.SnapshotsDir, cfg.Storage.SnapshotsPerCompany)
	history := storage.NewHistoryStore(cfg.Storage.HistoryFile)
	reports := report.NewSaver(cfg.Storage.ReportsDir)

	var db *sql.DB
	var archive ports.ArticleArchive
	if cfg.Storage.DatabaseDSN != "" {
		conn, err := sql.Open("postgres", cfg.Storage.DatabaseDSN)
		if err != nil {
			baseLogger.Warn("postgres archive unavailable", "error", err)
		} else {
			db = conn
			archive = storage.NewPostgresArchive(conn)
		}
	}

	var newsAnalyzer ports.Analyzer
	if cfg.Analyzer.APIKey != "" {
		newsAnalyzer = analyzer.NewOpenAIAnalyzer(cfg.Analyzer)
	}

	tracker := usecase.NewTracker(usecase.TrackerDeps{
		Source:    source,
		Snapshots: snapshots,
		Reports:   reports,
		Logger:    baseLogger.With("component", "tracker"),
	})

	newsletter := usecase.NewNewsletter(usecase.NewsletterDeps{
		News:     feed.NewRSSFetcher(cfg.Feeds, httpClient, baseLogger.With("component", "feeds")),
		Analyzer: newsAnalyzer,
		History:  history,
		Archive:  archive,
		Sender:   email.NewSender(cfg.Email),
		Logger:   baseLogger.With("component", "newsletter"),
		Config:   cfg.Newsletter,
	})

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		tracker:    tracker,
		newsletter: newsletter,
		source:     source,
		snapshots:  snapshots,
		db:         db,
	}
}

// Track runs the snapshot pipeline once.
func (a *Application) Track(ctx context.Context) ([]usecase.CompanyResult, error) {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.tracker.Run(ctx, now.UTC())
}

// Status returns the latest stored snapshot for every configured company.
// Companies without a stored capture map to nil.
func (a *Application) Status(ctx context.Context) (map[string]*domain.Snapshot, error) {
	out := make(map[string]*domain.Snapshot)
	for _, companyID := range a.source.Companies() {
		latest, err := a.snapshots.Latest(ctx, companyID)
		if err != nil {
			return nil, err
		}
		out[companyID] = latest
	}
	return out, nil
}

// Newsletter runs the issue pipeline once. With preview set, the rendered
// issue is returned without being sent or recorded.
func (a *Application) Newsletter(ctx context.Context, preview bool) (*usecase.IssueResult, error) {
	return a.newsletter.Run(ctx, preview)
}

// Schedule runs both pipelines on the configured interval until the context
// is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	interval := time.Duration(a.cfg.Scheduler.IntervalHours) * time.Hour
	driver := scheduler.NewIntervalScheduler(interval)
	runner := usecase.NewScheduler(driver, a.tracker, a.newsletter, a.logger.With("component", "scheduler"))

	if err := runner.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return runner.Stop(context.Background())
}

// Close releases pooled resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
