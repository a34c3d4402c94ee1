package sites

import (
	"context"
	"fmt"
	"log/slog"

	"TrendRadar/internal/domain"
	"TrendRadar/internal/scraper"
)

// TaskRabbitScraper captures snapshots of the TaskRabbit site.
type TaskRabbitScraper struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

var _ scraper.Scraper = (*TaskRabbitScraper)(nil)

func NewTaskRabbitScraper(fetcher *Fetcher, logger *slog.Logger) *TaskRabbitScraper {
	return &TaskRabbitScraper{fetcher: fetcher, logger: logger}
}

func (s *TaskRabbitScraper) Name() string {
	return "taskrabbit"
}

// Scrape reads TaskRabbit's service directory; city coverage comes from the
// locations footer and per-task rates from the services page itself.
func (s *TaskRabbitScraper) Scrape(ctx context.Context, req scraper.Request) (*domain.Snapshot, error) {
	if len(req.Pages) == 0 {
		return nil, fmt.Errorf("no pages configured for company %s", req.CompanyID)
	}

	pages := s.fetcher.FetchPages(ctx, req.Pages, s.logger)
	if len(pages) == 0 {
		return nil, fmt.Errorf("company %s: no page could be fetched", req.CompanyID)
	}

	snapshot := &domain.Snapshot{
		CompanyID:  req.CompanyID,
		CapturedAt: req.CapturedAt,
		PageHashes: pageHashes(pages),
		Pricing:    map[string]string{},
	}

	if page := pages["services"]; page != nil {
		for _, text := range collectText(page.Doc, [][]string{
			{".task-card", ".category-link", "a[href*=\"/services/\"]"},
			{"section h2", "section h3"},
		}, 200) {
			svc := parseService(text)
			if hasService(snapshot.Services, svc.Name) {
				continue
			}
			snapshot.Services = append(snapshot.Services, svc)
			if svc.Price != "" {
				snapshot.Pricing[svc.Name] = svc.Price
			}
		}
	}

	if page := pages["locations"]; page != nil {
		snapshot.Locations = collectText(page.Doc, [][]string{
			{".footer-cities a", ".city-list li", "a[href*=\"/locations/\"]"},
		}, 80)
	}
	if page := pages["home"]; page != nil {
		for _, text := range collectText(page.Doc, [][]string{{".hero-promo", ".announcement"}}, 300) {
			snapshot.Promotions = append(snapshot.Promotions, parsePromotion(text))
		}
	}
	if page := pages["about"]; page != nil {
		snapshot.BusinessInfo = aboutInfo(page)
	}

	return snapshot, nil
}
