package sites

import (
	"context"
	"fmt"
	"log/slog"

	"TrendRadar/internal/domain"
	"TrendRadar/internal/scraper"
)

// WebelScraper captures snapshots of the Webel marketplace.
type WebelScraper struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

var _ scraper.Scraper = (*WebelScraper)(nil)

func NewWebelScraper(fetcher *Fetcher, logger *slog.Logger) *WebelScraper {
	return &WebelScraper{fetcher: fetcher, logger: logger}
}

func (s *WebelScraper) Name() string {
	return "webel"
}

// Scrape mirrors the fixo strategy with Webel's markup: services live in
// category tiles and prices are advertised inline on the cards.
func (s *WebelScraper) Scrape(ctx context.Context, req scraper.Request) (*domain.Snapshot, error) {
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
	}

	for _, name := range []string{"services", "home"} {
		page := pages[name]
		if page == nil {
			continue
		}
		for _, text := range collectText(page.Doc, [][]string{
			{".category-tile", ".category-card", "[data-category]"},
			{"section h2", "section h3"},
		}, 200) {
			svc := parseService(text)
			if !hasService(snapshot.Services, svc.Name) {
				snapshot.Services = append(snapshot.Services, svc)
			}
		}
	}

	if page := pages["pricing"]; page != nil {
		snapshot.Pricing = pricingPairs(page.Doc)
	}
	if page := pages["home"]; page != nil {
		snapshot.Locations = collectText(page.Doc, [][]string{
			{".city-selector option", ".cities li"},
		}, 80)
		for _, text := range collectText(page.Doc, [][]string{{".promo-banner", ".discount"}}, 300) {
			snapshot.Promotions = append(snapshot.Promotions, parsePromotion(text))
		}
	}
	if page := pages["about"]; page != nil {
		snapshot.BusinessInfo = aboutInfo(page)
	}

	return snapshot, nil
}

func hasService(services []domain.Service, name string) bool {
	for _, svc := range services {
		if svc.Name == name {
			return true
		}
	}
	return false
}
