package sites

import (
	"context"
	"fmt"
	"log/slog"

	"TrendRadar/internal/domain"
	"TrendRadar/internal/scraper"
)

// FixoScraper captures snapshots of the FIXO home-services site.
type FixoScraper struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

var _ scraper.Scraper = (*FixoScraper)(nil)

// NewFixoScraper wires the shared page fetcher.
func NewFixoScraper(fetcher *Fetcher, logger *slog.Logger) *FixoScraper {
	return &FixoScraper{fetcher: fetcher, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *FixoScraper) Name() string {
	return "fixo"
}

// Scrape fetches the configured pages and assembles a snapshot.
func (s *FixoScraper) Scrape(ctx context.Context, req scraper.Request) (*domain.Snapshot, error) {
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

	serviceTexts := s.serviceTexts(pages)
	seen := map[string]struct{}{}
	for _, text := range serviceTexts {
		svc := parseService(text)
		if _, ok := seen[svc.Name]; ok {
			continue
		}
		seen[svc.Name] = struct{}{}
		snapshot.Services = append(snapshot.Services, svc)
	}

	if page := pages["pricing"]; page != nil {
		snapshot.Pricing = pricingPairs(page.Doc)
	}
	if page := pages["locations"]; page != nil {
		snapshot.Locations = collectText(page.Doc, [][]string{
			{".location", ".city", "li.location-item"},
			{"ul.locations li", ".locations li"},
		}, 80)
	}
	if page := pages["home"]; page != nil {
		for _, text := range collectText(page.Doc, [][]string{
			{".promo", ".promotion", ".banner-promo", "[data-promo]"},
		}, 300) {
			snapshot.Promotions = append(snapshot.Promotions, parsePromotion(text))
		}
	}
	if page := pages["about"]; page != nil {
		snapshot.BusinessInfo = aboutInfo(page)
	}

	if s.logger != nil {
		s.logger.Debug("snapshot assembled",
			"company", req.CompanyID,
			"services", len(snapshot.Services),
			"locations", len(snapshot.Locations),
			"promotions", len(snapshot.Promotions))
	}
	return snapshot, nil
}

func (s *FixoScraper) serviceTexts(pages map[string]*Page) []string {
	var texts []string
	for _, name := range []string{"services", "home"} {
		page := pages[name]
		if page == nil {
			continue
		}
		texts = append(texts, collectText(page.Doc, [][]string{
			{"div.service", "div.servico", ".service-card", ".service-item", "li.service", "a.service-link", "[data-service]"},
			{"section h2", "section h3"},
		}, 200)...)
	}
	return texts
}
