package sites

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TrendRadar/internal/config"
	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
	"TrendRadar/internal/scraper"
)

// Source implements ports.CompanySource via registered scraper strategies.
type Source struct {
	registry  *scraper.Registry
	companies []config.CompanyConfig
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.CompanySource = (*Source)(nil)

// NewSource wires the scraper registry with config-defined companies.
func NewSource(reg *scraper.Registry, companies []config.CompanyConfig, logger *slog.Logger) *Source {
	return &Source{
		registry:  reg,
		companies: companies,
		logger:    logger,
		now:       time.Now,
	}
}

// Companies lists the configured company identifiers.
func (s *Source) Companies() []string {
	ids := make([]string, 0, len(s.companies))
	for _, company := range s.companies {
		ids = append(ids, company.ID)
	}
	return ids
}

// Capture scrapes a fresh snapshot for one company.
func (s *Source) Capture(ctx context.Context, companyID string) (*domain.Snapshot, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scraper registry is not configured")
	}

	company, err := s.find(companyID)
	if err != nil {
		return nil, err
	}

	strategy, err := s.registry.Resolve(company.Scraper)
	if err != nil {
		return nil, fmt.Errorf("company %s: %w", companyID, err)
	}

	if s.logger != nil {
		s.logger.Debug("capture company", "company", companyID, "scraper", company.Scraper, "pages", len(company.Pages))
	}

	snapshot, err := strategy.Scrape(ctx, scraper.Request{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Pages:       company.Pages,
		CapturedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("scrape company %s: %w", companyID, err)
	}
	return snapshot, nil
}

func (s *Source) find(companyID string) (config.CompanyConfig, error) {
	for _, company := range s.companies {
		if company.ID == companyID {
			return company, nil
		}
	}
	return config.CompanyConfig{}, fmt.Errorf("company %s is not configured", companyID)
}
