// Package diff compares two time-ordered snapshots of a company's public
// offering and reports what changed between them.
package diff

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"TrendRadar/internal/domain"
)

var categoryOrder = map[domain.ChangeCategory]int{
	domain.CategoryServices:      0,
	domain.CategoryPricing:       1,
	domain.CategoryLocations:     2,
	domain.CategoryPromotions:    3,
	domain.CategoryBusinessModel: 4,
}

var typeOrder = map[domain.ChangeType]int{
	domain.ChangeAdded:    0,
	domain.ChangeRemoved:  1,
	domain.ChangeModified: 2,
}

// Detect compares a previous and a current snapshot of the same company and
// returns every detected change. A nil previous snapshot means the first-ever
// capture: every entry in current is reported as added and nothing as removed
// or modified. The result ordering is canonical (category, then change type,
// then field ascending) so reports are reproducible.
func Detect(prev, curr *domain.Snapshot, detectedAt time.Time) ([]domain.Change, error) {
	if curr == nil {
		return nil, errors.New("current snapshot is required")
	}
	if prev != nil && prev.CompanyID != curr.CompanyID {
		return nil, fmt.Errorf("snapshots belong to different companies: %s vs %s",
			prev.CompanyID, curr.CompanyID)
	}

	base := domain.Snapshot{CompanyID: curr.CompanyID}
	if prev != nil {
		base = *prev
	}

	d := detector{company: curr.CompanyID, at: detectedAt}

	var changes []domain.Change
	changes = append(changes, d.serviceChanges(base.Services, curr.Services)...)
	changes = append(changes, d.bagChanges(domain.CategoryPricing, base.Pricing, curr.Pricing,
		domain.SeverityMedium, domain.SeverityMedium, domain.SeverityHigh)...)
	changes = append(changes, d.locationChanges(base.Locations, curr.Locations)...)
	changes = append(changes, d.promotionChanges(base.Promotions, curr.Promotions)...)
	changes = append(changes, d.bagChanges(domain.CategoryBusinessModel, base.BusinessInfo, curr.BusinessInfo,
		domain.SeverityInfo, domain.SeverityInfo, domain.SeverityMedium)...)
	changes = append(changes, d.pageChanges(base.PageHashes, curr.PageHashes)...)

	sortChanges(changes)
	return changes, nil
}

type detector struct {
	company string
	at      time.Time
}

func (d detector) change(cat domain.ChangeCategory, typ domain.ChangeType, field, oldVal, newVal string, sev domain.Severity) domain.Change {
	return domain.Change{
		CompanyID:  d.company,
		Category:   cat,
		Type:       typ,
		Field:      field,
		OldValue:   oldVal,
		NewValue:   newVal,
		Severity:   sev,
		DetectedAt: d.at,
	}
}

func (d detector) serviceChanges(old, cur []domain.Service) []domain.Change {
	oldByName := make(map[string]domain.Service, len(old))
	for _, s := range old {
		oldByName[s.Name] = s
	}
	curByName := make(map[string]domain.Service, len(cur))
	for _, s := range cur {
		curByName[s.Name] = s
	}

	var changes []domain.Change
	for name, svc := range curByName {
		prev, ok := oldByName[name]
		if !ok {
			changes = append(changes, d.change(domain.CategoryServices, domain.ChangeAdded,
				name, "", formatService(svc), domain.SeverityHigh))
			continue
		}
		if prev.Price != svc.Price || prev.PriceModel != svc.PriceModel {
			changes = append(changes, d.change(domain.CategoryServices, domain.ChangeModified,
				name, formatService(prev), formatService(svc), domain.SeverityHigh))
		}
	}
	for name, svc := range oldByName {
		if _, ok := curByName[name]; !ok {
			changes = append(changes, d.change(domain.CategoryServices, domain.ChangeRemoved,
				name, formatService(svc), "", domain.SeverityHigh))
		}
	}
	return changes
}

func (d detector) locationChanges(old, cur []string) []domain.Change {
	oldSet := toSet(old)
	curSet := toSet(cur)

	var changes []domain.Change
	for loc := range curSet {
		if _, ok := oldSet[loc]; !ok {
			changes = append(changes, d.change(domain.CategoryLocations, domain.ChangeAdded,
				loc, "", loc, domain.SeverityHigh))
		}
	}
	for loc := range oldSet {
		if _, ok := curSet[loc]; !ok {
			changes = append(changes, d.change(domain.CategoryLocations, domain.ChangeRemoved,
				loc, loc, "", domain.SeverityMedium))
		}
	}
	return changes
}

func (d detector) promotionChanges(old, cur []domain.Promotion) []domain.Change {
	oldByCode := make(map[string]domain.Promotion, len(old))
	for _, p := range old {
		oldByCode[p.Code] = p
	}
	curByCode := make(map[string]domain.Promotion, len(cur))
	for _, p := range cur {
		curByCode[p.Code] = p
	}

	var changes []domain.Change
	for code, promo := range curByCode {
		prev, ok := oldByCode[code]
		if !ok {
			changes = append(changes, d.change(domain.CategoryPromotions, domain.ChangeAdded,
				code, "", formatPromotion(promo), domain.SeverityMedium))
			continue
		}
		if prev.Description != promo.Description || prev.Discount != promo.Discount {
			changes = append(changes, d.change(domain.CategoryPromotions, domain.ChangeModified,
				code, formatPromotion(prev), formatPromotion(promo), domain.SeverityMedium))
		}
	}
	for code, promo := range oldByCode {
		if _, ok := curByCode[code]; !ok {
			changes = append(changes, d.change(domain.CategoryPromotions, domain.ChangeRemoved,
				code, formatPromotion(promo), "", domain.SeverityInfo))
		}
	}
	return changes
}

// bagChanges diffs a flat key-value bag; pricing and business-info share the
// same added/removed/modified shape.
func (d detector) bagChanges(cat domain.ChangeCategory, old, cur map[string]string, addSev, removeSev, modifySev domain.Severity) []domain.Change {
	var changes []domain.Change
	for key, newVal := range cur {
		oldVal, ok := old[key]
		if !ok {
			changes = append(changes, d.change(cat, domain.ChangeAdded, key, "", newVal, addSev))
			continue
		}
		if oldVal != newVal {
			changes = append(changes, d.change(cat, domain.ChangeModified, key, oldVal, newVal, modifySev))
		}
	}
	for key, oldVal := range old {
		if _, ok := cur[key]; !ok {
			changes = append(changes, d.change(cat, domain.ChangeRemoved, key, oldVal, "", removeSev))
		}
	}
	return changes
}

// pageChanges reports content-hash drift for pages present on both sides.
// A page seen on only one side carries no comparable content and is skipped.
func (d detector) pageChanges(old, cur map[string]string) []domain.Change {
	var changes []domain.Change
	for page, newHash := range cur {
		oldHash, ok := old[page]
		if !ok || oldHash == "" || newHash == "" || oldHash == newHash {
			continue
		}
		changes = append(changes, d.change(domain.CategoryBusinessModel, domain.ChangeModified,
			"page:"+page, truncateHash(oldHash), truncateHash(newHash), domain.SeverityInfo))
	}
	return changes
}

func sortChanges(changes []domain.Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if categoryOrder[a.Category] != categoryOrder[b.Category] {
			return categoryOrder[a.Category] < categoryOrder[b.Category]
		}
		if typeOrder[a.Type] != typeOrder[b.Type] {
			return typeOrder[a.Type] < typeOrder[b.Type]
		}
		return a.Field < b.Field
	})
}

func formatService(s domain.Service) string {
	switch {
	case s.Price == "":
		return s.Name
	case s.PriceModel == "":
		return s.Price
	default:
		return fmt.Sprintf("%s (%s)", s.Price, s.PriceModel)
	}
}

func formatPromotion(p domain.Promotion) string {
	switch {
	case p.Description == "":
		return p.Discount
	case p.Discount == "":
		return p.Description
	default:
		return fmt.Sprintf("%s (%s)", p.Description, p.Discount)
	}
}

func truncateHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16] + "..."
	}
	return hash
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
