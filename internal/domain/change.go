package domain

import "time"

// ChangeCategory identifies which part of the offering a change belongs to.
type ChangeCategory string

const (
	CategoryServices      ChangeCategory = "services"
	CategoryPricing       ChangeCategory = "pricing"
	CategoryLocations     ChangeCategory = "locations"
	CategoryPromotions    ChangeCategory = "promotions"
	CategoryBusinessModel ChangeCategory = "business_model"
)

// ChangeType distinguishes how an entry differed between two snapshots.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Severity grades how much attention a change deserves in reports.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Change is one detected difference between two consecutive snapshots of the
// same company. OldValue is empty for additions, NewValue for removals.
type Change struct {
	CompanyID  string         `json:"company_id"`
	Category   ChangeCategory `json:"category"`
	Type       ChangeType     `json:"type"`
	Field      string         `json:"field"`
	OldValue   string         `json:"old_value,omitempty"`
	NewValue   string         `json:"new_value,omitempty"`
	Severity   Severity       `json:"severity"`
	DetectedAt time.Time      `json:"detected_at"`
}

var categoryLabels = map[ChangeCategory]string{
	CategoryServices:      "Services",
	CategoryPricing:       "Pricing",
	CategoryLocations:     "Locations",
	CategoryPromotions:    "Promotions",
	CategoryBusinessModel: "Business Model",
}

// Label returns a human-readable category name for reports.
func (c ChangeCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
