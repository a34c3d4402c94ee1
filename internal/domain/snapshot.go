package domain

import "time"

// Service is one offering extracted from a company's public pages.
type Service struct {
	Name       string `json:"name"`
	Price      string `json:"price,omitempty"`
	PriceModel string `json:"price_model,omitempty"`
}

// Promotion is an active discount campaign keyed by its code.
type Promotion struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Discount    string `json:"discount,omitempty"`
}

// Snapshot captures one company's observed public offering at a point in
// time. Snapshots are immutable once captured; the store keeps them in a
// strictly time-ordered sequence per company.
type Snapshot struct {
	CompanyID    string            `json:"company_id"`
	CapturedAt   time.Time         `json:"captured_at"`
	Services     []Service         `json:"services,omitempty"`
	Pricing      map[string]string `json:"pricing,omitempty"`
	Locations    []string          `json:"locations,omitempty"`
	Promotions   []Promotion       `json:"promotions,omitempty"`
	BusinessInfo map[string]string `json:"business_info,omitempty"`
	PageHashes   map[string]string `json:"page_hashes,omitempty"`
}
