package sites

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrendRadar/internal/scraper"
)

func TestParseService(t *testing.T) {
	t.Parallel()

	svc := parseService("Limpeza — 20€/hora")
	if svc.Name != "Limpeza" {
		t.Fatalf("unexpected name: %q", svc.Name)
	}
	if svc.Price != "20€" {
		t.Fatalf("unexpected price: %q", svc.Price)
	}
	if svc.PriceModel != "hourly" {
		t.Fatalf("unexpected model: %q", svc.PriceModel)
	}

	svc = parseService("Mudanças 50€")
	if svc.Name != "Mudanças" || svc.Price != "50€" || svc.PriceModel != "flat" {
		t.Fatalf("unexpected service: %+v", svc)
	}

	svc = parseService("Montagem de móveis")
	if svc.Name != "Montagem de móveis" || svc.Price != "" {
		t.Fatalf("unexpected service: %+v", svc)
	}
}

func TestParsePromotion(t *testing.T) {
	t.Parallel()

	promo := parsePromotion("Use o código WELCOME10 e ganhe 10% na primeira reserva")
	if promo.Code != "WELCOME10" {
		t.Fatalf("unexpected code: %q", promo.Code)
	}
	if promo.Discount != "10%" {
		t.Fatalf("unexpected discount: %q", promo.Discount)
	}

	promo = parsePromotion("Desconto de 15% em limpezas")
	if promo.Code != "15%" || promo.Discount != "15%" {
		t.Fatalf("unexpected promotion: %+v", promo)
	}
}

func TestFixoScraperScrape(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/servicos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="service">Limpeza — 20€/hora</div>
			<div class="service">Canalização — 35€/hora</div>
		</body></html>`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="promo">Código WELCOME10: 10% na primeira reserva</div>
		</body></html>`))
	})
	mux.HandleFunc("/localizacoes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<ul><li class="location-item">Lisboa</li><li class="location-item">Porto</li></ul>
		</body></html>`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "test-agent", 1)
	sc := NewFixoScraper(fetcher, nil)

	snapshot, err := sc.Scrape(context.Background(), scraper.Request{
		CompanyID:  "fixo",
		CapturedAt: time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC),
		Pages: map[string]string{
			"home":      server.URL + "/",
			"services":  server.URL + "/servicos",
			"locations": server.URL + "/localizacoes",
		},
	})
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}

	if snapshot.CompanyID != "fixo" {
		t.Fatalf("unexpected company: %s", snapshot.CompanyID)
	}
	if len(snapshot.Services) != 2 {
		t.Fatalf("expected 2 services, got %d: %+v", len(snapshot.Services), snapshot.Services)
	}
	if snapshot.Services[0].Name != "Limpeza" || snapshot.Services[0].Price != "20€" {
		t.Fatalf("unexpected first service: %+v", snapshot.Services[0])
	}
	if len(snapshot.Promotions) != 1 || snapshot.Promotions[0].Code != "WELCOME10" {
		t.Fatalf("unexpected promotions: %+v", snapshot.Promotions)
	}
	if len(snapshot.Locations) != 2 {
		t.Fatalf("unexpected locations: %+v", snapshot.Locations)
	}
	if len(snapshot.PageHashes) != 3 {
		t.Fatalf("expected 3 page hashes, got %d", len(snapshot.PageHashes))
	}
	for page, hash := range snapshot.PageHashes {
		if len(hash) != 64 {
			t.Fatalf("page %s: hash is not sha256 hex: %q", page, hash)
		}
	}
}
