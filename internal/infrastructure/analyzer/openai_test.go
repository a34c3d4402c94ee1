package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"TrendRadar/internal/config"
	"TrendRadar/internal/domain"
)

const analysisJSON = `{
  "business_relevance": 8,
  "disruptive_potential": 7,
  "internal_know_how": 5,
  "market_potential": 7.5,
  "need_for_action": 6,
  "strategic_fit": 8,
  "time_to_market_impact": 6,
  "trend_maturity": 4,
  "recommended_action": "explore",
  "key_insights": ["carriers are buying, not building"],
  "related_topics": ["insurtech"],
  "summary": "Relevant to the transformation agenda."
}`

func TestAnalyzeParsesScores(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "```json\n" + analysisJSON + "\n```"}},
			},
		})
	}))
	defer server.Close()

	a := NewOpenAIAnalyzer(config.AnalyzerConfig{
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})

	analysis, err := a.Analyze(context.Background(), domain.Article{
		URL:   "https://example.com/a",
		Title: "Carriers Acquire InsurTech Startups",
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(analysis.Scores) != len(domain.Dimensions) {
		t.Fatalf("expected %d scores, got %d", len(domain.Dimensions), len(analysis.Scores))
	}
	if analysis.Scores[domain.DimBusinessRelevance] != 8 {
		t.Fatalf("unexpected business relevance: %v", analysis.Scores[domain.DimBusinessRelevance])
	}
	if analysis.Scores[domain.DimMarketPotential] != 7.5 {
		t.Fatalf("unexpected market potential: %v", analysis.Scores[domain.DimMarketPotential])
	}
	if analysis.Action != domain.ActionExplore {
		t.Fatalf("unexpected action: %s", analysis.Action)
	}
	if len(analysis.KeyInsights) != 1 {
		t.Fatalf("unexpected insights: %+v", analysis.KeyInsights)
	}
}

func TestAnalyzeMisconfigured(t *testing.T) {
	t.Parallel()

	a := NewOpenAIAnalyzer(config.AnalyzerConfig{Endpoint: "https://api.example.com"})
	if _, err := a.Analyze(context.Background(), domain.Article{}); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}

func TestParseActionDefaultsToMonitor(t *testing.T) {
	t.Parallel()

	if got := parseAction("definitely-not-an-action"); got != domain.ActionMonitor {
		t.Fatalf("unexpected action: %s", got)
	}
	if got := parseAction(" implement "); got != domain.ActionImplement {
		t.Fatalf("unexpected action: %s", got)
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	plain := stripFences("```json\n{\"a\":1}\n```")
	if plain != `{"a":1}` {
		t.Fatalf("unexpected strip result: %q", plain)
	}
	if got := stripFences(`{"a":1}`); got != `{"a":1}` {
		t.Fatalf("unfenced content altered: %q", got)
	}
}
