// Package analyzer scores articles through an OpenAI-compatible chat API.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"TrendRadar/internal/config"
	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
)

const defaultContext = "You analyze technology and business news for an insurance innovation team."

// OpenAIAnalyzer implements ports.Analyzer backed by OpenAI-compatible APIs.
type OpenAIAnalyzer struct {
	endpoint   string
	model      string
	apiKey     string
	context    string
	httpClient *http.Client
}

var _ ports.Analyzer = (*OpenAIAnalyzer)(nil)

// NewOpenAIAnalyzer builds a client from configuration.
func NewOpenAIAnalyzer(cfg config.AnalyzerConfig) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		context:  cfg.Context,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// scorePayload is the JSON contract the model is prompted to return.
type scorePayload struct {
	BusinessRelevance   float64  `json:"business_relevance"`
	DisruptivePotential float64  `json:"disruptive_potential"`
	InternalKnowHow     float64  `json:"internal_know_how"`
	MarketPotential     float64  `json:"market_potential"`
	NeedForAction       float64  `json:"need_for_action"`
	StrategicFit        float64  `json:"strategic_fit"`
	TimeToMarketImpact  float64  `json:"time_to_market_impact"`
	TrendMaturity       float64  `json:"trend_maturity"`
	RecommendedAction   string   `json:"recommended_action"`
	KeyInsights         []string `json:"key_insights"`
	RelatedTopics       []string `json:"related_topics"`
	Summary             string   `json:"summary"`
}

// Analyze prompts the model for the eight dimension scores of one article.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, article domain.Article) (*domain.Analysis, error) {
	if a == nil {
		return nil, fmt.Errorf("analyzer is nil")
	}
	if a.apiKey == "" || a.endpoint == "" || a.model == "" {
		return nil, fmt.Errorf("analyzer misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model":       a.model,
		"temperature": 0.3,
		"messages": []map[string]string{
			{"role": "system", "content": safeContext(a.context)},
			{"role": "user", "content": buildPrompt(article)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analyzer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("analyzer error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("analyzer returned no choices")
	}

	return parseAnalysis(chat.Choices[0].Message.Content)
}

func parseAnalysis(content string) (*domain.Analysis, error) {
	var payload scorePayload
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return nil, fmt.Errorf("parse analysis payload: %w", err)
	}

	return &domain.Analysis{
		Scores: map[string]float64{
			domain.DimBusinessRelevance:   payload.BusinessRelevance,
			domain.DimDisruptivePotential: payload.DisruptivePotential,
			domain.DimInternalKnowHow:     payload.InternalKnowHow,
			domain.DimMarketPotential:     payload.MarketPotential,
			domain.DimNeedForAction:       payload.NeedForAction,
			domain.DimStrategicFit:        payload.StrategicFit,
			domain.DimTimeToMarketImpact:  payload.TimeToMarketImpact,
			domain.DimTrendMaturity:       payload.TrendMaturity,
		},
		Action:        parseAction(payload.RecommendedAction),
		KeyInsights:   payload.KeyInsights,
		RelatedTopics: payload.RelatedTopics,
		Summary:       payload.Summary,
	}, nil
}

func parseAction(value string) domain.Action {
	switch domain.Action(strings.ToUpper(strings.TrimSpace(value))) {
	case domain.ActionIgnore:
		return domain.ActionIgnore
	case domain.ActionExplore:
		return domain.ActionExplore
	case domain.ActionPilot:
		return domain.ActionPilot
	case domain.ActionImplement:
		return domain.ActionImplement
	default:
		return domain.ActionMonitor
	}
}

// stripFences removes a markdown code fence when the model ignores the
// plain-JSON instruction.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func buildPrompt(article domain.Article) string {
	content := article.Content
	if content == "" {
		content = article.Summary
	}
	if runes := []rune(content); len(runes) > 3000 {
		content = string(runes[:3000])
	}

	var b strings.Builder
	b.WriteString("Analyze the following news article and score its relevance.\n\n")
	fmt.Fprintf(&b, "Title: %s\nSource: %s\nURL: %s\nDate: %s\n\n",
		article.Title, article.Source, article.URL, article.PublishedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	b.WriteString(`Provide scores (0-10) for each criterion. Be critical and realistic.
Return ONLY a valid JSON object with this exact structure (no markdown, no explanations):
{
  "business_relevance": <score 0-10>,
  "disruptive_potential": <score 0-10>,
  "internal_know_how": <score 0-10>,
  "market_potential": <score 0-10>,
  "need_for_action": <score 0-10>,
  "strategic_fit": <score 0-10>,
  "time_to_market_impact": <score 0-10>,
  "trend_maturity": <score 0-10>,
  "recommended_action": "<IGNORE|MONITOR|EXPLORE|PILOT|IMPLEMENT>",
  "key_insights": ["<insight>", "<insight>"],
  "related_topics": ["<topic>"],
  "summary": "<2-3 sentence summary of why this matters>"
}`)
	return b.String()
}

func safeContext(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultContext
	}
	return value
}
