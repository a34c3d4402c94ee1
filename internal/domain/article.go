package domain

import "time"

// Article is one candidate news item fetched from an RSS source.
type Article struct {
	URL         string
	Title       string
	Source      string
	Section     string
	Summary     string
	Content     string
	PublishedAt time.Time
	Analysis    *Analysis
}

// Dimension names for the relevance analysis. The scorer requires exactly
// this set in both the score and weight mappings.
const (
	DimBusinessRelevance   = "business_relevance"
	DimDisruptivePotential = "disruptive_potential"
	DimInternalKnowHow     = "internal_know_how"
	DimMarketPotential     = "market_potential"
	DimNeedForAction       = "need_for_action"
	DimStrategicFit        = "strategic_fit"
	DimTimeToMarketImpact  = "time_to_market_impact"
	DimTrendMaturity       = "trend_maturity"
)

// Dimensions lists all scoring dimensions in their canonical order.
var Dimensions = []string{
	DimBusinessRelevance,
	DimDisruptivePotential,
	DimInternalKnowHow,
	DimMarketPotential,
	DimNeedForAction,
	DimStrategicFit,
	DimTimeToMarketImpact,
	DimTrendMaturity,
}

// Action is the recommended follow-up for an analyzed article.
type Action string

const (
	ActionIgnore    Action = "IGNORE"
	ActionMonitor   Action = "MONITOR"
	ActionExplore   Action = "EXPLORE"
	ActionPilot     Action = "PILOT"
	ActionImplement Action = "IMPLEMENT"
)

// Analysis holds per-dimension scores produced by the analyzer plus the
// derived weighted total computed by the scorer.
type Analysis struct {
	Scores        map[string]float64
	OverallScore  float64
	Action        Action
	KeyInsights   []string
	RelatedTopics []string
	Summary       string
}
