package models

import "time"

// Recommendation is the three-way action label derived from a risk score.
type Recommendation string

const (
	RecommendBuy  Recommendation = "Buy"
	RecommendHold Recommendation = "Hold"
	RecommendSell Recommendation = "Sell"
)

// FactorSet holds the per-asset risk factors, each in [0,1].
type FactorSet struct {
	SentimentRisk float64 `json:"sentiment_risk"`
	TechnicalRisk float64 `json:"technical_risk"`
	CycleRisk     float64 `json:"cycle_risk"`
	SocialRisk    float64 `json:"social_risk"`
}

// RiskRecord is the immutable per-asset scoring output.
type RiskRecord struct {
	AssetID        string         `json:"asset_id"`
	Risk           float64        `json:"risk"`
	Recommendation Recommendation `json:"recommendation"`
	Factors        FactorSet      `json:"factors"`
}

// Analysis is the output envelope of one scoring run; the report renderer
// and dashboard consume this and must not re-derive scores.
type Analysis struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	PortfolioRisk float64        `json:"portfolio_risk"`
	PortfolioRec  Recommendation `json:"portfolio_recommendation"`
	Records       []RiskRecord   `json:"records"`
}

// Scores returns risk keyed by asset, the shape the dashboard reads.
func (a *Analysis) Scores() map[string]float64 {
	out := make(map[string]float64, len(a.Records))
	for _, r := range a.Records {
		out[r.AssetID] = r.Risk
	}
	return out
}

// Recommendations returns the recommendation label keyed by asset.
func (a *Analysis) Recommendations() map[string]Recommendation {
	out := make(map[string]Recommendation, len(a.Records))
	for _, r := range a.Records {
		out[r.AssetID] = r.Recommendation
	}
	return out
}
