package scoring

import (
	"fmt"

	"RiskPulse/internal/domain/models"
)

// Engine combines per-asset factors into composite risk scores under a
// validated weight table. It is stateless and deterministic: identical input
// always produces identical output, and nothing is retained between runs.
type Engine struct {
	w Weights
}

// NewEngine builds an Engine, refusing an invalid weight table up front.
func NewEngine(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("scoring engine: %w", err)
	}
	return &Engine{w: w}, nil
}

// Weights returns the weight table the engine was built with.
func (e *Engine) Weights() Weights { return e.w }

// ScoreAsset computes the composite risk for one asset: a weighted base over
// the factor set, then the directional-pattern overlay. The overlay shifts
// the clamped base by at most half the overlay weight in either direction.
func (e *Engine) ScoreAsset(s models.MarketSnapshot, f models.FactorSet) models.RiskRecord {
	base := e.w.Sentiment*f.SentimentRisk +
		e.w.Technical*f.TechnicalRisk +
		e.w.Cycle*f.CycleRisk +
		e.w.Social*f.SocialRisk
	base = Clamp01(base)

	risk := base
	switch s.PatternSignal {
	case models.PatternBearish:
		risk = Clamp01(base + 0.5*e.w.Overlay)
	case models.PatternBullish:
		risk = Clamp01(base - 0.5*e.w.Overlay)
	}

	return models.RiskRecord{
		AssetID:        s.AssetID,
		Risk:           risk,
		Recommendation: Recommend(risk),
		Factors:        f,
	}
}

// Score runs the full pipeline for one refresh cycle: validate inputs, derive
// factors, score each asset in order, and compute the portfolio mean. An
// empty asset set is not an error; the portfolio defaults to neutral.
// GeneratedAt is left zero so the caller stamps the envelope; the scoring
// itself carries no wall-clock dependence.
func (e *Engine) Score(assets []models.MarketSnapshot, ctx models.MarketContext) (models.Analysis, error) {
	if err := ctx.Validate(); err != nil {
		return models.Analysis{}, err
	}
	for i := range assets {
		if err := assets[i].Validate(); err != nil {
			return models.Analysis{}, err
		}
	}

	records := make([]models.RiskRecord, 0, len(assets))
	total := 0.0
	for _, s := range assets {
		rec := e.ScoreAsset(s, ResolveFactors(s, ctx))
		records = append(records, rec)
		total += rec.Risk
	}

	portfolio := NeutralRisk
	if len(records) > 0 {
		portfolio = Clamp01(total / float64(len(records)))
	}

	return models.Analysis{
		PortfolioRisk: portfolio,
		PortfolioRec:  Recommend(portfolio),
		Records:       records,
	}, nil
}
