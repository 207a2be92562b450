package usecase

import (
	"time"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/services/scoring"
)

// Scorer evaluates caller-supplied snapshots against the configured weight
// table. It is the stateless backend of the on-demand scoring endpoint.
type Scorer struct {
	engine *scoring.Engine
}

func NewScorer(engine *scoring.Engine) *Scorer {
	return &Scorer{engine: engine}
}

// Score converts the request into domain snapshots and runs the engine over
// them. Nothing is persisted or published.
func (s *Scorer) Score(req *models.ScoreRequest) (models.Analysis, error) {
	assets := make([]models.MarketSnapshot, 0, len(req.Assets))
	for _, a := range req.Assets {
		assets = append(assets, models.MarketSnapshot{
			AssetID:       a.AssetID,
			RSI14:         a.RSI14,
			MACD:          a.MACD,
			MACDSignal:    a.MACDSignal,
			CloseAboveMA:  a.CloseAboveMA,
			Change24hPct:  a.Change24hPct,
			PatternSignal: models.PatternSignal(a.PatternSignal),
		})
	}
	ctx := models.MarketContext{
		SentimentClassification: req.Sentiment,
		AverageCyclePosition:    req.CyclePosition,
	}

	analysis, err := s.engine.Score(assets, ctx)
	if err != nil {
		return models.Analysis{}, err
	}
	analysis.GeneratedAt = time.Now().UTC()
	return analysis, nil
}
