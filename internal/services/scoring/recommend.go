package scoring

import "RiskPulse/internal/domain/models"

// Recommendation band edges. Each band is closed on its lower side: 0.4
// exactly is Hold, 0.6 exactly is Sell.
const (
	buyBelow  = 0.4
	holdBelow = 0.6
)

// Recommend thresholds a risk score into the three-way action label. Lower
// risk favours buying, moderate risk holding, high risk taking profit.
func Recommend(risk float64) models.Recommendation {
	switch {
	case risk < buyBelow:
		return models.RecommendBuy
	case risk < holdBelow:
		return models.RecommendHold
	default:
		return models.RecommendSell
	}
}
