package scoring

import (
	"strings"

	"RiskPulse/internal/domain/models"
)

// Sentiment lookup keyed by the whole-market classification. Unrecognized
// classifications fall back to neutral.
var sentimentRisk = map[string]float64{
	string(models.SentimentBearish): 0.65,
	string(models.SentimentNeutral): 0.50,
	string(models.SentimentBullish): 0.35,
}

// SentimentRisk resolves the market-wide sentiment classification to a risk
// factor. Matching is case-insensitive.
func SentimentRisk(classification string) float64 {
	if v, ok := sentimentRisk[strings.ToLower(strings.TrimSpace(classification))]; ok {
		return v
	}
	return NeutralRisk
}

// CycleRisk inverts the average cycle position: position 0 is the cycle peak
// (risk 1), position 1 the trough (risk 0).
func CycleRisk(avgCyclePosition float64) float64 {
	return Clamp01(1 - avgCyclePosition)
}

// SocialRisk is a constant placeholder reserved for a future independent
// social signal. It must not be conflated with sentiment.
func SocialRisk() float64 {
	return NeutralRisk
}

// ResolveFactors derives the per-asset factor set from the shared market
// context and the asset's own technical readings.
func ResolveFactors(s models.MarketSnapshot, ctx models.MarketContext) models.FactorSet {
	return models.FactorSet{
		SentimentRisk: SentimentRisk(ctx.SentimentClassification),
		TechnicalRisk: TechnicalRisk(s),
		CycleRisk:     CycleRisk(ctx.AverageCyclePosition),
		SocialRisk:    SocialRisk(),
	}
}
