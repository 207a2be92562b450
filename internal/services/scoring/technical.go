package scoring

import "RiskPulse/internal/domain/models"

// TechnicalRisk averages the four normalized indicator contributions into a
// single technical-risk value. Each contribution independently defaults to
// neutral on missing input, so an asset with nothing available reads exactly
// 0.5. Weighting across factors happens only at the composite level.
func TechnicalRisk(s models.MarketSnapshot) float64 {
	sum := RSIRisk(s.RSI14) +
		MACDRisk(s.MACD, s.MACDSignal) +
		MARisk(s.CloseAboveMA) +
		ChangeRisk(s.Change24hPct)
	return Clamp01(sum / 4)
}
