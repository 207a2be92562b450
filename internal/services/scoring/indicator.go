package scoring

// Indicator normalizers. Each maps one raw technical reading to a risk
// contribution in [0,1]; a nil reading always resolves to NeutralRisk.

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	riskOverbought = 0.8
	riskOversold   = 0.2

	riskBullMomentum = 0.3
	riskBearMomentum = 0.7

	riskAboveMA = 0.35
	riskBelowMA = 0.65
)

// RSIRisk maps a 14-period RSI to a risk contribution. Readings at or beyond
// the overbought/oversold bands pin to 0.8/0.2; in between the reading scales
// linearly across [30,70] onto [0,1], so 50 reads as 0.5.
func RSIRisk(rsi *float64) float64 {
	return orNeutral(rsi, func(v float64) float64 {
		switch {
		case v >= rsiOverbought:
			return riskOverbought
		case v <= rsiOversold:
			return riskOversold
		default:
			return (v - rsiOversold) / (rsiOverbought - rsiOversold)
		}
	})
}

// MACDRisk reads momentum from the MACD line against its signal line:
// bullish momentum lowers risk, bearish raises it. Either reading missing
// means no opinion.
func MACDRisk(macd, signal *float64) float64 {
	if macd == nil || signal == nil {
		return NeutralRisk
	}
	if *macd > *signal {
		return riskBullMomentum
	}
	return riskBearMomentum
}

// MARisk reads trend from the close-vs-200-period-moving-average relation.
func MARisk(closeAbove *bool) float64 {
	if closeAbove == nil {
		return NeutralRisk
	}
	if *closeAbove {
		return riskAboveMA
	}
	return riskBelowMA
}

// ChangeRisk maps the negated 24h percent change linearly across
// [-10%, +10%] onto [0,1], then rescales into [0.2, 0.8]: a -10% move reads
// 0.8, +10% reads 0.2, flat reads 0.5.
func ChangeRisk(pct *float64) float64 {
	return orNeutral(pct, func(v float64) float64 {
		return Clamp01((-v+10)/20)*0.6 + 0.2
	})
}
