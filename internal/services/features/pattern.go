package features

import "RiskPulse/internal/domain/models"

// patternBars is how many consecutive directional closes make a pattern.
const patternBars = 3

// DetectPattern classifies the most recent bars: three consecutive higher
// closes read bullish, three consecutive lower closes bearish, anything
// else none.
func DetectPattern(closes []float64) models.PatternSignal {
	if len(closes) < patternBars+1 {
		return models.PatternNone
	}
	tail := closes[len(closes)-patternBars-1:]
	up, down := true, true
	for i := 1; i < len(tail); i++ {
		if tail[i] <= tail[i-1] {
			up = false
		}
		if tail[i] >= tail[i-1] {
			down = false
		}
	}
	switch {
	case up:
		return models.PatternBullish
	case down:
		return models.PatternBearish
	default:
		return models.PatternNone
	}
}
