package scoring

import (
	"fmt"
	"math"
)

// sumTolerance absorbs float rounding when checking the sum-to-one invariant.
const sumTolerance = 1e-9

// Weights is the fixed-arity weight table for the composite score. The four
// base weights must sum to 1; Overlay sits outside the base sum and bounds
// the directional-pattern adjustment to ±0.5·Overlay.
type Weights struct {
	Sentiment float64 `yaml:"sentiment" json:"sentiment"`
	Technical float64 `yaml:"technical" json:"technical"`
	Cycle     float64 `yaml:"cycle" json:"cycle"`
	Social    float64 `yaml:"social" json:"social"`
	Overlay   float64 `yaml:"overlay" json:"overlay"`
}

// DefaultWeights returns the documented default weighting scheme.
func DefaultWeights() Weights {
	return Weights{
		Sentiment: 0.20,
		Technical: 0.40,
		Cycle:     0.25,
		Social:    0.05,
		Overlay:   0.10,
	}
}

// Validate refuses a malformed weight table before any scoring runs. The
// engine never silently renormalizes.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"sentiment": w.Sentiment,
		"technical": w.Technical,
		"cycle":     w.Cycle,
		"social":    w.Social,
		"overlay":   w.Overlay,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weights: %s is not finite", name)
		}
		if v < 0 {
			return fmt.Errorf("weights: %s must be non-negative, got %v", name, v)
		}
	}
	sum := w.Sentiment + w.Technical + w.Cycle + w.Social
	if math.Abs(sum-1) > sumTolerance {
		return fmt.Errorf("weights: base weights must sum to 1, got %v", sum)
	}
	return nil
}
