package scoring

import (
	"testing"

	"RiskPulse/internal/domain/models"
)

func TestRecommendBands(t *testing.T) {
	cases := []struct {
		risk float64
		want models.Recommendation
	}{
		{0.0, models.RecommendBuy},
		{0.39999, models.RecommendBuy},
		{0.4, models.RecommendHold},
		{0.5, models.RecommendHold},
		{0.59999, models.RecommendHold},
		{0.6, models.RecommendSell},
		{1.0, models.RecommendSell},
	}
	for _, c := range cases {
		if got := Recommend(c.risk); got != c.want {
			t.Fatalf("Recommend(%v) = %v, want %v", c.risk, got, c.want)
		}
	}
}
