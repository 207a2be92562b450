package scoring

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"RiskPulse/internal/domain/models"
)

func mustEngine(t *testing.T, w Weights) *Engine {
	t.Helper()
	e, err := NewEngine(w)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	cases := []Weights{
		{Sentiment: 0.5, Technical: 0.5, Cycle: 0.5, Social: 0.5, Overlay: 0.1}, // sum 2
		{Sentiment: -0.2, Technical: 0.8, Cycle: 0.3, Social: 0.1, Overlay: 0.1},
		{Sentiment: 0.2, Technical: 0.4, Cycle: 0.25, Social: 0.05, Overlay: -0.1},
		{Sentiment: math.NaN(), Technical: 0.4, Cycle: 0.25, Social: 0.35, Overlay: 0},
	}
	for i, w := range cases {
		if _, err := NewEngine(w); err == nil {
			t.Fatalf("case %d: expected error for weights %+v", i, w)
		}
	}
}

func TestNewEngineAcceptsAnyValidVector(t *testing.T) {
	if _, err := NewEngine(Weights{Sentiment: 1}); err != nil {
		t.Fatalf("single-factor vector should validate: %v", err)
	}
	if _, err := NewEngine(DefaultWeights()); err != nil {
		t.Fatalf("default weights should validate: %v", err)
	}
}

func TestOverlayBound(t *testing.T) {
	e := mustEngine(t, DefaultWeights())
	ctx := models.MarketContext{SentimentClassification: "neutral", AverageCyclePosition: 0.5}

	base := e.ScoreAsset(models.MarketSnapshot{AssetID: "a", PatternSignal: models.PatternNone},
		ResolveFactors(models.MarketSnapshot{AssetID: "a"}, ctx)).Risk

	bear := e.ScoreAsset(models.MarketSnapshot{AssetID: "a", PatternSignal: models.PatternBearish},
		ResolveFactors(models.MarketSnapshot{AssetID: "a"}, ctx)).Risk
	if !almostEqual(bear, math.Min(1, base+0.05)) {
		t.Fatalf("bearish overlay: got %v, base %v", bear, base)
	}

	bull := e.ScoreAsset(models.MarketSnapshot{AssetID: "a", PatternSignal: models.PatternBullish},
		ResolveFactors(models.MarketSnapshot{AssetID: "a"}, ctx)).Risk
	if !almostEqual(bull, math.Max(0, base-0.05)) {
		t.Fatalf("bullish overlay: got %v, base %v", bull, base)
	}
}

func TestOverlayClampsAtEdges(t *testing.T) {
	// Cycle-only weights push the base to an extreme; the overlay must clamp.
	e := mustEngine(t, Weights{Cycle: 1, Overlay: 0.5})
	ctx := models.MarketContext{AverageCyclePosition: 0} // cycle risk 1
	rec := e.ScoreAsset(models.MarketSnapshot{AssetID: "a", PatternSignal: models.PatternBearish},
		ResolveFactors(models.MarketSnapshot{AssetID: "a"}, ctx))
	if rec.Risk != 1 {
		t.Fatalf("risk must clamp at 1, got %v", rec.Risk)
	}

	ctx = models.MarketContext{AverageCyclePosition: 1} // cycle risk 0
	rec = e.ScoreAsset(models.MarketSnapshot{AssetID: "a", PatternSignal: models.PatternBullish},
		ResolveFactors(models.MarketSnapshot{AssetID: "a"}, ctx))
	if rec.Risk != 0 {
		t.Fatalf("risk must clamp at 0, got %v", rec.Risk)
	}
}

func TestScoreEmptyPortfolio(t *testing.T) {
	e := mustEngine(t, DefaultWeights())
	out, err := e.Score(nil, models.MarketContext{SentimentClassification: "neutral", AverageCyclePosition: 0.5})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if out.PortfolioRisk != 0.5 {
		t.Fatalf("empty portfolio must read neutral, got %v", out.PortfolioRisk)
	}
	if out.PortfolioRec != models.RecommendHold {
		t.Fatalf("neutral portfolio must recommend Hold, got %v", out.PortfolioRec)
	}
}

func TestScoreEndToEndScenario(t *testing.T) {
	e := mustEngine(t, DefaultWeights())
	assets := []models.MarketSnapshot{{
		AssetID:       "BTCUSDT",
		RSI14:         fptr(75),
		MACD:          fptr(1),
		MACDSignal:    fptr(0.5),
		CloseAboveMA:  bptr(true),
		Change24hPct:  fptr(-12),
		PatternSignal: models.PatternBearish,
	}}
	ctx := models.MarketContext{SentimentClassification: "neutral", AverageCyclePosition: 0.2}

	out, err := e.Score(assets, ctx)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	rec := out.Records[0]
	if !almostEqual(rec.Factors.TechnicalRisk, 0.5625) {
		t.Fatalf("technical risk = %v, want 0.5625", rec.Factors.TechnicalRisk)
	}
	if !almostEqual(rec.Factors.CycleRisk, 0.8) {
		t.Fatalf("cycle risk = %v, want 0.8", rec.Factors.CycleRisk)
	}
	// base 0.55, overlay +0.05
	if !almostEqual(rec.Risk, 0.6) {
		t.Fatalf("risk = %v, want 0.6", rec.Risk)
	}
	if rec.Recommendation != models.RecommendSell {
		t.Fatalf("recommendation = %v, want Sell", rec.Recommendation)
	}
	if !almostEqual(out.PortfolioRisk, rec.Risk) {
		t.Fatalf("single-asset portfolio must equal the asset risk")
	}
}

func TestScoreIdempotent(t *testing.T) {
	e := mustEngine(t, DefaultWeights())
	assets := []models.MarketSnapshot{
		{AssetID: "BTCUSDT", RSI14: fptr(62), Change24hPct: fptr(3.1), PatternSignal: models.PatternBullish},
		{AssetID: "ETHUSDT", MACD: fptr(-0.4), MACDSignal: fptr(0.1), CloseAboveMA: bptr(false)},
	}
	ctx := models.MarketContext{SentimentClassification: "bullish", AverageCyclePosition: 0.73}

	first, err := e.Score(assets, ctx)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	second, err := e.Score(assets, ctx)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-scoring identical input diverged:\n%+v\n%+v", first, second)
	}
}

func TestScoreRejectsNaNInput(t *testing.T) {
	e := mustEngine(t, DefaultWeights())
	_, err := e.Score([]models.MarketSnapshot{{AssetID: "a", RSI14: fptr(math.NaN())}},
		models.MarketContext{AverageCyclePosition: 0.5})
	if err == nil {
		t.Fatalf("NaN reading must fail fast at the boundary")
	}
	_, err = e.Score(nil, models.MarketContext{AverageCyclePosition: math.Inf(1)})
	if err == nil {
		t.Fatalf("non-finite cycle position must fail fast")
	}
}

func TestScoreRangeProperty(t *testing.T) {
	e := mustEngine(t, DefaultWeights())
	rng := rand.New(rand.NewSource(42))
	patterns := []models.PatternSignal{models.PatternBullish, models.PatternBearish, models.PatternNone}
	classes := []string{"bearish", "neutral", "bullish", "garbage"}

	maybe := func(v float64) *float64 {
		if rng.Intn(4) == 0 {
			return nil
		}
		return fptr(v)
	}

	for i := 0; i < 2000; i++ {
		s := models.MarketSnapshot{
			AssetID:       "X",
			RSI14:         maybe(rng.Float64()*300 - 100),
			MACD:          maybe(rng.Float64()*20 - 10),
			MACDSignal:    maybe(rng.Float64()*20 - 10),
			Change24hPct:  maybe(rng.Float64()*200 - 100),
			PatternSignal: patterns[rng.Intn(len(patterns))],
		}
		if rng.Intn(3) != 0 {
			s.CloseAboveMA = bptr(rng.Intn(2) == 0)
		}
		ctx := models.MarketContext{
			SentimentClassification: classes[rng.Intn(len(classes))],
			AverageCyclePosition:    rng.Float64()*4 - 2,
		}
		out, err := e.Score([]models.MarketSnapshot{s}, ctx)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		rec := out.Records[0]
		for name, v := range map[string]float64{
			"sentiment_risk": rec.Factors.SentimentRisk,
			"technical_risk": rec.Factors.TechnicalRisk,
			"cycle_risk":     rec.Factors.CycleRisk,
			"social_risk":    rec.Factors.SocialRisk,
			"risk":           rec.Risk,
			"portfolio_risk": out.PortfolioRisk,
		} {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("iteration %d: %s = %v out of [0,1]", i, name, v)
			}
		}
	}
}
