package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/services/scoring"
	xlogger "RiskPulse/pkg/logger"
)

type fakeMarket struct {
	quotes    map[string]models.Quote
	quotesErr error
	global    models.GlobalMetrics
	globalErr error
	closes    map[string][]models.ClosePoint
	closesErr map[string]error
}

func (f *fakeMarket) Quotes(_ context.Context, _ []string) (map[string]models.Quote, error) {
	return f.quotes, f.quotesErr
}

func (f *fakeMarket) Global(_ context.Context) (models.GlobalMetrics, error) {
	return f.global, f.globalErr
}

func (f *fakeMarket) DailyCloses(_ context.Context, id string, _ int) ([]models.ClosePoint, error) {
	if err := f.closesErr[id]; err != nil {
		return nil, err
	}
	return f.closes[id], nil
}

type fakeSentiment struct {
	fng models.FearGreed
	err error
}

func (f *fakeSentiment) FearGreed(_ context.Context) (models.FearGreed, error) {
	return f.fng, f.err
}

type fakeMetrics struct {
	runs        []string
	fetchErrors []string
	assetRisk   map[string]float64
	portfolio   float64
}

func (m *fakeMetrics) RecordRun(status string) { m.runs = append(m.runs, status) }

func (m *fakeMetrics) RecordRunDuration(float64) {}

func (m *fakeMetrics) RecordFetchError(source string) {
	m.fetchErrors = append(m.fetchErrors, source)
}
func (m *fakeMetrics) RecordAssetRisk(asset string, risk float64) {
	if m.assetRisk == nil {
		m.assetRisk = map[string]float64{}
	}
	m.assetRisk[asset] = risk
}
func (m *fakeMetrics) RecordPortfolioRisk(risk float64) { m.portfolio = risk }

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func risingCloses(n int, start float64) []models.ClosePoint {
	out := make([]models.ClosePoint, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = models.ClosePoint{Date: day.AddDate(0, 0, i), Close: start + float64(i)}
	}
	return out
}

func fallingCloses(n int, start float64) []models.ClosePoint {
	out := make([]models.ClosePoint, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = models.ClosePoint{Date: day.AddDate(0, 0, i), Close: start - float64(i)}
	}
	return out
}

func fptr(v float64) *float64 { return &v }

func TestCollectBuildsSnapshots(t *testing.T) {
	market := &fakeMarket{
		quotes: map[string]models.Quote{
			"bitcoin": {PriceUSD: fptr(50000), Change24hPct: fptr(2.5)},
		},
		global: models.GlobalMetrics{BTCDominance: 52.1, TotalMarketCap: 2.1e12},
		closes: map[string][]models.ClosePoint{
			"bitcoin": risingCloses(365, 100),
		},
	}
	sentiment := &fakeSentiment{fng: models.FearGreed{Value: 80, Classification: "Extreme Greed"}}
	metrics := &fakeMetrics{}

	c := NewDataCollector(market, sentiment, nil,
		map[string]string{"bitcoin": "BTCUSDT"}, nil, 365, metrics, testLogger(t))

	data, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(data.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(data.Assets))
	}
	snap := data.Assets[0]
	if snap.AssetID != "BTCUSDT" {
		t.Fatalf("asset id = %q", snap.AssetID)
	}
	if snap.RSI14 == nil || snap.MACD == nil || snap.MACDSignal == nil {
		t.Fatalf("indicators missing: %+v", snap)
	}
	if snap.CloseAboveMA == nil || !*snap.CloseAboveMA {
		t.Fatalf("rising series should close above its 200-day average")
	}
	if snap.PatternSignal != models.PatternBullish {
		t.Fatalf("pattern = %q", snap.PatternSignal)
	}
	if snap.Change24hPct == nil || *snap.Change24hPct != 2.5 {
		t.Fatalf("change pct not carried from quote")
	}
	if data.Context.SentimentClassification != string(models.SentimentBullish) {
		t.Fatalf("sentiment = %q", data.Context.SentimentClassification)
	}
	// The latest close is the yearly high, the engine's cycle peak pole.
	if data.Context.AverageCyclePosition != 0 {
		t.Fatalf("rising series cycle = %v, want 0", data.Context.AverageCyclePosition)
	}
	tech, ok := data.Technicals["BTCUSDT"]
	if !ok {
		t.Fatalf("technicals block missing")
	}
	if len(tech.PriceCloses) != 90 || len(tech.PriceDates) != 90 {
		t.Fatalf("history tail = %d/%d points", len(tech.PriceDates), len(tech.PriceCloses))
	}
}

func TestCollectCycleRiskPolarity(t *testing.T) {
	cases := []struct {
		name     string
		closes   []models.ClosePoint
		wantRaw  float64
		wantRisk float64
	}{
		{"yearly high scores peak risk", risingCloses(365, 100), 1, 1},
		{"yearly low scores trough risk", fallingCloses(365, 500), 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			market := &fakeMarket{
				quotes: map[string]models.Quote{"bitcoin": {PriceUSD: fptr(50000)}},
				closes: map[string][]models.ClosePoint{"bitcoin": tc.closes},
			}
			c := NewDataCollector(market, &fakeSentiment{}, nil,
				map[string]string{"bitcoin": "BTCUSDT"}, nil, 365, &fakeMetrics{}, testLogger(t))

			data, err := c.Collect(context.Background())
			if err != nil {
				t.Fatalf("Collect: %v", err)
			}
			// The technicals block keeps the raw range position.
			if got := data.Technicals["BTCUSDT"].CyclePos; got != tc.wantRaw {
				t.Fatalf("raw cycle position = %v, want %v", got, tc.wantRaw)
			}
			f := scoring.ResolveFactors(data.Assets[0], data.Context)
			if f.CycleRisk != tc.wantRisk {
				t.Fatalf("cycle risk = %v, want %v", f.CycleRisk, tc.wantRisk)
			}
		})
	}
}

func TestCollectQuotesFailureIsFatal(t *testing.T) {
	market := &fakeMarket{quotesErr: errors.New("rate limited")}
	metrics := &fakeMetrics{}

	c := NewDataCollector(market, &fakeSentiment{}, nil,
		map[string]string{"bitcoin": "BTCUSDT"}, nil, 365, metrics, testLogger(t))

	if _, err := c.Collect(context.Background()); err == nil {
		t.Fatalf("expected error when quotes are unavailable")
	}
	if len(metrics.fetchErrors) != 1 || metrics.fetchErrors[0] != "quotes" {
		t.Fatalf("fetch errors = %v", metrics.fetchErrors)
	}
}

func TestCollectDegradesPerAsset(t *testing.T) {
	market := &fakeMarket{
		quotes: map[string]models.Quote{
			"bitcoin":  {PriceUSD: fptr(50000)},
			"ethereum": {PriceUSD: fptr(3000)},
		},
		closes:    map[string][]models.ClosePoint{"bitcoin": risingCloses(365, 100)},
		closesErr: map[string]error{"ethereum": errors.New("boom")},
	}
	sentiment := &fakeSentiment{err: errors.New("down")}
	metrics := &fakeMetrics{}

	c := NewDataCollector(market, sentiment, nil,
		map[string]string{"bitcoin": "BTCUSDT", "ethereum": "ETHUSDT"},
		nil, 365, metrics, testLogger(t))

	data, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(data.Assets) != 2 {
		t.Fatalf("expected both assets, got %d", len(data.Assets))
	}
	// Sorted source order: bitcoin first.
	if data.Assets[0].AssetID != "BTCUSDT" || data.Assets[1].AssetID != "ETHUSDT" {
		t.Fatalf("unexpected order: %q, %q", data.Assets[0].AssetID, data.Assets[1].AssetID)
	}
	eth := data.Assets[1]
	if eth.RSI14 != nil || eth.CloseAboveMA != nil {
		t.Fatalf("failed asset should carry no indicators")
	}
	if eth.PatternSignal != models.PatternNone {
		t.Fatalf("failed asset pattern = %q", eth.PatternSignal)
	}
	// A failed asset contributes the neutral 0.5 to the average cycle;
	// bitcoin's peaked history reads its raw position 1 as engine position 0.
	want := 1 - (1.0+0.5)/2
	if data.Context.AverageCyclePosition != want {
		t.Fatalf("average cycle = %v, want %v", data.Context.AverageCyclePosition, want)
	}
	if data.Context.SentimentClassification != string(models.SentimentNeutral) {
		t.Fatalf("sentiment fallback = %q", data.Context.SentimentClassification)
	}
}
