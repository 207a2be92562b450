package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/services/scoring"
	"RiskPulse/pkg/cache"
)

type fakeStore struct {
	snapshot *models.CollectedData
	analysis *models.Analysis
	report   []byte
	saveErr  error
}

func (s *fakeStore) SaveSnapshot(_ context.Context, d *models.CollectedData) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshot = d
	return nil
}

func (s *fakeStore) LoadSnapshot(context.Context) (*models.CollectedData, error) {
	return s.snapshot, nil
}

func (s *fakeStore) SaveAnalysis(_ context.Context, a *models.Analysis) error {
	s.analysis = a
	return nil
}

func (s *fakeStore) LoadAnalysis(context.Context) (*models.Analysis, error) {
	return s.analysis, nil
}

func (s *fakeStore) SaveReport(_ context.Context, html []byte) error {
	s.report = html
	return nil
}

func (s *fakeStore) LoadReport(context.Context) ([]byte, error) {
	return s.report, nil
}

type fakeSink struct {
	emitted []*models.Analysis
	err     error
}

func (s *fakeSink) Emit(_ context.Context, a *models.Analysis) error {
	if s.err != nil {
		return s.err
	}
	s.emitted = append(s.emitted, a)
	return nil
}

func (s *fakeSink) Close() error { return nil }

func newTestEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	e, err := scoring.NewEngine(scoring.DefaultWeights())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func newTestRunner(t *testing.T, market *fakeMarket, store *fakeStore, sink *fakeSink, c cache.Service, metrics *fakeMetrics) *RefreshRunner {
	t.Helper()
	collector := NewDataCollector(market, &fakeSentiment{}, nil,
		map[string]string{"bitcoin": "BTCUSDT"}, nil, 365, metrics, testLogger(t))
	return NewRefreshRunner(collector, newTestEngine(t), store, sink, c,
		metrics, testLogger(t), time.Hour, false, time.Hour)
}

func healthyMarket() *fakeMarket {
	return &fakeMarket{
		quotes: map[string]models.Quote{"bitcoin": {PriceUSD: fptr(50000), Change24hPct: fptr(1.0)}},
		closes: map[string][]models.ClosePoint{"bitcoin": risingCloses(365, 100)},
	}
}

func TestRunOncePersistsEverything(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	metrics := &fakeMetrics{}
	runner := newTestRunner(t, healthyMarket(), store, sink, nil, metrics)

	a, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if a.GeneratedAt.IsZero() {
		t.Fatalf("analysis not stamped")
	}
	if len(a.Records) != 1 || a.Records[0].AssetID != "BTCUSDT" {
		t.Fatalf("records = %+v", a.Records)
	}
	if store.snapshot == nil || store.analysis == nil {
		t.Fatalf("snapshot or analysis not persisted")
	}
	if !bytes.Contains(store.report, []byte("BTCUSDT")) {
		t.Fatalf("report does not mention the asset: %s", store.report)
	}
	if len(sink.emitted) != 1 {
		t.Fatalf("sink received %d analyses", len(sink.emitted))
	}
	if len(metrics.runs) != 1 || metrics.runs[0] != "ok" {
		t.Fatalf("runs = %v", metrics.runs)
	}
	if metrics.portfolio != a.PortfolioRisk {
		t.Fatalf("portfolio metric = %v, want %v", metrics.portfolio, a.PortfolioRisk)
	}
	if got := metrics.assetRisk["BTCUSDT"]; got != a.Records[0].Risk {
		t.Fatalf("asset metric = %v, want %v", got, a.Records[0].Risk)
	}
}

func TestRunOnceFailsWithoutFallback(t *testing.T) {
	market := &fakeMarket{quotesErr: errors.New("upstream down")}
	metrics := &fakeMetrics{}
	runner := newTestRunner(t, market, &fakeStore{}, nil, nil, metrics)

	if _, err := runner.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error with no cached snapshot")
	}
	if len(metrics.runs) != 1 || metrics.runs[0] != "error" {
		t.Fatalf("runs = %v", metrics.runs)
	}
}

func TestRunOnceScoresCachedSnapshotOnOutage(t *testing.T) {
	mem := cache.NewMemoryCache()
	market := healthyMarket()
	store := &fakeStore{}
	metrics := &fakeMetrics{}
	runner := newTestRunner(t, market, store, nil, mem, metrics)

	if _, err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	market.quotesErr = errors.New("upstream down")
	a, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("fallback run: %v", err)
	}
	if len(a.Records) != 1 || a.Records[0].AssetID != "BTCUSDT" {
		t.Fatalf("fallback records = %+v", a.Records)
	}
	if len(metrics.runs) != 2 || metrics.runs[1] != "ok" {
		t.Fatalf("runs = %v", metrics.runs)
	}
}

func TestRunOnceSinkFailureIsNotFatal(t *testing.T) {
	sink := &fakeSink{err: errors.New("broker down")}
	metrics := &fakeMetrics{}
	runner := newTestRunner(t, healthyMarket(), &fakeStore{}, sink, nil, metrics)

	if _, err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(metrics.runs) != 1 || metrics.runs[0] != "ok" {
		t.Fatalf("runs = %v", metrics.runs)
	}
}

func TestScorerStatelessRoundTrip(t *testing.T) {
	s := NewScorer(newTestEngine(t))
	req := &models.ScoreRequest{
		Sentiment:     "Bearish",
		CyclePosition: 0.25,
		Assets: []models.ScoreAssetRequest{
			{AssetID: "BTCUSDT", RSI14: fptr(72), PatternSignal: "bearish"},
		},
	}

	a, err := s.Score(req)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if a.GeneratedAt.IsZero() {
		t.Fatalf("analysis not stamped")
	}
	if len(a.Records) != 1 {
		t.Fatalf("records = %+v", a.Records)
	}
	rec := a.Records[0]
	if rec.Factors.SentimentRisk != 0.65 {
		t.Fatalf("sentiment risk = %v", rec.Factors.SentimentRisk)
	}
	if rec.Risk <= 0 || rec.Risk >= 1 {
		t.Fatalf("risk out of range: %v", rec.Risk)
	}
}
