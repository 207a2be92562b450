package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/services/scoring"
	"RiskPulse/internal/usecase"
	xlogger "RiskPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubStore struct {
	analysis *models.Analysis
	snapshot *models.CollectedData
	report   []byte
}

func (s *stubStore) SaveSnapshot(context.Context, *models.CollectedData) error { return nil }

func (s *stubStore) LoadSnapshot(context.Context) (*models.CollectedData, error) {
	if s.snapshot == nil {
		return nil, errors.New("missing")
	}
	return s.snapshot, nil
}

func (s *stubStore) SaveAnalysis(context.Context, *models.Analysis) error { return nil }

func (s *stubStore) LoadAnalysis(context.Context) (*models.Analysis, error) {
	if s.analysis == nil {
		return nil, errors.New("missing")
	}
	return s.analysis, nil
}

func (s *stubStore) SaveReport(context.Context, []byte) error { return nil }

func (s *stubStore) LoadReport(context.Context) ([]byte, error) {
	if s.report == nil {
		return nil, errors.New("missing")
	}
	return s.report, nil
}

func newTestHandler(t *testing.T, store *stubStore) (*echo.Echo, *AnalysisHandler) {
	t.Helper()
	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	engine, err := scoring.NewEngine(scoring.DefaultWeights())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	h := NewAnalysisHandler(logger, store, usecase.NewScorer(engine))
	e := echo.New()
	h.RegisterRoutes(e)
	return e, h
}

func TestAnalysisEndpoint(t *testing.T) {
	store := &stubStore{analysis: &models.Analysis{
		GeneratedAt:   time.Now().UTC(),
		PortfolioRisk: 0.42,
		PortfolioRec:  models.RecommendHold,
		Records: []models.RiskRecord{
			{AssetID: "BTCUSDT", Risk: 0.42, Recommendation: models.RecommendHold},
		},
	}}
	e, _ := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "BTCUSDT") {
		t.Fatalf("body missing asset: %s", rec.Body.String())
	}
}

// The response envelope carries the application status in the body; the
// transport status stays 200.
func envelopeStatus(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.Status
}

func TestAnalysisNotFoundBeforeFirstRun(t *testing.T) {
	e, _ := newTestHandler(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := envelopeStatus(t, rec.Body.Bytes()); got != http.StatusNotFound {
		t.Fatalf("envelope status = %d", got)
	}
}

func TestReportEndpointServesHTML(t *testing.T) {
	store := &stubStore{report: []byte("<html><body>ok</body></html>")}
	e, _ := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.Contains(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}

	// Second request comes from the handler cache.
	store.report = nil
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	if rec2.Code != http.StatusOK {
		t.Fatalf("cached status = %d", rec2.Code)
	}
}

func TestScoreEndpoint(t *testing.T) {
	e, _ := newTestHandler(t, &stubStore{})

	body := `{
		"sentiment_classification": "bullish",
		"average_cycle_position": 0.8,
		"assets": [
			{"asset_id": "BTCUSDT", "rsi14": 25, "pattern_signal": "bullish"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Analysis `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Records) != 1 {
		t.Fatalf("records = %+v", resp.Data.Records)
	}
	r := resp.Data.Records[0]
	if r.Factors.SentimentRisk != 0.35 {
		t.Fatalf("sentiment risk = %v", r.Factors.SentimentRisk)
	}
	if r.Recommendation != models.RecommendBuy {
		t.Fatalf("recommendation = %q, risk = %v", r.Recommendation, r.Risk)
	}
}

func TestScoreEndpointRejectsBadPattern(t *testing.T) {
	e, _ := newTestHandler(t, &stubStore{})

	body := `{"assets": [{"asset_id": "BTCUSDT", "pattern_signal": "sideways"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := envelopeStatus(t, rec.Body.Bytes()); got != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, body = %s", got, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	e, _ := newTestHandler(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
