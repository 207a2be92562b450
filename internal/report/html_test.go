package report

import (
	"strings"
	"testing"

	"RiskPulse/internal/domain/models"
)

func TestRenderSummaryRanksByRisk(t *testing.T) {
	a := &models.Analysis{
		PortfolioRisk: 0.55,
		PortfolioRec:  models.RecommendHold,
		Records: []models.RiskRecord{
			{AssetID: "BTCUSDT", Risk: 0.62, Recommendation: models.RecommendSell},
			{AssetID: "ETHUSDT", Risk: 0.31, Recommendation: models.RecommendBuy},
		},
	}
	html, err := RenderSummary(a)
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	s := string(html)
	if !strings.Contains(s, "Overall recommendation: <strong>Hold</strong>") {
		t.Fatalf("missing overall recommendation: %s", s)
	}
	eth := strings.Index(s, "ETHUSDT")
	btc := strings.Index(s, "BTCUSDT")
	if eth == -1 || btc == -1 || eth > btc {
		t.Fatalf("assets not ranked by ascending risk: %s", s)
	}
	if !strings.Contains(s, "risk 0.62") {
		t.Fatalf("missing formatted risk: %s", s)
	}
}

func TestRenderSummaryDoesNotMutateInput(t *testing.T) {
	a := &models.Analysis{
		Records: []models.RiskRecord{
			{AssetID: "B", Risk: 0.9},
			{AssetID: "A", Risk: 0.1},
		},
	}
	if _, err := RenderSummary(a); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if a.Records[0].AssetID != "B" {
		t.Fatalf("input record order mutated")
	}
}
