package repository

import (
	"context"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "data.json", "analysis.json", "email_summary.html")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	a := &models.Analysis{
		GeneratedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		PortfolioRisk: 0.42,
		PortfolioRec:  models.RecommendHold,
		Records: []models.RiskRecord{
			{AssetID: "BTCUSDT", Risk: 0.61, Recommendation: models.RecommendSell},
		},
	}
	if err := store.SaveAnalysis(ctx, a); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	got, err := store.LoadAnalysis(ctx)
	if err != nil {
		t.Fatalf("LoadAnalysis: %v", err)
	}
	if got.PortfolioRisk != a.PortfolioRisk || len(got.Records) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Records[0].Recommendation != models.RecommendSell {
		t.Fatalf("recommendation lost: %+v", got.Records[0])
	}

	var doc analysisDoc
	if err := store.readJSON("analysis.json", &doc); err != nil {
		t.Fatalf("readJSON: %v", err)
	}
	if doc.Scores["BTCUSDT"] != 0.61 || doc.Recommendations["BTCUSDT"] != models.RecommendSell {
		t.Fatalf("per-asset maps missing from analysis.json: %+v", doc)
	}

	if err := store.SaveReport(ctx, []byte("<h2>ok</h2>")); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	html, err := store.LoadReport(ctx)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if string(html) != "<h2>ok</h2>" {
		t.Fatalf("report mismatch: %s", html)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "data.json", "analysis.json", "report.html")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.LoadAnalysis(context.Background()); err == nil {
		t.Fatalf("expected error for missing analysis file")
	}
}
