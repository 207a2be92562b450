package repository

import (
	"context"

	"RiskPulse/internal/domain/models"
)

// SnapshotStore persists and serves the latest collected data and analysis.
// Results are recomputed from scratch every run; the store never mutates a
// prior record, it only replaces the latest.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, d *models.CollectedData) error
	LoadSnapshot(ctx context.Context) (*models.CollectedData, error)
	SaveAnalysis(ctx context.Context, a *models.Analysis) error
	LoadAnalysis(ctx context.Context) (*models.Analysis, error)
	SaveReport(ctx context.Context, html []byte) error
	LoadReport(ctx context.Context) ([]byte, error)
}

// ResultSink receives the per-run risk records for downstream consumers
// (message bus, analytical store).
type ResultSink interface {
	Emit(ctx context.Context, a *models.Analysis) error
	Close() error
}

// Metrics records operational metrics for the refresh pipeline.
type Metrics interface {
	RecordRun(status string)
	RecordRunDuration(seconds float64)
	RecordFetchError(source string)
	RecordAssetRisk(asset string, risk float64)
	RecordPortfolioRisk(risk float64)
}
