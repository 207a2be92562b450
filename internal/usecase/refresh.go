package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"RiskPulse/internal/domain/models"
	drepo "RiskPulse/internal/domain/repository"
	"RiskPulse/internal/report"
	"RiskPulse/internal/services/scoring"
	"RiskPulse/pkg/cache"
	xlogger "RiskPulse/pkg/logger"
)

var snapshotCacheKey = cache.GenerateKey("riskpulse:snapshot", "latest")

// RefreshRunner drives the periodic refresh cycle: collect, score, persist,
// publish. One Runner owns the whole pipeline; runs never overlap because the
// loop is single-threaded.
type RefreshRunner struct {
	collector *DataCollector
	engine    *scoring.Engine
	store     drepo.SnapshotStore
	sink      drepo.ResultSink // nil when no downstream backend is configured
	cache     cache.Service    // nil disables the last-good fallback
	metrics   drepo.Metrics
	logger    *xlogger.Logger

	interval    time.Duration
	runOnStart  bool
	snapshotTTL time.Duration
}

func NewRefreshRunner(
	collector *DataCollector,
	engine *scoring.Engine,
	store drepo.SnapshotStore,
	sink drepo.ResultSink,
	cacheService cache.Service,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	interval time.Duration,
	runOnStart bool,
	snapshotTTL time.Duration,
) *RefreshRunner {
	return &RefreshRunner{
		collector:   collector,
		engine:      engine,
		store:       store,
		sink:        sink,
		cache:       cacheService,
		metrics:     metrics,
		logger:      logger,
		interval:    interval,
		runOnStart:  runOnStart,
		snapshotTTL: snapshotTTL,
	}
}

// Start blocks, running refresh cycles until ctx is cancelled. A failed run
// is logged and counted; the loop keeps its schedule.
func (r *RefreshRunner) Start(ctx context.Context) error {
	if r.runOnStart {
		r.runLogged(ctx)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.runLogged(ctx)
		}
	}
}

func (r *RefreshRunner) runLogged(ctx context.Context) {
	a, err := r.RunOnce(ctx)
	if err != nil {
		r.logger.Error("refresh cycle failed", xlogger.Error(err))
		return
	}
	r.logger.Info("refresh cycle complete",
		xlogger.Int("assets", len(a.Records)),
		xlogger.Float64("portfolio_risk", a.PortfolioRisk))
}

// RunOnce performs a single collect-score-persist cycle and returns the
// resulting analysis. When collection fails it falls back to the last cached
// snapshot so a transient upstream outage does not blank the output.
func (r *RefreshRunner) RunOnce(ctx context.Context) (*models.Analysis, error) {
	start := time.Now()

	data, err := r.collector.Collect(ctx)
	if err != nil {
		fallback, ferr := r.cachedSnapshot(ctx)
		if ferr != nil {
			r.metrics.RecordRun("error")
			return nil, fmt.Errorf("collect: %w", err)
		}
		r.logger.Warn("collection failed, scoring last cached snapshot", xlogger.Error(err))
		data = fallback
	} else {
		r.cacheSnapshot(ctx, data)
	}

	analysis, err := r.engine.Score(data.Assets, data.Context)
	if err != nil {
		r.metrics.RecordRun("error")
		return nil, fmt.Errorf("score: %w", err)
	}
	analysis.GeneratedAt = time.Now().UTC()

	if err := r.store.SaveSnapshot(ctx, data); err != nil {
		r.metrics.RecordRun("error")
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	if err := r.store.SaveAnalysis(ctx, &analysis); err != nil {
		r.metrics.RecordRun("error")
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	html, err := report.RenderSummary(&analysis)
	if err != nil {
		r.metrics.RecordRun("error")
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := r.store.SaveReport(ctx, html); err != nil {
		r.metrics.RecordRun("error")
		return nil, fmt.Errorf("save report: %w", err)
	}

	if r.sink != nil {
		if err := r.sink.Emit(ctx, &analysis); err != nil {
			// Persisted output is already on disk; an unavailable downstream
			// backend is not fatal for the cycle.
			r.logger.Error("result sink emit failed", xlogger.Error(err))
			r.metrics.RecordFetchError("sink")
		}
	}

	for _, rec := range analysis.Records {
		r.metrics.RecordAssetRisk(rec.AssetID, rec.Risk)
	}
	r.metrics.RecordPortfolioRisk(analysis.PortfolioRisk)
	r.metrics.RecordRun("ok")
	r.metrics.RecordRunDuration(time.Since(start).Seconds())

	return &analysis, nil
}

// cacheSnapshot stores the collected data as a JSON string so both the memory
// and redis cache backends can round-trip it.
func (r *RefreshRunner) cacheSnapshot(ctx context.Context, d *models.CollectedData) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		r.logger.Warn("snapshot cache encode failed", xlogger.Error(err))
		return
	}
	if err := r.cache.Set(ctx, snapshotCacheKey, string(raw), r.snapshotTTL); err != nil {
		r.logger.Warn("snapshot cache write failed", xlogger.Error(err))
	}
}

func (r *RefreshRunner) cachedSnapshot(ctx context.Context) (*models.CollectedData, error) {
	if r.cache == nil {
		return nil, fmt.Errorf("snapshot cache disabled")
	}
	var raw string
	if err := r.cache.Get(ctx, snapshotCacheKey, &raw); err != nil {
		return nil, fmt.Errorf("snapshot cache read: %w", err)
	}
	var d models.CollectedData
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("snapshot cache decode: %w", err)
	}
	return &d, nil
}
