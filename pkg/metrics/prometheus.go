package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal     *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	assetRisk     *prometheus.GaugeVec
	portfolioRisk prometheus.Gauge
	runDuration   prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskpulse_runs_total",
				Help: "Total number of refresh runs by outcome",
			},
			[]string{"status"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskpulse_fetch_errors_total",
				Help: "Total number of upstream fetch errors by source",
			},
			[]string{"source"},
		),
		assetRisk: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riskpulse_asset_risk",
				Help: "Latest composite risk score per asset",
			},
			[]string{"asset"},
		),
		portfolioRisk: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "riskpulse_portfolio_risk",
				Help: "Latest portfolio composite risk score",
			},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "riskpulse_run_duration_seconds",
				Help:    "Duration of a full refresh run in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordRun records a completed refresh run by outcome.
func (r *Recorder) RecordRun(status string) {
	r.runsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration records how long a refresh run took.
func (r *Recorder) RecordRunDuration(seconds float64) {
	r.runDuration.Observe(seconds)
}

// RecordFetchError records an upstream fetch failure.
func (r *Recorder) RecordFetchError(source string) {
	r.fetchErrors.WithLabelValues(source).Inc()
}

// RecordAssetRisk records the latest risk score for an asset.
func (r *Recorder) RecordAssetRisk(asset string, risk float64) {
	r.assetRisk.WithLabelValues(asset).Set(risk)
}

// RecordPortfolioRisk records the latest portfolio risk score.
func (r *Recorder) RecordPortfolioRisk(risk float64) {
	r.portfolioRisk.Set(risk)
}
