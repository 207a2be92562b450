//go:build wireinject
// +build wireinject

package di

import (
	"RiskPulse/pkg/config"
	"RiskPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Scoring
		ProvideEngine,
		ProvideScorer,

		// Upstream sources
		ProvideMarketSource,
		ProvideSentimentSource,
		ProvideVideoSource,

		// Persistence and downstream
		ProvideStore,
		ProvideResultSink,
		ProvideCacheService,

		// Use cases
		ProvideCollector,
		ProvideRunner,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
