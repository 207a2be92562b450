package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"RiskPulse/internal/domain/repository"
	domsvc "RiskPulse/internal/domain/service"
	"RiskPulse/internal/handler/api"
	internalrepo "RiskPulse/internal/repository"
	icache "RiskPulse/internal/service/cache"
	"RiskPulse/internal/service/coingecko"
	"RiskPulse/internal/service/feargreed"
	"RiskPulse/internal/service/videos"
	"RiskPulse/internal/services/scoring"
	"RiskPulse/internal/usecase"
	"RiskPulse/pkg/cache"
	pkgch "RiskPulse/pkg/clickhouse"
	"RiskPulse/pkg/config"
	xhttp "RiskPulse/pkg/http"
	pkgkafka "RiskPulse/pkg/kafka"
	applogger "RiskPulse/pkg/logger"
	"RiskPulse/pkg/metrics"
	"RiskPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine builds the scoring engine. A malformed weight table fails
// startup here.
func ProvideEngine(cfg *config.Config) (*scoring.Engine, error) {
	return scoring.NewEngine(cfg.Weights)
}

// ProvideMarketSource creates the CoinGecko market data client.
func ProvideMarketSource(cfg *config.Config) domsvc.MarketDataSource {
	return coingecko.New(cfg.CoinGecko.BaseURL, cfg.CoinGecko.Timeout, cfg.CoinGecko.MaxRPS)
}

// ProvideSentimentSource creates the fear & greed client.
func ProvideSentimentSource(cfg *config.Config) domsvc.SentimentSource {
	return feargreed.New(cfg.FearGreed.BaseURL, cfg.FearGreed.Timeout)
}

// ProvideVideoSource creates the YouTube feed fetcher, or nil when the video
// digest is disabled.
func ProvideVideoSource(cfg *config.Config) domsvc.VideoSource {
	if !cfg.Videos.Enabled {
		return nil
	}
	return videos.New(cfg.Videos.MaxAgeDays, cfg.Videos.MaxPerFeed)
}

// ProvideStore creates the file-backed snapshot store.
func ProvideStore(cfg *config.Config) (repository.SnapshotStore, error) {
	return internalrepo.NewFileStore(
		cfg.Output.Dir,
		cfg.Output.SnapshotFile,
		cfg.Output.AnalysisFile,
		cfg.Output.ReportFile,
	)
}

// ProvideResultSink creates the downstream sink for the configured backend.
// The file backend has no sink; everything it needs is in the store.
func ProvideResultSink(cfg *config.Config) (repository.ResultSink, error) {
	switch cfg.Output.Backend {
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
			pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaSink(producer, cfg.Kafka.Topic), nil

	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		table := cfg.ClickHouse.Database + ".risk_scores"
		if err := client.InitSchema(ctx, []string{
			"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
			"CREATE TABLE IF NOT EXISTS " + table + ` (
				generated_at DateTime,
				asset_id String,
				risk Float64,
				recommendation String,
				sentiment_risk Float64,
				technical_risk Float64,
				cycle_risk Float64,
				portfolio_risk Float64
			) ENGINE=MergeTree ORDER BY (asset_id, generated_at)`,
		}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return internalrepo.NewClickHouseSink(client.DB(), table), nil
	}
	return nil, nil
}

// ProvideCacheService creates the snapshot fallback cache: memory-fronted
// Redis when configured, in-process memory otherwise.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, err
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideCollector creates the data collector use case.
func ProvideCollector(
	market domsvc.MarketDataSource,
	sentiment domsvc.SentimentSource,
	videoSource domsvc.VideoSource,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.DataCollector {
	return usecase.NewDataCollector(
		market, sentiment, videoSource,
		cfg.Assets, cfg.Videos.Channels,
		cfg.CoinGecko.HistoryDays,
		m, l,
	)
}

// ProvideRunner creates the refresh runner use case.
func ProvideRunner(
	collector *usecase.DataCollector,
	engine *scoring.Engine,
	store repository.SnapshotStore,
	sink repository.ResultSink,
	cacheService cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.RefreshRunner {
	return usecase.NewRefreshRunner(
		collector, engine, store, sink, cacheService, m, l,
		cfg.Refresh.Interval,
		cfg.Refresh.RunOnStart,
		cfg.Cache.SnapshotTTL,
	)
}

// ProvideScorer creates the on-demand scoring use case.
func ProvideScorer(engine *scoring.Engine) *usecase.Scorer {
	return usecase.NewScorer(engine)
}

// ProvideHandler creates the HTTP handler. With Redis configured the report
// cache is shared instead of per-process.
func ProvideHandler(cfg *config.Config, l *applogger.Logger, store repository.SnapshotStore, scorer *usecase.Scorer) xhttp.Handler {
	h := api.NewAnalysisHandler(l, store, scorer)
	if cfg.Cache.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}))
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	runner *usecase.RefreshRunner,
	handler xhttp.Handler,
	sink repository.ResultSink,
) *server.App {
	return server.New(cfg, l, runner, handler, sink)
}
