package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"RiskPulse/internal/domain/models"
	drepo "RiskPulse/internal/domain/repository"
	domsvc "RiskPulse/internal/domain/service"
	"RiskPulse/internal/service/feargreed"
	"RiskPulse/internal/services/features"
	xlogger "RiskPulse/pkg/logger"
)

const historyTail = 90

// DataCollector assembles one CollectedData from the upstream sources: spot
// quotes, global metrics, fear & greed, per-asset close history (turned into
// local indicators) and analyst videos. A single asset failing degrades that
// asset to missing indicators; only a total quote failure aborts the run.
type DataCollector struct {
	market    domsvc.MarketDataSource
	sentiment domsvc.SentimentSource
	videos    domsvc.VideoSource

	assets      map[string]string // CoinGecko ID -> output symbol
	channels    map[string]string // channel name -> YouTube channel ID
	historyDays int

	metrics drepo.Metrics
	logger  *xlogger.Logger
}

// NewDataCollector creates a collector. videos may be nil when the video
// digest is disabled.
func NewDataCollector(
	market domsvc.MarketDataSource,
	sentiment domsvc.SentimentSource,
	videos domsvc.VideoSource,
	assets map[string]string,
	channels map[string]string,
	historyDays int,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
) *DataCollector {
	return &DataCollector{
		market:      market,
		sentiment:   sentiment,
		videos:      videos,
		assets:      assets,
		channels:    channels,
		historyDays: historyDays,
		metrics:     metrics,
		logger:      logger,
	}
}

// Collect fetches everything for one refresh cycle. Assets are processed in
// sorted ID order so identical upstream data yields identical output.
func (c *DataCollector) Collect(ctx context.Context) (*models.CollectedData, error) {
	ids := make([]string, 0, len(c.assets))
	for id := range c.assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	quotes, err := c.market.Quotes(ctx, ids)
	if err != nil {
		c.metrics.RecordFetchError("quotes")
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}

	out := &models.CollectedData{
		GeneratedAt: time.Now().UTC(),
		Technicals:  make(map[string]models.Technicals, len(ids)),
	}

	if global, err := c.market.Global(ctx); err != nil {
		c.metrics.RecordFetchError("global")
		c.logger.Warn("global metrics unavailable", xlogger.Error(err))
	} else {
		out.Context.BTCDominance = &global.BTCDominance
		out.Context.TotalMarketCap = &global.TotalMarketCap
	}

	out.Context.SentimentClassification = string(models.SentimentNeutral)
	if fng, err := c.sentiment.FearGreed(ctx); err != nil {
		c.metrics.RecordFetchError("feargreed")
		c.logger.Warn("fear & greed unavailable", xlogger.Error(err))
	} else {
		v := float64(fng.Value)
		out.Context.FearGreedIndex = &v
		out.Context.SentimentClassification = string(feargreed.Sentiment(fng.Classification))
	}

	cycleSum := 0.0
	for _, id := range ids {
		symbol := c.assets[id]
		snap := models.MarketSnapshot{AssetID: symbol, PatternSignal: models.PatternNone}
		if q, ok := quotes[id]; ok {
			snap.Price = q.PriceUSD
			snap.MarketCap = q.MarketCapUSD
			snap.Change24hPct = q.Change24hPct
		}

		tech, cycle, err := c.computeTechnicals(ctx, id)
		if err != nil {
			// Degrade to missing indicators; scoring reads them as neutral.
			c.metrics.RecordFetchError("history")
			c.logger.Warn("technicals unavailable",
				xlogger.String("asset", symbol), xlogger.Error(err))
			cycleSum += 0.5
		} else {
			snap.RSI14 = tech.RSI14
			snap.MACD = tech.MACD
			snap.MACDSignal = tech.MACDSignal
			snap.CloseAboveMA = tech.CloseAbove
			snap.PatternSignal = tech.Pattern
			out.Technicals[symbol] = tech
			cycleSum += cycle
		}
		out.Assets = append(out.Assets, snap)
	}

	avgCycle := 0.5
	if len(ids) > 0 {
		avgCycle = cycleSum / float64(len(ids))
	}
	// Technicals carry the raw range position (1 at the yearly high); the
	// engine encodes cycle position the other way around, 0 at the peak.
	out.Context.AverageCyclePosition = 1 - avgCycle

	if c.videos != nil && len(c.channels) > 0 {
		out.Videos = c.collectVideos(ctx)
	}

	return out, nil
}

// computeTechnicals derives the indicator block for one asset from its daily
// close history.
func (c *DataCollector) computeTechnicals(ctx context.Context, id string) (models.Technicals, float64, error) {
	points, err := c.market.DailyCloses(ctx, id, c.historyDays)
	if err != nil {
		return models.Technicals{}, 0, err
	}
	if len(points) < 30 {
		return models.Technicals{}, 0, fmt.Errorf("insufficient history for %s: %d bars", id, len(points))
	}

	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}

	var t models.Technicals
	if v, ok := features.RSI(closes, 14); ok {
		t.RSI14 = &v
	}
	if line, sig, ok := features.MACD(closes, 12, 26, 9); ok {
		t.MACD = &line
		t.MACDSignal = &sig
	}
	if sma, ok := features.SMA(closes, 200); ok {
		t.SMA200 = &sma
		above := closes[len(closes)-1] > sma
		t.CloseAbove = &above
	}
	if w, ok := features.BollingerWidth(closes); ok {
		t.BBWidth = &w
	}
	t.Fibonacci = features.FibLevels(closes)
	t.Pattern = features.DetectPattern(closes)

	lo, hi := closes[0], closes[0]
	for _, v := range closes {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	t.YearLow, t.YearHigh = lo, hi

	cycle, _ := features.CyclePosition(closes)
	t.CyclePos = cycle

	tail := points
	if len(tail) > historyTail {
		tail = tail[len(tail)-historyTail:]
	}
	for _, p := range tail {
		t.PriceDates = append(t.PriceDates, p.Date.Format("2006-01-02"))
		t.PriceCloses = append(t.PriceCloses, p.Close)
	}

	return t, cycle, nil
}

func (c *DataCollector) collectVideos(ctx context.Context) map[string][]models.VideoItem {
	out := make(map[string][]models.VideoItem, len(c.channels))
	names := make([]string, 0, len(c.channels))
	for name := range c.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		items, err := c.videos.RecentVideos(ctx, c.channels[name])
		if err != nil {
			// A dead feed should not block the run.
			c.metrics.RecordFetchError("videos")
			c.logger.Warn("channel feed failed",
				xlogger.String("channel", name), xlogger.Error(err))
			out[name] = nil
			continue
		}
		out[name] = items
	}
	return out
}
