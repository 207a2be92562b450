package models

import (
	"fmt"
	"math"
	"time"
)

// PatternSignal is the direction of the recent multi-bar price pattern.
type PatternSignal string

const (
	PatternBullish PatternSignal = "bullish"
	PatternBearish PatternSignal = "bearish"
	PatternNone    PatternSignal = "none"
)

// Sentiment is the coarse whole-market classification derived from the
// fear & greed index.
type Sentiment string

const (
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
	SentimentBullish Sentiment = "bullish"
)

// MarketSnapshot holds the raw per-asset indicator readings for one refresh
// cycle. Nil pointers mean "indicator unavailable"; scoring resolves those to
// a neutral prior, never to zero.
type MarketSnapshot struct {
	AssetID       string        `json:"asset_id"`
	RSI14         *float64      `json:"rsi14,omitempty"`
	MACD          *float64      `json:"macd,omitempty"`
	MACDSignal    *float64      `json:"macd_signal,omitempty"`
	CloseAboveMA  *bool         `json:"close_above_ma200,omitempty"`
	Change24hPct  *float64      `json:"change_24h_pct,omitempty"`
	PatternSignal PatternSignal `json:"pattern_signal"`

	// Context carried for reporting only; the engine ignores these.
	Price     *float64 `json:"price,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
}

// Validate rejects non-finite numeric readings. Missing values are legal;
// NaN or Inf leaking into the arithmetic is not.
func (s *MarketSnapshot) Validate() error {
	if s.AssetID == "" {
		return fmt.Errorf("snapshot: asset_id is required")
	}
	for name, v := range map[string]*float64{
		"rsi14":          s.RSI14,
		"macd":           s.MACD,
		"macd_signal":    s.MACDSignal,
		"change_24h_pct": s.Change24hPct,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("snapshot %s: %s is not finite", s.AssetID, name)
		}
	}
	switch s.PatternSignal {
	case PatternBullish, PatternBearish, PatternNone, "":
	default:
		return fmt.Errorf("snapshot %s: unknown pattern_signal %q", s.AssetID, s.PatternSignal)
	}
	return nil
}

// MarketContext holds the whole-market readings shared by every asset in a
// single run.
type MarketContext struct {
	SentimentClassification string  `json:"sentiment_classification"`
	AverageCyclePosition    float64 `json:"average_cycle_position"`

	// Reporting extras, not consumed by the engine.
	FearGreedIndex *float64 `json:"fear_greed_index,omitempty"`
	BTCDominance   *float64 `json:"btc_dominance,omitempty"`
	TotalMarketCap *float64 `json:"total_market_cap,omitempty"`
}

// Validate rejects non-finite context readings. Cycle position is clamped by
// the engine, so only NaN/Inf are fatal here.
func (c *MarketContext) Validate() error {
	if math.IsNaN(c.AverageCyclePosition) || math.IsInf(c.AverageCyclePosition, 0) {
		return fmt.Errorf("context: average_cycle_position is not finite")
	}
	return nil
}

// Technicals carries the full locally-computed indicator block for one asset,
// kept in the collected snapshot file for the dashboard.
type Technicals struct {
	RSI14       *float64           `json:"rsi14,omitempty"`
	MACD        *float64           `json:"macd,omitempty"`
	MACDSignal  *float64           `json:"macd_signal,omitempty"`
	BBWidth     *float64           `json:"bb_width,omitempty"`
	YearHigh    float64            `json:"high"`
	YearLow     float64            `json:"low"`
	Fibonacci   map[string]float64 `json:"fibonacci,omitempty"`
	CyclePos    float64            `json:"cycle"`
	SMA200      *float64           `json:"sma200,omitempty"`
	CloseAbove  *bool              `json:"close_above_ma200,omitempty"`
	Pattern     PatternSignal      `json:"pattern_signal"`
	PriceDates  []string           `json:"history_dates,omitempty"`
	PriceCloses []float64          `json:"history_prices,omitempty"`
}

// VideoItem is one recent video from a tracked analyst channel.
type VideoItem struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

// CollectedData is the full raw dataset written per refresh cycle, one
// MarketSnapshot per asset plus the shared context.
type CollectedData struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Context     MarketContext          `json:"context"`
	Assets      []MarketSnapshot       `json:"assets"`
	Technicals  map[string]Technicals  `json:"technicals,omitempty"`
	Videos      map[string][]VideoItem `json:"videos,omitempty"`
}
