package models

// Requests for the scoring HTTP endpoints. Defined in domain for consistency and reuse.

// ScoreAssetRequest mirrors MarketSnapshot for on-demand scoring calls.
type ScoreAssetRequest struct {
	AssetID       string   `json:"asset_id" validate:"required"`
	RSI14         *float64 `json:"rsi14,omitempty"`
	MACD          *float64 `json:"macd,omitempty"`
	MACDSignal    *float64 `json:"macd_signal,omitempty"`
	CloseAboveMA  *bool    `json:"close_above_ma200,omitempty"`
	Change24hPct  *float64 `json:"change_24h_pct,omitempty"`
	PatternSignal string   `json:"pattern_signal" default:"none" validate:"oneof=bullish bearish none"`
}

// ScoreRequest scores a caller-supplied snapshot set against the configured
// weight table. No side effects; nothing is persisted or published.
type ScoreRequest struct {
	Sentiment     string              `json:"sentiment_classification" default:"neutral"`
	CyclePosition float64             `json:"average_cycle_position" default:"0.5" validate:"gte=0,lte=1"`
	Assets        []ScoreAssetRequest `json:"assets" validate:"dive"`
}
