package models

import "time"

// Quote is the spot market reading for one asset from the price API.
// Pointers are nil when the upstream omitted the field.
type Quote struct {
	PriceUSD     *float64 `json:"usd,omitempty"`
	MarketCapUSD *float64 `json:"usd_market_cap,omitempty"`
	Change24hPct *float64 `json:"usd_24h_change,omitempty"`
}

// GlobalMetrics are the whole-market readings from the global endpoint.
type GlobalMetrics struct {
	BTCDominance   float64 `json:"btc_dominance"`
	TotalMarketCap float64 `json:"total_market_cap"`
}

// FearGreed is the current fear & greed index reading.
type FearGreed struct {
	Value          int    `json:"value"`
	Classification string `json:"value_classification"`
}

// ClosePoint is one daily close from the price history endpoint.
type ClosePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}
