package service

import (
	"context"

	"RiskPulse/internal/domain/models"
)

// MarketDataSource serves spot quotes, whole-market metrics, and daily close
// history for tracked assets.
type MarketDataSource interface {
	Quotes(ctx context.Context, ids []string) (map[string]models.Quote, error)
	Global(ctx context.Context) (models.GlobalMetrics, error)
	DailyCloses(ctx context.Context, id string, days int) ([]models.ClosePoint, error)
}

// SentimentSource serves the current fear & greed reading.
type SentimentSource interface {
	FearGreed(ctx context.Context) (models.FearGreed, error)
}

// VideoSource serves recent videos from a tracked analyst channel.
type VideoSource interface {
	RecentVideos(ctx context.Context, channelID string) ([]models.VideoItem, error)
}
