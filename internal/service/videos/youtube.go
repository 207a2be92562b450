package videos

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"RiskPulse/internal/domain/models"
	domsvc "RiskPulse/internal/domain/service"
)

const feedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// Fetcher implements VideoSource over YouTube channel RSS feeds.
type Fetcher struct {
	parser     *gofeed.Parser
	maxAge     time.Duration
	maxPerFeed int
}

func New(maxAgeDays, maxPerFeed int) *Fetcher {
	if maxAgeDays <= 0 {
		maxAgeDays = 30
	}
	if maxPerFeed <= 0 {
		maxPerFeed = 50
	}
	return &Fetcher{
		parser:     gofeed.NewParser(),
		maxAge:     time.Duration(maxAgeDays) * 24 * time.Hour,
		maxPerFeed: maxPerFeed,
	}
}

// RecentVideos returns videos published within the configured window,
// newest first as the feed serves them.
func (f *Fetcher) RecentVideos(ctx context.Context, channelID string) ([]models.VideoItem, error) {
	feed, err := f.parser.ParseURLWithContext(fmt.Sprintf(feedURL, channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse channel feed %s: %w", channelID, err)
	}

	cutoff := time.Now().UTC().Add(-f.maxAge)
	items := feed.Items
	if len(items) > f.maxPerFeed {
		items = items[:f.maxPerFeed]
	}

	out := make([]models.VideoItem, 0, len(items))
	for _, it := range items {
		if it.PublishedParsed == nil {
			continue
		}
		published := it.PublishedParsed.UTC()
		if published.Before(cutoff) {
			continue
		}
		out = append(out, models.VideoItem{
			Title:     it.Title,
			Link:      it.Link,
			Published: published,
		})
	}
	return out, nil
}

var _ domsvc.VideoSource = (*Fetcher)(nil)
