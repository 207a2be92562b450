package feargreed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"RiskPulse/internal/domain/models"
	domsvc "RiskPulse/internal/domain/service"
	xhttp "RiskPulse/pkg/http"
)

// Client implements SentimentSource against the alternative.me fear & greed
// API.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type fngResp struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

// FearGreed fetches the most recent index entry.
func (c *Client) FearGreed(ctx context.Context) (models.FearGreed, error) {
	var fr fngResp
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/fng/",
	}, &fr)
	if err != nil {
		return models.FearGreed{}, fmt.Errorf("get fng: %w", err)
	}
	if len(fr.Data) == 0 {
		return models.FearGreed{}, fmt.Errorf("fng: empty response")
	}
	v, err := strconv.Atoi(fr.Data[0].Value)
	if err != nil {
		return models.FearGreed{}, fmt.Errorf("fng: bad value %q: %w", fr.Data[0].Value, err)
	}
	return models.FearGreed{Value: v, Classification: fr.Data[0].Classification}, nil
}

// Sentiment maps a fear & greed classification onto the coarse market
// classification the scoring engine consumes. Fear reads bearish, greed
// bullish, anything unrecognized neutral.
func Sentiment(classification string) models.Sentiment {
	c := strings.ToLower(classification)
	switch {
	case strings.Contains(c, "fear"):
		return models.SentimentBearish
	case strings.Contains(c, "greed"):
		return models.SentimentBullish
	default:
		return models.SentimentNeutral
	}
}

var _ domsvc.SentimentSource = (*Client)(nil)
