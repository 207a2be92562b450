package coingecko

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"RiskPulse/internal/domain/models"
	domsvc "RiskPulse/internal/domain/service"
	"RiskPulse/internal/service/ratelimit"
	xhttp "RiskPulse/pkg/http"
)

const limiterKey = "coingecko"

// Client implements MarketDataSource against the CoinGecko REST API.
type Client struct {
	baseURL string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	maxRPS  float64
}

// New creates a CoinGecko client. maxRPS paces outbound calls; the public
// API throttles aggressively.
func New(baseURL string, timeout time.Duration, maxRPS float64) *Client {
	if maxRPS <= 0 {
		maxRPS = 0.5
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: ratelimit.New(),
		maxRPS:  maxRPS,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx, limiterKey, 1, c.maxRPS); err != nil {
		return err
	}
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: query,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// Quotes fetches spot price, market cap and 24h change for the given IDs in
// one call.
func (c *Client) Quotes(ctx context.Context, ids []string) (map[string]models.Quote, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	var out map[string]models.Quote
	err := c.getJSON(ctx, "/simple/price", map[string][]string{
		"ids":                 {strings.Join(sorted, ",")},
		"vs_currencies":       {"usd"},
		"include_market_cap":  {"true"},
		"include_24hr_change": {"true"},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type globalResp struct {
	Data struct {
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
	} `json:"data"`
}

// Global fetches BTC dominance and total market cap.
func (c *Client) Global(ctx context.Context) (models.GlobalMetrics, error) {
	var gr globalResp
	if err := c.getJSON(ctx, "/global", nil, &gr); err != nil {
		return models.GlobalMetrics{}, err
	}
	return models.GlobalMetrics{
		BTCDominance:   gr.Data.MarketCapPercentage["btc"],
		TotalMarketCap: gr.Data.TotalMarketCap["usd"],
	}, nil
}

type marketChartResp struct {
	Prices [][2]float64 `json:"prices"`
}

// DailyCloses fetches up to `days` of daily closes for one asset, oldest
// first.
func (c *Client) DailyCloses(ctx context.Context, id string, days int) ([]models.ClosePoint, error) {
	var mc marketChartResp
	err := c.getJSON(ctx, "/coins/"+id+"/market_chart", map[string][]string{
		"vs_currency": {"usd"},
		"days":        {strconv.Itoa(days)},
		"interval":    {"daily"},
	}, &mc)
	if err != nil {
		return nil, err
	}
	out := make([]models.ClosePoint, 0, len(mc.Prices))
	for _, p := range mc.Prices {
		out = append(out, models.ClosePoint{
			Date:  time.UnixMilli(int64(p[0])).UTC(),
			Close: p[1],
		})
	}
	return out, nil
}

var _ domsvc.MarketDataSource = (*Client)(nil)
