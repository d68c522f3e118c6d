package coingecko

import (
	"context"
	"net/url"
)

// MarketChart is the /coins/{id}/market_chart payload: parallel arrays of
// [timestamp-ms, value] pairs. Volumes pair with prices by position, not by
// timestamp matching; that is the upstream contract.
type MarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// MarketChart fetches a price/volume point series. days is a day count or
// "max"; interval is optional ("daily", "hourly") and auto-selected upstream
// when empty.
func (c *Client) MarketChart(ctx context.Context, id, days, interval string) (*MarketChart, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", days)
	if interval != "" {
		params.Set("interval", interval)
	}

	var chart MarketChart
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", params, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

// OHLC fetches candlestick rows of [timestamp-ms, open, high, low, close].
// This endpoint carries no volume data.
func (c *Client) OHLC(ctx context.Context, id, days string) ([][5]float64, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", days)

	var rows [][5]float64
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/ohlc", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
