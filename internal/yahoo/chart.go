package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"marketdash/internal/market"
)

// ChartParams selects the window and resolution of a chart request. Either
// Range or the Start/End pair must be set; Start/End win when both are given.
type ChartParams struct {
	Range    string
	Start    int64 // unix seconds
	End      int64
	Interval string
	Events   bool // include dividends and splits
}

type ChartMeta struct {
	Currency             string  `json:"currency"`
	Symbol               string  `json:"symbol"`
	ExchangeName         string  `json:"exchangeName"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
	Timezone             string  `json:"timezone"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	DataGranularity      string  `json:"dataGranularity"`
	Range                string  `json:"range"`
}

// ChartQuote holds the parallel OHLCV arrays. Entries can be null upstream
// for halted or partial bars, hence the pointer elements.
type ChartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type DividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type SplitEvent struct {
	Date        int64   `json:"date"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	SplitRatio  string  `json:"splitRatio"`
}

type ChartEvents struct {
	Dividends map[string]DividendEvent `json:"dividends"`
	Splits    map[string]SplitEvent    `json:"splits"`
}

type ChartResult struct {
	Meta       ChartMeta    `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Events     *ChartEvents `json:"events"`
	Indicators struct {
		Quote []ChartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartEnvelope struct {
	Chart struct {
		Result []*ChartResult `json:"result"`
		Error  *apiError      `json:"error"`
	} `json:"chart"`
}

// Chart fetches the price history for one symbol.
func (c *Client) Chart(ctx context.Context, symbol string, p ChartParams) (*ChartResult, error) {
	params := url.Values{}
	if p.Start > 0 && p.End > 0 {
		params.Set("period1", strconv.FormatInt(p.Start, 10))
		params.Set("period2", strconv.FormatInt(p.End, 10))
	} else {
		r := p.Range
		if r == "" {
			r = "1mo"
		}
		params.Set("range", r)
	}
	if p.Interval != "" {
		params.Set("interval", p.Interval)
	}
	if p.Events {
		params.Set("events", "div,splits")
	}

	var env chartEnvelope
	endpoint := "/v8/finance/chart/" + url.PathEscape(symbol)
	if err := c.get(ctx, endpoint, params, &env); err != nil {
		return nil, err
	}
	if env.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", market.ErrNotFound, env.Chart.Error.Description)
	}
	if len(env.Chart.Result) == 0 {
		return nil, market.ErrNotFound
	}
	return env.Chart.Result[0], nil
}
