package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"marketdash/internal/market"
)

// OptionRow is one contract of an option chain. Unlike quoteSummary, the
// options endpoint returns plain numbers; thinly traded contracts omit
// volume, open interest and IV.
type OptionRow struct {
	ContractSymbol    string   `json:"contractSymbol"`
	Strike            float64  `json:"strike"`
	Currency          string   `json:"currency"`
	LastPrice         float64  `json:"lastPrice"`
	Change            float64  `json:"change"`
	PercentChange     float64  `json:"percentChange"`
	Volume            *int64   `json:"volume"`
	OpenInterest      *int64   `json:"openInterest"`
	Bid               *float64 `json:"bid"`
	Ask               *float64 `json:"ask"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
	InTheMoney        bool     `json:"inTheMoney"`
	LastTradeDate     int64    `json:"lastTradeDate"`
	Expiration        int64    `json:"expiration"`
}

type OptionExpiration struct {
	ExpirationDate int64       `json:"expirationDate"`
	Calls          []OptionRow `json:"calls"`
	Puts           []OptionRow `json:"puts"`
}

type OptionChain struct {
	UnderlyingSymbol string             `json:"underlyingSymbol"`
	ExpirationDates  []int64            `json:"expirationDates"`
	Strikes          []float64          `json:"strikes"`
	Options          []OptionExpiration `json:"options"`
}

type optionsEnvelope struct {
	OptionChain struct {
		Result []*OptionChain `json:"result"`
		Error  *apiError      `json:"error"`
	} `json:"optionChain"`
}

// Options fetches the option chain for one expiration. A zero date selects
// the nearest expiration upstream.
func (c *Client) Options(ctx context.Context, symbol string, date int64) (*OptionChain, error) {
	params := url.Values{}
	if date > 0 {
		params.Set("date", strconv.FormatInt(date, 10))
	}

	var env optionsEnvelope
	endpoint := "/v7/finance/options/" + url.PathEscape(symbol)
	if err := c.get(ctx, endpoint, params, &env); err != nil {
		return nil, err
	}
	if env.OptionChain.Error != nil {
		return nil, fmt.Errorf("%w: %s", market.ErrNotFound, env.OptionChain.Error.Description)
	}
	if len(env.OptionChain.Result) == 0 {
		return nil, market.ErrNotFound
	}
	return env.OptionChain.Result[0], nil
}
