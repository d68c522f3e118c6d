package coingecko

import (
	"context"
	"net/url"
)

// SearchCoin is one coin row of the /search payload.
type SearchCoin struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Large         string `json:"large"`
	MarketCapRank int    `json:"market_cap_rank"`
}

type searchResponse struct {
	Coins []SearchCoin `json:"coins"`
}

// Search looks up coins by name or symbol, upstream relevance order.
func (c *Client) Search(ctx context.Context, query string) ([]SearchCoin, error) {
	params := url.Values{}
	params.Set("query", query)

	var res searchResponse
	if err := c.get(ctx, "/search", params, &res); err != nil {
		return nil, err
	}
	return res.Coins, nil
}
