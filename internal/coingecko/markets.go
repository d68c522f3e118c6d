package coingecko

import (
	"context"
	"net/url"
	"strconv"
)

// MarketCoin is one row of the /coins/markets listing.
type MarketCoin struct {
	ID                         string   `json:"id"`
	Symbol                     string   `json:"symbol"`
	Name                       string   `json:"name"`
	CurrentPrice               float64  `json:"current_price"`
	PriceChange24h             *float64 `json:"price_change_24h"`
	PriceChangePercentage24h   *float64 `json:"price_change_percentage_24h"`
	PriceChangePercentage7d    *float64 `json:"price_change_percentage_7d_in_currency"`
	MarketCap                  float64  `json:"market_cap"`
	TotalVolume                float64  `json:"total_volume"`
	Image                      string   `json:"image"`
	MarketCapRank              int      `json:"market_cap_rank"`
	High24h                    float64  `json:"high_24h"`
	Low24h                     float64  `json:"low_24h"`
	CirculatingSupply          float64  `json:"circulating_supply"`
	TotalSupply                *float64 `json:"total_supply"`
	ATH                        float64  `json:"ath"`
	ATHChangePercentage        float64  `json:"ath_change_percentage"`
}

// Markets returns the top coins by market cap, one page, descending.
func (c *Client) Markets(ctx context.Context, perPage int) ([]MarketCoin, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", "1")
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "24h,7d")

	var coins []MarketCoin
	if err := c.get(ctx, "/coins/markets", params, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}
