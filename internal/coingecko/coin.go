package coingecko

import (
	"context"
	"net/url"
)

// Coin is the /coins/{id} detail payload. Per-currency values come back as
// maps keyed by currency code; only "usd" is consumed downstream.
type Coin struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank"`
	Image         struct {
		Large string `json:"large"`
	} `json:"image"`
	MarketData struct {
		CurrentPrice              map[string]float64 `json:"current_price"`
		PriceChange24h            float64            `json:"price_change_24h"`
		PriceChangePercentage24h  float64            `json:"price_change_percentage_24h"`
		PriceChangePercentage7d   float64            `json:"price_change_percentage_7d"`
		PriceChangePercentage30d  float64            `json:"price_change_percentage_30d"`
		PriceChangePercentage1y   float64            `json:"price_change_percentage_1y"`
		MarketCap                 map[string]float64 `json:"market_cap"`
		TotalVolume               map[string]float64 `json:"total_volume"`
		High24h                   map[string]float64 `json:"high_24h"`
		Low24h                    map[string]float64 `json:"low_24h"`
		CirculatingSupply         float64            `json:"circulating_supply"`
		TotalSupply               *float64           `json:"total_supply"`
		MaxSupply                 *float64           `json:"max_supply"`
		ATH                       map[string]float64 `json:"ath"`
		ATHChangePercentage       map[string]float64 `json:"ath_change_percentage"`
		ATHDate                   map[string]string  `json:"ath_date"`
		ATL                       map[string]float64 `json:"atl"`
		ATLChangePercentage       map[string]float64 `json:"atl_change_percentage"`
		ATLDate                   map[string]string  `json:"atl_date"`
	} `json:"market_data"`
	Description map[string]string `json:"description"`
	Links       struct {
		Homepage []string `json:"homepage"`
	} `json:"links"`
	GenesisDate string   `json:"genesis_date"`
	Categories  []string `json:"categories"`
}

// CoinDetail fetches one coin by its CoinGecko id (e.g. "bitcoin").
func (c *Client) CoinDetail(ctx context.Context, id string) (*Coin, error) {
	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("market_data", "true")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")
	params.Set("sparkline", "false")

	var coin Coin
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), params, &coin); err != nil {
		return nil, err
	}
	return &coin, nil
}
