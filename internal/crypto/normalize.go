package crypto

import (
	"strings"

	"marketdash/internal/coingecko"
	"marketdash/internal/market"
)

// normalizeListing maps one /coins/markets row into a listing record.
// Optional change fields default to 0 rather than dropping the row.
func normalizeListing(coin coingecko.MarketCoin) market.Crypto {
	out := market.Crypto{
		ID:            coin.ID,
		Symbol:        strings.ToUpper(coin.Symbol),
		Name:          coin.Name,
		Price:         coin.CurrentPrice,
		Change:        market.Round2(deref(coin.PriceChange24h)),
		ChangePercent: market.Round2(deref(coin.PriceChangePercentage24h)),
		MarketCap:     coin.MarketCap,
		Volume:        coin.TotalVolume,
		Image:         coin.Image,
		Rank:          coin.MarketCapRank,
		High24h:       coin.High24h,
		Low24h:        coin.Low24h,
	}

	change7d := market.Round2(deref(coin.PriceChangePercentage7d))
	circulating := coin.CirculatingSupply
	totalSupply := deref(coin.TotalSupply)
	ath := coin.ATH
	athChange := market.Round2(coin.ATHChangePercentage)
	out.ChangePercent7d = &change7d
	out.CirculatingSupply = &circulating
	out.TotalSupply = &totalSupply
	out.ATH = &ath
	out.ATHChangePercent = &athChange
	return out
}

// normalizeDetail maps the /coins/{id} payload. The basic record carries the
// listing fields only; full adds supply, all-time extremes, long-window
// changes and the descriptive block. A payload without a usable usd price is
// not a record.
func normalizeDetail(coin *coingecko.Coin, full bool) (*market.Crypto, error) {
	md := coin.MarketData
	if md.CurrentPrice["usd"] == 0 {
		return nil, market.ErrNotFound
	}
	out := &market.Crypto{
		ID:            coin.ID,
		Symbol:        strings.ToUpper(coin.Symbol),
		Name:          coin.Name,
		Price:         md.CurrentPrice["usd"],
		Change:        market.Round2(md.PriceChange24h),
		ChangePercent: market.Round2(md.PriceChangePercentage24h),
		MarketCap:     md.MarketCap["usd"],
		Volume:        md.TotalVolume["usd"],
		Image:         coin.Image.Large,
		Rank:          coin.MarketCapRank,
		High24h:       md.High24h["usd"],
		Low24h:        md.Low24h["usd"],
	}
	if !full {
		return out, nil
	}

	circulating := md.CirculatingSupply
	totalSupply := deref(md.TotalSupply)
	ath := md.ATH["usd"]
	athChange := market.Round2(md.ATHChangePercentage["usd"])
	atl := md.ATL["usd"]
	atlChange := market.Round2(md.ATLChangePercentage["usd"])
	change7d := market.Round2(md.PriceChangePercentage7d)
	change30d := market.Round2(md.PriceChangePercentage30d)
	change1y := market.Round2(md.PriceChangePercentage1y)
	description := coin.Description["en"]

	out.CirculatingSupply = &circulating
	out.TotalSupply = &totalSupply
	out.MaxSupply = md.MaxSupply
	out.ATH = &ath
	out.ATHChangePercent = &athChange
	out.ATHDate = md.ATHDate["usd"]
	out.ATL = &atl
	out.ATLChangePercent = &atlChange
	out.ATLDate = md.ATLDate["usd"]
	out.ChangePercent7d = &change7d
	out.ChangePercent30d = &change30d
	out.ChangePercent1y = &change1y
	out.Description = &description
	if len(coin.Links.Homepage) > 0 {
		out.Homepage = coin.Links.Homepage[0]
	}
	out.GenesisDate = coin.GenesisDate
	out.Categories = coin.Categories
	return out, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
