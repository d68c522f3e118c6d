package yahoo

import (
	"context"
	"net/url"
	"strconv"
)

// NewsArticle is one story from the search endpoint's news block.
type NewsArticle struct {
	UUID                string     `json:"uuid"`
	Title               string     `json:"title"`
	Link                string     `json:"link"`
	Publisher           string     `json:"publisher"`
	ProviderPublishTime int64      `json:"providerPublishTime"`
	Type                string     `json:"type"`
	Thumbnail           *Thumbnail `json:"thumbnail"`
	RelatedTickers      []string   `json:"relatedTickers"`
}

type Thumbnail struct {
	Resolutions []ThumbnailImage `json:"resolutions"`
}

type ThumbnailImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type searchEnvelope struct {
	News []NewsArticle `json:"news"`
}

// News returns recent stories matching the query, typically a ticker.
func (c *Client) News(ctx context.Context, query string, count int) ([]NewsArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("newsCount", strconv.Itoa(count))
	params.Set("quotesCount", "0")

	var env searchEnvelope
	if err := c.get(ctx, "/v1/finance/search", params, &env); err != nil {
		return nil, err
	}
	return env.News, nil
}
