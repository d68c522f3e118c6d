package stocks

import (
	"context"
	"sort"
	"strings"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// marketNewsTickers are the index symbols whose news feeds approximate
// general market news.
var marketNewsTickers = []string{"^GSPC", "^DJI", "^IXIC"}

// News returns recent articles for one symbol, upstream order.
func (s *Service) News(ctx context.Context, symbol string, limit int) ([]market.NewsItem, error) {
	symbol = strings.ToUpper(symbol)
	articles, err := s.yahoo.News(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	items := make([]market.NewsItem, 0, len(articles))
	for _, article := range articles {
		items = append(items, normalizeArticle(article))
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

// MarketNews aggregates the major-index feeds into one list, deduplicated by
// link and title, newest first.
func (s *Service) MarketNews(ctx context.Context, limit int) ([]market.NewsItem, error) {
	all := make([]market.NewsItem, 0)
	seenLinks := make(map[string]struct{})
	for _, ticker := range marketNewsTickers {
		articles, err := s.yahoo.News(ctx, ticker, limit)
		if err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("market news feed failed")
			continue
		}
		for _, article := range articles {
			if _, ok := seenLinks[article.Link]; ok {
				continue
			}
			seenLinks[article.Link] = struct{}{}
			item := normalizeArticle(article)
			item.Category = "market"
			item.RelatedSymbol = ticker
			all = append(all, item)
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Published > all[j].Published })

	seenTitles := make(map[string]struct{})
	unique := make([]market.NewsItem, 0, limit)
	for _, item := range all {
		title := strings.ToLower(strings.TrimSpace(item.Title))
		if _, ok := seenTitles[title]; ok {
			continue
		}
		seenTitles[title] = struct{}{}
		unique = append(unique, item)
		if len(unique) == limit {
			break
		}
	}
	return unique, nil
}

func normalizeArticle(article yahoo.NewsArticle) market.NewsItem {
	item := market.NewsItem{
		Title:     defaultString(article.Title, market.NA),
		Link:      article.Link,
		Published: article.ProviderPublishTime,
		Publisher: defaultString(article.Publisher, "Unknown"),
	}
	if article.Thumbnail != nil && len(article.Thumbnail.Resolutions) > 0 {
		// The smallest resolution loads fastest in list views. The upstream
		// order of the resolutions list is not guaranteed, so scan by width.
		smallest := article.Thumbnail.Resolutions[0]
		for _, res := range article.Thumbnail.Resolutions[1:] {
			if res.Width < smallest.Width {
				smallest = res
			}
		}
		item.Thumbnail = smallest.URL
	}
	return item
}
