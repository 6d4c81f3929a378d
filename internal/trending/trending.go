// Пакет trending собирает трендовые темы каскадом источников:
// NewsAPI top-headlines, затем RSS-ленты, затем поисковые запросы.
package trending

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/feeds"
	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// Не больше 10 тем в ответе независимо от источника.
const maxTopics = 10

// Канонические запросы для поискового уровня.
var (
	indiaQueries = []string{
		"India news today trending",
		"Indian politics latest news",
		"Bollywood news today",
	}
	worldQueries = []string{
		"world news today trending",
		"international politics current",
		"global economy news latest",
	}
)

// Headliner отдаёт готовые темы из новостного API, если настроен ключ.
type Headliner interface {
	HasKey() bool
	TopHeadlines(ctx context.Context, location string) []models.TopicItem
}

// FeedFetcher загружает и разбирает одну RSS-ленту.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) []feeds.Item
}

// WebSearcher описывает поисковую цепочку для уровня обнаружения тем.
type WebSearcher interface {
	SearchWeb(ctx context.Context, query string, numResults int) []models.EvidenceItem
}

// Aggregator перебирает источники тем по убыванию качества и
// останавливается на первом непустом.
type Aggregator struct {
	headlines  Headliner
	feeds      FeedFetcher
	search     WebSearcher
	localFeeds []string
	intlFeeds  []string
}

// NewAggregator собирает каскад трендов из готовых зависимостей.
func NewAggregator(headlines Headliner, fetcher FeedFetcher, search WebSearcher, localFeeds, intlFeeds []string) *Aggregator {
	return &Aggregator{
		headlines:  headlines,
		feeds:      fetcher,
		search:     search,
		localFeeds: localFeeds,
		intlFeeds:  intlFeeds,
	}
}

// Topics возвращает до 10 трендовых тем для региона.
func (a *Aggregator) Topics(ctx context.Context, location string) []models.TopicItem {
	log := logger.Log.WithFields(logrus.Fields{"location": location})

	var topics []models.TopicItem
	if a.headlines.HasKey() {
		topics = a.headlines.TopHeadlines(ctx, location)
	}
	if len(topics) == 0 {
		log.Info("Trying RSS feeds for trending topics")
		topics = a.fromFeeds(ctx, log, location)
	}
	if len(topics) == 0 {
		log.Info("Trying search-based trending discovery")
		topics = a.fromSearch(ctx, location)
	}
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}

	log.WithFields(logrus.Fields{"count": len(topics)}).Info("Trending topics collected")
	return topics
}

func (a *Aggregator) fromFeeds(ctx context.Context, log *logger.Entry, location string) []models.TopicItem {
	urls := a.intlFeeds
	if isLocal(location) {
		urls = a.localFeeds
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var topics []models.TopicItem
	for _, feedURL := range urls {
		items := a.feeds.Fetch(ctx, feedURL)
		log.WithFields(logrus.Fields{"feed": feedURL, "items": len(items)}).Debug("RSS feed processed")
		for _, item := range items {
			topics = append(topics, models.TopicItem{
				Title:       item.Title,
				Description: item.Description,
				URL:         item.Link,
				Source:      feedHost(feedURL),
				PublishedAt: now,
				Category:    "trending",
			})
		}
	}
	return topics
}

func (a *Aggregator) fromSearch(ctx context.Context, location string) []models.TopicItem {
	queries := worldQueries
	if isLocal(location) {
		queries = indiaQueries
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var topics []models.TopicItem
	for _, query := range queries {
		for _, result := range a.search.SearchWeb(ctx, query, 2) {
			// Результаты без заголовка или описания бесполезны как темы.
			if result.Title == "" || result.Snippet == "" {
				continue
			}
			topics = append(topics, models.TopicItem{
				Title:       result.Title,
				Description: truncate(result.Snippet, 200),
				URL:         result.URL,
				Source:      orDefault(result.Source, "Search"),
				PublishedAt: now,
				Category:    "trending",
			})
		}
	}
	return topics
}

func isLocal(location string) bool {
	switch strings.ToLower(location) {
	case "local", "india":
		return true
	}
	return false
}

func feedHost(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return u.Host
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
