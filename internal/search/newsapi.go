package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/metrics"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// NewsAPIBaseURL хранит адрес NewsAPI v2.
const NewsAPIBaseURL = "https://newsapi.org/v2"

const (
	searchPageSize    = 5
	headlinesPageSize = 10
)

// NewsAPI обращается к newsapi.org. Один экземпляр держит один ключ:
// поиск доказательств и топ-новости настраиваются отдельными ключами.
type NewsAPI struct {
	// BaseURL переопределяется в тестах.
	BaseURL   string
	apiKey    string
	client    *http.Client
	userAgent string
}

// NewNewsAPI создаёт клиента NewsAPI; пустой ключ превращает все вызовы в no-op.
func NewNewsAPI(client *http.Client, apiKey, userAgent string) *NewsAPI {
	return &NewsAPI{BaseURL: NewsAPIBaseURL, apiKey: apiKey, client: client, userAgent: userAgent}
}

// HasKey сообщает, настроен ли ключ API.
func (n *NewsAPI) HasKey() bool {
	return n.apiKey != ""
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// Search запрашивает /everything: англоязычные статьи текущего месяца по релевантности.
// Статьи без заголовка или описания отбрасываются.
func (n *NewsAPI) Search(ctx context.Context, query string, maxResults int) []models.EvidenceItem {
	if !n.HasKey() {
		logger.Log.Debug("NewsAPI key not available, skipping search")
		return nil
	}
	metrics.SearchRequests.WithLabelValues("newsapi").Inc()

	now := time.Now()
	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", n.apiKey)
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(searchPageSize))
	params.Set("language", "en")
	params.Set("from", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))

	articles := n.get(ctx, n.BaseURL+"/everything?"+params.Encode())

	var items []models.EvidenceItem
	for _, article := range articles {
		if article.Title == "" || article.Description == "" {
			continue
		}
		source := article.Source.Name
		if source == "" {
			source = "NewsAPI"
		}
		items = append(items, models.EvidenceItem{
			Title:   article.Title,
			Snippet: article.Description,
			URL:     article.URL,
			Source:  source,
		})
	}

	metrics.SearchResults.WithLabelValues("newsapi").Add(float64(len(items)))
	logger.Log.WithFields(logrus.Fields{"query": query, "items": len(items)}).Debug("NewsAPI search finished")
	return items
}

// TopHeadlines запрашивает /top-headlines для региона location.
// Регионы local и india дают страну in, international даёт us,
// любое другое значение уходит свободным запросом "{location} news".
func (n *NewsAPI) TopHeadlines(ctx context.Context, location string) []models.TopicItem {
	if !n.HasKey() {
		return nil
	}
	metrics.SearchRequests.WithLabelValues("newsapi_headlines").Inc()

	params := url.Values{}
	params.Set("apiKey", n.apiKey)
	params.Set("pageSize", strconv.Itoa(headlinesPageSize))
	params.Set("sortBy", "popularity")
	switch strings.ToLower(location) {
	case "local", "india":
		params.Set("country", "in")
	case "international":
		params.Set("country", "us")
	default:
		params.Set("q", location+" news")
	}

	articles := n.get(ctx, n.BaseURL+"/top-headlines?"+params.Encode())

	var topics []models.TopicItem
	for _, article := range articles {
		source := article.Source.Name
		if source == "" {
			source = "Unknown"
		}
		topics = append(topics, models.TopicItem{
			Title:       article.Title,
			Description: article.Description,
			URL:         article.URL,
			Source:      source,
			PublishedAt: article.PublishedAt,
			Category:    "trending",
		})
	}

	logger.Log.WithFields(logrus.Fields{"location": location, "topics": len(topics)}).Debug("NewsAPI headlines finished")
	return topics
}

// get выполняет запрос и возвращает статьи; любая ошибка даёт пустой список.
func (n *NewsAPI) get(ctx context.Context, rawURL string) []newsAPIArticle {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Warn("NewsAPI request build failed")
		return nil
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Warn("NewsAPI request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Log.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(body)}).Warn("NewsAPI returned non-200")
		return nil
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Warn("NewsAPI response parse failed")
		return nil
	}
	return parsed.Articles
}
