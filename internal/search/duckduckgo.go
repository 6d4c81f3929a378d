package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/metrics"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// InstantAnswerURL хранит адрес DuckDuckGo Instant Answer API, ключ не требуется.
const InstantAnswerURL = "https://api.duckduckgo.com/"

var titleCaser = cases.Title(language.English)

// DuckDuckGo запрашивает Instant Answer API: аннотация плюс связанные темы.
type DuckDuckGo struct {
	// BaseURL переопределяется в тестах.
	BaseURL   string
	client    *http.Client
	userAgent string
}

// NewDuckDuckGo создаёт адаптер с переданным клиентом и строкой User-Agent.
func NewDuckDuckGo(client *http.Client, userAgent string) *DuckDuckGo {
	return &DuckDuckGo{BaseURL: InstantAnswerURL, client: client, userAgent: userAgent}
}

type ddgResponse struct {
	Heading        string     `json:"Heading"`
	Abstract       string     `json:"Abstract"`
	AbstractURL    string     `json:"AbstractURL"`
	AbstractSource string     `json:"AbstractSource"`
	RelatedTopics  []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

// Search возвращает до maxResults доказательств: одну аннотацию и связанные темы.
// Вложенные категории тем дают не более двух подпунктов каждая.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) []models.EvidenceItem {
	metrics.SearchRequests.WithLabelValues("duckduckgo").Inc()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"query": query, "error": err}).Warn("DuckDuckGo request build failed")
		return nil
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"query": query, "error": err}).Warn("DuckDuckGo request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithFields(logrus.Fields{"query": query, "status": resp.StatusCode}).Warn("DuckDuckGo returned non-200")
		return nil
	}

	var data ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Log.WithFields(logrus.Fields{"query": query, "error": err}).Warn("DuckDuckGo response parse failed")
		return nil
	}

	var items []models.EvidenceItem
	if data.Abstract != "" {
		title := data.Heading
		if title == "" {
			title = "Instant Answer"
		}
		source := data.AbstractSource
		if source == "" {
			source = "DuckDuckGo"
		}
		items = append(items, models.EvidenceItem{
			Title:   title,
			Snippet: data.Abstract,
			URL:     data.AbstractURL,
			Source:  source,
		})
	}

	related := data.RelatedTopics
	limit := maxResults - 1
	if limit < 0 {
		limit = 0
	}
	if len(related) > limit {
		related = related[:limit]
	}
	for _, topic := range related {
		if len(topic.Topics) > 0 {
			sub := topic.Topics
			if len(sub) > 2 {
				sub = sub[:2]
			}
			for _, subtopic := range sub {
				if subtopic.Text == "" {
					continue
				}
				items = append(items, relatedItem(subtopic))
			}
			continue
		}
		if topic.Text == "" {
			continue
		}
		items = append(items, relatedItem(topic))
	}

	metrics.SearchResults.WithLabelValues("duckduckgo").Add(float64(len(items)))
	logger.Log.WithFields(logrus.Fields{"query": query, "items": len(items)}).Debug("DuckDuckGo search finished")
	return items
}

func relatedItem(topic ddgTopic) models.EvidenceItem {
	return models.EvidenceItem{
		Title:   titleFromURL(topic.FirstURL),
		Snippet: topic.Text,
		URL:     topic.FirstURL,
		Source:  "DuckDuckGo",
	}
}

// titleFromURL восстанавливает читаемый заголовок из последнего сегмента пути URL.
func titleFromURL(raw string) string {
	const fallback = "Related Topic"
	if raw == "" {
		return fallback
	}

	path := raw
	if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	segment := path[strings.LastIndex(path, "/")+1:]
	segment = strings.NewReplacer("_", " ", "-", " ").Replace(segment)

	var b strings.Builder
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if cleaned == "" {
		return fallback
	}
	return titleCaser.String(cleaned)
}
