package feeds

import (
	"context"
	"encoding/xml"
	"html"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
)

// RSS представляет корневой элемент RSS-документа.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

// Channel содержит заголовок и список элементов Item.
type Channel struct {
	Title string `xml:"title"`
	Items []Item `xml:"item"`
}

// Item представляет одну публикацию из RSS-ленты.
type Item struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Link        string `xml:"link"`
}

const (
	maxItemsPerFeed = 5
	maxDescription  = 200
)

// Заголовки-заглушки, которые ленты отдают вместо настоящих новостей.
var placeholderTitles = map[string]bool{"": true, "rss": true, "news": true}

// Fetcher загружает и разбирает RSS-ленты общим HTTP-клиентом.
type Fetcher struct {
	client    *http.Client
	userAgent string
	sanitizer *bluemonday.Policy
}

// NewFetcher создаёт Fetcher с переданным клиентом и строкой User-Agent.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Fetch загружает ленту по url и возвращает до пяти очищенных публикаций.
// Любая ошибка сети или разбора даёт пустой результат, а не ошибку.
func (f *Fetcher) Fetch(ctx context.Context, url string) []Item {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"url": url, "error": err}).Warn("RSS request build failed")
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"url": url, "error": err}).Warn("RSS fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithFields(logrus.Fields{"url": url, "status": resp.StatusCode}).Warn("RSS fetch returned non-200")
		return nil
	}

	var rss RSS
	decoder := xml.NewDecoder(resp.Body)
	decoder.Strict = false
	if err := decoder.Decode(&rss); err != nil {
		logger.Log.WithFields(logrus.Fields{"url": url, "error": err}).Warn("RSS parse failed")
		return nil
	}

	items := make([]Item, 0, maxItemsPerFeed)
	for _, item := range rss.Channel.Items {
		if len(items) >= maxItemsPerFeed {
			break
		}
		title := strings.TrimSpace(item.Title)
		if placeholderTitles[strings.ToLower(title)] {
			continue
		}
		items = append(items, Item{
			Title:       title,
			Description: f.cleanDescription(item.Description),
			PubDate:     strings.TrimSpace(item.PubDate),
			Link:        strings.TrimSpace(item.Link),
		})
	}

	logger.Log.WithFields(logrus.Fields{"url": url, "items": len(items)}).Debug("RSS feed parsed")
	return items
}

// cleanDescription убирает HTML-разметку и обрезает текст до 200 символов.
func (f *Fetcher) cleanDescription(s string) string {
	s = f.sanitizer.Sanitize(s)
	s = strings.TrimSpace(html.UnescapeString(s))
	if runes := []rune(s); len(runes) > maxDescription {
		s = string(runes[:maxDescription]) + "..."
	}
	return s
}
