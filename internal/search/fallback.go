package search

import (
	"context"
	"net/url"

	"github.com/ghubliming/news-factchecker-mcp/internal/metrics"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// Fallback замыкает цепочку поиска: всегда возвращает один синтетический
// результат со ссылкой на ручной поиск, чтобы пустой ответ означал только
// полный отказ сети.
type Fallback struct{}

// Search формирует единственный элемент-заглушку для запроса query.
func (Fallback) Search(_ context.Context, query string, _ int) []models.EvidenceItem {
	metrics.SearchRequests.WithLabelValues("fallback").Inc()
	metrics.SearchResults.WithLabelValues("fallback").Inc()
	return []models.EvidenceItem{{
		Title:   "Search Results for: " + query,
		Snippet: "Unable to retrieve detailed search results. Manual verification recommended.",
		URL:     "https://duckduckgo.com/?q=" + url.QueryEscape(query),
		Source:  "Fallback Search",
	}}
}
