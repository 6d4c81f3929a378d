package search

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// DefaultResults задаёт, сколько результатов возвращает SearchWeb без явного лимита.
const DefaultResults = 5

// Aggregator объединяет источники в фиксированную цепочку с деградацией:
// instant answer, затем NewsAPI при нехватке результатов, затем заглушка.
type Aggregator struct {
	instant  Searcher
	news     Searcher
	fallback Searcher
}

// NewAggregator собирает цепочку поиска из трёх источников.
func NewAggregator(instant, news, fallback Searcher) *Aggregator {
	return &Aggregator{instant: instant, news: news, fallback: fallback}
}

// SearchWeb выполняет цепочку и возвращает не более numResults доказательств.
// NewsAPI подключается, если первый уровень дал меньше двух результатов,
// заглушка добавляется только при полном нуле. Ошибок не бывает: сбои источников
// уже поглощены адаптерами.
func (a *Aggregator) SearchWeb(ctx context.Context, query string, numResults int) []models.EvidenceItem {
	if numResults <= 0 {
		numResults = DefaultResults
	}
	logger.Log.WithFields(logrus.Fields{"query": query}).Info("Searching web")

	results := a.instant.Search(ctx, query, numResults)
	if len(results) < 2 {
		logger.Log.Debug("Attempting NewsAPI fallback search")
		results = append(results, a.news.Search(ctx, query, numResults)...)
	}
	if len(results) == 0 {
		logger.Log.Debug("Using fallback search result")
		results = append(results, a.fallback.Search(ctx, query, numResults)...)
	}
	if len(results) > numResults {
		results = results[:numResults]
	}

	logger.Log.WithFields(logrus.Fields{"query": query, "results": len(results)}).Info("Web search finished")
	return results
}
