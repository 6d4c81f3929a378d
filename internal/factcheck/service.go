package factcheck

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/metrics"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// Generator описывает минимальный контракт LLM-клиента.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// WebSearcher описывает цепочку веб-поиска для сбора доказательств.
type WebSearcher interface {
	SearchWeb(ctx context.Context, query string, numResults int) []models.EvidenceItem
}

// TopicSource отдаёт трендовые темы по региону.
type TopicSource interface {
	Topics(ctx context.Context, location string) []models.TopicItem
}

// APIStatus показывает, какие необязательные внешние API настроены ключами.
type APIStatus struct {
	NewsAPI   bool
	SearchAPI bool
}

// Status хранит сводку работоспособности сервиса для ресурса состояния.
type Status struct {
	Operational bool
	NewsAPI     bool
	SearchAPI   bool
}

// Service связывает поиск доказательств, тренды и LLM-анализ.
type Service struct {
	search   WebSearcher
	trending TopicSource
	llm      Generator
	apis     APIStatus
}

// New собирает Service из готовых зависимостей.
func New(search WebSearcher, trending TopicSource, llm Generator, apis APIStatus) *Service {
	return &Service{search: search, trending: trending, llm: llm, apis: apis}
}

// FactCheckHeadline прогоняет заголовок через полный конвейер проверки:
// поиск доказательств, LLM-анализ, итоговая запись с метаданными.
// Ошибки не возвращаются: каждый исход кодируется вердиктом записи.
func (s *Service) FactCheckHeadline(ctx context.Context, headline string) models.VerdictRecord {
	record := s.check(ctx, headline)
	metrics.Verdicts.WithLabelValues(record.Verdict).Inc()
	return record
}

func (s *Service) check(ctx context.Context, headline string) models.VerdictRecord {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return models.VerdictRecord{
			Verdict:                models.VerdictError,
			Confidence:             0.0,
			TruthfulnessPercentage: 0,
			Explanation:            "No headline provided for fact-checking",
			Concerns:               []string{"Empty or invalid headline"},
			Recommendations:        "Please provide a valid news headline",
		}
	}

	logger.Log.WithFields(logrus.Fields{"headline": headline}).Info("Starting fact-check process")

	results := s.search.SearchWeb(ctx, headline, 5)
	if len(results) == 0 {
		logger.Log.Warn("No search results found for headline")
		return models.VerdictRecord{
			Verdict:                models.VerdictUnverified,
			Confidence:             0.0,
			TruthfulnessPercentage: 0,
			Explanation:            "Unable to find any search results to verify this headline. This could indicate a very recent story, incorrect information, or search service issues.",
			Concerns:               []string{"No verifiable sources found", "Possible misinformation"},
			Recommendations:        "Seek additional sources and wait for more reporting before sharing",
		}
	}

	record := s.analyze(ctx, headline, results)
	stamp(&record, headline, results)

	logger.Log.WithFields(logrus.Fields{
		"verdict":    record.Verdict,
		"confidence": record.Confidence,
		"sources":    record.SearchResultsCount,
	}).Info("Fact-check completed")
	return record
}

// stamp дополняет запись метаданными анализа. Ранние ветки (пустой заголовок,
// пустая выдача) остаются без штампа: анализа не было.
func stamp(record *models.VerdictRecord, headline string, results []models.EvidenceItem) {
	record.Headline = headline
	record.SearchResultsCount = len(results)
	record.Timestamp = time.Now().UTC().Format(time.RFC3339)
	sources := make([]string, 0, len(results))
	for _, item := range results {
		sources = append(sources, orDefault(item.Source, "Unknown"))
	}
	record.SourcesAnalyzed = sources
}

// TrendingTopics возвращает трендовые темы по региону.
func (s *Service) TrendingTopics(ctx context.Context, location string) []models.TopicItem {
	return s.trending.Topics(ctx, location)
}

// Status выполняет пробный поиск и сообщает готовность сервиса.
func (s *Service) Status(ctx context.Context) Status {
	probe := s.search.SearchWeb(ctx, "test connectivity", 1)
	return Status{
		Operational: len(probe) > 0,
		NewsAPI:     s.apis.NewsAPI,
		SearchAPI:   s.apis.SearchAPI,
	}
}
