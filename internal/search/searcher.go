package search

import (
	"context"

	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// Searcher описывает общий контракт источника доказательств.
// Источник никогда не возвращает ошибку: любой сбой даёт пустой список.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) []models.EvidenceItem
}
