package models

// Допустимые значения вердикта.
const (
	VerdictTrue          = "TRUE"
	VerdictFalse         = "FALSE"
	VerdictPartiallyTrue = "PARTIALLY_TRUE"
	VerdictUnverified    = "UNVERIFIED"
	VerdictMisleading    = "MISLEADING"
	VerdictError         = "ERROR"
)

// ValidVerdict сообщает, входит ли значение в список допустимых вердиктов.
func ValidVerdict(v string) bool {
	switch v {
	case VerdictTrue, VerdictFalse, VerdictPartiallyTrue,
		VerdictUnverified, VerdictMisleading, VerdictError:
		return true
	}
	return false
}

// VerdictRecord представляет итог проверки заголовка: вердикт модели плюс метаданные запроса.
// Поля Headline, SearchResultsCount, Timestamp и SourcesAnalyzed заполняются
// только после успешного этапа анализа; после выдачи запись не изменяется.
type VerdictRecord struct {
	Verdict                string               `json:"verdict"`
	Confidence             float64              `json:"confidence"`
	TruthfulnessPercentage int                  `json:"truthfulness_percentage"`
	Explanation            string               `json:"explanation"`
	Evidence               []EvidenceAssessment `json:"evidence,omitempty"`
	Concerns               []string             `json:"concerns,omitempty"`
	Recommendations        string               `json:"recommendations,omitempty"`

	Headline           string   `json:"headline,omitempty"`
	SearchResultsCount int      `json:"search_results_count,omitempty"`
	Timestamp          string   `json:"timestamp,omitempty"`
	SourcesAnalyzed    []string `json:"sources_analyzed,omitempty"`
}
