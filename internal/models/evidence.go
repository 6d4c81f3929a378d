package models

// EvidenceItem представляет один результат веб-поиска, используемый как доказательство при проверке.
type EvidenceItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// EvidenceAssessment представляет оценку одного источника моделью; внутренняя структура не валидируется.
type EvidenceAssessment struct {
	Source    string `json:"source"`
	Supports  bool   `json:"supports"`
	Relevance string `json:"relevance"`
	Summary   string `json:"summary"`
}
