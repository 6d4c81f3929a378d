package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/metrics"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

// Обязательные поля в JSON-ответе модели.
var requiredKeys = []string{"verdict", "confidence", "truthfulness_percentage", "explanation"}

const promptTemplate = `You are a professional fact-checking expert. Analyze this news headline against the provided search results.

HEADLINE TO FACT-CHECK: "%s"

%s

Provide a comprehensive fact-check analysis in valid JSON format:

{
    "verdict": "TRUE|FALSE|PARTIALLY_TRUE|UNVERIFIED|MISLEADING",
    "confidence": 0.85,
    "truthfulness_percentage": 75,
    "explanation": "Clear, detailed explanation of your analysis in 2-3 sentences",
    "evidence": [
        {
            "source": "source name",
            "supports": true,
            "relevance": "high",
            "summary": "brief summary of what this source says"
        }
    ],
    "concerns": ["specific concerns about the headline"],
    "recommendations": "What readers should know or do"
}

VERDICT GUIDELINES:
- TRUE (85-100%%): Factually accurate and well-supported
- FALSE (0-15%%): Contains significant factual errors
- PARTIALLY_TRUE (40-75%%): Mixed accuracy with some false elements
- UNVERIFIED (30-60%%): Cannot be confirmed with available evidence
- MISLEADING (20-50%%): Technically true but presented deceptively

Focus on factual accuracy, not opinions. Be thorough but concise.`

// analyze отправляет заголовок и доказательства в LLM и переводит ответ в VerdictRecord.
// Сбой вызова даёт запись ERROR, неразборчивый ответ приводит к записи UNVERIFIED.
func (s *Service) analyze(ctx context.Context, headline string, evidence []models.EvidenceItem) models.VerdictRecord {
	logger.Log.WithFields(logrus.Fields{"headline": headline}).Info("Starting AI analysis")

	prompt := fmt.Sprintf(promptTemplate, headline, buildContext(evidence))

	start := time.Now()
	raw, err := s.llm.Generate(ctx, prompt)
	metrics.LLMDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequests.WithLabelValues("error").Inc()
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("Gemini analysis failed")
		return errorRecord(err)
	}

	raw = strings.TrimSpace(raw)
	logger.Log.WithFields(logrus.Fields{"response_chars": len(raw)}).Debug("Received Gemini response")

	record, ok := promote(raw)
	if !ok {
		metrics.LLMRequests.WithLabelValues("parse_fallback").Inc()
		logger.Log.Warn("Could not parse structured AI analysis, using fallback")
		return parseFallbackRecord(raw)
	}

	metrics.LLMRequests.WithLabelValues("ok").Inc()
	logger.Log.WithFields(logrus.Fields{"verdict": record.Verdict}).Info("AI analysis complete")
	return record
}

// buildContext форматирует доказательства в нумерованный блок для промпта.
func buildContext(evidence []models.EvidenceItem) string {
	var b strings.Builder
	b.WriteString("SEARCH RESULTS FOR VERIFICATION:\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")
	for i, item := range evidence {
		fmt.Fprintf(&b, "\nRESULT %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", orDefault(item.Title, "N/A"))
		fmt.Fprintf(&b, "Source: %s\n", orDefault(item.Source, "Unknown"))
		fmt.Fprintf(&b, "Content: %s\n", orDefault(item.Snippet, "N/A"))
		fmt.Fprintf(&b, "URL: %s\n", orDefault(item.URL, "N/A"))
		b.WriteString(strings.Repeat("-", 30))
		b.WriteString("\n")
	}
	return b.String()
}

// promote извлекает первый JSON-объект из сырого ответа модели (от первой "{"
// до последней "}") и лояльно переводит его в типизированную запись.
// Ответ без четырёх обязательных полей или с вердиктом вне перечня отклоняется.
func promote(raw string) (models.VerdictRecord, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.VerdictRecord{}, false
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return models.VerdictRecord{}, false
	}
	for _, key := range requiredKeys {
		if _, ok := parsed[key]; !ok {
			return models.VerdictRecord{}, false
		}
	}

	verdict := strings.ToUpper(strings.TrimSpace(asString(parsed["verdict"])))
	if !models.ValidVerdict(verdict) {
		return models.VerdictRecord{}, false
	}

	record := models.VerdictRecord{
		Verdict:                verdict,
		Confidence:             asFloat(parsed["confidence"]),
		TruthfulnessPercentage: int(asFloat(parsed["truthfulness_percentage"])),
		Explanation:            asString(parsed["explanation"]),
		Recommendations:        asString(parsed["recommendations"]),
	}
	if list, ok := parsed["evidence"].([]any); ok {
		for _, entry := range list {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			record.Evidence = append(record.Evidence, models.EvidenceAssessment{
				Source:    asString(m["source"]),
				Supports:  asBool(m["supports"]),
				Relevance: asString(m["relevance"]),
				Summary:   asString(m["summary"]),
			})
		}
	}
	if list, ok := parsed["concerns"].([]any); ok {
		for _, entry := range list {
			if concern, ok := entry.(string); ok {
				record.Concerns = append(record.Concerns, concern)
			}
		}
	}
	return record, true
}

// parseFallbackRecord строит фиксированную запись для неразборчивого ответа модели.
func parseFallbackRecord(raw string) models.VerdictRecord {
	prefix := raw
	if runes := []rune(prefix); len(runes) > 200 {
		prefix = string(runes[:200])
	}
	return models.VerdictRecord{
		Verdict:                models.VerdictUnverified,
		Confidence:             0.5,
		TruthfulnessPercentage: 50,
		Explanation:            "AI analysis completed but response format was non-standard: " + prefix + "...",
		Concerns:               []string{"Could not parse structured AI analysis"},
		Recommendations:        "Manual verification recommended due to parsing issues",
	}
}

// errorRecord строит фиксированную запись для сбоя вызова LLM.
func errorRecord(err error) models.VerdictRecord {
	return models.VerdictRecord{
		Verdict:                models.VerdictError,
		Confidence:             0.0,
		TruthfulnessPercentage: 0,
		Explanation:            "AI analysis service temporarily unavailable: " + err.Error(),
		Concerns:               []string{"Analysis service error"},
		Recommendations:        "Please try again later or verify manually",
	}
}

// Лояльные преобразования значений из map[string]any: неподходящий тип даёт ноль.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
