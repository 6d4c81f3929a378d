// Пакет report превращает результаты проверки и тренды в текстовые отчёты
// для выдачи клиенту. Все функции детерминированы: время приходит аргументом.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

const (
	reportTimeLayout = "January 02, 2006 at 15:04 UTC"
	topicTimeLayout  = "01/02/2006 15:04"
)

var banner = strings.Repeat("=", 80)

// FactCheck строит полный отчёт о проверке заголовка.
func FactCheck(record models.VerdictRecord, now time.Time) string {
	explanation := orDefault(record.Explanation, "No explanation available")

	analysisDate := "Unknown"
	if record.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, record.Timestamp); err == nil {
			analysisDate = ts.Format(reportTimeLayout)
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(banner)
	b.WriteString("\n                         FACT-CHECK VERIFICATION REPORT\n")
	b.WriteString(banner)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "FINAL VERDICT: %s (%d%% ACCURATE)\n\n", record.Verdict, record.TruthfulnessPercentage)
	fmt.Fprintf(&b, "HEADLINE ANALYZED:\n\"%s\"\n\n", record.Headline)
	b.WriteString("VERIFICATION METRICS:\n")
	fmt.Fprintf(&b, "- Truthfulness Score: %d%%\n", record.TruthfulnessPercentage)
	fmt.Fprintf(&b, "- AI Confidence Level: %.1f%%\n", record.Confidence*100)
	fmt.Fprintf(&b, "- Sources Analyzed: %d\n", record.SearchResultsCount)
	fmt.Fprintf(&b, "- Analysis Date: %s\n\n", analysisDate)
	fmt.Fprintf(&b, "DETAILED ANALYSIS:\n%s\n\n", explanation)
	b.WriteString("SUPPORTING EVIDENCE:")

	if len(record.Evidence) > 0 {
		for i, ev := range record.Evidence {
			status := "CONTRADICTS"
			if ev.Supports {
				status = "SUPPORTS"
			}
			fmt.Fprintf(&b, "\n%d. SOURCE: %s\n", i+1, orDefault(ev.Source, "Unknown Source"))
			fmt.Fprintf(&b, "   STATUS: %s | RELEVANCE: %s\n", status, strings.ToUpper(orDefault(ev.Relevance, "unknown")))
			fmt.Fprintf(&b, "   SUMMARY: %s", orDefault(ev.Summary, "No summary available"))
		}
	} else {
		b.WriteString("\nNo specific evidence sources were identified during analysis.")
	}

	if len(record.Concerns) > 0 {
		b.WriteString("\n\nIDENTIFIED CONCERNS:")
		for i, concern := range record.Concerns {
			fmt.Fprintf(&b, "\n%d. %s", i+1, concern)
		}
	}
	if record.Recommendations != "" {
		fmt.Fprintf(&b, "\n\nRECOMMENDATIONS FOR READERS:\n%s", record.Recommendations)
	}

	b.WriteString("\n\nTRUTHFULNESS SCORE GUIDE:\n")
	b.WriteString("- 85-100%: HIGHLY ACCURATE - Well-supported by evidence\n")
	b.WriteString("- 70-84%:  MOSTLY ACCURATE - Minor inaccuracies or missing context\n")
	b.WriteString("- 50-69%:  PARTIALLY ACCURATE - Mixed truth with significant concerns\n")
	b.WriteString("- 30-49%:  QUESTIONABLE - More false than true elements\n")
	b.WriteString("- 0-29%:   INACCURATE - Predominantly false or misleading\n\n")
	b.WriteString("CONFIDENCE LEVEL GUIDE:\n")
	b.WriteString("- 90-100%: Very confident in analysis\n")
	b.WriteString("- 70-89%:  Confident with good evidence\n")
	b.WriteString("- 50-69%:  Moderate confidence, some uncertainty\n")
	b.WriteString("- 30-49%:  Low confidence, limited evidence\n")
	b.WriteString("- 0-29%:   Very uncertain, insufficient data\n\n")
	b.WriteString(banner)
	fmt.Fprintf(&b, "\nREPORT GENERATED: %s\n", now.Format(reportTimeLayout))
	b.WriteString("POWERED BY: Google Gemini AI + Multi-Source Web Verification\n")
	b.WriteString(banner)
	return b.String()
}

// Trending строит сводку трендовых тем или заглушку, если тем нет.
func Trending(topics []models.TopicItem, location string, now time.Time) string {
	if len(topics) == 0 {
		var b strings.Builder
		b.WriteString(banner)
		b.WriteString("\n                          TRENDING NEWS TOPICS REPORT\n")
		b.WriteString(banner)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "COVERAGE AREA: %s\n", strings.ToUpper(location))
		fmt.Fprintf(&b, "REPORT GENERATED: %s\n\n", now.Format(reportTimeLayout))
		b.WriteString("NO TRENDING TOPICS AVAILABLE\n\n")
		fmt.Fprintf(&b, "Currently unable to retrieve trending topics for %s news coverage.\n", location)
		b.WriteString("This could be due to:\n")
		b.WriteString("- Temporary API service issues\n")
		b.WriteString("- Network connectivity problems\n")
		b.WriteString("- RSS feed parsing errors\n\n")
		b.WriteString("Please try again in a few minutes or check the service status.\n\n")
		b.WriteString(banner)
		return b.String()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(banner)
	b.WriteString("\n                          TRENDING NEWS TOPICS REPORT\n")
	b.WriteString(banner)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "COVERAGE AREA: %s\n", coverageArea(location))
	fmt.Fprintf(&b, "REPORT GENERATED: %s\n", now.Format(reportTimeLayout))
	fmt.Fprintf(&b, "TOPICS IDENTIFIED: %d\n\n", len(topics))

	for i, topic := range topics {
		description := orDefault(topic.Description, "No description available")
		if runes := []rune(description); len(runes) > 250 {
			description = string(runes[:250]) + "... [Continue reading at source]"
		}

		pubDate := ""
		if topic.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, topic.PublishedAt); err == nil {
				pubDate = " | " + ts.Format(topicTimeLayout)
			}
		}

		fmt.Fprintf(&b, "%2d. %s\n", i+1, orDefault(topic.Title, "No title available"))
		fmt.Fprintf(&b, "    SOURCE: %s%s\n", orDefault(topic.Source, "Unknown Source"), pubDate)
		fmt.Fprintf(&b, "    SUMMARY: %s", description)
		if strings.HasPrefix(topic.URL, "http") {
			fmt.Fprintf(&b, "\n    READ MORE: %s", topic.URL)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("\nHOW TO USE THIS REPORT:\n")
	b.WriteString("- Headlines are aggregated from multiple authoritative sources\n")
	b.WriteString("- Use the fact-checking tool to verify specific claims\n")
	b.WriteString("- Check source credibility before sharing information\n")
	b.WriteString("- Topics are ranked by current relevance and engagement\n\n")
	b.WriteString("IMPORTANT DISCLAIMERS:\n")
	b.WriteString("- This report contains trending topics, not verified facts\n")
	b.WriteString("- Always cross-reference important information with multiple sources\n")
	b.WriteString("- Use critical thinking when consuming news content\n")
	b.WriteString("- Some topics may be speculative or developing stories\n\n")
	b.WriteString("FOR FACT-CHECKING:\n")
	b.WriteString("Use the fact_check_headline tool to verify any specific claims from these topics.\n\n")
	b.WriteString(banner)
	return b.String()
}

func coverageArea(location string) string {
	switch strings.ToLower(location) {
	case "local", "india":
		return "INDIA/MUMBAI REGIONAL"
	case "international":
		return "INTERNATIONAL/GLOBAL"
	}
	return strings.ToUpper(location)
}

// Status строит сводку состояния сервиса для ресурса factcheck://status.
func Status(operational, newsAPIConfigured, searchAPIConfigured bool, now time.Time) string {
	state := "LIMITED"
	if operational {
		state = "OPERATIONAL"
	}

	var b strings.Builder
	b.WriteString(banner)
	b.WriteString("\n                    NEWS FACT-CHECKER SERVICE STATUS\n")
	b.WriteString(banner)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "SERVICE STATUS: %s\n", state)
	fmt.Fprintf(&b, "TIMESTAMP: %s\n\n", now.Format(reportTimeLayout))
	b.WriteString("CORE SERVICES:\n")
	b.WriteString("- Gemini AI Analysis: ACTIVE\n")
	b.WriteString("- Web Search Engine: ACTIVE\n")
	b.WriteString("- HTTP Client: ACTIVE\n")
	b.WriteString("- MCP Server: ACTIVE\n\n")
	b.WriteString("CONFIGURED APIS:\n")
	b.WriteString("- Google Gemini: Configured\n")
	fmt.Fprintf(&b, "- NewsAPI: %s\n", configured(newsAPIConfigured))
	fmt.Fprintf(&b, "- Search API: %s\n\n", configured(searchAPIConfigured))
	b.WriteString("CAPABILITIES:\n")
	b.WriteString("- Fact-check news headlines: AVAILABLE\n")
	b.WriteString("- Trending topics (local): AVAILABLE\n")
	b.WriteString("- Trending topics (international): AVAILABLE\n")
	b.WriteString("- Multi-source verification: AVAILABLE\n")
	b.WriteString("- Professional reporting: AVAILABLE\n\n")
	b.WriteString("SEARCH METHODS:\n")
	b.WriteString("- DuckDuckGo API: Primary method\n")
	b.WriteString("- NewsAPI: Fallback method\n")
	b.WriteString("- RSS Feeds: Backup method\n")
	b.WriteString("- Direct Search: Last resort\n\n")
	b.WriteString("The service is ready to fact-check news headlines and retrieve trending topics.\n")
	b.WriteString("For help, access the factcheck://help resource.\n\n")
	b.WriteString(banner)
	return b.String()
}

func configured(ok bool) string {
	if ok {
		return "Configured"
	}
	return "Not configured (optional)"
}

// StatusUninitialized возвращает состояние при отсутствии инициализированного сервиса.
func StatusUninitialized() string {
	return `SERVICE STATUS: UNAVAILABLE

The news fact-checking service is not initialized.

COMMON CAUSES:
- Missing GEMINI_API_KEY environment variable
- Invalid API key configuration
- Service startup failure

RESOLUTION:
1. Ensure GEMINI_API_KEY is set in your environment
2. Verify API key is valid and has proper permissions
3. Restart the MCP server

For technical support, check the server logs for detailed error information.`
}

// Help возвращает статичное руководство пользователя, ресурс factcheck://help.
func Help() string {
	return banner + `
                    NEWS FACT-CHECKER USAGE GUIDE
` + banner + `

FACT-CHECKING TOOL
Tool Name: fact_check_headline

PURPOSE: Verify the accuracy of news headlines using AI analysis and web search

USAGE:
{
    "tool": "fact_check_headline",
    "arguments": {
        "headline": "Your news headline here"
    }
}

EXAMPLES:
Good: "NASA announces discovery of water on Mars"
Good: "Stock market drops 5% amid inflation concerns"
Good: "New COVID variant detected in 12 countries"

Avoid: "This is amazing!" (too vague)
Avoid: "" (empty headline)
Avoid: Single words or very short phrases

RESPONSE FORMAT:
- Verdict: TRUE/FALSE/PARTIALLY_TRUE/UNVERIFIED/MISLEADING
- Confidence: 0.0-1.0 (how sure the AI is)
- Truthfulness: 0-100% (percentage of accuracy)
- Explanation: Detailed analysis
- Evidence: Supporting sources
- Concerns: Potential issues
- Recommendations: What to do next

` + banner + `

TRENDING TOPICS TOOL
Tool Name: get_trending_topics

PURPOSE: Get current trending news topics by region

USAGE:
{
    "tool": "get_trending_topics",
    "arguments": {
        "location": "local|international|india"
    }
}

LOCATION OPTIONS:
- "local" or "india": Indian and Mumbai regional news
- "international": Global news from major outlets

RESPONSE INCLUDES:
- Topic headlines and descriptions
- Source information and credibility
- Publication dates
- Reference URLs
- Category classification

` + banner + `

BEST PRACTICES:

1. FACT-CHECKING:
   - Use complete, specific headlines
   - Check recent and controversial claims
   - Review all evidence sources provided
   - Consider the confidence score in your decisions

2. TRENDING TOPICS:
   - Refresh regularly for latest trends
   - Cross-reference with fact-checking tool
   - Consider source reliability
   - Use for content planning and awareness

3. INTERPRETATION:
   - TRUE (85-100%): Highly reliable, safe to share
   - PARTIALLY_TRUE (40-84%): Verify specific claims
   - UNVERIFIED (30-60%): Wait for more sources
   - FALSE (0-29%): Likely misinformation, don't share

` + banner + `

TROUBLESHOOTING:

Common Issues:
- "Service unavailable": Check API key configuration
- "No results found": Try rephrasing the headline
- "Analysis failed": Network/API temporary issues

Support:
- Check factcheck://status for service health
- Review server logs for detailed errors
- Ensure stable internet connection

` + banner
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
