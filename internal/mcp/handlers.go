package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/metrics"
	"github.com/ghubliming/news-factchecker-mcp/internal/report"
)

const serviceUnavailableText = `FACT-CHECKING SERVICE UNAVAILABLE

The news fact-checking service is not properly initialized. This usually means:
- GEMINI_API_KEY environment variable is missing or invalid
- Network connectivity issues
- Service startup failed

Please check your API key configuration and try again.`

const noHeadlineText = `INVALID INPUT

No headline provided for fact-checking. Please provide a news headline or claim to analyze.

Example: "Scientists discover cure for cancer in breakthrough study"`

const headlineTooShortText = "ERROR: Headline too short. Please provide a meaningful news headline (at least 5 characters)."

const headlineTooLongText = "ERROR: Headline too long. Please limit to 500 characters or less."

func factCheckFailedText(detail string) string {
	return fmt.Sprintf(`FACT-CHECK PROCESS FAILED

An error occurred during the fact-checking process:
%s

This could be due to:
- Temporary API service issues
- Network connectivity problems
- Rate limiting from search services

Please try again in a few moments.`, detail)
}

func trendingFailedText(detail string) string {
	return fmt.Sprintf(`TRENDING TOPICS RETRIEVAL FAILED

An error occurred while fetching trending topics:
%s

This could be due to:
- Temporary news API service issues
- Network connectivity problems
- RSS feed parsing errors

Please try again in a few moments.`, detail)
}

func unknownToolText(name string) string {
	return fmt.Sprintf(`UNKNOWN TOOL REQUEST

Tool '%s' is not recognized. Available tools:
- fact_check_headline - Verify news headlines using AI analysis
- get_trending_topics - Get current trending news by region

Please check the tool name and try again.`, name)
}

const factCheckToolDescription = `FACT-CHECK NEWS HEADLINE

Comprehensive news headline verification using AI analysis and web search.

This tool:
- Searches multiple sources for verification data
- Uses Google Gemini AI for professional fact-checking analysis
- Provides verdict (TRUE/FALSE/PARTIALLY_TRUE/UNVERIFIED/MISLEADING)
- Gives confidence scores and truthfulness percentages
- Lists supporting/contradicting evidence with sources
- Offers recommendations for readers

Perfect for: Verifying news claims, checking viral stories, academic research`

const trendingToolDescription = `GET TRENDING NEWS TOPICS

Retrieve current trending news topics from multiple authoritative sources.

This tool:
- Aggregates trending topics from NewsAPI, RSS feeds, and search engines
- Supports both local (India/Mumbai) and international news coverage
- Provides topic titles, descriptions, sources, and publication dates
- Returns up to 10 most relevant trending topics
- Includes source credibility information

Perfect for: Content creators, journalists, staying informed, market research`

func toolDescriptors() []toolDescriptor {
	return []toolDescriptor{
		{
			Name:        "fact_check_headline",
			Description: factCheckToolDescription,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"headline": map[string]any{
						"type":        "string",
						"description": "The news headline or claim to fact-check (e.g., 'Scientists discover cure for cancer')",
						"minLength":   5,
						"maxLength":   500,
					},
				},
				"required":             []string{"headline"},
				"additionalProperties": false,
			},
		},
		{
			Name:        "get_trending_topics",
			Description: trendingToolDescription,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"enum":        []string{"local", "international", "india"},
						"description": "News coverage area: 'local' or 'india' for Indian/Mumbai regional news, 'international' for global news",
						"default":     "local",
					},
				},
				"required":             []string{},
				"additionalProperties": false,
			},
		},
	}
}

func resourceDescriptors() []resourceDescriptor {
	return []resourceDescriptor{
		{
			URI:         "factcheck://status",
			Name:        "Fact Checker Service Status",
			Description: "Current operational status of the news fact-checking service including API connectivity and system health",
			MimeType:    "text/plain",
		},
		{
			URI:         "trending://local",
			Name:        "Indian/Mumbai Trending Topics",
			Description: "Current trending news topics in India and Mumbai region from multiple authoritative sources",
			MimeType:    "text/plain",
		},
		{
			URI:         "trending://international",
			Name:        "International Trending Topics",
			Description: "Current trending international news topics from global news sources and agencies",
			MimeType:    "text/plain",
		},
		{
			URI:         "factcheck://help",
			Name:        "Usage Guide and Examples",
			Description: "Comprehensive guide on how to use the fact-checking tools effectively with examples",
			MimeType:    "text/plain",
		},
	}
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) toolCallResult {
	var p toolCallParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			logger.Log.WithFields(logrus.Fields{"error": err}).Warn("Malformed tool call params")
		}
	}
	logger.Log.WithFields(logrus.Fields{"tool": p.Name, "call_id": uuid.NewString()}).Info("Tool called")
	metrics.ToolCalls.WithLabelValues(p.Name).Inc()

	if s.service == nil {
		logger.Log.Error("Service not initialized when tool called")
		return textResult(serviceUnavailableText)
	}

	switch p.Name {
	case "fact_check_headline":
		return textResult(s.factCheckTool(ctx, p.Arguments))
	case "get_trending_topics":
		return textResult(s.trendingTool(ctx, p.Arguments))
	default:
		logger.Log.WithFields(logrus.Fields{"tool": p.Name}).Warn("Unknown tool requested")
		return textResult(unknownToolText(p.Name))
	}
}

func (s *Server) factCheckTool(ctx context.Context, args map[string]any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithFields(logrus.Fields{"panic": r}).Error("Fact-check failed")
			text = factCheckFailedText(fmt.Sprint(r))
		}
	}()

	headline, _ := args["headline"].(string)
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return noHeadlineText
	}
	length := len([]rune(headline))
	if length < 5 {
		return headlineTooShortText
	}
	if length > 500 {
		return headlineTooLongText
	}

	record := s.service.FactCheckHeadline(ctx, headline)
	return report.FactCheck(record, time.Now().UTC())
}

func (s *Server) trendingTool(ctx context.Context, args map[string]any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithFields(logrus.Fields{"panic": r}).Error("Trending topics failed")
			text = trendingFailedText(fmt.Sprint(r))
		}
	}()

	location := "local"
	if v, ok := args["location"]; ok {
		location, _ = v.(string)
	}
	switch location {
	case "local", "international", "india":
	default:
		return fmt.Sprintf("ERROR: Invalid location '%s'. Must be one of: local, international, india", location)
	}

	topics := s.service.TrendingTopics(ctx, location)
	return report.Trending(topics, location, time.Now().UTC())
}

func (s *Server) readResource(ctx context.Context, params json.RawMessage) resourcesReadResult {
	var p resourceReadParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			logger.Log.WithFields(logrus.Fields{"error": err}).Warn("Malformed resource read params")
		}
	}
	logger.Log.WithFields(logrus.Fields{"uri": p.URI}).Info("Resource requested")

	return resourcesReadResult{Contents: []resourceContents{{
		URI:      p.URI,
		MimeType: "text/plain",
		Text:     s.resourceText(ctx, p.URI),
	}}}
}

func (s *Server) resourceText(ctx context.Context, uri string) string {
	switch uri {
	case "factcheck://status":
		if s.service == nil {
			return report.StatusUninitialized()
		}
		st := s.service.Status(ctx)
		return report.Status(st.Operational, st.NewsAPI, st.SearchAPI, time.Now().UTC())
	case "trending://local":
		if s.service == nil {
			return "ERROR: Fact-checking service unavailable"
		}
		return report.Trending(s.service.TrendingTopics(ctx, "local"), "local", time.Now().UTC())
	case "trending://international":
		if s.service == nil {
			return "ERROR: Fact-checking service unavailable"
		}
		return report.Trending(s.service.TrendingTopics(ctx, "international"), "international", time.Now().UTC())
	case "factcheck://help":
		return report.Help()
	default:
		return fmt.Sprintf("ERROR: Resource not found - %s", uri)
	}
}
