package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ghubliming/news-factchecker-mcp/internal/factcheck"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubSearch struct {
	items []models.EvidenceItem
}

func (s stubSearch) SearchWeb(context.Context, string, int) []models.EvidenceItem {
	return s.items
}

type stubLLM struct {
	response string
	err      error
}

func (s stubLLM) Generate(context.Context, string) (string, error) {
	return s.response, s.err
}

type stubTopics struct {
	items []models.TopicItem
}

func (s stubTopics) Topics(context.Context, string) []models.TopicItem {
	return s.items
}

const analysisJSON = `{
    "verdict": "TRUE",
    "confidence": 0.9,
    "truthfulness_percentage": 90,
    "explanation": "Well supported by coverage.",
    "evidence": [],
    "concerns": [],
    "recommendations": "Safe to share"
}`

func newService() *factcheck.Service {
	search := stubSearch{items: []models.EvidenceItem{
		{Title: "Confirmed by agency", Snippet: "Details", URL: "https://example.com", Source: "Reuters"},
	}}
	topics := stubTopics{items: []models.TopicItem{
		{Title: "Big story", Description: "Something happened", URL: "https://example.com/b", Source: "bbc.co.uk", Category: "trending"},
	}}
	return factcheck.New(search, topics, stubLLM{response: analysisJSON}, factcheck.APIStatus{NewsAPI: true, SearchAPI: true})
}

type testResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  map[string]any  `json:"result"`
	Error   *rpcError       `json:"error"`
}

// run прогоняет строки запросов через сервер до EOF и возвращает
// ответы, сгруппированные по сырому id.
func run(t *testing.T, svc *factcheck.Service, lines ...string) map[string]testResponse {
	t.Helper()

	var out bytes.Buffer
	srv := NewServer(svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, srv.Run(context.Background()))

	responses := make(map[string]testResponse)
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		var resp testResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		require.Equal(t, "2.0", resp.JSONRPC)
		responses[string(resp.ID)] = resp
	}
	return responses
}

func toolText(t *testing.T, resp testResponse) string {
	t.Helper()
	content, ok := resp.Result["content"].([]any)
	require.True(t, ok, "result must carry content")
	require.Len(t, content, 1)
	block, ok := content[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "text", block["type"])
	text, ok := block["text"].(string)
	require.True(t, ok)
	return text
}

func resourceText(t *testing.T, resp testResponse) string {
	t.Helper()
	contents, ok := resp.Result["contents"].([]any)
	require.True(t, ok, "result must carry contents")
	require.Len(t, contents, 1)
	block, ok := contents[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "text/plain", block["mimeType"])
	text, ok := block["text"].(string)
	require.True(t, ok)
	return text
}

func TestInitialize(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`)

	resp := responses["1"]
	require.Nil(t, resp.Error)
	require.Equal(t, "2024-11-05", resp.Result["protocolVersion"])

	info, ok := resp.Result["serverInfo"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "news-factcheck", info["name"])
	require.Equal(t, "2.1.0", info["version"])

	caps, ok := resp.Result["capabilities"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, caps, "tools")
	require.Contains(t, caps, "resources")
}

func TestStringIDEchoed(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":"abc","method":"ping"}`)

	resp, ok := responses[`"abc"`]
	require.True(t, ok, "string id must be echoed verbatim")
	require.Nil(t, resp.Error)
}

func TestNotificationGetsNoResponse(t *testing.T) {
	responses := run(t, newService(),
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)

	require.Len(t, responses, 1)
	require.Contains(t, responses, "2")
}

func TestPing(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":3,"method":"ping"}`)

	resp := responses["3"]
	require.Nil(t, resp.Error)
	require.Empty(t, resp.Result)
}

func TestParseError(t *testing.T) {
	responses := run(t, newService(), `{this is not json`)

	resp, ok := responses["null"]
	require.True(t, ok, "parse errors respond with null id")
	require.NotNil(t, resp.Error)
	require.Equal(t, codeParseError, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":4,"method":"prompts/list"}`)

	resp := responses["4"]
	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
	require.Equal(t, "Method not found: prompts/list", resp.Error.Message)
}

func TestBlankLinesIgnored(t *testing.T) {
	responses := run(t, newService(),
		"",
		"   ",
		`{"jsonrpc":"2.0","id":5,"method":"ping"}`,
	)

	require.Len(t, responses, 1)
}

func TestToolsList(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":6,"method":"tools/list"}`)

	tools, ok := responses["6"].Result["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 2)

	first, ok := tools[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "fact_check_headline", first["name"])
	schema, ok := first["inputSchema"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, []any{"headline"}, schema["required"])

	second, ok := tools[1].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "get_trending_topics", second["name"])
}

func TestCallTool_FactCheck(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"fact_check_headline","arguments":{"headline":"NASA rover finds water ice on Mars"}}}`)

	text := toolText(t, responses["7"])
	require.Contains(t, text, "FACT-CHECK VERIFICATION REPORT")
	require.Contains(t, text, "FINAL VERDICT: TRUE (90% ACCURATE)")
	require.Contains(t, text, `"NASA rover finds water ice on Mars"`)
	require.Contains(t, text, "POWERED BY: Google Gemini AI + Multi-Source Web Verification")
}

func TestCallTool_FactCheckValidation(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		wantText string
	}{
		{
			name:     "missing headline",
			args:     `{}`,
			wantText: "INVALID INPUT",
		},
		{
			name:     "blank headline",
			args:     `{"headline":"   "}`,
			wantText: "INVALID INPUT",
		},
		{
			name:     "too short",
			args:     `{"headline":"Hi"}`,
			wantText: "ERROR: Headline too short. Please provide a meaningful news headline (at least 5 characters).",
		},
		{
			name:     "too long",
			args:     `{"headline":"` + strings.Repeat("a", 501) + `"}`,
			wantText: "ERROR: Headline too long. Please limit to 500 characters or less.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := run(t, newService(), `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"fact_check_headline","arguments":`+tt.args+`}}`)
			require.Contains(t, toolText(t, responses["8"]), tt.wantText)
		})
	}
}

func TestCallTool_Trending(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"get_trending_topics","arguments":{"location":"international"}}}`)

	text := toolText(t, responses["9"])
	require.Contains(t, text, "TRENDING NEWS TOPICS REPORT")
	require.Contains(t, text, "COVERAGE AREA: INTERNATIONAL/GLOBAL")
	require.Contains(t, text, "Big story")
}

func TestCallTool_TrendingDefaultsToLocal(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":10,"method":"tools/call","params":{"name":"get_trending_topics","arguments":{}}}`)

	require.Contains(t, toolText(t, responses["10"]), "COVERAGE AREA: INDIA/MUMBAI REGIONAL")
}

func TestCallTool_TrendingInvalidLocation(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":11,"method":"tools/call","params":{"name":"get_trending_topics","arguments":{"location":"Local"}}}`)

	require.Equal(t, "ERROR: Invalid location 'Local'. Must be one of: local, international, india", toolText(t, responses["11"]))
}

func TestCallTool_UnknownTool(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":12,"method":"tools/call","params":{"name":"summarize_article","arguments":{}}}`)

	text := toolText(t, responses["12"])
	require.Contains(t, text, "UNKNOWN TOOL REQUEST")
	require.Contains(t, text, "Tool 'summarize_article' is not recognized.")
}

func TestCallTool_NilService(t *testing.T) {
	responses := run(t, nil, `{"jsonrpc":"2.0","id":13,"method":"tools/call","params":{"name":"fact_check_headline","arguments":{"headline":"Anything at all"}}}`)

	resp := responses["13"]
	require.Nil(t, resp.Error, "unavailable service is a text outcome, not a protocol error")
	require.Contains(t, toolText(t, resp), "FACT-CHECKING SERVICE UNAVAILABLE")
}

func TestResourcesList(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":14,"method":"resources/list"}`)

	resources, ok := responses["14"].Result["resources"].([]any)
	require.True(t, ok)
	require.Len(t, resources, 4)

	uris := make([]string, 0, len(resources))
	for _, r := range resources {
		m, ok := r.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "text/plain", m["mimeType"])
		uri, ok := m["uri"].(string)
		require.True(t, ok)
		uris = append(uris, uri)
	}
	require.Equal(t, []string{"factcheck://status", "trending://local", "trending://international", "factcheck://help"}, uris)
}

func TestReadResource_Status(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":15,"method":"resources/read","params":{"uri":"factcheck://status"}}`)

	text := resourceText(t, responses["15"])
	require.Contains(t, text, "SERVICE STATUS: OPERATIONAL")
	require.Contains(t, text, "- NewsAPI: Configured")
	require.Contains(t, text, "- Search API: Configured")
}

func TestReadResource_StatusNilService(t *testing.T) {
	responses := run(t, nil, `{"jsonrpc":"2.0","id":16,"method":"resources/read","params":{"uri":"factcheck://status"}}`)

	require.Contains(t, resourceText(t, responses["16"]), "SERVICE STATUS: UNAVAILABLE")
}

func TestReadResource_TrendingLocal(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":17,"method":"resources/read","params":{"uri":"trending://local"}}`)

	text := resourceText(t, responses["17"])
	require.Contains(t, text, "COVERAGE AREA: INDIA/MUMBAI REGIONAL")
	require.Contains(t, text, "Big story")
}

func TestReadResource_TrendingNilService(t *testing.T) {
	responses := run(t, nil, `{"jsonrpc":"2.0","id":18,"method":"resources/read","params":{"uri":"trending://international"}}`)

	require.Equal(t, "ERROR: Fact-checking service unavailable", resourceText(t, responses["18"]))
}

func TestReadResource_HelpWorksWithoutService(t *testing.T) {
	responses := run(t, nil, `{"jsonrpc":"2.0","id":19,"method":"resources/read","params":{"uri":"factcheck://help"}}`)

	text := resourceText(t, responses["19"])
	require.Contains(t, text, "NEWS FACT-CHECKER USAGE GUIDE")
	require.Contains(t, text, "Tool Name: fact_check_headline")
}

func TestReadResource_UnknownURI(t *testing.T) {
	responses := run(t, newService(), `{"jsonrpc":"2.0","id":20,"method":"resources/read","params":{"uri":"factcheck://nope"}}`)

	require.Equal(t, "ERROR: Resource not found - factcheck://nope", resourceText(t, responses["20"]))
}

func TestRun_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	srv := NewServer(nil, pr, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// Освобождаем горутину чтения, зависшую в Scan.
	require.NoError(t, pw.Close())
	require.NoError(t, pr.Close())
}
