package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ghubliming/news-factchecker-mcp/internal/factcheck"
	"github.com/ghubliming/news-factchecker-mcp/internal/middleware"
	"github.com/ghubliming/news-factchecker-mcp/internal/models"
	"github.com/ghubliming/news-factchecker-mcp/internal/server"
)

type stubSearch struct {
	items []models.EvidenceItem
}

func (s stubSearch) SearchWeb(context.Context, string, int) []models.EvidenceItem {
	return s.items
}

type stubLLM struct{}

func (stubLLM) Generate(context.Context, string) (string, error) { return "", nil }

type stubTopics struct{}

func (stubTopics) Topics(context.Context, string) []models.TopicItem { return nil }

func newService(operational bool) *factcheck.Service {
	search := stubSearch{}
	if operational {
		search.items = []models.EvidenceItem{{Title: "probe", Source: "DuckDuckGo"}}
	}
	return factcheck.New(search, stubTopics{}, stubLLM{}, factcheck.APIStatus{NewsAPI: true})
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(server.NewServer(newService(true)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestHealthCheck_NilService(t *testing.T) {
	srv := httptest.NewServer(server.NewServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetStatus_Operational(t *testing.T) {
	srv := httptest.NewServer(server.NewServer(newService(true)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body struct {
		Status    string `json:"status"`
		NewsAPI   bool   `json:"news_api"`
		SearchAPI bool   `json:"search_api"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "operational", body.Status)
	require.True(t, body.NewsAPI)
	require.False(t, body.SearchAPI)
	_, err = time.Parse(time.RFC3339, body.Timestamp)
	require.NoError(t, err)
}

func TestGetStatus_Limited(t *testing.T) {
	srv := httptest.NewServer(server.NewServer(newService(false)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "limited", body.Status)
}

func TestGetStatus_NilService(t *testing.T) {
	srv := httptest.NewServer(server.NewServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "unavailable", body.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(server.NewServer(newService(true)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}
