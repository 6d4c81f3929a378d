package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghubliming/news-factchecker-mcp/internal/search"
)

func newNewsAPI(t *testing.T, apiKey string, handler http.HandlerFunc) *search.NewsAPI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := search.NewNewsAPI(server.Client(), apiKey, "test-agent")
	api.BaseURL = server.URL
	return api
}

func TestNewsAPISearch_NoKeySkipsRequest(t *testing.T) {
	called := false
	api := newNewsAPI(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	items := api.Search(context.Background(), "query", 5)
	if items != nil {
		t.Fatalf("Expected nil without API key, got %+v", items)
	}
	if called {
		t.Error("Expected no HTTP request without API key")
	}
}

func TestNewsAPISearch_FiltersIncompleteArticles(t *testing.T) {
	api := newNewsAPI(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("apiKey"); got != "secret" {
			t.Errorf("Expected apiKey=secret, got %q", got)
		}
		if got := q.Get("sortBy"); got != "relevancy" {
			t.Errorf("Expected sortBy=relevancy, got %q", got)
		}
		if got := q.Get("language"); got != "en" {
			t.Errorf("Expected language=en, got %q", got)
		}
		if got := q.Get("from"); len(got) != 10 || got[8:] != "01" {
			t.Errorf("Expected from=first day of month, got %q", got)
		}
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title": "Full Article", "description": "Has both fields.", "url": "https://x/1", "source": {"name": "Reuters"}},
				{"title": "", "description": "No title."},
				{"title": "No description", "description": ""},
				{"title": "Unnamed Source", "description": "Still kept.", "url": "https://x/2", "source": {"name": ""}}
			]
		}`))
	})

	items := api.Search(context.Background(), "query", 5)
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Source != "Reuters" {
		t.Errorf("Expected source Reuters, got %q", items[0].Source)
	}
	if items[1].Source != "NewsAPI" {
		t.Errorf("Expected default source NewsAPI, got %q", items[1].Source)
	}
}

func TestNewsAPISearch_HTTPError(t *testing.T) {
	api := newNewsAPI(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":"error","code":"rateLimited"}`))
	})

	items := api.Search(context.Background(), "query", 5)
	if items != nil {
		t.Fatalf("Expected nil on non-200, got %+v", items)
	}
}

func TestNewsAPITopHeadlines_RegionParams(t *testing.T) {
	testCases := []struct {
		name        string
		location    string
		wantCountry string
		wantQuery   string
	}{
		{name: "local maps to india", location: "local", wantCountry: "in"},
		{name: "india maps to india", location: "india", wantCountry: "in"},
		{name: "international maps to us", location: "international", wantCountry: "us"},
		{name: "custom location becomes query", location: "mumbai", wantQuery: "mumbai news"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := newNewsAPI(t, "secret", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if got := q.Get("country"); got != tc.wantCountry {
					t.Errorf("Expected country=%q, got %q", tc.wantCountry, got)
				}
				if got := q.Get("q"); got != tc.wantQuery {
					t.Errorf("Expected q=%q, got %q", tc.wantQuery, got)
				}
				if got := q.Get("pageSize"); got != "10" {
					t.Errorf("Expected pageSize=10, got %q", got)
				}
				w.Write([]byte(`{
					"status": "ok",
					"articles": [
						{"title": "Top Story", "description": "d", "url": "https://x/1",
						 "publishedAt": "2025-06-01T10:00:00Z", "source": {"name": "BBC News"}}
					]
				}`))
			})

			topics := api.TopHeadlines(context.Background(), tc.location)
			if len(topics) != 1 {
				t.Fatalf("Expected 1 topic, got %d", len(topics))
			}
			if topics[0].Category != "trending" {
				t.Errorf("Expected category trending, got %q", topics[0].Category)
			}
			if topics[0].Source != "BBC News" {
				t.Errorf("Expected source BBC News, got %q", topics[0].Source)
			}
			if topics[0].PublishedAt != "2025-06-01T10:00:00Z" {
				t.Errorf("Unexpected published_at %q", topics[0].PublishedAt)
			}
		})
	}
}

func TestNewsAPITopHeadlines_NoKey(t *testing.T) {
	api := search.NewNewsAPI(http.DefaultClient, "", "test-agent")
	if topics := api.TopHeadlines(context.Background(), "local"); topics != nil {
		t.Fatalf("Expected nil without API key, got %+v", topics)
	}
}
