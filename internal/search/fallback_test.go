package search_test

import (
	"context"
	"testing"

	"github.com/ghubliming/news-factchecker-mcp/internal/search"
)

func TestFallbackSearch(t *testing.T) {
	items := search.Fallback{}.Search(context.Background(), "breaking news claim", 5)
	if len(items) != 1 {
		t.Fatalf("Expected exactly 1 fallback item, got %d", len(items))
	}

	item := items[0]
	if item.Title != "Search Results for: breaking news claim" {
		t.Errorf("Unexpected title %q", item.Title)
	}
	if item.Source != "Fallback Search" {
		t.Errorf("Unexpected source %q", item.Source)
	}
	if item.URL != "https://duckduckgo.com/?q=breaking+news+claim" {
		t.Errorf("Unexpected URL %q", item.URL)
	}
	if item.Snippet == "" {
		t.Error("Expected non-empty snippet")
	}
}
