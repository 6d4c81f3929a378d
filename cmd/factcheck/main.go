package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghubliming/news-factchecker-mcp/internal/config"
	"github.com/ghubliming/news-factchecker-mcp/internal/factcheck"
	"github.com/ghubliming/news-factchecker-mcp/internal/feeds"
	"github.com/ghubliming/news-factchecker-mcp/internal/gemini"
	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
	"github.com/ghubliming/news-factchecker-mcp/internal/mcp"
	"github.com/ghubliming/news-factchecker-mcp/internal/search"
	"github.com/ghubliming/news-factchecker-mcp/internal/server"
	"github.com/ghubliming/news-factchecker-mcp/internal/trending"
)

func main() {
	logger.Init()
	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}

	// Инициализация фактчекера. Отсутствие ключа не валит процесс:
	// сервер продолжает отвечать клиенту текстом о недоступности.
	svc, llm := buildService(ctx, cfg)
	if llm != nil {
		defer llm.Close()
	}

	// Служебный HTTP сервер: health, статус, метрики
	ops := &http.Server{Addr: cfg.MetricsAddr, Handler: server.NewServer(svc).Handler()}
	go func() {
		logger.Log.Infof("Starting ops HTTP server on %s", cfg.MetricsAddr)
		if err := ops.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Ops server error: %v", err)
		}
	}()

	// MCP сервер на stdio: основной канал обслуживания клиента
	mcpDone := make(chan error, 1)
	go func() {
		mcpDone <- mcp.NewServer(svc, os.Stdin, os.Stdout).Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Log.Info("Shutting down...")
		cancel()
	case err := <-mcpDone:
		if err != nil && err != context.Canceled {
			logger.Log.Errorf("MCP server error: %v", err)
		}
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := ops.Shutdown(ctxShutdown); err != nil {
		logger.Log.Fatalf("Forced shutdown: %v", err)
	}
}

// buildService собирает полный конвейер проверки: поисковую цепочку,
// каскад трендов и клиент Gemini. При невалидной конфигурации возвращает
// nil вместо падения, сервер переходит в режим деградации.
func buildService(ctx context.Context, cfg *config.Config) (*factcheck.Service, *gemini.Client) {
	if err := cfg.Validate(); err != nil {
		logger.Log.Errorf("Fact-checker disabled: %v", err)
		return nil, nil
	}
	if !cfg.KeyLooksValid() {
		logger.Log.Warn("GEMINI_API_KEY has unexpected format, continuing anyway")
	}

	llm, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Log.Errorf("Fact-checker disabled: %v", err)
		return nil, nil
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeout) * time.Second}

	// Два экземпляра NewsAPI: SEARCH_API_KEY для поиска доказательств,
	// NEWS_API_KEY для трендовых заголовков.
	webSearch := search.NewAggregator(
		search.NewDuckDuckGo(httpClient, config.UserAgent),
		search.NewNewsAPI(httpClient, cfg.SearchAPIKey, config.UserAgent),
		search.Fallback{},
	)
	topicSource := trending.NewAggregator(
		search.NewNewsAPI(httpClient, cfg.NewsAPIKey, config.UserAgent),
		feeds.NewFetcher(httpClient, config.UserAgent),
		webSearch,
		cfg.LocalFeeds,
		cfg.InternationalFeeds,
	)

	svc := factcheck.New(webSearch, topicSource, llm, factcheck.APIStatus{
		NewsAPI:   cfg.NewsAPIKey != "",
		SearchAPI: cfg.SearchAPIKey != "",
	})

	// Пробный поиск сразу показывает в логах состояние цепочки.
	probe := webSearch.SearchWeb(ctx, "connectivity test", 1)
	logger.Log.Infof("Search connectivity check returned %d result(s)", len(probe))

	logger.Log.Infof("NewsAPI configured: %t, Search API configured: %t",
		cfg.NewsAPIKey != "", cfg.SearchAPIKey != "")
	logger.Log.Info("News fact-checker service initialized successfully")
	return svc, llm
}
