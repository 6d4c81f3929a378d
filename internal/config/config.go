package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// UserAgent подставляется во все исходящие HTTP-запросы сервиса.
const UserAgent = "NewsFactChecker-MCP/2.1.0"

// Значения по умолчанию, действуют при отсутствии config.json.
const (
	DefaultHTTPTimeout = 30
	DefaultMetricsAddr = ":8085"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Ленты по умолчанию для трендов, когда NewsAPI недоступен.
var (
	DefaultLocalFeeds = []string{
		"https://feeds.feedburner.com/ndtvnews-latest",
		"https://timesofindia.indiatimes.com/rssfeedstopstories.cms",
	}
	DefaultInternationalFeeds = []string{
		"https://rss.cnn.com/rss/edition.rss",
		"https://feeds.bbci.co.uk/news/rss.xml",
	}
)

// Config хранит настройки сервиса: ключи API, таймаут HTTP и списки RSS-лент.
// Ключи берутся только из переменных окружения и в файл не попадают.
type Config struct {
	GeminiAPIKey string `json:"-"`
	NewsAPIKey   string `json:"-"`
	SearchAPIKey string `json:"-"`

	HTTPTimeout        int      `json:"http_timeout"`
	MetricsAddr        string   `json:"metrics_addr"`
	GeminiModel        string   `json:"gemini_model"`
	LocalFeeds         []string `json:"local_feeds"`
	InternationalFeeds []string `json:"international_feeds"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		HTTPTimeout:        DefaultHTTPTimeout,
		MetricsAddr:        DefaultMetricsAddr,
		GeminiModel:        DefaultGeminiModel,
		LocalFeeds:         append([]string(nil), DefaultLocalFeeds...),
		InternationalFeeds: append([]string(nil), DefaultInternationalFeeds...),
	}
}

// FromEnv подтягивает ключи API из переменных окружения.
func (cfg *Config) FromEnv() {
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.SearchAPIKey = os.Getenv("SEARCH_API_KEY")
}

// Validate проверяет обязательный ключ Gemini, таймаут HTTP и URL всех лент.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return errors.New("GEMINI_API_KEY environment variable is required")
	}
	if cfg.HTTPTimeout < 5 {
		return errors.New("http timeout must be ≥ 5 seconds")
	}
	if strings.TrimSpace(cfg.GeminiModel) == "" {
		return errors.New("gemini model must not be empty")
	}
	for _, u := range cfg.LocalFeeds {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", u)
		}
	}
	for _, u := range cfg.InternationalFeeds {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", u)
		}
	}
	return nil
}

// KeyLooksValid сообщает, похож ли ключ Gemini на настоящий: ключи начинаются с AIza.
func (cfg *Config) KeyLooksValid() bool {
	return strings.HasPrefix(cfg.GeminiAPIKey, "AIza")
}

// LoadConfig читает JSON-файл по пути path поверх значений по умолчанию
// и накладывает переменные окружения. Отсутствующий файл не считается ошибкой.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.FromEnv()
			return cfg, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	cfg.FromEnv()
	return cfg, nil
}
