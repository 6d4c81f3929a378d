package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghubliming/news-factchecker-mcp/internal/factcheck"
	"github.com/ghubliming/news-factchecker-mcp/internal/middleware"
)

// Server хранит зависимости служебных HTTP-обработчиков.
// service может быть nil, если фактчекер не прошёл инициализацию.
type Server struct {
	service *factcheck.Service
}

// NewServer создаёт новый экземпляр Server с переданным сервисом проверки.
func NewServer(service *factcheck.Service) *Server {
	return &Server{service: service}
}

// Handler собирает маршруты служебного сервера с общими middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.HandleFunc("GET /api/status", s.GetStatus)
	mux.Handle("GET /metrics", promhttp.Handler())
	return middleware.RequestIDMiddleware(middleware.LoggingMiddleware(mux))
}

// HealthCheck отвечает 200 OK при инициализированном сервисе, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Service not initialized", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// GetStatus возвращает JSON-сводку: готовность сервиса и настроенные API.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.service == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "unavailable",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	st := s.service.Status(r.Context())
	state := "limited"
	if st.Operational {
		state = "operational"
	}
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":     state,
		"news_api":   st.NewsAPI,
		"search_api": st.SearchAPI,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
