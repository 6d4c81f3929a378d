package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики сервиса. Регистрируются в DefaultRegisterer при загрузке пакета,
// наружу отдаются через /metrics вспомогательного HTTP-сервера.
var (
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factcheck_search_requests_total",
		Help: "Number of search requests per evidence source.",
	}, []string{"source"})

	SearchResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factcheck_search_results_total",
		Help: "Number of items returned per evidence source.",
	}, []string{"source"})

	Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factcheck_verdicts_total",
		Help: "Number of fact-check verdicts by value.",
	}, []string{"verdict"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factcheck_llm_requests_total",
		Help: "Number of LLM calls by outcome: ok, parse_fallback or error.",
	}, []string{"status"})

	LLMDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "factcheck_llm_duration_seconds",
		Help:    "Latency of LLM verdict synthesis calls.",
		Buckets: prometheus.DefBuckets,
	})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factcheck_tool_calls_total",
		Help: "Number of MCP tool calls by tool name.",
	}, []string{"tool"})
)
