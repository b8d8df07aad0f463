// Package metrics регистрирует метрики Prometheus сервиса в реестре по умолчанию.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests считает обработанные HTTP-запросы.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPDuration измеряет длительность обработки HTTP-запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthFailures считает отказы аутентификации по видам.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpcenter_auth_failures_total",
		Help: "Authentication and authorization failures by kind.",
	}, []string{"kind"})

	// ChatAnalyzed считает обработанные события chat.analyzed по категориям.
	ChatAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpcenter_chat_analyzed_total",
		Help: "Analyzed chat messages consumed from the event queue, by category.",
	}, []string{"category"})

	// ChatConfidence распределение уверенности сгенерированных решений.
	ChatConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "helpcenter_chat_solution_confidence",
		Help:    "Confidence of generated solutions.",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	// ChatEventsRejected считает события, которые не удалось разобрать.
	ChatEventsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpcenter_chat_events_rejected_total",
		Help: "Chat events dropped because the payload could not be decoded.",
	})
)

// AuthFailure увеличивает счётчик отказов указанного вида.
func AuthFailure(kind string) {
	AuthFailures.WithLabelValues(kind).Inc()
}
