package monitor

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ArticlesCreated counts accepted article submissions.
	ArticlesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_created_total",
			Help: "Total number of articles created.",
		},
	)

	// StatusTransitions counts workflow transitions by target status.
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_status_transitions_total",
			Help: "Total number of article status transitions, labelled by target status.",
		},
		[]string{"status"},
	)

	// MessagesSent counts discussion messages posted.
	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "discussion_messages_total",
			Help: "Total number of discussion messages posted.",
		},
	)

	// WebsocketConnections gauges currently connected realtime clients.
	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Number of currently connected websocket clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(ArticlesCreated, StatusTransitions, MessagesSent, WebsocketConnections)
}

// RegisterMetricsRoute exposes the Prometheus scrape endpoint.
func RegisterMetricsRoute(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
