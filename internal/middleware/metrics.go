package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitcheck_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ActiveWebSockets is the gauge of active feed WebSocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fitcheck_websocket_connections",
		Help: "Number of active feed WebSocket connections",
	})

	// FollowToggles counts follow toggle operations by outcome.
	FollowToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitcheck_follow_toggles_total",
		Help: "Total follow toggle operations by resulting state",
	}, []string{"state"})

	// FeedFanoutEvents counts feed events published to follower channels.
	FeedFanoutEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitcheck_feed_fanout_events_total",
		Help: "Total feed events published to follower channels",
	})

	// WebSocketDrops counts feed messages dropped on the way to a client.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitcheck_websocket_dropped_messages_total",
		Help: "Total WebSocket messages dropped by reason",
	}, []string{"reason"})
)

// InitMetrics creates the Prometheus middleware and registers default metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wires the Prometheus middleware into the request pipeline.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
