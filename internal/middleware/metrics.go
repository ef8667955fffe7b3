package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_created_total",
		Help: "Total number of posts created",
	})

	// PostSearches counts search requests by result disposition.
	PostSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_post_searches_total",
		Help: "Total number of post search requests",
	}, []string{"outcome"})

	// SlugCollisions counts slug uniqueness conflicts resolved by suffixing.
	SlugCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_slug_collisions_total",
		Help: "Total number of slug collisions resolved with a numeric suffix",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler recording per-request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
