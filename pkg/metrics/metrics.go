package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventhub_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// TicketOperations counts purchase/edit/delete outcomes
	TicketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_ticket_operations_total",
			Help: "Ticket operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// TicketUnitsSold counts accepted units
	TicketUnitsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_ticket_units_sold_total",
			Help: "Ticket units accepted by purchases",
		},
	)

	// RatingWrites counts rating create/update/delete
	RatingWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_rating_writes_total",
			Help: "Rating writes by kind",
		},
		[]string{"operation"},
	)

	// RefundDecisions counts refund requests by resulting status
	RefundDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_refund_requests_total",
			Help: "Refund requests by status transition",
		},
		[]string{"status"},
	)

	// NotificationsPublished counts broker publishes by type and outcome
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_notifications_published_total",
			Help: "Notifications handed to the broker",
		},
		[]string{"type", "outcome"},
	)

	// RateLimitRejections counts 429 responses by limit class
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"type"},
	)
)

// Outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Middleware records request count and latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
