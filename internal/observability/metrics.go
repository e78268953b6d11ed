package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_http_requests_total",
			Help: "Total number of HTTP requests processed by the feed service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	telegramCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_telegram_calls_total",
			Help: "Total number of Telegram API calls issued, by method and outcome.",
		},
		[]string{"method", "outcome"},
	)
	feedChannelFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_channel_fetch_failures_total",
			Help: "Total number of channels silently skipped during feed merge fan-out.",
		},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		telegramCallsTotal,
		feedChannelFailuresTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncTelegramCall(method string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	telegramCallsTotal.WithLabelValues(method, outcome).Inc()
}

func IncFeedChannelFailure() {
	feedChannelFailuresTotal.Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
