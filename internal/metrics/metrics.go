package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brokercrm",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brokercrm",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	storeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brokercrm",
		Name:      "store_operation_duration_seconds",
		Help:      "Relational store call latency by entity, operation and outcome.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"entity", "operation", "outcome"})

	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brokercrm",
		Name:      "image_uploads_total",
		Help:      "Image uploads by outcome.",
	}, []string{"outcome"})
)

// Middleware records request counts and latency keyed by the matched route
// pattern, not the raw path.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Route().Path
		httpRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveStore records one store call.
func ObserveStore(entity, operation, outcome string, start time.Time) {
	storeDuration.WithLabelValues(entity, operation, outcome).Observe(time.Since(start).Seconds())
}

func ObserveUpload(ok bool) {
	if ok {
		uploads.WithLabelValues("ok").Inc()
		return
	}
	uploads.WithLabelValues("failed").Inc()
}
