// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tigerwill90/routef"
)

// FallbackPattern is the pattern label used for requests that did not match any route.
const FallbackPattern = "fallback"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routef").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routef",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors updated by the Prometheus middleware.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	typedArgs       *prometheus.HistogramVec
}

// NewMetrics registers the router collectors with the configured registry. It panics if the collectors are
// already registered, like promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of requests by matched pattern, method and status",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Request handling duration in seconds by matched pattern",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"pattern"}),

		typedArgs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_args",
			Help:        "Number of typed segments decoded per matched request",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 3, 5, 8},
		}, []string{"pattern"}),
	}
}

// Middleware returns a routef.MiddlewareFunc recording the request metrics.
func (m *Metrics) Middleware() routef.MiddlewareFunc {
	return func(next routef.HandlerFunc) routef.HandlerFunc {
		return func(c *routef.Context) {
			start := time.Now()
			// Args are only valid until next returns.
			pattern, argc := c.Pattern(), c.Args().Len()
			next(c)

			if pattern == "" {
				pattern = FallbackPattern
			}
			m.requestsTotal.WithLabelValues(pattern, c.Method(), strconv.Itoa(c.Writer().Status())).Inc()
			m.requestDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
			if pattern != FallbackPattern {
				m.typedArgs.WithLabelValues(pattern).Observe(float64(argc))
			}
		}
	}
}

// Prometheus creates middleware that collects Prometheus metrics for routed requests.
//
// Metrics collected:
//   - routef_requests_total: Counter of requests by pattern, method and status
//   - routef_request_duration_seconds: Histogram of request duration by pattern
//   - routef_route_args: Histogram of typed segments decoded by pattern
//
// Requests served by the fallback handler use the "fallback" pattern label, so unmatched paths never grow
// the label cardinality.
//
// Example:
//
//	r, err := routef.New(nil, endpoints,
//	    routef.WithMiddleware(middleware.Prometheus(middleware.WithNamespace("api"))),
//	)
func Prometheus(opts ...MetricsOption) routef.MiddlewareFunc {
	return NewMetrics(opts...).Middleware()
}
