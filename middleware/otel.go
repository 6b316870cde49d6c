// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package middleware

import (
	"net/http"
	"strconv"

	"github.com/tigerwill90/routef"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "github.com/tigerwill90/routef"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "github.com/tigerwill90/routef").
	TracerName string

	// TracerProvider is used to create the tracer. If nil, the global provider is used.
	TracerProvider trace.TracerProvider

	// IncludeArgs records the decoded typed segments as span attributes. Disabled by default since
	// segments may hold sensitive information.
	IncludeArgs bool

	// Filter determines which requests to trace.
	// Return true to trace the request, false to skip.
	// If nil, all requests are traced.
	Filter func(c *routef.Context) bool

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeArgs enables recording the decoded typed segments.
func WithIncludeArgs(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeArgs = include
	}
}

// WithFilter sets a filter function for requests.
func WithFilter(filter func(c *routef.Context) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// OpenTelemetry creates middleware that opens a server span for every request. The span is named after the
// method and the matched pattern (e.g. "GET /user/%i"), or "fallback" when no route matched, and the request
// context is replaced so that handlers can retrieve the span with SpanFromContext.
func OpenTelemetry(opts ...OTelOption) routef.MiddlewareFunc {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return func(next routef.HandlerFunc) routef.HandlerFunc {
		return func(c *routef.Context) {
			if config.Filter != nil && !config.Filter(c) {
				next(c)
				return
			}

			pattern := c.Pattern()
			attrs := []attribute.KeyValue{
				attribute.String("http.request.method", c.Method()),
				attribute.String("url.path", c.Path()),
			}
			if pattern != "" {
				attrs = append(attrs, attribute.String("http.route", pattern))
			}
			if config.IncludeArgs {
				for i, v := range c.Args() {
					attrs = append(attrs, attribute.String("routef.arg."+strconv.Itoa(i), v.String()))
				}
			}

			req := c.Request()
			ctx, span := config.tracer.Start(
				req.Context(),
				spanName(c.Method(), pattern),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			c.SetRequest(req.WithContext(ctx))
			next(c)
			c.SetRequest(req)

			status := c.Writer().Status()
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		}
	}
}

// SpanFromContext retrieves the current trace span from the request context.
// It returns a non-recording span if the request is not traced.
//
// Example:
//
//	func MyHandler(c *routef.Context) {
//	    middleware.SpanFromContext(c).SetAttributes(attribute.Int("my.count", 42))
//	}
func SpanFromContext(c *routef.Context) trace.Span {
	return trace.SpanFromContext(c.Ctx())
}

func spanName(method, pattern string) string {
	if pattern == "" {
		return FallbackPattern
	}
	return method + " " + pattern
}
