// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"log/slog"
	"time"

	"github.com/tigerwill90/routef/internal/slogpretty"
)

// LoggerWithHandler returns middleware that logs request information using the provided slog.Handler.
// It logs details such as the HTTP method, request path, matched pattern, status code and latency.
func LoggerWithHandler(handler slog.Handler) MiddlewareFunc {
	log := slog.New(handler)
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) {
			start := time.Now()
			next(c)
			latency := time.Since(start)

			req := c.Request()
			status := c.Writer().Status()
			lvl := level(status)

			pattern := c.Pattern()
			if pattern == "" {
				pattern = "fallback"
			}

			attrs := []slog.Attr{
				slog.Int("status", status),
				slog.String("method", req.Method),
				slog.String("path", req.URL.String()),
				slog.String("pattern", pattern),
				slog.Duration("latency", roundLatency(latency)),
			}
			if lvl == slog.LevelDebug {
				if location := c.Writer().Header().Get(HeaderLocation); location != "" {
					attrs = append(attrs, slog.String("location", location))
				}
			}

			log.LogAttrs(req.Context(), lvl, req.RemoteAddr, attrs...)
		}
	}
}

// Logger returns middleware that logs request information to os.Stdout and os.Stderr.
// It logs details such as the HTTP method, request path, matched pattern, status code and latency.
func Logger() MiddlewareFunc {
	return LoggerWithHandler(slogpretty.DefaultHandler)
}

func level(status int) slog.Level {
	switch {
	case status >= 200 && status < 300:
		return slog.LevelInfo
	case status >= 300 && status < 400:
		return slog.LevelDebug
	case status >= 400 && status < 500:
		return slog.LevelWarn
	case status >= 500:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func roundLatency(d time.Duration) time.Duration {
	switch {
	case d < 1*time.Microsecond:
		return d.Round(100 * time.Nanosecond)
	case d < 1*time.Millisecond:
		return d.Round(10 * time.Microsecond)
	case d < 10*time.Millisecond:
		return d.Round(100 * time.Microsecond)
	case d < 100*time.Millisecond:
		return d.Round(1 * time.Millisecond)
	case d < 1*time.Second:
		return d.Round(10 * time.Millisecond)
	case d < 10*time.Second:
		return d.Round(100 * time.Millisecond)
	default:
		return d.Round(1 * time.Second)
	}
}
