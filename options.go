// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"fmt"
	"log/slog"

	"github.com/tigerwill90/routef/internal/slogpretty"
)

// Option configures a [Router] built with [New].
type Option interface {
	apply(sealedOption) error
}

type sealedOption struct {
	router *Router
}

type optionFunc func(sealedOption) error

func (o optionFunc) apply(s sealedOption) error {
	return o(s)
}

// WithMiddleware attaches middleware to the router. The middlewares are executed in the order they are added and
// wrap both the matched route handlers and the fallback handler. When the middleware runs, the route is already
// resolved, so [Context.Pattern] and [Context.Args] are available.
func WithMiddleware(m ...MiddlewareFunc) Option {
	return optionFunc(func(s sealedOption) error {
		for i := range m {
			if m[i] == nil {
				return fmt.Errorf("%w: middleware cannot be nil", ErrInvalidConfig)
			}
			s.router.mws = append(s.router.mws, m[i])
		}
		return nil
	})
}

// WithLogger configures the router to report its build (registered routes, tree depth) at debug level with the
// provided slog.Handler.
func WithLogger(handler slog.Handler) Option {
	return optionFunc(func(s sealedOption) error {
		if handler == nil {
			return fmt.Errorf("%w: logger handler cannot be nil", ErrInvalidConfig)
		}
		s.router.logger = slog.New(handler)
		return nil
	})
}

// WithMaxArgs set the maximum number of typed segments allowed in a pattern. Patterns exceeding this limit
// will fail with an error that is [ErrTooManyArgs]. By default, there is no limit.
func WithMaxArgs(max int) Option {
	return optionFunc(func(s sealedOption) error {
		if max <= 0 {
			return fmt.Errorf("%w: max args must be greater than zero", ErrInvalidConfig)
		}
		s.router.maxArgs = max
		return nil
	})
}

// WithPrettyLogs configures the router with human-readable, colorized logging optimized for terminal output.
// It registers the following middleware at the front of the chain:
//   - [Recovery] middleware, which catches panics and logs stack traces
//   - [Logger] middleware, which logs request details
//
// This option prioritizes readability over performance and is not recommended for high-throughput applications.
func WithPrettyLogs() Option {
	return optionFunc(func(s sealedOption) error {
		s.router.mws = append([]MiddlewareFunc{
			Recovery(DefaultHandleRecovery),
			Logger(),
		}, s.router.mws...)
		s.router.logger = slog.New(slogpretty.DefaultHandler)
		return nil
	})
}
