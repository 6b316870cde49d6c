// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// HandlerFunc is a function type that responds to an HTTP request.
// It enforces the same contract as [http.Handler] but provides additional feature
// like decoded typed segments via the [Context] type. The [Context] is freed once
// the HandlerFunc returns and may be reused later to save resources. If you need
// to hold the context longer, you have to copy it (see [Context.Clone] method).
//
// Similar to [http.Handler], to abort a HandlerFunc so the client sees an interrupted
// response, panic with the value [http.ErrAbortHandler].
//
// HandlerFunc functions should be thread-safe, as they will be called concurrently.
type HandlerFunc func(c *Context)

// MiddlewareFunc is a function type for implementing [HandlerFunc] middleware.
// The returned [HandlerFunc] usually wraps the input [HandlerFunc], allowing you to perform operations
// before and/or after the wrapped [HandlerFunc] is executed. MiddlewareFunc functions should
// be thread-safe, as they will be called concurrently.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// Router is a request path router built on a radix tree. Literal routes are edges of the tree while typed
// routes interleave edges with segment parsers. The Router is immutable once built and safe for concurrent use.
type Router struct {
	root     *node
	fallback HandlerFunc
	handler  HandlerFunc
	logger   *slog.Logger
	pool     sync.Pool
	routes   []*route
	mws      []MiddlewareFunc
	maxArgs  int
	argsCap  int
	depth    int
	// maxDepth is the deepest lookup a pooled Context may run, the depth of the Router or of any Router mounted
	// under it with Handle.
	maxDepth atomic.Int64
}

// Match is the result of a lookup performed with [Router.Match].
type Match struct {
	Pattern string
	Method  string
	Args    Args
}

var _ http.Handler = (*Router)(nil)

// New returns a ready to use Router. The endpoints are registered in order, and fallback is called for every
// request that does not match any route (or whose typed handler factory returns nil). If fallback is nil, the
// [DefaultNotFoundHandler] is used. If an error occurs, it returns one of the following:
//   - [ErrRouteExist]: If a route is already registered (see [RouteConflictError]).
//   - [ErrInvalidRoute]: If a pattern, a method or an endpoint is invalid (see [FormatError]).
//   - [ErrTypeMismatch]: If a typed handler does not accept the directives of its pattern.
//   - [ErrTooManyArgs]: If a pattern has more directives than allowed by [WithMaxArgs].
//   - [ErrInvalidConfig]: If an option is invalid.
func New(fallback HandlerFunc, endpoints []Endpoint, opts ...Option) (*Router, error) {
	fox := &Router{
		root:     new(node),
		fallback: fallback,
	}
	if fox.fallback == nil {
		fox.fallback = DefaultNotFoundHandler
	}

	for _, opt := range opts {
		if err := opt.apply(sealedOption{router: fox}); err != nil {
			return nil, err
		}
	}

	b := &builder{logger: fox.logger, maxArgs: fox.maxArgs}
	if err := applyAll(b, fox.root, scope{}, endpoints); err != nil {
		return nil, err
	}

	fox.routes = b.routes
	fox.argsCap = b.argsCap
	fox.depth = fox.root.height()
	fox.maxDepth.Store(int64(fox.depth))
	fox.handler = applyMiddleware(fox.mws, fox.dispatch)
	fox.pool.New = func() any {
		return newContext(fox, fox.argsCap, int(fox.maxDepth.Load()))
	}

	if fox.logger != nil {
		fox.logger.Debug("router built", slog.Int("routes", len(fox.routes)), slog.Int("depth", fox.depth), slog.Int("max_args", fox.argsCap))
	}

	return fox, nil
}

// MustNew is like [New] but panics on error.
func MustNew(fallback HandlerFunc, endpoints []Endpoint, opts ...Option) *Router {
	fox, err := New(fallback, endpoints, opts...)
	if err != nil {
		panic(err)
	}
	return fox
}

// ServeHTTP is the main entry point to serve a request. It matches the escaped request path against the
// registered routes and invokes either the selected handler or the fallback.
func (fox *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := fox.pool.Get().(*Context)
	c.reset(w, r)
	c.route = lookup(fox.root, r.Method, c.state.Path, 0, c)
	fox.handler(c)
	fox.put(c)
}

// Handle dispatches the request with the provided Context, starting the lookup at the current RouteState
// position. It allows mounting a Router as the HandlerFunc of another router. The arguments decoded by the
// parent router are preserved, and restored with the matched route once the nested Router returns.
func (fox *Router) Handle(c *Context) {
	parentRoute, parentArgs, parentRouter := c.route, c.args, c.fox
	if parentRouter != nil {
		parentRouter.mount(fox)
	}
	if depth := int(fox.maxDepth.Load()); cap(c.stack) < depth {
		c.stack = make([]frame, 0, depth)
	}

	// The nested lookup appends after the parent arguments, so the parent Args are never overwritten.
	c.args = parentArgs[len(parentArgs):]
	c.fox = fox
	c.route = lookup(fox.root, c.req.Method, c.state.Path, c.state.Position, c)
	fox.handler(c)

	c.route, c.args, c.fox = parentRoute, parentArgs, parentRouter
}

// Match resolves the path for the given method without calling any handler. On success, the returned Match
// holds a copy of the decoded arguments.
func (fox *Router) Match(method, path string) (Match, bool) {
	c := fox.pool.Get().(*Context)
	defer fox.put(c)
	rte := lookup(fox.root, method, path, 0, c)
	if rte == nil {
		return Match{}, false
	}
	return Match{
		Pattern: rte.pattern,
		Method:  rte.method,
		Args:    c.args.Clone(),
	}, true
}

// Routes returns a range iterator over the registered routes, in registration order. The first value is the
// method guarding the route, or an empty string if the route matches any method, the second is the pattern.
func (fox *Router) Routes() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, rte := range fox.routes {
			if !yield(rte.method, rte.pattern) {
				return
			}
		}
	}
}

// Len returns the number of registered routes.
func (fox *Router) Len() int {
	return len(fox.routes)
}

// String returns a human readable dump of the routing tree.
func (fox *Router) String() string {
	return fox.root.String()
}

// dispatch invokes the matched route, or the fallback handler.
func (fox *Router) dispatch(c *Context) {
	if c.route == nil {
		fox.fallback(c)
		return
	}
	c.route.handle(c)
}

// mount records that the nested Router may run its lookup with a Context pooled by fox.
func (fox *Router) mount(nested *Router) {
	depth := nested.maxDepth.Load()
	for {
		current := fox.maxDepth.Load()
		if depth <= current || fox.maxDepth.CompareAndSwap(current, depth) {
			return
		}
	}
}

func (fox *Router) put(c *Context) {
	// Put back the context, if not extended more than max args or max depth, allowing
	// the slice to naturally grow within the constraint.
	if cap(c.args) > fox.argsCap || cap(c.stack) > int(fox.maxDepth.Load()) {
		return
	}
	c.req = nil
	c.w = nil
	c.rec.reset(nil)
	c.route = nil
	c.args = c.args[:0]
	fox.pool.Put(c)
}

// StripPrefix returns a HandlerFunc that advances the RouteState position past prefix before calling next, or
// calls the fallback of the serving router if the remaining path does not start with prefix.
func StripPrefix(prefix string, next HandlerFunc) HandlerFunc {
	return func(c *Context) {
		if !strings.HasPrefix(c.state.Remaining(), prefix) {
			c.fox.fallback(c)
			return
		}
		prev := c.state
		c.state.Position += len(prefix)
		next(c)
		c.state = prev
	}
}

// DefaultNotFoundHandler is a simple HandlerFunc that replies to each request
// with a “404 page not found” reply.
func DefaultNotFoundHandler(c *Context) {
	http.Error(c.Writer(), "404 page not found", http.StatusNotFound)
}

func applyMiddleware(mws []MiddlewareFunc, h HandlerFunc) HandlerFunc {
	m := h
	for i := len(mws) - 1; i >= 0; i-- {
		m = mws[i](m)
	}
	return m
}
