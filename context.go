// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	netcontext "context"
	"fmt"
	"io"
	"net/http"
)

// RouteState tracks how much of the request path has been consumed. Position is the offset in Path where the
// next lookup starts, it is advanced by StripPrefix and honored by a Router mounted with Router.Handle.
type RouteState struct {
	Path     string
	Position int
}

// Remaining returns the part of the path that is not consumed yet.
func (s RouteState) Remaining() string {
	if s.Position >= len(s.Path) {
		return ""
	}
	return s.Path[s.Position:]
}

// Context holds request-related information and allows interaction with the ResponseWriter. Be aware that the
// Context is not thread-safe and its lifetime should be limited to the duration of the HandlerFunc execution, as
// the underlying implementation may be reused a soon as the handler return (see Clone method).
type Context struct {
	w     ResponseWriter
	req   *http.Request
	fox   *Router
	route *route
	state RouteState
	args  Args
	stack []frame

	rec recorder
	h1  h1Writer
	h2  h2Writer
	fw  flushWriter
}

func newContext(fox *Router, argsCap, depth int) *Context {
	c := &Context{
		fox:   fox,
		args:  make(Args, 0, argsCap),
		stack: make([]frame, 0, depth),
	}
	c.h1 = h1Writer{&c.rec}
	c.h2 = h2Writer{&c.rec}
	c.fw = flushWriter{&c.rec}
	return c
}

// reset prepares the Context to serve r. The lookup starts at the beginning of the escaped path.
func (c *Context) reset(w http.ResponseWriter, r *http.Request) {
	c.req = r
	c.route = nil
	c.args = c.args[:0]
	c.state = RouteState{Path: r.URL.EscapedPath()}
	c.resetWriter(w)
}

// resetWriter selects the narrowest ResponseWriter exposing the optional interfaces implemented by w.
func (c *Context) resetWriter(w http.ResponseWriter) {
	c.rec.reset(w)
	switch w.(type) {
	case interface {
		http.Flusher
		http.Hijacker
		io.ReaderFrom
	}:
		c.w = &c.h1
	case interface {
		http.Flusher
		http.Pusher
	}:
		c.w = &c.h2
	case http.Flusher:
		c.w = &c.fw
	default:
		c.w = &c.rec
	}
}

// Request returns the *http.Request.
func (c *Context) Request() *http.Request {
	return c.req
}

// SetRequest sets the *http.Request.
func (c *Context) SetRequest(r *http.Request) {
	c.req = r
}

// Writer returns the ResponseWriter.
func (c *Context) Writer() ResponseWriter {
	return c.w
}

// Ctx returns the context associated with the current request.
func (c *Context) Ctx() netcontext.Context {
	return c.req.Context()
}

// Method returns the request method.
func (c *Context) Method() string {
	return c.req.Method
}

// Path returns the escaped request path used for routing.
func (c *Context) Path() string {
	return c.state.Path
}

// RouteState returns the routing state of the request.
func (c *Context) RouteState() RouteState {
	return c.state
}

// SetRouteState replaces the routing state of the request. It's mostly useful for handlers that dispatch the
// request to a nested Router from a given position.
func (c *Context) SetRouteState(s RouteState) {
	c.state = s
}

// Pattern returns the pattern of the matched route, or an empty string if the request did not match any route.
func (c *Context) Pattern() string {
	if c.route == nil {
		return ""
	}
	return c.route.pattern
}

// Args returns the decoded arguments of the matched route. The returned Args is only valid until the handler
// returns, use Args.Clone to retain it.
func (c *Context) Args() Args {
	return c.args
}

// Router returns the Router in use to serve the request.
func (c *Context) Router() *Router {
	return c.fox
}

// SetHeader sets the response header for the given key to the specified value.
func (c *Context) SetHeader(key, value string) {
	c.w.Header().Set(key, value)
}

// Header retrieves the value of the request header for the given key.
func (c *Context) Header(key string) string {
	return c.req.Header.Get(key)
}

// String sends a formatted string with the specified status code.
func (c *Context) String(code int, format string, values ...any) (err error) {
	if c.w.Header().Get(HeaderContentType) == "" {
		c.w.Header().Set(HeaderContentType, MIMETextPlainCharsetUTF8)
	}
	c.w.WriteHeader(code)
	_, err = fmt.Fprintf(c.w, format, values...)
	return
}

// Blob sends a byte slice with the specified status code and content type.
func (c *Context) Blob(code int, contentType string, buf []byte) (err error) {
	c.w.Header().Set(HeaderContentType, contentType)
	c.w.WriteHeader(code)
	_, err = c.w.Write(buf)
	return
}

// Stream sends data from an io.Reader with the specified status code and content type.
func (c *Context) Stream(code int, contentType string, r io.Reader) (err error) {
	c.w.Header().Set(HeaderContentType, contentType)
	c.w.WriteHeader(code)
	_, err = io.Copy(c.w, r)
	return
}

// NoContent sends a response with no body and the provided status code.
func (c *Context) NoContent(code int) {
	c.w.WriteHeader(code)
}

// Clone returns a copy of the Context that is safe to use after the HandlerFunc returns.
// Writing on a cloned ResponseWriter will return an error ErrDiscardedResponseWriter.
func (c *Context) Clone() *Context {
	cp := &Context{
		req:   c.req,
		fox:   c.fox,
		route: c.route,
		state: c.state,
		args:  c.args.Clone(),
	}
	cp.rec.reset(noopWriter{})
	cp.w = &cp.rec
	return cp
}

// WrapF is an adapter for wrapping http.HandlerFunc and returns a HandlerFunc function.
func WrapF(f http.HandlerFunc) HandlerFunc {
	return func(c *Context) {
		f.ServeHTTP(c.Writer(), c.Request())
	}
}

// WrapH is an adapter for wrapping http.Handler and returns a HandlerFunc function.
func WrapH(h http.Handler) HandlerFunc {
	return func(c *Context) {
		h.ServeHTTP(c.Writer(), c.Request())
	}
}
