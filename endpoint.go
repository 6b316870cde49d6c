// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"fmt"
	"net/http"
	"strings"
)

// route is a registered route. It is immutable once the router is built.
type route struct {
	handler HandlerFunc
	build   resultBuilder
	pattern string
	method  string
	kinds   []Kind
}

func (r *route) String() string {
	if r.method == "" {
		return r.pattern
	}
	return r.method + " " + r.pattern
}

// handle calls the route handler with the provided Context. Typed routes build their handler from the
// decoded arguments first.
func (r *route) handle(c *Context) {
	if r.handler != nil {
		r.handler(c)
		return
	}
	h := r.build(c.args)
	if h == nil {
		c.fox.fallback(c)
		return
	}
	h(c)
}

// scope is inherited by the endpoints nested in a SubRoute or Method.
type scope struct {
	prefix string
	method string
}

// Endpoint is a route registration. Endpoints are folded over the routing tree by New, in order.
type Endpoint struct {
	apply func(b *builder, n *node, s scope) error
}

// Route registers a handler for the exact literal path. The path is not interpreted in any way, '%' has no
// special meaning.
func Route(path string, handler HandlerFunc) Endpoint {
	return Endpoint{apply: func(b *builder, n *node, s scope) error {
		if handler == nil {
			return fmt.Errorf("%w: nil handler for %s", ErrInvalidRoute, s.prefix+path)
		}
		rte := &route{
			handler: handler,
			pattern: s.prefix + path,
			method:  s.method,
		}
		target, err := b.insert(n, path)
		if err != nil {
			return err
		}
		if err = b.addEnd(target, handlerMap, rte); err != nil {
			return err
		}
		return b.register(rte)
	}}
}

// Routef registers a typed route. The format accepts the following directives:
//
//	%b  bool (true or false, case-insensitive)
//	%c  char (a single rune)
//	%s  string
//	%i  int32
//	%d  int64
//	%f  float64 (up to 9 fractional digits are significant)
//	%%  a literal '%'
//
// Two directives must be separated by at least one literal char, the first char following a directive
// ends the typed segment. For each matching request, fn is called with the decoded arguments and the
// returned handler is invoked. See also Routef1, Routef2 and Routef3 for a type-safe alternative.
func Routef(format string, fn func(args Args) HandlerFunc) Endpoint {
	return typedEndpoint(format, -1, nil, fn)
}

// Routef1 is like Routef for pattern with exactly one directive, decoded to A.
func Routef1[A Param](format string, fn func(a A) HandlerFunc) Endpoint {
	if fn == nil {
		return typedEndpoint(format, 1, nil, nil)
	}
	return typedEndpoint(format, 1,
		func(kinds []Kind) error {
			return checkArg[A](kinds, 0)
		},
		func(args Args) HandlerFunc {
			return fn(argAs[A](args[0]))
		},
	)
}

// Routef2 is like Routef for pattern with exactly two directives, decoded to A and B.
func Routef2[A, B Param](format string, fn func(a A, b B) HandlerFunc) Endpoint {
	if fn == nil {
		return typedEndpoint(format, 2, nil, nil)
	}
	return typedEndpoint(format, 2,
		func(kinds []Kind) error {
			if err := checkArg[A](kinds, 0); err != nil {
				return err
			}
			return checkArg[B](kinds, 1)
		},
		func(args Args) HandlerFunc {
			return fn(argAs[A](args[0]), argAs[B](args[1]))
		},
	)
}

// Routef3 is like Routef for pattern with exactly three directives, decoded to A, B and C.
func Routef3[A, B, C Param](format string, fn func(a A, b B, c C) HandlerFunc) Endpoint {
	if fn == nil {
		return typedEndpoint(format, 3, nil, nil)
	}
	return typedEndpoint(format, 3,
		func(kinds []Kind) error {
			if err := checkArg[A](kinds, 0); err != nil {
				return err
			}
			if err := checkArg[B](kinds, 1); err != nil {
				return err
			}
			return checkArg[C](kinds, 2)
		},
		func(args Args) HandlerFunc {
			return fn(argAs[A](args[0]), argAs[B](args[1]), argAs[C](args[2]))
		},
	)
}

func typedEndpoint(format string, arity int, check func(kinds []Kind) error, build resultBuilder) Endpoint {
	return Endpoint{apply: func(b *builder, n *node, s scope) error {
		if build == nil {
			return fmt.Errorf("%w: nil handler factory for %s", ErrInvalidRoute, s.prefix+format)
		}
		segments, err := compileFormat(format)
		if err != nil {
			return err
		}
		kinds := kindsOf(segments)
		if arity >= 0 && len(kinds) != arity {
			return fmt.Errorf("%w: %s has %d directives, expected %d", ErrTypeMismatch, s.prefix+format, len(kinds), arity)
		}
		if check != nil {
			if err = check(kinds); err != nil {
				return fmt.Errorf("%s: %w", s.prefix+format, err)
			}
		}

		rte := &route{
			build:   build,
			pattern: s.prefix + format,
			method:  s.method,
			kinds:   kinds,
		}
		if err = b.insertFormat(n, segments, rte); err != nil {
			return err
		}
		return b.register(rte)
	}}
}

// SubRoute groups endpoints under a literal prefix. The nested endpoints patterns are relative to the prefix.
func SubRoute(prefix string, endpoints ...Endpoint) Endpoint {
	return Endpoint{apply: func(b *builder, n *node, s scope) error {
		target, err := b.insert(n, prefix)
		if err != nil {
			return err
		}
		return applyAll(b, target, scope{prefix: s.prefix + prefix, method: s.method}, endpoints)
	}}
}

// Method restricts the nested endpoints to requests with the given method. Endpoints registered without
// method still match any method. At a given node, literal edges are crawled first, then method guards are
// probed before typed segments.
func Method(method string, endpoints ...Endpoint) Endpoint {
	return Endpoint{apply: func(b *builder, n *node, s scope) error {
		if !validMethod(method) {
			return fmt.Errorf("%w: invalid method %q", ErrInvalidRoute, method)
		}
		if s.method != "" && s.method != method {
			return fmt.Errorf("%w: method %s nested in method %s can never match", ErrInvalidRoute, method, s.method)
		}
		anchor := b.addMethodGuard(n, method)
		return applyAll(b, anchor, scope{prefix: s.prefix, method: method}, endpoints)
	}}
}

// GET is a shortcut for Method(http.MethodGet, endpoints...).
func GET(endpoints ...Endpoint) Endpoint {
	return Method(http.MethodGet, endpoints...)
}

// POST is a shortcut for Method(http.MethodPost, endpoints...).
func POST(endpoints ...Endpoint) Endpoint {
	return Method(http.MethodPost, endpoints...)
}

// PUT is a shortcut for Method(http.MethodPut, endpoints...).
func PUT(endpoints ...Endpoint) Endpoint {
	return Method(http.MethodPut, endpoints...)
}

// PATCH is a shortcut for Method(http.MethodPatch, endpoints...).
func PATCH(endpoints ...Endpoint) Endpoint {
	return Method(http.MethodPatch, endpoints...)
}

// DELETE is a shortcut for Method(http.MethodDelete, endpoints...).
func DELETE(endpoints ...Endpoint) Endpoint {
	return Method(http.MethodDelete, endpoints...)
}

func applyAll(b *builder, n *node, s scope, endpoints []Endpoint) error {
	for _, ep := range endpoints {
		if ep.apply == nil {
			return fmt.Errorf("%w: uninitialized endpoint under %q", ErrInvalidRoute, s.prefix)
		}
		if err := ep.apply(b, n, s); err != nil {
			return err
		}
	}
	return nil
}

// validMethod reports whether method is a valid HTTP token.
func validMethod(method string) bool {
	if method == "" {
		return false
	}
	return strings.IndexFunc(method, func(r rune) bool {
		return r <= ' ' || r >= 0x7f || strings.ContainsRune("()<>@,;:\\\"/[]?={}", r)
	}) < 0
}
