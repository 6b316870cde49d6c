// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"net/http"
)

// NewTestContext returns a new Router and its associated Context, designed only for testing purpose. The Context
// is not matched against any route, use NewTestContextOnly with a populated Router to exercise the lookup.
func NewTestContext(w http.ResponseWriter, r *http.Request) (*Router, *Context) {
	fox := MustNew(nil, nil)
	c := NewTestContextOnly(fox, w, r)
	return fox, c
}

// NewTestContextOnly returns a new Context associated with the provided Router, designed only for testing purpose.
// The request path is resolved against the Router so that Pattern and Args reflect the matched route.
func NewTestContextOnly(fox *Router, w http.ResponseWriter, r *http.Request) *Context {
	c := newContext(fox, fox.argsCap, fox.depth)
	c.reset(w, r)
	c.route = lookup(fox.root, r.Method, c.state.Path, 0, c)
	return c
}
