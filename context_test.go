// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	netcontext "context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestContext_Accessors(t *testing.T) {
	r := MustNew(nil, []Endpoint{
		GET(Routef("/user/%s/%i", argsHandler)),
	})

	req := httptest.NewRequest(http.MethodGet, "/user/john/42?q=1", nil)
	req.Header.Set("X-Foo", "bar")
	w := httptest.NewRecorder()
	c := NewTestContextOnly(r, w, req)

	assert.Same(t, req, c.Request())
	assert.Same(t, r, c.Router())
	assert.Equal(t, http.MethodGet, c.Method())
	assert.Equal(t, "/user/john/42", c.Path())
	assert.Equal(t, "/user/%s/%i", c.Pattern())
	assert.Equal(t, "bar", c.Header("X-Foo"))
	require.Equal(t, 2, c.Args().Len())
	assert.Equal(t, "john", c.Args().String(0))
	assert.Equal(t, int32(42), c.Args().Int32(1))
	assert.Equal(t, RouteState{Path: "/user/john/42"}, c.RouteState())

	ctx := netcontext.WithValue(req.Context(), ctxKey{}, "value")
	c.SetRequest(req.WithContext(ctx))
	assert.Equal(t, "value", c.Ctx().Value(ctxKey{}))

	c.SetHeader("X-Bar", "baz")
	assert.Equal(t, "baz", w.Header().Get("X-Bar"))
}

func TestContext_NoRoute(t *testing.T) {
	_, c := NewTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/foo", nil))
	assert.Equal(t, "", c.Pattern())
	assert.Equal(t, 0, c.Args().Len())
}

func TestRouteState(t *testing.T) {
	s := RouteState{Path: "/api/users", Position: 4}
	assert.Equal(t, "/users", s.Remaining())

	s.Position = len(s.Path)
	assert.Equal(t, "", s.Remaining())

	s.Position = len(s.Path) + 1
	assert.Equal(t, "", s.Remaining())
}

func TestContext_SetRouteState(t *testing.T) {
	inner := MustNew(nil, []Endpoint{
		Routef("/%i", argsHandler),
	})
	r := MustNew(nil, []Endpoint{
		Routef1("/teams/%s", func(string) HandlerFunc {
			return func(c *Context) {
				s := c.RouteState()
				s.Position = strings.LastIndexByte(s.Path, '/')
				c.SetRouteState(s)
				inner.Handle(c)
			}
		}),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams/a/7", nil))
	assert.Equal(t, "/%i 7", w.Body.String())
}

func TestContext_String(t *testing.T) {
	w := httptest.NewRecorder()
	_, c := NewTestContext(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, c.String(http.StatusCreated, "hello %s", "world"))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "hello world", w.Body.String())
	assert.Equal(t, MIMETextPlainCharsetUTF8, w.Header().Get(HeaderContentType))
	assert.True(t, c.Writer().Written())
	assert.Equal(t, len("hello world"), c.Writer().Size())
}

func TestContext_StringKeepContentType(t *testing.T) {
	w := httptest.NewRecorder()
	_, c := NewTestContext(w, httptest.NewRequest(http.MethodGet, "/", nil))

	c.SetHeader(HeaderContentType, MIMEApplicationJSON)
	require.NoError(t, c.String(http.StatusOK, "{}"))
	assert.Equal(t, MIMEApplicationJSON, w.Header().Get(HeaderContentType))
}

func TestContext_Blob(t *testing.T) {
	w := httptest.NewRecorder()
	_, c := NewTestContext(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, c.Blob(http.StatusOK, MIMEApplicationJSONCharsetUTF8, []byte(`{"foo":"bar"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"foo":"bar"}`, w.Body.String())
	assert.Equal(t, MIMEApplicationJSONCharsetUTF8, w.Header().Get(HeaderContentType))
}

func TestContext_Stream(t *testing.T) {
	w := httptest.NewRecorder()
	_, c := NewTestContext(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, c.Stream(http.StatusAccepted, MIMETextPlain, strings.NewReader("streamed")))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "streamed", w.Body.String())
	assert.Equal(t, MIMETextPlain, w.Header().Get(HeaderContentType))
}

func TestContext_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	_, c := NewTestContext(w, httptest.NewRequest(http.MethodGet, "/", nil))

	c.NoContent(http.StatusNoContent)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, w.Body.Len())
}

func TestContext_Clone(t *testing.T) {
	r := MustNew(nil, []Endpoint{
		Routef("/%s", argsHandler),
	})
	req := httptest.NewRequest(http.MethodGet, "/foo", nil)
	c := NewTestContextOnly(r, httptest.NewRecorder(), req)

	cc := c.Clone()
	require.NotNil(t, cc.Writer())
	err := cc.String(http.StatusOK, "foo")
	assert.ErrorIs(t, err, ErrDiscardedResponseWriter)
	assert.Equal(t, http.StatusOK, cc.Writer().Status())
	_, err = cc.Writer().Write([]byte("bar"))
	assert.ErrorIs(t, err, ErrDiscardedResponseWriter)
	assert.Same(t, req, cc.Request())
	assert.Equal(t, "/%s", cc.Pattern())
	assert.Equal(t, c.Args(), cc.Args())

	c.args[0] = Value{s: "bar", kind: KindString}
	assert.Equal(t, "foo", cc.Args().String(0))
}

func TestContext_ClonePooled(t *testing.T) {
	var cloned *Context
	r := MustNew(nil, []Endpoint{
		Routef("/%s", func(Args) HandlerFunc {
			return func(c *Context) {
				cloned = c.Clone()
			}
		}),
	})

	for _, path := range []string{"/foo", "/bar"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, path[1:], cloned.Args().String(0))
	}
}

func TestWrapF(t *testing.T) {
	r := MustNew(nil, []Endpoint{
		Route("/foo", WrapF(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(r.URL.Path))
		})),
		Route("/bar", WrapH(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/foo", nil))
	assert.Equal(t, "/foo", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bar", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}
