// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"bytes"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tigerwill90/routef/internal/slogpretty"
)

func TestAbortHandler(t *testing.T) {
	m := Recovery(func(c *Context, err any) {
		c.Writer().WriteHeader(http.StatusInternalServerError)
		_, _ = c.Writer().Write([]byte(err.(error).Error()))
	})

	f := MustNew(nil, []Endpoint{
		Routef1("/%s", func(string) HandlerFunc {
			return func(c *Context) {
				func() { panic(http.ErrAbortHandler) }()
				_ = c.String(200, "foo")
			}
		}),
	}, WithMiddleware(m))

	req := httptest.NewRequest(http.MethodPost, "/foo", nil)
	w := httptest.NewRecorder()

	defer func() {
		val := recover()
		require.NotNil(t, val)
		err := val.(error)
		require.NotNil(t, err)
		assert.ErrorIs(t, err, http.ErrAbortHandler)
	}()
	f.ServeHTTP(w, req)
}

func TestRecoveryMiddleware(t *testing.T) {
	woBuf := bytes.NewBuffer(nil)
	weBuf := bytes.NewBuffer(nil)

	m := Recovery(RecoveryWithHandler(&slogpretty.Handler{
		We:  weBuf,
		Wo:  woBuf,
		Lvl: slog.LevelDebug,
	}))

	const errMsg = "unexpected error"
	f := MustNew(nil, []Endpoint{
		POST(Routef1("/item/%i", func(int32) HandlerFunc {
			return func(c *Context) {
				func() { panic(errMsg) }()
				_ = c.String(200, "foo")
			}
		})),
	}, WithMiddleware(m))

	req := httptest.NewRequest(http.MethodPost, "/item/1", nil)
	w := httptest.NewRecorder()
	f.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError)+"\n", w.Body.String())
	assert.Equal(t, 0, woBuf.Len())
	assert.Contains(t, weBuf.String(), errMsg)
	assert.Contains(t, weBuf.String(), "pattern=")
	assert.Contains(t, weBuf.String(), "/item/")
}

func TestRecoveryMiddlewareAlreadyWritten(t *testing.T) {
	m := Recovery(RecoveryWithHandler(slog.DiscardHandler))

	f := MustNew(nil, []Endpoint{
		Route("/", func(c *Context) {
			_ = c.String(http.StatusAccepted, "partial")
			panic("boom")
		}),
	}, WithMiddleware(m))

	w := httptest.NewRecorder()
	f.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestRecoveryMiddlewareFallback(t *testing.T) {
	woBuf := bytes.NewBuffer(nil)
	weBuf := bytes.NewBuffer(nil)

	m := Recovery(RecoveryWithHandler(&slogpretty.Handler{
		We:  weBuf,
		Wo:  woBuf,
		Lvl: slog.LevelDebug,
	}))

	const errMsg = "unexpected error"
	f := MustNew(func(c *Context) {
		panic(errMsg)
	}, nil, WithMiddleware(m))

	req := httptest.NewRequest(http.MethodPost, "/foo", nil)
	w := httptest.NewRecorder()
	f.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, woBuf.Len())
	assert.NotEqual(t, 0, weBuf.Len())
}

func TestRecoveryMiddlewareWithBrokenPipe(t *testing.T) {
	woBuf := bytes.NewBuffer(nil)
	weBuf := bytes.NewBuffer(nil)

	expectMsgs := map[syscall.Errno]string{
		syscall.EPIPE:      "broken pipe",
		syscall.ECONNRESET: "connection reset by peer",
	}

	for errno, expectMsg := range expectMsgs {
		t.Run(expectMsg, func(t *testing.T) {
			f := MustNew(nil, []Endpoint{
				Route("/foo", func(c *Context) {
					e := &net.OpError{Err: &os.SyscallError{Err: errno}}
					panic(e)
				}),
			}, WithMiddleware(Recovery(RecoveryWithHandler(&slogpretty.Handler{
				We:  weBuf,
				Wo:  woBuf,
				Lvl: slog.LevelDebug,
			}))))

			req := httptest.NewRequest(http.MethodGet, "/foo", nil)
			w := httptest.NewRecorder()
			f.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 0, woBuf.Len())
			assert.NotEqual(t, 0, weBuf.Len())
			woBuf.Reset()
			weBuf.Reset()
		})
	}
}

func BenchmarkRecoveryMiddleware(b *testing.B) {
	f := MustNew(nil, []Endpoint{
		Routef3("/%s/%s/%s", func(string, string, string) HandlerFunc {
			return func(c *Context) {
				panic("yolo")
			}
		}),
	}, WithMiddleware(Recovery(RecoveryWithHandler(slog.DiscardHandler))))

	req := httptest.NewRequest(http.MethodGet, "/foo/bar/baz", nil)
	w := new(mockResponseWriter)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		f.ServeHTTP(w, req)
	}
}
