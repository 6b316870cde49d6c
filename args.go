// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"fmt"
	"strconv"
)

// Value is a decoded path segment. The Kind determines which accessor returns a meaningful result.
type Value struct {
	s    string
	i    int64
	f    float64
	kind Kind
}

// Kind returns the kind of the decoded segment.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the textual representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindChar:
		return string(rune(v.i))
	case KindBool:
		return strconv.FormatBool(v.i != 0)
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.s
	}
}

// Args holds the values decoded from the typed segments of a request path, in pattern order. Args are only
// valid until the HandlerFunc returns, use Clone if they need to be retained.
type Args []Value

// Len returns the number of decoded values.
func (a Args) Len() int {
	return len(a)
}

// Kind returns the kind of the value at index i, or false if i is out of range.
func (a Args) Kind(i int) (Kind, bool) {
	if i < 0 || i >= len(a) {
		return 0, false
	}
	return a[i].kind, true
}

// Bool returns the %b value at index i, or false.
func (a Args) Bool(i int) bool {
	if a.is(i, KindBool) {
		return a[i].i != 0
	}
	return false
}

// Char returns the %c value at index i, or 0.
func (a Args) Char(i int) rune {
	if a.is(i, KindChar) {
		return rune(a[i].i)
	}
	return 0
}

// String returns the %s value at index i, or an empty string.
func (a Args) String(i int) string {
	if a.is(i, KindString) {
		return a[i].s
	}
	return ""
}

// Int32 returns the %i value at index i, or 0.
func (a Args) Int32(i int) int32 {
	if a.is(i, KindInt32) {
		return int32(a[i].i)
	}
	return 0
}

// Int64 returns the %d value at index i, or 0. A %i value is widened.
func (a Args) Int64(i int) int64 {
	if a.is(i, KindInt64) || a.is(i, KindInt32) {
		return a[i].i
	}
	return 0
}

// Float returns the %f value at index i, or 0.
func (a Args) Float(i int) float64 {
	if a.is(i, KindFloat) {
		return a[i].f
	}
	return 0
}

// Clone make a copy of Args.
func (a Args) Clone() Args {
	cloned := make(Args, len(a))
	copy(cloned, a)
	return cloned
}

func (a Args) is(i int, k Kind) bool {
	return i >= 0 && i < len(a) && a[i].kind == k
}

// Param is the set of Go types a typed segment can be decoded to with Routef1, Routef2 and Routef3. A %c
// directive is decoded to a rune (int32).
type Param interface {
	bool | int32 | int64 | float64 | string
}

// resultBuilder turns the decoded arguments of a request into the handler to invoke. It is composed once, when
// the route is registered, for the arity of its pattern.
type resultBuilder func(args Args) HandlerFunc

func accepts[T Param](k Kind) bool {
	var zero T
	switch any(zero).(type) {
	case bool:
		return k == KindBool
	case int32:
		return k == KindInt32 || k == KindChar
	case int64:
		return k == KindInt64
	case float64:
		return k == KindFloat
	case string:
		return k == KindString
	default:
		return false
	}
}

func argAs[T Param](v Value) T {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = v.i != 0
	case *int32:
		*p = int32(v.i)
	case *int64:
		*p = v.i
	case *float64:
		*p = v.f
	case *string:
		*p = v.s
	}
	return out
}

func checkArg[T Param](kinds []Kind, i int) error {
	if !accepts[T](kinds[i]) {
		var zero T
		return fmt.Errorf("%w: argument %d is %%%c (%s) but the handler expects %T", ErrTypeMismatch, i, kinds[i].Verb(), kinds[i], zero)
	}
	return nil
}
