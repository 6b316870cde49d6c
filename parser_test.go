// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"math"
	"strconv"
	"testing"
	"unicode/utf8"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	cases := []struct {
		in     string
		want   bool
		wantOk bool
	}{
		{in: "true", want: true, wantOk: true},
		{in: "TRUE", want: true, wantOk: true},
		{in: "tRuE", want: true, wantOk: true},
		{in: "false", want: false, wantOk: true},
		{in: "False", want: false, wantOk: true},
		{in: "t", wantOk: false},
		{in: "1", wantOk: false},
		{in: "yes", wantOk: false},
		{in: "truee", wantOk: false},
		{in: "fals", wantOk: false},
		{in: "", wantOk: false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, ok := parse(KindBool, tc.in)
			require.Equal(t, tc.wantOk, ok)
			if ok {
				assert.Equal(t, KindBool, v.Kind())
				assert.Equal(t, tc.want, Args{v}.Bool(0))
			}
		})
	}
}

func TestParseChar(t *testing.T) {
	cases := []struct {
		in     string
		want   rune
		wantOk bool
	}{
		{in: "a", want: 'a', wantOk: true},
		{in: "é", want: 'é', wantOk: true},
		{in: "世", want: '世', wantOk: true},
		{in: "%", want: '%', wantOk: true},
		{in: "ab", wantOk: false},
		{in: "é!", wantOk: false},
		{in: "\xff", wantOk: false},
		{in: "", wantOk: false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, ok := parse(KindChar, tc.in)
			require.Equal(t, tc.wantOk, ok)
			if ok {
				assert.Equal(t, tc.want, Args{v}.Char(0))
				assert.Equal(t, tc.in, v.String())
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		kind   Kind
		want   int64
		wantOk bool
	}{
		{name: "int32 zero", in: "0", kind: KindInt32, want: 0, wantOk: true},
		{name: "int32 positive", in: "42", kind: KindInt32, want: 42, wantOk: true},
		{name: "int32 explicit sign", in: "+42", kind: KindInt32, want: 42, wantOk: true},
		{name: "int32 negative", in: "-42", kind: KindInt32, want: -42, wantOk: true},
		{name: "int32 leading zeros", in: "007", kind: KindInt32, want: 7, wantOk: true},
		{name: "int32 max", in: "2147483647", kind: KindInt32, want: math.MaxInt32, wantOk: true},
		{name: "int32 min", in: "-2147483648", kind: KindInt32, want: math.MinInt32, wantOk: true},
		{name: "int32 overflow", in: "2147483648", kind: KindInt32, wantOk: false},
		{name: "int32 underflow", in: "-2147483649", kind: KindInt32, wantOk: false},
		{name: "int64 max", in: "9223372036854775807", kind: KindInt64, want: math.MaxInt64, wantOk: true},
		{name: "int64 min", in: "-9223372036854775808", kind: KindInt64, want: math.MinInt64, wantOk: true},
		{name: "int64 overflow", in: "9223372036854775808", kind: KindInt64, wantOk: false},
		{name: "int64 large overflow", in: "99999999999999999999999", kind: KindInt64, wantOk: false},
		{name: "sign only", in: "-", kind: KindInt64, wantOk: false},
		{name: "double sign", in: "--1", kind: KindInt64, wantOk: false},
		{name: "trailing garbage", in: "12a", kind: KindInt32, wantOk: false},
		{name: "float", in: "1.5", kind: KindInt32, wantOk: false},
		{name: "space", in: " 1", kind: KindInt32, wantOk: false},
		{name: "empty", in: "", kind: KindInt64, wantOk: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := parse(tc.kind, tc.in)
			require.Equal(t, tc.wantOk, ok)
			if ok {
				assert.Equal(t, tc.kind, v.Kind())
				assert.Equal(t, tc.want, Args{v}.Int64(0))
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	// want is the decimal the segment decodes to, truncated to MaxFractionDigits.
	cases := []struct {
		name   string
		in     string
		want   string
		wantOk bool
	}{
		{name: "integer", in: "3", want: "3", wantOk: true},
		{name: "decimal", in: "3.25", want: "3.25", wantOk: true},
		{name: "negative", in: "-0.5", want: "-0.5", wantOk: true},
		{name: "explicit sign", in: "+1.5", want: "1.5", wantOk: true},
		{name: "leading dot", in: ".5", want: "0.5", wantOk: true},
		{name: "trailing dot", in: "7.", want: "7", wantOk: true},
		{name: "nine fractional digits", in: "0.123456789", want: "0.123456789", wantOk: true},
		{name: "single rounding", in: "6380.540216633", want: "6380.540216633", wantOk: true},
		{name: "negative single rounding", in: "-6380.540216633", want: "-6380.540216633", wantOk: true},
		{name: "truncated fractional digits", in: "0.1234567899999", want: "0.123456789", wantOk: true},
		{name: "large integer part", in: "123456789012.5", want: "123456789012.5", wantOk: true},
		{name: "two dots", in: "1.2.3", wantOk: false},
		{name: "dot only", in: ".", wantOk: false},
		{name: "sign only", in: "-", wantOk: false},
		{name: "exponent", in: "1e3", wantOk: false},
		{name: "invalid truncated digit", in: "0.1234567890x", wantOk: false},
		{name: "empty", in: "", wantOk: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := parse(KindFloat, tc.in)
			require.Equal(t, tc.wantOk, ok)
			if ok {
				want, err := strconv.ParseFloat(tc.want, 64)
				require.NoError(t, err)
				assert.Equal(t, want, Args{v}.Float(0))
			}
		})
	}
}

func TestParseString(t *testing.T) {
	v, ok := parse(KindString, "foo%20bar")
	require.True(t, ok)
	assert.Equal(t, "foo%20bar", Args{v}.String(0))

	_, ok = parse(KindString, "")
	assert.False(t, ok)

	_, ok = parse(kindSentinel, "foo")
	assert.False(t, ok)
}

func TestKindVerb(t *testing.T) {
	for k := KindChar; k < kindSentinel; k++ {
		got, ok := kindOf(k.Verb())
		require.True(t, ok)
		assert.Equal(t, k, got)
		assert.NotEqual(t, "unknown", k.String())
	}
	_, ok := kindOf('x')
	assert.False(t, ok)
	assert.Equal(t, byte('?'), kindSentinel.Verb())
}

func TestParseRoundTrip(t *testing.T) {
	f := fuzz.New().NilChance(0)

	for i := 0; i < 1000; i++ {
		var (
			i32 int32
			i64 int64
			b   bool
			r   rune
			fl  float64
		)
		f.Fuzz(&i32)
		f.Fuzz(&i64)
		f.Fuzz(&b)
		f.Fuzz(&r)
		f.Fuzz(&fl)

		v, ok := parse(KindInt32, strconv.FormatInt(int64(i32), 10))
		require.True(t, ok)
		assert.Equal(t, i32, Args{v}.Int32(0))

		v, ok = parse(KindInt64, strconv.FormatInt(i64, 10))
		require.True(t, ok)
		assert.Equal(t, i64, Args{v}.Int64(0))

		v, ok = parse(KindBool, strconv.FormatBool(b))
		require.True(t, ok)
		assert.Equal(t, b, Args{v}.Bool(0))

		if utf8.ValidRune(r) {
			v, ok = parse(KindChar, string(r))
			require.True(t, ok)
			assert.Equal(t, r, Args{v}.Char(0))
		}

		fl = math.Mod(fl, 1e6)
		if math.IsNaN(fl) || math.IsInf(fl, 0) {
			continue
		}
		str := strconv.FormatFloat(fl, 'f', MaxFractionDigits, 64)
		want, err := strconv.ParseFloat(str, 64)
		require.NoError(t, err)
		v, ok = parse(KindFloat, str)
		require.True(t, ok)
		assert.Equalf(t, want, Args{v}.Float(0), "%s", str)
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"", "0", "-1", "true", "1.5", "é", "9223372036854775808"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		for k := KindChar; k < kindSentinel; k++ {
			v, ok := parse(k, s)
			if !ok {
				continue
			}
			assert.Equal(t, k, v.Kind())
			assert.NotEmpty(t, s)
		}
	})
}
