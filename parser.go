// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"math"
	"unicode/utf8"

	"github.com/tigerwill90/routef/internal/stringutil"
)

// Kind identifies the type of value a format directive decodes. Kinds are declared in precedence order: when
// several typed continuations compete at the same position of a path, the lowest Kind is tried first.
type Kind uint8

const (
	// KindChar is decoded by the %c directive as a single rune.
	KindChar Kind = iota
	// KindBool is decoded by the %b directive. Only "true" and "false" are accepted, ignoring case.
	KindBool
	// KindInt32 is decoded by the %i directive.
	KindInt32
	// KindInt64 is decoded by the %d directive.
	KindInt64
	// KindFloat is decoded by the %f directive as a float64, with at most 9 significant fractional digits.
	KindFloat
	// KindString is decoded by the %s directive and accept any non-empty segment.
	KindString

	kindSentinel
)

// MaxFractionDigits is the number of fractional digits taken into account when decoding a %f segment. Any further
// digit is validated but truncated.
const MaxFractionDigits = 9

var pow10 = [MaxFractionDigits + 1]float64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9}

// maxExactWhole bounds the integer part for which the float parser computes the value with a single rounding.
const maxExactWhole = (1<<53 - 1e9) / 1e9

// kindOf returns the Kind for the given directive verb.
func kindOf(verb byte) (Kind, bool) {
	switch verb {
	case 'c':
		return KindChar, true
	case 'b':
		return KindBool, true
	case 'i':
		return KindInt32, true
	case 'd':
		return KindInt64, true
	case 'f':
		return KindFloat, true
	case 's':
		return KindString, true
	default:
		return 0, false
	}
}

// Verb returns the directive character for k.
func (k Kind) Verb() byte {
	switch k {
	case KindChar:
		return 'c'
	case KindBool:
		return 'b'
	case KindInt32:
		return 'i'
	case KindInt64:
		return 'd'
	case KindFloat:
		return 'f'
	case KindString:
		return 's'
	default:
		return '?'
	}
}

func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// parse decodes s according to k. It never allocates and an empty segment never match.
func parse(k Kind, s string) (Value, bool) {
	if len(s) == 0 {
		return Value{}, false
	}

	switch k {
	case KindChar:
		r, ok := parseChar(s)
		return Value{i: int64(r), kind: KindChar}, ok
	case KindBool:
		b, ok := parseBool(s)
		var i int64
		if b {
			i = 1
		}
		return Value{i: i, kind: KindBool}, ok
	case KindInt32:
		n, ok := parseInt32(s)
		return Value{i: int64(n), kind: KindInt32}, ok
	case KindInt64:
		n, ok := parseInt64(s)
		return Value{i: n, kind: KindInt64}, ok
	case KindFloat:
		f, ok := parseFloat(s)
		return Value{f: f, kind: KindFloat}, ok
	case KindString:
		return Value{s: s, kind: KindString}, true
	default:
		return Value{}, false
	}
}

func parseChar(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || (r == utf8.RuneError && size <= 1) {
		return 0, false
	}
	return r, true
}

func parseBool(s string) (bool, bool) {
	switch len(s) {
	case 4:
		if stringutil.EqualStringsASCIIIgnoreCase(s, "true") {
			return true, true
		}
	case 5:
		if stringutil.EqualStringsASCIIIgnoreCase(s, "false") {
			return false, true
		}
	}
	return false, false
}

func parseInt32(s string) (int32, bool) {
	n, ok := parseSigned(s, math.MaxInt32)
	return int32(n), ok
}

func parseInt64(s string) (int64, bool) {
	return parseSigned(s, math.MaxInt64)
}

// parseSigned accumulates digits one by one, failing on the first non digit or as soon as the value would
// not fit in [-max-1, max].
func parseSigned(s string, max uint64) (int64, bool) {
	i := 0
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i++
		if len(s) == 1 {
			return 0, false
		}
	}

	limit := max
	if neg {
		limit++
	}

	var n uint64
	for ; i < len(s); i++ {
		d := uint64(s[i] - '0')
		if d > 9 {
			return 0, false
		}
		if n > (limit-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}

	if neg {
		return -int64(n), true
	}
	return int64(n), true
}

// parseFloat accumulates the integer part and up to MaxFractionDigits fractional digits. Fractional digits past
// the cap must still be digits but do not contribute to the value.
func parseFloat(s string) (float64, bool) {
	i := 0
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i++
	}

	var (
		whole      float64
		frac       uint64
		fracDigits int
		digits     int
		dot        bool
	)

	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.':
			if dot {
				return 0, false
			}
			dot = true
		case c >= '0' && c <= '9':
			digits++
			if !dot {
				whole = whole*10 + float64(c-'0')
				continue
			}
			if fracDigits < MaxFractionDigits {
				frac = frac*10 + uint64(c-'0')
				fracDigits++
			}
		default:
			return 0, false
		}
	}

	if digits == 0 {
		return 0, false
	}

	var f float64
	if whole < maxExactWhole {
		// whole*10^n + frac is an exact integer below 2^53, the division is then rounded once.
		f = (whole*pow10[fracDigits] + float64(frac)) / pow10[fracDigits]
	} else {
		f = whole + float64(frac)/pow10[fracDigits]
	}
	if neg {
		f = -f
	}
	return f, true
}
