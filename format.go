// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"strings"
)

// segment is either a literal run of a format pattern (with %% already unescaped) or a typed directive.
type segment struct {
	literal   string
	kind      Kind
	directive bool
}

// compileFormat splits a format pattern into literal and directive segments. Two directives must always be
// separated by a literal, so that the end of a typed segment can be located at request time.
func compileFormat(format string) ([]segment, error) {
	if format == "" {
		return nil, &FormatError{Format: format, Reason: "empty pattern"}
	}

	segments := make([]segment, 0, 4)
	sb := strings.Builder{}
	flush := func() {
		if sb.Len() > 0 {
			segments = append(segments, segment{literal: sb.String()})
			sb.Reset()
		}
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}

		if i+1 >= len(format) {
			return nil, &FormatError{Format: format, Offset: i, Reason: "missing directive after '%'"}
		}

		i++
		verb := format[i]
		if verb == '%' {
			sb.WriteByte('%')
			continue
		}

		k, ok := kindOf(verb)
		if !ok {
			return nil, &FormatError{Format: format, Offset: i - 1, Reason: "unknown directive '%" + string(verb) + "'"}
		}

		flush()
		if n := len(segments); n > 0 && segments[n-1].directive {
			return nil, &FormatError{Format: format, Offset: i - 1, Reason: "consecutive directives without separator"}
		}
		segments = append(segments, segment{kind: k, directive: true})
	}
	flush()

	return segments, nil
}

// kindsOf returns the kind of each directive segments, in order.
func kindsOf(segments []segment) []Kind {
	var kinds []Kind
	for _, seg := range segments {
		if seg.directive {
			kinds = append(kinds, seg.kind)
		}
	}
	return kinds
}

// insertFormat inserts the compiled segments from n. A directive followed by a literal opens an applyMatch
// closed by the first byte of that literal, a terminal directive becomes an applyMatchAndComplete, and a
// pattern ending with a literal completes with a matchComplete.
func (b *builder) insertFormat(n *node, segments []segment, rte *route) error {
	current := n
	for i, seg := range segments {
		if !seg.directive {
			next, err := b.insert(current, seg.literal)
			if err != nil {
				return err
			}
			current = next
			continue
		}

		if i == len(segments)-1 {
			return b.addApplyMatchAndComplete(current, seg.kind, rte)
		}
		current = b.addApplyMatch(current, seg.kind, segments[i+1].literal[0])
	}

	return b.addEnd(current, matchComplete, rte)
}
