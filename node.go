// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"sort"
	"strconv"
	"strings"
)

type node struct {
	// key represent a segment of a route which share a common prefix with it parent. The root node and every
	// continuation target (anchor) have an empty key and only branch on the first byte of the remaining path.
	key string

	// First char of each outgoing edges from this node sorted in ascending order.
	childKeys []byte

	// Child nodes representing outgoing edges from this node sorted in ascending order.
	children []*node

	// Continuations probed when no child edge lead to a match. Sorted by precedence.
	mids []midContinuation

	// Continuations fired when the path is fully consumed at this node. Sorted by precedence.
	ends []endContinuation
}

type midKind uint8

const (
	methodGuard midKind = iota
	applyMatch
	applyMatchAndComplete
)

// midContinuation is a continuation attached to a node that is probed when the path is not fully consumed.
//   - methodGuard: crawl next from the same position if the request method is equal to method.
//   - applyMatch: decode the segment up to the first byte in closing as param, then crawl next.
//   - applyMatchAndComplete: decode the rest of the path as param and complete route.
type midContinuation struct {
	next    *node
	route   *route
	method  string
	closing byteSet
	kind    midKind
	param   Kind
}

// precedence returns the ordering key of the continuation. Method guards come first, then typed
// continuations by Kind, and for the same Kind, applyMatch is tried before applyMatchAndComplete.
func (m *midContinuation) precedence() int {
	if m.kind == methodGuard {
		return 0
	}
	p := 1 + int(m.param)*2
	if m.kind == applyMatchAndComplete {
		p++
	}
	return p
}

func (m *midContinuation) less(o *midContinuation) bool {
	pm, po := m.precedence(), o.precedence()
	if pm != po {
		return pm < po
	}
	return m.method < o.method
}

type endKind uint8

const (
	handlerMap endKind = iota
	matchComplete
)

// endContinuation is a continuation fired when the path is fully consumed at its node. A handlerMap is
// the end of a literal route and always takes precedence over a matchComplete.
type endContinuation struct {
	route *route
	kind  endKind
}

func (n *node) getEdge(s byte) *node {
	if len(n.children) <= 4 {
		id := iterativeSearch(n.childKeys, s)
		if id < 0 {
			return nil
		}
		return n.children[id]
	}
	id := binarySearch(n.childKeys, s)
	if id < 0 {
		return nil
	}
	return n.children[id]
}

// addEdge inserts child, keeping edges sorted by their first char. The caller must ensure that no
// other edge start with the same char.
func (n *node) addEdge(child *node) {
	label := child.key[0]
	num := len(n.children)
	idx := sort.Search(num, func(i int) bool {
		return n.childKeys[i] >= label
	})
	n.children = append(n.children, child)
	n.childKeys = append(n.childKeys, label)
	if idx != num {
		copy(n.children[idx+1:], n.children[idx:num])
		copy(n.childKeys[idx+1:], n.childKeys[idx:num])
		n.children[idx] = child
		n.childKeys[idx] = label
	}
}

func (n *node) addMid(m midContinuation) {
	idx := sort.Search(len(n.mids), func(i int) bool {
		return m.less(&n.mids[i])
	})
	n.mids = append(n.mids, midContinuation{})
	copy(n.mids[idx+1:], n.mids[idx:])
	n.mids[idx] = m
}

func (n *node) addEnd(e endContinuation) {
	idx := sort.Search(len(n.ends), func(i int) bool {
		return e.kind < n.ends[i].kind
	})
	n.ends = append(n.ends, endContinuation{})
	copy(n.ends[idx+1:], n.ends[idx:])
	n.ends[idx] = e
}

// iterativeSearch return the index of s in keys or -1, using a simple loop.
// Although binary search is a more efficient search algorithm,
// the small size of the child keys array (<= 4) means that the
// constant factor will dominate (cf Adaptive Radix Tree algorithm).
func iterativeSearch(keys []byte, s byte) int {
	for i := 0; i < len(keys); i++ {
		if keys[i] == s {
			return i
		}
	}
	return -1
}

// binarySearch return the index of s in keys or -1.
func binarySearch(keys []byte, s byte) int {
	low, high := 0, len(keys)-1
	for low <= high {
		mid := int(uint(low+high) >> 1) // avoid overflow
		if keys[mid] < s {
			low = mid + 1
		} else if keys[mid] > s {
			high = mid - 1
		} else {
			return mid
		}
	}
	return -1
}

// height returns the maximum number of frames required to crawl from n to any reachable leaf.
func (n *node) height() int {
	h := 0
	for _, child := range n.children {
		h = max(h, child.height())
	}
	for i := range n.mids {
		if next := n.mids[i].next; next != nil {
			h = max(h, next.height())
		}
	}
	return h + 1
}

// byteSet is a set of bytes used to locate the end of a typed segment.
type byteSet [4]uint64

func (s *byteSet) add(b byte) {
	s[b>>6] |= 1 << (b & 63)
}

func (s *byteSet) has(b byte) bool {
	return s[b>>6]&(1<<(b&63)) != 0
}

// nextEnd returns the smallest index i >= from such that path[i] belongs to the set and is the first occurrence
// of that byte in path[start:], or -1.
func (s *byteSet) nextEnd(path string, start, from int) int {
	for i := from; i < len(path); i++ {
		if s.has(path[i]) && strings.IndexByte(path[start:i], path[i]) < 0 {
			return i
		}
	}
	return -1
}

func (s *byteSet) String() string {
	sb := strings.Builder{}
	sb.WriteByte('[')
	for b := 0; b < 256; b++ {
		if s.has(byte(b)) {
			sb.WriteString(strconv.QuoteRune(rune(b)))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (n *node) String() string {
	return n.string(0)
}

func (n *node) string(space int) string {
	sb := strings.Builder{}
	sb.WriteString(strings.Repeat(" ", space))
	if n.key == "" {
		sb.WriteString("anchor")
	} else {
		sb.WriteString("path: ")
		sb.WriteString(n.key)
	}
	for _, e := range n.ends {
		if e.kind == handlerMap {
			sb.WriteString(" (leaf ")
		} else {
			sb.WriteString(" (complete ")
		}
		sb.WriteString(e.route.pattern)
		sb.WriteByte(')')
	}
	sb.WriteByte('\n')

	for i := range n.mids {
		m := &n.mids[i]
		sb.WriteString(strings.Repeat(" ", space+2))
		switch m.kind {
		case methodGuard:
			sb.WriteString("method: ")
			sb.WriteString(m.method)
			sb.WriteByte('\n')
			sb.WriteString(m.next.string(space + 4))
		case applyMatch:
			sb.WriteString("match: %")
			sb.WriteByte(m.param.Verb())
			sb.WriteString(" until ")
			sb.WriteString(m.closing.String())
			sb.WriteByte('\n')
			sb.WriteString(m.next.string(space + 4))
		case applyMatchAndComplete:
			sb.WriteString("match: %")
			sb.WriteByte(m.param.Verb())
			sb.WriteString(" (complete ")
			sb.WriteString(m.route.pattern)
			sb.WriteString(")\n")
		}
	}

	for _, child := range n.children {
		sb.WriteString(child.string(space + 2))
	}
	return sb.String()
}
