// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"fmt"
	"log/slog"
)

// builder accumulates routes while the endpoints are folded over the root node. It is not safe for concurrent
// use and is discarded once the router is built.
type builder struct {
	logger  *slog.Logger
	routes  []*route
	maxArgs int
	argsCap int
}

// insert walks the tree from start and returns the node where path ends, relative to the end of the start key.
// It splits or extends existing nodes when required.
func (b *builder) insert(start *node, path string) (*node, error) {
	result := search(start, path)
	switch result.classify() {
	case exactMatch:
		// e.g. matched exactly "te" node when inserting "te" key.
		// te
		// ├── st
		// └── am
		return result.matched, nil
	case keyEndMidEdge:
		// e.g. matched until "s" for "st" node when inserting "tes" key.
		// te
		// ├── st
		// └── am
		//
		// After patching
		// te
		// ├── am
		// └── s
		//     └── t
		// The "s" node keeps its identity so the parent edge is unchanged, "t" inherits
		// every continuation and children.
		split(result.matched, result.charsMatchedInNodeFound)
		return result.matched, nil
	case incompleteMatchToEndOfEdge:
		// e.g. matched until "st" for "st" node but still have remaining char (ify) when inserting "testify" key.
		// te
		// ├── st
		// └── am
		//
		// After patching
		// te
		// ├── am
		// └── st
		//     └── ify
		child := &node{key: path[result.charsMatched:]}
		result.matched.addEdge(child)
		return child, nil
	case incompleteMatchToMiddleOfEdge:
		// e.g. matched until "s" for "st" node but still have remaining char ("s") which does not match anything
		// when inserting "tess" key.
		// te
		// ├── st
		// └── am
		//
		// After patching
		// te
		// ├── am
		// └── s
		//     ├── s
		//     └── t
		split(result.matched, result.charsMatchedInNodeFound)
		child := &node{key: path[result.charsMatched:]}
		result.matched.addEdge(child)
		return child, nil
	default:
		return nil, fmt.Errorf("%w: path %q has no common entry point with %q", ErrInternal, path, result.matched.key)
	}
}

// split cuts n.key at the given offset. The suffix becomes the only child of n and inherit all its
// continuations and edges.
func split(n *node, at int) {
	suffix := &node{
		key:       n.key[at:],
		childKeys: n.childKeys,
		children:  n.children,
		mids:      n.mids,
		ends:      n.ends,
	}
	n.key = n.key[:at]
	n.children = []*node{suffix}
	n.childKeys = []byte{suffix.key[0]}
	n.mids = nil
	n.ends = nil
}

// addEnd attaches a terminal continuation to n.
func (b *builder) addEnd(n *node, kind endKind, rte *route) error {
	for _, e := range n.ends {
		if e.kind == kind {
			return &RouteConflictError{New: rte.String(), Conflict: e.route.String()}
		}
	}
	n.addEnd(endContinuation{route: rte, kind: kind})
	return nil
}

// addApplyMatch returns the continuation node for a typed segment of kind k ending at the closing byte. An
// existing continuation of the same kind is reused and its closing set extended.
func (b *builder) addApplyMatch(n *node, k Kind, closing byte) *node {
	for i := range n.mids {
		m := &n.mids[i]
		if m.kind == applyMatch && m.param == k {
			m.closing.add(closing)
			return m.next
		}
	}
	m := midContinuation{
		next:  new(node),
		kind:  applyMatch,
		param: k,
	}
	m.closing.add(closing)
	n.addMid(m)
	return m.next
}

// addApplyMatchAndComplete attaches a terminal typed continuation of kind k to n.
func (b *builder) addApplyMatchAndComplete(n *node, k Kind, rte *route) error {
	for i := range n.mids {
		m := &n.mids[i]
		if m.kind == applyMatchAndComplete && m.param == k {
			return &RouteConflictError{New: rte.String(), Conflict: m.route.String()}
		}
	}
	n.addMid(midContinuation{
		route: rte,
		kind:  applyMatchAndComplete,
		param: k,
	})
	return nil
}

// addMethodGuard returns the anchor reached from n when the request method is equal to method.
func (b *builder) addMethodGuard(n *node, method string) *node {
	for i := range n.mids {
		m := &n.mids[i]
		if m.kind == methodGuard && m.method == method {
			return m.next
		}
	}
	m := midContinuation{
		next:   new(node),
		method: method,
		kind:   methodGuard,
	}
	n.addMid(m)
	return m.next
}

// register records a new route and enforce the configured limits.
func (b *builder) register(rte *route) error {
	if b.maxArgs > 0 && len(rte.kinds) > b.maxArgs {
		return fmt.Errorf("%w: %s: %d typed segments, max is %d", ErrTooManyArgs, rte, len(rte.kinds), b.maxArgs)
	}
	b.argsCap = max(b.argsCap, len(rte.kinds))
	b.routes = append(b.routes, rte)
	if b.logger != nil {
		b.logger.Debug("route registered", slog.String("method", rte.method), slog.String("pattern", rte.pattern), slog.Int("args", len(rte.kinds)))
	}
	return nil
}

type resultType int

const (
	exactMatch resultType = iota
	incompleteMatchToEndOfEdge
	incompleteMatchToMiddleOfEdge
	keyEndMidEdge
	noCommonPrefix
)

type searchResult struct {
	start                   *node
	matched                 *node
	path                    string
	charsMatched            int
	charsMatchedInNodeFound int
}

// search follows the edges from start as far as path allows.
func search(start *node, path string) searchResult {
	current := start

	var (
		charsMatched            int
		charsMatchedInNodeFound int
	)

STOP:
	for charsMatched < len(path) {
		next := current.getEdge(path[charsMatched])
		if next == nil {
			break STOP
		}

		current = next
		charsMatchedInNodeFound = 0
		for i := 0; charsMatched < len(path); i++ {
			if i >= len(current.key) {
				break
			}

			if current.key[i] != path[charsMatched] {
				break STOP
			}

			charsMatched++
			charsMatchedInNodeFound++
		}
	}

	return searchResult{
		start:                   start,
		matched:                 current,
		path:                    path,
		charsMatched:            charsMatched,
		charsMatchedInNodeFound: charsMatchedInNodeFound,
	}
}

func (r searchResult) classify() resultType {
	// The start node is always fully matched, the path is relative to the end of its key.
	atEndOfNode := r.matched == r.start || r.charsMatchedInNodeFound == len(r.matched.key)
	if r.charsMatched == len(r.path) {
		if atEndOfNode {
			return exactMatch
		}
		return keyEndMidEdge
	}
	if atEndOfNode {
		return incompleteMatchToEndOfEdge
	}
	if r.charsMatchedInNodeFound > 0 {
		return incompleteMatchToMiddleOfEdge
	}
	return noCommonPrefix
}
