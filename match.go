// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import "strings"

type stage uint8

const (
	// stageEnter matches the node key against the path.
	stageEnter stage = iota
	// stageEdge crawls the child edge for the next byte.
	stageEdge
	// stageEnd probes the end continuations, the path being fully consumed.
	stageEnd
	// stageProbe probes the mid continuations in precedence order.
	stageProbe
)

// frame is a node being visited by the matcher. argc records the number of decoded arguments when the
// frame was pushed, so that every candidate starts from the same state. scan is the offset from pos where
// the search for the next segment end of the current applyMatch resumes.
type frame struct {
	n     *node
	pos   int
	argc  int
	next  int
	scan  int
	stage stage
}

// lookup returns the route matching path[pos:] for method, or nil. Decoded arguments are recorded into
// c.args. Backtracking is driven by an explicit frame stack: a frame is popped once all its candidates
// (child edge first, then continuations) are exhausted, and its parent resumes with the next candidate.
func lookup(root *node, method, path string, pos int, c *Context) *route {
	stack := c.stack[:0]
	args := c.args[:0]

	if pos > len(path) {
		c.stack, c.args = stack, args
		return nil
	}

	stack = append(stack, frame{n: root, pos: pos})
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		switch f.stage {
		case stageEnter:
			if !strings.HasPrefix(path[f.pos:], f.n.key) {
				stack = stack[:len(stack)-1]
				continue
			}
			f.pos += len(f.n.key)
			if f.pos == len(path) {
				f.stage = stageEnd
			} else {
				f.stage = stageEdge
			}
		case stageEdge:
			f.stage = stageProbe
			if child := f.n.getEdge(path[f.pos]); child != nil {
				stack = append(stack, frame{n: child, pos: f.pos, argc: f.argc})
			}
		case stageEnd:
			f.stage = stageProbe
			args = args[:f.argc]
			for _, e := range f.n.ends {
				if len(e.route.kinds) == len(args) {
					c.stack, c.args = stack, args
					return e.route
				}
			}
		case stageProbe:
			if f.next >= len(f.n.mids) {
				stack = stack[:len(stack)-1]
				continue
			}
			m := &f.n.mids[f.next]
			args = args[:f.argc]
			if m.kind != applyMatch {
				f.next++
			}

			switch m.kind {
			case methodGuard:
				if m.method == method {
					stack = append(stack, frame{n: m.next, pos: f.pos, argc: f.argc})
				}
			case applyMatch:
				// A coalesced continuation may close on several bytes. Each of them ends the segment at its
				// first occurrence, and every such end is a candidate, nearest first.
				end := m.closing.nextEnd(path, f.pos, f.pos+f.scan)
				if end < 0 {
					f.next++
					f.scan = 0
					continue
				}
				f.scan = end - f.pos + 1
				v, ok := parse(m.param, path[f.pos:end])
				if !ok {
					continue
				}
				args = append(args, v)
				stack = append(stack, frame{n: m.next, pos: end, argc: len(args)})
			case applyMatchAndComplete:
				if len(m.route.kinds) != len(args)+1 {
					continue
				}
				v, ok := parse(m.param, path[f.pos:])
				if !ok {
					continue
				}
				args = append(args, v)
				c.stack, c.args = stack, args
				return m.route
			}
		}
	}

	c.stack, c.args = stack, args[:0]
	return nil
}
