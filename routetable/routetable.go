// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

// Package routetable loads a declarative route table from YAML and turns it into routef endpoints serving
// static responses. It is mostly useful for mocking services and for exercising routing rules without
// writing handlers.
//
// A table looks like:
//
//	routes:
//	  - pattern: /health
//	    body: ok
//	  - method: GET
//	    pattern: /user/%i
//	    body: "user {0}"
//	  - prefix: /api
//	    routes:
//	      - pattern: /item/%s.json
//	        content_type: application/json
//	        body: '{"name": "{0}"}'
//
// Placeholders {0} to {9} in the body are replaced by the decoded typed segments.
package routetable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/tigerwill90/routef"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTable is returned when the route table is malformed.
var ErrInvalidTable = errors.New("invalid route table")

// Table is a declarative list of routes.
type Table struct {
	Routes []Entry `yaml:"routes"`
}

// Entry is either a route (Pattern set) or a group of routes sharing a literal prefix (Prefix set).
type Entry struct {
	// Method restricts the entry, and all nested entries, to a request method.
	Method string `yaml:"method,omitempty"`
	// Pattern is a routef format pattern, or a literal path when Literal is set.
	Pattern string `yaml:"pattern,omitempty"`
	// Literal disables the interpretation of '%' directives in the pattern.
	Literal bool `yaml:"literal,omitempty"`
	// Prefix groups the nested Routes under a literal prefix.
	Prefix string  `yaml:"prefix,omitempty"`
	Routes []Entry `yaml:"routes,omitempty"`
	// Status of the response, 200 by default.
	Status int `yaml:"status,omitempty"`
	// ContentType of the response, text/plain by default.
	ContentType string `yaml:"content_type,omitempty"`
	// Body is the response template.
	Body string `yaml:"body,omitempty"`
}

// Load decodes a Table from r. Unknown fields are rejected.
func Load(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	tbl := new(Table)
	if err := dec.Decode(tbl); err != nil {
		if errors.Is(err, io.EOF) {
			return tbl, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	return tbl, nil
}

// LoadFile decodes a Table from the named file.
func LoadFile(name string) (*Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Parse decodes a Table from an in memory document.
func Parse(doc []byte) (*Table, error) {
	return Load(bytes.NewReader(doc))
}

// Endpoints converts the table into routef endpoints, in declaration order.
func (t *Table) Endpoints() ([]routef.Endpoint, error) {
	return endpoints(t.Routes, "")
}

// Router builds a routef.Router serving the table.
func (t *Table) Router(fallback routef.HandlerFunc, opts ...routef.Option) (*routef.Router, error) {
	eps, err := t.Endpoints()
	if err != nil {
		return nil, err
	}
	return routef.New(fallback, eps, opts...)
}

func endpoints(entries []Entry, path string) ([]routef.Endpoint, error) {
	eps := make([]routef.Endpoint, 0, len(entries))
	for i := range entries {
		ep, err := entries[i].endpoint(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		eps = append(eps, ep)
	}
	return eps, nil
}

func (e *Entry) endpoint(path string) (routef.Endpoint, error) {
	var ep routef.Endpoint
	switch {
	case e.Prefix != "" && e.Pattern != "":
		return ep, fmt.Errorf("%w: routes%s: prefix and pattern are mutually exclusive", ErrInvalidTable, path)
	case e.Prefix != "":
		nested, err := endpoints(e.Routes, path+".routes")
		if err != nil {
			return ep, err
		}
		ep = routef.SubRoute(e.Prefix, nested...)
	case e.Pattern != "":
		if len(e.Routes) > 0 {
			return ep, fmt.Errorf("%w: routes%s: a route cannot have nested routes", ErrInvalidTable, path)
		}
		if e.Status != 0 && (e.Status < 100 || e.Status > 999) {
			return ep, fmt.Errorf("%w: routes%s: invalid status %d", ErrInvalidTable, path, e.Status)
		}
		if e.Literal {
			ep = routef.Route(e.Pattern, e.respond(nil))
		} else {
			ep = routef.Routef(e.Pattern, e.respond)
		}
	default:
		return ep, fmt.Errorf("%w: routes%s: missing pattern or prefix", ErrInvalidTable, path)
	}

	if e.Method != "" {
		ep = routef.Method(strings.ToUpper(e.Method), ep)
	}
	return ep, nil
}

// respond returns the handler writing the entry response for the decoded args.
func (e *Entry) respond(args routef.Args) routef.HandlerFunc {
	status := e.Status
	if status == 0 {
		status = http.StatusOK
	}
	contentType := e.ContentType
	if contentType == "" {
		contentType = routef.MIMETextPlainCharsetUTF8
	}
	body := render(e.Body, args)
	return func(c *routef.Context) {
		_ = c.Blob(status, contentType, body)
	}
}

// render replaces the {N} placeholders of tpl with the matching argument. Placeholders referencing a missing
// argument are kept as is.
func render(tpl string, args routef.Args) []byte {
	buf := make([]byte, 0, len(tpl))
	for i := 0; i < len(tpl); i++ {
		if tpl[i] == '{' && i+2 < len(tpl) && tpl[i+2] == '}' && tpl[i+1] >= '0' && tpl[i+1] <= '9' {
			if idx := int(tpl[i+1] - '0'); idx < len(args) {
				buf = append(buf, args[idx].String()...)
				i += 2
				continue
			}
		}
		buf = append(buf, tpl[i])
	}
	return buf
}
