// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package routef

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrRouteExist    = errors.New("route already registered")
	ErrInvalidRoute  = errors.New("invalid route")
	ErrInvalidConfig = errors.New("invalid config")
	ErrTypeMismatch  = errors.New("handler type mismatch")
	ErrTooManyArgs   = errors.New("too many typed segments")
	ErrInternal      = errors.New("internal error")

	ErrDiscardedResponseWriter = errors.New("discarded response writer")
)

// RouteConflictError represents a conflict that occurred during route registration.
// It contains the route being registered, and the existing route that caused the conflict.
type RouteConflictError struct {
	// New is the route that was being registered when the conflict was detected.
	New string
	// Conflict is the previously registered route that conflict with New.
	Conflict string
}

func (e *RouteConflictError) Error() string {
	var sb strings.Builder
	sb.WriteString("route already registered: new route ")
	sb.WriteString(e.New)
	sb.WriteString(" conflicts with ")
	sb.WriteString(e.Conflict)
	return sb.String()
}

// Unwrap returns the sentinel value [ErrRouteExist].
func (e *RouteConflictError) Unwrap() error {
	return ErrRouteExist
}

// FormatError reports a malformed format pattern.
type FormatError struct {
	// Format is the offending pattern.
	Format string
	// Reason describes what is wrong.
	Reason string
	// Offset is the byte offset of the error in Format.
	Offset int
}

func (e *FormatError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid route: ")
	sb.WriteString(e.Reason)
	sb.WriteString(" at offset ")
	sb.WriteString(strconv.Itoa(e.Offset))
	sb.WriteString(" in ")
	sb.WriteString(strconv.Quote(e.Format))
	return sb.String()
}

// Unwrap returns the sentinel value [ErrInvalidRoute].
func (e *FormatError) Unwrap() error {
	return ErrInvalidRoute
}
