// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package apierr defines the error taxonomy for the gateway API.
//
// Every error that crosses the handler boundary is classified into one of
// a fixed set of kinds, each with a stable machine-readable code and an
// HTTP status. Handlers attach an *apierr.Error to the gin context and the
// errors middleware renders the canonical JSON envelope:
//
//	{"error": {"code": "not_found", "message": "session not found"}}
//
// Internal causes are kept on the Error for logging but are never
// serialized to clients.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the gateway taxonomy.
type Kind int

const (
	// KindInternal is the fallback for unclassified failures.
	KindInternal Kind = iota

	// KindValidation covers malformed or semantically invalid input.
	KindValidation

	// KindUnauthorized covers missing or invalid credentials.
	KindUnauthorized

	// KindForbidden covers valid credentials lacking permission.
	KindForbidden

	// KindNotFound covers missing resources, including resources that
	// exist in another tenant (indistinguishable from absent).
	KindNotFound

	// KindConflict covers state conflicts such as duplicate registration.
	KindConflict

	// KindRateLimited covers tenant quota exhaustion.
	KindRateLimited

	// KindUpstream covers failures of backing services (LLM backends,
	// storage) that are not the caller's fault.
	KindUpstream
)

// Code returns the stable machine-readable code for the kind.
// These values are part of the public API contract; do not rename.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus returns the HTTP status the kind maps to.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified API error. Message is safe to show to clients;
// cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// E builds a classified error. cause may be nil.
//
//	return apierr.E(apierr.KindNotFound, "session not found", err)
func E(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Errorf builds a classified error with a formatted client-safe message
// and no cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface. The cause is included so logs
// carry the full chain; clients only ever see Message via the envelope.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// From classifies an arbitrary error. If err is already an *Error it is
// returned as-is; otherwise it is wrapped as KindInternal with a generic
// client message so internals never leak.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// IsKind reports whether err (or anything it wraps) is an *Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// Envelope is the wire format for error responses.
type Envelope struct {
	Error Body `json:"error"`
}

// Body carries the client-visible fields of an error.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToEnvelope renders the client-safe JSON body for the error.
func (e *Error) ToEnvelope() Envelope {
	return Envelope{Error: Body{Code: e.Kind.Code(), Message: e.Message}}
}
