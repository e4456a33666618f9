// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Taxonomy Tests
// =============================================================================

func TestKind_CodesAndStatuses(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantCode   string
		wantStatus int
	}{
		{KindInternal, "internal_error", http.StatusInternalServerError},
		{KindValidation, "validation_error", http.StatusBadRequest},
		{KindUnauthorized, "unauthorized", http.StatusUnauthorized},
		{KindForbidden, "forbidden", http.StatusForbidden},
		{KindNotFound, "not_found", http.StatusNotFound},
		{KindConflict, "conflict", http.StatusConflict},
		{KindRateLimited, "rate_limited", http.StatusTooManyRequests},
		{KindUpstream, "upstream_error", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.kind.Code())
			assert.Equal(t, tt.wantStatus, tt.kind.HTTPStatus())
		})
	}
}

// =============================================================================
// Construction and Wrapping Tests
// =============================================================================

func TestE_WrapsCause(t *testing.T) {
	cause := errors.New("badger: key not found")
	e := E(KindNotFound, "session not found", cause)

	assert.Equal(t, "not_found: session not found: badger: key not found", e.Error())
	assert.ErrorIs(t, e, cause)
}

func TestErrorf_NoCause(t *testing.T) {
	e := Errorf(KindValidation, "field %q too long", "query")
	assert.Equal(t, `validation_error: field "query" too long`, e.Error())
	assert.Nil(t, e.Unwrap())
}

func TestFrom_PassesThroughClassified(t *testing.T) {
	orig := E(KindForbidden, "admin role required", nil)
	assert.Same(t, orig, From(orig))

	// Classified errors survive fmt.Errorf wrapping.
	wrapped := fmt.Errorf("handler: %w", orig)
	assert.Equal(t, KindForbidden, From(wrapped).Kind)
}

func TestFrom_UnclassifiedBecomesGenericInternal(t *testing.T) {
	cause := errors.New("connection refused to 10.0.3.7:5432")
	e := From(cause)

	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, "internal error", e.Message, "client message must not carry internals")
	assert.ErrorIs(t, e, cause)
}

func TestIsKind(t *testing.T) {
	e := E(KindRateLimited, "slow down", nil)
	assert.True(t, IsKind(e, KindRateLimited))
	assert.True(t, IsKind(fmt.Errorf("mw: %w", e), KindRateLimited))
	assert.False(t, IsKind(e, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindInternal))
}

// =============================================================================
// Envelope Tests
// =============================================================================

func TestToEnvelope_OmitsCause(t *testing.T) {
	e := E(KindUpstream, "model backend unavailable", errors.New("secret detail"))
	data, err := json.Marshal(e.ToEnvelope())
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"error":{"code":"upstream_error","message":"model backend unavailable"}}`,
		string(data))
	assert.NotContains(t, string(data), "secret detail")
}
