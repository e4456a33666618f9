// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/services/gateway/apierr"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// ErrorHandler Tests
// =============================================================================

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_ClassifiedError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/missing", func(c *gin.Context) {
		c.Error(apierr.E(apierr.KindNotFound, "session not found", nil))
	})

	w := doRequest(router, "GET", "/missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t,
		`{"error":{"code":"not_found","message":"session not found"}}`,
		w.Body.String())
}

func TestErrorHandler_UnclassifiedErrorIsGeneric500(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("badger: disk corrupt at offset 42"))
	})

	w := doRequest(router, "GET", "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
	// Internals must never leak to clients.
	assert.NotContains(t, w.Body.String(), "badger")
}

func TestErrorHandler_PanicRecovery(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/panic", func(c *gin.Context) {
		panic("nil map write")
	})

	w := doRequest(router, "GET", "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
	assert.NotContains(t, w.Body.String(), "nil map write")
}

func TestErrorHandler_WrittenResponseUntouched(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/partial", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		c.Error(errors.New("late failure after commit"))
	})

	w := doRequest(router, "GET", "/partial")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "queued")
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := doRequest(router, "GET", "/ok")

	assert.Equal(t, http.StatusOK, w.Code)
}
