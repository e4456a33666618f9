// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/services/gateway/apierr"
)

// ErrorHandler converts handler errors and panics into the canonical
// error envelope.
//
// Handlers signal failures by attaching errors to the context:
//
//	c.Error(apierr.E(apierr.KindNotFound, "session not found", err))
//	return
//
// After the chain runs, the last attached error is classified via
// apierr.From and rendered. Unclassified errors and panics become 500s
// with a generic message; the underlying cause is logged server-side
// only, so internals never reach clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("handler panic",
					"path", c.FullPath(), "method", c.Request.Method, "panic", r)
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError,
						apierr.Errorf(apierr.KindInternal, "internal error").ToEnvelope())
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ae := apierr.From(err)
		if ae.Kind == apierr.KindInternal || ae.Kind == apierr.KindUpstream {
			slog.Error("request failed",
				"path", c.FullPath(), "method", c.Request.Method,
				"kind", ae.Kind.Code(), "error", err)
		} else {
			slog.Debug("request rejected",
				"path", c.FullPath(), "kind", ae.Kind.Code())
		}
		c.JSON(ae.Kind.HTTPStatus(), ae.ToEnvelope())
	}
}
