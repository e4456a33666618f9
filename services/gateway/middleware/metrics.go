// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/services/gateway/observability"
)

// Metrics records request count and latency for an endpoint group.
// No-op when metrics are not initialized (unit tests).
func Metrics(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m := observability.DefaultMetrics
		if m == nil {
			return
		}
		status := fmt.Sprintf("%dxx", c.Writer.Status()/100)
		m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
		m.RequestDurationSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
