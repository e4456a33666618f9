// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the gateway's HTTP and WebSocket handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/services/gateway/health"
)

// HealthCheck is the liveness probe: the process is up and serving.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz is the readiness probe. Critical aggregate health returns 503
// so load balancers drain the instance; degraded still serves.
func Readyz(monitor *health.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := monitor.Snapshot()
		code := http.StatusOK
		if snap.Status == health.StatusCritical {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": snap.Status.String()})
	}
}
