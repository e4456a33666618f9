// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/services/gateway/config"
	"github.com/netra-systems/zen/services/gateway/observability"
	"golang.org/x/time/rate"
)

// TenantLimiter applies per-tenant token buckets. Limits come from the
// Config and are re-checked when a tenant's configured rate changes, so
// hot-reloaded overrides take effect without a restart.
//
// Safe for concurrent use.
type TenantLimiter struct {
	cfg *config.Config

	mu       sync.Mutex
	limiters map[string]*tenantBucket
}

type tenantBucket struct {
	limiter *rate.Limiter
	limits  config.TenantLimits
}

// NewTenantLimiter creates a limiter backed by the config's limits.
func NewTenantLimiter(cfg *config.Config) *TenantLimiter {
	return &TenantLimiter{cfg: cfg, limiters: make(map[string]*tenantBucket)}
}

func (tl *TenantLimiter) bucketFor(tenant string) *rate.Limiter {
	want := tl.cfg.LimitsFor(tenant)
	tl.mu.Lock()
	defer tl.mu.Unlock()
	b, ok := tl.limiters[tenant]
	if !ok || b.limits != want {
		b = &tenantBucket{
			limiter: rate.NewLimiter(rate.Limit(want.RatePerSecond), want.Burst),
			limits:  want,
		}
		tl.limiters[tenant] = b
	}
	return b.limiter
}

// Middleware rejects requests over the tenant's rate with 429. Must run
// after AuthMiddleware so the tenant is known.
func (tl *TenantLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := GetAuthInfo(c)
		if info == nil {
			// Auth middleware rejects unauthenticated requests before us;
			// an absent identity here means a miswired route. Fail closed.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "unauthorized"},
			})
			return
		}
		if !tl.bucketFor(info.TenantID).Allow() {
			if m := observability.DefaultMetrics; m != nil {
				m.RateLimitedTotal.WithLabelValues(info.TenantID).Inc()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"code": "rate_limited", "message": "tenant rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}
