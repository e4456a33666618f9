// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the gateway.
//
// Metrics are exposed via the /metrics endpoint. All metric operations
// are thread-safe via Prometheus's internal locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "zen"
const gatewaySubsystem = "gateway"

// GatewayMetrics holds all Prometheus metrics for the gateway service.
// Initialize once at startup via InitMetrics().
type GatewayMetrics struct {
	// RequestsTotal counts API requests.
	// Labels: endpoint (chat, sessions, agents, admin, ws), status (2xx..5xx class)
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures handler latency.
	// Labels: endpoint
	RequestDurationSeconds *prometheus.HistogramVec

	// ActiveWebsockets tracks currently connected WebSocket clients.
	ActiveWebsockets prometheus.Gauge

	// AgentInvocationsTotal counts agent executions.
	// Labels: agent, status (success, error, timeout)
	AgentInvocationsTotal *prometheus.CounterVec

	// AgentDurationSeconds measures agent execution time.
	// Labels: agent
	AgentDurationSeconds *prometheus.HistogramVec

	// RateLimitedTotal counts requests rejected by the tenant limiter.
	// Labels: tenant
	RateLimitedTotal *prometheus.CounterVec

	// AuditEventsTotal counts recorded audit events.
	// Labels: event_type
	AuditEventsTotal *prometheus.CounterVec

	// SessionsSweptTotal counts sessions removed by the TTL sweeper.
	SessionsSweptTotal prometheus.Counter
}

// DefaultMetrics is the singleton instance, set by InitMetrics().
var DefaultMetrics *GatewayMetrics

var initOnce sync.Once

// InitMetrics creates and registers all gateway metrics with the default
// registry. Registration happens once; later calls return the singleton.
func InitMetrics() *GatewayMetrics {
	initOnce.Do(registerMetrics)
	return DefaultMetrics
}

func registerMetrics() {
	m := &GatewayMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "requests_total",
			Help:      "API requests by endpoint and status class.",
		}, []string{"endpoint", "status"}),

		RequestDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "request_duration_seconds",
			Help:      "Handler latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		ActiveWebsockets: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "active_websockets",
			Help:      "Currently connected WebSocket clients.",
		}),

		AgentInvocationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "agent_invocations_total",
			Help:      "Agent executions by agent and outcome.",
		}, []string{"agent", "status"}),

		AgentDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "agent_duration_seconds",
			Help:      "Agent execution time by agent.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"agent"}),

		RateLimitedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the tenant rate limiter.",
		}, []string{"tenant"}),

		AuditEventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "audit_events_total",
			Help:      "Recorded audit events by type.",
		}, []string{"event_type"}),

		SessionsSweptTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "sessions_swept_total",
			Help:      "Sessions removed by the TTL sweeper.",
		}),
	}
	DefaultMetrics = m
}
