// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// gatewayTracerName is the shared OTel tracer name for all gateway clients.
const gatewayTracerName = "codescout.gateway"

// Package-level Prometheus metrics for gateway operations.
// Auto-registered via promauto so no explicit registry wiring is needed.
var (
	// gatewayCallDuration measures the duration of provider calls.
	//
	// Labels:
	//   - provider: "anthropic", "ollama"
	//   - status: "success" or "error"
	gatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codescout",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Duration of LLM provider calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "status"},
	)

	// gatewayCallsTotal counts provider calls.
	//
	// Labels:
	//   - provider: "anthropic", "ollama"
	//   - status: "success" or "error"
	gatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of LLM provider calls.",
		},
		[]string{"provider", "status"},
	)

	// gatewayTokensTotal counts tokens consumed by provider calls.
	//
	// Labels:
	//   - provider: "anthropic", "ollama"
	//   - direction: "input" or "output"
	gatewayTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "gateway",
			Name:      "tokens_total",
			Help:      "Total tokens consumed by LLM provider calls.",
		},
		[]string{"provider", "direction"},
	)

	// gatewayErrorsTotal counts provider errors by type.
	//
	// Labels:
	//   - provider: "anthropic", "ollama"
	//   - error_type: "timeout", "auth", "rate_limit", "server", "empty_response", "unknown"
	gatewayErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "gateway",
			Name:      "errors_total",
			Help:      "Total LLM provider errors by type.",
		},
		[]string{"provider", "error_type"},
	)

	// gatewayActiveRequests tracks in-flight provider requests.
	//
	// Labels:
	//   - provider: "anthropic", "ollama"
	gatewayActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "codescout",
			Subsystem: "gateway",
			Name:      "active_requests",
			Help:      "Number of currently active LLM provider requests.",
		},
		[]string{"provider"},
	)
)

// classifyError maps an error to a label-safe error type string.
//
// Description:
//
//	Inspects the error message to categorize it into one of the predefined
//	error types used as Prometheus label values. This avoids high-cardinality
//	labels from raw error messages.
//
// Inputs:
//
//	err - The error to classify. May be nil.
//
// Outputs:
//
//	string - One of: "timeout", "auth", "rate_limit", "server",
//	         "empty_response", "unknown". Returns empty string for nil error.
//
// Thread Safety: Safe for concurrent use.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	if _, ok := err.(*EmptyResponseError); ok {
		return "empty_response"
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "context canceled") ||
		strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "status 401") ||
		strings.Contains(msg, "status 403") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "api key"):
		return "auth"
	case strings.Contains(msg, "status 429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return "rate_limit"
	case strings.Contains(msg, "status 500") ||
		strings.Contains(msg, "status 502") ||
		strings.Contains(msg, "status 503") ||
		strings.Contains(msg, "server error") ||
		strings.Contains(msg, "internal error"):
		return "server"
	default:
		return "unknown"
	}
}

// recordCallMetrics records Prometheus metrics for a completed provider call.
//
// Description:
//
//	One-shot metric recording for both success and error paths. Records
//	duration, call count, token counts (on success), and error type (on
//	failure).
//
// Thread Safety: Safe for concurrent use.
func recordCallMetrics(provider string, duration time.Duration, usage Usage, err error) {
	status := "success"
	if err != nil {
		status = "error"
		gatewayErrorsTotal.WithLabelValues(provider, classifyError(err)).Inc()
	}

	gatewayCallDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
	gatewayCallsTotal.WithLabelValues(provider, status).Inc()

	if err == nil {
		gatewayTokensTotal.WithLabelValues(provider, "input").Add(float64(usage.InputTokens))
		gatewayTokensTotal.WithLabelValues(provider, "output").Add(float64(usage.OutputTokens))
	}
}

// incActiveRequests increments the active requests gauge for a provider.
func incActiveRequests(provider string) {
	gatewayActiveRequests.WithLabelValues(provider).Inc()
}

// decActiveRequests decrements the active requests gauge for a provider.
func decActiveRequests(provider string) {
	gatewayActiveRequests.WithLabelValues(provider).Dec()
}
