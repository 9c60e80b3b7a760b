// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// agentTracerName is the OTel tracer name for the orchestrator.
const agentTracerName = "codescout.agent"

// Package-level Prometheus metrics for search runs.
// Auto-registered via promauto so no explicit registry wiring is needed.
var (
	// searchRunsTotal counts completed search runs.
	//
	// Labels:
	//   - outcome: "answer", "abort", "budget", "no_action", "error"
	searchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "agent",
			Name:      "runs_total",
			Help:      "Total number of completed search runs by outcome.",
		},
		[]string{"outcome"},
	)

	// searchRunDuration measures end-to-end search run duration.
	searchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "codescout",
			Subsystem: "agent",
			Name:      "run_duration_seconds",
			Help:      "End-to-end duration of search runs in seconds.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// searchRoundsTotal counts orchestration rounds across all runs.
	searchRoundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "agent",
			Name:      "rounds_total",
			Help:      "Total number of orchestration rounds.",
		},
	)

	// toolExecutionsTotal counts executed tool calls.
	//
	// Labels:
	//   - tool: the tool wire name
	//   - status: "success" or "failure"
	toolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "agent",
			Name:      "tool_executions_total",
			Help:      "Total tool executions by tool and status.",
		},
		[]string{"tool", "status"},
	)

	// duplicateCallsTotal counts duplicate-call detections.
	//
	// Labels:
	//   - action: "rewritten" (forged a related-classes probe) or
	//     "exhausted" (the probe was itself a duplicate)
	duplicateCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "agent",
			Name:      "duplicate_calls_total",
			Help:      "Total duplicate tool calls detected, by handling action.",
		},
		[]string{"action"},
	)

	// summariesTotal counts summarization resolutions by source.
	//
	// Labels:
	//   - source: "llm", "cache", "fallback"
	summariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "agent",
			Name:      "summaries_total",
			Help:      "Total result summarizations by source.",
		},
		[]string{"source"},
	)

	// beastLatchesTotal counts beast-mode latches by trigger.
	//
	// Labels:
	//   - trigger: "duplicate_exhaustion" or "budget_pressure"
	beastLatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codescout",
			Subsystem: "agent",
			Name:      "beast_latches_total",
			Help:      "Total beast-mode latches by trigger.",
		},
		[]string{"trigger"},
	)
)
