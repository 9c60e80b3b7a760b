// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/AleutianAI/CodeScout/services/search/analyzer"
)

// Registry holds the tool catalog and executes calls against it.
//
// Description:
//
//	Maps tool wire names to Tool implementations. Execute deserializes the
//	LLM's JSON argument payload and dispatches to the named tool; every
//	failure mode (unknown name, malformed payload, tool error) is reported
//	as a Failure outcome so the agent can feed it back to the LLM instead
//	of crashing the run.
//
// Thread Safety: Registry is safe for concurrent use after construction.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Tool
	logger *slog.Logger
}

// NewRegistry creates a Registry pre-populated with the full search tool
// catalog over the given analyzer.
//
// Inputs:
//   - a: The analysis backend. Must not be nil.
//
// Outputs:
//   - *Registry: The populated registry.
func NewRegistry(a analyzer.Analyzer) *Registry {
	r := &Registry{
		byName: make(map[string]Tool),
		logger: slog.Default(),
	}
	for _, t := range []Tool{
		&searchSymbolsTool{analyzer: a},
		&searchSubstringsTool{analyzer: a},
		&searchFilenamesTool{analyzer: a},
		&fileContentsTool{analyzer: a},
		&usagesTool{analyzer: a},
		&relatedClassesTool{analyzer: a},
		&skeletonsTool{analyzer: a},
		&classSourcesTool{analyzer: a},
		&methodSourcesTool{analyzer: a},
		&callGraphTool{analyzer: a, inbound: true},
		&callGraphTool{analyzer: a, inbound: false},
		&answerTool{},
		&abortTool{},
	} {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any previous tool with the same name.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Register(t Tool) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[t.Name()] = t
}

// Get returns the named tool.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Names returns all registered tool names, sorted.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the definitions of the named tools, skipping names
// with no registered tool. Order follows the input.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Definitions(names []string) []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ToolDefinition, 0, len(names))
	for _, name := range names {
		if t, ok := r.byName[name]; ok {
			defs = append(defs, t.Definition())
		}
	}
	return defs
}

// Execute runs the named tool against the given JSON argument payload.
//
// Description:
//
//	Deserializes arguments, dispatches, and wraps the result in an Outcome.
//	Unknown tools and malformed payloads are Failure outcomes; the agent
//	records them in the ledger and lets the LLM correct itself on the next
//	round.
//
// Inputs:
//   - ctx: Context for cancellation.
//   - name: The tool wire name.
//   - arguments: The LLM's JSON argument payload. Empty is treated as {}.
//
// Outputs:
//   - Outcome: Success with the tool's text, or Failure with the cause.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Execute(ctx context.Context, name string, arguments json.RawMessage) Outcome {
	start := time.Now()

	t, ok := r.Get(name)
	if !ok {
		r.logger.Warn("Unknown tool requested", slog.String("tool", name))
		out := Failure("unknown tool: %s", name)
		out.Duration = time.Since(start)
		return out
	}

	params := map[string]any{}
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &params); err != nil {
			r.logger.Warn("Malformed tool arguments",
				slog.String("tool", name),
				slog.String("error", err.Error()),
			)
			out := Failure("malformed arguments for %s: %v", name, err)
			out.Duration = time.Since(start)
			return out
		}
	}

	text, err := t.Execute(ctx, params)
	duration := time.Since(start)
	if err != nil {
		r.logger.Warn("Tool execution failed",
			slog.String("tool", name),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		out := Failure("%v", err)
		out.Duration = duration
		return out
	}

	r.logger.Debug("Tool executed",
		slog.String("tool", name),
		slog.Duration("duration", duration),
		slog.Int("result_len", len(text)),
	)
	out := Success(text)
	out.Duration = duration
	return out
}
