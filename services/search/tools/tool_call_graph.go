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
	"fmt"

	"github.com/AleutianAI/CodeScout/services/search/analyzer"
)

// =============================================================================
// Call Graph Tools: get_call_graph_to, get_call_graph_from
// =============================================================================

// callGraphTool reports the call graph around a single method. The inbound
// flag selects callers-of (true) versus callees-of (false).
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type callGraphTool struct {
	analyzer analyzer.Analyzer
	inbound  bool
}

func (t *callGraphTool) Name() string {
	if t.inbound {
		return "get_call_graph_to"
	}
	return "get_call_graph_from"
}

func (t *callGraphTool) Definition() ToolDefinition {
	name := t.Name()
	desc := "Get the transitive callers of the given method, as a call graph rooted " +
		"at it. Use a fully qualified method name (pkg.Type.method)."
	if !t.inbound {
		desc = "Get the methods transitively called by the given method, as a call " +
			"graph rooted at it. Use a fully qualified method name (pkg.Type.method)."
	}
	return ToolDefinition{
		Name:        name,
		Description: desc,
		Parameters: map[string]ParamDef{
			"method_name": {
				Type:        ParamTypeString,
				Description: "Fully qualified method name to root the graph at",
				Required:    true,
			},
			"reasoning": {
				Type:        ParamTypeString,
				Description: "Brief explanation of what you hope to find",
				Required:    false,
			},
		},
		Category: CategoryInspect,
	}
}

// Execute retrieves the call graph text.
func (t *callGraphTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	methodName, err := requireString(params, "method_name")
	if err != nil {
		return "", err
	}
	var text string
	if t.inbound {
		text, err = t.analyzer.CallGraphTo(ctx, methodName)
	} else {
		text, err = t.analyzer.CallGraphFrom(ctx, methodName)
	}
	if err != nil {
		return "", fmt.Errorf("call graph for %q: %w", methodName, err)
	}
	return text, nil
}
