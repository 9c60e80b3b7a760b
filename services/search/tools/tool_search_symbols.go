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
	"strings"

	"github.com/AleutianAI/CodeScout/services/search/analyzer"
)

// =============================================================================
// search_symbols Tool
// =============================================================================

// searchSymbolsTool finds symbol definitions matching regex patterns.
//
// Description:
//
//	The agent's broad-exploration entry point. Returns a raw comma-separated
//	list of fully qualified names so the agent can apply prefix compression
//	when rendering history.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type searchSymbolsTool struct {
	analyzer analyzer.Analyzer
}

func (t *searchSymbolsTool) Name() string {
	return "search_symbols"
}

func (t *searchSymbolsTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "search_symbols",
		Description: "Search for symbol definitions (types, methods, fields) whose fully " +
			"qualified names match the given regular-expression patterns. " +
			"Start broad: multiple loose patterns in one call beat one over-specific pattern. " +
			"Returns a comma-separated list of fully qualified names.",
		Parameters: map[string]ParamDef{
			"patterns": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Regular expressions matched against fully qualified symbol names, e.g. [\".*Retry.*\", \".*Backoff.*\"]",
				Required:    true,
			},
			"reasoning": {
				Type:        ParamTypeString,
				Description: "Brief explanation of what you hope to find",
				Required:    false,
			},
		},
		Category: CategorySearch,
	}
}

// Execute runs the symbol search.
func (t *searchSymbolsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	patterns, err := requireStringList(params, "patterns")
	if err != nil {
		return "", err
	}

	names, err := t.analyzer.SearchSymbols(ctx, patterns)
	if err != nil {
		return "", fmt.Errorf("symbol search: %w", err)
	}
	if len(names) == 0 {
		return "No definitions found for patterns: " + strings.Join(patterns, ", "), nil
	}
	return strings.Join(names, ", "), nil
}
