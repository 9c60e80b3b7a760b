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
// get_usages Tool
// =============================================================================

// usagesTool reports every use site of the given symbols.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type usagesTool struct {
	analyzer analyzer.Analyzer
}

func (t *usagesTool) Name() string {
	return "get_usages"
}

func (t *usagesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "get_usages",
		Description: "Find every use site of the given symbols (types, methods, fields). " +
			"Use when asked who calls, reads, or constructs something. " +
			"Each report line names the enclosing type and method of the use site.",
		Parameters: map[string]ParamDef{
			"symbols": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Fully qualified symbols to find usages of, e.g. [\"pkg.Type.method\"]",
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

// Execute runs the usage lookup.
func (t *usagesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	symbols, err := requireStringList(params, "symbols")
	if err != nil {
		return "", err
	}
	report, err := t.analyzer.Usages(ctx, symbols)
	if err != nil {
		return "", fmt.Errorf("usage lookup: %w", err)
	}
	return report, nil
}
