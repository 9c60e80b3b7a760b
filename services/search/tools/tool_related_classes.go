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
// get_related_classes Tool
// =============================================================================

// relatedClassesTool expands a set of seed types to their structural
// neighborhood.
//
// Description:
//
//	Backed by the analyzer's pagerank-style expansion. This is also the tool
//	the agent forges when it detects a duplicate call, seeded with everything
//	tracked so far, so the result format mirrors search_symbols (raw
//	comma-separated names suitable for prefix compression).
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type relatedClassesTool struct {
	analyzer analyzer.Analyzer
}

func (t *relatedClassesTool) Name() string {
	return "get_related_classes"
}

func (t *relatedClassesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "get_related_classes",
		Description: "Find types structurally related to the given seed types " +
			"(callers, callees, subtypes, field types), most relevant first. " +
			"Good for widening a search that has found a foothold. " +
			"Returns a comma-separated list of fully qualified names.",
		Parameters: map[string]ParamDef{
			"class_names": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Fully qualified seed type names",
				Required:    true,
			},
			"reasoning": {
				Type:        ParamTypeString,
				Description: "Brief explanation of what you hope to find",
				Required:    false,
			},
		},
		Category: CategoryPagerank,
	}
}

// Execute runs the related-class expansion.
func (t *relatedClassesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	classNames, err := requireStringList(params, "class_names")
	if err != nil {
		return "", err
	}
	related, err := t.analyzer.RelatedClasses(ctx, classNames)
	if err != nil {
		return "", fmt.Errorf("related classes: %w", err)
	}
	if len(related) == 0 {
		return "No related classes found for: " + strings.Join(classNames, ", "), nil
	}
	return strings.Join(related, ", "), nil
}
