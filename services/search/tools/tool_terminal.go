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
)

// =============================================================================
// Terminal Tools: answer, abort
// =============================================================================

// answerTool ends a search with a final explanation and the types most
// relevant to it. The orchestrator consumes the parameters directly; Execute
// only echoes the explanation so the tool fits the common interface.
type answerTool struct{}

func (t *answerTool) Name() string {
	return ToolAnswer
}

func (t *answerTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: ToolAnswer,
		Description: "Provide the final answer to the query. Use this only when you " +
			"have enough information to answer fully; do not combine it with other " +
			"tool calls.",
		Parameters: map[string]ParamDef{
			"explanation": {
				Type: ParamTypeString,
				Description: "Comprehensive explanation answering the query, with code " +
					"fragments where they help",
				Required: true,
			},
			"class_names": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Fully qualified names of the types most relevant to the answer",
				Required:    true,
			},
		},
		Category: CategoryTerminal,
	}
}

// Execute echoes the explanation.
func (t *answerTool) Execute(_ context.Context, params map[string]any) (string, error) {
	explanation, err := requireString(params, "explanation")
	if err != nil {
		return "", err
	}
	return explanation, nil
}

// abortTool ends a search that cannot be answered from this codebase.
type abortTool struct{}

func (t *abortTool) Name() string {
	return ToolAbort
}

func (t *abortTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: ToolAbort,
		Description: "Abort the search when the query is not relevant to this codebase " +
			"or cannot be answered from it. Explain why. Do not combine this with " +
			"other tool calls.",
		Parameters: map[string]ParamDef{
			"explanation": {
				Type:        ParamTypeString,
				Description: "Why the search is being aborted",
				Required:    true,
			},
		},
		Category: CategoryTerminal,
	}
}

// Execute echoes the explanation.
func (t *abortTool) Execute(_ context.Context, params map[string]any) (string, error) {
	explanation, err := requireString(params, "explanation")
	if err != nil {
		return "", err
	}
	return explanation, nil
}
