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
// Inspection Tools: get_class_skeletons, get_class_sources, get_method_sources
// =============================================================================

// skeletonsTool returns declaration-level outlines of types.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type skeletonsTool struct {
	analyzer analyzer.Analyzer
}

func (t *skeletonsTool) Name() string {
	return "get_class_skeletons"
}

func (t *skeletonsTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "get_class_skeletons",
		Description: "Get declaration-level outlines of the given types: signatures and " +
			"fields without method bodies. Much cheaper than full sources; prefer this " +
			"for orientation before requesting get_class_sources.",
		Parameters: map[string]ParamDef{
			"class_names": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Fully qualified type names",
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

// Execute retrieves the skeletons.
func (t *skeletonsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	classNames, err := requireStringList(params, "class_names")
	if err != nil {
		return "", err
	}
	text, err := t.analyzer.Skeletons(ctx, classNames)
	if err != nil {
		return "", fmt.Errorf("skeletons: %w", err)
	}
	return text, nil
}

// classSourcesTool returns the full source of types.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type classSourcesTool struct {
	analyzer analyzer.Analyzer
}

func (t *classSourcesTool) Name() string {
	return "get_class_sources"
}

func (t *classSourcesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "get_class_sources",
		Description: "Get the complete source of the given types. Expensive; use once " +
			"skeletons or usages have confirmed the type is relevant.",
		Parameters: map[string]ParamDef{
			"class_names": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Fully qualified type names",
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

// Execute retrieves the sources.
func (t *classSourcesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	classNames, err := requireStringList(params, "class_names")
	if err != nil {
		return "", err
	}
	text, err := t.analyzer.ClassSources(ctx, classNames)
	if err != nil {
		return "", fmt.Errorf("class sources: %w", err)
	}
	return text, nil
}

// methodSourcesTool returns the full source of individual methods.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type methodSourcesTool struct {
	analyzer analyzer.Analyzer
}

func (t *methodSourcesTool) Name() string {
	return "get_method_sources"
}

func (t *methodSourcesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "get_method_sources",
		Description: "Get the source of individual methods without the rest of their " +
			"type. Use fully qualified names (pkg.Type.method).",
		Parameters: map[string]ParamDef{
			"method_names": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Fully qualified method names",
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

// Execute retrieves the method sources.
func (t *methodSourcesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	methodNames, err := requireStringList(params, "method_names")
	if err != nil {
		return "", err
	}
	text, err := t.analyzer.MethodSources(ctx, methodNames)
	if err != nil {
		return "", fmt.Errorf("method sources: %w", err)
	}
	return text, nil
}
