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
// Text-Oriented Tools: search_substrings, search_filenames, get_file_contents
// =============================================================================
//
// These tools work without structural analysis and are the only catalog
// entries available against an empty analyzer.

// searchSubstringsTool finds files whose contents contain given patterns.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type searchSubstringsTool struct {
	analyzer analyzer.Analyzer
}

func (t *searchSubstringsTool) Name() string {
	return "search_substrings"
}

func (t *searchSubstringsTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "search_substrings",
		Description: "Search file contents for literal substrings. Useful for string " +
			"constants, log messages, and identifiers the symbol index does not cover. " +
			"Returns the list of matching file paths.",
		Parameters: map[string]ParamDef{
			"patterns": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Literal substrings to look for in file contents",
				Required:    true,
			},
			"reasoning": {
				Type:        ParamTypeString,
				Description: "Brief explanation of what you hope to find",
				Required:    false,
			},
		},
		Category: CategoryText,
	}
}

// Execute runs the substring search.
func (t *searchSubstringsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	patterns, err := requireStringList(params, "patterns")
	if err != nil {
		return "", err
	}
	paths, err := t.analyzer.SearchSubstrings(ctx, patterns)
	if err != nil {
		return "", fmt.Errorf("substring search: %w", err)
	}
	if len(paths) == 0 {
		return "No files found containing: " + strings.Join(patterns, ", "), nil
	}
	return strings.Join(paths, "\n"), nil
}

// searchFilenamesTool finds files whose names match given patterns.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type searchFilenamesTool struct {
	analyzer analyzer.Analyzer
}

func (t *searchFilenamesTool) Name() string {
	return "search_filenames"
}

func (t *searchFilenamesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "search_filenames",
		Description: "Search for files whose paths match the given regular-expression " +
			"patterns. Returns the list of matching file paths.",
		Parameters: map[string]ParamDef{
			"patterns": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Regular expressions matched against file paths",
				Required:    true,
			},
			"reasoning": {
				Type:        ParamTypeString,
				Description: "Brief explanation of what you hope to find",
				Required:    false,
			},
		},
		Category: CategoryText,
	}
}

// Execute runs the filename search.
func (t *searchFilenamesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	patterns, err := requireStringList(params, "patterns")
	if err != nil {
		return "", err
	}
	paths, err := t.analyzer.SearchFilenames(ctx, patterns)
	if err != nil {
		return "", fmt.Errorf("filename search: %w", err)
	}
	if len(paths) == 0 {
		return "No filenames found matching: " + strings.Join(patterns, ", "), nil
	}
	return strings.Join(paths, "\n"), nil
}

// fileContentsTool retrieves full file contents.
//
// Thread Safety: Safe for concurrent use; all operations are read-only.
type fileContentsTool struct {
	analyzer analyzer.Analyzer
}

func (t *fileContentsTool) Name() string {
	return "get_file_contents"
}

func (t *fileContentsTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: "get_file_contents",
		Description: "Retrieve the full contents of the given files. Use after a search " +
			"has identified which files matter; retrieving many large files wastes budget.",
		Parameters: map[string]ParamDef{
			"filenames": {
				Type:        ParamTypeArray,
				Items:       ParamTypeString,
				Description: "Project-relative paths of the files to read",
				Required:    true,
			},
			"reasoning": {
				Type:        ParamTypeString,
				Description: "Brief explanation of what you hope to find",
				Required:    false,
			},
		},
		Category: CategoryText,
	}
}

// Execute retrieves the file contents.
func (t *fileContentsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	filenames, err := requireStringList(params, "filenames")
	if err != nil {
		return "", err
	}
	text, err := t.analyzer.FileContents(ctx, filenames)
	if err != nil {
		return "", fmt.Errorf("file contents: %w", err)
	}
	return text, nil
}
