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
	"fmt"
	"strings"
)

// parseStringArray extracts a string array from a parameter value.
//
// Handles both []string and []interface{} (from JSON unmarshaling).
//
// Thread Safety: Safe for concurrent use.
func parseStringArray(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result, true
	default:
		return nil, false
	}
}

// parseStringParam extracts a string from a parameter value.
//
// Thread Safety: Safe for concurrent use.
func parseStringParam(value any) (string, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	return "", false
}

// requireStringList parses a mandatory non-empty list parameter, trimming
// whitespace and dropping empty elements.
func requireStringList(params map[string]any, name string) ([]string, error) {
	raw, ok := params[name]
	if !ok {
		return nil, fmt.Errorf("%s is required", name)
	}
	items, ok := parseStringArray(raw)
	if !ok {
		return nil, fmt.Errorf("%s must be a list of strings", name)
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%s must contain at least one non-empty entry", name)
	}
	return cleaned, nil
}

// requireString parses a mandatory non-empty string parameter.
func requireString(params map[string]any, name string) (string, error) {
	raw, ok := params[name]
	if !ok {
		return "", fmt.Errorf("%s is required", name)
	}
	s, ok := parseStringParam(raw)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	return s, nil
}

// optionalString parses an optional string parameter, returning "" when
// absent or not a string.
func optionalString(params map[string]any, name string) string {
	if raw, ok := params[name]; ok {
		if s, ok := parseStringParam(raw); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// optionalStringList parses an optional list parameter, returning nil when
// absent or malformed.
func optionalStringList(params map[string]any, name string) []string {
	if raw, ok := params[name]; ok {
		if items, ok := parseStringArray(raw); ok {
			return items
		}
	}
	return nil
}
