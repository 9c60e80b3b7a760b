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
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

// listParamFor maps a tool name to its signature-bearing list parameter.
func listParamFor(name string) (string, bool) {
	switch name {
	case "search_symbols", "search_substrings", "search_filenames":
		return "patterns", true
	case "get_file_contents":
		return "filenames", true
	case "get_usages":
		return "symbols", true
	case "get_related_classes", "get_class_skeletons", "get_class_sources":
		return "class_names", true
	case "get_method_sources":
		return "method_names", true
	default:
		return "", false
	}
}

// signaturesFor derives the duplicate-detection signature set of a call.
//
// Each signature is of the form "tool:param=value", one per element of the
// tool's list parameter. Terminal calls yield a single finalizing
// signature; an empty list yields a single "tool:param=empty" signature so
// repeated empty calls still register as duplicates.
func signaturesFor(call gateway.ToolCall) []string {
	name := call.Name
	if tools.IsTerminal(name) {
		return []string{name + ":finalizing"}
	}

	args, err := parseArguments(call.Arguments)
	if err != nil {
		return []string{name + ":error"}
	}

	if param, ok := listParamFor(name); ok {
		return listSignatures(name, param, stringList(args, param))
	}

	switch name {
	case "get_call_graph_to", "get_call_graph_from":
		if v, ok := args["method_name"].(string); ok && v != "" {
			return []string{fmt.Sprintf("%s:method_name=%s", name, v)}
		}
		return []string{name + ":method_name=empty"}
	}

	return []string{name + ":unknown"}
}

// listSignatures builds one signature per list element.
func listSignatures(tool, param string, values []string) []string {
	if len(values) == 0 {
		return []string{fmt.Sprintf("%s:%s=empty", tool, param)}
	}
	sigs := make([]string, 0, len(values))
	for _, v := range values {
		sigs = append(sigs, fmt.Sprintf("%s:%s=%s", tool, param, v))
	}
	return sigs
}

// parseArguments deserializes a call's JSON argument payload. Empty
// payloads are treated as an empty object.
func parseArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// stringList extracts a []string argument, tolerating the []any form
// json.Unmarshal produces. Non-string elements are dropped.
func stringList(args map[string]any, key string) []string {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
