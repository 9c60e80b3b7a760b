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
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
)

var (
	// classMentionPattern matches "Source code of X" and "class X"
	// mentions in tool output. '$' keeps inner-class names intact.
	classMentionPattern = regexp.MustCompile(`(?:Source code of |class )([\w.$]+)`)

	// usageMentionPattern matches the qualified class before the method
	// name in usage reports ("Usage in org.foo.Bar.method").
	usageMentionPattern = regexp.MustCompile(`Usage in ([\w.$]+)\.`)

	// tokenSplitPattern splits comma- or whitespace-separated lists.
	tokenSplitPattern = regexp.MustCompile(`[,\s]+`)
)

// trackFromCall mines class names out of a call's arguments before it
// executes, so even failed calls contribute to TrackedClassNames.
func (a *Agent) trackFromCall(call gateway.ToolCall) {
	args, err := parseArguments(call.Arguments)
	if err != nil {
		return
	}

	switch call.Name {
	case "get_class_skeletons", "get_class_sources", "get_related_classes":
		for _, name := range stringList(args, "class_names") {
			a.track(name)
		}
	case "get_method_sources":
		for _, method := range stringList(args, "method_names") {
			if cls := enclosingClass(method); cls != "" {
				a.track(cls)
			}
		}
	case "get_usages":
		for _, symbol := range stringList(args, "symbols") {
			a.track(classFromSymbol(symbol))
		}
	}
}

// trackFromText mines class names out of tool output: comma-separated
// symbol lists (including the prefix-compressed form), "class X" and
// "Source code of X" mentions, and usage-report headers.
func (a *Agent) trackFromText(text string) {
	if text == "" || strings.HasPrefix(text, "No ") || strings.HasPrefix(text, "Error:") {
		return
	}

	candidates := make(map[string]struct{})

	// Re-expand the compressed form before token scanning.
	effective, prefix := expandCompressedList(text)
	for _, token := range tokenSplitPattern.Split(effective, -1) {
		token = strings.TrimSpace(token)
		if token == "" || strings.HasSuffix(token, ":") {
			continue
		}
		name := prefix + token
		if plausibleClassName(name) {
			candidates[name] = struct{}{}
		}
	}

	for _, m := range classMentionPattern.FindAllStringSubmatch(text, -1) {
		candidates[m[1]] = struct{}{}
	}
	for _, m := range usageMentionPattern.FindAllStringSubmatch(text, -1) {
		candidates[m[1]] = struct{}{}
	}

	if len(candidates) == 0 {
		return
	}
	for name := range candidates {
		a.track(classFromSymbol(name))
	}
	a.logger.Debug("Tracked class names from result",
		slog.Int("candidates", len(candidates)),
		slog.Int("total_tracked", len(a.tracked)),
	)
}

// track adds one normalized class name to TrackedClassNames.
func (a *Agent) track(name string) {
	if name == "" {
		return
	}
	a.tracked[name] = struct{}{}
}

// trackedNames returns the tracked set as a slice, unordered.
func (a *Agent) trackedNames() []string {
	names := make([]string, 0, len(a.tracked))
	for name := range a.tracked {
		names = append(names, name)
	}
	return names
}

// expandCompressedList strips a leading "[Common package prefix: 'p'] "
// header and returns the remaining list plus the prefix to re-add to each
// token. Text without the header passes through unchanged.
func expandCompressedList(text string) (effective, prefix string) {
	if !strings.HasPrefix(text, "[") {
		return text, ""
	}
	end := strings.Index(text, "] ")
	if end < 0 {
		return text, ""
	}
	head := text[:end]
	open := strings.Index(head, "'")
	closing := strings.LastIndex(head, "'")
	if open >= 0 && closing > open {
		prefix = head[open+1 : closing]
	}
	return strings.TrimSpace(text[end+2:]), prefix
}

// plausibleClassName reports whether a token looks like a qualified type
// name rather than prose.
func plausibleClassName(name string) bool {
	if !strings.Contains(name, ".") {
		return false
	}
	first := rune(name[0])
	return unicode.IsLetter(first) || first == '_' || first == '$'
}

// classFromSymbol normalizes a symbol to the class that owns it. A
// trailing lower-case segment is taken to be a method or field reference
// and stripped; anything else is assumed to already be a class name.
func classFromSymbol(symbol string) string {
	idx := strings.LastIndex(symbol, ".")
	if idx <= 0 || idx == len(symbol)-1 {
		return symbol
	}
	last := rune(symbol[idx+1])
	if unicode.IsLower(last) || last == '_' {
		return symbol[:idx]
	}
	return symbol
}

// enclosingClass strips the method segment from a fully qualified method
// name. Empty when the name has no qualifier.
func enclosingClass(methodName string) string {
	idx := strings.LastIndex(methodName, ".")
	if idx <= 0 {
		return ""
	}
	return methodName[:idx]
}
