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
	"fmt"
	"sort"
	"strings"
)

// compressSymbols renders a symbol list compactly for history display by
// factoring out the common package prefix.
//
// With a common prefix the result is
// "[Common package prefix: 'org.foo.'] Bar, Baz"; without one it is
// "label: a, b". The bracketed form is what the class-name tracker knows
// how to re-expand.
func compressSymbols(label string, symbols []string) string {
	if len(symbols) == 0 {
		return label + ": None found"
	}

	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)

	prefix := commonPackagePrefix(sorted)
	if prefix == "" {
		return label + ": " + strings.Join(sorted, ", ")
	}

	stripped := make([]string, len(sorted))
	for i, s := range sorted {
		stripped[i] = strings.TrimPrefix(s, prefix)
	}
	return fmt.Sprintf("[Common package prefix: '%s'] %s", prefix, strings.Join(stripped, ", "))
}

// commonPackagePrefix returns the longest common prefix of all symbols,
// trimmed back to a package boundary (including the trailing dot). Empty
// when the symbols share no package.
func commonPackagePrefix(symbols []string) string {
	if len(symbols) == 0 {
		return ""
	}
	prefix := symbols[0]
	for _, s := range symbols[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	// Trim to the last dot so the prefix re-expands to valid names.
	idx := strings.LastIndex(prefix, ".")
	if idx < 0 {
		return ""
	}
	prefix = prefix[:idx+1]
	// A prefix equal to an entire symbol would strip it to nothing.
	for _, s := range symbols {
		if s == prefix || s+"." == prefix {
			return ""
		}
	}
	return prefix
}

// splitSymbolList splits a comma-separated raw symbol list.
func splitSymbolList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
