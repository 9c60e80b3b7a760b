// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// StaticAnalyzer is an Analyzer backed by in-memory maps.
//
// Description:
//
//	Serves tests and demos that need deterministic structural answers without
//	a real index. Populate the exported maps before first use; the analyzer
//	is read-only afterward.
//
// Thread Safety: Safe for concurrent use once construction is complete.
type StaticAnalyzer struct {
	// Symbols maps fully qualified symbol name to the file defining it.
	Symbols map[string]string

	// Files maps file path to file contents.
	Files map[string]string

	// UsageReports maps symbol name to a pre-rendered usage report.
	UsageReports map[string]string

	// Related maps a type name to its related types.
	Related map[string][]string

	// SkeletonText maps a type name to its declaration outline.
	SkeletonText map[string]string

	// MethodText maps a fully qualified method name to its source.
	MethodText map[string]string

	// CallGraphs maps "to:<method>" or "from:<method>" to a rendered graph.
	CallGraphs map[string]string
}

// NewStaticAnalyzer creates an empty StaticAnalyzer with all maps allocated.
func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{
		Symbols:      make(map[string]string),
		Files:        make(map[string]string),
		UsageReports: make(map[string]string),
		Related:      make(map[string][]string),
		SkeletonText: make(map[string]string),
		MethodText:   make(map[string]string),
		CallGraphs:   make(map[string]string),
	}
}

// IsEmpty implements Analyzer. A StaticAnalyzer is empty when it holds no
// symbols.
func (a *StaticAnalyzer) IsEmpty() bool {
	return len(a.Symbols) == 0
}

// SearchSymbols implements Analyzer.
func (a *StaticAnalyzer) SearchSymbols(ctx context.Context, patterns []string) ([]string, error) {
	regexps := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		regexps = append(regexps, re)
	}

	var matches []string
	for name := range a.Symbols {
		for _, re := range regexps {
			if re.MatchString(name) {
				matches = append(matches, name)
				break
			}
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// SearchSubstrings implements Analyzer.
func (a *StaticAnalyzer) SearchSubstrings(ctx context.Context, patterns []string) ([]string, error) {
	var paths []string
	for path, content := range a.Files {
		for _, p := range patterns {
			if strings.Contains(content, p) {
				paths = append(paths, path)
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// SearchFilenames implements Analyzer.
func (a *StaticAnalyzer) SearchFilenames(ctx context.Context, patterns []string) ([]string, error) {
	regexps := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		regexps = append(regexps, re)
	}

	var paths []string
	for path := range a.Files {
		for _, re := range regexps {
			if re.MatchString(path) {
				paths = append(paths, path)
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// FileContents implements Analyzer.
func (a *StaticAnalyzer) FileContents(ctx context.Context, paths []string) (string, error) {
	var b strings.Builder
	for _, path := range paths {
		content, ok := a.Files[path]
		if !ok {
			return "", fmt.Errorf("no such file: %s", path)
		}
		fmt.Fprintf(&b, "<file path=%q>\n%s\n</file>\n", path, content)
	}
	return b.String(), nil
}

// Usages implements Analyzer.
func (a *StaticAnalyzer) Usages(ctx context.Context, symbols []string) (string, error) {
	var parts []string
	for _, sym := range symbols {
		if report, ok := a.UsageReports[sym]; ok {
			parts = append(parts, report)
		}
	}
	if len(parts) == 0 {
		return "No usages found for " + strings.Join(symbols, ", "), nil
	}
	return strings.Join(parts, "\n\n"), nil
}

// RelatedClasses implements Analyzer.
func (a *StaticAnalyzer) RelatedClasses(ctx context.Context, classNames []string) ([]string, error) {
	seen := make(map[string]bool)
	var related []string
	for _, name := range classNames {
		for _, r := range a.Related[name] {
			if !seen[r] {
				seen[r] = true
				related = append(related, r)
			}
		}
	}
	sort.Strings(related)
	return related, nil
}

// Skeletons implements Analyzer.
func (a *StaticAnalyzer) Skeletons(ctx context.Context, classNames []string) (string, error) {
	return a.collectText(classNames, a.SkeletonText, "skeleton")
}

// ClassSources implements Analyzer.
func (a *StaticAnalyzer) ClassSources(ctx context.Context, classNames []string) (string, error) {
	var b strings.Builder
	for _, name := range classNames {
		path, ok := a.Symbols[name]
		if !ok {
			continue
		}
		content, ok := a.Files[path]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "Source code of %s:\n%s\n", name, content)
	}
	if b.Len() == 0 {
		return "No sources found for " + strings.Join(classNames, ", "), nil
	}
	return b.String(), nil
}

// MethodSources implements Analyzer.
func (a *StaticAnalyzer) MethodSources(ctx context.Context, methodNames []string) (string, error) {
	return a.collectText(methodNames, a.MethodText, "method source")
}

// CallGraphTo implements Analyzer.
func (a *StaticAnalyzer) CallGraphTo(ctx context.Context, methodName string) (string, error) {
	if g, ok := a.CallGraphs["to:"+methodName]; ok {
		return g, nil
	}
	return "No call graph available for " + methodName, nil
}

// CallGraphFrom implements Analyzer.
func (a *StaticAnalyzer) CallGraphFrom(ctx context.Context, methodName string) (string, error) {
	if g, ok := a.CallGraphs["from:"+methodName]; ok {
		return g, nil
	}
	return "No call graph available for " + methodName, nil
}

// FileFor implements Analyzer.
func (a *StaticAnalyzer) FileFor(ctx context.Context, className string) (string, bool) {
	path, ok := a.Symbols[className]
	return path, ok
}

// collectText joins per-name entries from a lookup table, reporting names
// with no entry.
func (a *StaticAnalyzer) collectText(names []string, table map[string]string, kind string) (string, error) {
	var parts []string
	for _, name := range names {
		if text, ok := table[name]; ok {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("No %s found for %s", kind, strings.Join(names, ", ")), nil
	}
	return strings.Join(parts, "\n\n"), nil
}
