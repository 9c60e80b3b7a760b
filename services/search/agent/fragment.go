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
	"context"
	"log/slog"
	"sort"
	"strings"
)

// buildFinalArtifact turns the terminal answer entry into the run's
// search artifact.
//
// The model's declared class_names are unioned with everything tracked
// during the run, normalized to owning classes, coalesced so inner
// classes defer to a retained outer class, sorted, and resolved to files.
// Source resolution is enrichment only: if it cannot complete, the
// artifact ships with the explanation and no sources rather than failing
// the run.
func (a *Agent) buildFinalArtifact(ctx context.Context, entry *HistoryEntry) *SearchArtifact {
	artifact := &SearchArtifact{
		Query:       a.query,
		Explanation: entry.Outcome.Text,
	}

	combined := make(map[string]struct{})
	if args, err := parseArguments(entry.Call.Arguments); err == nil {
		for _, name := range stringList(args, "class_names") {
			combined[classFromSymbol(name)] = struct{}{}
		}
	}
	for name := range a.tracked {
		combined[classFromSymbol(name)] = struct{}{}
	}

	coalesced := coalesceInnerClasses(combined)

	files := make([]string, 0, len(coalesced))
	seen := make(map[string]struct{})
	for _, name := range coalesced {
		if ctx.Err() != nil {
			// Interrupted mid-resolution: degrade to a sourceless result.
			a.logger.Warn("Source resolution interrupted; returning sourceless artifact",
				slog.String("query", a.query))
			return artifact
		}
		file, ok := a.analyzer.FileFor(ctx, name)
		if !ok {
			continue
		}
		if _, dup := seen[file]; dup {
			continue
		}
		seen[file] = struct{}{}
		files = append(files, file)
	}
	sort.Strings(files)

	artifact.SourceFiles = files
	a.logger.Debug("Final sources resolved",
		slog.Int("classes", len(coalesced)),
		slog.Int("files", len(files)),
	)
	return artifact
}

// coalesceInnerClasses drops names nested inside another retained name
// ("pkg.Outer$Inner" defers to "pkg.Outer") and returns the rest sorted.
func coalesceInnerClasses(names map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for name := range names {
		nested := false
		for other := range names {
			if other != name && strings.HasPrefix(name, other+"$") {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
