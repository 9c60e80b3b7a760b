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
	"reflect"
	"strings"
	"testing"
)

func sampleAnalyzer() *StaticAnalyzer {
	a := NewStaticAnalyzer()
	a.Symbols["com.acme.retry.RetryPolicy"] = "src/retry/RetryPolicy.java"
	a.Symbols["com.acme.retry.BackoffStrategy"] = "src/retry/BackoffStrategy.java"
	a.Symbols["com.acme.http.Client"] = "src/http/Client.java"
	a.Files["src/retry/RetryPolicy.java"] = "public class RetryPolicy { int maxAttempts; }"
	a.Files["src/retry/BackoffStrategy.java"] = "public class BackoffStrategy {}"
	a.Files["src/http/Client.java"] = "public class Client { RetryPolicy policy; }"
	a.Related["com.acme.retry.RetryPolicy"] = []string{"com.acme.retry.BackoffStrategy"}
	a.UsageReports["com.acme.retry.RetryPolicy"] = "Usage in com.acme.http.Client.send:\n  policy.apply()"
	a.SkeletonText["com.acme.retry.RetryPolicy"] = "class RetryPolicy {\n  int maxAttempts;\n}"
	a.CallGraphs["to:com.acme.retry.RetryPolicy.apply"] = "Client.send -> RetryPolicy.apply"
	return a
}

func TestStaticAnalyzerIsEmpty(t *testing.T) {
	if !NewStaticAnalyzer().IsEmpty() {
		t.Error("an analyzer with no symbols should be empty")
	}
	if sampleAnalyzer().IsEmpty() {
		t.Error("an analyzer with symbols should not be empty")
	}
}

func TestStaticAnalyzerSearchSymbols(t *testing.T) {
	a := sampleAnalyzer()
	ctx := context.Background()

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "single pattern sorted matches",
			patterns: []string{"retry"},
			want:     []string{"com.acme.retry.BackoffStrategy", "com.acme.retry.RetryPolicy"},
		},
		{
			name:     "multiple patterns union without duplicates",
			patterns: []string{"Retry", "Client"},
			want:     []string{"com.acme.http.Client", "com.acme.retry.RetryPolicy"},
		},
		{
			name:     "no matches",
			patterns: []string{"websocket"},
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.SearchSymbols(ctx, tt.patterns)
			if err != nil {
				t.Fatalf("SearchSymbols() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SearchSymbols(%v) = %v, want %v", tt.patterns, got, tt.want)
			}
		})
	}

	if _, err := a.SearchSymbols(ctx, []string{"["}); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}

func TestStaticAnalyzerTextLookups(t *testing.T) {
	a := sampleAnalyzer()
	ctx := context.Background()

	hits, err := a.SearchSubstrings(ctx, []string{"maxAttempts"})
	if err != nil {
		t.Fatalf("SearchSubstrings() error: %v", err)
	}
	if !reflect.DeepEqual(hits, []string{"src/retry/RetryPolicy.java"}) {
		t.Errorf("SearchSubstrings = %v", hits)
	}

	files, err := a.SearchFilenames(ctx, []string{`\.java$`})
	if err != nil {
		t.Fatalf("SearchFilenames() error: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("SearchFilenames = %v, want all three files", files)
	}

	out, err := a.FileContents(ctx, []string{"src/http/Client.java"})
	if err != nil {
		t.Fatalf("FileContents() error: %v", err)
	}
	if !strings.Contains(out, "RetryPolicy policy") {
		t.Errorf("FileContents = %q", out)
	}
	if _, err := a.FileContents(ctx, []string{"missing"}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestStaticAnalyzerStructuralLookups(t *testing.T) {
	a := sampleAnalyzer()
	ctx := context.Background()

	report, err := a.Usages(ctx, []string{"com.acme.retry.RetryPolicy"})
	if err != nil {
		t.Fatalf("Usages() error: %v", err)
	}
	if !strings.Contains(report, "Usage in com.acme.http.Client.send") {
		t.Errorf("Usages = %q", report)
	}
	miss, err := a.Usages(ctx, []string{"com.acme.Phantom"})
	if err != nil || !strings.HasPrefix(miss, "No usages found") {
		t.Errorf("Usages miss = %q, %v", miss, err)
	}

	related, err := a.RelatedClasses(ctx, []string{"com.acme.retry.RetryPolicy"})
	if err != nil {
		t.Fatalf("RelatedClasses() error: %v", err)
	}
	if !reflect.DeepEqual(related, []string{"com.acme.retry.BackoffStrategy"}) {
		t.Errorf("RelatedClasses = %v", related)
	}

	skel, err := a.Skeletons(ctx, []string{"com.acme.retry.RetryPolicy"})
	if err != nil || !strings.Contains(skel, "class RetryPolicy") {
		t.Errorf("Skeletons = %q, %v", skel, err)
	}

	src, err := a.ClassSources(ctx, []string{"com.acme.retry.RetryPolicy"})
	if err != nil || !strings.HasPrefix(src, "Source code of com.acme.retry.RetryPolicy:") {
		t.Errorf("ClassSources = %q, %v", src, err)
	}

	graph, err := a.CallGraphTo(ctx, "com.acme.retry.RetryPolicy.apply")
	if err != nil || graph != "Client.send -> RetryPolicy.apply" {
		t.Errorf("CallGraphTo = %q, %v", graph, err)
	}
	missGraph, err := a.CallGraphFrom(ctx, "com.acme.Phantom.run")
	if err != nil || !strings.HasPrefix(missGraph, "No call graph available") {
		t.Errorf("CallGraphFrom miss = %q, %v", missGraph, err)
	}

	if path, ok := a.FileFor(ctx, "com.acme.http.Client"); !ok || path != "src/http/Client.java" {
		t.Errorf("FileFor = %q, %v", path, ok)
	}
	if _, ok := a.FileFor(ctx, "com.acme.Phantom"); ok {
		t.Error("FileFor should miss for unknown classes")
	}
}
