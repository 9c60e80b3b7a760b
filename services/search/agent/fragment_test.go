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
	"reflect"
	"testing"

	"github.com/AleutianAI/CodeScout/services/search/analyzer"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

func TestBuildFinalArtifactUnionsAnswerAndTracked(t *testing.T) {
	backend := retryFixture()
	a := newTestAgent(t, nil, backend)
	a.track("com.acme.retry.BackoffStrategy")

	entry := &HistoryEntry{
		Call: call("answer", `{"explanation": "retry lives here", "class_names": ["com.acme.retry.RetryPolicy"]}`),
		Outcome: tools.Outcome{
			Status: tools.StatusSuccess,
			Text:   "retry lives here",
		},
	}

	artifact := a.buildFinalArtifact(context.Background(), entry)
	if artifact.Explanation != "retry lives here" {
		t.Errorf("explanation = %q", artifact.Explanation)
	}
	want := []string{"src/retry/BackoffStrategy.java", "src/retry/RetryPolicy.java"}
	if !reflect.DeepEqual(artifact.SourceFiles, want) {
		t.Errorf("SourceFiles = %v, want %v", artifact.SourceFiles, want)
	}
}

func TestBuildFinalArtifactNormalizesMemberNames(t *testing.T) {
	backend := retryFixture()
	a := newTestAgent(t, nil, backend)

	// A member reference resolves to its owning class's file.
	entry := &HistoryEntry{
		Call: call("answer", `{"explanation": "x", "class_names": ["com.acme.retry.RetryPolicy.apply"]}`),
		Outcome: tools.Outcome{
			Status: tools.StatusSuccess,
			Text:   "x",
		},
	}
	artifact := a.buildFinalArtifact(context.Background(), entry)
	want := []string{"src/retry/RetryPolicy.java"}
	if !reflect.DeepEqual(artifact.SourceFiles, want) {
		t.Errorf("SourceFiles = %v, want %v", artifact.SourceFiles, want)
	}
}

func TestBuildFinalArtifactSkipsUnresolvableAndDedupesFiles(t *testing.T) {
	backend := analyzer.NewStaticAnalyzer()
	backend.Symbols["com.acme.Pair"] = "src/Pair.java"
	backend.Symbols["com.acme.Pair$Builder"] = "src/Pair.java"
	backend.Files["src/Pair.java"] = "class Pair {}"

	a := newTestAgent(t, nil, backend)
	a.track("com.acme.Pair")
	a.track("com.acme.Pair$Builder") // coalesces into Pair
	a.track("com.acme.Phantom")      // no file: skipped

	entry := &HistoryEntry{
		Call:    call("answer", `{"explanation": "x"}`),
		Outcome: tools.Outcome{Status: tools.StatusSuccess, Text: "x"},
	}
	artifact := a.buildFinalArtifact(context.Background(), entry)
	want := []string{"src/Pair.java"}
	if !reflect.DeepEqual(artifact.SourceFiles, want) {
		t.Errorf("SourceFiles = %v, want %v", artifact.SourceFiles, want)
	}
}

func TestBuildFinalArtifactCancelledContextDegrades(t *testing.T) {
	a := newTestAgent(t, nil, nil)
	a.track("com.acme.retry.RetryPolicy")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entry := &HistoryEntry{
		Call:    call("answer", `{"explanation": "x"}`),
		Outcome: tools.Outcome{Status: tools.StatusSuccess, Text: "x"},
	}
	artifact := a.buildFinalArtifact(ctx, entry)
	if artifact == nil {
		t.Fatal("artifact should survive cancellation")
	}
	if len(artifact.SourceFiles) != 0 {
		t.Errorf("SourceFiles = %v, want none on cancellation", artifact.SourceFiles)
	}
	if artifact.Explanation != "x" {
		t.Errorf("explanation = %q", artifact.Explanation)
	}
}

func TestCoalesceInnerClasses(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "inner defers to outer",
			names: []string{"com.acme.Outer", "com.acme.Outer$Inner"},
			want:  []string{"com.acme.Outer"},
		},
		{
			name:  "inner kept without its outer",
			names: []string{"com.acme.Outer$Inner", "com.acme.Other"},
			want:  []string{"com.acme.Other", "com.acme.Outer$Inner"},
		},
		{
			name:  "deep nesting collapses to the retained ancestor",
			names: []string{"a.B", "a.B$C", "a.B$C$D"},
			want:  []string{"a.B"},
		},
		{
			name:  "similar prefix is not nesting",
			names: []string{"a.Widget", "a.WidgetFactory"},
			want:  []string{"a.Widget", "a.WidgetFactory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make(map[string]struct{}, len(tt.names))
			for _, n := range tt.names {
				in[n] = struct{}{}
			}
			got := coalesceInnerClasses(in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("coalesceInnerClasses(%v) = %v, want %v", tt.names, got, tt.want)
			}
		})
	}
}
