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
	"strings"
	"testing"

	"github.com/AleutianAI/CodeScout/services/search/tools"
)

func TestDisplayResultPrecedence(t *testing.T) {
	entry := &HistoryEntry{
		Call:    call("search_symbols", `{"patterns": ["retry"]}`),
		Outcome: tools.Success("com.acme.RetryPolicy"),
	}
	if got := entry.displayResult(); !strings.Contains(got, "<result>") ||
		!strings.Contains(got, "com.acme.RetryPolicy") {
		t.Errorf("raw display = %q", got)
	}

	entry.Compressed = "[Common package prefix: 'com.acme.'] RetryPolicy"
	if got := entry.displayResult(); !strings.Contains(got, "Common package prefix") {
		t.Errorf("compressed display = %q", got)
	}

	entry.Learnings = "the retry policy lives in com.acme.RetryPolicy"
	if got := entry.displayResult(); !strings.Contains(got, "<learnings>") ||
		strings.Contains(got, "Common package prefix") {
		t.Errorf("learnings should win over compression, got %q", got)
	}

	failed := &HistoryEntry{
		Call:    call("get_usages", `{"symbols": ["x"]}`),
		Outcome: tools.Failure("backend unavailable"),
	}
	if got := failed.displayResult(); !strings.Contains(got, "<error>") {
		t.Errorf("failure display = %q", got)
	}
}

func TestLedgerRender(t *testing.T) {
	l := &Ledger{}
	if l.Render() != "" {
		t.Errorf("empty ledger should render empty, got %q", l.Render())
	}
	if l.Penultimate() != nil {
		t.Error("empty ledger has no penultimate entry")
	}

	l.Append(&HistoryEntry{
		Call:    call("search_symbols", `{"patterns": ["retry"]}`),
		Outcome: tools.Success("com.acme.RetryPolicy"),
	})
	l.Append(&HistoryEntry{
		Call:    call("get_class_sources", `{"class_names": ["com.acme.RetryPolicy"]}`),
		Outcome: tools.Success("Source code of com.acme.RetryPolicy:\n..."),
	})

	rendered := l.Render()
	if !strings.Contains(rendered, `<step sequence="1" tool="search_symbols" patterns=["retry"]>`) {
		t.Errorf("missing first step header in %q", rendered)
	}
	if !strings.Contains(rendered, `<step sequence="2" tool="get_class_sources"`) {
		t.Errorf("missing second step header in %q", rendered)
	}
	if !strings.HasPrefix(strings.TrimSpace(rendered), "<action-history>") {
		t.Errorf("render should be wrapped in action-history, got %q", rendered)
	}

	if l.Penultimate() != l.Entries()[0] {
		t.Error("penultimate should be the first of two entries")
	}
	if l.TokenSize() != estimateTokens(rendered) {
		t.Error("TokenSize should measure the full render")
	}
}

func TestCallParameterInfo(t *testing.T) {
	tests := []struct {
		name string
		c    string
		args string
		want string
	}{
		{"list parameter", "search_symbols", `{"patterns": ["a", "b"]}`, `patterns=["a","b"]`},
		{"scalar parameter", "get_call_graph_to", `{"method_name": "com.acme.F.g"}`, "com.acme.F.g"},
		{"terminal", "answer", `{"explanation": "x", "class_names": []}`, "finalizing"},
		{"empty list", "get_usages", `{"symbols": []}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callParameterInfo(call(tt.c, tt.args)); got != tt.want {
				t.Errorf("callParameterInfo() = %q, want %q", got, tt.want)
			}
		})
	}
}
