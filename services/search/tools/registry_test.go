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
	"encoding/json"
	"strings"
	"testing"

	"github.com/AleutianAI/CodeScout/services/search/analyzer"
)

func testAnalyzer() *analyzer.StaticAnalyzer {
	a := analyzer.NewStaticAnalyzer()
	a.Symbols["svc.auth.TokenValidator"] = "svc/auth/token_validator.go"
	a.Symbols["svc.auth.SessionStore"] = "svc/auth/session_store.go"
	a.Files["svc/auth/token_validator.go"] = "package auth\n\ntype TokenValidator struct{}\n"
	a.Files["svc/auth/session_store.go"] = "package auth\n\ntype SessionStore struct{}\n"
	a.UsageReports["svc.auth.TokenValidator"] = "Usage in svc.auth.Middleware.Handle:\n v.Validate(tok)"
	a.Related["svc.auth.TokenValidator"] = []string{"svc.auth.SessionStore"}
	a.SkeletonText["svc.auth.TokenValidator"] = "type TokenValidator struct { ... }"
	a.MethodText["svc.auth.TokenValidator.Validate"] = "func (v *TokenValidator) Validate(tok string) error { ... }"
	a.CallGraphs["to:svc.auth.TokenValidator.Validate"] = "Middleware.Handle -> TokenValidator.Validate"
	a.CallGraphs["from:svc.auth.TokenValidator.Validate"] = "TokenValidator.Validate -> SessionStore.Get"
	return a
}

func TestRegistryCatalog(t *testing.T) {
	r := NewRegistry(testAnalyzer())

	want := []string{
		"abort",
		"answer",
		"get_call_graph_from",
		"get_call_graph_to",
		"get_class_skeletons",
		"get_class_sources",
		"get_file_contents",
		"get_method_sources",
		"get_related_classes",
		"get_usages",
		"search_filenames",
		"search_substrings",
		"search_symbols",
	}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() returned %d tools, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for _, name := range want {
		tool, ok := r.Get(name)
		if !ok {
			t.Fatalf("Get(%q) not found", name)
		}
		def := tool.Definition()
		if def.Name != name {
			t.Errorf("Definition().Name = %q, want %q", def.Name, name)
		}
		if def.Category == "" {
			t.Errorf("tool %q has no category", name)
		}
	}
}

func TestRegistryDefinitionsFollowsInputOrder(t *testing.T) {
	r := NewRegistry(testAnalyzer())

	names := []string{"get_usages", "search_symbols", "no_such_tool", "answer"}
	defs := r.Definitions(names)
	if len(defs) != 3 {
		t.Fatalf("Definitions() returned %d entries, want 3", len(defs))
	}
	if defs[0].Name != "get_usages" || defs[1].Name != "search_symbols" || defs[2].Name != "answer" {
		t.Errorf("Definitions() order = %q, %q, %q", defs[0].Name, defs[1].Name, defs[2].Name)
	}
}

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry(testAnalyzer())
	ctx := context.Background()

	tests := []struct {
		name      string
		tool      string
		arguments string
		wantOK    bool
		contains  string
	}{
		{
			name:      "symbol search hit",
			tool:      "search_symbols",
			arguments: `{"patterns": ["Token.*"]}`,
			wantOK:    true,
			contains:  "svc.auth.TokenValidator",
		},
		{
			name:      "symbol search miss",
			tool:      "search_symbols",
			arguments: `{"patterns": ["Nonexistent.*"]}`,
			wantOK:    true,
			contains:  "No definitions found",
		},
		{
			name:      "usages",
			tool:      "get_usages",
			arguments: `{"symbols": ["svc.auth.TokenValidator"]}`,
			wantOK:    true,
			contains:  "Usage in svc.auth.Middleware.Handle",
		},
		{
			name:      "related classes",
			tool:      "get_related_classes",
			arguments: `{"class_names": ["svc.auth.TokenValidator"]}`,
			wantOK:    true,
			contains:  "svc.auth.SessionStore",
		},
		{
			name:      "skeletons",
			tool:      "get_class_skeletons",
			arguments: `{"class_names": ["svc.auth.TokenValidator"]}`,
			wantOK:    true,
			contains:  "type TokenValidator struct",
		},
		{
			name:      "class sources",
			tool:      "get_class_sources",
			arguments: `{"class_names": ["svc.auth.TokenValidator"]}`,
			wantOK:    true,
			contains:  "Source code of svc.auth.TokenValidator",
		},
		{
			name:      "method sources",
			tool:      "get_method_sources",
			arguments: `{"method_names": ["svc.auth.TokenValidator.Validate"]}`,
			wantOK:    true,
			contains:  "func (v *TokenValidator) Validate",
		},
		{
			name:      "call graph to",
			tool:      "get_call_graph_to",
			arguments: `{"method_name": "svc.auth.TokenValidator.Validate"}`,
			wantOK:    true,
			contains:  "Middleware.Handle -> TokenValidator.Validate",
		},
		{
			name:      "call graph from",
			tool:      "get_call_graph_from",
			arguments: `{"method_name": "svc.auth.TokenValidator.Validate"}`,
			wantOK:    true,
			contains:  "TokenValidator.Validate -> SessionStore.Get",
		},
		{
			name:      "substring search",
			tool:      "search_substrings",
			arguments: `{"patterns": ["SessionStore"]}`,
			wantOK:    true,
			contains:  "svc/auth/session_store.go",
		},
		{
			name:      "filename search",
			tool:      "search_filenames",
			arguments: `{"patterns": ["token_.*"]}`,
			wantOK:    true,
			contains:  "svc/auth/token_validator.go",
		},
		{
			name:      "file contents",
			tool:      "get_file_contents",
			arguments: `{"filenames": ["svc/auth/token_validator.go"]}`,
			wantOK:    true,
			contains:  "type TokenValidator struct{}",
		},
		{
			name:      "answer echoes explanation",
			tool:      "answer",
			arguments: `{"explanation": "Validation happens in TokenValidator.", "class_names": ["svc.auth.TokenValidator"]}`,
			wantOK:    true,
			contains:  "Validation happens in TokenValidator.",
		},
		{
			name:      "abort echoes explanation",
			tool:      "abort",
			arguments: `{"explanation": "Query is about billing, not this codebase."}`,
			wantOK:    true,
			contains:  "billing",
		},
		{
			name:      "unknown tool",
			tool:      "transmogrify",
			arguments: `{}`,
			wantOK:    false,
			contains:  "unknown tool",
		},
		{
			name:      "malformed arguments",
			tool:      "search_symbols",
			arguments: `{"patterns": [`,
			wantOK:    false,
			contains:  "malformed arguments",
		},
		{
			name:      "missing required parameter",
			tool:      "get_usages",
			arguments: `{}`,
			wantOK:    false,
			contains:  "symbols is required",
		},
		{
			name:      "empty list parameter",
			tool:      "get_usages",
			arguments: `{"symbols": ["", "  "]}`,
			wantOK:    false,
			contains:  "at least one non-empty entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Execute(ctx, tt.tool, json.RawMessage(tt.arguments))
			if out.Succeeded() != tt.wantOK {
				t.Fatalf("Execute(%s) succeeded = %v, want %v (text: %s)",
					tt.tool, out.Succeeded(), tt.wantOK, out.Text)
			}
			if !strings.Contains(out.Text, tt.contains) {
				t.Errorf("Execute(%s) text = %q, want it to contain %q", tt.tool, out.Text, tt.contains)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"answer", true},
		{"abort", true},
		{"search_symbols", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsTerminal(tt.name); got != tt.want {
			t.Errorf("IsTerminal(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
