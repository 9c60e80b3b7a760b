// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AleutianAI/CodeScout/services/llm"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

func searchSymbolsDef() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "search_symbols",
		Description: "Search for symbols",
		Parameters: map[string]tools.ParamDef{
			"patterns": {
				Type:        tools.ParamTypeArray,
				Items:       tools.ParamTypeString,
				Description: "Regex patterns",
				Required:    true,
			},
			"reasoning": {
				Type:        tools.ParamTypeString,
				Description: "Why",
				Required:    false,
			},
		},
		Category: tools.CategorySearch,
	}
}

func TestConvertToolDefs(t *testing.T) {
	wire := convertToolDefs([]tools.ToolDefinition{searchSymbolsDef()})
	if len(wire) != 1 {
		t.Fatalf("convertToolDefs() len = %d, want 1", len(wire))
	}
	def := wire[0]
	if def.Type != "function" || def.Function.Name != "search_symbols" {
		t.Errorf("wire def = %+v", def)
	}
	if def.Function.Parameters.Type != "object" {
		t.Errorf("parameters type = %q, want object", def.Function.Parameters.Type)
	}
	patterns, ok := def.Function.Parameters.Properties["patterns"]
	if !ok {
		t.Fatal("patterns property missing")
	}
	if patterns.Type != "array" || patterns.Items == nil || patterns.Items.Type != "string" {
		t.Errorf("patterns schema = %+v", patterns)
	}
	if len(def.Function.Parameters.Required) != 1 || def.Function.Parameters.Required[0] != "patterns" {
		t.Errorf("required = %v, want [patterns]", def.Function.Parameters.Required)
	}
}

func TestConvertToolCalls_SyntheticIDs(t *testing.T) {
	calls := convertToolCalls([]llm.ToolCallResponse{
		{ID: "toolu_01", Name: "search_symbols", Arguments: json.RawMessage(`{"patterns":["A"]}`)},
		{Name: "get_usages"},
	})
	if len(calls) != 2 {
		t.Fatalf("len = %d, want 2", len(calls))
	}
	if calls[0].ID != "toolu_01" {
		t.Errorf("provider ID replaced: %q", calls[0].ID)
	}
	if !strings.HasPrefix(calls[1].ID, "call_") || len(calls[1].ID) < 10 {
		t.Errorf("synthetic ID = %q", calls[1].ID)
	}
	if string(calls[1].Arguments) != "{}" {
		t.Errorf("empty arguments = %q, want {}", calls[1].Arguments)
	}
}

func TestBuildParams_RequireTool(t *testing.T) {
	tests := []struct {
		name        string
		requireTool string
		wantChoice  llm.ToolChoice
		wantName    string
	}{
		{"none", RequireNone, "", ""},
		{"any", RequireAny, llm.ToolChoiceAny, ""},
		{"named", "answer", llm.ToolChoiceNamed, "answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := buildParams(&Request{RequireTool: tt.requireTool, Temperature: -1})
			if params.ToolChoice != tt.wantChoice {
				t.Errorf("ToolChoice = %q, want %q", params.ToolChoice, tt.wantChoice)
			}
			if params.ToolName != tt.wantName {
				t.Errorf("ToolName = %q, want %q", params.ToolName, tt.wantName)
			}
			if params.Temperature != nil {
				t.Error("negative temperature should map to provider default")
			}
		})
	}
}

func TestAnthropicGateway_Propose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if tc, ok := req["tool_choice"].(map[string]any); !ok || tc["type"] != "any" {
			t.Errorf("tool_choice = %v, want any", req["tool_choice"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": [
				{"type": "tool_use", "id": "toolu_09", "name": "search_symbols",
				 "input": {"patterns": ["Agent.*"]}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 200, "output_tokens": 60}
		}`))
	}))
	defer server.Close()

	g := NewAnthropicGateway(llm.NewAnthropicClientWithConfig("test-key", "claude-test", server.URL))
	if g.Name() != "anthropic" || g.Model() != "claude-test" {
		t.Errorf("identity: name=%q model=%q", g.Name(), g.Model())
	}

	resp, err := g.Propose(context.Background(), &Request{
		SystemPrompt: "You search code.",
		Messages:     []Message{{Role: "user", Content: "Find the agent"}},
		Tools:        []tools.ToolDefinition{searchSymbolsDef()},
		RequireTool:  RequireAny,
		Temperature:  0,
	})
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Name != "search_symbols" {
		t.Fatalf("ToolCalls = %+v", resp.ToolCalls)
	}
	if resp.ToolCalls[0].ID != "toolu_09" {
		t.Errorf("ID = %q", resp.ToolCalls[0].ID)
	}
	if resp.StopReason != "tool_use" {
		t.Errorf("StopReason = %q", resp.StopReason)
	}
	if resp.Usage.InputTokens != 200 || resp.Usage.OutputTokens != 60 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if resp.Duration <= 0 {
		t.Error("Duration not recorded")
	}
}

func TestAnthropicGateway_Propose_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "   "}], "usage": {}}`))
	}))
	defer server.Close()

	g := NewAnthropicGateway(llm.NewAnthropicClientWithConfig("test-key", "claude-test", server.URL))

	_, err := g.Propose(context.Background(), &Request{
		Messages:    []Message{{Role: "user", Content: "Hi"}},
		Temperature: -1,
	})
	if err == nil {
		t.Fatal("expected empty response error")
	}
	var emptyErr *EmptyResponseError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error type = %T, want *EmptyResponseError", err)
	}
	if emptyErr.Model != "claude-test" || emptyErr.MessageCount != 1 {
		t.Errorf("EmptyResponseError = %+v", emptyErr)
	}
}

func TestOllamaGateway_Propose_SyntheticIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{"function": {"name": "get_usages", "arguments": {"symbols": ["A"]}}}]
			},
			"done": true,
			"prompt_eval_count": 50,
			"eval_count": 20
		}`))
	}))
	defer server.Close()

	g := NewOllamaGateway(llm.NewOllamaClientWithConfig(server.URL, "qwen-test"))
	if g.Name() != "ollama" {
		t.Errorf("Name() = %q", g.Name())
	}

	resp, err := g.Propose(context.Background(), &Request{
		Messages:    []Message{{Role: "user", Content: "Usages of A"}},
		Tools:       []tools.ToolDefinition{searchSymbolsDef()},
		Temperature: -1,
	})
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %+v", resp.ToolCalls)
	}
	if !strings.HasPrefix(resp.ToolCalls[0].ID, "call_") {
		t.Errorf("expected synthetic ID, got %q", resp.ToolCalls[0].ID)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.OutputTokens != 20 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty response", &EmptyResponseError{Model: "m"}, "empty_response"},
		{"timeout", errors.New("context deadline exceeded"), "timeout"},
		{"auth", errors.New("anthropic: API returned status 401: unauthorized"), "auth"},
		{"rate limit", errors.New("anthropic: API returned status 429: slow down"), "rate_limit"},
		{"server", errors.New("ollama: chat failed with status 503: unavailable"), "server"},
		{"unknown", errors.New("something odd"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %q, want %q", got, tt.want)
			}
		})
	}
}
