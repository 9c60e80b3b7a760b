// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides raw provider clients for chat and tool-calling
// completions. Clients in this package speak each provider's wire format
// directly over HTTP and expose a small provider-agnostic surface
// (ChatMessage, ToolDef, ChatWithToolsResult). Higher layers add
// observability; this package only does transport and translation.
package llm

import "context"

// GenerationParams holds optional sampling and tool-choice parameters.
//
// Nil pointer fields mean "use the provider default".
//
// Thread Safety: GenerationParams is a value type; safe to copy and share.
type GenerationParams struct {
	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`

	// ToolChoice controls how the model may respond when tools are present:
	// ToolChoiceAuto lets it answer in text or call tools, ToolChoiceAny
	// requires some tool call, ToolChoiceNamed requires the tool named in
	// ToolName. Ignored when no tools are supplied.
	ToolChoice ToolChoice `json:"tool_choice,omitempty"`

	// ToolName is the required tool when ToolChoice is ToolChoiceNamed.
	ToolName string `json:"tool_name,omitempty"`
}

// ToolChoice selects the tool-use policy for a request.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide whether to call a tool.
	ToolChoiceAuto ToolChoice = "auto"

	// ToolChoiceAny forces the model to call at least one tool.
	ToolChoiceAny ToolChoice = "any"

	// ToolChoiceNamed forces the model to call one specific tool.
	ToolChoiceNamed ToolChoice = "tool"
)

// TokenUsage reports prompt and completion token counts for one request.
// Zero values mean the provider did not report usage.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns the combined token count.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// ProviderClient is the interface all provider clients implement.
//
// Description:
//
//	Chat is a plain text completion over a message history. ChatWithTools
//	additionally advertises a tool catalog and returns any tool calls the
//	model made. Both respect context cancellation.
//
// Thread Safety: Implementations must be safe for concurrent use.
type ProviderClient interface {
	// Chat returns the model's text response to the conversation.
	Chat(ctx context.Context, messages []ChatMessage, params GenerationParams) (string, error)

	// ChatWithTools returns the model's response including tool calls.
	ChatWithTools(ctx context.Context, messages []ChatMessage,
		params GenerationParams, tools []ToolDef) (*ChatWithToolsResult, error)

	// Model returns the configured model name.
	Model() string
}
