// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gateway sits between the search agent and the raw provider
// clients. It owns the provider-neutral request/response types the agent
// speaks, converts tool catalogs to the wire schema, and records spans and
// metrics for every call. The agent never imports a provider client
// directly.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AleutianAI/CodeScout/services/search/tools"
)

// Tool-requirement values for Request.RequireTool.
const (
	// RequireNone lets the model answer in text or call tools.
	RequireNone = ""

	// RequireAny forces the model to call at least one tool.
	RequireAny = "any"
)

// Message is one turn of conversation in a Request.
type Message struct {
	// Role is "user", "assistant", or "tool".
	Role string

	// Content is the text content.
	Content string

	// ToolCalls are the calls an assistant turn made.
	ToolCalls []ToolCall

	// ToolCallID links a tool-result turn to the call it answers.
	ToolCallID string

	// ToolName is the tool that produced a tool-result turn.
	ToolName string
}

// ToolCall is a single tool invocation proposed by the model.
type ToolCall struct {
	// ID uniquely identifies the call. Providers that do not assign IDs
	// get synthetic ones from the gateway.
	ID string

	// Name is the tool's wire name.
	Name string

	// Arguments is the raw JSON argument payload.
	Arguments json.RawMessage
}

// Request is one completion request from the agent.
type Request struct {
	// SystemPrompt is sent as the system turn when non-empty.
	SystemPrompt string

	// Messages is the conversation history.
	Messages []Message

	// Tools is the tool catalog offered for this round. Empty means a
	// plain text completion.
	Tools []tools.ToolDefinition

	// RequireTool constrains the model's tool use: RequireNone,
	// RequireAny, or the wire name of a single tool the model must call.
	RequireTool string

	// MaxTokens caps the completion length. Zero uses the provider default.
	MaxTokens int

	// Temperature is the sampling temperature. Negative means provider
	// default.
	Temperature float64
}

// Usage reports token counts for one call. Estimated when the provider does
// not report real counts.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Response is the model's reply to a Request.
type Response struct {
	// Content is the text portion of the reply, possibly empty.
	Content string

	// ToolCalls are the calls the model proposed, in model order.
	ToolCalls []ToolCall

	// StopReason is "end" or "tool_use".
	StopReason string

	// Usage is the token accounting for this call.
	Usage Usage

	// Duration is the provider round-trip time.
	Duration time.Duration

	// Model is the model that served the request.
	Model string
}

// Client is the LLM surface the search agent depends on.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Client interface {
	// Propose sends one completion request and returns the model's reply.
	Propose(ctx context.Context, request *Request) (*Response, error)

	// Name returns the provider name ("anthropic", "ollama").
	Name() string

	// Model returns the configured model name.
	Model() string
}

// EmptyResponseError reports a call that returned no content and no tool
// calls. The agent treats it as retryable pressure toward termination
// rather than a fatal failure.
type EmptyResponseError struct {
	Duration     time.Duration
	MessageCount int
	Model        string
}

// Error implements the error interface.
func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response from %s after %s (%d messages)",
		e.Model, e.Duration.Round(time.Millisecond), e.MessageCount)
}
