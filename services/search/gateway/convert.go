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
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/AleutianAI/CodeScout/services/llm"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

// convertToolDefs translates the tool catalog into the wire schema shared by
// all providers. Required parameter names are sorted for a stable wire form.
func convertToolDefs(defs []tools.ToolDefinition) []llm.ToolDef {
	if len(defs) == 0 {
		return nil
	}
	wire := make([]llm.ToolDef, 0, len(defs))
	for _, def := range defs {
		properties := make(map[string]llm.ToolParamDef, len(def.Parameters))
		var required []string
		for name, param := range def.Parameters {
			p := llm.ToolParamDef{
				Type:        string(param.Type),
				Description: param.Description,
			}
			if param.Type == tools.ParamTypeArray {
				items := string(param.Items)
				if items == "" {
					items = string(tools.ParamTypeString)
				}
				p.Items = &llm.ToolParamDef{Type: items}
			}
			properties[name] = p
			if param.Required {
				required = append(required, name)
			}
		}
		sort.Strings(required)

		wire = append(wire, llm.ToolDef{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        def.Name,
				Description: def.Description,
				Parameters: llm.ToolParameters{
					Type:       "object",
					Properties: properties,
					Required:   required,
				},
			},
		})
	}
	return wire
}

// convertMessages translates the request into provider chat messages,
// prepending the system prompt when present.
func convertMessages(request *Request) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(request.Messages)+1)
	if request.SystemPrompt != "" {
		messages = append(messages, llm.ChatMessage{
			Role:    "system",
			Content: request.SystemPrompt,
		})
	}
	for _, msg := range request.Messages {
		m := llm.ChatMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			ToolName:   msg.ToolName,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, llm.ToolCallResponse{
				ID:        tc.ID,
				Name:      tc.Name,
				Arguments: tc.Arguments,
			})
		}
		messages = append(messages, m)
	}
	return messages
}

// convertToolCalls translates provider tool calls back to gateway form,
// assigning a synthetic UUID wherever the provider omitted the ID.
func convertToolCalls(calls []llm.ToolCallResponse) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]ToolCall, 0, len(calls))
	for _, tc := range calls {
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		args := tc.Arguments
		if len(args) == 0 {
			args = json.RawMessage(`{}`)
		}
		out = append(out, ToolCall{ID: id, Name: tc.Name, Arguments: args})
	}
	return out
}

// buildParams maps request knobs onto provider generation parameters.
func buildParams(request *Request) llm.GenerationParams {
	params := llm.GenerationParams{}
	if request.MaxTokens > 0 {
		maxTokens := request.MaxTokens
		params.MaxTokens = &maxTokens
	}
	if request.Temperature >= 0 {
		temp := float32(request.Temperature)
		params.Temperature = &temp
	}
	switch request.RequireTool {
	case RequireNone:
	case RequireAny:
		params.ToolChoice = llm.ToolChoiceAny
	default:
		params.ToolChoice = llm.ToolChoiceNamed
		params.ToolName = request.RequireTool
	}
	return params
}

// estimateTokens approximates the token count of text as len/4. Used only
// when a provider does not report real usage.
func estimateTokens(text string) int {
	return len(text) / 4
}

// estimateInputTokens sums the estimated size of all chat messages.
func estimateInputTokens(messages []llm.ChatMessage) int {
	total := 0
	for _, msg := range messages {
		total += estimateTokens(msg.Content)
		for _, tc := range msg.ToolCalls {
			total += estimateTokens(string(tc.Arguments))
		}
	}
	return total
}

// fillUsage copies provider-reported usage, falling back to estimates when
// the provider reported nothing.
func fillUsage(reported llm.TokenUsage, messages []llm.ChatMessage, content string) Usage {
	u := Usage{
		InputTokens:  reported.InputTokens,
		OutputTokens: reported.OutputTokens,
	}
	if u.InputTokens == 0 {
		u.InputTokens = estimateInputTokens(messages)
	}
	if u.OutputTokens == 0 {
		u.OutputTokens = estimateTokens(content)
	}
	return u
}
