// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Wire Types
// =============================================================================

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

type ollamaToolCall struct {
	Function ollamaToolCallFunction `json:"function"`
}

type ollamaToolCallFunction struct {
	Name string `json:"name"`
	// Arguments arrive as a JSON object, not a string.
	Arguments json.RawMessage `json:"arguments"`
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Tools    []ToolDef              `json:"tools,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message         ollamaMessage `json:"message"`
	CreatedAt       string        `json:"created_at"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// =============================================================================
// Client Implementation
// =============================================================================

// OllamaClient talks to a local Ollama server's /api/chat endpoint.
//
// Description:
//
//	Ollama accepts the OpenAI-style tools array directly, so ToolDef needs
//	no translation. Tool calls come back without IDs; callers that need
//	stable IDs must assign synthetic ones.
//
// Thread Safety: OllamaClient is safe for concurrent use.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllamaClientWithConfig creates an OllamaClient with explicit configuration.
//
// Inputs:
//   - baseURL: The Ollama server base URL (e.g., "http://localhost:11434").
//   - model: The model name (e.g., "qwen3:32b").
//
// Outputs:
//   - *OllamaClient: The configured client.
func NewOllamaClientWithConfig(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
	}
}

// NewOllamaClient creates an OllamaClient from OLLAMA_BASE_URL and
// OLLAMA_MODEL.
func NewOllamaClient() (*OllamaClient, error) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	model := os.Getenv("OLLAMA_MODEL")
	if baseURL == "" {
		return nil, fmt.Errorf("ollama: OLLAMA_BASE_URL environment variable not set")
	}
	if model == "" {
		slog.Warn("OLLAMA_MODEL not set, defaulting", "model", "qwen3:32b")
		model = "qwen3:32b"
	}
	slog.Info("Initializing Ollama client", "base_url", baseURL, "default_model", model)
	return NewOllamaClientWithConfig(baseURL, model), nil
}

// Model implements ProviderClient.
func (o *OllamaClient) Model() string {
	return o.model
}

// Chat implements ProviderClient with a plain text completion.
func (o *OllamaClient) Chat(ctx context.Context, messages []ChatMessage,
	params GenerationParams) (string, error) {

	result, err := o.ChatWithTools(ctx, messages, params, nil)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// ChatWithTools sends a chat request with tool definitions and returns tool calls.
//
// Description:
//
//	Converts ChatMessage history to the Ollama wire format and posts to
//	/api/chat with streaming disabled. Ollama has no tool_choice parameter;
//	callers that require a tool call must validate the response themselves.
//
// Inputs:
//   - ctx: Context for cancellation and timeout.
//   - messages: Conversation history with tool metadata.
//   - params: Generation parameters. ToolChoice is ignored.
//   - tools: Tool definitions. May be nil for plain chat.
//
// Outputs:
//   - *ChatWithToolsResult: Content, tool calls, and token usage.
//   - error: Non-nil on failure.
//
// Thread Safety: This method is safe for concurrent use.
func (o *OllamaClient) ChatWithTools(ctx context.Context, messages []ChatMessage,
	params GenerationParams, tools []ToolDef) (*ChatWithToolsResult, error) {

	slog.Debug("ChatWithTools via Ollama",
		slog.String("model", o.model),
		slog.Int("messages", len(messages)),
		slog.Int("tools", len(tools)),
	)

	apiMessages := make([]ollamaMessage, 0, len(messages))
	for _, msg := range messages {
		m := ollamaMessage{Role: msg.Role, Content: msg.Content}
		// Ollama tool results use role "tool" with plain content; IDs are
		// not part of its wire format.
		for _, tc := range msg.ToolCalls {
			args := tc.Arguments
			if len(args) == 0 {
				args = json.RawMessage(`{}`)
			}
			m.ToolCalls = append(m.ToolCalls, ollamaToolCall{
				Function: ollamaToolCallFunction{Name: tc.Name, Arguments: args},
			})
		}
		apiMessages = append(apiMessages, m)
	}

	options := make(map[string]interface{})
	if params.Temperature != nil {
		options["temperature"] = *params.Temperature
	}
	if params.TopK != nil {
		options["top_k"] = *params.TopK
	}
	if params.TopP != nil {
		options["top_p"] = *params.TopP
	}
	if params.MaxTokens != nil {
		options["num_predict"] = *params.MaxTokens
	}
	if len(params.Stop) > 0 {
		options["stop"] = params.Stop
	}

	payload := ollamaChatRequest{
		Model:    o.model,
		Messages: apiMessages,
		Stream:   false,
		Tools:    tools,
		Options:  options,
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshaling chat request: %w", err)
	}

	chatURL := o.baseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", chatURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("ollama: creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: sending request to %s: %w", chatURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama: reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			var errResp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(respBody, &errResp); err == nil &&
				strings.Contains(errResp.Error, "model") && strings.Contains(errResp.Error, "not found") {
				slog.Warn("Ollama model not found", "model", o.model)
				return nil, fmt.Errorf("model '%s' not found. Please run: 'ollama pull %s'", o.model, o.model)
			}
		}
		slog.Error("Ollama chat returned an error",
			"status_code", resp.StatusCode,
			"response", SafeLogString(string(respBody)),
		)
		return nil, fmt.Errorf("ollama: chat failed with status %d: %s", resp.StatusCode, SafeLogString(string(respBody)))
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &ollamaResp); err != nil {
		slog.Error("Failed to parse JSON chat response from Ollama", "error", err)
		return nil, fmt.Errorf("ollama: parsing chat response: %w", err)
	}

	result := &ChatWithToolsResult{
		Content: ollamaResp.Message.Content,
		Usage: TokenUsage{
			InputTokens:  ollamaResp.PromptEvalCount,
			OutputTokens: ollamaResp.EvalCount,
		},
	}
	for _, tc := range ollamaResp.Message.ToolCalls {
		args := tc.Function.Arguments
		if len(args) == 0 {
			args = json.RawMessage(`{}`)
		}
		result.ToolCalls = append(result.ToolCalls, ToolCallResponse{
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	if len(result.ToolCalls) > 0 {
		result.StopReason = "tool_use"
	} else {
		result.StopReason = "end"
	}

	return result, nil
}
