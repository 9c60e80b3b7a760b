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
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/CodeScout/services/llm"
)

// OllamaGateway adapts OllamaClient to the Client interface.
//
// Description:
//
//	Wraps the raw OllamaClient with request conversion, span and metric
//	recording, and empty-response detection. Ollama does not support a
//	tool_choice parameter, so RequireTool cannot be enforced at the wire
//	level; callers must validate the reply. Ollama also omits tool call
//	IDs, so the gateway assigns synthetic UUIDs.
//
// Thread Safety: OllamaGateway is safe for concurrent use.
type OllamaGateway struct {
	client *llm.OllamaClient
}

// NewOllamaGateway creates an OllamaGateway.
//
// Inputs:
//   - client: The OllamaClient to wrap. Must not be nil.
//
// Outputs:
//   - *OllamaGateway: The configured gateway.
func NewOllamaGateway(client *llm.OllamaClient) *OllamaGateway {
	return &OllamaGateway{client: client}
}

// Name implements Client.
func (g *OllamaGateway) Name() string {
	return "ollama"
}

// Model implements Client.
func (g *OllamaGateway) Model() string {
	return g.client.Model()
}

// Propose implements Client.
func (g *OllamaGateway) Propose(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		slog.Warn("OllamaGateway.Propose called with nil request")
		return &Response{StopReason: "end", Model: g.Model()}, nil
	}

	chatMessages := convertMessages(request)
	toolDefs := convertToolDefs(request.Tools)
	params := buildParams(request)

	ctx, span := otel.Tracer(gatewayTracerName).Start(ctx, "gateway.Ollama.Propose",
		trace.WithAttributes(
			attribute.String("provider", "ollama"),
			attribute.String("model", g.Model()),
			attribute.Int("message_count", len(chatMessages)),
			attribute.Int("tool_count", len(toolDefs)),
			attribute.String("require_tool", request.RequireTool),
		),
	)
	defer span.End()

	incActiveRequests("ollama")
	defer decActiveRequests("ollama")

	slog.Debug("OllamaGateway sending request",
		slog.String("model", g.Model()),
		slog.Int("message_count", len(chatMessages)),
		slog.Int("tool_count", len(toolDefs)),
	)

	startTime := time.Now()
	result, err := g.client.ChatWithTools(ctx, chatMessages, params, toolDefs)
	duration := time.Since(startTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordCallMetrics("ollama", duration, Usage{}, err)
		return nil, err
	}

	if len(strings.TrimSpace(result.Content)) == 0 && len(result.ToolCalls) == 0 {
		emptyErr := &EmptyResponseError{
			Duration:     duration,
			MessageCount: len(chatMessages),
			Model:        g.Model(),
		}
		span.RecordError(emptyErr)
		span.SetStatus(codes.Error, emptyErr.Error())
		recordCallMetrics("ollama", duration, Usage{}, emptyErr)
		return nil, emptyErr
	}

	usage := fillUsage(result.Usage, chatMessages, result.Content)

	span.AddEvent("response_received", trace.WithAttributes(
		attribute.Int("input_tokens", usage.InputTokens),
		attribute.Int("output_tokens", usage.OutputTokens),
		attribute.Int("tool_calls", len(result.ToolCalls)),
		attribute.String("stop_reason", result.StopReason),
	))
	recordCallMetrics("ollama", duration, usage, nil)

	return &Response{
		Content:    result.Content,
		ToolCalls:  convertToolCalls(result.ToolCalls),
		StopReason: result.StopReason,
		Usage:      usage,
		Duration:   duration,
		Model:      g.Model(),
	}, nil
}
