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

// AnthropicGateway adapts AnthropicClient to the Client interface.
//
// Description:
//
//	Wraps the raw AnthropicClient with request conversion, tool-choice
//	forcing, span and metric recording, and empty-response detection.
//
// Thread Safety: AnthropicGateway is safe for concurrent use.
type AnthropicGateway struct {
	client *llm.AnthropicClient
}

// NewAnthropicGateway creates an AnthropicGateway.
//
// Inputs:
//   - client: The AnthropicClient to wrap. Must not be nil.
//
// Outputs:
//   - *AnthropicGateway: The configured gateway.
func NewAnthropicGateway(client *llm.AnthropicClient) *AnthropicGateway {
	return &AnthropicGateway{client: client}
}

// Name implements Client.
func (g *AnthropicGateway) Name() string {
	return "anthropic"
}

// Model implements Client.
func (g *AnthropicGateway) Model() string {
	return g.client.Model()
}

// Propose implements Client.
//
// Description:
//
//	Converts the request to the Anthropic wire format and records a span
//	plus call metrics. A reply with neither content nor tool calls is
//	returned as *EmptyResponseError.
func (g *AnthropicGateway) Propose(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		slog.Warn("AnthropicGateway.Propose called with nil request")
		return &Response{StopReason: "end", Model: g.Model()}, nil
	}

	chatMessages := convertMessages(request)
	toolDefs := convertToolDefs(request.Tools)
	params := buildParams(request)

	ctx, span := otel.Tracer(gatewayTracerName).Start(ctx, "gateway.Anthropic.Propose",
		trace.WithAttributes(
			attribute.String("provider", "anthropic"),
			attribute.String("model", g.Model()),
			attribute.Int("message_count", len(chatMessages)),
			attribute.Int("tool_count", len(toolDefs)),
			attribute.String("require_tool", request.RequireTool),
		),
	)
	defer span.End()

	incActiveRequests("anthropic")
	defer decActiveRequests("anthropic")

	slog.Debug("AnthropicGateway sending request",
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
		recordCallMetrics("anthropic", duration, Usage{}, err)
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
		recordCallMetrics("anthropic", duration, Usage{}, emptyErr)
		return nil, emptyErr
	}

	usage := fillUsage(result.Usage, chatMessages, result.Content)

	span.AddEvent("response_received", trace.WithAttributes(
		attribute.Int("input_tokens", usage.InputTokens),
		attribute.Int("output_tokens", usage.OutputTokens),
		attribute.Int("tool_calls", len(result.ToolCalls)),
		attribute.String("stop_reason", result.StopReason),
	))
	recordCallMetrics("anthropic", duration, usage, nil)

	return &Response{
		Content:    result.Content,
		ToolCalls:  convertToolCalls(result.ToolCalls),
		StopReason: result.StopReason,
		Usage:      usage,
		Duration:   duration,
		Model:      g.Model(),
	}, nil
}
