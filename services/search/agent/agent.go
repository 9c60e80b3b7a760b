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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/CodeScout/services/search/analyzer"
	"github.com/AleutianAI/CodeScout/services/search/gateway"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

// defaultAbortExplanation substitutes for a blank abort explanation.
const defaultAbortExplanation = "No explanation provided by agent."

// mayBeLarge lists the tools whose results can be big enough to summarize.
var mayBeLarge = map[string]bool{
	"search_symbols":      true,
	"get_usages":          true,
	"get_class_sources":   true,
	"search_substrings":   true,
	"search_filenames":    true,
	"get_file_contents":   true,
	"get_related_classes": true,
}

// Agent drives one search run. See the package documentation for the
// round structure.
//
// Thread Safety: single-use, single-goroutine. Construct with New, call
// Execute once, discard.
type Agent struct {
	query     string
	analyzer  analyzer.Analyzer
	gateway   gateway.Client
	registry  *tools.Registry
	cfg       Config
	logger    *slog.Logger
	fragments []ContextFragment

	ledger         *Ledger
	knowledge      []KnowledgeEntry
	initialSummary *summaryJob
	seenSignatures map[string]struct{}
	tracked        map[string]struct{}

	// One-way latches. Recomputed controls read them, never clear them.
	textSearchUnlocked bool
	symbolsFound       bool
	beastMode          bool

	totalUsage gateway.Usage
}

// New builds an Agent for one query. Optional context fragments seed the
// initial relevance evaluation.
func New(query string, backend analyzer.Analyzer, gw gateway.Client, registry *tools.Registry, cfg Config, fragments ...ContextFragment) *Agent {
	cfg = cfg.withDefaults()
	return &Agent{
		query:          query,
		analyzer:       backend,
		gateway:        gw,
		registry:       registry,
		cfg:            cfg,
		logger:         cfg.Logger,
		fragments:      fragments,
		ledger:         &Ledger{},
		seenSignatures: make(map[string]struct{}),
		tracked:        make(map[string]struct{}),
	}
}

// Execute runs the search to completion.
//
// Outputs:
//   - Artifact: a *SearchArtifact for an accepted answer, or a
//     *NoteArtifact for abort, budget-exhaustion, and error paths.
//   - error: non-nil only for unrecoverable failures (cancellation,
//     gateway errors); the Artifact is nil in that case.
func (a *Agent) Execute(ctx context.Context) (Artifact, error) {
	tracer := otel.Tracer(agentTracerName)
	ctx, span := tracer.Start(ctx, "agent.Execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", a.query),
		attribute.Bool("search.analyzer_empty", a.analyzer.IsEmpty()),
	)

	start := time.Now()
	artifact, outcome, err := a.run(ctx)
	duration := time.Since(start)

	searchRunsTotal.WithLabelValues(outcome).Inc()
	searchRunDuration.Observe(duration.Seconds())
	span.SetAttributes(
		attribute.String("search.outcome", outcome),
		attribute.Int("search.rounds", a.ledger.Len()),
		attribute.Int("search.tokens_total", a.totalUsage.Total()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	a.logger.Info("Search run finished",
		slog.String("query", a.query),
		slog.String("outcome", outcome),
		slog.Duration("duration", duration),
		slog.Int("ledger_entries", a.ledger.Len()),
		slog.Int("input_tokens", a.totalUsage.InputTokens),
		slog.Int("output_tokens", a.totalUsage.OutputTokens),
	)
	return artifact, err
}

// run is the orchestration loop. It returns the artifact, the metrics
// outcome label, and any unrecoverable error.
func (a *Agent) run(ctx context.Context) (Artifact, string, error) {
	if err := a.evaluateInitialContext(ctx); err != nil {
		return nil, "error", err
	}

	for {
		a.resolveInitialSummary()

		if err := ctx.Err(); err != nil {
			return nil, "error", err
		}

		if a.ledger.TokenSize() > a.cfg.TokenBudget*95/100 {
			a.logger.Info("Stopping search; action history exceeds token budget",
				slog.Int("budget", a.cfg.TokenBudget))
			return &NoteArtifact{
				Title: "Search Ended: " + a.query,
				Body:  "No final answer provided; the action history exhausted the token budget.",
			}, "budget", nil
		}

		a.waitForPenultimateSummary(ctx)
		if err := ctx.Err(); err != nil {
			return nil, "error", err
		}

		// Budget pressure forces convergence once there is something to
		// answer with.
		if a.symbolsFound && !a.beastMode && a.ledger.TokenSize() > a.cfg.TokenBudget*8/10 {
			a.latchBeastMode("budget_pressure")
		}

		controls := computeControls(a.analyzer.IsEmpty(), a.ledger.Len(), len(a.knowledge),
			a.textSearchUnlocked, a.beastMode)

		searchRoundsTotal.Inc()
		resp, err := a.gateway.Propose(ctx, a.buildRequest(controls))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				a.logger.Info("Search cancelled during gateway call")
				return nil, "error", ctxErr
			}
			var emptyErr *gateway.EmptyResponseError
			if errors.As(err, &emptyErr) {
				a.logger.Warn("Gateway returned an empty response; giving up search")
				return &NoteArtifact{
					Title: "Search Failed: " + a.query,
					Body:  "The model stopped proposing tool calls before reaching an answer.",
				}, "no_action", nil
			}
			return nil, "error", fmt.Errorf("requesting next action: %w", err)
		}
		a.totalUsage.InputTokens += resp.Usage.InputTokens
		a.totalUsage.OutputTokens += resp.Usage.OutputTokens

		calls := isolateTerminal(resp.ToolCalls)
		if len(calls) == 0 {
			a.logger.Warn("Gateway returned no tool calls; giving up search")
			return &NoteArtifact{
				Title: "Search Failed: " + a.query,
				Body:  "The model stopped proposing tool calls before reaching an answer.",
			}, "no_action", nil
		}

		executed := a.executeRound(ctx, calls)

		first := executed[0]
		switch first.Call.Name {
		case tools.ToolAnswer:
			explanation := first.Outcome.Text
			if !first.Outcome.Succeeded() || isBlankExplanation(explanation) {
				a.logger.Error("Model provided no valid answer explanation")
				return &NoteArtifact{
					Title: "Search Error: " + a.query,
					Body:  "Agent failed to generate a valid answer explanation.",
				}, "error", nil
			}
			a.logger.Debug("Search complete")
			return a.buildFinalArtifact(ctx, first), "answer", nil
		case tools.ToolAbort:
			explanation := first.Outcome.Text
			if !first.Outcome.Succeeded() || isBlankExplanation(explanation) {
				explanation = defaultAbortExplanation
			}
			a.logger.Debug("Search aborted by agent")
			return &NoteArtifact{
				Title: "Search Aborted: " + a.query,
				Body:  explanation,
			}, "abort", nil
		}
	}
}

// evaluateInitialContext runs the one-shot relevance evaluation of any
// caller-provided context and launches its async condensation. The only
// gateway call of the run that does not require a tool.
func (a *Agent) evaluateInitialContext(ctx context.Context) error {
	if len(a.fragments) == 0 {
		return nil
	}

	a.logger.Info("Evaluating initial context",
		slog.Int("fragments", len(a.fragments)))
	resp, err := a.gateway.Propose(ctx, &gateway.Request{
		SystemPrompt: contextEvalPrompt,
		Messages: []gateway.Message{{
			Role:    "user",
			Content: fmt.Sprintf("<query>%s</query>\n\n%s", a.query, renderFragments(a.fragments)),
		}},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("evaluating initial context: %w", err)
	}
	a.totalUsage.InputTokens += resp.Usage.InputTokens
	a.totalUsage.OutputTokens += resp.Usage.OutputTokens
	if resp.Content == "" {
		return fmt.Errorf("evaluating initial context: empty evaluation from %s", a.gateway.Model())
	}

	a.knowledge = append(a.knowledge, KnowledgeEntry{Label: "Initial context", Text: resp.Content})
	a.initialSummary = a.startInitialSummary(ctx, resp.Content)
	return nil
}

// executeRound runs the round's calls sequentially through the registry.
// Sequential execution keeps latch updates and summarization scheduling
// deterministic. Signatures and argument-derived class names are recorded
// before each call runs.
func (a *Agent) executeRound(ctx context.Context, calls []gateway.ToolCall) []*HistoryEntry {
	executed := make([]*HistoryEntry, 0, len(calls))
	for _, call := range calls {
		call = a.dedupe(call)
		a.recordSignatures(call)
		a.trackFromCall(call)

		a.logger.Info("Executing tool",
			slog.String("tool", call.Name),
			slog.String("params", callParameterInfo(call)),
		)
		outcome := a.registry.Execute(ctx, call.Name, call.Arguments)
		toolExecutionsTotal.WithLabelValues(call.Name, string(outcome.Status)).Inc()

		entry := &HistoryEntry{Call: call, Outcome: outcome}
		a.postProcess(ctx, entry)
		a.updateStateFromResult(entry)
		a.ledger.Append(entry)
		executed = append(executed, entry)
	}
	return executed
}

// postProcess schedules summarization for oversized results, or applies
// prefix compression to symbol lists. Summarization wins when both could
// apply; the compressed form would otherwise mask the scheduled summary.
func (a *Agent) postProcess(ctx context.Context, entry *HistoryEntry) {
	if !entry.Outcome.Succeeded() {
		return
	}

	name := entry.Call.Name
	text := entry.Outcome.Text

	if mayBeLarge[name] && estimateTokens(text) > a.cfg.SummarizeThreshold {
		a.logger.Debug("Queueing summarization", slog.String("tool", name))
		entry.summary = a.startSummary(ctx, entry)
		return
	}

	if name != "search_symbols" && name != "get_related_classes" {
		return
	}
	// Skip empty, error, and already-structured results.
	if strings.HasPrefix(text, "No ") || strings.HasPrefix(text, "[") {
		return
	}
	label := "Relevant symbols"
	if name == "get_related_classes" {
		label = "Related classes"
	}
	entry.Compressed = compressSymbols(label, splitSymbolList(text))
}

// updateStateFromResult applies tool-specific latch updates and mines the
// result text for class names.
func (a *Agent) updateStateFromResult(entry *HistoryEntry) {
	if !entry.Outcome.Succeeded() {
		return
	}

	switch entry.Call.Name {
	case "search_symbols":
		// A successful symbol search proves the index exists, found or
		// not; text search unlocks either way.
		a.textSearchUnlocked = true
		if !strings.HasPrefix(entry.Outcome.Text, "No definitions found") {
			a.symbolsFound = true
			a.trackFromText(entry.Outcome.Text)
		}
	case "get_usages", "get_related_classes", "get_class_skeletons",
		"get_class_sources", "get_method_sources":
		a.trackFromText(entry.Outcome.Text)
	}
}

// isolateTerminal enforces that answer/abort are solitary: when a terminal
// call arrives alongside others, only the terminal call survives the
// round.
func isolateTerminal(calls []gateway.ToolCall) []gateway.ToolCall {
	for _, call := range calls {
		if tools.IsTerminal(call.Name) {
			return []gateway.ToolCall{call}
		}
	}
	return calls
}

// isBlankExplanation reports whether a terminal explanation is empty or
// the model's "Success" placeholder.
func isBlankExplanation(explanation string) bool {
	trimmed := strings.TrimSpace(explanation)
	return trimmed == "" || trimmed == "Success"
}
