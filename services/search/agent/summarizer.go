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
	"fmt"
	"log/slog"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
)

// resultSummaryPrompt is the system prompt for per-result summarization.
// Extraction only: the summary is all the agent will ever see of this
// result, so it must carry the relevant code chunks verbatim and must not
// speculate beyond the input.
const resultSummaryPrompt = `You are a code expert that extracts ALL information from the input that is relevant to the given query.
Your partner has included his reasoning about what he is looking for; your work will be the only knowledge
about this tool call that he will have to work with, he will not see the full result, so make it comprehensive!
Be particularly sure to include ALL relevant source code chunks so he can reference them in his final answer,
but DO NOT speculate or guess: your answer must ONLY include information in this result!
Here are examples of good and bad extractions:
  - Bad: Found several classes and methods related to the query
  - Good: Found classes org.foo.bar.X and org.foo.baz.Y, and methods org.foo.qux.Z.method1 and org.foo.fizz.W.method2
  - Bad: The Foo class implements the Bar algorithm
  - Good: The Foo class implements the Bar algorithm.  Here are all the relevant lines of code:
    ` + "```" + `
    public class Foo {
    ...
    }
    ` + "```"

// initialContextSummaryPrompt condenses the one-shot relevance evaluation
// of pre-existing context into the knowledge entry carried by every
// subsequent prompt.
const initialContextSummaryPrompt = `You are a code expert that extracts ALL information from the input that is relevant to the given query.
The input is an evaluation of existing code context against the query. Your summary will represent
the relevant parts of the existing context for future reasoning steps.
Be particularly sure to include ALL relevant source code chunks so they can be referenced later,
but DO NOT speculate or guess: your answer must ONLY include information present in the input!`

// summaryJob is one background summarization. The goroutine that runs it
// writes text and err exactly once before closing done; the control loop
// only reads them after done is closed.
type summaryJob struct {
	done chan struct{}
	text string
	err  error
}

// resolved returns the job's result without blocking. ok is false while
// the job is still running.
func (j *summaryJob) resolved() (text string, err error, ok bool) {
	select {
	case <-j.done:
		return j.text, j.err, true
	default:
		return "", nil, false
	}
}

// startSummary launches the summarization of one ledger entry's result.
//
// The job runs on a context detached from the loop's cancellation so an
// interrupted run abandons it without tearing it down mid-call
// (fire-and-forget on interrupt). The cache is consulted first; a fresh
// summary is written back on success.
func (a *Agent) startSummary(ctx context.Context, entry *HistoryEntry) *summaryJob {
	job := &summaryJob{done: make(chan struct{})}
	bg := context.WithoutCancel(ctx)

	go func() {
		defer close(job.done)
		job.text, job.err = a.summarizeResult(bg, entry)
	}()
	return job
}

// summarizeResult produces the query-focused extraction of one result.
func (a *Agent) summarizeResult(ctx context.Context, entry *HistoryEntry) (string, error) {
	key := summaryCacheKey(a.gateway.Model(), a.query, entry.Call.Name, entry.Outcome.Text)
	if a.cfg.Cache != nil {
		if summary, ok := a.cfg.Cache.Get(ctx, key); ok {
			a.logger.Debug("Summary cache hit", slog.String("tool", entry.Call.Name))
			summariesTotal.WithLabelValues("cache").Inc()
			return summary, nil
		}
	}

	reasoning := ""
	if args, err := parseArguments(entry.Call.Arguments); err == nil {
		if r, ok := args["reasoning"].(string); ok {
			reasoning = r
		}
	}

	user := fmt.Sprintf("<query>\n%s\n</query>\n<reasoning>\n%s\n</reasoning>\n<tool name=%q %s>\n%s\n</tool>\n",
		a.query, reasoning, entry.Call.Name, callParameterInfo(entry.Call), entry.Outcome.Text)

	resp, err := a.gateway.Propose(ctx, &gateway.Request{
		SystemPrompt: resultSummaryPrompt,
		Messages:     []gateway.Message{{Role: "user", Content: user}},
		Temperature:  a.cfg.Temperature,
		MaxTokens:    a.cfg.MaxTokens,
	})
	if err != nil {
		summariesTotal.WithLabelValues("fallback").Inc()
		return "", fmt.Errorf("summarizing %s result: %w", entry.Call.Name, err)
	}

	summariesTotal.WithLabelValues("llm").Inc()
	if a.cfg.Cache != nil {
		a.cfg.Cache.Put(ctx, key, resp.Content)
	}
	return resp.Content, nil
}

// startInitialSummary launches the one-shot condensation of the initial
// context evaluation.
func (a *Agent) startInitialSummary(ctx context.Context, evaluation string) *summaryJob {
	job := &summaryJob{done: make(chan struct{})}
	bg := context.WithoutCancel(ctx)

	go func() {
		defer close(job.done)
		user := fmt.Sprintf("<query>\n%s\n</query>\n<information>\n%s\n</information>\n", a.query, evaluation)
		resp, err := a.gateway.Propose(bg, &gateway.Request{
			SystemPrompt: initialContextSummaryPrompt,
			Messages:     []gateway.Message{{Role: "user", Content: user}},
			Temperature:  a.cfg.Temperature,
			MaxTokens:    a.cfg.MaxTokens,
		})
		if err != nil {
			job.err = fmt.Errorf("summarizing initial context: %w", err)
			return
		}
		job.text = resp.Content
	}()
	return job
}

// resolveInitialSummary replaces the initial-context knowledge entry with
// its summary once the background job has finished. Non-blocking; runs at
// most once per run.
func (a *Agent) resolveInitialSummary() {
	if a.initialSummary == nil {
		return
	}
	text, err, ok := a.initialSummary.resolved()
	if !ok {
		return
	}
	a.initialSummary = nil
	if err != nil || text == "" {
		// Keep the full evaluation in knowledge when the summary fails.
		a.logger.Warn("Initial context summary failed; keeping full evaluation",
			slog.Any("error", err))
		return
	}
	a.knowledge[0] = KnowledgeEntry{Label: "Initial context summary", Text: text}
	a.logger.Debug("Initial context summary applied")
}

// waitForPenultimateSummary blocks until the second-to-last ledger entry's
// summarization resolves, keeping at most one summarization outstanding
// behind the newest entry. On gateway failure the raw result text becomes
// the learnings. Returns early when ctx is cancelled, leaving the job
// pending.
func (a *Agent) waitForPenultimateSummary(ctx context.Context) {
	step := a.ledger.Penultimate()
	if step == nil || step.Learnings != "" || step.summary == nil {
		return
	}

	select {
	case <-step.summary.done:
	case <-ctx.Done():
		return
	}

	text, err, _ := step.summary.resolved()
	step.summary = nil
	if err != nil || text == "" {
		a.logger.Warn("Summarization failed; keeping raw result",
			slog.String("tool", step.Call.Name),
			slog.Any("error", err))
		step.Learnings = step.Outcome.Text
		return
	}
	step.Learnings = text
	a.logger.Debug("Summarization complete", slog.String("tool", step.Call.Name))
}
