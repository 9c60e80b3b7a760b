// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent implements the agentic code-search orchestrator.
//
// The Agent drives an LLM through successive rounds of tool invocation to
// locate code relevant to a natural-language query. Each round it renders
// the action history into a prompt, asks the gateway for the next tool
// calls, rewrites duplicate calls into a related-classes probe, executes
// the calls through the tool registry, and post-processes the results
// (async summarization of oversized outputs, prefix compression of symbol
// lists, class-name tracking). The run ends when the model calls answer or
// abort, when the token budget is exhausted, or when the model stops
// proposing calls.
//
// Thread Safety:
//
//	An Agent is single-use and owned by one goroutine; Execute must not be
//	called concurrently. Background summarization goroutines write only to
//	their own job and never touch loop state.
package agent

import (
	"fmt"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

// HistoryEntry is one executed tool call in the action ledger.
//
// The ledger is append-only; entries are never removed, only annotated.
// Learnings and Compressed are post-processing annotations: at most one is
// populated, and until then the raw Outcome.Text is the working
// representation in the prompt.
type HistoryEntry struct {
	// Call is the executed call, after any duplicate rewriting.
	Call gateway.ToolCall

	// Outcome is the registry's result.
	Outcome tools.Outcome

	// Compressed is the prefix-compressed symbol list, when applicable.
	Compressed string

	// Learnings is the resolved summarization of an oversized result.
	Learnings string

	// summary is the in-flight summarization job, nil once resolved.
	summary *summaryJob
}

// displayResult returns the representation of this entry used in prompts:
// learnings when resolved, else the compressed form, else the raw outcome.
func (e *HistoryEntry) displayResult() string {
	if e.Learnings != "" {
		return fmt.Sprintf("<learnings>\n%s\n</learnings>", e.Learnings)
	}
	if e.Compressed != "" {
		return fmt.Sprintf("<result>\n%s\n</result>", e.Compressed)
	}
	kind := "result"
	if !e.Outcome.Succeeded() {
		kind = "error"
	}
	return fmt.Sprintf("<%s>\n%s\n</%s>", kind, e.Outcome.Text, kind)
}

// KnowledgeEntry is a free-form fact injected into every prompt,
// independent of the ledger. Its identity is its list position; the
// initial-context entry is updated in place once its summary resolves.
type KnowledgeEntry struct {
	Label string
	Text  string
}

// ContextFragment is a piece of pre-existing context handed to the agent
// at construction for the initial relevance evaluation.
type ContextFragment struct {
	// Description names the fragment for the evaluation prompt.
	Description string

	// Sources lists the fully qualified code units the fragment covers.
	Sources []string

	// Text is the fragment content.
	Text string
}

// Artifact is the final output of one search run.
type Artifact interface {
	// Kind returns "search" for a result with sources or "note" for
	// abort and error paths.
	Kind() string
}

// SearchArtifact is a successful answer with its resolved source files.
type SearchArtifact struct {
	// Query is the search query the run was started with.
	Query string

	// Explanation is the model's validated answer text.
	Explanation string

	// SourceFiles are the files owning the relevant classes, deduplicated
	// and sorted. Empty when source resolution was skipped or failed.
	SourceFiles []string
}

// Kind implements Artifact.
func (*SearchArtifact) Kind() string { return "search" }

// NoteArtifact is a plain-text result used for abort and error paths.
type NoteArtifact struct {
	Title string
	Body  string
}

// Kind implements Artifact.
func (*NoteArtifact) Kind() string { return "note" }
