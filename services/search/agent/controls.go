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

import "github.com/AleutianAI/CodeScout/services/search/tools"

// Controls is the per-round flag bundle gating which tool categories the
// model may use. It is recomputed from the ledger and the agent's latches
// at the start of every round, never mutated in place across rounds.
type Controls struct {
	// SearchAllowed gates symbol search and usage lookup.
	SearchAllowed bool

	// InspectAllowed gates skeleton, source, and call-graph retrieval.
	InspectAllowed bool

	// PagerankAllowed gates related-class expansion.
	PagerankAllowed bool

	// TextSearchAllowed gates substring, filename, and file-content tools.
	TextSearchAllowed bool

	// AnswerAllowed gates the terminal pair. True iff there is anything to
	// answer from.
	AnswerAllowed bool

	// BeastMode forces every non-terminal category off.
	BeastMode bool
}

// computeControls derives the round's controls.
//
// With no structural analysis only the text tools are usable. Text search
// additionally unlocks permanently after the first successful symbol
// search: a working symbol index proves substring search is worthwhile.
func computeControls(analyzerEmpty bool, ledgerLen, knowledgeLen int, textSearchUnlocked, beastMode bool) Controls {
	c := Controls{
		AnswerAllowed: ledgerLen > 0 || knowledgeLen > 0,
		BeastMode:     beastMode,
	}
	if beastMode {
		return c
	}
	if analyzerEmpty {
		c.TextSearchAllowed = true
		return c
	}
	c.SearchAllowed = true
	c.InspectAllowed = true
	c.PagerankAllowed = true
	c.TextSearchAllowed = textSearchUnlocked
	return c
}

// allows reports whether a tool category is enabled this round.
func (c Controls) allows(category tools.ToolCategory) bool {
	switch category {
	case tools.CategorySearch:
		return c.SearchAllowed
	case tools.CategoryInspect:
		return c.InspectAllowed
	case tools.CategoryPagerank:
		return c.PagerankAllowed
	case tools.CategoryText:
		return c.TextSearchAllowed
	case tools.CategoryTerminal:
		return c.AnswerAllowed
	default:
		return false
	}
}

// allowedToolNames returns the registry tools enabled this round, sorted.
func (a *Agent) allowedToolNames(c Controls) []string {
	var names []string
	for _, name := range a.registry.Names() {
		t, ok := a.registry.Get(name)
		if !ok {
			continue
		}
		if c.allows(t.Definition().Category) {
			names = append(names, name)
		}
	}
	return names
}
