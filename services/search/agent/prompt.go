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
	"fmt"
	"strings"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
)

// systemPreamble anchors every round's system prompt.
const systemPreamble = `You are a code search agent that helps find relevant code based on queries.
Even if not explicitly stated, the query should be understood to refer to the current codebase,
and not a general-knowledge question.
Your goal is to find code definitions, implementations, and usages that answer the user's query.
`

// baseInstructions open every round's user message after the action
// history.
const baseInstructions = `Determine the next tool to call to search for code related to the query, or answer if you have enough
information to answer the query.
- Round trips are expensive! If you have multiple search terms to learn about, group them in a single call.
- Of course, abort and answer tools cannot be composed with others.
`

// broadSearchGuidance is appended before any symbols have been found,
// biasing the model toward wide multi-pattern searches.
const broadSearchGuidance = `Start with broad searches, and then explore more specific code units once you find a foothold.
For example, if the user is asking
[how do Cassandra reads prevent compaction from invalidating the sstables they are referencing]
then we should start with search_symbols([".*SSTable.*", ".*Compaction.*", ".*reference.*"]),
instead of a more specific pattern like ".*SSTable.*compaction.*" or ".*compaction.*invalidation.*".
But once you have found specific relevant classes or methods, you can ask for them directly, you don't
need to make another symbol request first.
Don't forget to review your previous steps -- the search results won't change so don't repeat yourself!
`

// beastModeInstructions replace everything else once the run must
// converge: answer or abort now, from what is already known.
const beastModeInstructions = `<beast-mode>
MAXIMUM PRIORITY OVERRIDE!
- YOU MUST FINALIZE RESULTS NOW WITH AVAILABLE INFORMATION
- USE DISCOVERED CODE UNITS TO PROVIDE BEST POSSIBLE ANSWER,
- OR EXPLAIN WHY YOU DID NOT SUCCEED
</beast-mode>
`

// contextEvalPrompt drives the one-shot relevance evaluation of
// pre-existing context fragments before the first round.
const contextEvalPrompt = `You are an expert software architect
evaluating which code fragments are relevant to a user query.
Review the following list of code fragments and select the ones most relevant to the query.
Make sure to include the fully qualified source (class, method, etc) as well as the code.`

// buildRequest assembles the round's gateway request from the current
// state and controls. Pure with respect to agent state: all latching has
// already happened by the time it runs.
func (a *Agent) buildRequest(c Controls) *gateway.Request {
	var system strings.Builder
	system.WriteString(systemPreamble)
	if len(a.knowledge) > 0 {
		system.WriteString("\n<knowledge>\n")
		for _, entry := range a.knowledge {
			fmt.Fprintf(&system, "<entry description=%q>\n%s\n</entry>\n", entry.Label, entry.Text)
		}
		system.WriteString("</knowledge>\n")
	}

	var user strings.Builder
	user.WriteString(a.ledger.Render())
	switch {
	case c.BeastMode:
		user.WriteString(beastModeInstructions)
	case a.symbolsFound:
		user.WriteString(baseInstructions)
	default:
		user.WriteString(baseInstructions)
		user.WriteString(broadSearchGuidance)
	}
	fmt.Fprintf(&user, "<query>\n%s\n</query>\n", a.query)

	return &gateway.Request{
		SystemPrompt: system.String(),
		Messages:     []gateway.Message{{Role: "user", Content: user.String()}},
		Tools:        a.registry.Definitions(a.allowedToolNames(c)),
		RequireTool:  gateway.RequireAny,
		MaxTokens:    a.cfg.MaxTokens,
		Temperature:  a.cfg.Temperature,
	}
}

// renderFragments renders the caller-provided context fragments for the
// relevance evaluation.
func renderFragments(fragments []ContextFragment) string {
	blocks := make([]string, 0, len(fragments))
	for _, f := range fragments {
		blocks = append(blocks, fmt.Sprintf("<fragment description=%q sources=%q>\n%s\n</fragment>",
			f.Description, strings.Join(f.Sources, ", "), f.Text))
	}
	return strings.Join(blocks, "\n\n")
}
