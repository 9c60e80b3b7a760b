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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

// estimateTokens approximates the token count of a string. Four characters
// per token is close enough for budget checks against a 64K window.
func estimateTokens(s string) int {
	return len(s) / 4
}

// Ledger is the append-only sequence of executed tool calls.
//
// Entries are only ever appended and annotated; the rendered form is what
// the prompt builder and the budget check consume.
type Ledger struct {
	entries []*HistoryEntry
}

// Append records an executed call.
func (l *Ledger) Append(e *HistoryEntry) {
	l.entries = append(l.entries, e)
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns the underlying entry slice. Callers must not reorder or
// remove entries.
func (l *Ledger) Entries() []*HistoryEntry {
	return l.entries
}

// Penultimate returns the second-to-last entry, or nil when the ledger has
// fewer than two entries. It is the only entry the loop ever blocks on for
// summarization.
func (l *Ledger) Penultimate() *HistoryEntry {
	if len(l.entries) < 2 {
		return nil
	}
	return l.entries[len(l.entries)-2]
}

// Render returns the ledger as numbered step blocks for the prompt.
func (l *Ledger) Render() string {
	if len(l.entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n<action-history>\n")
	for i, e := range l.entries {
		b.WriteString(renderStep(e, i+1))
	}
	b.WriteString("</action-history>\n")
	return b.String()
}

// TokenSize returns the estimated token count of the rendered ledger.
func (l *Ledger) TokenSize() int {
	return estimateTokens(l.Render())
}

// renderStep formats one entry as a step block.
func renderStep(e *HistoryEntry, sequence int) string {
	return fmt.Sprintf("<step sequence=\"%d\" tool=\"%s\" %s>\n %s\n</step>\n",
		sequence, e.Call.Name, callParameterInfo(e.Call), e.displayResult())
}

// callParameterInfo returns a compact human-readable rendering of the
// call's distinguishing parameter, used in step headers and summarization
// prompts.
func callParameterInfo(call gateway.ToolCall) string {
	if tools.IsTerminal(call.Name) {
		return "finalizing"
	}
	args, err := parseArguments(call.Arguments)
	if err != nil {
		return ""
	}
	if param, ok := listParamFor(call.Name); ok {
		return formatListParameter(args, param)
	}
	switch call.Name {
	case "get_call_graph_to", "get_call_graph_from":
		if v, ok := args["method_name"].(string); ok {
			return v
		}
	}
	return ""
}

// formatListParameter renders a list argument back to its JSON form. The
// JSON list keeps the model precise when it refers back to earlier steps.
func formatListParameter(args map[string]any, param string) string {
	items := stringList(args, param)
	if len(items) == 0 {
		return ""
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s=%s", param, encoded)
}
