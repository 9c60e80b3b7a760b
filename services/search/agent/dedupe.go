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
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
)

// dedupe rewrites a duplicate call into a related-classes probe.
//
// A call is a duplicate when every one of its signatures has already been
// seen. The replacement probes get_related_classes over the full tracked
// set. If the probe itself is a full duplicate, no second rewrite is
// attempted: beast mode latches and the original call runs as-is, so the
// loop converges through forced termination instead of retrying forever.
// Duplicate detection needs tracked names to build the probe, so it is
// skipped entirely when the analyzer is empty.
func (a *Agent) dedupe(call gateway.ToolCall) gateway.ToolCall {
	if a.analyzer.IsEmpty() {
		return call
	}

	sigs := signaturesFor(call)
	if !a.allSeen(sigs) {
		return call
	}

	a.logger.Debug("Duplicate tool call detected; forging related-classes probe",
		slog.String("tool", call.Name))
	forged := a.relatedClassesProbe()

	if a.allSeen(signaturesFor(forged)) {
		a.logger.Debug("Related-classes probe would also be a duplicate; latching beast mode")
		duplicateCallsTotal.WithLabelValues("exhausted").Inc()
		a.latchBeastMode("duplicate_exhaustion")
		return call
	}

	duplicateCallsTotal.WithLabelValues("rewritten").Inc()
	return forged
}

// allSeen reports whether every signature is already in the accumulated
// set.
func (a *Agent) allSeen(sigs []string) bool {
	if len(sigs) == 0 {
		return false
	}
	for _, sig := range sigs {
		if _, ok := a.seenSignatures[sig]; !ok {
			return false
		}
	}
	return true
}

// recordSignatures adds a call's signatures to the accumulated set before
// it executes. The set only ever grows.
func (a *Agent) recordSignatures(call gateway.ToolCall) {
	for _, sig := range signaturesFor(call) {
		a.seenSignatures[sig] = struct{}{}
	}
}

// relatedClassesProbe builds a get_related_classes call over everything
// tracked so far, giving the model related classes from all discoveries
// instead of its repeated request.
func (a *Agent) relatedClassesProbe() gateway.ToolCall {
	names := a.trackedNames()
	sort.Strings(names)

	args, err := json.Marshal(map[string]any{"class_names": names})
	if err != nil {
		args = []byte(`{"class_names":[]}`)
	}
	return gateway.ToolCall{
		ID:        "call_" + uuid.NewString(),
		Name:      "get_related_classes",
		Arguments: args,
	}
}

// latchBeastMode sets the one-way beast-mode latch.
func (a *Agent) latchBeastMode(trigger string) {
	if a.beastMode {
		return
	}
	a.beastMode = true
	beastLatchesTotal.WithLabelValues(trigger).Inc()
	a.logger.Info("Beast mode latched", slog.String("trigger", trigger))
}
