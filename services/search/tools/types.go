// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tools provides the tool catalog and execution framework for the
// search agent.
//
// Tools are the agent's only mechanism for looking at the codebase. Each tool
// is described by a ToolDefinition (name, parameters, category) and executed
// through the Registry, which turns the LLM's JSON argument payloads into an
// Outcome. Malformed payloads and unknown tool names surface as Failure
// outcomes, never as panics.
//
// Thread Safety:
//
//	All types in this package are safe for concurrent use once constructed.
package tools

import (
	"context"
	"fmt"
	"time"
)

// Reserved terminal tool names. A terminal call ends the search run and must
// never be combined with other calls in the same round.
const (
	ToolAnswer = "answer"
	ToolAbort  = "abort"
)

// IsTerminal reports whether the named tool ends the search run.
func IsTerminal(name string) bool {
	return name == ToolAnswer || name == ToolAbort
}

// ToolCategory groups tools by the capability they need, which is what the
// agent's per-round controls toggle.
type ToolCategory string

const (
	// CategorySearch includes symbol search and usage lookup.
	CategorySearch ToolCategory = "search"

	// CategoryInspect includes skeleton, source, and call-graph retrieval.
	CategoryInspect ToolCategory = "inspect"

	// CategoryPagerank includes related-class expansion.
	CategoryPagerank ToolCategory = "pagerank"

	// CategoryText includes substring, filename, and file-content tools,
	// which work without structural analysis.
	CategoryText ToolCategory = "text"

	// CategoryTerminal includes the answer/abort pair.
	CategoryTerminal ToolCategory = "terminal"
)

// String returns the string representation of the category.
func (c ToolCategory) String() string {
	return string(c)
}

// ParamType is the JSON Schema type of a tool parameter.
type ParamType string

const (
	// ParamTypeString is a string parameter.
	ParamTypeString ParamType = "string"

	// ParamTypeArray is an array parameter; Items gives the element type.
	ParamTypeArray ParamType = "array"
)

// ParamDef describes a single tool parameter.
type ParamDef struct {
	// Type is the parameter's JSON Schema type.
	Type ParamType

	// Description explains the parameter to the LLM.
	Description string

	// Required marks the parameter as mandatory.
	Required bool

	// Items is the element type for array parameters.
	Items ParamType
}

// ToolDefinition describes a tool to the LLM and to the agent's controls.
type ToolDefinition struct {
	// Name is the tool's wire name (snake_case).
	Name string

	// Description tells the LLM what the tool does and when to use it.
	Description string

	// Parameters maps parameter names to their definitions.
	Parameters map[string]ParamDef

	// Category determines which control flag gates this tool.
	Category ToolCategory
}

// Tool is a single executable operation over the analysis backend.
//
// Execute receives parameters already unmarshalled from the LLM's JSON
// payload. It returns the textual result, or an error which the Registry
// records as a Failure outcome.
type Tool interface {
	// Name returns the tool's wire name.
	Name() string

	// Definition returns the tool's definition.
	Definition() ToolDefinition

	// Execute runs the tool.
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// Status is the outcome status of a tool execution.
type Status string

const (
	// StatusSuccess indicates the tool ran and produced a result.
	StatusSuccess Status = "success"

	// StatusFailure indicates the tool could not run or failed.
	StatusFailure Status = "failure"
)

// Outcome is the recorded result of one tool execution.
type Outcome struct {
	// Status indicates success or failure.
	Status Status

	// Text is the raw result on success, or a human-readable cause on
	// failure.
	Text string

	// Duration is how long execution took.
	Duration time.Duration
}

// Succeeded reports whether the outcome is a success.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// Success builds a success outcome.
func Success(text string) Outcome {
	return Outcome{Status: StatusSuccess, Text: text}
}

// Failure builds a failure outcome from a format string.
func Failure(format string, args ...any) Outcome {
	return Outcome{Status: StatusFailure, Text: fmt.Sprintf(format, args...)}
}
