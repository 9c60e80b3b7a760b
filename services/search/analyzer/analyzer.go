// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analyzer defines the code-analysis capability interface consumed by
// the search orchestrator and its tools.
//
// The orchestrator never builds or owns an index; it is handed an Analyzer
// and asks it structured questions (symbol search, usage lookup, skeletons,
// call graphs, file resolution). Backends that cannot answer structural
// questions report IsEmpty() == true, which restricts the agent to the
// text-oriented tools.
//
// Naming conventions:
//
//	Type names are fully qualified with '.' separators. A type nested inside
//	another uses a '$' separator (pkg.Outer$Inner), which is what the
//	orchestrator's inner-type coalescing keys on.
//
// Thread Safety:
//
//	Implementations must be safe for concurrent read access; the orchestrator
//	may query the analyzer while background summarization is in flight.
package analyzer

import "context"

// Analyzer answers structured questions about a fixed snapshot of a codebase.
//
// All methods take a context for cancellation and return an error only for
// backend failures; "nothing found" is an empty result, not an error.
type Analyzer interface {
	// IsEmpty reports whether structural analysis is available. When true,
	// only the text-oriented methods (SearchSubstrings, SearchFilenames,
	// FileContents) return useful results.
	IsEmpty() bool

	// SearchSymbols returns fully qualified symbol names matching any of the
	// given regular-expression patterns.
	SearchSymbols(ctx context.Context, patterns []string) ([]string, error)

	// SearchSubstrings returns paths of files whose contents contain any of
	// the given patterns.
	SearchSubstrings(ctx context.Context, patterns []string) ([]string, error)

	// SearchFilenames returns paths of files whose names match any of the
	// given patterns.
	SearchFilenames(ctx context.Context, patterns []string) ([]string, error)

	// FileContents returns the concatenated contents of the given files,
	// each preceded by a header naming the file.
	FileContents(ctx context.Context, paths []string) (string, error)

	// Usages returns a textual report of every use site of the given
	// symbols (methods, fields, or types).
	Usages(ctx context.Context, symbols []string) (string, error)

	// RelatedClasses returns types structurally related to the given seed
	// types, most relevant first (the backend's pagerank-style expansion).
	RelatedClasses(ctx context.Context, classNames []string) ([]string, error)

	// Skeletons returns declaration-level outlines of the given types
	// (signatures without bodies).
	Skeletons(ctx context.Context, classNames []string) (string, error)

	// ClassSources returns the full source of the given types.
	ClassSources(ctx context.Context, classNames []string) (string, error)

	// MethodSources returns the full source of the given fully qualified
	// methods.
	MethodSources(ctx context.Context, methodNames []string) (string, error)

	// CallGraphTo returns a textual call graph of paths leading into the
	// given method.
	CallGraphTo(ctx context.Context, methodName string) (string, error)

	// CallGraphFrom returns a textual call graph of calls made from the
	// given method.
	CallGraphFrom(ctx context.Context, methodName string) (string, error)

	// FileFor resolves a fully qualified type name to the file that defines
	// it. The second return is false when the type is unknown.
	FileFor(ctx context.Context, className string) (string, bool)
}
