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

import "log/slog"

const (
	// DefaultTokenBudget caps the rendered action history at a 64K
	// context window.
	DefaultTokenBudget = 64000

	// DefaultSummarizeThreshold queues summarization for tool results
	// above this estimated token count (about 120 lines of code).
	DefaultSummarizeThreshold = 1000
)

// Config tunes one search run.
type Config struct {
	// TokenBudget is the action-history budget in estimated tokens. The
	// run terminates without answering once the rendered ledger exceeds
	// 95% of it, and latches beast mode at 80% once symbols are found.
	TokenBudget int

	// SummarizeThreshold is the estimated token count above which a
	// may-be-large tool result is summarized asynchronously.
	SummarizeThreshold int

	// Temperature is the sampling temperature for gateway calls.
	// Negative means provider default.
	Temperature float64

	// MaxTokens caps each completion. Zero uses the provider default.
	MaxTokens int

	// Cache stores resolved summarizations across runs. Nil disables
	// caching.
	Cache SummaryCache

	// Logger overrides slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		TokenBudget:        DefaultTokenBudget,
		SummarizeThreshold: DefaultSummarizeThreshold,
		Temperature:        0,
		Logger:             slog.Default(),
	}
}

// withDefaults fills zero values so a partially populated Config behaves
// like DefaultConfig for the fields it left unset.
func (c Config) withDefaults() Config {
	if c.TokenBudget <= 0 {
		c.TokenBudget = DefaultTokenBudget
	}
	if c.SummarizeThreshold <= 0 {
		c.SummarizeThreshold = DefaultSummarizeThreshold
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
