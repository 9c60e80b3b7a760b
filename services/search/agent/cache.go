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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	badgerstore "github.com/AleutianAI/CodeScout/services/search/storage/badger"
)

// summaryCacheKeyPrefix namespaces summary keys inside a shared Badger
// instance. Bump the version segment when the summarization prompt
// changes.
const summaryCacheKeyPrefix = "search/summary/v1/"

// summaryCacheTTL bounds how long a cached summary survives. Tool results
// are deterministic for a fixed tree, so a week is a safe horizon.
const summaryCacheTTL = 7 * 24 * time.Hour

// SummaryCache stores resolved summarizations across runs. Tool output for
// a fixed codebase snapshot is deterministic, so a summary computed once
// for (model, query, tool, output) stays valid.
//
// Thread Safety: Implementations must be safe for concurrent use;
// summarization goroutines call Get and Put without coordination.
type SummaryCache interface {
	// Get returns the cached summary for a key, and whether it was found.
	Get(ctx context.Context, key string) (string, bool)

	// Put stores a summary. Failures are logged, not returned; caching is
	// best effort.
	Put(ctx context.Context, key, summary string)
}

// summaryCacheKey derives the cache key for one summarization.
func summaryCacheKey(model, query, toolName, output string) string {
	h := sha256.New()
	for _, part := range []string{model, query, toolName, output} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return summaryCacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// BadgerSummaryCache is a SummaryCache over a Badger store with TTLd
// entries. A nil *BadgerSummaryCache is a valid no-op cache.
type BadgerSummaryCache struct {
	db     *badgerstore.DB
	logger *slog.Logger
}

// NewBadgerSummaryCache wraps an open Badger store as a summary cache.
func NewBadgerSummaryCache(db *badgerstore.DB) *BadgerSummaryCache {
	return &BadgerSummaryCache{
		db:     db,
		logger: slog.Default(),
	}
}

// Get implements SummaryCache.
func (c *BadgerSummaryCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.db == nil {
		return "", false
	}
	var summary string
	err := c.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		summary = string(val)
		return nil
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("Summary cache read failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	return summary, true
}

// Put implements SummaryCache.
func (c *BadgerSummaryCache) Put(ctx context.Context, key, summary string) {
	if c == nil || c.db == nil || summary == "" {
		return
	}
	err := c.db.WithTxn(ctx, func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte(summary)).WithTTL(summaryCacheTTL)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn("Summary cache write failed", slog.String("error", err.Error()))
	}
}
