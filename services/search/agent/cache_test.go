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
	"strings"
	"sync"
	"testing"

	"github.com/AleutianAI/CodeScout/services/search/gateway"
	badgerstore "github.com/AleutianAI/CodeScout/services/search/storage/badger"
)

// mapSummaryCache is an in-memory SummaryCache for tests.
type mapSummaryCache struct {
	mu      sync.Mutex
	entries map[string]string
	puts    int
}

func newMapSummaryCache() *mapSummaryCache {
	return &mapSummaryCache{entries: make(map[string]string)}
}

func (c *mapSummaryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	return s, ok
}

func (c *mapSummaryCache) Put(_ context.Context, key, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = summary
	c.puts++
}

func TestSummaryCacheKey(t *testing.T) {
	base := summaryCacheKey("m", "q", "search_symbols", "output")
	if !strings.HasPrefix(base, summaryCacheKeyPrefix) {
		t.Errorf("key %q missing prefix %q", base, summaryCacheKeyPrefix)
	}
	if again := summaryCacheKey("m", "q", "search_symbols", "output"); again != base {
		t.Error("key derivation should be deterministic")
	}

	// Every component participates; the separator prevents boundary
	// ambiguity between adjacent components.
	variants := []string{
		summaryCacheKey("m2", "q", "search_symbols", "output"),
		summaryCacheKey("m", "q2", "search_symbols", "output"),
		summaryCacheKey("m", "q", "get_usages", "output"),
		summaryCacheKey("m", "q", "search_symbols", "output2"),
		summaryCacheKey("m", "qsearch", "_symbols", "output"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with the base key", i)
		}
	}
}

func TestBadgerSummaryCacheRoundTrip(t *testing.T) {
	db, err := badgerstore.OpenInMemoryDB()
	if err != nil {
		t.Fatalf("OpenInMemoryDB() error: %v", err)
	}
	defer db.Close()

	cache := NewBadgerSummaryCache(db)
	ctx := context.Background()
	key := summaryCacheKey("m", "q", "get_usages", "out")

	if _, ok := cache.Get(ctx, key); ok {
		t.Fatal("Get on an empty cache should miss")
	}
	cache.Put(ctx, key, "the summary")
	got, ok := cache.Get(ctx, key)
	if !ok || got != "the summary" {
		t.Errorf("Get = %q, %v after Put", got, ok)
	}

	// Empty summaries are not worth storing.
	cache.Put(ctx, "empty", "")
	if _, ok := cache.Get(ctx, "empty"); ok {
		t.Error("empty summary should not be cached")
	}
}

func TestBadgerSummaryCacheNilSafe(t *testing.T) {
	var cache *BadgerSummaryCache
	ctx := context.Background()
	cache.Put(ctx, "k", "v")
	if _, ok := cache.Get(ctx, "k"); ok {
		t.Error("nil cache should always miss")
	}
}

func TestCachedSummarySkipsGateway(t *testing.T) {
	bigReport := "Usage in com.acme.retry.RetryPolicy.apply:\n" + strings.Repeat("x ", 300)
	backend := retryFixture()
	backend.UsageReports["com.acme.retry.RetryPolicy.apply"] = bigReport

	cache := newMapSummaryCache()
	gw := &scriptedGateway{rounds: []*gateway.Response{
		roundOf(call("get_usages", `{"symbols": ["com.acme.retry.RetryPolicy.apply"]}`)),
		roundOf(call("get_class_skeletons", `{"class_names": ["com.acme.retry.RetryPolicy"]}`)),
		roundOf(answerCall("apply handles retries", "com.acme.retry.RetryPolicy")),
	}}
	a := newTestAgent(t, gw, backend)
	a.cfg.SummarizeThreshold = 50
	a.cfg.Cache = cache
	cache.Put(context.Background(),
		summaryCacheKey(gw.Model(), a.query, "get_usages", bigReport),
		"CACHED: apply retries with backoff")

	if _, err := a.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	first := a.ledger.Entries()[0]
	if first.Learnings != "CACHED: apply retries with backoff" {
		t.Errorf("learnings = %q, want the cached summary", first.Learnings)
	}
	if n := len(gw.plainCalls); n != 0 {
		t.Errorf("cache hit should avoid the summarization call, saw %d", n)
	}
	if cache.puts != 1 {
		t.Errorf("cache hit should not re-store, puts = %d", cache.puts)
	}
}

func TestSummaryStoredInCacheAfterLLM(t *testing.T) {
	bigReport := "Usage in com.acme.retry.RetryPolicy.apply:\n" + strings.Repeat("x ", 300)
	backend := retryFixture()
	backend.UsageReports["com.acme.retry.RetryPolicy.apply"] = bigReport

	cache := newMapSummaryCache()
	gw := &scriptedGateway{
		summaryText: "LEARNED: apply retries with backoff",
		rounds: []*gateway.Response{
			roundOf(call("get_usages", `{"symbols": ["com.acme.retry.RetryPolicy.apply"]}`)),
			roundOf(call("get_class_skeletons", `{"class_names": ["com.acme.retry.RetryPolicy"]}`)),
			roundOf(answerCall("apply handles retries", "com.acme.retry.RetryPolicy")),
		},
	}
	a := newTestAgent(t, gw, backend)
	a.cfg.SummarizeThreshold = 50
	a.cfg.Cache = cache

	if _, err := a.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	key := summaryCacheKey(gw.Model(), a.query, "get_usages", bigReport)
	stored, ok := cache.Get(context.Background(), key)
	if !ok || stored != gw.summaryText {
		t.Errorf("cache entry = %q, %v; want the gateway summary stored", stored, ok)
	}
}
