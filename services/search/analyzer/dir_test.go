// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeTree lays out files under a temp root. Keys are slash-relative paths.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func TestNewDirAnalyzerRejectsMissingRoot(t *testing.T) {
	if _, err := NewDirAnalyzer(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing root")
	}
	file := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDirAnalyzer(file); err == nil {
		t.Error("expected an error for a non-directory root")
	}
}

func TestDirAnalyzerIsTextOnly(t *testing.T) {
	root := writeTree(t, map[string]string{"main.go": "package main"})
	a, err := NewDirAnalyzer(root)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if !a.IsEmpty() {
		t.Error("DirAnalyzer must report empty: it has no symbol index")
	}
	if syms, err := a.SearchSymbols(ctx, []string{"main"}); err != nil || len(syms) != 0 {
		t.Errorf("SearchSymbols = %v, %v; want none", syms, err)
	}
	if _, err := a.Usages(ctx, []string{"main"}); err == nil {
		t.Error("structural lookups should fail")
	}
	if _, ok := a.FileFor(ctx, "main"); ok {
		t.Error("FileFor should always miss")
	}
}

func TestDirAnalyzerSearchSubstrings(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/retry.go":        "func Retry() { backoff() }",
		"src/other.go":        "func Other() {}",
		"docs/notes.md":       "retry with backoff",
		"node_modules/dep.js": "backoff everywhere", // skipped dir
	})
	a, err := NewDirAnalyzer(root)
	if err != nil {
		t.Fatal(err)
	}

	hits, err := a.SearchSubstrings(context.Background(), []string{"backoff"})
	if err != nil {
		t.Fatalf("SearchSubstrings() error: %v", err)
	}
	want := []string{"docs/notes.md", "src/retry.go"}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("hits = %v, want %v", hits, want)
	}
}

func TestDirAnalyzerSearchSubstringsCancellation(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "x", "b.txt": "y"})
	a, err := NewDirAnalyzer(root)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.SearchSubstrings(ctx, []string{"x"}); err == nil {
		t.Error("expected a cancellation error")
	}
}

func TestDirAnalyzerSearchFilenames(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/retry.go":      "",
		"src/retry_test.go": "",
		"docs/notes.md":     "",
	})
	a, err := NewDirAnalyzer(root)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	hits, err := a.SearchFilenames(ctx, []string{`retry.*\.go$`})
	if err != nil {
		t.Fatalf("SearchFilenames() error: %v", err)
	}
	want := []string{"src/retry.go", "src/retry_test.go"}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("hits = %v, want %v", hits, want)
	}

	if _, err := a.SearchFilenames(ctx, []string{"("}); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}

func TestDirAnalyzerFileContents(t *testing.T) {
	root := writeTree(t, map[string]string{"src/retry.go": "func Retry() {}"})
	a, err := NewDirAnalyzer(root)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	out, err := a.FileContents(ctx, []string{"src/retry.go"})
	if err != nil {
		t.Fatalf("FileContents() error: %v", err)
	}
	if !strings.Contains(out, `<file path="src/retry.go">`) || !strings.Contains(out, "func Retry()") {
		t.Errorf("FileContents = %q", out)
	}

	if _, err := a.FileContents(ctx, []string{"missing.go"}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
