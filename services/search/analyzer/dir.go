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
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// dirScanConcurrency bounds the number of files read in parallel during a
// substring scan. Disk-bound work saturates quickly; 8 readers is enough.
const dirScanConcurrency = 8

// maxScannedFileSize skips files larger than this during substring scans.
// Large binaries and bundled assets are never useful search hits.
const maxScannedFileSize = 1 << 20 // 1 MiB

// skippedDirs are directory names never descended into during a walk.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"build":        true,
	"dist":         true,
}

// DirAnalyzer is a text-only Analyzer over a directory tree.
//
// Description:
//
//	Answers only the text-oriented questions (filename search, substring
//	search, file contents) by walking the tree on demand. IsEmpty() is true,
//	so the orchestrator restricts itself to text tools — the expected mode
//	when no structural index has been built for a project.
//
// Thread Safety: Safe for concurrent use; the analyzer holds no mutable state.
type DirAnalyzer struct {
	root   string
	logger *slog.Logger
}

// NewDirAnalyzer creates a DirAnalyzer rooted at the given directory.
//
// Inputs:
//   - root: Project root directory. Must exist.
//
// Outputs:
//   - *DirAnalyzer: The analyzer.
//   - error: Non-nil if root is not a directory.
func NewDirAnalyzer(root string) (*DirAnalyzer, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("analyzer root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("analyzer root %s is not a directory", root)
	}
	return &DirAnalyzer{root: root, logger: slog.Default()}, nil
}

// IsEmpty implements Analyzer. Always true: DirAnalyzer has no symbol index.
func (a *DirAnalyzer) IsEmpty() bool { return true }

// SearchSymbols implements Analyzer. Structural search is unavailable.
func (a *DirAnalyzer) SearchSymbols(ctx context.Context, patterns []string) ([]string, error) {
	return nil, nil
}

// SearchSubstrings implements Analyzer.
//
// Description:
//
//	Scans every regular file under the root for any of the given literal
//	patterns, reading files concurrently. Oversized files and well-known
//	dependency directories are skipped.
func (a *DirAnalyzer) SearchSubstrings(ctx context.Context, patterns []string) ([]string, error) {
	paths, err := a.listFiles()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var hits []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dirScanConcurrency)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			full := filepath.Join(a.root, path)
			info, err := os.Stat(full)
			if err != nil || info.Size() > maxScannedFileSize {
				return nil
			}
			data, err := os.ReadFile(full)
			if err != nil {
				a.logger.Debug("Skipping unreadable file", slog.String("path", path))
				return nil
			}
			content := string(data)
			for _, p := range patterns {
				if strings.Contains(content, p) {
					mu.Lock()
					hits = append(hits, path)
					mu.Unlock()
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(hits)
	return hits, nil
}

// SearchFilenames implements Analyzer.
func (a *DirAnalyzer) SearchFilenames(ctx context.Context, patterns []string) ([]string, error) {
	regexps := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		regexps = append(regexps, re)
	}

	paths, err := a.listFiles()
	if err != nil {
		return nil, err
	}
	var hits []string
	for _, path := range paths {
		for _, re := range regexps {
			if re.MatchString(path) {
				hits = append(hits, path)
				break
			}
		}
	}
	sort.Strings(hits)
	return hits, nil
}

// FileContents implements Analyzer.
func (a *DirAnalyzer) FileContents(ctx context.Context, paths []string) (string, error) {
	var b strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Join(a.root, path))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		fmt.Fprintf(&b, "<file path=%q>\n%s\n</file>\n", path, data)
	}
	return b.String(), nil
}

// Usages implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) Usages(ctx context.Context, symbols []string) (string, error) {
	return "", fmt.Errorf("usage lookup requires structural analysis")
}

// RelatedClasses implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) RelatedClasses(ctx context.Context, classNames []string) ([]string, error) {
	return nil, fmt.Errorf("related-class lookup requires structural analysis")
}

// Skeletons implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) Skeletons(ctx context.Context, classNames []string) (string, error) {
	return "", fmt.Errorf("skeleton extraction requires structural analysis")
}

// ClassSources implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) ClassSources(ctx context.Context, classNames []string) (string, error) {
	return "", fmt.Errorf("class source lookup requires structural analysis")
}

// MethodSources implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) MethodSources(ctx context.Context, methodNames []string) (string, error) {
	return "", fmt.Errorf("method source lookup requires structural analysis")
}

// CallGraphTo implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) CallGraphTo(ctx context.Context, methodName string) (string, error) {
	return "", fmt.Errorf("call graph requires structural analysis")
}

// CallGraphFrom implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) CallGraphFrom(ctx context.Context, methodName string) (string, error) {
	return "", fmt.Errorf("call graph requires structural analysis")
}

// FileFor implements Analyzer. Structural lookup is unavailable.
func (a *DirAnalyzer) FileFor(ctx context.Context, className string) (string, bool) {
	return "", false
}

// listFiles returns root-relative paths of all regular files under the root,
// skipping dependency and VCS directories.
func (a *DirAnalyzer) listFiles() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(a.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", a.root, err)
	}
	return paths, nil
}
