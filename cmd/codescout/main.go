// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command codescout runs one agentic code search from the terminal.
//
// The agent walks the project with text tools (no structural index is built
// here), asking the configured LLM for the next action each round until it
// answers, aborts, or exhausts its token budget.
//
// Usage:
//
//	go run ./cmd/codescout -- "where is the retry logic?"
//	go run ./cmd/codescout --dir /path/to/project "how are sessions stored?"
//
// With Anthropic:
//
//	ANTHROPIC_API_KEY=sk-... CLAUDE_MODEL=claude-sonnet-4-20250514 \
//	  go run ./cmd/codescout "where is the retry logic?"
//
// With Ollama:
//
//	OLLAMA_BASE_URL=http://localhost:11434 OLLAMA_MODEL=qwen3:8b \
//	  go run ./cmd/codescout "where is the retry logic?"
//
// With a persistent summary cache:
//
//	go run ./cmd/codescout --cache-dir ~/.codescout/cache "..."
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CodeScout/services/llm"
	"github.com/AleutianAI/CodeScout/services/search/agent"
	"github.com/AleutianAI/CodeScout/services/search/analyzer"
	"github.com/AleutianAI/CodeScout/services/search/gateway"
	badgerstore "github.com/AleutianAI/CodeScout/services/search/storage/badger"
	"github.com/AleutianAI/CodeScout/services/search/tools"
)

// Flag values for the root command.
var (
	searchDir   string
	cacheDir    string
	provider    string
	tokenBudget int
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "codescout [query...]",
		Short: "Agentic code search over a project directory",
		Long: "codescout answers a natural-language question about a codebase by\n" +
			"letting an LLM drive search tools over the project tree.",
		Args: cobra.MinimumNArgs(1),
		Run:  runSearch,
	}

	rootCmd.Flags().StringVar(&searchDir, "dir", ".", "project root to search")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the persistent summary cache (disabled when empty)")
	rootCmd.Flags().StringVar(&provider, "provider", "auto", "LLM provider: anthropic, ollama, or auto")
	rootCmd.Flags().IntVar(&tokenBudget, "budget", agent.DefaultTokenBudget, "action-history token budget")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSearch(_ *cobra.Command, args []string) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	query := strings.Join(args, " ")

	gw, err := buildGateway()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	backend, err := analyzer.NewDirAnalyzer(searchDir)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	cfg := agent.DefaultConfig()
	cfg.TokenBudget = tokenBudget
	cfg.Logger = logger
	if cacheDir != "" {
		storeCfg := badgerstore.DefaultConfig()
		storeCfg.Path = cacheDir
		storeCfg.Logger = logger
		db, err := badgerstore.OpenDB(storeCfg)
		if err != nil {
			log.Fatalf("Error: opening summary cache: %v", err)
		}
		defer db.Close()
		cfg.Cache = agent.NewBadgerSummaryCache(db)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := agent.New(query, backend, gw, tools.NewRegistry(backend), cfg)
	artifact, err := a.Execute(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	printArtifact(artifact)
}

// buildGateway picks the provider from the flag, falling back to whichever
// client the environment is configured for.
func buildGateway() (gateway.Client, error) {
	switch provider {
	case "anthropic":
		client, err := llm.NewAnthropicClient()
		if err != nil {
			return nil, err
		}
		return gateway.NewAnthropicGateway(client), nil
	case "ollama":
		client, err := llm.NewOllamaClient()
		if err != nil {
			return nil, err
		}
		return gateway.NewOllamaGateway(client), nil
	case "auto":
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			client, err := llm.NewAnthropicClient()
			if err != nil {
				return nil, err
			}
			return gateway.NewAnthropicGateway(client), nil
		}
		if os.Getenv("OLLAMA_BASE_URL") != "" {
			client, err := llm.NewOllamaClient()
			if err != nil {
				return nil, err
			}
			return gateway.NewOllamaGateway(client), nil
		}
		return nil, fmt.Errorf("no provider configured: set ANTHROPIC_API_KEY or OLLAMA_BASE_URL, or pass --provider")
	default:
		return nil, fmt.Errorf("unknown provider %q (want anthropic, ollama, or auto)", provider)
	}
}

func printArtifact(artifact agent.Artifact) {
	switch result := artifact.(type) {
	case *agent.SearchArtifact:
		fmt.Printf("\nAnswer:\n%s\n", result.Explanation)
		if len(result.SourceFiles) > 0 {
			fmt.Println("\nSources:")
			for i, file := range result.SourceFiles {
				fmt.Printf("%d. %s\n", i+1, file)
			}
		}
	case *agent.NoteArtifact:
		fmt.Printf("\n%s\n%s\n", result.Title, result.Body)
	default:
		fmt.Printf("\n%v\n", artifact)
	}
}
