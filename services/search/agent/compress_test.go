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
	"reflect"
	"testing"
)

func TestCompressSymbols(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		symbols []string
		want    string
	}{
		{
			name:    "common package prefix factored out",
			label:   "Relevant symbols",
			symbols: []string{"com.acme.retry.RetryPolicy", "com.acme.retry.BackoffStrategy"},
			want:    "[Common package prefix: 'com.acme.retry.'] BackoffStrategy, RetryPolicy",
		},
		{
			name:    "no shared package",
			label:   "Relevant symbols",
			symbols: []string{"org.one.Alpha", "com.two.Beta"},
			want:    "Relevant symbols: com.two.Beta, org.one.Alpha",
		},
		{
			name:    "single symbol compresses to simple name",
			label:   "Related classes",
			symbols: []string{"com.acme.Foo"},
			want:    "[Common package prefix: 'com.acme.'] Foo",
		},
		{
			name:    "unqualified names stay verbatim",
			label:   "Relevant symbols",
			symbols: []string{"Foo", "Bar"},
			want:    "Relevant symbols: Bar, Foo",
		},
		{
			name:    "empty list",
			label:   "Related classes",
			symbols: nil,
			want:    "Related classes: None found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compressSymbols(tt.label, tt.symbols)
			if got != tt.want {
				t.Errorf("compressSymbols() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandCompressedListRoundTrip(t *testing.T) {
	symbols := []string{"com.acme.retry.RetryPolicy", "com.acme.retry.BackoffStrategy"}
	compressed := compressSymbols("Relevant symbols", symbols)

	effective, prefix := expandCompressedList(compressed)
	if prefix != "com.acme.retry." {
		t.Errorf("prefix = %q, want %q", prefix, "com.acme.retry.")
	}
	if effective != "BackoffStrategy, RetryPolicy" {
		t.Errorf("effective = %q", effective)
	}
}

func TestExpandCompressedListPassThrough(t *testing.T) {
	effective, prefix := expandCompressedList("com.acme.Foo, com.acme.Bar")
	if prefix != "" || effective != "com.acme.Foo, com.acme.Bar" {
		t.Errorf("expected pass-through, got effective=%q prefix=%q", effective, prefix)
	}
}

func TestSplitSymbolList(t *testing.T) {
	got := splitSymbolList("a.B, a.C,a.D, ")
	want := []string{"a.B", "a.C", "a.D"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSymbolList() = %v, want %v", got, want)
	}
}
