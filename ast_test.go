// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"encoding/json"
	"testing"
)

// TestPrimitiveKindJSONRoundTrip exercises the real call site
// primitiveByName feeds: an AST document produced by an external front
// end names its primitive types by their canonical IDL keyword, not by
// this package's internal ordinal.
func TestPrimitiveKindJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		k    PrimitiveKind
	}{
		{"long", PrimS32},
		{"long long", PrimS64},
		{"unsigned long long", PrimU64},
		{"wstring", PrimWString},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.k)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", tt.k, err)
		}
		if string(data) != `"`+tt.name+`"` {
			t.Errorf("Marshal(%v) = %s, want %q", tt.k, data, tt.name)
		}

		var got PrimitiveKind
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%q) failed: %v", data, err)
		}
		if got != tt.k {
			t.Errorf("Unmarshal(%q) = %v, want %v", data, got, tt.k)
		}
	}
}

func TestPrimitiveKindUnmarshalRejectsUnknownName(t *testing.T) {
	var k PrimitiveKind
	if err := json.Unmarshal([]byte(`"not-a-type"`), &k); err == nil {
		t.Fatal("Unmarshal accepted an unknown primitive name, want an error")
	}
}

// TestLinkTreeBackfillsParents mirrors the shape a JSON-loaded AST
// takes: parents arrive nil and must be backfilled from Children,
// TypeSpec and ReturnType before the resolver or layout planner runs.
func TestLinkTreeBackfillsParents(t *testing.T) {
	root := &Node{Kind: KindSpecification}
	mod := &Node{Kind: KindModule, Name: "M"}
	attr := &Node{Kind: KindAttribute, Name: "a", TypeSpec: &Node{Kind: KindType, PrimType: PrimS32}}
	mod.Children = []*Node{attr}
	root.Children = []*Node{mod}

	LinkTree(root)

	if mod.Parent != root {
		t.Errorf("mod.Parent = %v, want root", mod.Parent)
	}
	if attr.Parent != mod {
		t.Errorf("attr.Parent = %v, want mod", attr.Parent)
	}
	if attr.TypeSpec.Parent != attr {
		t.Errorf("attr.TypeSpec.Parent = %v, want attr", attr.TypeSpec.Parent)
	}
}
