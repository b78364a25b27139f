// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"encoding/binary"
	"testing"
)

// buildWideSpec builds module WideMod { const wchar LETTER = 'A'; const
// wstring GREETING = "Hi"; }, exercising both the inline wchar code-unit
// path and the spilled wstring path.
func buildWideSpec() *Node {
	root := &Node{Kind: KindSpecification}
	mod := &Node{Kind: KindModule, Name: "WideMod", Parent: root, ConstCount: 2}
	root.Children = []*Node{mod}

	letter := &Node{
		Kind: KindConstDcl, Name: "LETTER", Parent: mod,
		PrimType: PrimWChar, Expr: &Expr{Kind: ExprLitChar, CharVal: 'A'},
	}
	greeting := &Node{
		Kind: KindConstDcl, Name: "GREETING", Parent: mod,
		PrimType: PrimWString, Expr: &Expr{Kind: ExprLitString, StringVal: "Hi"},
	}
	mod.Children = []*Node{letter, greeting}
	return root
}

func TestEmitWideCharConstant(t *testing.T) {
	spec := buildWideSpec()

	layout, err := PlanLayout(spec, nil)
	if err != nil {
		t.Fatalf("PlanLayout failed: %v", err)
	}
	image, err := Emit(spec, layout, nil)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	letter := spec.Children[0].Children[0]
	if letter.Offset == 0 {
		t.Fatal("LETTER never got a record offset during emission")
	}
	got := binary.LittleEndian.Uint32(image[letter.Offset+8 : letter.Offset+12])
	if got != uint32('A') {
		t.Errorf("LETTER inline value = %#x, want %#x", got, uint32('A'))
	}
}

func TestEmitWideStringConstant(t *testing.T) {
	spec := buildWideSpec()

	layout, err := PlanLayout(spec, nil)
	if err != nil {
		t.Fatalf("PlanLayout failed: %v", err)
	}
	image, err := Emit(spec, layout, nil)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	greeting := spec.Children[0].Children[1]
	if greeting.ValueOffset == 0 {
		t.Fatal("GREETING never got a spill offset during layout")
	}

	wantBytes, err := encodeWideString("Hi")
	if err != nil {
		t.Fatalf("encodeWideString failed: %v", err)
	}

	valueOffset := binary.LittleEndian.Uint32(image[greeting.Offset+8 : greeting.Offset+12])
	if valueOffset != greeting.ValueOffset {
		t.Errorf("GREETING's inline value field = %#x, want its spill offset %#x", valueOffset, greeting.ValueOffset)
	}

	gotBytes := image[greeting.ValueOffset : greeting.ValueOffset+uint32(len(wantBytes))]
	for i, b := range wantBytes {
		if gotBytes[i] != b {
			t.Fatalf("GREETING spilled bytes = % x, want % x", gotBytes, wantBytes)
		}
	}

	nulOffset := greeting.ValueOffset + uint32(len(wantBytes))
	if image[nulOffset] != 0 || image[nulOffset+1] != 0 {
		t.Errorf("GREETING spilled value missing its wide NUL terminator")
	}
}

func TestWideCodeUnitRejectsNonBMP(t *testing.T) {
	if _, err := wideCodeUnit(0x1F600); err == nil {
		t.Fatal("wideCodeUnit accepted a non-BMP rune, want an error")
	}
}
