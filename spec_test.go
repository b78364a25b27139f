// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "testing"

func TestSpecPrimitiveRoundTrip(t *testing.T) {
	s := SpecPrimitive(PrimString)
	if !s.IsPrimitive() {
		t.Fatalf("SpecPrimitive(%v).IsPrimitive() = false", PrimString)
	}
	if s.PrimitiveIndex() != PrimString {
		t.Errorf("PrimitiveIndex() = %v, want %v", s.PrimitiveIndex(), PrimString)
	}
}

func TestSpecOffsetRoundTrip(t *testing.T) {
	s := SpecOffset(0x1234)
	if s.IsPrimitive() {
		t.Fatalf("SpecOffset(...).IsPrimitive() = true")
	}
	if s.Offset() != 0x1234 {
		t.Errorf("Offset() = %#x, want 0x1234", s.Offset())
	}
}

func TestAlign4(t *testing.T) {
	tests := []struct{ in, want uint32 }{
		{0, 0}, {1, 4}, {2, 4}, {3, 4}, {4, 4}, {5, 8},
	}
	for _, tt := range tests {
		if got := align4(tt.in); got != tt.want {
			t.Errorf("align4(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConstValueWidth(t *testing.T) {
	tests := []struct {
		k    PrimitiveKind
		want int
	}{
		{PrimS32, 4},
		{PrimBool, 4},
		{PrimS64, 8},
		{PrimU64, 8},
		{PrimF64, 8},
		{PrimF128, 16},
		{PrimString, -1},
		{PrimWString, -1},
	}
	for _, tt := range tests {
		if got := constValueWidth(tt.k); got != tt.want {
			t.Errorf("constValueWidth(%v) = %d, want %d", tt.k, got, tt.want)
		}
	}
}

func TestPrimitiveByName(t *testing.T) {
	tests := []struct {
		name string
		want PrimitiveKind
		ok   bool
	}{
		{"short", PrimS16, true},
		{"unsigned long long", PrimU64, true},
		{"Object", PrimObject, true},
		{"nonsense", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := primitiveByName(tt.name)
		if ok != tt.ok {
			t.Fatalf("primitiveByName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Errorf("primitiveByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestModuleAndInterfaceSizeIncludeConstTail(t *testing.T) {
	if got, want := moduleSize(1, 2, 3), uint32(SizeModuleFixed+4*3+SizeConstant*3); got != want {
		t.Errorf("moduleSize(1,2,3) = %d, want %d", got, want)
	}
	if got, want := interfaceSize(4, 2), uint32(SizeInterfaceFixed+4*4+SizeConstant*2); got != want {
		t.Errorf("interfaceSize(4,2) = %d, want %d", got, want)
	}
}
