// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"encoding/binary"
	"testing"
)

// buildGeoSpec builds a tree exercising the three referenced-only type
// descriptors: a sequence, a fixed array and a structure, none of
// which appear anywhere in a module's own named-child arrays.
func buildGeoSpec() (root, shape *Node) {
	root = &Node{Kind: KindSpecification}
	geo := &Node{Kind: KindModule, Name: "Geo", Parent: root, InterfaceCount: 1}
	root.Children = []*Node{geo}

	doubleType := func() *Node { return &Node{Kind: KindType, PrimType: PrimF64} }

	point := &Node{Kind: KindStructType, Name: "Point", Parent: geo}
	point.Children = []*Node{
		{Kind: KindMember, Name: "x", TypeSpec: doubleType()},
		{Kind: KindMember, Name: "y", TypeSpec: doubleType()},
	}
	geo.Children = []*Node{point}

	shape = &Node{Kind: KindInterface, Name: "Shape", Parent: geo, MethodCount: 3}
	geo.Children = append(geo.Children, shape)

	coordsSeq := &Node{Kind: KindSequenceType, TypeSpec: doubleType()}
	coords := &Node{Kind: KindAttribute, Name: "coords", Parent: shape, TypeSpec: coordsSeq, ReadOnly: true}

	originScoped := &Node{Kind: KindScopedName, ScopedPath: []string{"Point"}}
	origin := &Node{Kind: KindAttribute, Name: "origin", Parent: shape, TypeSpec: originScoped, ReadOnly: true}

	matrixArray := &Node{
		Kind: KindArrayDcl, TypeSpec: doubleType(), DimensionCount: 2,
		Dimensions: []*Expr{{Kind: ExprLitInt, IntVal: 2}, {Kind: ExprLitInt, IntVal: 3}},
	}
	matrix := &Node{Kind: KindAttribute, Name: "matrix", Parent: shape, TypeSpec: matrixArray, ReadOnly: true}

	shape.Children = []*Node{coords, origin, matrix}
	return root, shape
}

func TestEmitReferencedTypeDescriptors(t *testing.T) {
	spec, shape := buildGeoSpec()

	layout, err := PlanLayout(spec, nil)
	if err != nil {
		t.Fatalf("PlanLayout failed: %v", err)
	}
	if len(layout.TypeRefs) != 3 {
		t.Fatalf("TypeRefs has %d entries, want 3 (sequence, struct, array)", len(layout.TypeRefs))
	}

	image, err := Emit(spec, layout, nil)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	coords, origin, matrix := shape.Children[0], shape.Children[1], shape.Children[2]

	coordsSpec := binary.LittleEndian.Uint32(image[coords.Offset : coords.Offset+4])
	seqOff := Spec(coordsSpec).Offset()
	seqElemSpec := Spec(binary.LittleEndian.Uint32(image[seqOff : seqOff+4]))
	if !seqElemSpec.IsPrimitive() || seqElemSpec.PrimitiveIndex() != PrimF64 {
		t.Errorf("sequence element spec = %#x, want primitive double", seqElemSpec)
	}
	seqMax := binary.LittleEndian.Uint32(image[seqOff+4 : seqOff+8])
	if seqMax != 0 {
		t.Errorf("unbounded sequence max = %d, want 0", seqMax)
	}

	originSpec := binary.LittleEndian.Uint32(image[origin.Offset : origin.Offset+4])
	structOff := Spec(originSpec).Offset()
	memberCount := binary.LittleEndian.Uint32(image[structOff : structOff+4])
	if memberCount != 2 {
		t.Errorf("Point member count = %d, want 2", memberCount)
	}
	firstMemberSpec := Spec(binary.LittleEndian.Uint32(image[structOff+SizeStructFixed:]))
	if !firstMemberSpec.IsPrimitive() || firstMemberSpec.PrimitiveIndex() != PrimF64 {
		t.Errorf("Point.x spec = %#x, want primitive double", firstMemberSpec)
	}

	matrixSpec := binary.LittleEndian.Uint32(image[matrix.Offset : matrix.Offset+4])
	arrOff := Spec(matrixSpec).Offset()
	dimCount := binary.LittleEndian.Uint32(image[arrOff+4 : arrOff+8])
	if dimCount != 2 {
		t.Errorf("array dimension count = %d, want 2", dimCount)
	}
	dim0 := binary.LittleEndian.Uint32(image[arrOff+SizeArrayFixed:])
	dim1 := binary.LittleEndian.Uint32(image[arrOff+SizeArrayFixed+4:])
	if dim0 != 2 || dim1 != 3 {
		t.Errorf("array dimensions = (%d,%d), want (2,3)", dim0, dim1)
	}
}
