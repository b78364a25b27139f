// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

// Spec is the 32-bit tagged type reference described in spec.md
// section 3 and 6.1: either a primitive index (high bit set) or an
// offset into the type-descriptor region.
type Spec uint32

// PrimitiveBit discriminates a primitive Spec from an offset Spec.
const PrimitiveBit uint32 = 0x8000_0000

// SpecPrimitive builds the Spec for a canonical primitive type.
func SpecPrimitive(k PrimitiveKind) Spec {
	return Spec(PrimitiveBit | uint32(k))
}

// SpecOffset builds the Spec for a type-descriptor record at off.
func SpecOffset(off uint32) Spec { return Spec(off) }

// IsPrimitive reports whether s denotes a canonical primitive rather
// than an offset.
func (s Spec) IsPrimitive() bool { return uint32(s)&PrimitiveBit != 0 }

// PrimitiveIndex returns the primitive index encoded in s. Only
// meaningful when IsPrimitive is true.
func (s Spec) PrimitiveIndex() PrimitiveKind { return PrimitiveKind(uint32(s) &^ PrimitiveBit) }

// Offset returns the file offset encoded in s. Only meaningful when
// IsPrimitive is false.
func (s Spec) Offset() uint32 { return uint32(s) }

// Record size constants. Each mirrors a struct from spec.md section 6.1;
// "Fixed" sizes exclude the variable-length tail a record may carry.
const (
	SizeHeader = 16

	SizeSpec = 4

	// Module: name-offset, parent-offset, module-count, interface-count, const-count.
	SizeModuleFixed = 20

	// Interface: name-offset, IID(16), parent-IID(16), parent-module-offset,
	// method-count, const-count, inherited-method-count.
	SizeInterfaceFixed = 4 + 16 + 16 + 4 + 4 + 4 + 4

	// Method: return-spec, name-offset, attr-bits, param-count, raise-count.
	SizeMethodFixed = 20

	// Param: spec, name-offset, attr-bits.
	SizeParam = 12

	// Raise: spec.
	SizeRaise = 4

	// Sequence: element-spec, max.
	SizeSequence = 8

	// Array: element-spec, dimension-count (each dimension is a trailing u32).
	SizeArrayFixed = 8

	// Structure / Exception: member-count (each member is a trailing (spec, name-offset) pair).
	SizeStructFixed = 4
	SizeMember      = 8

	// Enum: member-count (each member is a trailing name-offset).
	SizeEnumFixed = 4

	// Constant: spec, name-offset, value (or value-offset).
	SizeConstant = 12
)

// Method attribute bits.
const (
	AttrGetter uint32 = 1 << iota
	AttrSetter
)

func moduleSize(moduleCount, interfaceCount, constCount int) uint32 {
	return SizeModuleFixed + 4*uint32(moduleCount+interfaceCount) + SizeConstant*uint32(constCount)
}

func interfaceSize(methodCount, constCount int) uint32 {
	return SizeInterfaceFixed + 4*uint32(methodCount) + SizeConstant*uint32(constCount)
}

func methodSize(paramCount, raiseCount int) uint32 {
	return SizeMethodFixed + SizeParam*uint32(paramCount) + SizeRaise*uint32(raiseCount)
}

func enumSize(memberCount int) uint32 { return SizeEnumFixed + 4*uint32(memberCount) }

func sequenceSize() uint32 { return SizeSequence }

func arraySize(dimCount int) uint32 { return SizeArrayFixed + 4*uint32(dimCount) }

func structSize(memberCount int) uint32 { return SizeStructFixed + SizeMember*uint32(memberCount) }

func exceptionSize(memberCount int) uint32 { return structSize(memberCount) }

// align4 rounds off up to the next multiple of 4, the alignment every
// region boundary in the image observes (spec.md section 3).
func align4(off uint32) uint32 {
	return (off + 3) &^ 3
}

// constValueWidth reports how many bytes a constant's host
// representation needs. Widths over 4 bytes spill into the constant
// region instead of the inline Constant.value slot.
func constValueWidth(k PrimitiveKind) int {
	switch k {
	case PrimS64, PrimU64, PrimF64:
		return 8
	case PrimF128:
		return 16
	case PrimString, PrimWString:
		return -1 // variable length, always spills
	default:
		return 4
	}
}
