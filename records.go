// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"encoding/binary"
	"math"
)

// formatMagic is the ASCII tag "Ent1" stored little-endian, identifying
// the image format and its version.
var formatMagic = binary.LittleEndian.Uint32([]byte("Ent1"))

// buffer is the in-place record construction surface: little-endian
// field accessors over a mutable byte slice, replacing the original
// compiler's placement-new into a raw byte array (spec.md section 9
// Design Notes).
type buffer []byte

func (b buffer) putU8(off uint32, v uint8)   { b[off] = v }
func (b buffer) putU16(off uint32, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func (b buffer) putU32(off uint32, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func (b buffer) putU64(off uint32, v uint64) { binary.LittleEndian.PutUint64(b[off:], v) }
func (b buffer) putF32(off uint32, v float32) { b.putU32(off, math.Float32bits(v)) }
func (b buffer) putF64(off uint32, v float64) { b.putU64(off, math.Float64bits(v)) }
func (b buffer) putSpec(off uint32, s Spec)  { b.putU32(off, uint32(s)) }
func (b buffer) putIID(off uint32, id IID)   { id.PutBytes(b[off : off+16]) }

func (b buffer) putString(off uint32, s string) {
	copy(b[off:], s)
	b[off+uint32(len(s))] = 0
}

// writeHeader fills in the fixed 16-byte Header record at offset 0.
func (b buffer) writeHeader(fileSize uint32) {
	b.putU32(0, formatMagic)
	b.putU32(4, fileSize)
	// bytes 8-15 (reserved) stay zero.
}

// Module record: { name-offset, parent-offset, module-count,
// interface-count, const-count } followed by module-count child
// offsets and interface-count interface offsets.
func (b buffer) writeModule(off, nameOffset, parentOffset uint32, moduleCount, interfaceCount, constCount int) {
	b.putU32(off+0, nameOffset)
	b.putU32(off+4, parentOffset)
	b.putU32(off+8, uint32(moduleCount))
	b.putU32(off+12, uint32(interfaceCount))
	b.putU32(off+16, uint32(constCount))
}

func (b buffer) moduleChildSlot(off uint32, index int) uint32 {
	return off + SizeModuleFixed + 4*uint32(index)
}

func (b buffer) moduleInterfaceSlot(off uint32, moduleCount, index int) uint32 {
	return off + SizeModuleFixed + 4*uint32(moduleCount) + 4*uint32(index)
}

// Interface record: { name-offset, IID(16), parent-IID(16),
// parent-module-offset, method-count, const-count,
// inherited-method-count } followed by method-count method offsets.
func (b buffer) writeInterface(off, nameOffset uint32, iid, piid IID, parentModuleOffset uint32, methodCount, constCount, inheritedMethodCount int) {
	b.putU32(off, nameOffset)
	b.putIID(off+4, iid)
	b.putIID(off+20, piid)
	b.putU32(off+36, parentModuleOffset)
	b.putU32(off+40, uint32(methodCount))
	b.putU32(off+44, uint32(constCount))
	b.putU32(off+48, uint32(inheritedMethodCount))
}

func (b buffer) interfaceMethodSlot(off uint32, index int) uint32 {
	return off + SizeInterfaceFixed + 4*uint32(index)
}

// Method record: { return-spec, name-offset, attr-bits, param-count,
// raise-count } followed by inline Param slots then inline Raise slots.
func (b buffer) writeMethod(off uint32, ret Spec, nameOffset, attrBits uint32, paramCount, raiseCount int) {
	b.putSpec(off, ret)
	b.putU32(off+4, nameOffset)
	b.putU32(off+8, attrBits)
	b.putU32(off+12, uint32(paramCount))
	b.putU32(off+16, uint32(raiseCount))
}

func (b buffer) methodParamSlot(off uint32, index int) uint32 {
	return off + SizeMethodFixed + SizeParam*uint32(index)
}

func (b buffer) methodRaiseSlot(off uint32, paramCount, index int) uint32 {
	return off + SizeMethodFixed + SizeParam*uint32(paramCount) + SizeRaise*uint32(index)
}

func (b buffer) writeParam(off uint32, spec Spec, nameOffset, attr uint32) {
	b.putSpec(off, spec)
	b.putU32(off+4, nameOffset)
	b.putU32(off+8, attr)
}

func (b buffer) writeRaise(off uint32, spec Spec) {
	b.putSpec(off, spec)
}

// Sequence record: { element-spec, max }.
func (b buffer) writeSequence(off uint32, elem Spec, max uint32) {
	b.putSpec(off, elem)
	b.putU32(off+4, max)
}

// Array record: { element-spec, dimension-count } followed by
// dimension-count trailing u32 dimension sizes.
func (b buffer) writeArray(off uint32, elem Spec, dimCount int) {
	b.putSpec(off, elem)
	b.putU32(off+4, uint32(dimCount))
}

func (b buffer) arrayDimSlot(off uint32, index int) uint32 {
	return off + SizeArrayFixed + 4*uint32(index)
}

// Structure / Exception record: { member-count } followed by
// member-count (spec, name-offset) pairs.
func (b buffer) writeMemberCount(off uint32, count int) {
	b.putU32(off, uint32(count))
}

func (b buffer) structMemberSlot(off uint32, index int) uint32 {
	return off + SizeStructFixed + SizeMember*uint32(index)
}

func (b buffer) writeMember(off uint32, spec Spec, nameOffset uint32) {
	b.putSpec(off, spec)
	b.putU32(off+4, nameOffset)
}

// Enum record: { member-count } followed by member-count name offsets.
func (b buffer) writeEnumCount(off uint32, count int) {
	b.putU32(off, uint32(count))
}

func (b buffer) enumMemberSlot(off uint32, index int) uint32 {
	return off + SizeEnumFixed + 4*uint32(index)
}

// Constant record: { spec, name-offset, value-or-value-offset }.
func (b buffer) writeConstant(off uint32, spec Spec, nameOffset, value uint32) {
	b.putSpec(off, spec)
	b.putU32(off+4, nameOffset)
	b.putU32(off+8, value)
}
