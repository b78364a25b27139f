// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"math"

	"github.com/go-kratos/kratos/v2/log"
)

// Emit runs the emitter pass (spec.md section 4.4) over spec using the
// offsets layout already computed, and returns the complete image
// bytes. It must be called with the same tree PlanLayout ran over —
// Emit trusts every Offset/ValueOffset field it reads rather than
// recomputing them.
func Emit(spec *Node, layout *Layout, logger log.Logger) ([]byte, error) {
	helper := helperOrDefault(logger)

	buf := make(buffer, layout.FileSize)
	buf.writeHeader(layout.FileSize)
	layout.Strings.Write(buf)

	for _, child := range spec.Children {
		if err := emitEntity(buf, child, layout); err != nil {
			return nil, err
		}
	}

	helper.Debugf("wrote %d type descriptor(s) reached only by reference", len(layout.TypeRefs))
	for _, ref := range layout.TypeRefs {
		if err := writeTypeRef(buf, ref, layout); err != nil {
			return nil, err
		}
	}

	return []byte(buf), nil
}

// emitEntity writes the record for a Pass-A-offset entity (module,
// interface, enum) and recurses into its children in source order,
// mirroring offsetEntities' traversal in layout.go.
func emitEntity(buf buffer, node *Node, layout *Layout) error {
	switch node.Kind {
	case KindModule:
		if !inTU(node) {
			return nil
		}
		return writeModuleRecord(buf, node, layout)

	case KindInterface:
		if !inTU(node) || node.ForwardDecl {
			return nil
		}
		return writeInterfaceRecord(buf, node, layout)

	case KindEnumType:
		if !inTU(node) {
			return nil
		}
		writeEnumFields(buf, node, layout)
		return nil
	}
	return nil
}

func writeModuleRecord(buf buffer, node *Node, layout *Layout) error {
	var childOffsets, ifaceOffsets []uint32
	constCount := 0

	for _, c := range node.Children {
		switch c.Kind {
		case KindModule:
			if err := emitEntity(buf, c, layout); err != nil {
				return err
			}
			if inTU(c) {
				childOffsets = append(childOffsets, c.Offset)
			}
		case KindInterface:
			if err := emitEntity(buf, c, layout); err != nil {
				return err
			}
			if inTU(c) && !c.ForwardDecl {
				ifaceOffsets = append(ifaceOffsets, c.Offset)
			}
		case KindEnumType:
			if err := emitEntity(buf, c, layout); err != nil {
				return err
			}
		case KindConstDcl:
			if inTU(c) {
				constCount++
			}
		}
	}

	parentOffset := uint32(0)
	if node.Parent != nil && node.Parent.Kind == KindModule {
		parentOffset = node.Parent.Offset
	}

	buf.writeModule(node.Offset, layout.Strings.Offset(node.Name), parentOffset,
		len(childOffsets), len(ifaceOffsets), constCount)

	for i, o := range childOffsets {
		buf.putU32(buf.moduleChildSlot(node.Offset, i), o)
	}
	for i, o := range ifaceOffsets {
		buf.putU32(buf.moduleInterfaceSlot(node.Offset, len(childOffsets), i), o)
	}

	tailBase := node.Offset + SizeModuleFixed + 4*uint32(len(childOffsets)+len(ifaceOffsets))
	return writeConstantsTail(buf, node, tailBase, layout)
}

func writeInterfaceRecord(buf buffer, node *Node, layout *Layout) error {
	chain, err := inheritanceChain(node)
	if err != nil {
		return err
	}
	var piid IID
	inherited := 0
	if len(chain) > 0 {
		piid = chain[0].IID
	}
	for _, ancestor := range chain {
		inherited += ancestor.MethodCount
	}

	var methodOffsets []uint32
	constCount := 0

	for _, c := range node.Children {
		switch c.Kind {
		case KindAttribute:
			if !inTU(c) {
				continue
			}
			offs, err := writeAttributeMethods(buf, c, layout)
			if err != nil {
				return err
			}
			methodOffsets = append(methodOffsets, offs...)
		case KindOpDcl:
			if !inTU(c) {
				continue
			}
			off, err := writeOpDclMethod(buf, c, layout)
			if err != nil {
				return err
			}
			methodOffsets = append(methodOffsets, off)
		case KindConstDcl:
			if inTU(c) {
				constCount++
			}
		case KindEnumType:
			if err := emitEntity(buf, c, layout); err != nil {
				return err
			}
		}
	}

	parentModuleOffset := uint32(0)
	if node.Parent != nil && node.Parent.Kind == KindModule {
		parentModuleOffset = node.Parent.Offset
	}

	buf.writeInterface(node.Offset, layout.Strings.Offset(node.Name), node.IID, piid,
		parentModuleOffset, len(methodOffsets), constCount, inherited)

	for i, o := range methodOffsets {
		buf.putU32(buf.interfaceMethodSlot(node.Offset, i), o)
	}

	tailBase := node.Offset + SizeInterfaceFixed + 4*uint32(len(methodOffsets))
	return writeConstantsTail(buf, node, tailBase, layout)
}

// writeAttributeMethods writes the synthetic getter (and, unless the
// attribute is readonly, setter) Method records esidl generates for
// every Attribute, and returns their offsets in vtable order.
func writeAttributeMethods(buf buffer, attr *Node, layout *Layout) ([]uint32, error) {
	valueSpec, err := computeSpec(attr.TypeSpec, attr.Parent)
	if err != nil {
		return nil, err
	}
	nameOffset := layout.Strings.Offset(attr.Name)

	getterOff := attr.Offset
	buf.writeMethod(getterOff, valueSpec, nameOffset, AttrGetter, 0, 0)
	offs := []uint32{getterOff}

	if !attr.ReadOnly {
		setterOff := getterOff + methodSize(0, 0)
		buf.writeMethod(setterOff, SpecPrimitive(PrimVoid), nameOffset, AttrSetter, 1, 0)
		buf.writeParam(buf.methodParamSlot(setterOff, 0), valueSpec, nameOffset, uint32(DirIn))
		offs = append(offs, setterOff)
	}
	return offs, nil
}

func writeOpDclMethod(buf buffer, op *Node, layout *Layout) (uint32, error) {
	retSpec, err := computeSpec(op.ReturnType, op.Parent)
	if err != nil {
		return 0, err
	}
	off := op.Offset
	buf.writeMethod(off, retSpec, layout.Strings.Offset(op.Name), 0, len(op.Children), len(op.Raises))

	for i, p := range op.Children {
		pspec, err := computeSpec(p.TypeSpec, op.Parent)
		if err != nil {
			return 0, err
		}
		buf.writeParam(buf.methodParamSlot(off, i), pspec, layout.Strings.Offset(p.Name), uint32(p.Dir))
	}
	for i, r := range op.Raises {
		rspec, err := computeSpec(r, op.Parent)
		if err != nil {
			return 0, err
		}
		buf.writeRaise(buf.methodRaiseSlot(off, len(op.Children), i), rspec)
	}
	return off, nil
}

func writeEnumFields(buf buffer, node *Node, layout *Layout) {
	buf.writeEnumCount(node.Offset, len(node.Children))
	for i, m := range node.Children {
		buf.putU32(buf.enumMemberSlot(node.Offset, i), layout.Strings.Offset(m.Name))
	}
}

// writeConstantsTail assigns each direct in-TU ConstDcl child of
// parent its record offset (a byproduct of emission, never of layout
// planning — see SPEC_FULL.md section C.6) and writes its Constant
// record into the const-tail region reserved after parent's own
// fixed fields and offset arrays.
func writeConstantsTail(buf buffer, parent *Node, base uint32, layout *Layout) error {
	off := base
	for _, c := range parent.Children {
		if c.Kind != KindConstDcl || !inTU(c) {
			continue
		}
		c.Offset = off
		if err := writeConstDcl(buf, c, layout); err != nil {
			return err
		}
		off += SizeConstant
	}
	return nil
}

func writeConstDcl(buf buffer, node *Node, layout *Layout) error {
	spec := SpecPrimitive(node.PrimType)
	nameOffset := layout.Strings.Offset(node.Name)
	width := constValueWidth(node.PrimType)

	var value uint32
	switch {
	case width < 0 && node.PrimType == PrimWString:
		s, err := evalStringLiteral(node.Expr, node.Parent)
		if err != nil {
			return err
		}
		wide, err := encodeWideString(s)
		if err != nil {
			return err
		}
		copy(buf[node.ValueOffset:], wide)
		buf.putU16(node.ValueOffset+uint32(len(wide)), 0)
		value = node.ValueOffset

	case width < 0:
		s, err := evalStringLiteral(node.Expr, node.Parent)
		if err != nil {
			return err
		}
		buf.putString(node.ValueOffset, s)
		value = node.ValueOffset

	case width <= 4:
		v, err := inlineConstValue(node)
		if err != nil {
			return err
		}
		value = v

	default:
		if err := writeSpilledConstValue(buf, node); err != nil {
			return err
		}
		value = node.ValueOffset
	}

	buf.writeConstant(node.Offset, spec, nameOffset, value)
	return nil
}

func inlineConstValue(node *Node) (uint32, error) {
	switch node.PrimType {
	case PrimF32:
		f, err := EvaluateFloat[float32](node.Expr, node.Parent)
		if err != nil {
			return 0, err
		}
		return math.Float32bits(f), nil

	case PrimWChar:
		// A wchar constant carries a single UTF-16LE code unit inline;
		// wideCodeUnit rejects runes outside the Basic Multilingual Plane.
		r, err := EvaluateString[rune](node.Expr, node.Parent)
		if err != nil {
			return 0, err
		}
		return wideCodeUnit(r)

	default:
		return EvaluateInt[uint32](node.Expr, node.Parent)
	}
}

func writeSpilledConstValue(buf buffer, node *Node) error {
	switch node.PrimType {
	case PrimS64, PrimU64:
		v, err := EvaluateInt[uint64](node.Expr, node.Parent)
		if err != nil {
			return err
		}
		buf.putU64(node.ValueOffset, v)

	case PrimF64:
		f, err := EvaluateFloat[float64](node.Expr, node.Parent)
		if err != nil {
			return err
		}
		buf.putF64(node.ValueOffset, f)

	case PrimF128:
		// Go has no native 128-bit float; long double constants are
		// widened from float64 and the upper 8 bytes of the 16-byte
		// slot are left zero.
		f, err := EvaluateFloat[float64](node.Expr, node.Parent)
		if err != nil {
			return err
		}
		buf.putF64(node.ValueOffset, f)
	}
	return nil
}

// writeTypeRef writes the descriptor for a type reached only through
// Pass C — a sequence, array, structure, exception, or imported
// interface/enum that has no named slot in its enclosing module or
// interface's own record.
func writeTypeRef(buf buffer, ref typeRefEntry, layout *Layout) error {
	node, scope := ref.node, ref.scope

	switch node.Kind {
	case KindArrayDcl:
		elemSpec, err := computeSpec(node.TypeSpec, scope)
		if err != nil {
			return err
		}
		buf.writeArray(node.Offset, elemSpec, node.DimensionCount)
		for i, d := range node.Dimensions {
			v, err := EvaluateInt[uint32](d, scope)
			if err != nil {
				return err
			}
			buf.putU32(buf.arrayDimSlot(node.Offset, i), v)
		}

	case KindSequenceType:
		elemSpec, err := computeSpec(node.TypeSpec, scope)
		if err != nil {
			return err
		}
		var max uint32
		if node.Bound != nil {
			max, err = EvaluateInt[uint32](node.Bound, scope)
			if err != nil {
				return err
			}
		}
		buf.writeSequence(node.Offset, elemSpec, max)

	case KindStructType, KindExceptDcl:
		buf.writeMemberCount(node.Offset, len(node.Children))
		for i, m := range node.Children {
			mspec, err := computeSpec(m.TypeSpec, node)
			if err != nil {
				return err
			}
			buf.writeMember(buf.structMemberSlot(node.Offset, i), mspec, layout.Strings.Offset(m.Name))
		}

	case KindInterface:
		// Imported interface: only the identity fields (IID and parent
		// IID) are meaningful; its own methods live in the module where
		// it was compiled.
		base, err := resolveSingleBase(node)
		if err != nil {
			return err
		}
		var piid IID
		if base != nil {
			piid = base.IID
		}
		buf.writeInterface(node.Offset, layout.Strings.Offset(node.Name), node.IID, piid, 0, 0, 0, 0)

	case KindEnumType:
		writeEnumFields(buf, node, layout)
	}
	return nil
}

// computeSpec is the emitter's half of the shared type-normalization
// loop (see normalizeType in resolve.go): it reduces node to either a
// primitive Spec or the offset of whatever descriptor Pass C reserved
// for it. Arrays own their own offset and skip normalization, exactly
// as typeOffsetter.process does.
func computeSpec(node, scope *Node) (Spec, error) {
	if node == nil {
		return 0, &EvalError{Kind: EvalBadExpression}
	}
	if node.Kind == KindArrayDcl {
		return SpecOffset(node.Offset), nil
	}

	term, _, err := normalizeType(node, scope)
	if err != nil {
		return 0, err
	}
	if term.Kind == KindType {
		return SpecPrimitive(term.PrimType), nil
	}
	return SpecOffset(term.Offset), nil
}
