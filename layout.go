// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "github.com/go-kratos/kratos/v2/log"

// Layout is the result of PlanLayout: the string pool built in Pass B
// and the final file size. Every in-TU node reachable from root has
// had its Offset field set as a side effect of planning; ConstDcl
// nodes are the one exception (their record offset is a byproduct of
// emission, see emit.go and SPEC_FULL.md section C.6).
type Layout struct {
	Strings  *stringPool
	FileSize uint32

	// TypeRefs holds every sequence, array, structure, exception and
	// imported interface/enum descriptor Pass C assigned an offset to,
	// in first-reference order, paired with the lexical scope each was
	// discovered under. The emitter walks this list to write the
	// records that have no named home anywhere in the source tree
	// (spec.md section 4.4: these descriptors exist only because some
	// attribute, parameter or return type points at them).
	TypeRefs []typeRefEntry
}

// typeRefEntry pairs a type descriptor node with the scope it must be
// re-normalized against when the emitter computes its element or
// member Specs (the same scope Pass C used to reach it).
type typeRefEntry struct {
	node  *Node
	scope *Node
}

// inTU reports whether a node was defined in the translation unit
// being compiled, as opposed to pulled in by an import. Rank 0 is
// treated the same as Rank 1 so callers that never bothered to set it
// still get sensible in-TU behavior.
func inTU(n *Node) bool { return n.Rank <= 1 }

// PlanLayout runs the three layout passes spec.md section 4.3
// describes (entity offsetter, string pool + constant offsetter, type
// descriptor offsetter) over the tree rooted at spec, and returns the
// computed layout. spec must be a KindSpecification node (or any node
// whose children are the top-level declarations); it is never itself
// assigned an offset.
func PlanLayout(spec *Node, logger log.Logger) (*Layout, error) {
	helper := helperOrDefault(logger)

	offset := uint32(SizeHeader)
	for _, child := range spec.Children {
		offsetEntities(child, &offset, helper)
	}
	helper.Debugf("entity region ends at %#x", offset)

	pool := newStringPool(offset)
	for _, child := range spec.Children {
		collectStrings(child, pool)
	}
	offset = align4(pool.End())
	helper.Debugf("string pool ends at %#x", offset)

	for _, child := range spec.Children {
		if err := offsetConstants(child, &offset); err != nil {
			return nil, err
		}
	}
	offset = align4(offset)
	helper.Debugf("constant spill region ends at %#x", offset)

	tc := &typeOffsetter{offset: offset}
	for _, child := range spec.Children {
		if err := tc.visit(child); err != nil {
			return nil, err
		}
	}
	helper.Debugf("type descriptor region ends at %#x (file size)", tc.offset)

	return &Layout{Strings: pool, FileSize: tc.offset, TypeRefs: tc.refs}, nil
}

// offsetEntities is Pass A: it assigns offsets to modules, interfaces,
// enums, attributes and operations, in that depth-first, source-order
// traversal (spec.md section 4.3 Pass A).
func offsetEntities(node *Node, offset *uint32, helper *log.Helper) {
	switch node.Kind {
	case KindModule:
		if !inTU(node) {
			return
		}
		node.Offset = *offset
		*offset += moduleSize(node.ModuleCount, node.InterfaceCount, node.ConstCount)
		helper.Debugf("%#x: module %s", node.Offset, node.Name)
		for _, c := range node.Children {
			offsetEntities(c, offset, helper)
		}

	case KindEnumType:
		if !inTU(node) {
			return
		}
		node.Offset = *offset
		*offset += enumSize(len(node.Children))
		helper.Debugf("%#x: enum %s", node.Offset, node.Name)

	case KindInterface:
		if !inTU(node) {
			return
		}
		if node.ForwardDecl {
			return
		}
		node.Offset = *offset
		*offset += interfaceSize(node.MethodCount, node.ConstCount)
		helper.Debugf("%#x: interface %s", node.Offset, node.Name)
		for _, c := range node.Children {
			offsetEntities(c, offset, helper)
		}

	case KindAttribute:
		if !inTU(node) {
			return
		}
		node.Offset = *offset
		*offset += methodSize(0, 0)
		if !node.ReadOnly {
			*offset += methodSize(1, 0)
		}

	case KindOpDcl:
		if !inTU(node) {
			return
		}
		node.Offset = *offset
		*offset += methodSize(len(node.Children), len(node.Raises))
	}
}

// collectStrings is the string-pool half of Pass B: it interns every
// distinct identifier whose record carries a name offset, skipping
// names that belong to entities the image never actually emits
// (imported interfaces, forward declarations).
func collectStrings(node *Node, pool *stringPool) {
	switch node.Kind {
	case KindModule:
		if !inTU(node) {
			return
		}
		pool.intern(node.Name)
		for _, c := range node.Children {
			collectStrings(c, pool)
		}

	case KindInterface:
		if !inTU(node) || node.ForwardDecl {
			return
		}
		pool.intern(node.Name)
		for _, c := range node.Children {
			collectStrings(c, pool)
		}

	case KindEnumType:
		if !inTU(node) {
			return
		}
		for _, m := range node.Children {
			pool.intern(m.Name)
		}

	case KindAttribute:
		if !inTU(node) {
			return
		}
		pool.intern(node.Name)

	case KindOpDcl:
		if !inTU(node) {
			return
		}
		pool.intern(node.Name)
		for _, p := range node.Children {
			pool.intern(p.Name)
		}

	case KindConstDcl:
		if !inTU(node) {
			return
		}
		pool.intern(node.Name)

	case KindStructType, KindExceptDcl:
		for _, m := range node.Children {
			pool.intern(m.Name)
		}
	}
}

// offsetConstants is the constant half of Pass B: for every ConstDcl
// whose host-type representation exceeds 32 bits, reserve its spill
// bytes and record the offset in ValueOffset.
func offsetConstants(node *Node, offset *uint32) error {
	switch node.Kind {
	case KindModule, KindInterface:
		if !inTU(node) {
			return nil
		}
		for _, c := range node.Children {
			if err := offsetConstants(c, offset); err != nil {
				return err
			}
		}

	case KindConstDcl:
		if !inTU(node) {
			return nil
		}
		width := constValueWidth(node.PrimType)
		if width >= 0 && width <= 4 {
			return nil
		}
		*offset = align4(*offset)
		node.ValueOffset = *offset
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
			*offset += uint32(len(wide)) + 2 // +2 for the UTF-16 NUL terminator
		case width < 0:
			s, err := evalStringLiteral(node.Expr, node.Parent)
			if err != nil {
				return err
			}
			*offset += uint32(len(s)) + 1
		default:
			*offset += uint32(width)
		}
	}
	return nil
}

// typeOffsetter implements Pass C (spec.md section 4.3): it assigns
// offsets to sequence, array, structure, exception and imported-
// interface descriptors reached via member/parameter/return types.
type typeOffsetter struct {
	offset uint32
	refs   []typeRefEntry
}

func (t *typeOffsetter) visit(node *Node) error {
	switch node.Kind {
	case KindModule, KindInterface:
		if !inTU(node) {
			return nil
		}
		if node.Kind == KindInterface && node.ForwardDecl {
			return nil
		}
		for _, c := range node.Children {
			if err := t.visit(c); err != nil {
				return err
			}
		}

	case KindAttribute:
		if !inTU(node) {
			return nil
		}
		return t.process(node.TypeSpec, node.Parent)

	case KindOpDcl:
		if !inTU(node) {
			return nil
		}
		if err := t.process(node.ReturnType, node.Parent); err != nil {
			return err
		}
		for _, p := range node.Children {
			if err := t.process(p.TypeSpec, node.Parent); err != nil {
				return err
			}
		}
		for _, r := range node.Raises {
			if err := t.process(r, node.Parent); err != nil {
				return err
			}
		}
	}
	return nil
}

// process mirrors ent.cpp's TypeOffsetter::process: normalize the type
// reference, then reserve space for whatever structural descriptor it
// bottoms out at, recursing into nested element/member types.
func (t *typeOffsetter) process(node, scope *Node) error {
	if node == nil {
		return nil
	}

	// Arrays own their descriptor offset and never get peeled through
	// — checked before normalization so an array-of-typedef stops here.
	if node.Kind == KindArrayDcl {
		if node.Offset != 0 {
			return nil
		}
		node.Offset = t.offset
		t.offset += arraySize(node.DimensionCount)
		t.refs = append(t.refs, typeRefEntry{node: node, scope: scope})
		return t.process(node.TypeSpec, scope)
	}

	term, termScope, err := normalizeType(node, scope)
	if err != nil {
		return err
	}

	if term.Offset != 0 {
		return nil
	}

	switch term.Kind {
	case KindSequenceType:
		term.Offset = t.offset
		t.offset += sequenceSize()
		t.refs = append(t.refs, typeRefEntry{node: term, scope: termScope})
		return t.process(term.TypeSpec, termScope)

	case KindExceptDcl:
		term.Offset = t.offset
		t.offset += exceptionSize(len(term.Children))
		t.refs = append(t.refs, typeRefEntry{node: term, scope: termScope})
		for _, m := range term.Children {
			if err := t.process(m.TypeSpec, term); err != nil {
				return err
			}
		}

	case KindStructType:
		term.Offset = t.offset
		t.offset += structSize(len(term.Children))
		t.refs = append(t.refs, typeRefEntry{node: term, scope: termScope})
		for _, m := range term.Children {
			if err := t.process(m.TypeSpec, term); err != nil {
				return err
			}
		}

	case KindInterface:
		// An in-TU interface reaching Pass C with no offset yet is one
		// Pass A deliberately skipped because it is still only forward
		// declared (offsetEntities returns early for ForwardDecl nodes).
		// If nothing ever supplied the full definition in this
		// translation unit, using it as a concrete attribute/parameter/
		// return type is a structural error, not a stub to paper over.
		if inTU(term) && term.ForwardDecl {
			return &LayoutError{Kind: LayoutUnexpectedForwardDecl, Pos: term.Pos, Node: term}
		}

		// Imported interface: reaches here only through a ScopedName
		// reference, never as the direct in-TU declaration (those are
		// handled by Pass A instead).
		term.Offset = t.offset
		t.offset += SizeInterfaceFixed
		t.refs = append(t.refs, typeRefEntry{node: term, scope: termScope})

	case KindEnumType:
		// EnumType is always entity-offset in Pass A when in-TU; an
		// imported enum reached here still needs a descriptor-region
		// slot since Pass A skipped it.
		if !inTU(term) {
			term.Offset = t.offset
			t.offset += enumSize(len(term.Children))
			t.refs = append(t.refs, typeRefEntry{node: term, scope: termScope})
		}

	case KindType:
		// Primitive: no reservation, Spec carries the primitive index.
	}
	return nil
}
