// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "strings"

// maxNormalizeDepth bounds the type-normalization loop so a typedef
// cycle reports LayoutRecursiveType instead of looping forever
// (spec.md's "Open question — typedef of typedef").
const maxNormalizeDepth = 64

// resolveScopedName performs the lexical lookup spec.md section 4.2
// describes: walk outward from scope matching each path segment
// against named children, following imports (Rank > 1) but refusing
// to descend through a forward-declared interface.
func resolveScopedName(sn *Node, scope *Node) (*Node, error) {
	target, err := resolveNamePath(sn.ScopedPath, scope)
	if err != nil {
		if re, ok := err.(*ResolveError); ok {
			re.Pos = sn.Pos
		}
		return nil, err
	}
	return target, nil
}

// resolveNamePath is the path-only core of resolveScopedName, reused
// by the expression evaluator to look up a constant or enumerator
// referenced from a constant expression (which carries a bare dotted
// path rather than a ScopedName AST node).
func resolveNamePath(path []string, scope *Node) (*Node, error) {
	for s := scope; s != nil; s = s.Parent {
		if target := lookupPath(s, path); target != nil {
			return target, nil
		}
	}
	return nil, &ResolveError{
		Kind: ResolveUnknown,
		Name: strings.Join(path, "::"),
	}
}

func lookupPath(scope *Node, path []string) *Node {
	cur := scope
	for i, seg := range path {
		child := findChild(cur, seg)
		if child == nil {
			return nil
		}
		if i == len(path)-1 {
			return child
		}
		if child.Kind == KindInterface && child.ForwardDecl {
			return nil
		}
		cur = child
	}
	return nil
}

// findChild returns scope's child named name, preferring a full
// interface definition over a forward declaration of the same name.
func findChild(scope *Node, name string) *Node {
	var fwd *Node
	for _, c := range scope.Children {
		if c.Name != name {
			continue
		}
		if c.Kind == KindInterface && c.ForwardDecl {
			if fwd == nil {
				fwd = c
			}
			continue
		}
		return c
	}
	return fwd
}

// normalizeType is the shared type-normalization loop spec.md section
// 4.2 and 4.4 both rely on, reused verbatim by the layout planner's
// Pass C and the emitter's Spec computation so the two agree
// bit-for-bit (ent.cpp's TypeOffsetter::process and Emitter::getSpec
// are two copies of this same loop; here it is factored once).
//
// The ArrayDcl check always runs first, before the Member/ScopedName
// peeling, matching the original's exact branch order: an array whose
// element type is itself a typedef'd scoped name must stop at the
// array, not be peeled through to the array's element.
func normalizeType(node, scope *Node) (*Node, *Node, error) {
	for depth := 0; ; depth++ {
		if depth >= maxNormalizeDepth {
			return nil, nil, &LayoutError{Kind: LayoutRecursiveType, Pos: node.Pos, Node: node}
		}

		if node.Kind == KindArrayDcl {
			return node, scope, nil
		}
		if node.Kind == KindMember {
			scope = node.Parent
			node = node.TypeSpec
		}
		if node.Kind == KindScopedName {
			target, err := resolveScopedName(node, scope)
			if err != nil {
				return nil, nil, err
			}
			node = target
			continue
		}
		break
	}
	return node, scope, nil
}

// resolveSingleBase resolves an Interface's extends clause to its
// single concrete base. esidl's grammar accepts more than one base but
// the original compiler silently kept only the first at every level of
// the chain (see SPEC_FULL.md section C.4); spec.md's REDESIGN FLAG
// promotes that into a hard error instead of silent truncation.
func resolveSingleBase(iface *Node) (*Node, error) {
	if len(iface.Extends) == 0 {
		return nil, nil
	}
	if len(iface.Extends) > 1 {
		return nil, &ResolveError{
			Kind: ResolveNotAnInterface,
			Pos:  iface.Pos,
			Name: iface.Name,
		}
	}
	base, err := resolveScopedName(iface.Extends[0], iface)
	if err != nil {
		return nil, err
	}
	if base.Kind != KindInterface {
		return nil, &ResolveError{
			Kind: ResolveNotAnInterface,
			Pos:  iface.Extends[0].Pos,
			Name: strings.Join(iface.Extends[0].ScopedPath, "::"),
		}
	}
	return base, nil
}

// inheritanceChain walks the single-inheritance chain starting at
// iface's base, innermost (direct base) first.
func inheritanceChain(iface *Node) ([]*Node, error) {
	var chain []*Node
	cur := iface
	for depth := 0; depth < maxNormalizeDepth; depth++ {
		base, err := resolveSingleBase(cur)
		if err != nil {
			return nil, err
		}
		if base == nil {
			return chain, nil
		}
		chain = append(chain, base)
		cur = base
	}
	return nil, &LayoutError{Kind: LayoutRecursiveType, Pos: iface.Pos, Node: iface}
}
