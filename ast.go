// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"encoding/json"
	"fmt"
)

// Kind tags the variant a Node represents. The set is closed, so the
// layout planner, resolver and emitter dispatch on Kind with a type
// switch-free field read rather than double dispatch.
type Kind int

const (
	// KindSpecification is the distinguished root of the tree. It is
	// never offset or emitted itself; PlanLayout and Emit both treat
	// its children as the top-level declarations.
	KindSpecification Kind = iota
	KindModule
	KindInterface
	KindEnumType
	KindStructType
	KindExceptDcl
	KindMember
	KindAttribute
	KindOpDcl
	KindParamDcl
	KindConstDcl
	KindArrayDcl
	KindSequenceType
	KindScopedName
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindSpecification:
		return "specification"
	case KindModule:
		return "module"
	case KindInterface:
		return "interface"
	case KindEnumType:
		return "enum"
	case KindStructType:
		return "struct"
	case KindExceptDcl:
		return "exception"
	case KindMember:
		return "member"
	case KindAttribute:
		return "attribute"
	case KindOpDcl:
		return "operation"
	case KindParamDcl:
		return "parameter"
	case KindConstDcl:
		return "constant"
	case KindArrayDcl:
		return "array"
	case KindSequenceType:
		return "sequence"
	case KindScopedName:
		return "scoped name"
	case KindType:
		return "primitive type"
	default:
		return "unknown"
	}
}

// Direction is a ParamDcl's passing mode.
type Direction int

const (
	DirIn Direction = iota + 1
	DirOut
	DirInOut
)

// PrimitiveKind identifies one of the 22 canonical primitive type
// names in the order fixed by esidl's original Spec table (ent.cpp).
// Index 0 is a reserved slot with no surface syntax.
type PrimitiveKind int

const (
	PrimS8 PrimitiveKind = iota // reserved
	PrimS16
	PrimS32
	PrimS64
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimF32
	PrimF64
	PrimF128
	PrimBool
	PrimChar
	PrimWChar
	PrimVoid
	PrimUuid
	PrimString
	PrimWString
	PrimAny
	PrimObject
	PrimFixed
	PrimValueBase

	numPrimitives
)

// primitiveNames is the canonical name table described in spec.md
// section 6.1, in the exact order the original esidl emitter used
// (the reserved SpecS8 slot carries the empty string, matching
// ent.cpp's specTable[0]).
var primitiveNames = [numPrimitives]string{
	PrimS8:        "",
	PrimS16:       "short",
	PrimS32:       "long",
	PrimS64:       "long long",
	PrimU8:        "octet",
	PrimU16:       "unsigned short",
	PrimU32:       "unsigned long",
	PrimU64:       "unsigned long long",
	PrimF32:       "float",
	PrimF64:       "double",
	PrimF128:      "long double",
	PrimBool:      "boolean",
	PrimChar:      "char",
	PrimWChar:     "wchar",
	PrimVoid:      "void",
	PrimUuid:      "uuid",
	PrimString:    "string",
	PrimWString:   "wstring",
	PrimAny:       "any",
	PrimObject:    "Object",
	PrimFixed:     "fixed",
	PrimValueBase: "ValueBase",
}

// primitiveByName resolves a canonical name to its PrimitiveKind. ok is
// false for the reserved empty-string slot and unknown names alike.
func primitiveByName(name string) (PrimitiveKind, bool) {
	if name == "" {
		return 0, false
	}
	for i, n := range primitiveNames {
		if n == name {
			return PrimitiveKind(i), true
		}
	}
	return 0, false
}

// String renders a PrimitiveKind as its canonical IDL keyword, the
// same table MarshalJSON and primitiveByName use.
func (k PrimitiveKind) String() string {
	if int(k) < 0 || k >= numPrimitives {
		return "invalid primitive type"
	}
	return primitiveNames[k]
}

// MarshalJSON renders a PrimitiveKind as its canonical IDL keyword
// rather than its internal ordinal, since that is the form a front end
// producing an AST document actually has on hand.
func (k PrimitiveKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(primitiveNames[k])
}

// UnmarshalJSON resolves a canonical IDL keyword (e.g. "long",
// "wstring") back to its PrimitiveKind via primitiveByName.
func (k *PrimitiveKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	pk, ok := primitiveByName(name)
	if !ok {
		return fmt.Errorf("entidl: unknown primitive type %q", name)
	}
	*k = pk
	return nil
}

// Node is the tagged-variant AST node the resolver, layout planner and
// emitter all operate on. Only the fields relevant to Kind are
// populated; the rest are zero. This is the external contract: nodes
// are built once by a front end (out of scope for this module) and
// never mutated here except for the one-time Offset/ValueOffset
// assignment the layout planner performs.
type Node struct {
	Kind     Kind
	Parent   *Node
	Children []*Node
	Leaf     bool
	Name     string
	Rank     int // 1 = in-TU, >1 = imported
	Pos      Position

	// Offset is the file offset assigned by the layout planner.
	// Zero means "not yet assigned" for in-TU nodes, and stays zero
	// forever for primitives (which are never written as records).
	Offset uint32

	// ValueOffset is the auxiliary constant-spill offset reserved for
	// ConstDcl nodes whose value does not fit the inline 32-bit slot.
	ValueOffset uint32

	// Module
	ModuleCount    int
	InterfaceCount int
	ConstCount     int

	// Interface
	IID         IID
	Extends     []*Node // ScopedName nodes; esidl's grammar allows several but the compiler only honors one (see resolve.go)
	MethodCount int
	ForwardDecl bool

	// Member / Attribute / ParamDcl / ArrayDcl(element) / SequenceType(element) / ConstDcl
	TypeSpec *Node

	// Attribute
	ReadOnly bool

	// OpDcl
	ReturnType *Node
	Raises     []*Node

	// ParamDcl
	Dir Direction

	// ConstDcl
	PrimType PrimitiveKind
	Expr     *Expr

	// ArrayDcl
	DimensionCount int
	Dimensions     []*Expr

	// SequenceType
	Bound *Expr

	// ScopedName
	ScopedPath []string
}

// LinkTree wires every node's Parent pointer from root down, following
// both the lexical Children tree and the non-Children type references
// (TypeSpec, ReturnType, Extends, Raises) that can point at an
// anonymous, inline-declared type with nowhere else to get its scope
// from. A node that already has Parent set (the loader read it
// explicitly) is left alone. Front ends that hand entidl a tree built
// by hand rather than through JSON unmarshaling should still call this
// once before PlanLayout if they did not set Parent themselves.
func LinkTree(root *Node) {
	linkChild(root, nil)
}

func linkChild(node, parent *Node) {
	if node == nil {
		return
	}
	if node.Parent == nil {
		node.Parent = parent
	}
	for _, c := range node.Children {
		linkChild(c, node)
	}
	linkChild(node.TypeSpec, node)
	linkChild(node.ReturnType, node)
	for _, e := range node.Extends {
		linkChild(e, node)
	}
	for _, r := range node.Raises {
		linkChild(r, node)
	}
}

// Walk invokes fn for node and every descendant, pre-order, children
// visited in source (slice) order — the traversal order spec.md
// section 4.3 requires for reproducible image bytes.
func Walk(node *Node, fn func(*Node)) {
	if node == nil {
		return
	}
	fn(node)
	for _, c := range node.Children {
		Walk(c, fn)
	}
}

// ExprKind tags a constant-expression node.
type ExprKind int

const (
	ExprLitInt ExprKind = iota
	ExprLitFloat
	ExprLitBool
	ExprLitChar
	ExprLitString
	ExprBinary
	ExprUnary
	ExprRef // reference to another ConstDcl or an enum member, by scoped name
)

// Expr is a constant expression tree, evaluated by eval.go against a
// target type and a lexical scope.
type Expr struct {
	Kind ExprKind
	Pos  Position

	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	CharVal   rune
	StringVal string

	Op            string // binary: "+","-","*","/","%","<<",">>","&","|","^"; unary: "-","+","~","!"
	Left, Right   *Expr  // ExprBinary
	Operand       *Expr  // ExprUnary
	RefPath       []string
	resolvedConst *Node // memoized resolution of an ExprRef, filled in lazily by eval
}
