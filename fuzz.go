// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build gofuzz

package entidl

// Fuzz builds a constant-expression tree deterministically from data
// and evaluates it, the same shape of harness the original PE fuzz
// target used: turn the input into the most interesting structure this
// package knows how to build, run it through the real code path, and
// return 1 when evaluation succeeds and 0 when it returns an error.
func Fuzz(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	b := &exprBuilder{data: data}
	expr := b.build(6)

	_, err := EvaluateInt[int64](expr, nil)
	if err != nil {
		return 0
	}
	return 1
}

// exprBuilder turns a byte stream into a bounded-depth Expr tree so the
// fuzzer can exercise evalInt64's operator and overflow paths without
// needing a real IDL front end.
type exprBuilder struct {
	data []byte
	pos  int
}

var fuzzBinaryOps = []string{"+", "-", "*", "/", "%", "<<", ">>", "&", "|", "^"}
var fuzzUnaryOps = []string{"-", "+", "~", "!"}

func (b *exprBuilder) build(depth int) *Expr {
	tag := b.next()
	if depth <= 0 {
		return &Expr{Kind: ExprLitInt, IntVal: b.nextInt64()}
	}
	switch tag % 3 {
	case 0:
		return &Expr{Kind: ExprLitInt, IntVal: b.nextInt64()}
	case 1:
		return &Expr{
			Kind:    ExprUnary,
			Op:      fuzzUnaryOps[int(b.next())%len(fuzzUnaryOps)],
			Operand: b.build(depth - 1),
		}
	default:
		return &Expr{
			Kind:  ExprBinary,
			Op:    fuzzBinaryOps[int(b.next())%len(fuzzBinaryOps)],
			Left:  b.build(depth - 1),
			Right: b.build(depth - 1),
		}
	}
}

func (b *exprBuilder) next() byte {
	if b.pos >= len(b.data) {
		return 0
	}
	v := b.data[b.pos]
	b.pos++
	return v
}

func (b *exprBuilder) nextInt64() int64 {
	var v int64
	for i := 0; i < 8; i++ {
		v = v<<8 | int64(b.next())
	}
	return v
}
