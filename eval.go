// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

// Integer is the set of widths evaluate_int<T> supports (signed and
// unsigned at 8/16/32/64 bits, per spec.md section 4.1).
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Float is the set of widths evaluate_float<T> supports. Go has no
// native 128-bit float; long double constants are carried at float64
// precision and spilled as float64 bits in the low 8 bytes of their
// 16-byte slot (see writeSpilledConstValue in emit.go).
type Float interface {
	~float32 | ~float64
}

// EvaluateInt evaluates expr under scope in int64 arithmetic and
// truncates the intermediate result to T by ordinary Go integer conversion — wrap,
// not trap, matching spec.md's stated overflow semantics.
func EvaluateInt[T Integer](expr *Expr, scope *Node) (T, error) {
	v, err := evalInt64(expr, scope)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(v), nil
}

// EvaluateFloat evaluates expr under scope using IEEE host semantics.
func EvaluateFloat[T Float](expr *Expr, scope *Node) (T, error) {
	v, err := evalFloat64(expr, scope)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(v), nil
}

// StringLike is the set of target representations evaluate_string<T>
// supports: a narrow string, a narrow (8-bit) char, or a wide
// (rune-width) char.
type StringLike interface {
	string | byte | rune
}

// EvaluateString evaluates expr as a string or character literal,
// selecting narrow-string, narrow-char or wide-char decoding based on
// the instantiated T.
func EvaluateString[T StringLike](expr *Expr, scope *Node) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		s, err := evalStringLiteral(expr, scope)
		if err != nil {
			return zero, err
		}
		return any(s).(T), nil
	case byte:
		c, err := evalCharLiteral(expr, scope)
		if err != nil {
			return zero, err
		}
		return any(byte(c)).(T), nil
	case rune:
		c, err := evalCharLiteral(expr, scope)
		if err != nil {
			return zero, err
		}
		return any(c).(T), nil
	default:
		return zero, &EvalError{Kind: EvalBadConstantType, Pos: expr.Pos}
	}
}

func evalInt64(expr *Expr, scope *Node) (int64, error) {
	if expr == nil {
		return 0, &EvalError{Kind: EvalBadExpression}
	}
	switch expr.Kind {
	case ExprLitInt:
		return expr.IntVal, nil
	case ExprLitBool:
		if expr.BoolVal {
			return 1, nil
		}
		return 0, nil
	case ExprLitChar:
		return int64(expr.CharVal), nil
	case ExprUnary:
		v, err := evalInt64(expr.Operand, scope)
		if err != nil {
			return 0, err
		}
		switch expr.Op {
		case "-":
			return -v, nil
		case "+":
			return v, nil
		case "~":
			return ^v, nil
		case "!":
			if v == 0 {
				return 1, nil
			}
			return 0, nil
		}
		return 0, &EvalError{Kind: EvalBadExpression, Pos: expr.Pos}
	case ExprBinary:
		l, err := evalInt64(expr.Left, scope)
		if err != nil {
			return 0, err
		}
		r, err := evalInt64(expr.Right, scope)
		if err != nil {
			return 0, err
		}
		switch expr.Op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			if r == 0 {
				return 0, &EvalError{Kind: EvalDivZero, Pos: expr.Pos}
			}
			return l / r, nil
		case "%":
			if r == 0 {
				return 0, &EvalError{Kind: EvalDivZero, Pos: expr.Pos}
			}
			return l % r, nil
		case "<<":
			return l << uint(r), nil
		case ">>":
			return l >> uint(r), nil
		case "&":
			return l & r, nil
		case "|":
			return l | r, nil
		case "^":
			return l ^ r, nil
		}
		return 0, &EvalError{Kind: EvalBadExpression, Pos: expr.Pos}
	case ExprRef:
		target, err := resolveConstRef(expr, scope)
		if err != nil {
			return 0, err
		}
		return evalInt64(target, scope)
	default:
		return 0, &EvalError{Kind: EvalBadConstantType, Pos: expr.Pos}
	}
}

func evalFloat64(expr *Expr, scope *Node) (float64, error) {
	if expr == nil {
		return 0, &EvalError{Kind: EvalBadExpression}
	}
	switch expr.Kind {
	case ExprLitFloat:
		return expr.FloatVal, nil
	case ExprLitInt:
		return float64(expr.IntVal), nil
	case ExprUnary:
		v, err := evalFloat64(expr.Operand, scope)
		if err != nil {
			return 0, err
		}
		switch expr.Op {
		case "-":
			return -v, nil
		case "+":
			return v, nil
		}
		return 0, &EvalError{Kind: EvalBadExpression, Pos: expr.Pos}
	case ExprBinary:
		l, err := evalFloat64(expr.Left, scope)
		if err != nil {
			return 0, err
		}
		r, err := evalFloat64(expr.Right, scope)
		if err != nil {
			return 0, err
		}
		switch expr.Op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			if r == 0 {
				return 0, &EvalError{Kind: EvalDivZero, Pos: expr.Pos}
			}
			return l / r, nil
		}
		return 0, &EvalError{Kind: EvalBadExpression, Pos: expr.Pos}
	case ExprRef:
		target, err := resolveConstRef(expr, scope)
		if err != nil {
			return 0, err
		}
		return evalFloat64(target, scope)
	default:
		return 0, &EvalError{Kind: EvalBadConstantType, Pos: expr.Pos}
	}
}

func evalStringLiteral(expr *Expr, scope *Node) (string, error) {
	if expr == nil {
		return "", &EvalError{Kind: EvalBadExpression}
	}
	switch expr.Kind {
	case ExprLitString:
		return expr.StringVal, nil
	case ExprRef:
		target, err := resolveConstRef(expr, scope)
		if err != nil {
			return "", err
		}
		return evalStringLiteral(target, scope)
	default:
		return "", &EvalError{Kind: EvalBadConstantType, Pos: expr.Pos}
	}
}

func evalCharLiteral(expr *Expr, scope *Node) (rune, error) {
	if expr == nil {
		return 0, &EvalError{Kind: EvalBadExpression}
	}
	switch expr.Kind {
	case ExprLitChar:
		return expr.CharVal, nil
	case ExprLitInt:
		return rune(expr.IntVal), nil
	case ExprRef:
		target, err := resolveConstRef(expr, scope)
		if err != nil {
			return 0, err
		}
		return evalCharLiteral(target, scope)
	default:
		return 0, &EvalError{Kind: EvalBadConstantType, Pos: expr.Pos}
	}
}

// resolveConstRef follows an ExprRef to the expression it denotes:
// either another ConstDcl's initializer, or a synthetic integer
// literal standing in for an enumerator's ordinal.
func resolveConstRef(expr *Expr, scope *Node) (*Expr, error) {
	if expr.resolvedConst != nil {
		return expr.resolvedConst.Expr, nil
	}
	target, err := resolveNamePath(expr.RefPath, scope)
	if err != nil {
		return nil, &EvalError{Kind: EvalBadExpression, Pos: expr.Pos}
	}
	switch target.Kind {
	case KindConstDcl:
		expr.resolvedConst = target
		return target.Expr, nil
	case KindMember:
		if target.Parent != nil && target.Parent.Kind == KindEnumType {
			ordinal := 0
			for i, c := range target.Parent.Children {
				if c == target {
					ordinal = i
					break
				}
			}
			synthetic := &Node{Kind: KindConstDcl, Expr: &Expr{Kind: ExprLitInt, IntVal: int64(ordinal)}}
			expr.resolvedConst = synthetic
			return synthetic.Expr, nil
		}
	}
	return nil, &EvalError{Kind: EvalBadConstantType, Pos: expr.Pos}
}
