package gmlfront

import "math"

// constValue is the result of folding a constant expression
type constValue struct {
	isInt bool
	i     int64
	f     float64
}

func intConst(i int64) constValue     { return constValue{isInt: true, i: i} }
func floatConst(f float64) constValue { return constValue{f: f} }

func (v constValue) float() float64 {
	if v.isInt {
		return float64(v.i)
	}
	return v.f
}

// integer returns the value as an integer if it has no fractional part
func (v constValue) integer() (int64, bool) {
	if v.isInt {
		return v.i, true
	}
	if v.f != math.Trunc(v.f) || math.IsInf(v.f, 0) || math.IsNaN(v.f) {
		return 0, false
	}
	return int64(v.f), true
}

// constResolver resolves names while folding. member resolves "Enum.Member";
// bare resolves a plain name, such as a member of the enum being declared.
type constResolver struct {
	member func(enum, name string) (int64, bool)
	bare   func(name string) (int64, bool)
}

// foldConstant evaluates n if it is built only from literals, resolvable
// names and arithmetic or bitwise operators
func foldConstant(n Node, r constResolver) (constValue, bool) {
	switch n := n.(type) {
	case *NumberNode:
		return floatConst(n.Value), true
	case *Int64Node:
		return intConst(n.Value), true
	case *BooleanNode:
		if n.Value {
			return floatConst(1), true
		}
		return floatConst(0), true

	case *SimpleVariableNode:
		if r.bare != nil {
			if v, ok := r.bare(n.Name); ok {
				return intConst(v), true
			}
		}
	case *DotVariableNode:
		if left, ok := n.Left.(*SimpleVariableNode); ok && r.member != nil {
			if v, ok := r.member(left.Name, n.Name); ok {
				return intConst(v), true
			}
		}

	case *UnaryNode:
		v, ok := foldConstant(n.Expression, r)
		if !ok {
			return constValue{}, false
		}
		switch n.Operator {
		case OperatorPlus:
			return v, true
		case OperatorMinus:
			if v.isInt {
				return intConst(-v.i), true
			}
			return floatConst(-v.f), true
		case OperatorBitwiseNegate:
			if i, ok := v.integer(); ok {
				return intConst(^i), true
			}
		case OperatorNot:
			if v.float() > 0.5 {
				return floatConst(0), true
			}
			return floatConst(1), true
		}

	case *BinaryChainNode:
		acc, ok := foldConstant(n.Arguments[0], r)
		if !ok {
			return constValue{}, false
		}
		for i, op := range n.Operations {
			rhs, ok := foldConstant(n.Arguments[i+1], r)
			if !ok {
				return constValue{}, false
			}
			if acc, ok = foldBinary(op, acc, rhs); !ok {
				return constValue{}, false
			}
		}
		return acc, true
	}
	return constValue{}, false
}

func foldBinary(op OperatorKind, a, b constValue) (constValue, bool) {
	bothInt := a.isInt && b.isInt
	switch op {
	case OperatorPlus:
		if bothInt {
			return intConst(a.i + b.i), true
		}
		return floatConst(a.float() + b.float()), true
	case OperatorMinus:
		if bothInt {
			return intConst(a.i - b.i), true
		}
		return floatConst(a.float() - b.float()), true
	case OperatorTimes:
		if bothInt {
			return intConst(a.i * b.i), true
		}
		return floatConst(a.float() * b.float()), true
	case OperatorDivide:
		if b.float() == 0 {
			return constValue{}, false
		}
		return floatConst(a.float() / b.float()), true
	case OperatorMod:
		if b.float() == 0 {
			return constValue{}, false
		}
		if bothInt {
			return intConst(a.i % b.i), true
		}
		return floatConst(math.Mod(a.float(), b.float())), true
	}

	// Remaining operators work on integers
	x, okA := a.integer()
	y, okB := b.integer()
	if !okA || !okB {
		return constValue{}, false
	}
	switch op {
	case OperatorDiv:
		if y == 0 {
			return constValue{}, false
		}
		return intConst(x / y), true
	case OperatorBitwiseAnd:
		return intConst(x & y), true
	case OperatorBitwiseOr:
		return intConst(x | y), true
	case OperatorBitwiseXor:
		return intConst(x ^ y), true
	case OperatorBitwiseShiftLeft:
		if y < 0 || y > 63 {
			return constValue{}, false
		}
		return intConst(x << uint(y)), true
	case OperatorBitwiseShiftRight:
		if y < 0 || y > 63 {
			return constValue{}, false
		}
		return intConst(x >> uint(y)), true
	}
	return constValue{}, false
}

// constantNode builds the literal node for an integer constant: a number
// node when it fits 32 bits, an int64 node otherwise
func constantNode(base nodeBase, name string, v int64) Node {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return &NumberNode{nodeBase: base, Value: float64(v), Name: name}
	}
	return &Int64Node{base, v}
}
