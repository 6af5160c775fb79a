package lvn

import "rill/internal/ir"

// fold evaluates the canonical value just registered under num, records
// the result in num2const, and returns the literal when a computation
// folds to a compile-time constant. Returns nil when folding is off, when
// the value is already a plain constant, or when it cannot be folded.
// Division by zero is never folded.
func (t *Table) fold(num int, v *value) *ir.Literal {
	if t.num2const == nil {
		return nil
	}
	switch v.kind {
	case constValue:
		t.num2const[num] = v.lit
		return nil // the instruction already is a constant
	case unaryValue:
		if v.op != ir.Not {
			return nil
		}
		operand, known := t.num2const[v.a]
		if !known {
			return nil
		}
		var lit ir.Literal
		if operand.Kind == ir.IntLit {
			lit = ir.NewBool(operand.Int == 0)
		} else {
			lit = ir.NewBool(!operand.Bool)
		}
		t.num2const[num] = lit
		return &lit
	case binaryValue:
		la, aok := t.num2const[v.a]
		lb, bok := t.num2const[v.b]
		if aok && bok {
			lit, ok := evalBinary(v.op, la, lb)
			if !ok {
				return nil
			}
			t.num2const[num] = lit
			return &lit
		}
		if lit, ok := identity(v, la, aok, lb, bok); ok {
			t.num2const[num] = lit
			return &lit
		}
	}
	return nil
}

// identity applies the algebraic identities that hold without both
// operands known: x==x, x<=x, x>=x, or-with-true, and-with-false.
func identity(v *value, la ir.Literal, aok bool, lb ir.Literal, bok bool) (ir.Literal, bool) {
	switch v.op {
	case ir.Eq, ir.Le, ir.Ge:
		if v.a == v.b {
			return ir.NewBool(true), true
		}
	case ir.Or:
		if aok && la.Kind == ir.BoolLit && la.Bool {
			return ir.NewBool(true), true
		}
		if bok && lb.Kind == ir.BoolLit && lb.Bool {
			return ir.NewBool(true), true
		}
	case ir.And:
		if aok && la.Kind == ir.BoolLit && !la.Bool {
			return ir.NewBool(false), true
		}
		if bok && lb.Kind == ir.BoolLit && !lb.Bool {
			return ir.NewBool(false), true
		}
	}
	return ir.Literal{}, false
}

func evalBinary(op ir.ValueOp, a, b ir.Literal) (ir.Literal, bool) {
	if a.Kind == ir.IntLit && b.Kind == ir.IntLit {
		return evalIntBinary(op, a.Int, b.Int)
	}
	if a.Kind == ir.BoolLit && b.Kind == ir.BoolLit {
		return evalBoolBinary(op, a.Bool, b.Bool)
	}
	return ir.Literal{}, false
}

func evalIntBinary(op ir.ValueOp, a, b int64) (ir.Literal, bool) {
	switch op {
	case ir.Add:
		return ir.NewInt(a + b), true
	case ir.Sub:
		return ir.NewInt(a - b), true
	case ir.Mul:
		return ir.NewInt(a * b), true
	case ir.Div:
		if b == 0 {
			return ir.Literal{}, false
		}
		return ir.NewInt(a / b), true
	case ir.Eq:
		return ir.NewBool(a == b), true
	case ir.Lt:
		return ir.NewBool(a < b), true
	case ir.Gt:
		return ir.NewBool(a > b), true
	case ir.Le:
		return ir.NewBool(a <= b), true
	case ir.Ge:
		return ir.NewBool(a >= b), true
	case ir.And:
		return ir.NewBool(a != 0 && b != 0), true
	case ir.Or:
		return ir.NewBool(a != 0 || b != 0), true
	}
	return ir.Literal{}, false
}

func evalBoolBinary(op ir.ValueOp, a, b bool) (ir.Literal, bool) {
	switch op {
	case ir.And:
		return ir.NewBool(a && b), true
	case ir.Or:
		return ir.NewBool(a || b), true
	case ir.Eq:
		return ir.NewBool(a == b), true
	}
	return ir.Literal{}, false
}
