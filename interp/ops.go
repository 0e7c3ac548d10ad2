package interp

import (
	"fmt"

	"sablec/ast"
	"sablec/sem"
)

// evalUnary evaluates a unary operator application.
func (it *Interp) evalUnary(v *ast.UnaryExpr, f *frame) Value {
	operand := it.eval(v.Operand, f)

	switch v.Op {
	case ast.OpNeg:
		switch n := operand.(type) {
		case int32:
			return -n
		case float64:
			return -n
		}
	case ast.OpNot:
		if b, ok := operand.(bool); ok {
			return !b
		}
	case ast.OpCompl:
		switch n := operand.(type) {
		case int32:
			return ^n
		case Char:
			return ^int32(n)
		}
	}

	it.fail("bad operand for `%s`", ast.OpRepr(v.Op))
	return nil
}

// evalBinary evaluates a binary operator application, short-circuit
// operators included.
func (it *Interp) evalBinary(v *ast.BinaryExpr, f *frame) Value {
	switch v.Op {
	case ast.OpAnd:
		return it.evalBool(v.L, f) && it.evalBool(v.R, f)
	case ast.OpOr:
		return it.evalBool(v.L, f) || it.evalBool(v.R, f)
	}

	l := it.eval(v.L, f)
	r := it.eval(v.R, f)

	// String concatenation stringifies its operands.
	if isStringResult(v) {
		return stringify(l) + stringify(r)
	}

	switch v.Op {
	case ast.OpEq:
		return valuesEqual(l, r)
	case ast.OpNeq:
		return !valuesEqual(l, r)
	}

	if li, lok := asInt(l); lok {
		if ri, rok := asInt(r); rok && intResult(v) {
			return intOp(it, v.Op, li, ri)
		}
	}

	lf, lok := numeric(l)
	rf, rok := numeric(r)
	if !lok || !rok {
		it.fail("bad operands for `%s`", ast.OpRepr(v.Op))
	}

	switch v.Op {
	case ast.OpAdd:
		return lf + rf
	case ast.OpSub:
		return lf - rf
	case ast.OpMul:
		return lf * rf
	case ast.OpDiv:
		return lf / rf
	case ast.OpLt:
		return lf < rf
	case ast.OpGt:
		return lf > rf
	case ast.OpLtEq:
		return lf <= rf
	case ast.OpGtEq:
		return lf >= rf
	default:
		it.fail("bad operands for `%s`", ast.OpRepr(v.Op))
		return nil
	}
}

// intResult returns whether the checked result type of a binary expression
// is integral, forcing integer semantics for division and the bit operators.
func intResult(v *ast.BinaryExpr) bool {
	switch v.Type().(type) {
	case sem.SimpleType:
		return sem.Equals(v.Type(), sem.SimpleInt) || sem.Equals(v.Type(), sem.SimpleChar) ||
			sem.Equals(v.Type(), sem.SimpleBool)
	default:
		return false
	}
}

func isStringResult(v *ast.BinaryExpr) bool {
	if v.Op != ast.OpAdd {
		return false
	}

	_, ok := v.Type().(sem.StringType)
	return ok
}

func asInt(v Value) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case Char:
		return int32(n), true
	default:
		return 0, false
	}
}

func intOp(it *Interp, op int, l, r int32) Value {
	switch op {
	case ast.OpAdd:
		return l + r
	case ast.OpSub:
		return l - r
	case ast.OpMul:
		return l * r
	case ast.OpDiv:
		if r == 0 {
			it.fail("integer division by zero")
		}
		return l / r
	case ast.OpMod:
		if r == 0 {
			it.fail("integer division by zero")
		}
		return l % r
	case ast.OpBitAnd:
		return l & r
	case ast.OpBitOr:
		return l | r
	case ast.OpBitXor:
		return l ^ r
	case ast.OpShl:
		return l << uint(r)
	case ast.OpShr:
		return l >> uint(r)
	case ast.OpLt:
		return l < r
	case ast.OpGt:
		return l > r
	case ast.OpLtEq:
		return l <= r
	case ast.OpGtEq:
		return l >= r
	default:
		it.fail("bad integer operator `%s`", ast.OpRepr(op))
		return nil
	}
}

// stringify renders a value for concatenation and printing.
func stringify(v Value) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return n
	case Char:
		return string(rune(n))
	case int32:
		return fmt.Sprintf("%d", n)
	case float64:
		return fmt.Sprintf("%g", n)
	case bool:
		if n {
			return "true"
		}
		return "false"
	case *Object:
		return n.Class.Name
	case *ArrayVal:
		return fmt.Sprintf("%s[%d]", n.Elem.Repr(), len(n.Items))
	default:
		return "?"
	}
}

// -----------------------------------------------------------------------------

// evalAssign evaluates an assignment, compound forms included.
func (it *Interp) evalAssign(v *ast.AssignExpr, f *frame) Value {
	value := it.eval(v.R, f)

	if v.Op >= 0 {
		old := it.readTarget(v.L, f)
		value = it.applyCompound(v.Op, old, value, v)
	}

	it.writeTarget(v.L, value, f)
	return value
}

func (it *Interp) applyCompound(op int, old, value Value, v *ast.AssignExpr) Value {
	fake := &ast.BinaryExpr{Op: op, L: v.L, R: v.R}
	fake.SetType(v.L.Type())

	if isStringResult(fake) {
		return stringify(old) + stringify(value)
	}

	if li, lok := asInt(old); lok {
		if ri, rok := asInt(value); rok && intResult(fake) {
			return intOp(it, op, li, ri)
		}
	}

	lf, _ := numeric(old)
	rf, _ := numeric(value)
	switch op {
	case ast.OpAdd:
		return lf + rf
	case ast.OpSub:
		return lf - rf
	case ast.OpMul:
		return lf * rf
	case ast.OpDiv:
		return lf / rf
	default:
		it.fail("bad compound assignment")
		return nil
	}
}

// readTarget reads the current value of an assignment target.
func (it *Interp) readTarget(l ast.Expr, f *frame) Value {
	return it.eval(l, f)
}

// writeTarget stores a value into an assignment target.
func (it *Interp) writeTarget(l ast.Expr, value Value, f *frame) {
	switch t := l.(type) {
	case *ast.NameExpr:
		if t.Local != nil {
			f.locals[t.Local] = value
			return
		}

		it.writeMember(f.this, t.Member, value)
	case *ast.DotExpr:
		if t.Static != nil {
			it.writeMember(nil, t.Member, value)
			return
		}

		it.writeMember(it.evalObject(t.Target, f), t.Member, value)
	case *ast.IndexExpr:
		target := it.eval(t.Target, f)
		i := it.evalInt(t.Index, f)

		switch c := target.(type) {
		case *ArrayVal:
			if i < 0 || i >= len(c.Items) {
				it.fail("array index %d out of range", i)
			}
			c.Items[i] = value
		case *Object:
			it.call(t.Member.Setter, c, []Value{int32(i), value})
		case nil:
			it.fail("null reference in index store")
		default:
			it.fail("value cannot be index-assigned")
		}
	default:
		it.fail("expression is not assignable")
	}
}

func (it *Interp) writeMember(this *Object, m *sem.Member, value Value) {
	switch m.Kind {
	case sem.MemberField:
		if m.Static {
			if it.statics == nil {
				it.statics = make(map[*sem.Member]Value)
			}
			it.statics[m] = value
			return
		}

		if this == nil {
			it.fail("null reference writing field `%s`", m.Name)
		}
		this.Fields[m] = value
	case sem.MemberProperty:
		it.call(m.Setter, this, []Value{value})
	default:
		it.fail("member `%s` cannot be assigned", m.Name)
	}
}

// -----------------------------------------------------------------------------

// evalCast evaluates an explicit conversion.
func (it *Interp) evalCast(v *ast.CastExpr, f *frame) Value {
	value := it.eval(v.Value, f)
	dest := v.Type()

	if sem.IsValue(dest) {
		return it.convertValue(value, dest)
	}

	switch target := sem.Dropped(dest).(type) {
	case *sem.Class:
		if target == sem.ObjectClass {
			return value
		}

		if value == nil {
			return nil
		}

		obj, ok := value.(*Object)
		if !ok || !obj.Class.DerivesFrom(target) {
			it.fail("invalid cast to `%s`", target.Name)
		}

		return obj
	case sem.StringType:
		if value == nil {
			return nil
		}

		if s, ok := value.(string); ok {
			return s
		}

		it.fail("invalid cast to string")
	}

	return value
}

// convertValue narrows or widens a runtime value into a value type,
// unboxing included.
func (it *Interp) convertValue(value Value, dest sem.Type) Value {
	st, ok := dest.(sem.SimpleType)
	if !ok {
		return value
	}

	n, isNum := numeric(value)
	if !isNum {
		if b, isBool := value.(bool); isBool && st == sem.SimpleBool {
			return b
		}

		it.fail("invalid cast to `%s`", dest.Repr())
	}

	switch st {
	case sem.SimpleInt:
		return int32(n)
	case sem.SimpleChar:
		return Char(int32(n))
	case sem.SimpleFloat, sem.SimpleDouble:
		return n
	default:
		it.fail("invalid cast to `%s`", dest.Repr())
		return nil
	}
}
