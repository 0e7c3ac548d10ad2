package interp

import (
	"sablec/ast"
	"sablec/sem"
)

// cell aliases a caller's local for a ref or out argument.
type cell struct {
	v Value
}

// eval evaluates a single expression.
func (it *Interp) eval(e ast.Expr, f *frame) Value {
	switch v := e.(type) {
	case *ast.Literal:
		if v.Kind == ast.LitChar {
			return Char(v.Value.(rune))
		}

		return v.Value
	case *ast.NameExpr:
		return it.evalName(v, f)
	case *ast.ThisExpr:
		return f.this
	case *ast.DotExpr:
		return it.evalDot(v, f)
	case *ast.IndexExpr:
		return it.evalIndex(v, f)
	case *ast.CallExpr:
		return it.evalCall(v, f)
	case *ast.NewExpr:
		return it.evalNew(v, f)
	case *ast.NewArrayExpr:
		n := it.evalInt(v.Length, f)
		if n < 0 {
			it.fail("negative array length")
		}

		elem := elemOf(v.Type())
		items := make([]Value, n)
		for i := range items {
			items[i] = zeroValue(elem)
		}

		return &ArrayVal{Elem: elem, Items: items}
	case *ast.UnaryExpr:
		return it.evalUnary(v, f)
	case *ast.BinaryExpr:
		return it.evalBinary(v, f)
	case *ast.CondExpr:
		if it.evalBool(v.Cond, f) {
			return it.eval(v.Then, f)
		}

		return it.eval(v.Else, f)
	case *ast.AssignExpr:
		return it.evalAssign(v, f)
	case *ast.CastExpr:
		return it.evalCast(v, f)
	case *ast.TakeExpr:
		return it.evalTake(v, f)
	case *ast.IsExpr:
		obj, ok := it.eval(v.Value, f).(*Object)
		if !ok {
			return false
		}

		if c, found := targetClass(v.To); found {
			return obj.Class.DerivesFrom(c)
		}

		return false
	default:
		it.fail("unsupported construct")
		return nil
	}
}

func elemOf(t sem.Type) sem.Type {
	if at, ok := sem.Dropped(t).(*sem.ArrayType); ok {
		return at.Elem
	}

	return t
}

func targetClass(te ast.TypeExpr) (*sem.Class, bool) {
	if named, ok := te.(*ast.NamedTypeExpr); ok {
		return sem.LookupClass(named.Name)
	}

	return nil, false
}

// zeroValue is the default value of a storage slot of the given type.
func zeroValue(t sem.Type) Value {
	switch v := sem.Dropped(t).(type) {
	case sem.SimpleType:
		switch v {
		case sem.SimpleBool:
			return false
		case sem.SimpleChar:
			return Char(0)
		case sem.SimpleInt:
			return int32(0)
		default:
			return float64(0)
		}
	default:
		return nil
	}
}

// -----------------------------------------------------------------------------

func (it *Interp) evalName(v *ast.NameExpr, f *frame) Value {
	if v.Local != nil {
		val, ok := f.locals[v.Local]
		if !ok {
			return zeroValue(v.Local.Type)
		}

		return val
	}

	return it.readMember(f.this, v.Member, f)
}

func (it *Interp) evalDot(v *ast.DotExpr, f *frame) Value {
	if v.Static != nil {
		return it.readMember(nil, v.Member, f)
	}

	switch target := it.eval(v.Target, f).(type) {
	case *Object:
		return it.readMember(target, v.Member, f)
	case nil:
		it.fail("null reference reading `%s`", v.Name)
		return nil
	default:
		// Member reads on strings and arrays go to the builtin surface.
		m := v.Member
		if m.Kind == sem.MemberProperty {
			m = m.Getter
		}

		return it.callBuiltinOn(m, target, nil)
	}
}

// readMember reads a field or property of an instance (nil for statics).
func (it *Interp) readMember(this *Object, m *sem.Member, f *frame) Value {
	switch m.Kind {
	case sem.MemberField:
		switch {
		case m.Const:
			return constVal(m)
		case m.Static:
			return it.staticVal(m)
		default:
			if this == nil {
				it.fail("null reference reading field `%s`", m.Name)
			}

			val, ok := this.Fields[m]
			if !ok {
				return zeroValue(m.Type)
			}

			return val
		}
	case sem.MemberProperty:
		return it.call(m.Getter, this, nil)
	default:
		it.fail("member `%s` cannot be read", m.Name)
		return nil
	}
}

func constVal(m *sem.Member) Value {
	// Char consts arrive as runes from the lexer; everything else is stored
	// in its runtime shape already.
	if r, ok := m.ConstValue.(rune); ok && sem.Equals(m.Type, sem.SimpleChar) {
		return Char(r)
	}

	return m.ConstValue
}

func (it *Interp) staticVal(m *sem.Member) Value {
	if it.statics == nil {
		it.statics = make(map[*sem.Member]Value)
	}

	val, ok := it.statics[m]
	if !ok {
		return zeroValue(m.Type)
	}

	return val
}

// evalObject evaluates an expression expected to produce an instance.
func (it *Interp) evalObject(e ast.Expr, f *frame) *Object {
	switch v := it.eval(e, f).(type) {
	case *Object:
		return v
	case nil:
		it.fail("null reference")
		return nil
	default:
		it.fail("value has no members")
		return nil
	}
}

func (it *Interp) evalInt(e ast.Expr, f *frame) int {
	switch v := it.eval(e, f).(type) {
	case int32:
		return int(v)
	case Char:
		return int(v)
	default:
		it.fail("expected an int")
		return 0
	}
}

// -----------------------------------------------------------------------------

func (it *Interp) evalIndex(v *ast.IndexExpr, f *frame) Value {
	target := it.eval(v.Target, f)
	i := it.evalInt(v.Index, f)

	switch c := target.(type) {
	case *ArrayVal:
		if i < 0 || i >= len(c.Items) {
			it.fail("array index %d out of range", i)
		}

		return c.Items[i]
	case string:
		runes := []rune(c)
		if i < 0 || i >= len(runes) {
			it.fail("string index %d out of range", i)
		}

		return Char(runes[i])
	case *Object:
		return it.call(v.Member.Getter, c, []Value{int32(i)})
	case nil:
		it.fail("null reference in index")
	}

	it.fail("value cannot be indexed")
	return nil
}

func (it *Interp) evalCall(v *ast.CallExpr, f *frame) Value {
	m := v.Member

	var this *Object
	switch callee := v.Func.(type) {
	case *ast.NameExpr:
		if !m.Static && m.Owner != sem.StdClass {
			this = f.this
		}
	case *ast.DotExpr:
		if _, isBase := callee.Target.(*ast.BaseExpr); isBase {
			// A base call runs the parent's member without dispatch.
			args := it.evalArgs(v.Args, f)
			ret := Value(nil)
			if mb := it.bodies[m]; mb != nil {
				frame2 := &frame{this: f.this, locals: make(map[*sem.Local]Value)}
				for i, p := range mb.params {
					if i < len(args) {
						frame2.locals[p] = args[i]
					}
				}

				ctrl, r := it.execBlock(mb.body.Stmts, frame2)
				if ctrl == ctrlReturn {
					ret = r
				}
			} else {
				ret = it.callBuiltin(m, f.this, args)
			}

			return ret
		}

		if callee.Static == nil && !m.Static {
			target := it.eval(callee.Target, f)
			switch tv := target.(type) {
			case *Object:
				this = tv
			case nil:
				it.fail("null reference calling `%s`", m.Name)
			default:
				// Calls on strings and arrays go to the builtin surface.
				return it.callBuiltinOn(m, tv, it.evalArgs(v.Args, f))
			}
		}
	}

	args, cells := it.evalRefArgs(v.Args, f)
	ret := it.call(m, this, args)

	for i, c := range cells {
		if c != nil {
			if ne, ok := v.Args[i].Value.(*ast.NameExpr); ok && ne.Local != nil {
				f.locals[ne.Local] = c.v
			}
		}
	}

	return ret
}

func (it *Interp) evalArgs(args []*ast.CallArg, f *frame) []Value {
	vals := make([]Value, len(args))
	for i, a := range args {
		vals[i] = it.eval(a.Value, f)
	}

	return vals
}

// evalRefArgs evaluates arguments, aliasing ref and out locals through
// cells so the callee's final parameter values copy back.
func (it *Interp) evalRefArgs(args []*ast.CallArg, f *frame) ([]Value, []*cell) {
	vals := make([]Value, len(args))
	cells := make([]*cell, len(args))

	for i, a := range args {
		if a.Mode != sem.LocalVar {
			c := &cell{}
			if ne, ok := a.Value.(*ast.NameExpr); ok && ne.Local != nil {
				c.v = f.locals[ne.Local]
			}

			cells[i] = c
			vals[i] = c
			continue
		}

		vals[i] = it.eval(a.Value, f)
	}

	return vals, cells
}

func (it *Interp) evalNew(v *ast.NewExpr, f *frame) Value {
	if v.Pool != nil {
		// Pool allocation has no interpreter-level effect: the host
		// collects everything.
		it.eval(v.Pool, f)
	}

	args, _ := it.evalRefArgs(v.Args, f)
	return it.instantiate(v.Class, v.Ctor, args)
}

func (it *Interp) evalTake(v *ast.TakeExpr, f *frame) Value {
	switch l := v.Operand.(type) {
	case *ast.NameExpr:
		if l.Local != nil {
			val := f.locals[l.Local]
			f.locals[l.Local] = nil
			return val
		}

		if f.this == nil {
			it.fail("null reference in take")
		}

		val := f.this.Fields[l.Member]
		f.this.Fields[l.Member] = nil
		return val
	case *ast.DotExpr:
		obj := it.evalObject(l.Target, f)
		val := obj.Fields[l.Member]
		obj.Fields[l.Member] = nil
		return val
	default:
		it.fail("unsupported take")
		return nil
	}
}
