package walk

import (
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// walkExpr checks a single expression and returns its resolved type.  The
// consumed flag indicates whether an owning result is consumed by the
// surrounding context (bound to owning storage, an owning parameter, or an
// owning return): an unconsumed owning result is a temporary destroyed at
// the end of the statement.
func (w *Walker) walkExpr(e ast.Expr, consumed bool) sem.Type {
	var t sem.Type

	switch v := e.(type) {
	case *ast.Literal:
		t = w.walkLiteral(v)
	case *ast.NameExpr:
		t = w.walkName(v)
	case *ast.ThisExpr:
		t = w.walkThis(v)
	case *ast.BaseExpr:
		w.error(v.Span(), "base is only valid as a call target")
	case *ast.DotExpr:
		t = w.walkDot(v)
	case *ast.IndexExpr:
		t = w.walkIndex(v)
	case *ast.CallExpr:
		t = w.walkCall(v, consumed)
	case *ast.NewExpr:
		t = w.walkNew(v, consumed)
	case *ast.NewArrayExpr:
		t = w.walkNewArray(v, consumed)
	case *ast.UnaryExpr:
		t = w.walkUnary(v)
	case *ast.BinaryExpr:
		t = w.walkBinary(v)
	case *ast.CondExpr:
		t = w.walkCondExpr(v, consumed)
	case *ast.AssignExpr:
		t = w.walkAssign(v)
	case *ast.CastExpr:
		t = w.walkCast(v, consumed)
	case *ast.TakeExpr:
		t = w.walkTake(v)
	case *ast.IsExpr:
		t = w.walkIs(v)
	default:
		w.error(e.Span(), "unsupported expression")
	}

	e.SetType(t)
	return t
}

// -----------------------------------------------------------------------------

// walkUnary checks a unary operator application.
func (w *Walker) walkUnary(e *ast.UnaryExpr) sem.Type {
	t := w.walkExpr(e.Operand, false)

	switch e.Op {
	case ast.OpNeg:
		if st, ok := t.(sem.SimpleType); ok && st.IsNumeric() {
			return t
		}
	case ast.OpNot:
		if sem.Equals(t, sem.SimpleBool) {
			return t
		}
	case ast.OpCompl:
		if sem.Equals(t, sem.SimpleInt) || sem.Equals(t, sem.SimpleChar) {
			return sem.SimpleInt
		}
	}

	w.error(e.Span(), "operator `%s` cannot be applied to `%s`", ast.OpRepr(e.Op), t.Repr())
	return nil
}

// walkBinary checks a binary operator application.  The short-circuit
// operators thread a joiner so that the conditional evaluation of the right
// operand is visible to the analyses.
func (w *Walker) walkBinary(e *ast.BinaryExpr) sem.Type {
	if e.Op == ast.OpAnd || e.Op == ast.OpOr {
		lt := w.walkExpr(e.L, false)

		saved := w.prev
		rt := w.walkExpr(e.R, false)

		join := w.newJoiner()
		join.Join(saved)
		join.Join(w.prev)
		w.prev = join.Combine()

		if !sem.Equals(lt, sem.SimpleBool) || !sem.Equals(rt, sem.SimpleBool) {
			w.error(e.Span(), "operator `%s` requires boolean operands", ast.OpRepr(e.Op))
		}

		return sem.SimpleBool
	}

	lt := w.walkExpr(e.L, false)
	rt := w.walkExpr(e.R, false)
	return w.checkBinaryOp(e.Span(), e.Op, lt, rt)
}

// checkBinaryOp type-checks a non-short-circuit binary operator against its
// operand types and returns the result type.
func (w *Walker) checkBinaryOp(span *report.TextSpan, op int, lt, rt sem.Type) sem.Type {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		// String concatenation.
		if op == ast.OpAdd && (isString(lt) || isString(rt)) {
			if concatOperand(lt) && concatOperand(rt) {
				return sem.StringType{}
			}
			break
		}

		if t, ok := unifyNumeric(lt, rt); ok {
			return t
		}
	case ast.OpEq, ast.OpNeq:
		if _, ok := unifyNumeric(lt, rt); ok {
			return sem.SimpleBool
		}

		if sem.Equals(lt, sem.SimpleBool) && sem.Equals(rt, sem.SimpleBool) {
			return sem.SimpleBool
		}

		// Reference identity, null comparisons included.
		if sem.IsReference(lt) && sem.IsReference(rt) {
			if sem.SubtypeOf(lt, rt) || sem.SubtypeOf(rt, lt) {
				return sem.SimpleBool
			}
		}
	case ast.OpLt, ast.OpGt, ast.OpLtEq, ast.OpGtEq:
		if _, ok := unifyNumeric(lt, rt); ok {
			return sem.SimpleBool
		}
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr:
		if isIntegral(lt) && isIntegral(rt) {
			return sem.SimpleInt
		}
	}

	w.error(span, "operator `%s` cannot be applied to `%s` and `%s`",
		ast.OpRepr(op), lt.Repr(), rt.Repr())
	return nil
}

// unifyNumeric finds the common type of two numeric operands, widening chars
// to ints and narrower floats to wider ones.
func unifyNumeric(lt, rt sem.Type) (sem.Type, bool) {
	lst, lok := lt.(sem.SimpleType)
	rst, rok := rt.(sem.SimpleType)
	if !lok || !rok {
		return nil, false
	}

	if lst == sem.SimpleChar && rst == sem.SimpleChar {
		return sem.SimpleChar, true
	}

	if lst == sem.SimpleChar {
		lst = sem.SimpleInt
	}
	if rst == sem.SimpleChar {
		rst = sem.SimpleInt
	}

	if !lst.IsNumeric() || !rst.IsNumeric() {
		return nil, false
	}

	switch {
	case lst == sem.SimpleDouble || rst == sem.SimpleDouble:
		return sem.SimpleDouble, true
	case lst == sem.SimpleFloat || rst == sem.SimpleFloat:
		return sem.SimpleFloat, true
	default:
		return sem.SimpleInt, true
	}
}

func isString(t sem.Type) bool {
	_, ok := t.(sem.StringType)
	return ok
}

func isIntegral(t sem.Type) bool {
	return sem.Equals(t, sem.SimpleInt) || sem.Equals(t, sem.SimpleChar)
}

// concatOperand returns whether a value of type t may appear in a string
// concatenation.
func concatOperand(t sem.Type) bool {
	if isString(t) {
		return true
	}

	if st, ok := t.(sem.SimpleType); ok {
		return st == sem.SimpleChar || st.IsNumeric() || st == sem.SimpleBool
	}

	return false
}

// -----------------------------------------------------------------------------

// walkCondExpr checks a ternary conditional.  Both arms join at a combined
// joiner like an if statement.
func (w *Walker) walkCondExpr(e *ast.CondExpr, consumed bool) sem.Type {
	ct := w.walkExpr(e.Cond, false)
	if !sem.Equals(ct, sem.SimpleBool) {
		w.error(e.Cond.Span(), "condition must be a boolean, not `%s`", ct.Repr())
	}

	saved := w.prev
	join := w.newJoiner()

	tt := w.walkExpr(e.Then, consumed)
	join.Join(w.prev)

	w.prev = saved
	et := w.walkExpr(e.Else, consumed)
	join.Join(w.prev)

	w.prev = join.Combine()

	switch {
	case sem.Equals(tt, et):
		return tt
	case sem.CanConvert(tt, et, sem.ConvOther, false, false):
		return et
	case sem.CanConvert(et, tt, sem.ConvOther, false, false):
		return tt
	default:
		w.error(e.Span(), "incompatible branch types `%s` and `%s`", tt.Repr(), et.Repr())
		return nil
	}
}

// walkCast checks an explicit conversion.
func (w *Walker) walkCast(e *ast.CastExpr, consumed bool) sem.Type {
	to := resolveTypeExpr(w.file.AbsPath, e.To, false)
	from := w.walkExpr(e.Value, consumed && sem.IsOwning(to))

	if !sem.Convert(from, to, sem.ConvOther, true, false) {
		w.error(e.Span(), "cannot convert `%s` to `%s`", from.Repr(), to.Repr())
	}

	return to
}

// walkIs checks a runtime type test.  The test requires RTTI on the value's
// class.
func (w *Walker) walkIs(e *ast.IsExpr) sem.Type {
	vt := w.walkExpr(e.Value, false)
	to := resolveTypeExpr(w.file.AbsPath, e.To, false)

	if !sem.IsReference(vt) || !sem.IsReference(to) {
		w.error(e.Span(), "`is` requires reference types")
	}

	if c := sem.ClassOf(vt); c != nil {
		c.VirtualNeeded = true
	}

	return sem.SimpleBool
}

// walkTake checks an ownership transfer out of an owning storage location.
// The location is left null.
func (w *Walker) walkTake(e *ast.TakeExpr) sem.Type {
	switch v := e.Operand.(type) {
	case *ast.NameExpr:
		t := w.walkName(v)
		v.SetType(t)

		if v.Local != nil {
			if !sem.IsOwning(v.Local.Type) {
				w.error(e.Span(), "can't transfer ownership from non-owning variable `%s`", v.Name)
			}

			n := w.newNode()
			n.Taken = []*sem.Local{v.Local}
			n.Assigned = []*sem.Local{v.Local}
			return v.Local.Type
		}

		if v.Member != nil && v.Member.Kind == sem.MemberField {
			return w.takeField(e, v.Member)
		}
	case *ast.DotExpr:
		t := w.walkDot(v)
		v.SetType(t)

		if v.Member != nil && v.Member.Kind == sem.MemberField {
			return w.takeField(e, v.Member)
		}
	}

	w.error(e.Span(), "can't transfer ownership: take requires an owning variable or field")
	return nil
}

// takeField records an ownership transfer out of an owning field.
func (w *Walker) takeField(e *ast.TakeExpr, f *sem.Member) sem.Type {
	if !sem.IsOwning(f.Type) {
		w.error(e.Span(), "can't transfer ownership from non-owning field `%s`", f.Name)
	}

	n := w.newNode()
	n.TakenFields = []*sem.Member{f}
	return f.Type
}

// -----------------------------------------------------------------------------

// walkAssign checks an assignment, compound assignments included.  The
// target is evaluated before the value.
func (w *Walker) walkAssign(e *ast.AssignExpr) sem.Type {
	lv := w.resolveLValue(e.L)

	// A compound assignment reads the target first.
	if e.Op >= 0 {
		lv.recordRead(w)
	}

	// Array element slots own their reference-typed values even though the
	// element type is spelled without the owning wrapper.
	consumed := sem.IsOwning(lv.typ) || (lv.arrayElem && !sem.IsValue(lv.typ))

	rt := w.walkExpr(e.R, consumed)

	if e.Op >= 0 {
		rt = w.checkBinaryOp(e.Span(), e.Op, lv.typ, rt)
	}

	if !sem.Convert(rt, lv.typ, sem.ConvAssign, false, false) {
		w.error(e.R.Span(), "cannot convert `%s` to `%s`", rt.Repr(), lv.typ.Repr())
	}

	lv.store(w)
	e.L.SetType(lv.typ)
	return lv.typ
}

// lvalue describes a resolved assignment target.
type lvalue struct {
	// The declared type of the storage location.
	typ sem.Type

	// The assigned local, for a local target.
	local *sem.Local

	// The assigned field, for a field target.
	field *sem.Member

	// The setter called, for a property or indexer target.
	setter *sem.Member

	// Whether the target is an array element, whose previous value the array
	// owns.
	arrayElem bool

	// The read span of the target.
	span *report.TextSpan
}

// resolveLValue resolves an assignment target, evaluating its component
// expressions.
func (w *Walker) resolveLValue(l ast.Expr) *lvalue {
	switch v := l.(type) {
	case *ast.NameExpr:
		if local := w.lookup(v.Name); local != nil {
			v.Local = local
			return &lvalue{typ: local.Type, local: local, span: v.Span()}
		}

		m, status := sem.LookupField(w.class, v.Name, w.class)
		if status == sem.LookupNone {
			w.error(v.Span(), "undefined symbol: `%s`", v.Name)
		}
		w.checkMemberAccess(v.Span(), m, status)

		v.Member = m
		return w.memberLValue(v.Span(), m)
	case *ast.DotExpr:
		c := w.walkDotTarget(v)

		m, status := sem.LookupField(c, v.Name, w.class)
		if status == sem.LookupNone {
			w.error(v.Span(), "class `%s` has no member `%s`", c.Name, v.Name)
		}
		w.checkMemberAccess(v.Span(), m, status)

		v.Member = m
		return w.memberLValue(v.Span(), m)
	case *ast.IndexExpr:
		tt := sem.Dropped(w.walkExpr(v.Target, false))

		switch ct := tt.(type) {
		case *sem.ArrayType:
			it := w.walkExpr(v.Index, false)
			if !sem.Convert(it, sem.SimpleInt, sem.ConvOther, false, false) {
				w.error(v.Index.Span(), "array index must be an int")
			}

			return &lvalue{typ: ct.Elem, arrayElem: true, span: v.Span()}
		case *sem.Class:
			indexer, status := sem.LookupMember(ct, sem.MemberIndexer, "[]",
				[]sem.Arg{{Type: w.walkExpr(v.Index, false)}}, w.class, false)
			if status == sem.LookupNone || indexer.Setter == nil {
				w.error(v.Span(), "`%s` has no settable indexer", tt.Repr())
			}
			w.checkMemberAccess(v.Span(), indexer, status)

			v.Member = indexer
			return &lvalue{typ: indexer.Type, setter: indexer.Setter, span: v.Span()}
		default:
			w.error(v.Span(), "`%s` cannot be indexed", tt.Repr())
		}
	}

	w.error(l.Span(), "expression is not assignable")
	return nil
}

// memberLValue builds the lvalue for a field or property member.
func (w *Walker) memberLValue(span *report.TextSpan, m *sem.Member) *lvalue {
	switch m.Kind {
	case sem.MemberField:
		if m.Const {
			w.error(span, "cannot assign to const field `%s`", m.Name)
		}

		return &lvalue{typ: fieldStorageType(m), field: m, span: span}
	case sem.MemberProperty:
		if m.Setter == nil {
			w.error(span, "property `%s` has no setter", m.Name)
		}

		return &lvalue{typ: m.Type, setter: m.Setter, span: span}
	default:
		w.error(span, "`%s` is not assignable", m.Name)
		return nil
	}
}

// fieldStorageType is the type a field assignment converts to: owning fields
// accept owning values.
func fieldStorageType(m *sem.Member) sem.Type {
	return m.Type
}

// recordRead records the compound-assignment read of the target.
func (lv *lvalue) recordRead(w *Walker) {
	if lv.local != nil {
		w.recordUse(lv.local, lv.span)
	} else if lv.field != nil {
		w.recordFieldUse(lv.field, lv.span)
	}
}

// store emits the CFG node of the assignment itself: the previous value of
// an owning location is destroyed by the store.
func (lv *lvalue) store(w *Walker) {
	n := w.newNode()

	switch {
	case lv.local != nil:
		lv.local.Mutable = true
		n.Assigned = []*sem.Local{lv.local}

		if sem.IsOwning(lv.local.Type) {
			if c := sem.ClassOf(lv.local.Type); c != nil {
				n.Destroyed = []*sem.Class{c}
				n.Releases = []*sem.Local{lv.local}
			}
		}
	case lv.field != nil:
		if sem.IsOwning(lv.field.Type) {
			n.AssignedFields = []*sem.Member{lv.field}
			if c := sem.ClassOf(lv.field.Type); c != nil {
				n.Destroyed = []*sem.Class{c}
			}
		}
	case lv.setter != nil:
		n.Call = lv.setter
	case lv.arrayElem:
		// The array owns its reference-typed elements: storing over one
		// destroys the previous element.
		if c := sem.ClassOf(lv.typ); c != nil {
			n.Destroyed = []*sem.Class{c}
		}
	}
}
