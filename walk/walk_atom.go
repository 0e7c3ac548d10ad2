package walk

import (
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// walkLiteral types a literal expression.
func (w *Walker) walkLiteral(e *ast.Literal) sem.Type {
	switch e.Kind {
	case ast.LitInt:
		return sem.SimpleInt
	case ast.LitFloat:
		return sem.SimpleFloat
	case ast.LitDouble:
		return sem.SimpleDouble
	case ast.LitChar:
		return sem.SimpleChar
	case ast.LitString:
		return sem.StringType{}
	case ast.LitBool:
		return sem.SimpleBool
	default:
		return sem.NullType{}
	}
}

// walkName resolves a bare name: a local, an implicit-this member, or a
// built-in static.  Reads of owning storage yield a borrowed reference; only
// take moves a value out.
func (w *Walker) walkName(e *ast.NameExpr) sem.Type {
	if local := w.lookup(e.Name); local != nil {
		e.Local = local
		w.recordUse(local, e.Span())
		return borrowed(local.Type)
	}

	m, status := sem.LookupField(w.class, e.Name, w.class)
	if status == sem.LookupNone {
		w.error(e.Span(), "undefined symbol: `%s`", e.Name)
	}
	w.checkMemberAccess(e.Span(), m, status)

	if !m.Static && w.inStatic() {
		w.error(e.Span(), "cannot access instance member `%s` from a static method", e.Name)
	}

	e.Member = m
	return w.readMember(e.Span(), m)
}

// walkThis types a this expression.
func (w *Walker) walkThis(e *ast.ThisExpr) sem.Type {
	if w.inStatic() {
		w.error(e.Span(), "this is not valid in a static method")
	}

	return w.class
}

// inStatic returns whether the member being walked has no instance.
func (w *Walker) inStatic() bool {
	return w.method != nil && w.method.Static
}

// -----------------------------------------------------------------------------

// walkDot checks a member read through a dot.
func (w *Walker) walkDot(e *ast.DotExpr) sem.Type {
	c := w.walkDotTarget(e)

	m, status := sem.LookupField(c, e.Name, w.class)
	if status == sem.LookupNone {
		w.error(e.Span(), "class `%s` has no member `%s`", c.Name, e.Name)
	}
	w.checkMemberAccess(e.Span(), m, status)

	if e.Static != nil && !m.Static && m.Kind != sem.MemberField {
		w.error(e.Span(), "member `%s` requires an instance", e.Name)
	}

	e.Member = m
	return w.readMember(e.Span(), m)
}

// walkDotTarget evaluates the target of a dot expression and returns the
// class whose members are visible through it.  A bare class name as the
// target is a static access.
func (w *Walker) walkDotTarget(e *ast.DotExpr) *sem.Class {
	if ne, ok := e.Target.(*ast.NameExpr); ok && w.lookup(ne.Name) == nil {
		if _, status := sem.LookupField(w.class, ne.Name, w.class); status == sem.LookupNone {
			if c, found := sem.LookupClass(ne.Name); found {
				e.Static = c
				e.Target = nil
				return c
			}
		}
	}

	t := w.walkExpr(e.Target, false)
	c := sem.ClassOf(t)
	if c == nil {
		w.error(e.Target.Span(), "`%s` has no members", t.Repr())
	}

	return c
}

// readMember types the read of a field or property.  Reading a property
// calls its getter.
func (w *Walker) readMember(span *report.TextSpan, m *sem.Member) sem.Type {
	switch m.Kind {
	case sem.MemberField:
		if m.Const && m.ConstValue != nil {
			return m.Type
		}

		w.recordFieldUse(m, span)
		return borrowed(m.Type)
	case sem.MemberProperty:
		if m.Getter == nil {
			w.error(span, "property `%s` has no getter", m.Name)
		}

		n := w.newNode()
		n.Call = m.Getter
		return m.Type
	default:
		w.error(span, "member `%s` cannot be read as a value", m.Name)
		return nil
	}
}

// borrowed is the type of a read out of a storage location: owning storage
// yields a non-owning reference.
func borrowed(t sem.Type) sem.Type {
	return sem.Dropped(t)
}

// checkMemberAccess reports lookup statuses that name a member but cannot
// use it.
func (w *Walker) checkMemberAccess(span *report.TextSpan, m *sem.Member, status int) {
	switch status {
	case sem.LookupAmbiguous:
		w.error(span, "ambiguous reference to `%s`", m.Name)
	case sem.LookupInaccessible:
		w.error(span, "`%s` is inaccessible here", m.QualName())
	}
}

// -----------------------------------------------------------------------------

// walkIndex checks an index read: a direct array or string element read or
// an indexer getter call.
func (w *Walker) walkIndex(e *ast.IndexExpr) sem.Type {
	tt := sem.Dropped(w.walkExpr(e.Target, false))

	switch ct := tt.(type) {
	case *sem.ArrayType:
		it := w.walkExpr(e.Index, false)
		if !sem.Convert(it, sem.SimpleInt, sem.ConvOther, false, false) {
			w.error(e.Index.Span(), "array index must be an int")
		}

		return borrowed(ct.Elem)
	case sem.StringType:
		it := w.walkExpr(e.Index, false)
		if !sem.Convert(it, sem.SimpleInt, sem.ConvOther, false, false) {
			w.error(e.Index.Span(), "string index must be an int")
		}

		return sem.SimpleChar
	case *sem.Class:
		it := w.walkExpr(e.Index, false)

		indexer, status := sem.LookupMember(ct, sem.MemberIndexer, "[]",
			[]sem.Arg{{Type: it}}, w.class, false)
		if status == sem.LookupNone || indexer.Getter == nil {
			w.error(e.Span(), "`%s` has no readable indexer", tt.Repr())
		}
		w.checkMemberAccess(e.Span(), indexer, status)

		e.Member = indexer

		n := w.newNode()
		n.Call = indexer.Getter
		return indexer.Type
	default:
		w.error(e.Span(), "`%s` cannot be indexed", tt.Repr())
		return nil
	}
}

// -----------------------------------------------------------------------------

// walkCall checks a method call: the callee target and the arguments are
// evaluated in order, the overload is resolved against the argument types,
// and the call node is added with the out arguments it assigns.
func (w *Walker) walkCall(e *ast.CallExpr, consumed bool) sem.Type {
	// Determine the class searched for the method and evaluate the callee
	// target.
	var searched *sem.Class
	var name string
	var nameSpan *report.TextSpan
	withOverrides := false
	implicitThis := false

	switch callee := e.Func.(type) {
	case *ast.NameExpr:
		searched = w.class
		name = callee.Name
		nameSpan = callee.Span()
		implicitThis = true
	case *ast.DotExpr:
		name = callee.Name
		nameSpan = callee.Span()

		if _, isBase := callee.Target.(*ast.BaseExpr); isBase {
			// base.M(...) resolves in the parent class and never dispatches.
			if w.inStatic() || w.class.Parent == nil {
				w.error(callee.Span(), "base is not valid here")
			}

			searched = w.class.Parent
		} else {
			searched = w.walkDotTarget(callee)
		}
	default:
		w.error(e.Func.Span(), "expression is not callable")
	}

	targetStart := w.prev

	// Evaluate the arguments, tracking owning temporaries so that results
	// bound to owning parameters are not double-counted.
	args, argInfo := w.walkArgs(e.Args)

	// Resolve the overload.
	m, status := sem.LookupMember(searched, sem.MemberMethod, name, args, w.class, withOverrides)
	if status == sem.LookupNone && implicitThis {
		// Bare names fall back to the built-in static surface.
		m, status = sem.LookupMember(sem.StdClass, sem.MemberMethod, name, args, nil, false)
	}

	if status == sem.LookupNone {
		w.error(nameSpan, "no method `%s` matching the given arguments", name)
	}
	w.checkMemberAccess(nameSpan, m, status)

	if implicitThis && !m.Static && w.inStatic() {
		w.error(nameSpan, "cannot call instance method `%s` from a static method", name)
	}

	e.Member = m

	w.consumeOwnedArgs(m, argInfo)

	// The call node assigns every out argument.
	n := w.newNode()
	n.Call = m
	for i, p := range m.Params {
		if i < len(e.Args) && p.Mode == sem.ParamOut {
			if local := argLocal(e.Args[i]); local != nil {
				n.Assigned = append(n.Assigned, local)
			}
		}
	}

	// Record the ranges of the reference-typed values this call consumes.
	if dot, ok := e.Func.(*ast.DotExpr); ok && dot.Target != nil {
		w.recordRange(dot.Target, targetStart)
	}
	for i, info := range argInfo {
		w.recordRange(e.Args[i].Value, info.start)
	}

	if sem.IsOwning(m.Type) && !consumed {
		if c := sem.ClassOf(m.Type); c != nil {
			w.temps = append(w.temps, c)
		}
	}

	return m.Type
}

// argEval records where an argument's evaluation began and whether it pushed
// an owning temporary.
type argEval struct {
	start   sem.Point
	tempIdx int
}

// walkArgs evaluates the arguments of a call left to right.  Ref and out
// arguments must be plain local variables; an out argument counts as an
// assignment of its local.
func (w *Walker) walkArgs(callArgs []*ast.CallArg) ([]sem.Arg, []argEval) {
	args := make([]sem.Arg, len(callArgs))
	info := make([]argEval, len(callArgs))

	for i, a := range callArgs {
		info[i].start = w.prev
		info[i].tempIdx = -1

		if a.Mode != sem.LocalVar {
			ne, ok := a.Value.(*ast.NameExpr)
			var local *sem.Local
			if ok {
				local = w.lookup(ne.Name)
			}
			if local == nil {
				w.error(a.Value.Span(), "ref and out arguments must be local variables")
			}

			ne.Local = local
			local.Mutable = true

			if a.Mode == sem.ParamRef {
				w.recordUse(local, a.Value.Span())
			}

			ne.SetType(local.Type)
			args[i] = sem.Arg{Type: local.Type, Mode: a.Mode}
			continue
		}

		before := len(w.temps)
		t := w.walkExpr(a.Value, false)
		if len(w.temps) > before {
			info[i].tempIdx = len(w.temps) - 1
		}

		args[i] = sem.Arg{Type: t, Mode: sem.LocalVar}
	}

	return args, info
}

// consumeOwnedArgs drops the owning temporaries of arguments bound to owning
// parameters: passing an owning value by in argument is a transfer.
func (w *Walker) consumeOwnedArgs(m *sem.Member, info []argEval) {
	for i := len(info) - 1; i > -1; i-- {
		if i >= len(m.Params) || info[i].tempIdx < 0 {
			continue
		}

		if sem.IsOwning(m.Params[i].Type) {
			idx := info[i].tempIdx
			w.temps = append(w.temps[:idx], w.temps[idx+1:]...)
		}
	}
}

// argLocal returns the local bound by a ref or out argument.
func argLocal(a *ast.CallArg) *sem.Local {
	if ne, ok := a.Value.(*ast.NameExpr); ok {
		return ne.Local
	}

	return nil
}

// -----------------------------------------------------------------------------

// walkNew checks an object allocation, pool allocation included.
func (w *Walker) walkNew(e *ast.NewExpr, consumed bool) sem.Type {
	c, ok := sem.LookupClass(e.TypeName)
	if !ok {
		w.error(e.Span(), "undefined class: `%s`", e.TypeName)
	}

	if c.Abstract {
		w.error(e.Span(), "cannot instantiate abstract class `%s`", c.Name)
	}

	args, argInfo := w.walkArgs(e.Args)

	ctor := w.resolveCtor(c, args, e.Span())
	e.Class = c
	e.Ctor = ctor

	w.consumeOwnedArgs(ctor, argInfo)

	if e.Pool != nil {
		pt := w.walkExpr(e.Pool, false)
		if sem.ClassOf(pt) != sem.PoolClass {
			w.error(e.Pool.Span(), "allocation target must be a Pool, not `%s`", pt.Repr())
		}

		// Pool contents are destroyed as a group in two passes.
		c.PoolDestroyNeeded = true
		c.VirtualNeeded = true
	}

	n := w.newNode()
	n.Call = ctor

	for i, info := range argInfo {
		w.recordRange(e.Args[i].Value, info.start)
	}

	if e.Pool == nil && !consumed {
		w.temps = append(w.temps, c)
	}

	if e.Pool != nil {
		return c
	}

	return sem.Owned(c)
}

// resolveCtor resolves a constructor call against the given arguments.
func (w *Walker) resolveCtor(c *sem.Class, args []sem.Arg, span *report.TextSpan) *sem.Member {
	ctor, status := sem.LookupMember(c, sem.MemberConstructor, c.Name, args, w.class, false)
	if status == sem.LookupNone {
		w.error(span, "no constructor of `%s` matching the given arguments", c.Name)
	}
	w.checkMemberAccess(span, ctor, status)

	// Constructors do not inherit.
	if ctor.Owner != c {
		w.error(span, "no constructor of `%s` matching the given arguments", c.Name)
	}

	return ctor
}

// resolveCtorCall resolves a this(...) or base(...) delegation target.
func (w *Walker) resolveCtorCall(c *sem.Class, callArgs []*ast.CallArg, span *report.TextSpan) *sem.Member {
	args, argInfo := w.walkArgs(callArgs)
	ctor := w.resolveCtor(c, args, span)
	w.consumeOwnedArgs(ctor, argInfo)
	return ctor
}

// walkNewArray checks an array allocation.
func (w *Walker) walkNewArray(e *ast.NewArrayExpr, consumed bool) sem.Type {
	elem := resolveTypeExpr(w.file.AbsPath, e.ElemType, false)

	lt := w.walkExpr(e.Length, false)
	if !sem.Convert(lt, sem.SimpleInt, sem.ConvOther, false, false) {
		w.error(e.Length.Span(), "array length must be an int")
	}

	w.newNode()

	if !consumed {
		w.temps = append(w.temps, sem.ArrayClass)
	}

	return sem.Owned(&sem.ArrayType{Elem: elem})
}
