package walk

import (
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// walkClass walks every member body of a class definition.
func (w *Walker) walkClass(def *ast.ClassDef) {
	w.class = def.Sym

	for _, md := range def.Members {
		w.walkMemberDef(md)
	}
}

// walkMemberDef walks a single member definition, catching any raised error
// so that a failed member does not stop the rest of the pass.
func (w *Walker) walkMemberDef(md ast.MemberDef) {
	defer report.CatchErrors(w.file.AbsPath)

	// Ensure the walker is reset even after a raised error.
	defer func() {
		w.scopes = nil
		w.targets = nil
		w.temps = nil
		w.method = nil
	}()

	switch v := md.(type) {
	case *ast.FieldDef:
		if v.Init != nil {
			w.walkConstInit(v)
		}
	case *ast.MethodDef:
		if v.Body != nil {
			w.walkBody(v.Sym, v.Sym.Params, v.Body, nil)
		}
	case *ast.CtorDef:
		w.walkCtor(v)
	case *ast.PropertyDef:
		if v.GetBody != nil {
			w.walkBody(v.Sym.Getter, nil, v.GetBody, nil)
		}
		if v.SetBody != nil {
			w.walkBody(v.Sym.Setter, v.Sym.Setter.Params, v.SetBody, nil)
		}
	case *ast.IndexerDef:
		if v.GetBody != nil {
			w.walkBody(v.Sym.Getter, v.Sym.Getter.Params, v.GetBody, nil)
		}
		if v.SetBody != nil {
			w.walkBody(v.Sym.Setter, v.Sym.Setter.Params, v.SetBody, nil)
		}
	}
}

// walkConstInit checks a const or initialized field.  Field initializers must
// be literal constants.
func (w *Walker) walkConstInit(def *ast.FieldDef) {
	m := def.Sym

	value, ok := literalValue(def.Init)
	if !ok {
		w.recError(def.Init.Span(), "field initializer must be a literal constant")
		return
	}

	w.method = &sem.Member{Name: m.Name, Kind: sem.MemberMethod, Type: m.Type}
	w.prev = nil
	t := w.walkExpr(def.Init, false)
	w.method = nil

	if !sem.Convert(t, m.Type, sem.ConvAssign, false, false) {
		w.recError(def.Init.Span(), "cannot convert `%s` to `%s`", t.Repr(), m.Type.Repr())
		return
	}

	m.ConstValue = value
}

// literalValue extracts the constant value of a literal initializer,
// negation of a numeric literal included.
func literalValue(e ast.Expr) (interface{}, bool) {
	switch v := e.(type) {
	case *ast.Literal:
		return v.Value, true
	case *ast.UnaryExpr:
		if v.Op != ast.OpNeg {
			return nil, false
		}

		if lit, ok := v.Operand.(*ast.Literal); ok {
			switch val := lit.Value.(type) {
			case int32:
				return -val, true
			case float64:
				return -val, true
			}
		}
	}

	return nil, false
}

// -----------------------------------------------------------------------------

// walkCtor walks a constructor body, its delegation call included.
func (w *Walker) walkCtor(def *ast.CtorDef) {
	w.walkBody(def.Sym, def.Sym.Params, def.Body, func() {
		if def.Delegate == ast.DelegateNone {
			return
		}

		target := w.class
		if def.Delegate == ast.DelegateBase {
			target = w.class.Parent
		}

		args := make([]*ast.CallArg, len(def.DelegateArgs))
		for i, a := range def.DelegateArgs {
			args[i] = &ast.CallArg{Mode: sem.LocalVar, Value: a}
		}

		ctor := w.resolveCtorCall(target, args, def.Span())
		n := w.newNode()
		n.Call = ctor
	})
}

// walkBody builds and checks the CFG of a single method, constructor, or
// accessor body.  The prologue, if any, runs after the entry node is placed
// but before the body statements.
func (w *Walker) walkBody(m *sem.Member, params []*sem.Local, body *ast.Block, prologue func()) {
	w.method = m
	w.retType = m.Type

	// The synthetic entry node assigns the in and ref parameters: they are
	// initialized by the caller.  Out parameters are not.
	w.prev = nil
	entry := w.newNode()
	m.Entry = entry
	m.Exit = w.newJoiner()

	w.pushScope()
	for _, p := range params {
		w.defineLocal(p)

		if p.Mode != sem.ParamOut {
			entry.Assigned = append(entry.Assigned, p)
		}
	}

	if prologue != nil {
		prologue()
	}

	for _, stmt := range body.Stmts {
		w.walkStmt(stmt)
	}

	// A reachable end of body is an implicit return: methods with a return
	// value must not fall off the end.
	if w.prev != sem.Unreachable {
		if _, isVoid := w.retType.(sem.VoidType); !isVoid && m.Kind == sem.MemberMethod {
			w.recError(body.Span(), "not all code paths return a value")
		}

		if destroyed, released := w.jumpDestroys(0); len(destroyed) > 0 {
			n := w.newNode()
			n.Destroyed = destroyed
			n.Releases = released
		}

		m.Exit.Join(w.prev)
	}

	w.prev = sem.Unreachable
	w.scopes = nil
}
