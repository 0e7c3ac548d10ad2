package walk

import (
	"sablec/ast"
	"sablec/sem"
)

// walkStmt walks a single statement.
func (w *Walker) walkStmt(stmt ast.Stmt) {
	switch v := stmt.(type) {
	case *ast.Block:
		w.pushScope()
		for _, s := range v.Stmts {
			w.walkStmt(s)
		}
		w.popScope()
	case *ast.VarDecl:
		w.walkVarDecl(v)
	case *ast.ExprStmt:
		w.withTemps(func() {
			w.walkExpr(v.Expr, false)
		})
	case *ast.ReturnStmt:
		w.walkReturn(v)
	case *ast.BreakStmt:
		w.walkJump(v, true)
	case *ast.ContinueStmt:
		w.walkJump(v, false)
	case *ast.IfStmt:
		w.walkIf(v)
	case *ast.WhileStmt:
		w.walkWhile(v)
	case *ast.DoStmt:
		w.walkDo(v)
	case *ast.ForStmt:
		w.walkFor(v)
	case *ast.ForeachStmt:
		w.walkForeach(v)
	case *ast.SwitchStmt:
		w.walkSwitch(v)
	default:
		w.error(stmt.Span(), "unsupported statement")
	}
}

// withTemps tracks the owning temporaries produced while fn runs and inserts
// the synthetic temporaries node destroying them, making end-of-statement
// destruction visible to the destruction analysis.
func (w *Walker) withTemps(fn func()) {
	saved := w.temps
	w.temps = nil

	fn()

	if len(w.temps) > 0 && w.prev != sem.Unreachable {
		n := w.newNode()
		n.Destroyed = w.temps
	}

	w.temps = saved
}

// -----------------------------------------------------------------------------

// walkVarDecl checks a local variable declaration.
func (w *Walker) walkVarDecl(decl *ast.VarDecl) {
	t := resolveTypeExpr(w.file.AbsPath, decl.Type, false)

	l := &sem.Local{Name: decl.Name, Type: t, Span: decl.Span()}
	decl.Sym = l

	w.withTemps(func() {
		if decl.Init != nil {
			it := w.walkExpr(decl.Init, sem.IsOwning(t))
			if !sem.Convert(it, t, sem.ConvAssign, false, false) {
				w.error(decl.Init.Span(), "cannot convert `%s` to `%s`", it.Repr(), t.Repr())
			}

			n := w.newNode()
			n.Assigned = []*sem.Local{l}
		}
	})

	w.defineLocal(l)
}

// walkReturn checks a return statement: the value converts to the return
// type, the locals of every enclosing scope are destroyed, and the cursor
// joins the method's exit.
func (w *Walker) walkReturn(stmt *ast.ReturnStmt) {
	_, isVoid := w.retType.(sem.VoidType)

	w.withTemps(func() {
		if stmt.Value != nil {
			if isVoid {
				w.error(stmt.Span(), "cannot return a value from a void method")
			}

			t := w.walkExpr(stmt.Value, sem.IsOwning(w.retType))
			if !sem.Convert(t, w.retType, sem.ConvOther, false, false) {
				w.error(stmt.Value.Span(), "cannot convert `%s` to `%s`", t.Repr(), w.retType.Repr())
			}
		} else if !isVoid {
			w.error(stmt.Span(), "method must return a value")
		}
	})

	if w.prev == sem.Unreachable {
		return
	}

	if destroyed, released := w.jumpDestroys(0); len(destroyed) > 0 {
		n := w.newNode()
		n.Destroyed = destroyed
		n.Releases = released
	}

	w.method.Exit.Join(w.prev)
	w.prev = sem.Unreachable
}

// walkJump checks a break or continue statement.  The jump node destroys
// exactly the locals of the lexically enclosed scopes being left.
func (w *Walker) walkJump(stmt ast.Stmt, isBreak bool) {
	var target *jumpTargets
	for i := len(w.targets) - 1; i > -1; i-- {
		if isBreak || w.targets[i].cont != nil {
			target = w.targets[i]
			break
		}
	}

	if target == nil {
		w.error(stmt.Span(), "no enclosing loop to jump from")
	}

	n := w.newNode()
	n.Destroyed, n.Releases = w.jumpDestroys(target.depth)

	if isBreak {
		target.brk.Join(w.prev)
	} else {
		target.cont.Join(w.prev)
	}

	w.prev = sem.Unreachable
}
