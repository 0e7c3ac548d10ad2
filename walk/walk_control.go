package walk

import (
	"sablec/ast"
	"sablec/sem"
)

// walkCond walks a statement condition and constrains it to be a boolean.
// The condition's temporaries are destroyed at the end of its evaluation.
func (w *Walker) walkCond(cond ast.Expr) {
	w.withTemps(func() {
		t := w.walkExpr(cond, false)
		if !sem.Equals(t, sem.SimpleBool) {
			w.error(cond.Span(), "condition must be a boolean, not `%s`", t.Repr())
		}
	})
}

// walkIf walks an if statement: both branches join at a combined joiner.
func (w *Walker) walkIf(stmt *ast.IfStmt) {
	w.walkCond(stmt.Cond)

	saved := w.prev
	join := w.newJoiner()

	w.pushScope()
	w.walkStmt(stmt.Then)
	w.popScope()
	join.Join(w.prev)

	w.prev = saved
	if stmt.Else != nil {
		w.pushScope()
		w.walkStmt(stmt.Else)
		w.popScope()
	}
	join.Join(w.prev)

	w.prev = join.Combine()
}

// walkWhile walks a while loop.  The loop-entry joiner collects the pre-loop
// cursor and the back-edges from continue and fall-through; the exit joiner
// collects the false-condition edge and the break edges.
func (w *Walker) walkWhile(stmt *ast.WhileStmt) {
	header := w.newJoiner()
	header.Join(w.prev)
	w.prev = header

	w.walkCond(stmt.Cond)

	exit := w.newJoiner()
	exit.Join(w.prev)

	w.targets = append(w.targets, &jumpTargets{brk: exit, cont: header, depth: len(w.scopes)})
	w.pushScope()
	w.walkStmt(stmt.Body)
	w.popScope()
	w.targets = w.targets[:len(w.targets)-1]

	header.Join(w.prev)
	w.prev = exit.Combine()
}

// walkDo walks a do loop: the body runs before the condition and the
// back-edge goes to a pre-body joiner.
func (w *Walker) walkDo(stmt *ast.DoStmt) {
	preBody := w.newJoiner()
	preBody.Join(w.prev)
	w.prev = preBody

	cont := w.newJoiner()
	exit := w.newJoiner()

	w.targets = append(w.targets, &jumpTargets{brk: exit, cont: cont, depth: len(w.scopes)})
	w.pushScope()
	w.walkStmt(stmt.Body)
	w.popScope()
	w.targets = w.targets[:len(w.targets)-1]

	cont.Join(w.prev)
	w.prev = cont.Combine()

	w.walkCond(stmt.Cond)

	preBody.Join(w.prev)
	exit.Join(w.prev)
	w.prev = exit.Combine()
}

// walkFor walks a for loop.  The initializer lives inside the containing
// scope extended for the loop so its locals are visible in the condition,
// body, and iterator.
func (w *Walker) walkFor(stmt *ast.ForStmt) {
	w.pushScope()

	if stmt.Init != nil {
		w.walkStmt(stmt.Init)
	}

	header := w.newJoiner()
	header.Join(w.prev)
	w.prev = header

	exit := w.newJoiner()
	if stmt.Cond != nil {
		w.walkCond(stmt.Cond)
		exit.Join(w.prev)
	}

	cont := w.newJoiner()

	w.targets = append(w.targets, &jumpTargets{brk: exit, cont: cont, depth: len(w.scopes)})
	w.pushScope()
	w.walkStmt(stmt.Body)
	w.popScope()
	w.targets = w.targets[:len(w.targets)-1]

	cont.Join(w.prev)
	w.prev = cont.Combine()

	if stmt.Iter != nil {
		w.walkStmt(stmt.Iter)
	}

	header.Join(w.prev)
	w.prev = exit.Combine()

	w.popScope()
}

// walkForeach walks a foreach loop.  It is checked as "evaluate the
// collection once; declare the iteration local; loop an index from 0 to
// Count-1 reading elements via the indexer".
func (w *Walker) walkForeach(stmt *ast.ForeachStmt) {
	w.pushScope()

	// Evaluate the collection once into a hidden borrowing local.
	var elemType sem.Type
	w.withTemps(func() {
		collType := sem.Dropped(w.walkExpr(stmt.Collection, false))

		switch ct := collType.(type) {
		case *sem.ArrayType:
			elemType = ct.Elem
		case sem.StringType:
			elemType = sem.SimpleChar
		case *sem.Class:
			indexer, status := sem.LookupMember(ct, sem.MemberIndexer, "[]",
				[]sem.Arg{{Type: sem.SimpleInt}}, w.class, false)
			if status != sem.LookupFound || indexer.Getter == nil {
				w.error(stmt.Collection.Span(), "`%s` cannot be iterated", collType.Repr())
			}

			elemType = indexer.Type
		default:
			w.error(stmt.Collection.Span(), "`%s` cannot be iterated", collType.Repr())
		}

		stmt.CollSym = &sem.Local{Name: "$coll", Type: collType}
		w.method.Locals = append(w.method.Locals, stmt.CollSym)

		n := w.newNode()
		n.Assigned = []*sem.Local{stmt.CollSym}
	})

	// The hidden index local.
	stmt.IndexSym = &sem.Local{Name: "$index", Type: sem.SimpleInt, Mutable: true}
	w.method.Locals = append(w.method.Locals, stmt.IndexSym)
	initNode := w.newNode()
	initNode.Assigned = []*sem.Local{stmt.IndexSym}

	// The loop header: the condition reads Count each iteration.
	header := w.newJoiner()
	header.Join(w.prev)
	w.prev = header

	countNode := w.newNode()
	if counter := collectionCounter(stmt.CollSym.Type); counter != nil {
		countNode.Call = counter
	}

	exit := w.newJoiner()
	exit.Join(w.prev)

	// The iteration local is declared per iteration and assigned from the
	// element read.
	varType := resolveTypeExpr(w.file.AbsPath, stmt.VarType, false)
	if !sem.CanConvert(elemType, varType, sem.ConvAssign, false, false) {
		w.error(stmt.VarType.Span(), "cannot convert element type `%s` to `%s`",
			elemType.Repr(), varType.Repr())
	}

	w.targets = append(w.targets, &jumpTargets{brk: exit, cont: header, depth: len(w.scopes)})
	w.pushScope()

	stmt.Sym = &sem.Local{Name: stmt.VarName, Type: varType, Span: stmt.Span()}
	w.defineLocal(stmt.Sym)

	readNode := w.newNode()
	readNode.Assigned = []*sem.Local{stmt.Sym}
	if c := sem.ClassOf(stmt.CollSym.Type); c != nil && c != sem.ArrayClass && c != sem.StringClass {
		if indexer, status := sem.LookupMember(c, sem.MemberIndexer, "[]",
			[]sem.Arg{{Type: sem.SimpleInt}}, w.class, false); status == sem.LookupFound {
			readNode.Call = indexer.Getter
		}
	}

	w.walkStmt(stmt.Body)

	w.popScope()
	w.targets = w.targets[:len(w.targets)-1]

	header.Join(w.prev)
	w.prev = exit.Combine()

	w.popScope()
}

// collectionCounter returns the Count getter consulted by a foreach over the
// given collection type, if member lookup resolves one.
func collectionCounter(collType sem.Type) *sem.Member {
	c := sem.ClassOf(collType)
	if c == nil {
		return nil
	}

	if count, status := sem.LookupMember(c, sem.MemberProperty, "Count", nil, nil, false); status == sem.LookupFound {
		return count.Getter
	}

	if length, status := sem.LookupMember(c, sem.MemberProperty, "Length", nil, nil, false); status == sem.LookupFound {
		return length.Getter
	}

	return nil
}

// walkSwitch walks a switch statement.  Every section starts from the
// pre-switch cursor and must be terminated; the exit joiner receives the
// break edges and, if there is no default section, a direct fall-through
// edge from before the switch.
func (w *Walker) walkSwitch(stmt *ast.SwitchStmt) {
	var subjectType sem.Type
	w.withTemps(func() {
		subjectType = w.walkExpr(stmt.Subject, false)
	})

	saved := w.prev
	exit := w.newJoiner()
	hasDefault := false

	w.targets = append(w.targets, &jumpTargets{brk: exit, depth: len(w.scopes)})

	for _, c := range stmt.Cases {
		w.prev = saved

		if c.IsDefault {
			if hasDefault {
				w.recError(c.Span(), "multiple default sections in switch")
			}
			hasDefault = true
		}

		for _, value := range c.Values {
			vt := w.walkExpr(value, false)
			if !sem.Convert(vt, subjectType, sem.ConvOther, false, false) {
				w.error(value.Span(), "cannot convert case value `%s` to `%s`",
					vt.Repr(), subjectType.Repr())
			}
		}

		w.pushScope()
		for _, s := range c.Stmts {
			w.walkStmt(s)
		}
		w.popScope()

		// Falling through from one section to the next is an error.
		if w.prev != sem.Unreachable {
			w.recError(c.Span(), "switch section must end with break, continue, or return")
			exit.Join(w.prev)
		}
	}

	w.targets = w.targets[:len(w.targets)-1]

	if !hasDefault {
		exit.Join(saved)
	}

	w.prev = exit.Combine()
}
