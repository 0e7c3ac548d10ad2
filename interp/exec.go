package interp

import (
	"sablec/ast"
	"sablec/sem"
)

// execBlock executes a statement list, propagating control-flow outcomes.
func (it *Interp) execBlock(stmts []ast.Stmt, f *frame) (int, Value) {
	for _, s := range stmts {
		if ctrl, ret := it.execStmt(s, f); ctrl != ctrlNone {
			return ctrl, ret
		}
	}

	return ctrlNone, nil
}

// execStmt executes one statement.
func (it *Interp) execStmt(stmt ast.Stmt, f *frame) (int, Value) {
	switch v := stmt.(type) {
	case *ast.Block:
		return it.execBlock(v.Stmts, f)
	case *ast.VarDecl:
		if v.Init != nil {
			f.locals[v.Sym] = it.eval(v.Init, f)
		}
	case *ast.ExprStmt:
		it.eval(v.Expr, f)
	case *ast.IfStmt:
		if it.evalBool(v.Cond, f) {
			return it.execStmt(v.Then, f)
		} else if v.Else != nil {
			return it.execStmt(v.Else, f)
		}
	case *ast.WhileStmt:
		for it.evalBool(v.Cond, f) {
			if ctrl, ret := it.execStmt(v.Body, f); ctrl == ctrlReturn {
				return ctrl, ret
			} else if ctrl == ctrlBreak {
				break
			}
		}
	case *ast.DoStmt:
		for {
			if ctrl, ret := it.execStmt(v.Body, f); ctrl == ctrlReturn {
				return ctrl, ret
			} else if ctrl == ctrlBreak {
				break
			}

			if !it.evalBool(v.Cond, f) {
				break
			}
		}
	case *ast.ForStmt:
		if v.Init != nil {
			it.execStmt(v.Init, f)
		}

		for v.Cond == nil || it.evalBool(v.Cond, f) {
			if ctrl, ret := it.execStmt(v.Body, f); ctrl == ctrlReturn {
				return ctrl, ret
			} else if ctrl == ctrlBreak {
				break
			}

			if v.Iter != nil {
				it.execStmt(v.Iter, f)
			}
		}
	case *ast.ForeachStmt:
		return it.execForeach(v, f)
	case *ast.SwitchStmt:
		return it.execSwitch(v, f)
	case *ast.BreakStmt:
		return ctrlBreak, nil
	case *ast.ContinueStmt:
		return ctrlContinue, nil
	case *ast.ReturnStmt:
		if v.Value != nil {
			return ctrlReturn, it.eval(v.Value, f)
		}

		return ctrlReturn, nil
	}

	return ctrlNone, nil
}

// execForeach iterates a collection by index.
func (it *Interp) execForeach(v *ast.ForeachStmt, f *frame) (int, Value) {
	coll := it.eval(v.Collection, f)

	for i := 0; ; i++ {
		elem, ok := it.elementAt(coll, i)
		if !ok {
			break
		}

		f.locals[v.Sym] = elem

		if ctrl, ret := it.execStmt(v.Body, f); ctrl == ctrlReturn {
			return ctrl, ret
		} else if ctrl == ctrlBreak {
			break
		}
	}

	return ctrlNone, nil
}

// execSwitch finds the matching section and runs it.  Break leaves the
// switch.
func (it *Interp) execSwitch(v *ast.SwitchStmt, f *frame) (int, Value) {
	subject := it.eval(v.Subject, f)

	var deflt *ast.SwitchCase
	for _, c := range v.Cases {
		if c.IsDefault {
			deflt = c
			continue
		}

		for _, val := range c.Values {
			if valuesEqual(subject, it.eval(val, f)) {
				return switchCtrl(it.execBlock(c.Stmts, f))
			}
		}
	}

	if deflt != nil {
		return switchCtrl(it.execBlock(deflt.Stmts, f))
	}

	return ctrlNone, nil
}

func switchCtrl(ctrl int, ret Value) (int, Value) {
	if ctrl == ctrlBreak {
		return ctrlNone, nil
	}

	return ctrl, ret
}

func valuesEqual(a, b Value) bool {
	av, aok := numeric(a)
	bv, bok := numeric(b)
	if aok && bok {
		return av == bv
	}

	return a == b
}

func numeric(v Value) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case Char:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func (it *Interp) evalBool(e ast.Expr, f *frame) bool {
	b, ok := it.eval(e, f).(bool)
	if !ok {
		it.fail("condition did not evaluate to a boolean")
	}

	return b
}

// elementAt reads one element of a foreach collection, reporting whether the
// index is still in range.
func (it *Interp) elementAt(coll Value, i int) (Value, bool) {
	switch c := coll.(type) {
	case *ArrayVal:
		if i >= len(c.Items) {
			return nil, false
		}

		return c.Items[i], true
	case string:
		runes := []rune(c)
		if i >= len(runes) {
			return nil, false
		}

		return Char(runes[i]), true
	case *Object:
		count := it.countOf(c)
		if i >= count {
			return nil, false
		}

		indexer, status := sem.LookupMember(c.Class, sem.MemberIndexer, "[]",
			[]sem.Arg{{Type: sem.SimpleInt}}, nil, false)
		if status != sem.LookupFound || indexer.Getter == nil {
			it.fail("value cannot be iterated")
		}

		return it.call(indexer.Getter, c, []Value{int32(i)}), true
	case nil:
		it.fail("null reference in foreach")
	}

	return nil, false
}

// countOf reads a collection object's Count property.
func (it *Interp) countOf(obj *Object) int {
	count, status := sem.LookupMember(obj.Class, sem.MemberProperty, "Count", nil, nil, false)
	if status != sem.LookupFound || count.Getter == nil {
		it.fail("value cannot be iterated")
	}

	n, ok := it.call(count.Getter, obj, nil).(int32)
	if !ok {
		it.fail("Count did not evaluate to an int")
	}

	return int(n)
}
