package codegen

import (
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// genStmt prints a single statement.
func (g *Generator) genStmt(stmt ast.Stmt) {
	switch v := stmt.(type) {
	case *ast.Block:
		g.line("{")
		g.indent++
		for _, s := range v.Stmts {
			g.genStmt(s)
		}
		g.indent--
		g.line("}")
	case *ast.VarDecl:
		if v.Init != nil {
			g.line("%s %s = %s;", localTypeName(v.Sym), localName(v.Sym), g.genConverted(v.Init, v.Sym.Type))
		} else {
			g.line("%s %s;", localTypeName(v.Sym), localName(v.Sym))
		}
	case *ast.ExprStmt:
		// An unconsumed owning result is adopted by a scoped handle so it is
		// destroyed at the end of the statement.
		if sem.IsOwning(v.Expr.Type()) {
			g.line("sable::Own< %s >(%s);", bareTypeName(v.Expr.Type()), g.genExpr(v.Expr))
		} else {
			g.line("%s;", g.genExpr(v.Expr))
		}
	case *ast.IfStmt:
		g.line("if (%s) {", g.genExpr(v.Cond))
		g.indent++
		g.genStmtList(v.Then)
		g.indent--
		if v.Else != nil {
			g.line("} else {")
			g.indent++
			g.genStmtList(v.Else)
			g.indent--
		}
		g.line("}")
	case *ast.WhileStmt:
		g.line("while (%s) {", g.genExpr(v.Cond))
		g.indent++
		g.genStmtList(v.Body)
		g.indent--
		g.line("}")
	case *ast.DoStmt:
		g.line("do {")
		g.indent++
		g.genStmtList(v.Body)
		g.indent--
		g.line("} while (%s);", g.genExpr(v.Cond))
	case *ast.ForStmt:
		g.genFor(v)
	case *ast.ForeachStmt:
		g.genForeach(v)
	case *ast.SwitchStmt:
		g.genSwitch(v)
	case *ast.BreakStmt:
		g.line("break;")
	case *ast.ContinueStmt:
		g.line("continue;")
	case *ast.ReturnStmt:
		if v.Value != nil {
			g.line("return %s;", g.genConverted(v.Value, g.method.Type))
		} else {
			g.line("return;")
		}
	default:
		report.ReportICE("cannot generate statement")
	}
}

// genStmtList prints a statement, flattening a block's statements into the
// surrounding braces.
func (g *Generator) genStmtList(stmt ast.Stmt) {
	if block, ok := stmt.(*ast.Block); ok {
		for _, s := range block.Stmts {
			g.genStmt(s)
		}
		return
	}

	g.genStmt(stmt)
}

// genFor prints a for loop.
func (g *Generator) genFor(v *ast.ForStmt) {
	init := ""
	if v.Init != nil {
		switch is := v.Init.(type) {
		case *ast.VarDecl:
			init = localTypeName(is.Sym) + " " + localName(is.Sym)
			if is.Init != nil {
				init += " = " + g.genConverted(is.Init, is.Sym.Type)
			}
		case *ast.ExprStmt:
			init = g.genExpr(is.Expr)
		}
	}

	cond := ""
	if v.Cond != nil {
		cond = g.genExpr(v.Cond)
	}

	iter := ""
	if v.Iter != nil {
		if es, ok := v.Iter.(*ast.ExprStmt); ok {
			iter = g.genExpr(es.Expr)
		}
	}

	g.line("for (%s; %s; %s) {", init, cond, iter)
	g.indent++
	g.genStmtList(v.Body)
	g.indent--
	g.line("}")
}

// genForeach prints the desugared index loop over the collection.
func (g *Generator) genForeach(v *ast.ForeachStmt) {
	coll := localName(v.CollSym)
	index := localName(v.IndexSym)

	g.line("{")
	g.indent++

	g.line("%s %s = %s;", localTypeName(v.CollSym), coll, g.genExpr(v.Collection))
	g.line("for (int %s = 0; %s < %s; %s++) {", index, index, g.genCount(v.CollSym), index)
	g.indent++

	g.line("%s %s = %s;", localTypeName(v.Sym), localName(v.Sym), g.genElement(v.CollSym, index))
	g.genStmtList(v.Body)

	g.indent--
	g.line("}")

	g.indent--
	g.line("}")
}

// genCount prints the element count read of a foreach collection.
func (g *Generator) genCount(coll *sem.Local) string {
	switch sem.Dropped(coll.Type).(type) {
	case *sem.ArrayType:
		return localName(coll) + "->get_Count()"
	case sem.StringType:
		return localName(coll) + "->get_Length()"
	default:
		return localName(coll) + "->get_Count()"
	}
}

// genElement prints the element read of a foreach collection.
func (g *Generator) genElement(coll *sem.Local, index string) string {
	switch sem.Dropped(coll.Type).(type) {
	case *sem.ArrayType:
		return localName(coll) + "->At(" + index + ")"
	case sem.StringType:
		return localName(coll) + "->CharAt(" + index + ")"
	default:
		return localName(coll) + "->get_Item(" + index + ")"
	}
}

// genSwitch prints a switch statement.  Integral subjects map to a native
// switch; string subjects become an equality chain.
func (g *Generator) genSwitch(v *ast.SwitchStmt) {
	if isStringType(v.Subject.Type()) {
		g.genStringSwitch(v)
		return
	}

	g.line("switch (%s) {", g.genExpr(v.Subject))

	for _, c := range v.Cases {
		if c.IsDefault {
			g.line("default: {")
		} else {
			for i, val := range c.Values {
				if i < len(c.Values)-1 {
					g.line("case %s:", g.genExpr(val))
				} else {
					g.line("case %s: {", g.genExpr(val))
				}
			}
		}

		g.indent++
		for _, s := range c.Stmts {
			g.genStmt(s)
		}
		g.indent--
		g.line("}")
	}

	g.line("}")
}

// genStringSwitch prints a switch over strings as an if/else chain.  Break
// inside the sections still has to leave the statement, so the chain lives
// in a single-iteration loop.
func (g *Generator) genStringSwitch(v *ast.SwitchStmt) {
	g.line("do {")
	g.indent++

	g.line("sable::Ref< sable::String > __subject = %s;", g.genExpr(v.Subject))

	first := true
	for _, c := range v.Cases {
		if c.IsDefault {
			continue
		}

		cond := ""
		for i, val := range c.Values {
			if i > 0 {
				cond += " || "
			}
			cond += "sable::StrEquals(__subject, " + g.genExpr(val) + ")"
		}

		if first {
			g.line("if (%s) {", cond)
			first = false
		} else {
			g.line("} else if (%s) {", cond)
		}

		g.indent++
		for _, s := range c.Stmts {
			g.genStmt(s)
		}
		g.indent--
	}

	for _, c := range v.Cases {
		if !c.IsDefault {
			continue
		}

		if first {
			g.line("{")
		} else {
			g.line("} else {")
		}

		g.indent++
		for _, s := range c.Stmts {
			g.genStmt(s)
		}
		g.indent--
	}

	g.line("}")

	g.indent--
	g.line("} while (false);")
}
