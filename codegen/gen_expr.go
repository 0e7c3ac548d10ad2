package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// genExpr prints a single expression.
func (g *Generator) genExpr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Literal:
		return genLiteral(v)
	case *ast.NameExpr:
		return g.genName(v)
	case *ast.ThisExpr:
		return "this"
	case *ast.DotExpr:
		return g.genDot(v)
	case *ast.IndexExpr:
		return g.genIndex(v)
	case *ast.CallExpr:
		return g.genCall(v)
	case *ast.NewExpr:
		return g.genNew(v)
	case *ast.NewArrayExpr:
		return fmt.Sprintf("sable::Array< %s >::New(%s)",
			elemTypeName(elemOf(v.Type())), g.genExpr(v.Length))
	case *ast.UnaryExpr:
		return "(" + ast.OpRepr(v.Op) + g.genExpr(v.Operand) + ")"
	case *ast.BinaryExpr:
		return g.genBinary(v)
	case *ast.CondExpr:
		return "(" + g.genExpr(v.Cond) + " ? " + g.genExpr(v.Then) + " : " + g.genExpr(v.Else) + ")"
	case *ast.AssignExpr:
		return g.genAssign(v)
	case *ast.CastExpr:
		return g.genCast(v)
	case *ast.TakeExpr:
		return g.genTake(v)
	case *ast.IsExpr:
		return fmt.Sprintf("sable::Is< %s >(%s)", bareTypeName(resolvedTo(v)), g.genExpr(v.Value))
	default:
		report.ReportICE("cannot generate expression")
		return ""
	}
}

func elemOf(t sem.Type) sem.Type {
	if at, ok := sem.Dropped(t).(*sem.ArrayType); ok {
		return at.Elem
	}

	return t
}

func resolvedTo(v *ast.IsExpr) sem.Type {
	// The checker types an is expression as bool; the target class is
	// recovered from the type expression, which resolution already bound.
	if named, ok := v.To.(*ast.NamedTypeExpr); ok {
		if c, found := sem.LookupClass(named.Name); found {
			return c
		}
	}

	return sem.ObjectClass
}

// genLiteral prints a literal.
func genLiteral(v *ast.Literal) string {
	switch v.Kind {
	case ast.LitInt:
		return strconv.FormatInt(int64(v.Value.(int32)), 10)
	case ast.LitFloat:
		return strconv.FormatFloat(v.Value.(float64), 'g', -1, 32) + "f"
	case ast.LitDouble:
		s := strconv.FormatFloat(v.Value.(float64), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case ast.LitChar:
		return "L'" + escapeChar(v.Value.(rune)) + "'"
	case ast.LitString:
		return "sable::Lit(L\"" + escapeString(v.Value.(string)) + "\")"
	case ast.LitBool:
		if v.Value.(bool) {
			return "true"
		}
		return "false"
	default:
		return "0"
	}
}

func escapeChar(r rune) string {
	switch r {
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\r':
		return "\\r"
	case '\'':
		return "\\'"
	case '\\':
		return "\\\\"
	case 0:
		return "\\0"
	default:
		return string(r)
	}
}

func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '\r':
			sb.WriteString("\\r")
		case 0:
			sb.WriteString("\\0")
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// genName prints a bare name read.
func (g *Generator) genName(v *ast.NameExpr) string {
	if v.Local != nil {
		return localName(v.Local)
	}

	return g.genMemberRead("", v.Member)
}

// genDot prints a member read through a dot.
func (g *Generator) genDot(v *ast.DotExpr) string {
	if v.Static != nil {
		return g.genMemberRead(v.Static.Name+"::", v.Member)
	}

	return g.genMemberRead(g.genExpr(v.Target)+"->", v.Member)
}

// genMemberRead prints the read of a field or property behind the given
// access prefix.
func (g *Generator) genMemberRead(prefix string, m *sem.Member) string {
	switch m.Kind {
	case sem.MemberField:
		switch {
		case m.Const:
			return m.Owner.Name + "::" + m.Name
		case m.Static:
			return m.Owner.Name + "::" + m.Name
		default:
			return prefix + m.Name
		}
	case sem.MemberProperty:
		if m.Static {
			return m.Owner.Name + "::get_" + m.Name + "()"
		}

		return prefix + "get_" + m.Name + "()"
	default:
		report.ReportICE("cannot read member `%s`", m.Name)
		return ""
	}
}

// genIndex prints an index read.
func (g *Generator) genIndex(v *ast.IndexExpr) string {
	target := g.genExpr(v.Target)
	index := g.genExpr(v.Index)

	switch sem.Dropped(v.Target.Type()).(type) {
	case *sem.ArrayType:
		return target + "->At(" + index + ")"
	case sem.StringType:
		return target + "->CharAt(" + index + ")"
	default:
		return target + "->get_Item(" + index + ")"
	}
}

// -----------------------------------------------------------------------------

// genCall prints a method call.
func (g *Generator) genCall(v *ast.CallExpr) string {
	m := v.Member
	args := g.genArgs(m, v.Args)

	switch callee := v.Func.(type) {
	case *ast.NameExpr:
		if m.Owner == sem.StdClass {
			return "sable::" + m.Name + "(" + args + ")"
		}

		if m.Static {
			return m.Owner.Name + "::" + m.Name + "(" + args + ")"
		}

		return m.Name + "(" + args + ")"
	case *ast.DotExpr:
		if _, isBase := callee.Target.(*ast.BaseExpr); isBase {
			return m.Owner.Name + "::" + m.Name + "(" + args + ")"
		}

		if callee.Static != nil || m.Static {
			return m.Owner.Name + "::" + m.Name + "(" + args + ")"
		}

		return g.wrapHeld(callee.Target) + "->" + m.Name + "(" + args + ")"
	default:
		report.ReportICE("cannot generate call")
		return ""
	}
}

// wrapHeld prints an expression, holding it in a scoped counting handle when
// the ref-count analysis flagged its range.
func (g *Generator) wrapHeld(e ast.Expr) string {
	s := g.genExpr(e)

	if r := exprRange(e); r != nil && r.NeedsRef {
		return "sable::PtrRef< " + bareTypeName(e.Type()) + " >(" + s + ")"
	}

	return s
}

// exprRange retrieves the recorded CFG range of an expression, if any.
func exprRange(e ast.Expr) *sem.ExprRange {
	switch v := e.(type) {
	case *ast.NameExpr:
		return v.Range
	case *ast.DotExpr:
		return v.Range
	case *ast.CallExpr:
		return v.Range
	case *ast.IndexExpr:
		return v.Range
	case *ast.NewExpr:
		return v.Range
	case *ast.TakeExpr:
		return v.Range
	case *ast.CastExpr:
		return v.Range
	default:
		return nil
	}
}

// genArgs prints a call's arguments, boxing values bound to root-object
// parameters and holding flagged reference arguments.
func (g *Generator) genArgs(m *sem.Member, args []*ast.CallArg) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ", "
		}

		if i < len(m.Params) && a.Mode == sem.LocalVar {
			s += g.genConverted(a.Value, m.Params[i].Type)
		} else {
			s += g.genExpr(a.Value)
		}
	}

	return s
}

// genConverted prints an expression converted into the given destination
// type, inserting boxing and scoped holds where the static types demand
// them.
func (g *Generator) genConverted(e ast.Expr, dest sem.Type) string {
	src := e.Type()

	// Boxing a value into the root object class.
	if sem.IsValue(src) && sem.ClassOf(dest) == sem.ObjectClass {
		return "sable::Box(" + g.genExpr(e) + ")"
	}

	return g.wrapHeld(e)
}

// -----------------------------------------------------------------------------

// genNew prints an allocation.  Pool allocations register the two-pass
// destroy hooks with their pool.
func (g *Generator) genNew(v *ast.NewExpr) string {
	args := g.genArgs(v.Ctor, v.Args)
	name := v.Class.Name

	if v.Pool != nil {
		return fmt.Sprintf("new (%s->Place(sizeof(%s), %s::__DestroyPass1, %s::__DestroyPass2)) %s(%s)",
			g.genExpr(v.Pool), name, name, name, name, args)
	}

	return "new " + name + "(" + args + ")"
}

// genBinary prints a binary operator application.
func (g *Generator) genBinary(v *ast.BinaryExpr) string {
	l, r := g.genExpr(v.L), g.genExpr(v.R)

	if isStringType(v.Type()) && v.Op == ast.OpAdd {
		return "sable::Concat(" + g.genConcatOperand(v.L) + ", " + g.genConcatOperand(v.R) + ")"
	}

	if (v.Op == ast.OpEq || v.Op == ast.OpNeq) && isStringType(v.L.Type()) && isStringType(v.R.Type()) {
		s := "sable::StrEquals(" + l + ", " + r + ")"
		if v.Op == ast.OpNeq {
			return "(!" + s + ")"
		}
		return s
	}

	return "(" + l + " " + ast.OpRepr(v.Op) + " " + r + ")"
}

// genConcatOperand prints a string concatenation operand, stringifying
// non-string values.
func (g *Generator) genConcatOperand(e ast.Expr) string {
	if isStringType(e.Type()) {
		return g.genExpr(e)
	}

	return "sable::Str(" + g.genExpr(e) + ")"
}

// genAssign prints an assignment.
func (g *Generator) genAssign(v *ast.AssignExpr) string {
	value := g.genConverted(v.R, v.L.Type())

	// Compound assignments to call-backed targets expand to a read-modify
	// call; plain storage uses the native compound operator.
	switch l := v.L.(type) {
	case *ast.NameExpr:
		target := g.genName(l)
		if l.Member != nil && l.Member.Kind == sem.MemberProperty {
			return g.genSetter("", l.Member, v, value)
		}

		return g.genStoreOp(target, v, value)
	case *ast.DotExpr:
		if l.Member.Kind == sem.MemberProperty {
			prefix := ""
			if l.Static != nil {
				prefix = l.Static.Name + "::"
			} else {
				prefix = g.genExpr(l.Target) + "->"
			}

			return g.genSetter(prefix, l.Member, v, value)
		}

		return g.genStoreOp(g.genDot(l), v, value)
	case *ast.IndexExpr:
		target := g.genExpr(l.Target)
		index := g.genExpr(l.Index)

		if l.Member != nil {
			if v.Op >= 0 {
				value = "(" + target + "->get_Item(" + index + ") " + ast.OpRepr(v.Op) + " " + value + ")"
			}

			return target + "->set_Item(" + index + ", " + value + ")"
		}

		return g.genStoreOp(target+"->At("+index+")", v, value)
	default:
		report.ReportICE("cannot generate assignment")
		return ""
	}
}

func (g *Generator) genStoreOp(target string, v *ast.AssignExpr, value string) string {
	if v.Op >= 0 {
		return "(" + target + " " + ast.OpRepr(v.Op) + "= " + value + ")"
	}

	return "(" + target + " = " + value + ")"
}

func (g *Generator) genSetter(prefix string, m *sem.Member, v *ast.AssignExpr, value string) string {
	if m.Static {
		prefix = m.Owner.Name + "::"
	}

	if v.Op >= 0 {
		value = "(" + prefix + "get_" + m.Name + "() " + ast.OpRepr(v.Op) + " " + value + ")"
	}

	return prefix + "set_" + m.Name + "(" + value + ")"
}

// genCast prints an explicit conversion.
func (g *Generator) genCast(v *ast.CastExpr) string {
	src := v.Value.Type()
	dest := v.Type()
	value := g.genExpr(v.Value)

	switch {
	case sem.IsValue(dest) && sem.IsValue(src):
		return "(" + valueTypeName(dest) + ")(" + value + ")"
	case sem.IsValue(dest):
		// Unboxing out of the root object class.
		return "sable::Unbox< " + valueTypeName(dest) + " >(" + value + ")"
	case sem.IsValue(src):
		return "sable::Box(" + value + ")"
	case sem.SubtypeOf(src, dest):
		return value
	default:
		// A checked downcast requires RTTI on the source class.
		return "sable::Cast< " + bareTypeName(dest) + " >(" + value + ")"
	}
}

// genTake prints an ownership transfer out of an owning storage location.
func (g *Generator) genTake(v *ast.TakeExpr) string {
	switch l := v.Operand.(type) {
	case *ast.NameExpr:
		if l.Local != nil {
			return localName(l.Local) + ".Take()"
		}

		return l.Member.Name + ".Take()"
	case *ast.DotExpr:
		return g.genExpr(l.Target) + "->" + l.Member.Name + ".Take()"
	default:
		report.ReportICE("cannot generate take")
		return ""
	}
}
