package codegen

import (
	"fmt"

	"sablec/ast"
	"sablec/sem"
)

// genClassDefs prints the out-of-line definitions of a class: static and
// const fields, methods, constructors, accessors, the destructor, and the
// pool destroy hooks.
func (g *Generator) genClassDefs(def *ast.ClassDef) {
	c := def.Sym
	g.class = c

	for _, md := range def.Members {
		m := md.Member()
		if m == nil {
			continue
		}

		switch v := md.(type) {
		case *ast.FieldDef:
			g.genFieldDef(v, m)
		case *ast.MethodDef:
			if v.Body != nil {
				g.genMethodDef(m, v.Body)
			}
		case *ast.CtorDef:
			g.genCtorDef(v)
		case *ast.PropertyDef:
			if v.GetBody != nil {
				g.genMethodDef(m.Getter, v.GetBody)
			}
			if v.SetBody != nil {
				g.genMethodDef(m.Setter, v.SetBody)
			}
		case *ast.IndexerDef:
			if v.GetBody != nil {
				g.genMethodDef(m.Getter, v.GetBody)
			}
			if v.SetBody != nil {
				g.genMethodDef(m.Setter, v.SetBody)
			}
		}
	}

	if ctorCount(c) > 1 {
		g.printf("void %s::_Init() {\n", c.Name)
		g.indent++
		g.genFieldZeroing()
		g.indent--
		g.printf("}\n\n")
	}

	if ctor := syntheticCtor(def); ctor != nil {
		g.printf("%s::%s() {\n", c.Name, c.Name)
		g.indent++
		g.genInit()
		if needsForwarders(c) {
			g.line("_Construct%d();", ctorNumber(ctor))
		}
		g.indent--
		g.printf("}\n\n")

		if needsForwarders(c) {
			g.printf("void %s::_Construct%d() {\n}\n\n", c.Name, ctorNumber(ctor))
		}
	}

	if c.VirtualNeeded {
		g.printf("%s::~%s() {\n}\n\n", c.Name, c.Name)
	}

	g.genClassHooksDef(c)
	g.class = nil
}

// genFieldDef prints the out-of-line definition of a static or const field.
func (g *Generator) genFieldDef(def *ast.FieldDef, m *sem.Member) {
	switch {
	case m.Const:
		g.printf("const %s %s::%s = %s;\n\n",
			valueTypeName(m.Type), g.class.Name, m.Name, constValue(m))
	case m.Static:
		g.printf("%s %s::%s;\n\n", fieldTypeName(m.Type), g.class.Name, m.Name)
	}
}

// constValue renders a const field's value by its declared type: int and
// char constants share a runtime shape and cannot be told apart by value.
func constValue(m *sem.Member) string {
	if sem.Equals(m.Type, sem.SimpleChar) {
		if r, ok := m.ConstValue.(rune); ok {
			return fmt.Sprintf("L'%s'", escapeChar(r))
		}
	}

	switch val := m.ConstValue.(type) {
	case string:
		return "sable::Lit(L\"" + escapeString(val) + "\")"
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", m.ConstValue)
	}
}

// genMethodDef prints one out-of-line method or accessor definition.
func (g *Generator) genMethodDef(m *sem.Member, body *ast.Block) {
	g.method = m

	g.printf("%s %s::%s(%s) {\n", returnTypeName(m.Type), g.class.Name, m.Name, paramList(m.Params))
	g.indent++
	for _, stmt := range body.Stmts {
		g.genStmt(stmt)
	}
	g.indent--
	g.printf("}\n\n")

	g.method = nil
}

// genCtorDef prints a constructor.  When the constructor delegates via
// this(...) or base(...), the body is emitted as a _Construct forwarder the
// real constructor calls, since native constructor delegation cannot express
// the sable form.
func (g *Generator) genCtorDef(def *ast.CtorDef) {
	m := def.Sym
	c := g.class

	if !needsForwarders(c) {
		g.printf("%s::%s(%s) {\n", c.Name, c.Name, paramList(m.Params))
		g.indent++
		g.genInit()
		for _, stmt := range def.Body.Stmts {
			g.genStmt(stmt)
		}
		g.indent--
		g.printf("}\n\n")
		return
	}

	// The constructor proper forwards to its _Construct body.
	g.printf("%s::%s(%s) {\n", c.Name, c.Name, paramList(m.Params))
	g.indent++
	g.genInit()
	g.line("_Construct%d(%s);", ctorNumber(m), argNames(m.Params))
	g.indent--
	g.printf("}\n\n")

	g.printf("void %s::_Construct%d(%s) {\n", c.Name, ctorNumber(m), paramList(m.Params))
	g.indent++

	if def.Delegate != ast.DelegateNone {
		delegated := findDelegated(m)
		if def.Delegate == ast.DelegateThis {
			g.line("_Construct%d(%s);", ctorNumber(delegated), g.genArgsFor(m, def.DelegateArgs))
		} else {
			g.line("%s::_Construct%d(%s);", c.Parent.Name, ctorNumber(delegated),
				g.genArgsFor(m, def.DelegateArgs))
		}
	}

	for _, stmt := range def.Body.Stmts {
		g.genStmt(stmt)
	}
	g.indent--
	g.printf("}\n\n")
}

// ctorCount counts the constructors of a class.
func ctorCount(c *sem.Class) int {
	n := 0
	for _, m := range c.Members {
		if m.Kind == sem.MemberConstructor {
			n++
		}
	}

	return n
}

// needsForwarders returns whether a class's constructors are emitted through
// _Construct forwarders: required when any of them delegates or when any
// subclass constructor delegates to one of them.
func needsForwarders(c *sem.Class) bool {
	for _, m := range c.Members {
		if m.Kind == sem.MemberConstructor && (m.DelegatesToThis || m.DelegatesToBase) {
			return true
		}
	}

	for _, sub := range c.Subclasses {
		for _, m := range sub.Members {
			if m.Kind == sem.MemberConstructor && m.DelegatesToBase {
				return true
			}
		}
	}

	return false
}

// ctorNumber numbers the constructors of a class in declaration order.
func ctorNumber(m *sem.Member) int {
	i := 0
	for _, mm := range m.Owner.Members {
		if mm.Kind == sem.MemberConstructor {
			if mm == m {
				return i
			}
			i++
		}
	}

	return 0
}

// findDelegated resolves the constructor a delegation targets: the walker
// resolved it into the first constructor call node of the CFG.
func findDelegated(from *sem.Member) *sem.Member {
	for _, p := range from.Points {
		if n, ok := p.(*sem.Node); ok && n.Call != nil && n.Call.Kind == sem.MemberConstructor {
			return n.Call
		}
	}

	return nil
}

// genArgsFor renders a plain argument list.
func (g *Generator) genArgsFor(m *sem.Member, args []ast.Expr) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ", "
		}

		s += g.genExpr(a)
	}

	return s
}

func argNames(params []*sem.Local) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}

		s += localName(p)
	}

	return s
}

// genInit prints the shared field initialization of a constructor: inline
// when the class has a single constructor, through _Init otherwise.
func (g *Generator) genInit() {
	if ctorCount(g.class) > 1 {
		g.line("_Init();")
		return
	}

	g.genFieldZeroing()
}

// genFieldZeroing zeroes the simple value fields and the raw-pointer
// reference fields of the class under construction; handle-typed fields
// start null through their own constructors.
func (g *Generator) genFieldZeroing() {
	for _, m := range g.class.Members {
		if m.Kind != sem.MemberField || m.Static || m.Const {
			continue
		}

		if !sem.IsValue(m.Type) {
			continue
		}

		switch m.Type.(type) {
		case sem.SimpleType:
			g.line("%s = 0;", m.Name)
		}
	}

	for _, m := range g.class.Members {
		if m.Kind == sem.MemberField && !m.Static && !m.Const && !sem.IsValue(m.Type) {
			if !sem.IsOwning(m.Type) && !isStringType(m.Type) && sem.ClassOf(m.Type) != sem.ObjectClass {
				g.line("%s = 0;", m.Name)
			}
		}
	}
}

// genClassHooksDef prints the two-pass destroy hooks of a pool-allocated
// class: pass one runs the destructor while stashing and restoring the
// vtable pointer so later ref-count checks can still dispatch, pass two
// verifies the deferred ref count and releases the memory.
func (g *Generator) genClassHooksDef(c *sem.Class) {
	if !c.PoolDestroyNeeded {
		return
	}

	g.printf("void %s::__DestroyPass1(void *p) {\n", c.Name)
	g.printf("    %s *obj = (%s *)p;\n", c.Name, c.Name)
	g.printf("    void *vt = sable::Pool::StashVTable(obj);\n")
	g.printf("    obj->~%s();\n", c.Name)
	g.printf("    sable::Pool::RestoreVTable(obj, vt);\n")
	g.printf("}\n\n")

	g.printf("void %s::__DestroyPass2(void *p) {\n", c.Name)
	g.printf("    sable::Pool::ReleaseChecked(p, sizeof(%s));\n", c.Name)
	g.printf("}\n\n")
}
