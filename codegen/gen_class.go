package codegen

import (
	"sablec/ast"
	"sablec/sem"
)

// genClassDecl prints the in-class declaration of a single class, with
// public/protected/private transitions inserted when an adjacent member
// differs from the current access.
func (g *Generator) genClassDecl(def *ast.ClassDef) {
	c := def.Sym
	g.class = c

	g.printf("class %s : public %s {\n", c.Name, baseClassName(c))

	access := -1
	for _, md := range def.Members {
		m := md.Member()
		if m == nil {
			continue
		}

		if m.Access != access {
			access = m.Access
			g.printf("%s:\n", accessKeyword(access))
		}

		g.genMemberDecl(md, m)
	}

	// The synthesized default constructor, if resolution added one.
	if ctor := syntheticCtor(def); ctor != nil {
		if access != sem.AccessPublic {
			g.printf("public:\n")
		}

		g.printf("    %s();\n", c.Name)
	}

	// Classes with several constructors share their field initialization
	// through a private _Init all of them call.
	if ctorCount(c) > 1 {
		g.printf("private:\n    void _Init();\n")
	}

	// The _Construct forwarders backing delegated constructors.
	if needsForwarders(c) {
		g.printf("protected:\n")
		for _, m := range c.Members {
			if m.Kind == sem.MemberConstructor {
				g.printf("    void _Construct%d(%s);\n", ctorNumber(m), paramList(m.Params))
			}
		}
	}

	g.genClassHooksDecl(c)

	if c.VirtualNeeded {
		g.printf("public:\n    virtual ~%s();\n", c.Name)
	}

	g.printf("};\n\n")
	g.class = nil
}

// baseClassName is the emitted base of a class: the root object class when
// object inheritance is needed or inherited, a vtable-free empty base
// otherwise.
func baseClassName(c *sem.Class) string {
	if c.Parent != sem.ObjectClass {
		return c.Parent.Name
	}

	if c.ObjectInheritanceNeeded || c.VirtualNeeded {
		return "sable::Object"
	}

	return "sable::Plain"
}

func accessKeyword(access int) string {
	switch access {
	case sem.AccessPrivate:
		return "private"
	case sem.AccessProtected:
		return "protected"
	default:
		return "public"
	}
}

// syntheticCtor returns the default constructor resolution synthesized for a
// class, or nil if the class declares its own.
func syntheticCtor(def *ast.ClassDef) *sem.Member {
	for _, md := range def.Members {
		if _, ok := md.(*ast.CtorDef); ok {
			return nil
		}
	}

	for _, m := range def.Sym.Members {
		if m.Kind == sem.MemberConstructor {
			return m
		}
	}

	return nil
}

// genMemberDecl prints the in-class declaration of one member.
func (g *Generator) genMemberDecl(md ast.MemberDef, m *sem.Member) {
	switch v := md.(type) {
	case *ast.FieldDef:
		switch {
		case m.Const:
			g.printf("    static const %s %s;\n", valueTypeName(m.Type), m.Name)
		case m.Static:
			g.printf("    static %s %s;\n", fieldTypeName(m.Type), m.Name)
		default:
			g.printf("    %s %s;\n", fieldTypeName(m.Type), m.Name)
		}
	case *ast.MethodDef:
		g.printf("    %s%s %s(%s)%s;\n",
			methodPrefix(m), returnTypeName(m.Type), m.Name, paramList(m.Params),
			pureSuffix(m))
	case *ast.CtorDef:
		g.printf("    %s(%s);\n", g.class.Name, paramList(m.Params))
	case *ast.PropertyDef:
		if m.Getter != nil {
			g.printf("    %s%s get_%s();\n", methodPrefix(m.Getter), returnTypeName(m.Type), v.Name)
		}
		if m.Setter != nil {
			g.printf("    %svoid set_%s(%s);\n", methodPrefix(m.Setter), v.Name, paramList(m.Setter.Params))
		}
	case *ast.IndexerDef:
		if m.Getter != nil {
			g.printf("    %s get_Item(%s);\n", returnTypeName(m.Type), paramList(m.Getter.Params))
		}
		if m.Setter != nil {
			g.printf("    void set_Item(%s);\n", paramList(m.Setter.Params))
		}
	}
}

// methodPrefix is the storage/dispatch prefix of a method declaration.
func methodPrefix(m *sem.Member) string {
	switch {
	case m.Static:
		return "static "
	case m.Abstract, m.Override, len(m.OverriddenBy) > 0:
		return "virtual "
	default:
		return ""
	}
}

func pureSuffix(m *sem.Member) string {
	if m.Abstract {
		return " = 0"
	}

	return ""
}

// genClassHooksDecl declares the two-pass destroy hooks of a pool-allocated
// class.
func (g *Generator) genClassHooksDecl(c *sem.Class) {
	if !c.PoolDestroyNeeded {
		return
	}

	g.printf("public:\n")
	g.printf("    static void __DestroyPass1(void *p);\n")
	g.printf("    static void __DestroyPass2(void *p);\n")
}

// -----------------------------------------------------------------------------

// Type rendering.  The handle shape is chosen per storage location: raw
// pointers for non-owned reference fields and locals, owning handles for
// owned storage, ref-counted handles for strings, hybrid handles for the
// root object type.

// valueTypeName renders a value type.
func valueTypeName(t sem.Type) string {
	switch v := t.(type) {
	case sem.SimpleType:
		switch v {
		case sem.SimpleBool:
			return "bool"
		case sem.SimpleChar:
			return "sable::Char"
		case sem.SimpleInt:
			return "int"
		case sem.SimpleFloat:
			return "float"
		default:
			return "double"
		}
	case sem.VoidType:
		return "void"
	default:
		return bareTypeName(t)
	}
}

// bareTypeName renders the unwrapped object type underlying a reference.
func bareTypeName(t sem.Type) string {
	switch v := sem.Dropped(t).(type) {
	case *sem.Class:
		if v == sem.ObjectClass {
			return "sable::Object"
		}
		if v == sem.PoolClass {
			return "sable::Pool"
		}
		return v.Name
	case sem.StringType:
		return "sable::String"
	case *sem.ArrayType:
		return "sable::Array< " + elemTypeName(v.Elem) + " >"
	case sem.NullType:
		return "sable::Object"
	default:
		return valueTypeName(t)
	}
}

// elemTypeName renders an array element slot.
func elemTypeName(t sem.Type) string {
	if sem.IsValue(t) {
		return valueTypeName(t)
	}

	return bareTypeName(t) + " *"
}

// fieldTypeName renders the storage of a field.
func fieldTypeName(t sem.Type) string {
	switch {
	case sem.IsValue(t):
		return valueTypeName(t)
	case sem.IsOwning(t):
		return "sable::Own< " + bareTypeName(t) + " >"
	case isStringType(t):
		return "sable::Ref< sable::String >"
	case sem.ClassOf(t) == sem.ObjectClass:
		return "sable::OwnRef< sable::Object >"
	default:
		return bareTypeName(t) + " *"
	}
}

// localTypeName renders the storage of a local variable.
func localTypeName(l *sem.Local) string {
	t := l.Type

	switch {
	case sem.IsValue(t):
		return valueTypeName(t)
	case sem.IsOwning(t):
		if l.NeedsRef {
			return "sable::OwnRef< " + bareTypeName(t) + " >"
		}
		return "sable::Own< " + bareTypeName(t) + " >"
	case isStringType(t):
		return "sable::Ref< sable::String >"
	case sem.ClassOf(t) == sem.ObjectClass:
		return "sable::OwnRef< sable::Object >"
	case l.NeedsRef:
		// Only meaningful in safe builds; the handle decays to a raw pointer
		// otherwise.
		return "sable::PtrRef< " + bareTypeName(t) + " >"
	default:
		return bareTypeName(t) + " *"
	}
}

// returnTypeName renders a method return type: references come back raw and
// are adopted by the receiving storage.
func returnTypeName(t sem.Type) string {
	if sem.IsValue(t) {
		return valueTypeName(t)
	}

	return bareTypeName(t) + " *"
}

// paramTypeName renders a parameter.
func paramTypeName(p *sem.Local) string {
	t := p.Type

	switch p.Mode {
	case sem.ParamRef, sem.ParamOut:
		if sem.IsValue(t) {
			return valueTypeName(t) + " &"
		}

		return bareTypeName(t) + " *&"
	default:
		if sem.IsValue(t) {
			return valueTypeName(t)
		}

		if sem.IsOwning(t) {
			return "sable::Own< " + bareTypeName(t) + " >"
		}

		return bareTypeName(t) + " *"
	}
}

func paramList(params []*sem.Local) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}

		s += paramTypeName(p) + " " + localName(p)
	}

	return s
}

func isStringType(t sem.Type) bool {
	_, ok := sem.Dropped(t).(sem.StringType)
	return ok
}
