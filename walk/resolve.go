package walk

import (
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// Resolve binds the declarations of all parsed files: parent classes, member
// tables with resolved signatures, property and indexer accessor shells,
// synthesized default constructors, and override links.  It must run after
// every file has been parsed and before any body is walked.
func Resolve(files []*ast.SourceFile) {
	// Bind parent pointers first so that member resolution can see the whole
	// hierarchy.
	for _, file := range files {
		for _, def := range file.Classes {
			bindParent(file.AbsPath, def)
		}
	}

	for _, file := range files {
		for _, def := range file.Classes {
			checkParentCycle(file.AbsPath, def)
		}
	}

	// Build the member tables.
	for _, file := range files {
		for _, def := range file.Classes {
			resolveMembers(file.AbsPath, def)
		}
	}

	// Link overrides and enforce abstract member rules.
	for _, file := range files {
		for _, def := range file.Classes {
			linkOverrides(file.AbsPath, def)
		}
	}

	for _, file := range files {
		for _, def := range file.Classes {
			checkAbstracts(file.AbsPath, def)
		}
	}
}

// bindParent binds a class's parent pointer.  A class without an explicit
// parent derives from the root object class.
func bindParent(absPath string, def *ast.ClassDef) {
	parent := sem.ObjectClass
	if def.ParentName != "" {
		p, ok := sem.LookupClass(def.ParentName)
		if !ok {
			report.ReportCompileError(absPath, def.Span(), "undefined class: `%s`", def.ParentName)
		} else {
			parent = p
		}
	}

	def.Sym.Parent = parent
	parent.Subclasses = append(parent.Subclasses, def.Sym)
}

// checkParentCycle rejects inheritance cycles.
func checkParentCycle(absPath string, def *ast.ClassDef) {
	slow, fast := def.Sym, def.Sym.Parent
	for fast != nil {
		if slow == fast {
			report.ReportFatal("inheritance cycle involving class `%s`", def.Name)
		}

		slow = slow.Parent
		fast = fast.Parent
		if fast != nil {
			fast = fast.Parent
		}
	}
}

// -----------------------------------------------------------------------------

// resolveMembers builds the member table of a single class.
func resolveMembers(absPath string, def *ast.ClassDef) {
	c := def.Sym

	for _, md := range def.Members {
		switch v := md.(type) {
		case *ast.FieldDef:
			m := newMember(v.MemberBase, v.Name, sem.MemberField)
			m.Type = resolveTypeExpr(absPath, v.Type, false)

			if m.Const && v.Init == nil {
				report.ReportCompileError(absPath, v.Span(), "const field `%s` requires an initializer", v.Name)
			}

			v.Sym = m
			c.AddMember(m)
		case *ast.MethodDef:
			m := newMember(v.MemberBase, v.Name, sem.MemberMethod)
			m.Type = resolveTypeExpr(absPath, v.Ret, true)
			m.Params = resolveParams(absPath, v.Params)
			m.Abstract = v.Abstract
			m.Override = v.Override

			if m.Abstract && !c.Abstract {
				report.ReportCompileError(absPath, v.Span(), "abstract method `%s` in non-abstract class", v.Name)
			}

			v.Sym = m
			c.AddMember(m)
		case *ast.CtorDef:
			m := newMember(v.MemberBase, c.Name, sem.MemberConstructor)
			m.Type = sem.VoidType{}
			m.Params = resolveParams(absPath, v.Params)
			m.DelegatesToThis = v.Delegate == ast.DelegateThis
			m.DelegatesToBase = v.Delegate == ast.DelegateBase

			v.Sym = m
			c.AddMember(m)
		case *ast.PropertyDef:
			m := newMember(v.MemberBase, v.Name, sem.MemberProperty)
			m.Type = resolveTypeExpr(absPath, v.Type, false)

			if v.GetBody != nil {
				m.Getter = accessorShell(m, "get_"+v.Name, m.Type, nil)
			}
			if v.SetBody != nil {
				m.Setter = accessorShell(m, "set_"+v.Name, sem.VoidType{}, []*sem.Local{setterValue(m.Type)})
			}
			if v.GetBody == nil && v.SetBody == nil {
				report.ReportCompileError(absPath, v.Span(), "property `%s` has no accessors", v.Name)
			}

			v.Sym = m
			c.AddMember(m)
		case *ast.IndexerDef:
			m := newMember(v.MemberBase, "[]", sem.MemberIndexer)
			m.Type = resolveTypeExpr(absPath, v.Type, false)
			m.Params = resolveParams(absPath, []*ast.ParamDef{v.Param})

			key := m.Params[0]
			if v.GetBody != nil {
				m.Getter = accessorShell(m, "get_Item", m.Type, []*sem.Local{key})
			}
			if v.SetBody != nil {
				m.Setter = accessorShell(m, "set_Item", sem.VoidType{}, []*sem.Local{key, setterValue(m.Type)})
			}

			v.Sym = m
			c.AddMember(m)
		}
	}

	// A class without a constructor gets a default one.
	if !c.Extern && !hasCtor(c) {
		c.AddMember(&sem.Member{
			Name:   c.Name,
			Kind:   sem.MemberConstructor,
			Access: sem.AccessPublic,
			Type:   sem.VoidType{},
			Span:   def.Span(),
		})
	}
}

func newMember(base ast.MemberBase, name string, kind int) *sem.Member {
	return &sem.Member{
		Name:   name,
		Kind:   kind,
		Access: base.Access,
		Static: base.Static,
		Const:  base.Const,
		Span:   base.Span(),
	}
}

// accessorShell creates the method shell backing a property or indexer
// accessor.
func accessorShell(owner *sem.Member, name string, ret sem.Type, params []*sem.Local) *sem.Member {
	return &sem.Member{
		Name:   name,
		Kind:   sem.MemberMethod,
		Access: owner.Access,
		Static: owner.Static,
		Extern: owner.Extern,
		Type:   ret,
		Params: params,
		Span:   owner.Span,
	}
}

// setterValue creates the implicit `value` parameter of a set accessor.
func setterValue(t sem.Type) *sem.Local {
	return &sem.Local{Name: "value", Type: t, Mode: sem.ParamIn}
}

func resolveParams(absPath string, defs []*ast.ParamDef) []*sem.Local {
	params := make([]*sem.Local, len(defs))
	for i, pd := range defs {
		t := resolveTypeExpr(absPath, pd.Type, false)

		// A ref or out parameter's type is never owning at the call
		// boundary: ownership transfer through one is an explicit take.
		if pd.Mode != sem.ParamIn && sem.IsOwning(t) {
			report.ReportCompileError(absPath, pd.Span(),
				"ref and out parameters cannot be owning; use take to transfer ownership")
			t = sem.Dropped(t)
		}

		params[i] = &sem.Local{
			Name:    pd.Name,
			Type:    t,
			Mode:    pd.Mode,
			Mutable: pd.Mode != sem.ParamIn,
			Span:    pd.Span(),
		}
		pd.Sym = params[i]
	}

	return params
}

func hasCtor(c *sem.Class) bool {
	for _, m := range c.Members {
		if m.Kind == sem.MemberConstructor {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

// linkOverrides binds every override method to the declared method it
// overrides so that virtual dispatch is visible to the destruction analysis.
func linkOverrides(absPath string, def *ast.ClassDef) {
	for _, md := range def.Members {
		v, ok := md.(*ast.MethodDef)
		if !ok || !v.Override {
			continue
		}

		m := v.Sym
		base := findOverridden(def.Sym.Parent, m)
		if base == nil {
			report.ReportCompileError(absPath, v.Span(),
				"method `%s` overrides nothing in a parent class", m.Name)
			continue
		}

		base.OverriddenBy = append(base.OverriddenBy, m)

		// Dispatching through the base requires RTTI on the hierarchy.
		base.Owner.VirtualNeeded = true
	}
}

// findOverridden finds the nearest method in the parent chain with the same
// signature as m.
func findOverridden(parent *sem.Class, m *sem.Member) *sem.Member {
	for k := parent; k != nil; k = k.Parent {
		for _, cand := range k.Members {
			if cand.Kind != sem.MemberMethod || cand.Name != m.Name || cand.Override {
				continue
			}

			if sameSignature(cand, m) {
				return cand
			}
		}
	}

	return nil
}

func sameSignature(a, b *sem.Member) bool {
	if !sem.Equals(a.Type, b.Type) || len(a.Params) != len(b.Params) {
		return false
	}

	for i := range a.Params {
		if a.Params[i].Mode != b.Params[i].Mode || !sem.Equals(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}

	return true
}

// checkAbstracts verifies that every concrete class overrides every abstract
// method it inherits.
func checkAbstracts(absPath string, def *ast.ClassDef) {
	c := def.Sym
	if c.Abstract {
		return
	}

	for k := c.Parent; k != nil; k = k.Parent {
		for _, m := range k.Members {
			if m.Kind != sem.MemberMethod || !m.Abstract {
				continue
			}

			if !overriddenBelow(m, c) {
				report.ReportCompileError(absPath, def.Span(),
					"class `%s` does not override abstract method `%s`", c.Name, m.QualName())
			}
		}
	}
}

// overriddenBelow returns whether some override of m is declared in c or one
// of its ancestors.
func overriddenBelow(m *sem.Member, c *sem.Class) bool {
	for _, ov := range m.OverriddenBy {
		if c.DerivesFrom(ov.Owner) {
			return true
		}

		if overriddenBelow(ov, c) {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

// resolveTypeExpr resolves a syntactic type reference to a semantic type.
// Unresolvable names are reported and resolve to the root object class so
// that checking can continue.
func resolveTypeExpr(absPath string, te ast.TypeExpr, allowVoid bool) sem.Type {
	switch v := te.(type) {
	case *ast.PrimTypeExpr:
		if _, isVoid := v.T.(sem.VoidType); isVoid && !allowVoid {
			report.ReportCompileError(absPath, v.Span(), "void is only valid as a return type")
			return sem.ObjectClass
		}

		return v.T
	case *ast.NamedTypeExpr:
		c, ok := sem.LookupClass(v.Name)
		if !ok {
			report.ReportCompileError(absPath, v.Span(), "undefined class: `%s`", v.Name)
			return sem.ObjectClass
		}

		return c
	case *ast.ArrayTypeExpr:
		elem := resolveTypeExpr(absPath, v.Elem, false)
		return &sem.ArrayType{Elem: elem}
	case *ast.OwningTypeExpr:
		elem := resolveTypeExpr(absPath, v.Elem, false)
		if sem.IsValue(elem) || sem.IsOwning(elem) {
			report.ReportCompileError(absPath, v.Span(), "only non-value types can be owning")
			return elem
		}

		return sem.Owned(elem)
	default:
		report.ReportICE("unknown type expression")
		return nil
	}
}
