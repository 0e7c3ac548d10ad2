package sem

// The built-in class descriptors.  These are process-wide singletons
// reinstalled by ResetRegistry.
var (
	// ObjectClass is the root object class.  It has no parent.
	ObjectClass *Class

	// StringClass carries the members of the string type.
	StringClass *Class

	// ArrayClass is the parent class of every array type.
	ArrayClass *Class

	// PoolClass is the bulk allocator with two-pass destruction.
	PoolClass *Class

	// StdClass carries the built-in static library surface; its static
	// members resolve from bare names.
	StdClass *Class
)

// initUniverse installs the built-in classes into a fresh registry.
func initUniverse() {
	ObjectClass = &Class{Name: "object", Extern: true, Public: true}
	ObjectClass.AddMember(externMethod("Equals", SimpleBool, param("other", ObjectClass)))
	ObjectClass.AddMember(externMethod("GetHashCode", SimpleInt))
	ObjectClass.AddMember(externMethod("ToString", StringType{}))

	StringClass = derivedExtern("string", ObjectClass)
	StringClass.AddMember(externProperty("Length", SimpleInt))
	StringClass.AddMember(externIndexer(SimpleChar, param("index", SimpleInt)))
	StringClass.AddMember(externMethod("Substring", StringType{},
		param("start", SimpleInt), param("length", SimpleInt)))
	StringClass.AddMember(externMethod("IndexOf", SimpleInt, param("c", SimpleChar)))

	ArrayClass = derivedExtern("array", ObjectClass)
	ArrayClass.AddMember(externProperty("Count", SimpleInt))

	PoolClass = derivedExtern("Pool", ObjectClass)
	poolCtor := externMethod("Pool", VoidType{})
	poolCtor.Kind = MemberConstructor
	PoolClass.AddMember(poolCtor)

	StdClass = derivedExtern("Std", ObjectClass)
	for _, t := range []Type{StringType{}, SimpleInt, SimpleChar, SimpleDouble, SimpleBool} {
		StdClass.AddMember(externStatic("Print", VoidType{}, param("value", t)))
		StdClass.AddMember(externStatic("PrintLine", VoidType{}, param("value", t)))
	}
	StdClass.AddMember(externStatic("PrintLine", VoidType{}))
	StdClass.AddMember(externStatic("ReadLine", StringType{}))

	for _, c := range []*Class{ObjectClass, StringClass, ArrayClass, PoolClass, StdClass} {
		DeclareClass(c)
	}
}

// -----------------------------------------------------------------------------

func derivedExtern(name string, parent *Class) *Class {
	c := &Class{Name: name, Extern: true, Public: true, Parent: parent}
	parent.Subclasses = append(parent.Subclasses, c)
	return c
}

func externMethod(name string, ret Type, params ...*Local) *Member {
	return &Member{
		Name:   name,
		Kind:   MemberMethod,
		Access: AccessPublic,
		Extern: true,
		Type:   ret,
		Params: params,
	}
}

func externStatic(name string, ret Type, params ...*Local) *Member {
	m := externMethod(name, ret, params...)
	m.Static = true
	return m
}

func externProperty(name string, t Type) *Member {
	return &Member{
		Name:   name,
		Kind:   MemberProperty,
		Access: AccessPublic,
		Extern: true,
		Type:   t,
		Getter: externMethod("get_"+name, t),
	}
}

func externIndexer(t Type, key *Local) *Member {
	return &Member{
		Name:   "[]",
		Kind:   MemberIndexer,
		Access: AccessPublic,
		Extern: true,
		Type:   t,
		Params: []*Local{key},
		Getter: externMethod("get_Item", t, key),
	}
}

func param(name string, t Type) *Local {
	return &Local{Name: name, Type: t, Mode: ParamIn}
}
