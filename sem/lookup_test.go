package sem

import (
	"testing"

	"github.com/nalgeon/be"
)

func method(name string, ret Type, params ...*Local) *Member {
	return &Member{
		Name:   name,
		Kind:   MemberMethod,
		Access: AccessPublic,
		Type:   ret,
		Params: params,
	}
}

func TestLookupOverloadByArgs(t *testing.T) {
	testHierarchy()

	c := &Class{Name: "Host", Parent: ObjectClass}
	DeclareClass(c)

	intPrint := method("Write", VoidType{}, param("v", SimpleInt))
	strPrint := method("Write", VoidType{}, param("v", StringType{}))
	c.AddMember(intPrint)
	c.AddMember(strPrint)

	m, status := LookupMember(c, MemberMethod, "Write", []Arg{{Type: SimpleInt}}, c, false)
	be.Equal(t, status, LookupFound)
	be.Equal(t, m, intPrint)

	m, status = LookupMember(c, MemberMethod, "Write", []Arg{{Type: StringType{}}}, c, false)
	be.Equal(t, status, LookupFound)
	be.Equal(t, m, strPrint)
}

func TestLookupWalksInheritance(t *testing.T) {
	testHierarchy()

	parent := &Class{Name: "Parent", Parent: ObjectClass}
	child := &Class{Name: "Child", Parent: parent}
	parent.Subclasses = append(parent.Subclasses, child)
	DeclareClass(parent)
	DeclareClass(child)

	inherited := method("Greet", VoidType{})
	parent.AddMember(inherited)

	m, status := LookupMember(child, MemberMethod, "Greet", nil, child, false)
	be.Equal(t, status, LookupFound)
	be.Equal(t, m, inherited)
}

func TestLookupSkipsPrivateOutside(t *testing.T) {
	testHierarchy()

	c := &Class{Name: "Sealed", Parent: ObjectClass}
	DeclareClass(c)

	secret := method("Secret", VoidType{})
	secret.Access = AccessPrivate
	c.AddMember(secret)

	_, status := LookupMember(c, MemberMethod, "Secret", nil, nil, false)
	be.Equal(t, status, LookupNone)

	m, status := LookupMember(c, MemberMethod, "Secret", nil, c, false)
	be.Equal(t, status, LookupFound)
	be.Equal(t, m, secret)
}

func TestLookupProtectedScoring(t *testing.T) {
	testHierarchy()

	parent := &Class{Name: "Guard", Parent: ObjectClass}
	sub := &Class{Name: "Ward", Parent: parent}
	parent.Subclasses = append(parent.Subclasses, sub)
	stranger := &Class{Name: "Stranger", Parent: ObjectClass}
	DeclareClass(parent)
	DeclareClass(sub)
	DeclareClass(stranger)

	guarded := method("Guarded", VoidType{})
	guarded.Access = AccessProtected
	parent.AddMember(guarded)

	_, status := LookupMember(parent, MemberMethod, "Guarded", nil, sub, false)
	be.Equal(t, status, LookupFound)

	_, status = LookupMember(parent, MemberMethod, "Guarded", nil, stranger, false)
	be.Equal(t, status, LookupInaccessible)
}

func TestLookupSkipsOverrides(t *testing.T) {
	testHierarchy()

	parent := &Class{Name: "Top", Parent: ObjectClass}
	child := &Class{Name: "Bottom", Parent: parent}
	parent.Subclasses = append(parent.Subclasses, child)
	DeclareClass(parent)
	DeclareClass(child)

	declared := method("Speak", VoidType{})
	parent.AddMember(declared)

	override := method("Speak", VoidType{})
	override.Override = true
	child.AddMember(override)

	// Resolution targets the declared member, not the override.
	m, status := LookupMember(child, MemberMethod, "Speak", nil, child, false)
	be.Equal(t, status, LookupFound)
	be.Equal(t, m, declared)

	m, _ = LookupMember(child, MemberMethod, "Speak", nil, child, true)
	be.Equal(t, m, override)
}

func TestLookupAmbiguity(t *testing.T) {
	testHierarchy()

	c := &Class{Name: "Twice", Parent: ObjectClass}
	DeclareClass(c)

	c.AddMember(method("Run", VoidType{}, param("v", SimpleInt)))
	c.AddMember(method("Run", VoidType{}, param("v", SimpleInt)))

	// Two perfect candidates at the same depth are ambiguous.
	_, status := LookupMember(c, MemberMethod, "Run", []Arg{{Type: SimpleInt}}, c, false)
	be.Equal(t, status, LookupAmbiguous)
}

func TestLookupPrefersExactOverConvertible(t *testing.T) {
	testHierarchy()

	c := &Class{Name: "Pick", Parent: ObjectClass}
	DeclareClass(c)

	intRun := method("Run", VoidType{}, param("v", SimpleInt))
	charRun := method("Run", VoidType{}, param("v", SimpleChar))
	c.AddMember(intRun)
	c.AddMember(charRun)

	// A char argument binds both, but the exact candidate wins.
	m, status := LookupMember(c, MemberMethod, "Run", []Arg{{Type: SimpleChar}}, c, false)
	be.Equal(t, status, LookupFound)
	be.Equal(t, m, charRun)
}

func TestLookupRefModeMustMatch(t *testing.T) {
	testHierarchy()

	c := &Class{Name: "Modal", Parent: ObjectClass}
	DeclareClass(c)

	refParam := &Local{Name: "v", Type: SimpleInt, Mode: ParamRef, Mutable: true}
	c.AddMember(method("Bump", VoidType{}, refParam))

	_, status := LookupMember(c, MemberMethod, "Bump", []Arg{{Type: SimpleInt}}, c, false)
	be.Equal(t, status, LookupNone)

	_, status = LookupMember(c, MemberMethod, "Bump", []Arg{{Type: SimpleInt, Mode: ParamRef}}, c, false)
	be.Equal(t, status, LookupFound)
}
