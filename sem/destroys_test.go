package sem

import (
	"testing"

	"github.com/nalgeon/be"
)

func ownedField(name string, of *Class) *Member {
	return &Member{
		Name:   name,
		Kind:   MemberField,
		Access: AccessPublic,
		Type:   Owned(of),
	}
}

func TestTypeSetPrefixFree(t *testing.T) {
	base, derived, other := testHierarchy()

	s := &TypeSet{}
	be.True(t, s.Add(derived))

	// Adding a supertype absorbs the subtypes already present.
	be.True(t, s.Add(base))
	be.Equal(t, len(s.Classes()), 1)
	be.Equal(t, s.Classes()[0], base)

	// Adding a covered subtype is a no-op.
	be.True(t, !s.Add(derived))
	be.Equal(t, len(s.Classes()), 1)

	be.True(t, s.Add(other))
	be.Equal(t, len(s.Classes()), 2)

	be.True(t, s.Covers(derived))
	be.True(t, !s.Covers(ObjectClass))
	be.True(t, s.Touches(ObjectClass))
}

func TestTypeDestroysOwnFields(t *testing.T) {
	base, _, other := testHierarchy()

	base.AddMember(ownedField("child", other))

	set := TypeDestroys(base)
	be.True(t, set.Covers(base))
	be.True(t, set.Covers(other))
}

func TestTypeDestroysSubclasses(t *testing.T) {
	base, derived, other := testHierarchy()

	// Destroying through a base pointer may dispatch to the subclass
	// destructor, so the subclass's owned fields count.
	derived.AddMember(ownedField("extra", other))

	set := TypeDestroys(base)
	be.True(t, set.Covers(derived))
	be.True(t, set.Covers(other))
}

func TestTypeDestroysIgnoresBorrows(t *testing.T) {
	base, _, other := testHierarchy()

	// Non-owning references never affect destruction.
	base.AddMember(&Member{Name: "peer", Kind: MemberField, Access: AccessPublic, Type: other})

	set := TypeDestroys(base)
	be.True(t, !set.Covers(other))
}

func TestTypeDestroysCycle(t *testing.T) {
	base, _, other := testHierarchy()

	base.AddMember(ownedField("a", other))
	other.AddMember(ownedField("b", base))

	set := TypeDestroys(base)
	be.True(t, set.Covers(base))
	be.True(t, set.Covers(other))
}

func TestMethodDestroys(t *testing.T) {
	base, _, other := testHierarchy()

	// A method whose CFG destroys `other` at some node.
	killer := method("Kill", VoidType{})
	base.AddMember(killer)
	killer.Points = []Point{&Node{Destroyed: []*Class{other}}}

	// A caller of the killer inherits its destruction set.
	caller := method("Drive", VoidType{})
	base.AddMember(caller)
	caller.Points = []Point{&Node{Call: killer}}

	be.True(t, MethodDestroys(killer).Covers(other))
	be.True(t, MethodDestroys(caller).Covers(other))
}

func TestMethodDestroysThroughOverrides(t *testing.T) {
	base, derived, other := testHierarchy()

	declared := method("Act", VoidType{})
	base.AddMember(declared)
	declared.Points = []Point{&Node{}}

	override := method("Act", VoidType{})
	override.Override = true
	derived.AddMember(override)
	override.Points = []Point{&Node{Destroyed: []*Class{other}}}
	declared.OverriddenBy = []*Member{override}

	// Virtual dispatch means a call to the declared member may run any
	// override.
	caller := method("Drive", VoidType{})
	base.AddMember(caller)
	caller.Points = []Point{&Node{Call: declared}}

	be.True(t, MethodDestroys(caller).Covers(other))
}

func TestCanDestroy(t *testing.T) {
	base, derived, other := testHierarchy()

	n := &Node{Destroyed: []*Class{base}}
	be.True(t, CanDestroy(n, base))
	be.True(t, CanDestroy(n, derived))
	be.True(t, !CanDestroy(n, other))

	plain := &Node{}
	be.True(t, !CanDestroy(plain, base))
}
