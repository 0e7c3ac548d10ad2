package sem

import "strings"

// TypeSet is a prefix-free set of class types: adding a supertype absorbs
// the subtypes already present and adding a subtype of something already
// present is a no-op.  Destruction sets are TypeSets over the closed set of
// program classes.
type TypeSet struct {
	classes []*Class
}

// Add inserts a class into the set, collapsing subtypes.  It returns whether
// the set grew.
func (s *TypeSet) Add(c *Class) bool {
	kept := s.classes[:0]
	for _, k := range s.classes {
		if k.DerivesFrom(c) {
			// Absorbed by the new supertype.
			continue
		}

		if c.DerivesFrom(k) {
			// Already covered.
			return false
		}

		kept = append(kept, k)
	}

	s.classes = append(kept, c)
	return true
}

// AddAll unions another set into this one.  It returns whether the set grew.
func (s *TypeSet) AddAll(o *TypeSet) bool {
	grew := false
	for _, c := range o.classes {
		grew = s.Add(c) || grew
	}

	return grew
}

// Covers returns whether c or a supertype of c is in the set.
func (s *TypeSet) Covers(c *Class) bool {
	for _, k := range s.classes {
		if c.DerivesFrom(k) {
			return true
		}
	}

	return false
}

// Touches returns whether the set contains a class related to c in either
// direction: destroying a subtype of c destroys a c, and a variable typed c
// may refer to any subtype.
func (s *TypeSet) Touches(c *Class) bool {
	for _, k := range s.classes {
		if c.DerivesFrom(k) || k.DerivesFrom(c) {
			return true
		}
	}

	return false
}

// Classes returns the members of the set.
func (s *TypeSet) Classes() []*Class { return s.classes }

// Repr returns the set's display form for the -typeset dump.
func (s *TypeSet) Repr() string {
	if len(s.classes) == 0 {
		return "{}"
	}

	names := make([]string, len(s.classes))
	for i, c := range s.classes {
		names[i] = c.Name
	}

	return "{" + strings.Join(names, ", ") + "}"
}

// -----------------------------------------------------------------------------

// TypeDestroys returns the set of types that may be destroyed when one
// instance of class c is destroyed: c itself, everything destroyed by its
// owning fields (own and inherited), and, because a destructor call on c may
// dispatch at runtime to a subclass destructor, everything destroyed by any
// subclass.  The result is memoized per class.
func TypeDestroys(c *Class) *TypeSet {
	if c.typeDestroys != nil {
		return c.typeDestroys
	}

	set := &TypeSet{}
	c.typeDestroys = set

	addTypeDestroys(set, c, NextMarker())
	return set
}

// addTypeDestroys is the marker-based DFS underlying TypeDestroys.
func addTypeDestroys(set *TypeSet, c *Class, marker int) {
	if c.mark == marker {
		return
	}
	c.mark = marker

	set.Add(c)

	for k := c; k != nil; k = k.Parent {
		for _, m := range k.Members {
			if m.Kind != MemberField || m.Static || m.Const {
				continue
			}

			addVarDestroys(set, m.Type, marker)
		}
	}

	for _, sub := range c.Subclasses {
		addTypeDestroys(set, sub, marker)
	}
}

// addVarDestroys adds the destruction set of a storage location of type t:
// the type destroys of its base class if t is owning, nothing otherwise.
// Non-owning references never affect destruction.
func addVarDestroys(set *TypeSet, t Type, marker int) {
	if !IsOwning(t) {
		return
	}

	switch elem := Dropped(t).(type) {
	case *Class:
		addTypeDestroys(set, elem, marker)
	case *ArrayType:
		set.Add(ArrayClass)
		addVarDestroys(set, ownedElem(elem), marker)
	}
}

// ownedElem returns the array element type as a destroyable location: array
// elements of reference type are owned by the array.
func ownedElem(at *ArrayType) Type {
	if !IsValue(at.Elem) && !IsOwning(at.Elem) {
		if _, ok := at.Elem.(StringType); !ok {
			return &OwningType{Elem: at.Elem}
		}
	}

	return at.Elem
}

// -----------------------------------------------------------------------------

// MethodDestroys returns the set of types m's execution may destroy: the
// destruction sets of everything it calls, of every override of those
// callees (virtual dispatch), and of every node of its own CFG.  The search
// is pruned once the set covers the root object class since it cannot grow
// further.  The result is memoized per method.
func MethodDestroys(m *Member) *TypeSet {
	if m.methodDestroys != nil {
		return m.methodDestroys
	}

	set := &TypeSet{}
	m.methodDestroys = set

	addMethodDestroys(set, m, NextMarker())
	return set
}

func addMethodDestroys(set *TypeSet, m *Member, marker int) {
	if m.mark == marker || set.Covers(ObjectClass) {
		return
	}
	m.mark = marker

	for _, p := range m.Points {
		n, ok := p.(*Node)
		if !ok {
			continue
		}

		for _, c := range n.Destroyed {
			set.AddAll(TypeDestroys(c))
		}

		if n.Call != nil {
			addMethodDestroys(set, n.Call, marker)
			addOverrideDestroys(set, n.Call, marker)
		}

		if set.Covers(ObjectClass) {
			return
		}
	}
}

// addOverrideDestroys adds the destruction sets of every override of a
// callee, recursively down the subclass tree.
func addOverrideDestroys(set *TypeSet, callee *Member, marker int) {
	for _, ov := range callee.OverriddenBy {
		addMethodDestroys(set, ov, marker)
		addOverrideDestroys(set, ov, marker)
	}
}

// -----------------------------------------------------------------------------

// CanDestroy returns whether execution of the CFG point p may destroy an
// instance of class c: the method called there destroys it or the point's
// own destruction set touches it.
func CanDestroy(p Point, c *Class) bool {
	n, ok := p.(*Node)
	if !ok {
		return false
	}

	for _, d := range n.Destroyed {
		if TypeDestroys(d).Touches(c) {
			return true
		}
	}

	return n.Call != nil && MethodDestroys(n.Call).Touches(c)
}
