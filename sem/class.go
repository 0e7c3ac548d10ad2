package sem

import "sablec/report"

// Class represents a user- or built-in-declared class type.  Classes have at
// most a single parent; the root object class has none.
type Class struct {
	// The name of the class.
	Name string

	// The file and span where the class was declared.  Built-in classes have
	// no file.
	File string
	Span *report.TextSpan

	// Class attributes.
	Abstract bool
	Extern   bool
	Public   bool

	// The parent class, or nil for the root object class.
	Parent *Class

	// Every class directly derived from this one.
	Subclasses []*Class

	// The member table in declaration order.
	Members []*Member

	// Set during checking: whether the class needs RTTI and a virtual
	// destructor in emitted code.
	VirtualNeeded bool

	// Set during checking: whether the class must appear as a subtype of the
	// root object class in emitted code.
	ObjectInheritanceNeeded bool

	// Set during checking: whether the class participates in two-pass pool
	// destruction.
	PoolDestroyNeeded bool

	// The memoized set of types destroyed when an instance of this class is
	// destroyed.
	typeDestroys *TypeSet

	// The marker last stamped on this class by a class-graph DFS.
	mark int
}

func (c *Class) equals(other Type) bool {
	return c == other
}

func (c *Class) Repr() string { return c.Name }

// DerivesFrom returns whether this class is other or a descendant of other.
func (c *Class) DerivesFrom(other *Class) bool {
	for k := c; k != nil; k = k.Parent {
		if k == other {
			return true
		}
	}

	return false
}

// AddMember appends a member to the class's member table.
func (c *Class) AddMember(m *Member) {
	m.Owner = c
	c.Members = append(c.Members, m)
}

// Depth returns the inheritance depth of the class: zero for the root.
func (c *Class) Depth() int {
	d := 0
	for k := c.Parent; k != nil; k = k.Parent {
		d++
	}

	return d
}

// -----------------------------------------------------------------------------

// The class registry: a process-wide table of every class in the program,
// held for the compiler's lifetime.  The registry is never accessed
// concurrently.
var (
	classes    map[string]*Class
	classOrder []*Class
)

// ResetRegistry clears the class registry and reinstalls the built-in
// classes.  It must be called once before parsing.
func ResetRegistry() {
	classes = make(map[string]*Class)
	classOrder = nil
	initUniverse()
}

// DeclareClass adds a class to the registry.  It returns false if a class by
// the same name already exists.
func DeclareClass(c *Class) bool {
	if _, ok := classes[c.Name]; ok {
		return false
	}

	classes[c.Name] = c
	classOrder = append(classOrder, c)
	return true
}

// LookupClass finds a class by name.
func LookupClass(name string) (*Class, bool) {
	c, ok := classes[name]
	return c, ok
}

// AllClasses returns every registered class in declaration order, built-ins
// first.
func AllClasses() []*Class {
	return classOrder
}

// -----------------------------------------------------------------------------

// The CFG marker counter: each DFS bumps the counter and stamps the nodes it
// visits.  Within a single traversal all nodes carry either the prior marker
// or the new one; no concurrent traversal is ever in flight.
var markerCounter int

// NextMarker returns a fresh traversal marker.
func NextMarker() int {
	markerCounter++
	return markerCounter
}
