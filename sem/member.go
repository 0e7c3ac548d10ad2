package sem

import "sablec/report"

// Member represents a single entry in a class's member table: a field, a
// method, a constructor, a property, or an indexer.
type Member struct {
	// The name of the member.  Constructors are named after their class;
	// indexers are named "[]".
	Name string

	// The kind of the member.  This must be one of the enumerated member
	// kinds below.
	Kind int

	// The member's accessibility.  This must be one of the enumerated access
	// levels below.
	Access int

	// Member attributes.
	Static   bool
	Const    bool
	Abstract bool
	Override bool
	Extern   bool

	// The class containing the member.
	Owner *Class

	// The resolved type of the member: the field type, the method return
	// type, or the property/indexer value type.
	Type Type

	// The span of the member's declaration.
	Span *report.TextSpan

	// The parameters of a method or constructor.  For an indexer, the single
	// key parameter.
	Params []*Local

	// The get/set method shells of a property or indexer.  Either may be nil
	// for a read- or write-only member.
	Getter *Member
	Setter *Member

	// The value of a const field, set during checking.  One of bool, rune,
	// int32, float64, or string.
	ConstValue interface{}

	// The CFG of a method or constructor, rooted at a synthetic entry node
	// with a join node for all return points.
	Entry *Node
	Exit  *Joiner

	// Every CFG point created while checking this method, in creation order.
	Points []Point

	// The locals declared in the method, parameters included.
	Locals []*Local

	// The owning-typed expression ranges recorded during checking of this
	// method, for the ref-count necessity analysis.
	Ranges []*ExprRange

	// The local and owning-field reads recorded during checking, for the
	// use-before-init and ownership-transfer checks.
	Uses []*AccessRecord

	// The methods which override this one in subclasses.
	OverriddenBy []*Member

	// For constructors: whether the constructor delegates to another
	// constructor via this(...) or base(...).
	DelegatesToThis bool
	DelegatesToBase bool

	// The memoized set of types this method's execution may destroy.
	methodDestroys *TypeSet

	// The marker last stamped on this member by a call-graph DFS.
	mark int
}

// Enumeration of member kinds.
const (
	MemberField = iota
	MemberMethod
	MemberConstructor
	MemberProperty
	MemberIndexer
)

// Enumeration of access levels.
const (
	AccessPublic = iota
	AccessProtected
	AccessPrivate
)

// IsCallable returns whether the member is a method or constructor.
func (m *Member) IsCallable() bool {
	return m.Kind == MemberMethod || m.Kind == MemberConstructor
}

// QualName returns the member's name qualified by its owning class, for
// diagnostics.
func (m *Member) QualName() string {
	return m.Owner.Name + "." + m.Name
}

// -----------------------------------------------------------------------------

// Local represents a local variable or parameter of a method.
type Local struct {
	// The name of the local.
	Name string

	// The resolved type of the local.
	Type Type

	// The parameter mode of the local.  This must be one of the enumerated
	// modes below.
	Mode int

	// Whether the local is ever written after initialization.  Ref and out
	// parameters are always mutable.
	Mutable bool

	// Whether the ref-count analysis decided the local needs a runtime
	// reference count.
	NeedsRef bool

	// The span of the local's declaration.
	Span *report.TextSpan
}

// Enumeration of local modes.
const (
	LocalVar = iota // an ordinary local variable
	ParamIn         // an in parameter
	ParamRef        // a ref parameter
	ParamOut        // an out parameter
)

// IsParam returns whether the local is a parameter.
func (l *Local) IsParam() bool {
	return l.Mode != LocalVar
}

// -----------------------------------------------------------------------------

// ExprRange records the CFG extent of an owning-typed expression value: the
// point at which it is evaluated and the point at which it is consumed.  The
// ref-count analysis decides whether the value must be wrapped in a runtime
// reference count over that range.
type ExprRange struct {
	// The points delimiting the expression's lifetime, exclusive of both.
	Start, End Point

	// The local variable underlying the expression, if any.
	Local *Local

	// The class whose destruction would invalidate the expression value.
	Of *Class

	// Whether the analysis decided a ref-count wrapper is needed.
	NeedsRef bool
}
