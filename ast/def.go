package ast

import "sablec/sem"

// SourceFile is the parsed contents of a single sable source file.
type SourceFile struct {
	// The absolute path of the file.
	AbsPath string

	// The class definitions of the file in order of appearance.
	Classes []*ClassDef
}

// -----------------------------------------------------------------------------

// ClassDef is a top-level class definition.
type ClassDef struct {
	ASTBase

	Name string

	// The name of the parent class, or empty to derive from nothing.
	ParentName string

	// Class attributes.
	Abstract bool
	Extern   bool
	Public   bool

	// The member definitions in declaration order.
	Members []MemberDef

	// The declared class, created at parse.
	Sym *sem.Class
}

// MemberDef is the abstract interface for class member definitions.
type MemberDef interface {
	ASTNode

	// The resolved member table entry, bound during resolution.
	Member() *sem.Member
}

// MemberBase carries the attributes common to all member definitions.
type MemberBase struct {
	ASTBase

	// The accessibility keyword, one of the sem access levels.
	Access int

	Static bool
	Const  bool

	// The resolved member.
	Sym *sem.Member
}

func (mb *MemberBase) Member() *sem.Member { return mb.Sym }

// -----------------------------------------------------------------------------

// FieldDef is a field declaration, const and static included.
type FieldDef struct {
	MemberBase

	Name string
	Type TypeExpr

	// The initializer of a const field; nil otherwise.
	Init Expr
}

// ParamDef is a single parameter of a method, constructor, or indexer.
type ParamDef struct {
	ASTBase

	Name string
	Type TypeExpr

	// The parameter mode: sem.ParamIn, sem.ParamRef, or sem.ParamOut.
	Mode int

	// The resolved parameter local.
	Sym *sem.Local
}

// MethodDef is a method definition.
type MethodDef struct {
	MemberBase

	Name     string
	Ret      TypeExpr
	Params   []*ParamDef
	Abstract bool
	Override bool

	// The method body; nil for abstract methods.
	Body *Block
}

// Enumeration of constructor delegation kinds.
const (
	DelegateNone = iota
	DelegateThis
	DelegateBase
)

// CtorDef is a constructor definition.
type CtorDef struct {
	MemberBase

	Params []*ParamDef

	// Constructor delegation: `: this(...)` or `: base(...)`.
	Delegate     int
	DelegateArgs []Expr

	Body *Block
}

// PropertyDef is a property definition: a pair of get/set accessor bodies.
type PropertyDef struct {
	MemberBase

	Name string
	Type TypeExpr

	// The accessor bodies; either may be nil.
	GetBody *Block
	SetBody *Block
}

// IndexerDef is an indexer definition: get/set accessors keyed by a single
// parameter.
type IndexerDef struct {
	MemberBase

	Type  TypeExpr
	Param *ParamDef

	GetBody *Block
	SetBody *Block
}
