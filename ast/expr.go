package ast

import "sablec/sem"

// Expr is the abstract interface for all expression nodes.
type Expr interface {
	ASTNode

	// The resolved type of the expression, set during checking.
	Type() sem.Type

	// SetType records the resolved type of the expression.
	SetType(t sem.Type)
}

// ExprBase is the utility base struct for expressions.
type ExprBase struct {
	ASTBase

	typ sem.Type

	// The CFG range of the expression's owning value, recorded during
	// checking for the ref-count analysis; nil for most expressions.
	Range *sem.ExprRange
}

func (eb *ExprBase) Type() sem.Type     { return eb.typ }
func (eb *ExprBase) SetType(t sem.Type) { eb.typ = t }

// -----------------------------------------------------------------------------

// Enumeration of literal kinds.
const (
	LitInt = iota
	LitFloat
	LitDouble
	LitChar
	LitString
	LitBool
	LitNull
)

// Literal is a literal expression.
type Literal struct {
	ExprBase

	// The literal kind, one of the enumerated kinds above.
	Kind int

	// The literal value: int32, float64, rune, string, or bool.  Null
	// literals have no value.
	Value interface{}
}

// NameExpr references a local, an implicit-this member, or a bare built-in
// static by name.
type NameExpr struct {
	ExprBase

	Name string

	// Exactly one of the following is set during checking.
	Local  *sem.Local
	Member *sem.Member
}

// ThisExpr references the current instance.
type ThisExpr struct {
	ExprBase
}

// DotExpr accesses a member of a target expression or a static member of a
// named class.
type DotExpr struct {
	ExprBase

	// The target expression; nil for static access through a class name.
	Target Expr

	// The class for static access; nil otherwise.
	Static *sem.Class

	Name string

	// The resolved member.
	Member *sem.Member
}

// CallArg is a single argument at a call site.
type CallArg struct {
	ASTBase

	// The argument mode: sem.LocalVar for a plain value argument,
	// sem.ParamRef, or sem.ParamOut.
	Mode int

	Value Expr
}

// CallExpr calls a method.
type CallExpr struct {
	ExprBase

	// The callee expression: a NameExpr, a DotExpr, or a BaseExpr.
	Func Expr

	Args []*CallArg

	// The resolved method.
	Member *sem.Member
}

// BaseExpr references the parent class portion of this, for base.M(...)
// calls.
type BaseExpr struct {
	ExprBase
}

// IndexExpr indexes an array, a string, or a class with an indexer.
type IndexExpr struct {
	ExprBase

	Target Expr
	Index  Expr

	// The resolved indexer member; nil for direct array indexing.
	Member *sem.Member
}

// NewExpr allocates and constructs a class instance, optionally inside a
// pool.
type NewExpr struct {
	ExprBase

	TypeName string
	Args     []*CallArg

	// The pool expression of `new T(...) in pool`, or nil for heap
	// allocation.
	Pool Expr

	// The resolved class and constructor.
	Class *sem.Class
	Ctor  *sem.Member
}

// NewArrayExpr allocates an array of a given length.
type NewArrayExpr struct {
	ExprBase

	ElemType TypeExpr
	Length   Expr
}

// Enumeration of operators.
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd // short-circuit &&
	OpOr  // short-circuit ||
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpNot
	OpNeg
	OpCompl
)

// OpRepr returns the display string of an operator.
func OpRepr(op int) string {
	return [...]string{
		"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=",
		"&&", "||", "&", "|", "^", "<<", ">>", "!", "-", "~",
	}[op]
}

// UnaryExpr applies a unary operator.
type UnaryExpr struct {
	ExprBase

	Op      int
	Operand Expr
}

// BinaryExpr applies a binary operator, the short-circuit operators
// included.
type BinaryExpr struct {
	ExprBase

	Op   int
	L, R Expr
}

// CondExpr is the ternary conditional operator.
type CondExpr struct {
	ExprBase

	Cond Expr
	Then Expr
	Else Expr
}

// AssignExpr assigns to an lvalue.  Op is -1 for plain assignment and the
// arithmetic operator for a compound assignment.
type AssignExpr struct {
	ExprBase

	L  Expr
	R  Expr
	Op int
}

// CastExpr is an explicit conversion (T)e.
type CastExpr struct {
	ExprBase

	To    TypeExpr
	Value Expr
}

// TakeExpr moves the value out of an owning storage location, leaving null.
type TakeExpr struct {
	ExprBase

	Operand Expr
}

// IsExpr is a runtime type test e is T.
type IsExpr struct {
	ExprBase

	Value Expr
	To    TypeExpr
}
