package ast

import (
	"sablec/report"
	"sablec/sem"
)

// The abstract interface for all AST nodes.
type ASTNode interface {
	// The text span of the AST node.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// TypeExpr is a syntactic reference to a type, resolved during checking.
type TypeExpr interface {
	ASTNode
	typeExpr()
}

// PrimTypeExpr references a keyword type: bool, char, int, float, double,
// void, or string.
type PrimTypeExpr struct {
	ASTBase

	// The referenced built-in type.
	T sem.Type
}

// NamedTypeExpr references a class by name.
type NamedTypeExpr struct {
	ASTBase

	Name string
}

// ArrayTypeExpr references an array of an element type.
type ArrayTypeExpr struct {
	ASTBase

	Elem TypeExpr
}

// OwningTypeExpr references an owning wrapper around a base type.
type OwningTypeExpr struct {
	ASTBase

	Elem TypeExpr
}

func (*PrimTypeExpr) typeExpr()   {}
func (*NamedTypeExpr) typeExpr()  {}
func (*ArrayTypeExpr) typeExpr()  {}
func (*OwningTypeExpr) typeExpr() {}
