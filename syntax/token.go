package syntax

import "sablec/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The text span over which the token exists.  This may not directly
	// correspond to its value: eg. the value of a string token has the
	// leading quotes trimmed off for convenience.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_CLASS = iota

	TOK_PUBLIC
	TOK_PRIVATE
	TOK_PROTECTED
	TOK_STATIC
	TOK_CONST
	TOK_ABSTRACT
	TOK_EXTERN
	TOK_OVERRIDE

	TOK_GET
	TOK_SET

	TOK_REF
	TOK_OUT

	TOK_IF
	TOK_ELSE
	TOK_WHILE
	TOK_DO
	TOK_FOR
	TOK_FOREACH
	TOK_IN
	TOK_SWITCH
	TOK_CASE
	TOK_DEFAULT
	TOK_BREAK
	TOK_CONTINUE
	TOK_RETURN

	TOK_NEW
	TOK_TAKE
	TOK_IS
	TOK_NULL
	TOK_TRUE
	TOK_FALSE
	TOK_THIS
	TOK_BASE

	TOK_VOID
	TOK_BOOL
	TOK_CHAR
	TOK_INT
	TOK_FLOAT
	TOK_DOUBLE
	TOK_STRING

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_AMP
	TOK_PIPE
	TOK_CARET
	TOK_COMPL
	TOK_LSHIFT
	TOK_RSHIFT

	TOK_NOT
	TOK_LAND
	TOK_LOR

	TOK_ASSIGN
	TOK_PLUSASSIGN
	TOK_MINUSASSIGN
	TOK_STARASSIGN
	TOK_DIVASSIGN
	TOK_MODASSIGN

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_DOT
	TOK_SEMI
	TOK_COLON
	TOK_QUESTION

	TOK_IDENT
	TOK_INTLIT
	TOK_FLOATLIT
	TOK_DOUBLELIT
	TOK_CHARLIT
	TOK_STRINGLIT

	TOK_EOF
)
