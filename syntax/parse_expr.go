package syntax

import (
	"strconv"

	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// expr := assign_expr ;
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignExpr()
}

// assign_expr := cond_expr [('=' | '+=' | '-=' | '*=' | '/=' | '%=')
//                assign_expr] ;
func (p *Parser) parseAssignExpr() ast.Expr {
	lhs := p.parseCondExpr()

	op := -1
	switch p.tok.Kind {
	case TOK_ASSIGN:
	case TOK_PLUSASSIGN:
		op = ast.OpAdd
	case TOK_MINUSASSIGN:
		op = ast.OpSub
	case TOK_STARASSIGN:
		op = ast.OpMul
	case TOK_DIVASSIGN:
		op = ast.OpDiv
	case TOK_MODASSIGN:
		op = ast.OpMod
	default:
		return lhs
	}
	p.next()

	rhs := p.parseAssignExpr()
	return &ast.AssignExpr{
		ExprBase: exprBaseOver(lhs.Span(), rhs.Span()),
		L:        lhs,
		R:        rhs,
		Op:       op,
	}
}

// cond_expr := binary_expr ['?' cond_expr ':' cond_expr] ;
func (p *Parser) parseCondExpr() ast.Expr {
	cond := p.parseBinaryExpr(0)

	if !p.has(TOK_QUESTION) {
		return cond
	}
	p.next()

	then := p.parseCondExpr()
	p.want(TOK_COLON)
	els := p.parseCondExpr()

	return &ast.CondExpr{
		ExprBase: exprBaseOver(cond.Span(), els.Span()),
		Cond:     cond,
		Then:     then,
		Else:     els,
	}
}

// binaryPrecs maps binary operator tokens to their operator and precedence
// level, lowest binding first.
var binaryPrecs = map[int]struct{ op, prec int }{
	TOK_LOR:    {ast.OpOr, 0},
	TOK_LAND:   {ast.OpAnd, 1},
	TOK_PIPE:   {ast.OpBitOr, 2},
	TOK_CARET:  {ast.OpBitXor, 3},
	TOK_AMP:    {ast.OpBitAnd, 4},
	TOK_EQ:     {ast.OpEq, 5},
	TOK_NEQ:    {ast.OpNeq, 5},
	TOK_LT:     {ast.OpLt, 6},
	TOK_GT:     {ast.OpGt, 6},
	TOK_LTEQ:   {ast.OpLtEq, 6},
	TOK_GTEQ:   {ast.OpGtEq, 6},
	TOK_LSHIFT: {ast.OpShl, 7},
	TOK_RSHIFT: {ast.OpShr, 7},
	TOK_PLUS:   {ast.OpAdd, 8},
	TOK_MINUS:  {ast.OpSub, 8},
	TOK_STAR:   {ast.OpMul, 9},
	TOK_DIV:    {ast.OpDiv, 9},
	TOK_MOD:    {ast.OpMod, 9},
}

const maxBinaryPrec = 10

// binary_expr := unary_expr {bin_op unary_expr} | unary_expr 'is' type_expr ;
//
// Precedence climbing over the table above; `is` binds at the relational
// level.
func (p *Parser) parseBinaryExpr(prec int) ast.Expr {
	if prec >= maxBinaryPrec {
		return p.parseUnaryExpr()
	}

	lhs := p.parseBinaryExpr(prec + 1)

	for {
		if p.has(TOK_IS) && prec == 6 {
			p.next()
			typ := p.parseTypeExpr()
			lhs = &ast.IsExpr{
				ExprBase: exprBaseOver(lhs.Span(), typ.Span()),
				Value:    lhs,
				To:       typ,
			}
			continue
		}

		entry, ok := binaryPrecs[p.tok.Kind]
		if !ok || entry.prec != prec {
			return lhs
		}
		p.next()

		rhs := p.parseBinaryExpr(prec + 1)
		lhs = &ast.BinaryExpr{
			ExprBase: exprBaseOver(lhs.Span(), rhs.Span()),
			Op:       entry.op,
			L:        lhs,
			R:        rhs,
		}
	}
}

// unary_expr := ('-' | '!' | '~') unary_expr | 'take' unary_expr
//               | '(' type_expr ')' unary_expr | postfix_expr ;
func (p *Parser) parseUnaryExpr() ast.Expr {
	startSpan := p.tok.Span

	var op int
	switch p.tok.Kind {
	case TOK_MINUS:
		op = ast.OpNeg
	case TOK_NOT:
		op = ast.OpNot
	case TOK_COMPL:
		op = ast.OpCompl
	case TOK_TAKE:
		p.next()
		operand := p.parseUnaryExpr()
		return &ast.TakeExpr{
			ExprBase: exprBaseOver(startSpan, operand.Span()),
			Operand:  operand,
		}
	default:
		if p.startsCast() {
			p.next()
			typ := p.parseTypeExpr()
			p.want(TOK_RPAREN)
			value := p.parseUnaryExpr()
			return &ast.CastExpr{
				ExprBase: exprBaseOver(startSpan, value.Span()),
				To:       typ,
				Value:    value,
			}
		}

		return p.parsePostfixExpr()
	}

	p.next()
	operand := p.parseUnaryExpr()
	return &ast.UnaryExpr{
		ExprBase: exprBaseOver(startSpan, operand.Span()),
		Op:       op,
		Operand:  operand,
	}
}

// startsCast decides whether a leading `(` opens a cast rather than a
// parenthesized expression.  A parenthesized type keyword always does; a
// parenthesized lone identifier does when the closing paren is directly
// followed by something that can begin an operand.
func (p *Parser) startsCast() bool {
	if !p.has(TOK_LPAREN) {
		return false
	}

	switch p.peek(0).Kind {
	case TOK_BOOL, TOK_CHAR, TOK_INT, TOK_FLOAT, TOK_DOUBLE, TOK_STRING:
		return true
	case TOK_IDENT:
		switch p.peek(1).Kind {
		case TOK_CARET:
			return p.peek(2).Kind == TOK_RPAREN
		case TOK_LBRACKET:
			return p.peek(2).Kind == TOK_RBRACKET
		case TOK_RPAREN:
			switch p.peek(2).Kind {
			case TOK_IDENT, TOK_INTLIT, TOK_FLOATLIT, TOK_DOUBLELIT, TOK_CHARLIT,
				TOK_STRINGLIT, TOK_TRUE, TOK_FALSE, TOK_NULL, TOK_THIS, TOK_NEW,
				TOK_TAKE, TOK_LPAREN:
				return true
			}
		}
	}

	return false
}

// postfix_expr := primary_expr {'.' IDENT ['(' args ')'] | '[' expr ']'
//                 | '(' args ')'} ;
func (p *Parser) parsePostfixExpr() ast.Expr {
	expr := p.parsePrimaryExpr()

	for {
		switch p.tok.Kind {
		case TOK_DOT:
			p.next()
			nameTok := p.want(TOK_IDENT)
			expr = &ast.DotExpr{
				ExprBase: exprBaseOver(expr.Span(), nameTok.Span),
				Target:   expr,
				Name:     nameTok.Value,
			}
		case TOK_LBRACKET:
			p.next()
			index := p.parseExpr()
			endTok := p.want(TOK_RBRACKET)
			expr = &ast.IndexExpr{
				ExprBase: exprBaseOver(expr.Span(), endTok.Span),
				Target:   expr,
				Index:    index,
			}
		case TOK_LPAREN:
			args, endSpan := p.parseArgs()
			expr = &ast.CallExpr{
				ExprBase: exprBaseOver(expr.Span(), endSpan),
				Func:     expr,
				Args:     args,
			}
		default:
			return expr
		}
	}
}

// args := '(' [arg {',' arg}] ')' ;
// arg := ['ref' | 'out'] expr ;
func (p *Parser) parseArgs() ([]*ast.CallArg, *report.TextSpan) {
	p.want(TOK_LPAREN)

	var args []*ast.CallArg
	for !p.has(TOK_RPAREN) {
		if len(args) > 0 {
			p.want(TOK_COMMA)
		}

		startSpan := p.tok.Span
		mode := sem.LocalVar
		if p.has(TOK_REF) {
			mode = sem.ParamRef
			p.next()
		} else if p.has(TOK_OUT) {
			mode = sem.ParamOut
			p.next()
		}

		value := p.parseExpr()
		args = append(args, &ast.CallArg{
			ASTBase: ast.NewASTBaseOver(startSpan, value.Span()),
			Mode:    mode,
			Value:   value,
		})
	}
	endTok := p.want(TOK_RPAREN)

	return args, endTok.Span
}

// primary_expr := literal | IDENT | 'this' | 'base' | new_expr
//                 | '(' expr ')' ;
func (p *Parser) parsePrimaryExpr() ast.Expr {
	span := p.tok.Span

	switch p.tok.Kind {
	case TOK_INTLIT:
		value, err := strconv.ParseInt(p.tok.Value, 10, 32)
		if err != nil {
			panic(report.Raise(span, "integer literal out of range"))
		}

		p.next()
		return litExpr(span, ast.LitInt, int32(value))
	case TOK_FLOATLIT, TOK_DOUBLELIT:
		value, err := strconv.ParseFloat(p.tok.Value, 64)
		if err != nil {
			panic(report.Raise(span, "malformed floating-point literal"))
		}

		kind := ast.LitDouble
		if p.has(TOK_FLOATLIT) {
			kind = ast.LitFloat
		}

		p.next()
		return litExpr(span, kind, value)
	case TOK_CHARLIT:
		value := []rune(p.tok.Value)[0]
		p.next()
		return litExpr(span, ast.LitChar, value)
	case TOK_STRINGLIT:
		value := p.tok.Value
		p.next()
		return litExpr(span, ast.LitString, value)
	case TOK_TRUE:
		p.next()
		return litExpr(span, ast.LitBool, true)
	case TOK_FALSE:
		p.next()
		return litExpr(span, ast.LitBool, false)
	case TOK_NULL:
		p.next()
		return litExpr(span, ast.LitNull, nil)
	case TOK_IDENT:
		name := p.tok.Value
		p.next()
		return &ast.NameExpr{ExprBase: exprBaseOn(span), Name: name}
	case TOK_THIS:
		p.next()
		return &ast.ThisExpr{ExprBase: exprBaseOn(span)}
	case TOK_BASE:
		p.next()
		return &ast.BaseExpr{ExprBase: exprBaseOn(span)}
	case TOK_NEW:
		return p.parseNewExpr()
	case TOK_LPAREN:
		p.next()
		expr := p.parseExpr()
		p.want(TOK_RPAREN)
		return expr
	default:
		p.reject()
		return nil
	}
}

// new_expr := 'new' type_expr '[' expr ']'
//             | 'new' IDENT '(' args ')' ['in' expr] ;
func (p *Parser) parseNewExpr() ast.Expr {
	startSpan := p.tok.Span
	p.next()

	typ := p.parseTypeExpr()

	if p.has(TOK_LBRACKET) {
		p.next()
		length := p.parseExpr()
		endTok := p.want(TOK_RBRACKET)

		return &ast.NewArrayExpr{
			ExprBase: exprBaseOver(startSpan, endTok.Span),
			ElemType: typ,
			Length:   length,
		}
	}

	named, ok := typ.(*ast.NamedTypeExpr)
	if !ok {
		panic(report.Raise(typ.Span(), "only class types can be constructed"))
	}

	args, endSpan := p.parseArgs()

	expr := &ast.NewExpr{
		ExprBase: exprBaseOver(startSpan, endSpan),
		TypeName: named.Name,
		Args:     args,
	}

	if p.has(TOK_IN) {
		p.next()
		expr.Pool = p.parseUnaryExpr()
	}

	return expr
}

// -----------------------------------------------------------------------------

func litExpr(span *report.TextSpan, kind int, value interface{}) *ast.Literal {
	return &ast.Literal{ExprBase: exprBaseOn(span), Kind: kind, Value: value}
}

func exprBaseOn(span *report.TextSpan) ast.ExprBase {
	return ast.ExprBase{ASTBase: ast.NewASTBaseOn(span)}
}

func exprBaseOver(start, end *report.TextSpan) ast.ExprBase {
	return ast.ExprBase{ASTBase: ast.NewASTBaseOver(start, end)}
}
