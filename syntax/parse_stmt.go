package syntax

import (
	"sablec/ast"
	"sablec/report"
)

// block := '{' {stmt} '}' ;
func (p *Parser) parseBlock() *ast.Block {
	startTok := p.want(TOK_LBRACE)

	block := &ast.Block{}
	for !p.has(TOK_RBRACE) {
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	endTok := p.want(TOK_RBRACE)

	block.StmtBase = ast.StmtBase{ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span)}
	return block
}

// stmt := block | var_decl | if_stmt | while_stmt | do_stmt | for_stmt
//         | foreach_stmt | switch_stmt | 'break' ';' | 'continue' ';'
//         | 'return' [expr] ';' | expr_stmt ;
func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_WHILE:
		return p.parseWhileStmt()
	case TOK_DO:
		return p.parseDoStmt()
	case TOK_FOR:
		return p.parseForStmt()
	case TOK_FOREACH:
		return p.parseForeachStmt()
	case TOK_SWITCH:
		return p.parseSwitchStmt()
	case TOK_BREAK:
		span := p.tok.Span
		p.next()
		p.want(TOK_SEMI)
		return &ast.BreakStmt{StmtBase: stmtBaseOn(span)}
	case TOK_CONTINUE:
		span := p.tok.Span
		p.next()
		p.want(TOK_SEMI)
		return &ast.ContinueStmt{StmtBase: stmtBaseOn(span)}
	case TOK_RETURN:
		startSpan := p.tok.Span
		p.next()

		var value ast.Expr
		if !p.has(TOK_SEMI) {
			value = p.parseExpr()
		}

		endTok := p.want(TOK_SEMI)
		return &ast.ReturnStmt{
			StmtBase: stmtBaseOver(startSpan, endTok.Span),
			Value:    value,
		}
	default:
		if p.startsVarDecl() {
			stmt := p.parseVarDecl()
			p.want(TOK_SEMI)
			return stmt
		}

		stmt := &ast.ExprStmt{Expr: p.parseExpr()}
		endTok := p.want(TOK_SEMI)
		stmt.StmtBase = stmtBaseOver(stmt.Expr.Span(), endTok.Span)
		return stmt
	}
}

// startsVarDecl decides whether the parser is on a local variable
// declaration rather than an expression statement.  A leading type keyword
// always starts a declaration; a leading identifier does when it is followed
// by another identifier or by a `[]` or `^` type suffix.
func (p *Parser) startsVarDecl() bool {
	switch p.tok.Kind {
	case TOK_BOOL, TOK_CHAR, TOK_INT, TOK_FLOAT, TOK_DOUBLE, TOK_STRING:
		return true
	case TOK_IDENT:
		switch p.peek(0).Kind {
		case TOK_IDENT:
			return true
		case TOK_CARET:
			return true
		case TOK_LBRACKET:
			return p.peek(1).Kind == TOK_RBRACKET
		}
	}

	return false
}

// var_decl := type_expr IDENT ['=' expr] ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	startSpan := p.tok.Span

	typ := p.parseTypeExpr()
	nameTok := p.want(TOK_IDENT)

	decl := &ast.VarDecl{
		StmtBase: stmtBaseOver(startSpan, nameTok.Span),
		Name:     nameTok.Value,
		Type:     typ,
	}

	if p.has(TOK_ASSIGN) {
		p.next()
		decl.Init = p.parseExpr()
	}

	return decl
}

// -----------------------------------------------------------------------------

// if_stmt := 'if' '(' expr ')' stmt ['else' stmt] ;
func (p *Parser) parseIfStmt() *ast.IfStmt {
	startSpan := p.tok.Span
	p.next()

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	then := p.parseStmt()

	stmt := &ast.IfStmt{Cond: cond, Then: then}
	endSpan := then.Span()
	if p.has(TOK_ELSE) {
		p.next()
		stmt.Else = p.parseStmt()
		endSpan = stmt.Else.Span()
	}

	stmt.StmtBase = stmtBaseOver(startSpan, endSpan)
	return stmt
}

// while_stmt := 'while' '(' expr ')' stmt ;
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	startSpan := p.tok.Span
	p.next()

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseStmt()
	return &ast.WhileStmt{
		StmtBase: stmtBaseOver(startSpan, body.Span()),
		Cond:     cond,
		Body:     body,
	}
}

// do_stmt := 'do' stmt 'while' '(' expr ')' ';' ;
func (p *Parser) parseDoStmt() *ast.DoStmt {
	startSpan := p.tok.Span
	p.next()

	body := p.parseStmt()

	p.want(TOK_WHILE)
	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)
	endTok := p.want(TOK_SEMI)

	return &ast.DoStmt{
		StmtBase: stmtBaseOver(startSpan, endTok.Span),
		Body:     body,
		Cond:     cond,
	}
}

// for_stmt := 'for' '(' [var_decl | expr] ';' [expr] ';' [expr] ')' stmt ;
//
// The initializer's locals live in the scope containing the loop so that
// they are visible in the condition, iterator, and body.
func (p *Parser) parseForStmt() *ast.ForStmt {
	startSpan := p.tok.Span
	p.next()

	p.want(TOK_LPAREN)

	stmt := &ast.ForStmt{}
	if !p.has(TOK_SEMI) {
		if p.startsVarDecl() {
			stmt.Init = p.parseVarDecl()
		} else {
			expr := p.parseExpr()
			stmt.Init = &ast.ExprStmt{StmtBase: stmtBaseOn(expr.Span()), Expr: expr}
		}
	}
	p.want(TOK_SEMI)

	if !p.has(TOK_SEMI) {
		stmt.Cond = p.parseExpr()
	}
	p.want(TOK_SEMI)

	if !p.has(TOK_RPAREN) {
		expr := p.parseExpr()
		stmt.Iter = &ast.ExprStmt{StmtBase: stmtBaseOn(expr.Span()), Expr: expr}
	}
	p.want(TOK_RPAREN)

	stmt.Body = p.parseStmt()
	stmt.StmtBase = stmtBaseOver(startSpan, stmt.Body.Span())
	return stmt
}

// foreach_stmt := 'foreach' '(' type_expr IDENT 'in' expr ')' stmt ;
func (p *Parser) parseForeachStmt() *ast.ForeachStmt {
	startSpan := p.tok.Span
	p.next()

	p.want(TOK_LPAREN)
	typ := p.parseTypeExpr()
	nameTok := p.want(TOK_IDENT)
	p.want(TOK_IN)
	coll := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseStmt()
	return &ast.ForeachStmt{
		StmtBase:   stmtBaseOver(startSpan, body.Span()),
		VarName:    nameTok.Value,
		VarType:    typ,
		Collection: coll,
		Body:       body,
	}
}

// switch_stmt := 'switch' '(' expr ')' '{' {switch_case} '}' ;
// switch_case := ('case' expr {',' expr} | 'default') ':' {stmt} ;
func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	startSpan := p.tok.Span
	p.next()

	p.want(TOK_LPAREN)
	subject := p.parseExpr()
	p.want(TOK_RPAREN)

	stmt := &ast.SwitchStmt{Subject: subject}

	p.want(TOK_LBRACE)
	for !p.has(TOK_RBRACE) {
		c := &ast.SwitchCase{ASTBase: ast.NewASTBaseOn(p.tok.Span)}

		if p.has(TOK_DEFAULT) {
			p.next()
			c.IsDefault = true
		} else {
			p.want(TOK_CASE)
			for {
				c.Values = append(c.Values, p.parseExpr())
				if !p.has(TOK_COMMA) {
					break
				}
				p.next()
			}
		}
		p.want(TOK_COLON)

		for !p.hasOneOf(TOK_CASE, TOK_DEFAULT, TOK_RBRACE) {
			c.Stmts = append(c.Stmts, p.parseStmt())
		}

		stmt.Cases = append(stmt.Cases, c)
	}
	endTok := p.want(TOK_RBRACE)

	if len(stmt.Cases) == 0 {
		panic(report.Raise(endTok.Span, "switch must have at least one section"))
	}

	stmt.StmtBase = stmtBaseOver(startSpan, endTok.Span)
	return stmt
}

// -----------------------------------------------------------------------------

func stmtBaseOn(span *report.TextSpan) ast.StmtBase {
	return ast.StmtBase{ASTBase: ast.NewASTBaseOn(span)}
}

func stmtBaseOver(start, end *report.TextSpan) ast.StmtBase {
	return ast.StmtBase{ASTBase: ast.NewASTBaseOver(start, end)}
}
