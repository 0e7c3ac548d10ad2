package syntax

import (
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// class_def := {'public' | 'abstract' | 'extern'} 'class' IDENT [':' IDENT]
//              '{' {member} '}' ;
//
// The class is declared into the registry immediately so that later files may
// reference it by name during resolution.
func (p *Parser) parseClassDef() *ast.ClassDef {
	startSpan := p.tok.Span

	def := &ast.ClassDef{}
	for {
		switch p.tok.Kind {
		case TOK_PUBLIC:
			def.Public = true
		case TOK_ABSTRACT:
			def.Abstract = true
		case TOK_EXTERN:
			def.Extern = true
		default:
			goto attrsDone
		}

		p.next()
	}

attrsDone:
	p.want(TOK_CLASS)
	nameTok := p.want(TOK_IDENT)
	def.Name = nameTok.Value

	if p.has(TOK_COLON) {
		p.next()
		def.ParentName = p.want(TOK_IDENT).Value
	}

	def.Sym = &sem.Class{
		Name:     def.Name,
		File:     p.absPath,
		Span:     nameTok.Span,
		Abstract: def.Abstract,
		Extern:   def.Extern,
		Public:   def.Public,
	}

	if !sem.DeclareClass(def.Sym) {
		report.ReportCompileError(p.absPath, nameTok.Span, "multiple classes named `%s`", def.Name)
	}

	p.want(TOK_LBRACE)
	for !p.has(TOK_RBRACE) {
		def.Members = append(def.Members, p.parseMember(def))
	}
	endTok := p.want(TOK_RBRACE)

	def.ASTBase = ast.NewASTBaseOver(startSpan, endTok.Span)
	return def
}

// -----------------------------------------------------------------------------

// member := {attr} (ctor_def | indexer_def | method_def | property_def
//                   | field_def) ;
// attr := 'public' | 'private' | 'protected' | 'static' | 'const'
//         | 'abstract' | 'override' | 'extern' ;
func (p *Parser) parseMember(class *ast.ClassDef) ast.MemberDef {
	startSpan := p.tok.Span

	base := ast.MemberBase{ASTBase: ast.NewASTBaseOn(startSpan)}
	var abstract, override, extern bool
	for {
		switch p.tok.Kind {
		case TOK_PUBLIC:
			base.Access = sem.AccessPublic
		case TOK_PRIVATE:
			base.Access = sem.AccessPrivate
		case TOK_PROTECTED:
			base.Access = sem.AccessProtected
		case TOK_STATIC:
			base.Static = true
		case TOK_CONST:
			base.Const = true
		case TOK_ABSTRACT:
			abstract = true
		case TOK_OVERRIDE:
			override = true
		case TOK_EXTERN:
			extern = true
		default:
			goto attrsDone
		}

		p.next()
	}

attrsDone:
	// A constructor is the class name directly followed by an argument list.
	if p.has(TOK_IDENT) && p.tok.Value == class.Name && p.peek(0).Kind == TOK_LPAREN {
		return p.parseCtorDef(base)
	}

	ret := p.parseTypeExpr()

	// An indexer is declared on `this`.
	if p.has(TOK_THIS) {
		p.next()
		def := &ast.IndexerDef{MemberBase: base, Type: ret}
		p.want(TOK_LBRACKET)
		def.Param = p.parseParam()
		p.want(TOK_RBRACKET)
		def.GetBody, def.SetBody = p.parseAccessors(extern)
		return def
	}

	nameTok := p.want(TOK_IDENT)

	switch p.tok.Kind {
	case TOK_LPAREN:
		def := &ast.MethodDef{
			MemberBase: base,
			Name:       nameTok.Value,
			Ret:        ret,
			Abstract:   abstract,
			Override:   override,
		}

		def.Params = p.parseParams()

		if abstract || extern {
			p.want(TOK_SEMI)
		} else {
			def.Body = p.parseBlock()
		}

		return def
	case TOK_LBRACE:
		def := &ast.PropertyDef{MemberBase: base, Name: nameTok.Value, Type: ret}
		def.GetBody, def.SetBody = p.parseAccessors(extern)
		return def
	default:
		def := &ast.FieldDef{MemberBase: base, Name: nameTok.Value, Type: ret}

		if p.has(TOK_ASSIGN) {
			p.next()
			def.Init = p.parseExpr()
		}

		p.want(TOK_SEMI)
		return def
	}
}

// ctor_def := IDENT '(' params ')' [':' ('this' | 'base') '(' args ')']
//             block ;
func (p *Parser) parseCtorDef(base ast.MemberBase) *ast.CtorDef {
	p.next()

	def := &ast.CtorDef{MemberBase: base}
	def.Params = p.parseParams()

	if p.has(TOK_COLON) {
		p.next()

		if p.has(TOK_THIS) {
			def.Delegate = ast.DelegateThis
		} else if p.has(TOK_BASE) {
			def.Delegate = ast.DelegateBase
		} else {
			p.reject()
		}
		p.next()

		p.want(TOK_LPAREN)
		for !p.has(TOK_RPAREN) {
			if len(def.DelegateArgs) > 0 {
				p.want(TOK_COMMA)
			}

			def.DelegateArgs = append(def.DelegateArgs, p.parseExpr())
		}
		p.next()
	}

	def.Body = p.parseBlock()
	return def
}

// accessors := '{' ('get' accessor_body ['set' accessor_body]
//                  | 'set' accessor_body) '}' ;
// accessor_body := block | ';' ;
func (p *Parser) parseAccessors(extern bool) (*ast.Block, *ast.Block) {
	p.want(TOK_LBRACE)

	var getBody, setBody *ast.Block
	for !p.has(TOK_RBRACE) {
		var isGet bool
		switch p.tok.Kind {
		case TOK_GET:
			isGet = true
		case TOK_SET:
		default:
			p.reject()
		}
		p.next()

		var body *ast.Block
		if extern {
			p.want(TOK_SEMI)
		} else {
			body = p.parseBlock()
		}

		if isGet {
			getBody = body
		} else {
			setBody = body
		}
	}
	p.next()

	return getBody, setBody
}

// -----------------------------------------------------------------------------

// params := '(' [param {',' param}] ')' ;
func (p *Parser) parseParams() []*ast.ParamDef {
	p.want(TOK_LPAREN)

	var params []*ast.ParamDef
	for !p.has(TOK_RPAREN) {
		if len(params) > 0 {
			p.want(TOK_COMMA)
		}

		params = append(params, p.parseParam())
	}
	p.next()

	return params
}

// param := ['ref' | 'out'] type_expr IDENT ;
func (p *Parser) parseParam() *ast.ParamDef {
	startSpan := p.tok.Span

	mode := sem.ParamIn
	if p.has(TOK_REF) {
		mode = sem.ParamRef
		p.next()
	} else if p.has(TOK_OUT) {
		mode = sem.ParamOut
		p.next()
	}

	typ := p.parseTypeExpr()
	nameTok := p.want(TOK_IDENT)

	return &ast.ParamDef{
		ASTBase: ast.NewASTBaseOver(startSpan, nameTok.Span),
		Name:    nameTok.Value,
		Type:    typ,
		Mode:    mode,
	}
}

// -----------------------------------------------------------------------------

// type_expr := type_base {'[' ']' | '^'} ;
// type_base := 'void' | 'bool' | 'char' | 'int' | 'float' | 'double'
//              | 'string' | IDENT ;
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	startSpan := p.tok.Span

	var base ast.TypeExpr
	switch p.tok.Kind {
	case TOK_VOID:
		base = p.primType(sem.VoidType{})
	case TOK_BOOL:
		base = p.primType(sem.SimpleBool)
	case TOK_CHAR:
		base = p.primType(sem.SimpleChar)
	case TOK_INT:
		base = p.primType(sem.SimpleInt)
	case TOK_FLOAT:
		base = p.primType(sem.SimpleFloat)
	case TOK_DOUBLE:
		base = p.primType(sem.SimpleDouble)
	case TOK_STRING:
		base = p.primType(sem.StringType{})
	case TOK_IDENT:
		base = &ast.NamedTypeExpr{ASTBase: ast.NewASTBaseOn(p.tok.Span), Name: p.tok.Value}
		p.next()
	default:
		p.reject()
	}

	for {
		if p.has(TOK_LBRACKET) && p.peek(0).Kind == TOK_RBRACKET {
			p.next()
			endTok := p.want(TOK_RBRACKET)
			base = &ast.ArrayTypeExpr{ASTBase: ast.NewASTBaseOver(startSpan, endTok.Span), Elem: base}
		} else if p.has(TOK_CARET) {
			endTok := p.tok
			p.next()
			base = &ast.OwningTypeExpr{ASTBase: ast.NewASTBaseOver(startSpan, endTok.Span), Elem: base}
		} else {
			return base
		}
	}
}

func (p *Parser) primType(t sem.Type) ast.TypeExpr {
	te := &ast.PrimTypeExpr{ASTBase: ast.NewASTBaseOn(p.tok.Span), T: t}
	p.next()
	return te
}
