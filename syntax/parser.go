package syntax

import (
	"bufio"
	"os"

	"sablec/ast"
	"sablec/report"
)

// Parser is the parser for a sable source file.  It is a recursive descent
// parser: all parsing functions assume that they begin with the parser
// centered on the first token of their production and must consume all tokens
// of their production, leaving the parser on the next token.  The parser
// declares classes into the registry as it encounters them but performs no
// symbol lookups.  Parsers are created once per file.
type Parser struct {
	// The absolute path of the file being parsed.
	absPath string

	// The lexer this parser is using to tokenize the source file.
	lexer *Lexer

	// The current token the parser is positioned on.
	tok *Token

	// The most recently consumed token.
	lookbehind *Token

	// The queued lookahead tokens beyond tok, front first.
	ahead []*Token
}

// ParseFile parses a single source file.  It returns the parsed file and
// whether parsing succeeded; a failed parse reports its own diagnostics.
func ParseFile(absPath string) (*ast.SourceFile, bool) {
	f, err := os.Open(absPath)
	if err != nil {
		report.ReportStdError(absPath, err)
		return nil, false
	}
	defer f.Close()

	p := &Parser{absPath: absPath, lexer: NewLexer(bufio.NewReader(f))}

	file := &ast.SourceFile{AbsPath: absPath}
	ok := p.parse(file)
	return file, ok
}

// parse runs the parser over the whole file, catching raised syntax errors.
func (p *Parser) parse(file *ast.SourceFile) (ok bool) {
	defer func() {
		if x := recover(); x != nil {
			if lce, isLocal := x.(*report.LocalCompileError); isLocal {
				report.ReportCompileError(p.absPath, lce.Span, lce.Message)
				ok = false
				return
			}

			panic(x)
		}
	}()

	p.next()
	for !p.has(TOK_EOF) {
		file.Classes = append(file.Classes, p.parseClassDef())
	}

	return true
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.  Lexical errors are raised.
func (p *Parser) next() {
	p.lookbehind = p.tok

	if len(p.ahead) > 0 {
		p.tok = p.ahead[0]
		p.ahead = p.ahead[1:]
		return
	}

	p.tok = p.lexToken()
}

// peek returns the nth token after the current one without consuming
// anything; peek(0) is the token directly after tok.
func (p *Parser) peek(n int) *Token {
	for len(p.ahead) <= n {
		p.ahead = append(p.ahead, p.lexToken())
	}

	return p.ahead[n]
}

func (p *Parser) lexToken() *Token {
	tok, err := p.lexer.NextToken()
	if err != nil {
		if lce, ok := err.(*report.LocalCompileError); ok {
			panic(lce)
		}

		panic(report.Raise(nil, "failed to read source file: %s", err))
	}

	return tok
}

// has returns true if the parser is on a token of a given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns whether the parser's current token kind is one of the
// given kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind, consumes it,
// and returns it.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.reject()
	}

	tok := p.tok
	p.next()
	return tok
}

// reject raises a syntax error on the current token.
func (p *Parser) reject() {
	if p.has(TOK_EOF) {
		panic(report.Raise(p.tok.Span, "unexpected end of file"))
	}

	panic(report.Raise(p.tok.Span, "unexpected token: `%s`", p.tok.Value))
}
