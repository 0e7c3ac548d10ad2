package syntax

import (
	"bufio"
	"io"
	"strings"

	"sablec/report"
)

// Lexer is responsible for tokenizing a source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source reader.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
	}
}

// NextToken retrieves the next token from the input file.  If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok, err := l.lexCommentOrDiv(); tok != nil || err != nil {
				return tok, err
			}
		case '\'':
			return l.lexCharLit()
		case '"':
			return l.lexStringLit()
		default:
			if isDecimalDigit(c) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation or
// operator token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division is handled with comment logic.
	"%": TOK_MOD,

	"&":  TOK_AMP,
	"|":  TOK_PIPE,
	"^":  TOK_CARET,
	"~":  TOK_COMPL,
	"<<": TOK_LSHIFT,
	">>": TOK_RSHIFT,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"=":  TOK_ASSIGN,
	"+=": TOK_PLUSASSIGN,
	"-=": TOK_MINUSASSIGN,
	"*=": TOK_STARASSIGN,
	"%=": TOK_MODASSIGN,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	"{": TOK_LBRACE,
	"}": TOK_RBRACE,
	"[": TOK_LBRACKET,
	"]": TOK_RBRACKET,
	",": TOK_COMMA,
	".": TOK_DOT,
	";": TOK_SEMI,
	":": TOK_COLON,
	"?": TOK_QUESTION,
}

// lexPunctOrOper lexes a punctuation or operator symbol.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return nil, report.Raise(l.getSpan(), "unknown rune")
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == -1 {
			break
		}

		if _kind, ok := symbolPatterns[l.tokBuff.String()+string(rune(c))]; ok {
			l.eat()
			kind = _kind
		} else {
			break
		}
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token
// kind.
var keywordPatterns = map[string]int{
	"class": TOK_CLASS,

	"public":    TOK_PUBLIC,
	"private":   TOK_PRIVATE,
	"protected": TOK_PROTECTED,
	"static":    TOK_STATIC,
	"const":     TOK_CONST,
	"abstract":  TOK_ABSTRACT,
	"extern":    TOK_EXTERN,
	"override":  TOK_OVERRIDE,

	"get": TOK_GET,
	"set": TOK_SET,

	"ref": TOK_REF,
	"out": TOK_OUT,

	"if":       TOK_IF,
	"else":     TOK_ELSE,
	"while":    TOK_WHILE,
	"do":       TOK_DO,
	"for":      TOK_FOR,
	"foreach":  TOK_FOREACH,
	"in":       TOK_IN,
	"switch":   TOK_SWITCH,
	"case":     TOK_CASE,
	"default":  TOK_DEFAULT,
	"break":    TOK_BREAK,
	"continue": TOK_CONTINUE,
	"return":   TOK_RETURN,

	"new":   TOK_NEW,
	"take":  TOK_TAKE,
	"is":    TOK_IS,
	"null":  TOK_NULL,
	"true":  TOK_TRUE,
	"false": TOK_FALSE,
	"this":  TOK_THIS,
	"base":  TOK_BASE,

	"void":   TOK_VOID,
	"bool":   TOK_BOOL,
	"char":   TOK_CHAR,
	"int":    TOK_INT,
	"float":  TOK_FLOAT,
	"double": TOK_DOUBLE,
	"string": TOK_STRING,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	kind := TOK_IDENT
	if _kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = _kind
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes an integer or floating-point literal.  A literal with a
// decimal point or an exponent is a double; an `f` suffix makes it a float.
func (l *Lexer) lexNumericLit() (*Token, error) {
	l.mark()
	l.eat()

	var isFloating, hasExp, expectSign, mustHaveDigit bool

numLexLoop:
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '.':
			if isFloating {
				break numLexLoop
			}

			l.eat()
			isFloating = true
			mustHaveDigit = true
			continue
		case 'e', 'E':
			if mustHaveDigit || hasExp {
				break numLexLoop
			}

			l.eat()
			isFloating = true
			hasExp = true
			expectSign = true
			mustHaveDigit = true
			continue
		case '-', '+':
			if mustHaveDigit || !expectSign {
				break numLexLoop
			}

			l.eat()
			expectSign = false
			continue
		case 'f':
			l.skip()

			if mustHaveDigit {
				return nil, report.Raise(l.getSpan(), "incomplete numeric literal")
			}

			return l.makeToken(TOK_FLOATLIT), nil
		default:
			if isDecimalDigit(c) {
				l.eat()
				expectSign = false
				mustHaveDigit = false
			} else {
				break numLexLoop
			}
		}
	}

	if mustHaveDigit {
		return nil, report.Raise(l.getSpan(), "incomplete numeric literal")
	}

	if isFloating {
		return l.makeToken(TOK_DOUBLELIT), nil
	}

	return l.makeToken(TOK_INTLIT), nil
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a string literal, decoding escape sequences into the
// token value.
func (l *Lexer) lexStringLit() (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(l.getSpan(), "unclosed string literal")
		case '"':
			l.skip()
			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			l.skip()
			if err = l.eatEscapeSequence(); err != nil {
				return nil, err
			}
		case '\n':
			return nil, report.Raise(l.getSpan(), "string cannot contain a newline")
		default:
			l.eat()
		}
	}
}

// lexCharLit lexes a character literal.
func (l *Lexer) lexCharLit() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	switch c {
	case -1:
		return nil, report.Raise(l.getSpan(), "unclosed character literal")
	case '\'':
		return nil, report.Raise(l.getSpan(), "empty character literal")
	case '\n':
		return nil, report.Raise(l.getSpan(), "character cannot contain a newline")
	case '\\':
		l.skip()
		if err = l.eatEscapeSequence(); err != nil {
			return nil, err
		}
	default:
		l.eat()
	}

	c, err = l.skip()
	if err != nil {
		return nil, err
	} else if c == -1 {
		return nil, report.Raise(l.getSpan(), "unclosed character literal")
	} else if c != '\'' {
		return nil, report.Raise(l.getSpan(), "character literal cannot contain multiple characters")
	}

	return l.makeToken(TOK_CHARLIT), nil
}

// eatEscapeSequence consumes an escape sequence, writing the decoded rune
// into the token buffer.  This assumes the leading `\` has been skipped.
func (l *Lexer) eatEscapeSequence() error {
	c, err := l.skip()
	if err != nil {
		return err
	}

	switch c {
	case -1:
		return report.Raise(l.getSpan(), "expected escape sequence not end of file")
	case 'n':
		l.tokBuff.WriteRune('\n')
	case 't':
		l.tokBuff.WriteRune('\t')
	case 'r':
		l.tokBuff.WriteRune('\r')
	case '0':
		l.tokBuff.WriteRune(0)
	case '\'', '\\', '"':
		l.tokBuff.WriteRune(rune(c))
	default:
		return report.Raise(l.getSpan(), "unknown escape sequence: `\\%c`", c)
	}

	return nil
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a comment or a division token.
func (l *Lexer) lexCommentOrDiv() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	switch c {
	case '/':
		for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
		}
	case '*':
		for {
			c, err = l.skip()
			if err != nil || c == -1 {
				break
			}

			if c == '*' {
				c, err = l.skip()
				if err != nil || c == -1 || c == '/' {
					break
				}
			}
		}
	case '=':
		l.skip()
		tok := l.makeToken(TOK_DIVASSIGN)
		tok.Value = "/="
		return tok, nil
	default:
		tok := l.makeToken(TOK_DIV)
		tok.Value = "/"
		return tok, nil
	}

	return nil, err
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// getSpan returns the span from the marked position to the current position.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col - 1,
	}
}

// makeToken creates a new token of the given kind from the token buffer and
// the marked position, resetting the buffer.
func (l *Lexer) makeToken(kind int) *Token {
	tok := &Token{Kind: kind, Value: l.tokBuff.String(), Span: l.getSpan()}
	l.tokBuff.Reset()
	return tok
}

// peek returns the next character of input without consuming it, or -1 at the
// end of input.
func (l *Lexer) peek() (int, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.file.UnreadRune()
	return int(c), nil
}

// eat consumes the next character of input into the token buffer.
func (l *Lexer) eat() (int, error) {
	c, err := l.advance()
	if err == nil && c != -1 {
		l.tokBuff.WriteRune(rune(c))
	}

	return c, err
}

// skip consumes the next character of input without recording it.
func (l *Lexer) skip() (int, error) {
	return l.advance()
}

// advance moves the lexer forward one character, maintaining the line and
// column position.
func (l *Lexer) advance() (int, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if c == '\n' {
		l.line++
		l.col = 0
	} else if c == '\t' {
		l.col += 4
	} else {
		l.col++
	}

	return int(c), nil
}

// -----------------------------------------------------------------------------

func isDecimalDigit(c int) bool {
	return '0' <= c && c <= '9'
}

func isFirstIdentChar(c int) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}
