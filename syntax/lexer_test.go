package syntax

import (
	"bufio"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func lexAll(t *testing.T, src string) []*Token {
	t.Helper()

	l := NewLexer(bufio.NewReader(strings.NewReader(src)))

	var toks []*Token
	for {
		tok, err := l.NextToken()
		be.Err(t, err, nil)

		toks = append(toks, tok)
		if tok.Kind == TOK_EOF {
			return toks
		}
	}
}

func kinds(toks []*Token) []int {
	ks := make([]int, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}

	return ks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "class Foo take x")
	be.Equal(t, kinds(toks), []int{TOK_CLASS, TOK_IDENT, TOK_TAKE, TOK_IDENT, TOK_EOF})
	be.Equal(t, toks[1].Value, "Foo")
}

func TestLexOperators(t *testing.T) {
	toks := lexAll(t, "a <= b << c && d += e")
	be.Equal(t, kinds(toks), []int{
		TOK_IDENT, TOK_LTEQ, TOK_IDENT, TOK_LSHIFT, TOK_IDENT,
		TOK_LAND, TOK_IDENT, TOK_PLUSASSIGN, TOK_IDENT, TOK_EOF,
	})
}

func TestLexOwningCaret(t *testing.T) {
	toks := lexAll(t, "Node ^ next")
	be.Equal(t, kinds(toks), []int{TOK_IDENT, TOK_CARET, TOK_IDENT, TOK_EOF})
}

func TestLexNumericLiterals(t *testing.T) {
	toks := lexAll(t, "42 3.25 1e3 2.5f")
	be.Equal(t, kinds(toks), []int{TOK_INTLIT, TOK_DOUBLELIT, TOK_DOUBLELIT, TOK_FLOATLIT, TOK_EOF})
	be.Equal(t, toks[0].Value, "42")
	be.Equal(t, toks[3].Value, "2.5")
}

func TestLexStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\tb\n"`)
	be.Equal(t, toks[0].Kind, TOK_STRINGLIT)
	be.Equal(t, toks[0].Value, "a\tb\n")
}

func TestLexCharLiteral(t *testing.T) {
	toks := lexAll(t, `'x' '\n'`)
	be.Equal(t, kinds(toks), []int{TOK_CHARLIT, TOK_CHARLIT, TOK_EOF})
	be.Equal(t, toks[0].Value, "x")
	be.Equal(t, toks[1].Value, "\n")
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, "a // line comment\nb /* block */ c / d")
	be.Equal(t, kinds(toks), []int{
		TOK_IDENT, TOK_IDENT, TOK_IDENT, TOK_DIV, TOK_IDENT, TOK_EOF,
	})
}

func TestLexSpans(t *testing.T) {
	toks := lexAll(t, "ab\n  cd")
	be.Equal(t, toks[1].Span.StartLine, 1)
	be.Equal(t, toks[1].Span.StartCol, 2)
}

func TestLexUnclosedString(t *testing.T) {
	l := NewLexer(bufio.NewReader(strings.NewReader(`"abc`)))
	_, err := l.NextToken()
	be.True(t, err != nil)
}
