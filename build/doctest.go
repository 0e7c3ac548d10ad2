package build

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DocExample is a fenced sable source block extracted from a markdown
// document, named by its nearest "Example: ..." heading.  The language tour
// under docs/ is kept compiling by a test that type-checks every example.
type DocExample struct {
	Name   string
	Source string
}

// ExtractDocExamples parses a markdown document and collects its ```sable
// fenced code blocks.
func ExtractDocExamples(markdown []byte) ([]DocExample, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(markdown))

	var examples []DocExample
	current := "example"

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, markdown)
			if strings.HasPrefix(heading, "Example: ") {
				current = strings.TrimPrefix(heading, "Example: ")
			}
		case *ast.FencedCodeBlock:
			if string(n.Language(markdown)) != "sable" {
				return ast.WalkContinue, nil
			}

			var sb strings.Builder
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				sb.Write(line.Value(markdown))
			}

			examples = append(examples, DocExample{
				Name:   fmt.Sprintf("%s #%d", current, len(examples)+1),
				Source: sb.String(),
			})
		}

		return ast.WalkContinue, nil
	})

	return examples, err
}

func headingText(n *ast.Heading, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}

	return sb.String()
}
