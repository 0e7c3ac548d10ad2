package analysis

import (
	"fmt"
	"io"

	"sablec/ast"
	"sablec/sem"
)

// DumpTypeSets prints the computed destruction sets per class and per method
// for the -typeset flag.
func DumpTypeSets(w io.Writer, files []*ast.SourceFile) {
	for _, file := range files {
		for _, def := range file.Classes {
			c := def.Sym
			fmt.Fprintf(w, "class %s destroys %s\n", c.Name, sem.TypeDestroys(c).Repr())

			for _, md := range def.Members {
				m := md.Member()
				if m == nil {
					continue
				}

				for _, shell := range []*sem.Member{m, m.Getter, m.Setter} {
					if shell == nil || shell.Entry == nil {
						continue
					}

					fmt.Fprintf(w, "  %s.%s destroys %s\n",
						c.Name, shell.Name, sem.MethodDestroys(shell).Repr())
				}
			}
		}
	}
}
