// Package codegen prints the checked program as a single C++ translation
// unit compatible with the bundled runtime header.
package codegen

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// Options are the flags reflected into the generated translation unit.
type Options struct {
	// Whether runtime ref-count checks are compiled in.
	Safe bool

	// Whether ref-count profiling hooks are compiled in.
	Profile bool

	// Whether the platform C runtime allocator is used instead of the
	// bundled one.
	CRTAlloc bool
}

// Generator prints the target source for a checked program.
type Generator struct {
	w io.Writer

	files []*ast.SourceFile
	opts  Options

	// The verbatim include list accumulated from the command line.
	includes []string

	// The class and method being generated.
	class  *sem.Class
	method *sem.Member

	indent int
}

// Generate writes the whole translation unit.  Emission is purely read-only
// over the checked program.
func Generate(w io.Writer, files []*ast.SourceFile, includes []string, opts Options) {
	g := &Generator{w: w, files: files, includes: includes, opts: opts}

	g.genPrelude()

	classes := g.userClasses()

	// Forward declarations of every non-extern class.
	for _, def := range classes {
		g.printf("class %s;\n", def.Name)
	}
	g.printf("\n")

	// Full declarations in parent-before-child order.
	for _, def := range classes {
		g.genClassDecl(def)
	}

	// Out-of-line definitions.
	for _, def := range classes {
		g.genClassDefs(def)
	}

	g.genEntryPoint()
}

// userClasses collects every parsed class in parent-before-child order,
// stable within a depth level.
func (g *Generator) userClasses() []*ast.ClassDef {
	var defs []*ast.ClassDef
	for _, file := range g.files {
		for _, def := range file.Classes {
			if !def.Extern {
				defs = append(defs, def)
			}
		}
	}

	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].Sym.Depth() < defs[j].Sym.Depth()
	})

	return defs
}

// genPrelude prints the feature macros reflecting the compiler flags and the
// include directives.
func (g *Generator) genPrelude() {
	if g.opts.Safe {
		g.printf("#define SABLE_SAFE 1\n")
	}
	if g.opts.Profile {
		g.printf("#define SABLE_PROFILE 1\n")
	}
	if g.opts.CRTAlloc {
		g.printf("#define SABLE_ALLOC_CRT 1\n")
	} else {
		g.printf("#define SABLE_ALLOC_BUNDLED 1\n")
	}

	g.printf("#include \"sable.h\"\n")
	for _, inc := range g.includes {
		g.printf("#include \"%s\"\n", inc)
	}
	g.printf("\n")
}

// genEntryPoint prints a main delegating to the discovered user Main.
func (g *Generator) genEntryPoint() {
	owner, main := FindMain(g.files)
	if main == nil {
		report.ReportFatal("no static Main method found")
	}

	g.printf("int main(int argc, char **argv) {\n")
	g.printf("    sable::Startup(argc, argv);\n")
	if len(main.Params) == 1 {
		g.printf("    %s::Main(sable::Args(argc, argv));\n", owner.Name)
	} else {
		g.printf("    %s::Main();\n", owner.Name)
	}
	g.printf("    sable::Shutdown();\n")
	g.printf("    return 0;\n")
	g.printf("}\n")
}

// FindMain locates the program entry point: a static method named Main
// taking nothing or a single string array.
func FindMain(files []*ast.SourceFile) (*sem.Class, *sem.Member) {
	for _, file := range files {
		for _, def := range file.Classes {
			for _, m := range def.Sym.Members {
				if m.Kind != sem.MemberMethod || !m.Static || m.Name != "Main" {
					continue
				}

				switch len(m.Params) {
				case 0:
					return def.Sym, m
				case 1:
					if at, ok := m.Params[0].Type.(*sem.ArrayType); ok {
						if _, isStr := at.Elem.(sem.StringType); isStr {
							return def.Sym, m
						}
					}
				}
			}
		}
	}

	return nil, nil
}

// -----------------------------------------------------------------------------

// printf writes formatted output verbatim; it does not apply the current
// indentation.
func (g *Generator) printf(format string, args ...interface{}) {
	fmt.Fprintf(g.w, format, args...)
}

// line writes a whole indented line.
func (g *Generator) line(format string, args ...interface{}) {
	fmt.Fprint(g.w, strings.Repeat("    ", g.indent))
	fmt.Fprintf(g.w, format, args...)
	fmt.Fprint(g.w, "\n")
}

// localName sanitizes a local's name for emission: the hidden locals the
// checker synthesizes carry a leading `$`.
func localName(l *sem.Local) string {
	return strings.ReplaceAll(l.Name, "$", "__")
}
