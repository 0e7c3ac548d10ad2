package syntax

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

func parseSource(t *testing.T, src string) (*ast.SourceFile, bool) {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)
	report.SetRecording(true)
	sem.ResetRegistry()

	path := filepath.Join(t.TempDir(), "test.sbl")
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)

	return ParseFile(path)
}

func TestParseClassWithMembers(t *testing.T) {
	file, ok := parseSource(t, `
abstract class Shape {
    int sides;
    const int MaxSides = 64;

    abstract double Area();

    int Sides {
        get { return sides; }
    }
}
`)
	be.True(t, ok)
	be.Equal(t, len(file.Classes), 1)

	def := file.Classes[0]
	be.Equal(t, def.Name, "Shape")
	be.True(t, def.Abstract)
	be.Equal(t, len(def.Members), 4)

	field, isField := def.Members[0].(*ast.FieldDef)
	be.True(t, isField)
	be.Equal(t, field.Name, "sides")

	constant, isConst := def.Members[1].(*ast.FieldDef)
	be.True(t, isConst)
	be.True(t, constant.Const)
	be.True(t, constant.Init != nil)

	method, isMethod := def.Members[2].(*ast.MethodDef)
	be.True(t, isMethod)
	be.True(t, method.Abstract)
	be.True(t, method.Body == nil)

	prop, isProp := def.Members[3].(*ast.PropertyDef)
	be.True(t, isProp)
	be.True(t, prop.GetBody != nil)
	be.True(t, prop.SetBody == nil)
}

func TestParseCtorDelegation(t *testing.T) {
	file, ok := parseSource(t, `
class Point {
    int x;
    int y;

    Point(int x, int y) {
        this.x = x;
        this.y = y;
    }

    Point() : this(0, 0) {
    }
}
`)
	be.True(t, ok)

	ctor, isCtor := file.Classes[0].Members[3].(*ast.CtorDef)
	be.True(t, isCtor)
	be.Equal(t, ctor.Delegate, ast.DelegateThis)
	be.Equal(t, len(ctor.DelegateArgs), 2)
}

func TestParseOwningTypes(t *testing.T) {
	file, ok := parseSource(t, `
class Node {
    Node ^ next;
    int[] ^ values;
}
`)
	be.True(t, ok)

	next := file.Classes[0].Members[0].(*ast.FieldDef)
	_, isOwning := next.Type.(*ast.OwningTypeExpr)
	be.True(t, isOwning)

	values := file.Classes[0].Members[1].(*ast.FieldDef)
	owning, isOwningArr := values.Type.(*ast.OwningTypeExpr)
	be.True(t, isOwningArr)
	_, isArray := owning.Elem.(*ast.ArrayTypeExpr)
	be.True(t, isArray)
}

func TestParseStatements(t *testing.T) {
	file, ok := parseSource(t, `
class Program {
    static void Main() {
        int total = 0;
        for (int i = 0; i < 10; i = i + 1) {
            if (i % 2 == 0) {
                continue;
            }
            total += i;
        }

        while (total > 0) {
            total = total - 1;
        }

        do {
            total = total + 1;
        } while (total < 5);

        switch (total) {
        case 5:
            break;
        default:
            break;
        }

        foreach (char c in "abc") {
            Print(c);
        }
    }
}
`)
	be.True(t, ok)

	method := file.Classes[0].Members[0].(*ast.MethodDef)
	be.Equal(t, len(method.Body.Stmts), 6)
}

func TestParseCastVsParen(t *testing.T) {
	file, ok := parseSource(t, `
class Program {
    static void Main() {
        double d = (double)3;
        int n = (3 + 4) * 2;
        object o = (object)"s";
    }
}
`)
	be.True(t, ok)

	method := file.Classes[0].Members[0].(*ast.MethodDef)

	first := method.Body.Stmts[0].(*ast.VarDecl)
	_, isCast := first.Init.(*ast.CastExpr)
	be.True(t, isCast)

	second := method.Body.Stmts[1].(*ast.VarDecl)
	_, isBinary := second.Init.(*ast.BinaryExpr)
	be.True(t, isBinary)
}

func TestParseNewForms(t *testing.T) {
	file, ok := parseSource(t, `
class Program {
    static void Main() {
        Program ^ p = new Program();
        int[] ^ xs = new int[8];
        Pool ^ pool = new Pool();
        Program q = new Program() in pool;
    }
}
`)
	be.True(t, ok)

	method := file.Classes[0].Members[0].(*ast.MethodDef)

	alloc := method.Body.Stmts[3].(*ast.VarDecl).Init.(*ast.NewExpr)
	be.True(t, alloc.Pool != nil)

	arr := method.Body.Stmts[1].(*ast.VarDecl).Init
	_, isArr := arr.(*ast.NewArrayExpr)
	be.True(t, isArr)
}

func TestParseErrorReported(t *testing.T) {
	_, ok := parseSource(t, `
class Program {
    static void Main() {
        int x = ;
    }
}
`)
	be.True(t, !ok)
}
