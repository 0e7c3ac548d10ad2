package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"sablec/analysis"
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
	"sablec/syntax"
	"sablec/walk"
)

// generateSource checks a source string and returns the emitted translation
// unit.
func generateSource(t *testing.T, src string, opts Options) string {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)
	report.SetRecording(true)
	sem.ResetRegistry()

	path := filepath.Join(t.TempDir(), "test.sbl")
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)

	file, ok := syntax.ParseFile(path)
	be.True(t, ok)

	files := []*ast.SourceFile{file}
	walk.Resolve(files)
	walk.WalkFile(file)
	analysis.CheckUses(files)
	analysis.RefCounts(files, false)

	be.Equal(t, len(report.RecordedMessages()), 0)

	var sb strings.Builder
	Generate(&sb, files, nil, opts)
	return sb.String()
}

func TestGenerateHelloWorld(t *testing.T) {
	out := generateSource(t, `
class Program {
    static void Main() {
        PrintLine("hello, world");
    }
}
`, Options{Safe: true})

	be.True(t, strings.Contains(out, "#define SABLE_SAFE 1"))
	be.True(t, strings.Contains(out, "#include \"sable.h\""))
	be.True(t, strings.Contains(out, "class Program;"))
	be.True(t, strings.Contains(out, "class Program : public sable::Plain {"))
	be.True(t, strings.Contains(out, "static void Main();"))
	be.True(t, strings.Contains(out, "sable::PrintLine(sable::Lit(L\"hello, world\"));"))
	be.True(t, strings.Contains(out, "int main(int argc, char **argv)"))
	be.True(t, strings.Contains(out, "Program::Main();"))
}

func TestGenerateHandleShapes(t *testing.T) {
	out := generateSource(t, `
class Node {
    Node ^ owned;
    Node peer;
    string label;
    object boxed;
}

class Program {
    static void Main() {
        Node ^ n = new Node();
        PrintLine(1);
    }
}
`, Options{Safe: true})

	be.True(t, strings.Contains(out, "sable::Own< Node > owned;"))
	be.True(t, strings.Contains(out, "Node * peer;"))
	be.True(t, strings.Contains(out, "sable::Ref< sable::String > label;"))
	be.True(t, strings.Contains(out, "sable::OwnRef< sable::Object > boxed;"))
	be.True(t, strings.Contains(out, "sable::Own< Node > n = new Node();"))
}

func TestGenerateVirtualOnlyWhenNeeded(t *testing.T) {
	out := generateSource(t, `
class Quiet {
    int x;
}

class Program {
    static void Main() {
        PrintLine(1);
    }
}
`, Options{})

	// No conversion or owning allocation demanded a vtable.
	be.True(t, strings.Contains(out, "class Quiet : public sable::Plain {"))
	be.True(t, !strings.Contains(out, "virtual ~Quiet"))
}

func TestGenerateVirtualDestructorWhenOwned(t *testing.T) {
	out := generateSource(t, `
class Held {
}

class Program {
    static void Main() {
        Held ^ h = new Held();
        PrintLine(1);
    }
}
`, Options{})

	// Conversion into an owning wrapper forces a virtual destructor.
	be.True(t, strings.Contains(out, "virtual ~Held();"))
}

func TestGenerateCtorForwarders(t *testing.T) {
	out := generateSource(t, `
class Point {
    int x;

    Point(int px) {
        x = px;
    }

    Point() : this(0) {
    }
}

class Program {
    static void Main() {
        Point ^ p = new Point();
        PrintLine(p.x);
    }
}
`, Options{})

	be.True(t, strings.Contains(out, "void _Init();"))
	be.True(t, strings.Contains(out, "void Point::_Init() {"))
	be.True(t, strings.Contains(out, "void _Construct0(int px);"))
	be.True(t, strings.Contains(out, "_Construct1();"))
	be.True(t, strings.Contains(out, "void Point::_Construct1() {"))
	be.True(t, strings.Contains(out, "_Construct0(0);"))
}

func TestGeneratePoolHooks(t *testing.T) {
	out := generateSource(t, `
class Ring {
    Ring other;

    static void Main() {
        Pool ^ pool = new Pool();
        Ring a = new Ring() in pool;
        Ring b = new Ring() in pool;
        a.other = b;
        b.other = a;
    }
}
`, Options{Safe: true})

	be.True(t, strings.Contains(out, "static void __DestroyPass1(void *p);"))
	be.True(t, strings.Contains(out, "sable::Pool::StashVTable"))
	be.True(t, strings.Contains(out, "Ring::__DestroyPass1, Ring::__DestroyPass2))"))
}

func TestGenerateParentBeforeChild(t *testing.T) {
	out := generateSource(t, `
class Derived : Base {
}

class Base {
}

class Program {
    static void Main() {
        PrintLine(1);
    }
}
`, Options{})

	baseAt := strings.Index(out, "class Base : public")
	derivedAt := strings.Index(out, "class Derived : public Base")
	be.True(t, baseAt >= 0)
	be.True(t, derivedAt >= 0)
	be.True(t, baseAt < derivedAt)
}
