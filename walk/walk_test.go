package walk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"sablec/ast"
	"sablec/report"
	"sablec/sem"
	"sablec/syntax"
)

// checkSource parses, resolves, and walks a source string, returning the
// checked files and the recorded diagnostic messages.
func checkSource(t *testing.T, src string) ([]*ast.SourceFile, []string) {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)
	report.SetRecording(true)
	sem.ResetRegistry()

	path := filepath.Join(t.TempDir(), "test.sbl")
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)

	file, ok := syntax.ParseFile(path)
	be.True(t, ok)

	files := []*ast.SourceFile{file}
	Resolve(files)
	WalkFile(file)

	return files, report.RecordedMessages()
}

func anyContains(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}

	return false
}

func TestWalkCleanProgram(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static void Main() {
        int x = 1;
        int y = x + 2;
        PrintLine(y);
    }
}
`)
	be.Equal(t, len(messages), 0)
}

func TestWalkUndefinedSymbol(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static void Main() {
        PrintLine(missing);
    }
}
`)
	be.True(t, anyContains(messages, "undefined symbol"))
}

func TestWalkBadConversion(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static void Main() {
        int x = "text";
    }
}
`)
	be.True(t, anyContains(messages, "cannot convert"))
}

func TestWalkMissingReturn(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static int Get(bool b) {
        if (b) {
            return 1;
        }
    }

    static void Main() {
    }
}
`)
	be.True(t, anyContains(messages, "not all code paths return a value"))
}

func TestWalkAllPathsReturn(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static int Get(bool b) {
        if (b) {
            return 1;
        } else {
            return 2;
        }
    }

    static void Main() {
    }
}
`)
	be.Equal(t, len(messages), 0)
}

func TestWalkSwitchFallthrough(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static void Main() {
        int x = 1;
        switch (x) {
        case 1:
            x = 2;
        default:
            break;
        }
    }
}
`)
	be.True(t, anyContains(messages, "switch section must end"))
}

func TestWalkAbstractInstantiation(t *testing.T) {
	_, messages := checkSource(t, `
abstract class Shape {
    abstract int Sides();
}

class Program {
    static void Main() {
        Shape ^ s = new Shape();
    }
}
`)
	be.True(t, anyContains(messages, "cannot instantiate abstract class"))
}

func TestWalkMissingOverride(t *testing.T) {
	_, messages := checkSource(t, `
abstract class Shape {
    abstract int Sides();
}

class Circle : Shape {
}

class Program {
    static void Main() {
    }
}
`)
	be.True(t, anyContains(messages, "does not override abstract method"))
}

func TestWalkOverrideLinks(t *testing.T) {
	files, messages := checkSource(t, `
abstract class Shape {
    abstract int Sides();
}

class Square : Shape {
    override int Sides() { return 4; }
}

class Program {
    static void Main() {
    }
}
`)
	be.Equal(t, len(messages), 0)

	shape, _ := sem.LookupClass("Shape")
	declared, status := sem.LookupMember(shape, sem.MemberMethod, "Sides", nil, nil, false)
	be.Equal(t, status, sem.LookupFound)
	be.Equal(t, len(declared.OverriddenBy), 1)
	be.True(t, shape.VirtualNeeded)
	_ = files
}

func TestWalkRefOutArgs(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static void Split(int v, out int hi, out int lo) {
        hi = v / 256;
        lo = v % 256;
    }

    static void Main() {
        int hi;
        int lo;
        Split(1000, out hi, out lo);
        PrintLine(hi + lo);
    }
}
`)
	be.Equal(t, len(messages), 0)
}

func TestWalkOwningParamIsNeverRefOrOut(t *testing.T) {
	_, messages := checkSource(t, `
class Node {
}

class Program {
    static void Touch(ref Node ^ n) {
    }

    static void Main() {
    }
}
`)
	be.True(t, anyContains(messages, "ref and out parameters cannot be owning"))
}

func TestWalkForeachOverArray(t *testing.T) {
	_, messages := checkSource(t, `
class Program {
    static void Main() {
        int[] ^ xs = new int[3];
        int total = 0;
        foreach (int x in xs) {
            total += x;
        }
        PrintLine(total);
    }
}
`)
	be.Equal(t, len(messages), 0)
}

func TestWalkCFGShape(t *testing.T) {
	files, messages := checkSource(t, `
class Program {
    static void Main() {
        int x = 0;
        while (x < 10) {
            x = x + 1;
        }
    }
}
`)
	be.Equal(t, len(messages), 0)

	main := files[0].Classes[0].Members[0].Member()
	be.True(t, main.Entry != nil)
	be.True(t, main.Exit != nil)
	be.True(t, len(main.Points) > 3)

	// The exit joins the single fall-through path.
	be.Equal(t, len(main.Exit.Preds()), 1)
}
