package analysis

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
	"sablec/walk"
)

// analyzeSource runs the full front end and the CFG analyses over a source
// string, returning the checked files and all recorded diagnostics.
func analyzeSource(t *testing.T, src string, pessimistic bool) ([]*ast.SourceFile, []string) {
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

	CheckUses(files)
	RefCounts(files, pessimistic)

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

// findLocal finds a named local of the first matching method.
func findLocal(files []*ast.SourceFile, name string) *sem.Local {
	for _, file := range files {
		for _, def := range file.Classes {
			for _, md := range def.Members {
				m := md.Member()
				if m == nil {
					continue
				}

				for _, l := range m.Locals {
					if l.Name == name {
						return l
					}
				}
			}
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

func TestUseBeforeInit(t *testing.T) {
	_, messages := analyzeSource(t, `
class Program {
    static void Main() {
        int x;
        PrintLine(x);
    }
}
`, false)
	be.True(t, anyContains(messages, "may be used before it is assigned"))
}

func TestUseAfterBranchAssign(t *testing.T) {
	// Assignment on only one branch leaves a path on which the local is
	// unassigned.
	_, messages := analyzeSource(t, `
class Program {
    static void Main() {
        int x;
        if (1 < 2) {
            x = 3;
        }
        PrintLine(x);
    }
}
`, false)
	be.True(t, anyContains(messages, "may be used before it is assigned"))
}

func TestAssignedOnAllPaths(t *testing.T) {
	_, messages := analyzeSource(t, `
class Program {
    static void Main() {
        int x;
        if (1 < 2) {
            x = 3;
        } else {
            x = 4;
        }
        PrintLine(x);
    }
}
`, false)
	be.Equal(t, len(messages), 0)
}

func TestDoubleTakeRejected(t *testing.T) {
	_, messages := analyzeSource(t, `
class Node {
}

class Holder {
    Node ^ child;

    Node ^ Steal() {
        Node ^ first = take child;
        Node ^ second = take child;
        return take second;
    }
}

class Program {
    static void Main() {
    }
}
`, false)
	be.True(t, anyContains(messages, "can't transfer ownership"))
}

func TestTakeThenReassignOk(t *testing.T) {
	_, messages := analyzeSource(t, `
class Node {
}

class Program {
    static void Main() {
        Node ^ n = new Node();
        Node ^ m = take n;
        n = new Node();
        Node ^ again = take n;
    }
}
`, false)
	be.Equal(t, len(messages), 0)
}

func TestOutParamMustBeAssigned(t *testing.T) {
	_, messages := analyzeSource(t, `
class Program {
    static void Maybe(bool b, out int v) {
        if (b) {
            v = 1;
        }
    }

    static void Main() {
    }
}
`, false)
	be.True(t, anyContains(messages, "out parameter"))
}

func TestOutParamAssignedEverywhere(t *testing.T) {
	_, messages := analyzeSource(t, `
class Program {
    static void Always(bool b, out int v) {
        if (b) {
            v = 1;
            return;
        }
        v = 2;
    }

    static void Main() {
    }
}
`, false)
	be.Equal(t, len(messages), 0)
}

// -----------------------------------------------------------------------------

func TestRefCountNeededAcrossDestroy(t *testing.T) {
	files, messages := analyzeSource(t, `
class Node {
}

class Program {
    static void Churn() {
        Node ^ scratch = new Node();
    }

    static void Main() {
        Node ^ kept = new Node();
        Churn();
        PrintLine(1);
    }
}
`, false)
	be.Equal(t, len(messages), 0)

	// Churn's scope end destroys a Node, so the binding of kept is live
	// across a point that can destroy its type.
	kept := findLocal(files, "kept")
	be.True(t, kept != nil)
	be.True(t, kept.NeedsRef)
}

func TestRefCountNotNeededWithoutDestroy(t *testing.T) {
	files, messages := analyzeSource(t, `
class Node {
}

class Program {
    static void Quiet() {
        int x = 1;
        PrintLine(x);
    }

    static void Main() {
        Node ^ kept = new Node();
        Quiet();
        PrintLine(1);
    }
}
`, false)
	be.Equal(t, len(messages), 0)

	kept := findLocal(files, "kept")
	be.True(t, kept != nil)
	be.True(t, !kept.NeedsRef)
}

func TestRefCountPessimisticFlagsEverything(t *testing.T) {
	files, _ := analyzeSource(t, `
class Node {
}

class Program {
    static void Main() {
        Node ^ kept = new Node();
    }
}
`, true)

	kept := findLocal(files, "kept")
	be.True(t, kept.NeedsRef)
}

func TestRootObjectAlwaysFlagged(t *testing.T) {
	files, _ := analyzeSource(t, `
class Program {
    static void Main() {
        object o = (object)"s";
        PrintLine(1);
    }
}
`, false)

	o := findLocal(files, "o")
	be.True(t, o != nil)
	be.True(t, o.NeedsRef)
}

func TestTypeSetDump(t *testing.T) {
	files, _ := analyzeSource(t, `
class Node {
    Node ^ next;
}

class Program {
    static void Main() {
        Node ^ n = new Node();
    }
}
`, false)

	var sb strings.Builder
	DumpTypeSets(&sb, files)
	be.True(t, strings.Contains(sb.String(), "class Node destroys {Node}"))
	be.True(t, strings.Contains(sb.String(), "Program.Main destroys"))
}
