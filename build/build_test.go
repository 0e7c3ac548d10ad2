package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"sablec/analysis"
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
	"sablec/syntax"
	"sablec/walk"
)

func TestExpectedErrorLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sbl")
	src := "class A {\n" +
		"    void F() {\n" +
		"        int x; // error\n" +
		"    }\n" +
		"}\n"
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)

	be.Equal(t, expectedErrorLines(path), []int{3})
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[project]
name = "demo"
toolchain = "clang++"
output = "demo"
includes = ["native.cpp"]
`
	be.Err(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0o644), nil)

	cfg := &Config{}
	be.Err(t, LoadManifest(dir, cfg), nil)
	be.Equal(t, cfg.Toolchain, "clang++")
	be.Equal(t, cfg.OutputName, "demo")
	be.Equal(t, cfg.Includes, []string{"native.cpp"})
}

func TestLoadManifestMissingIsFine(t *testing.T) {
	cfg := &Config{}
	be.Err(t, LoadManifest(t.TempDir(), cfg), nil)
	be.Equal(t, cfg.Toolchain, "")
}

func TestDocExamplesExtract(t *testing.T) {
	md := "# Doc\n\n## Example: greeting\n\n```sable\nclass A {}\n```\n\n```go\nnot sable\n```\n"

	examples, err := ExtractDocExamples([]byte(md))
	be.Err(t, err, nil)
	be.Equal(t, len(examples), 1)
	be.True(t, examples[0].Name != "")
	be.Equal(t, examples[0].Source, "class A {}\n")
}

// TestDocExamplesTypeCheck keeps the language tour compiling: every sable
// fenced block in docs/ must parse and check cleanly.
func TestDocExamplesTypeCheck(t *testing.T) {
	md, err := os.ReadFile(filepath.Join("..", "docs", "tour.md"))
	be.Err(t, err, nil)

	examples, err := ExtractDocExamples(md)
	be.Err(t, err, nil)
	be.True(t, len(examples) > 0)

	for _, ex := range examples {
		report.InitReporter(report.LogLevelSilent)
		report.SetRecording(true)
		sem.ResetRegistry()

		path := filepath.Join(t.TempDir(), "example.sbl")
		be.Err(t, os.WriteFile(path, []byte(ex.Source), 0o644), nil)

		file, ok := syntax.ParseFile(path)
		if !ok {
			t.Fatalf("example %q failed to parse", ex.Name)
		}

		files := []*ast.SourceFile{file}
		walk.Resolve(files)
		walk.WalkFile(file)
		analysis.CheckUses(files)

		if messages := report.RecordedMessages(); len(messages) > 0 {
			t.Fatalf("example %q reported: %v", ex.Name, messages)
		}
	}
}

// TestErrorTestMode runs the whole pipeline in -e mode over a file whose
// markers match its diagnostics.
func TestErrorTestMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sbl")
	src := `class Program {
    static void Main() {
        int x;
        PrintLine(x); // error
    }
}
`
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)

	c := NewCompiler(&Config{ErrorTest: true, Sources: []string{path}})
	be.Equal(t, c.Run(), 0)

	be.Equal(t, report.ReportedLines(path), []int{4})
}
