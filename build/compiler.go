// Package build orchestrates the compilation phases: parse, resolve, check,
// analyze, emit, and the target toolchain invocation.
package build

import (
	"os"
	"path/filepath"
	"strings"

	"sablec/analysis"
	"sablec/ast"
	"sablec/codegen"
	"sablec/interp"
	"sablec/report"
	"sablec/sem"
	"sablec/syntax"
	"sablec/walk"
)

// Config is the compiler configuration assembled from the project manifest
// and the command line.
type Config struct {
	// Compile to native code; interpret otherwise.
	Compile bool

	// Disable optimization and link the debug runtime.
	Debug bool

	// Error-test mode: compare reported lines against `// error` markers.
	ErrorTest bool

	// The output basename; defaults to the first source basename.
	OutputName string

	// Enable ref-count profiling hooks.
	Profile bool

	// Pessimistically insert ref-counts everywhere.
	Pessimistic bool

	// Skip runtime ref-count checks.
	Unsafe bool

	// Print the toolchain invocation.
	Verbose bool

	// Stop after emitting target source.
	EmitOnly bool

	// Use the platform C runtime allocator.
	CRTAlloc bool

	// Print computed destruction sets.
	TypeSet bool

	// The toolchain command used to compile emitted source.
	Toolchain string

	// The sable source files.
	Sources []string

	// Files passed through to the verbatim include list.
	Includes []string

	// Arguments handed to the interpreted program.
	ProgramArgs []string
}

// Compiler carries the state of one compilation.
type Compiler struct {
	cfg   *Config
	files []*ast.SourceFile
}

// NewCompiler creates a compiler over the given configuration.
func NewCompiler(cfg *Config) *Compiler {
	if cfg.OutputName == "" && len(cfg.Sources) > 0 {
		base := filepath.Base(cfg.Sources[0])
		cfg.OutputName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if cfg.Toolchain == "" {
		cfg.Toolchain = "c++"
	}

	return &Compiler{cfg: cfg}
}

// Run drives the whole compilation.  The exit code is zero even when
// diagnostics were reported; only configuration failures exit non-zero.
func (c *Compiler) Run() int {
	if len(c.cfg.Sources) == 0 {
		report.ReportFatal("no source files")
	}

	sem.ResetRegistry()

	if c.cfg.ErrorTest {
		report.SetRecording(true)
	}

	// Parse.
	for _, src := range c.cfg.Sources {
		if file, ok := syntax.ParseFile(src); ok {
			c.files = append(c.files, file)
		}
	}

	// Resolve and check.
	if report.ShouldProceed() {
		walk.Resolve(c.files)
	}

	if report.ShouldProceed() {
		for _, file := range c.files {
			walk.WalkFile(file)
		}
	}

	// The CFG analyses run over whatever checked successfully; per-member
	// failures were already recorded without aborting the pass.
	analysis.CheckUses(c.files)

	if c.cfg.ErrorTest {
		c.reportErrorDiff()
		return 0
	}

	if !report.ShouldProceed() {
		return 0
	}

	analysis.RefCounts(c.files, c.cfg.Pessimistic)

	if c.cfg.TypeSet {
		analysis.DumpTypeSets(os.Stdout, c.files)
	}

	if c.cfg.Compile || c.cfg.EmitOnly {
		return c.compile()
	}

	interp.New(c.files, c.cfg.ProgramArgs).Run()
	return 0
}

// compile emits the target translation unit and, unless stopped after
// emission, hands it to the toolchain.
func (c *Compiler) compile() int {
	cppPath := c.cfg.OutputName + ".cpp"

	out, err := os.Create(cppPath)
	if err != nil {
		report.ReportFatal("failed to create output file: %s", err)
	}

	codegen.Generate(out, c.files, c.cfg.Includes, codegen.Options{
		Safe:     !c.cfg.Unsafe,
		Profile:  c.cfg.Profile,
		CRTAlloc: c.cfg.CRTAlloc,
	})
	out.Close()

	if _, err := codegen.WriteRuntimeHeader(filepath.Dir(cppPath)); err != nil {
		report.ReportFatal("failed to write runtime header: %s", err)
	}

	if c.cfg.EmitOnly {
		return 0
	}

	return c.invokeToolchain(cppPath)
}
