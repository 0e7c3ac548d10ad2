// Package analysis contains the data-flow analyses run over the per-method
// control-flow graphs once checking is complete: the use-before-init and
// ownership-transfer checks and the reference-count necessity analysis.
package analysis

import (
	"fmt"

	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// CheckUses runs the definite-assignment and ownership-transfer checks over
// every method of every class in the given files.  For each recorded read
// the CFG is walked backwards, stopping at points that assign the target:
// reaching a point with no predecessor means the target may be read before
// it is assigned, and passing a point that transfers the target's ownership
// away means the read may see a moved-out value.
func CheckUses(files []*ast.SourceFile) {
	for _, file := range files {
		for _, def := range file.Classes {
			for _, md := range def.Members {
				checkMemberUses(file.AbsPath, md.Member())
			}
		}
	}
}

func checkMemberUses(absPath string, m *sem.Member) {
	if m == nil {
		return
	}

	for _, shell := range []*sem.Member{m, m.Getter, m.Setter} {
		if shell == nil || shell.Entry == nil {
			continue
		}

		for _, use := range shell.Uses {
			checkUse(absPath, use)
		}

		// Every path to the exit must assign every out parameter.
		for _, p := range shell.Params {
			if p.Mode == sem.ParamOut {
				checkOutParam(absPath, shell, p)
			}
		}
	}
}

// checkUse walks the CFG backwards from a single read.
func checkUse(absPath string, use *sem.AccessRecord) {
	marker := sem.NextMarker()
	stack := []sem.Point{use.At}

	unassigned := false
	transferred := false

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.Mark() == marker {
			continue
		}
		p.SetMark(marker)

		if n, ok := p.(*sem.Node); ok {
			if use.Local != nil {
				if n.Takes(use.Local) {
					transferred = true
					continue
				}

				if n.Sets(use.Local) {
					continue
				}
			} else {
				if n.TakesField(use.Field) {
					transferred = true
					continue
				}

				if n.SetsField(use.Field) {
					continue
				}
			}
		}

		preds := p.Preds()
		if len(preds) == 0 {
			unassigned = true
			continue
		}

		stack = append(stack, preds...)
	}

	if transferred {
		report.ReportCompileError(absPath, use.Span,
			"can't transfer ownership: the value of `%s` may already have been taken", useName(use))
	}

	// Fields are default-initialized; only locals can be read unassigned.
	if unassigned && use.Local != nil {
		report.ReportCompileError(absPath, use.Span,
			"variable `%s` may be used before it is assigned", use.Local.Name)
	}
}

// checkOutParam verifies that every path to the method's exit assigns the
// out parameter.
func checkOutParam(absPath string, m *sem.Member, p *sem.Local) {
	marker := sem.NextMarker()
	stack := []sem.Point{m.Exit}

	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if pt.Mark() == marker {
			continue
		}
		pt.SetMark(marker)

		if n, ok := pt.(*sem.Node); ok && n.Sets(p) {
			continue
		}

		preds := pt.Preds()
		if len(preds) == 0 {
			report.ReportCompileError(absPath, p.Span, fmt.Sprintf(
				"out parameter `%s` may not be assigned on every path", p.Name))
			return
		}

		stack = append(stack, preds...)
	}
}

func useName(use *sem.AccessRecord) string {
	if use.Local != nil {
		return use.Local.Name
	}

	return use.Field.Name
}
