package analysis

import (
	"sablec/ast"
	"sablec/sem"
)

// RefCounts decides which locals and which recorded expression values need a
// runtime reference count, using the destruction sets.  When pessimistic is
// set every reference-typed local and every recorded range is flagged,
// disabling the optimization.
func RefCounts(files []*ast.SourceFile, pessimistic bool) {
	for _, file := range files {
		for _, def := range file.Classes {
			for _, md := range def.Members {
				refCountMember(md.Member(), pessimistic)
			}
		}
	}
}

func refCountMember(m *sem.Member, pessimistic bool) {
	if m == nil {
		return
	}

	for _, shell := range []*sem.Member{m, m.Getter, m.Setter} {
		if shell == nil || shell.Entry == nil {
			continue
		}

		for _, l := range shell.Locals {
			refCountLocal(shell, l, pessimistic)
		}

		for _, r := range shell.Ranges {
			r.NeedsRef = pessimistic || rangeNeedsRef(r)

			if r.NeedsRef && r.Local != nil {
				r.Local.NeedsRef = true
			}
		}
	}
}

// refCountLocal decides whether a single local needs a reference count: some
// assignment of the local can reach a point that destroys its type before
// another assignment kills the binding.  Variables of the root object type
// are always flagged because string-through-object destruction is not
// otherwise modeled.
func refCountLocal(m *sem.Member, l *sem.Local, pessimistic bool) {
	c := sem.ClassOf(l.Type)
	if c == nil {
		return
	}

	if pessimistic || c == sem.ObjectClass {
		l.NeedsRef = true
		return
	}

	if !sem.IsOwning(l.Type) {
		return
	}

	// Walk backwards from every destroying point: encountering an assignment
	// of the local means the binding made there is live at the destruction.
	// A point that merely releases the local's own storage does not endanger
	// its binding.
	for _, p := range m.Points {
		if n, ok := p.(*sem.Node); ok && n.ReleasesOwn(l) && n.Call == nil {
			continue
		}

		if !sem.CanDestroy(p, c) {
			continue
		}

		if reachesSetBackwards(p, l) {
			l.NeedsRef = true
			return
		}
	}
}

// reachesSetBackwards walks the CFG backwards from p and reports whether it
// encounters a point assigning l, stopping each path at the first one.
func reachesSetBackwards(p sem.Point, l *sem.Local) bool {
	marker := sem.NextMarker()
	stack := []sem.Point{p}

	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if pt.Mark() == marker {
			continue
		}
		pt.SetMark(marker)

		if n, ok := pt.(*sem.Node); ok && pt != p && n.Sets(l) {
			return true
		}

		stack = append(stack, pt.Preds()...)
	}

	return false
}

// rangeNeedsRef decides whether a recorded expression value needs a
// reference count over its lifetime: the underlying local (if any) may be
// reassigned between evaluation and use, and some point in between may
// destroy the value's type.
func rangeNeedsRef(r *sem.ExprRange) bool {
	marker := sem.NextMarker()

	// Stamp the start point first so the walk stops there.
	r.Start.SetMark(marker)

	canDestroy := false
	assigned := r.Local == nil

	stack := []sem.Point{r.End}
	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if pt.Mark() == marker {
			continue
		}
		pt.SetMark(marker)

		if sem.CanDestroy(pt, r.Of) {
			canDestroy = true
		}

		if n, ok := pt.(*sem.Node); ok && r.Local != nil && n.Sets(r.Local) {
			assigned = true
		}

		if canDestroy && assigned {
			return true
		}

		stack = append(stack, pt.Preds()...)
	}

	return canDestroy && assigned
}
