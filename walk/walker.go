package walk

import (
	"sablec/ast"
	"sablec/report"
	"sablec/sem"
)

// Walker is responsible for walking source files and performing semantic
// analysis on their definitions: type checking every expression and threading
// the per-method control-flow graph through the member bodies as it goes.
type Walker struct {
	// The source file being walked.
	file *ast.SourceFile

	// The class enclosing the member being walked.
	class *sem.Class

	// The method or accessor whose CFG is being built.
	method *sem.Member

	// The return type of the enclosing method.
	retType sem.Type

	// The stack of local scopes used to look up symbols.
	scopes []*scope

	// The CFG cursor: nil before any code is reached, the unreachable point
	// after a jump, or the most recently added point.
	prev sem.Point

	// The stack of enclosing break/continue targets.
	targets []*jumpTargets

	// The classes of unconsumed owning temporaries of the statement being
	// walked.
	temps []*sem.Class
}

// scope is a single lexical scope of locals.
type scope struct {
	vars  map[string]*sem.Local
	order []*sem.Local
}

// jumpTargets holds the joiners a break or continue inside a loop or switch
// adds itself to.  Continue passes through switches, so their cont is nil.
type jumpTargets struct {
	brk  *sem.Joiner
	cont *sem.Joiner

	// The scope depth at entry, used to compute the locals a jump destroys.
	depth int
}

// WalkFile semantically analyzes the given source file.  Declarations are
// assumed to be resolved.
func WalkFile(file *ast.SourceFile) {
	w := &Walker{file: file}

	for _, def := range file.Classes {
		w.walkClass(def)
	}
}

// -----------------------------------------------------------------------------

// lookup looks up a local by name in all visible scopes.
func (w *Walker) lookup(name string) *sem.Local {
	// Traverse local scopes in reverse order to implement shadowing.
	for i := len(w.scopes) - 1; i > -1; i-- {
		if l, ok := w.scopes[i].vars[name]; ok {
			return l
		}
	}

	return nil
}

// defineLocal defines a local in the current scope and registers it with the
// enclosing method.  Redeclaration in the immediate scope is an error.
func (w *Walker) defineLocal(l *sem.Local) {
	curr := w.scopes[len(w.scopes)-1]

	if _, ok := curr.vars[l.Name]; ok {
		w.error(l.Span, "multiple locals named `%s` defined in immediate local scope", l.Name)
	}

	curr.vars[l.Name] = l
	curr.order = append(curr.order, l)
	w.method.Locals = append(w.method.Locals, l)
}

// pushScope pushes a new local scope onto the scope stack.
func (w *Walker) pushScope() {
	w.scopes = append(w.scopes, &scope{vars: make(map[string]*sem.Local)})
}

// popScope removes the top local scope from the scope stack, adding the
// scope-end destruction node for the owning locals leaving scope.
func (w *Walker) popScope() {
	top := w.scopes[len(w.scopes)-1]
	w.scopes = w.scopes[:len(w.scopes)-1]

	if destroyed, released := scopeDestroys([]*scope{top}); len(destroyed) > 0 && w.prev != sem.Unreachable {
		n := w.newNode()
		n.Destroyed = destroyed
		n.Releases = released
	}
}

// scopeDestroys collects the classes destroyed, and the owning locals
// released, when the locals of the given scopes go out of scope.  Non-owning
// references never affect destruction.
func scopeDestroys(scopes []*scope) ([]*sem.Class, []*sem.Local) {
	var destroyed []*sem.Class
	var released []*sem.Local
	for _, s := range scopes {
		for _, l := range s.order {
			if sem.IsOwning(l.Type) {
				if c := sem.ClassOf(l.Type); c != nil {
					destroyed = append(destroyed, c)
					released = append(released, l)
				}
			}
		}
	}

	return destroyed, released
}

// jumpDestroys collects the classes destroyed, and the locals released, by a
// jump that leaves every scope deeper than the given depth.
func (w *Walker) jumpDestroys(depth int) ([]*sem.Class, []*sem.Local) {
	return scopeDestroys(w.scopes[depth:])
}

// -----------------------------------------------------------------------------

// newNode adds a CFG node at the cursor and advances the cursor onto it.
func (w *Walker) newNode() *sem.Node {
	n := &sem.Node{Prev: w.prev}
	w.method.Points = append(w.method.Points, n)
	w.prev = n
	return n
}

// newJoiner creates a joiner registered with the current method.
func (w *Walker) newJoiner() *sem.Joiner {
	j := &sem.Joiner{}
	w.method.Points = append(w.method.Points, j)
	return j
}

// recordUse records a read of a local for the use-before-init check.
func (w *Walker) recordUse(l *sem.Local, span *report.TextSpan) {
	w.method.Uses = append(w.method.Uses, &sem.AccessRecord{Local: l, At: w.prev, Span: span})
}

// recordFieldUse records a read of an owning field for the ownership-transfer
// check.
func (w *Walker) recordFieldUse(f *sem.Member, span *report.TextSpan) {
	if f.Kind == sem.MemberField && sem.IsOwning(f.Type) {
		w.method.Uses = append(w.method.Uses, &sem.AccessRecord{Field: f, At: w.prev, Span: span})
	}
}

// recordRange records the CFG range of a reference-typed expression value
// evaluated at start and consumed at the current cursor.
func (w *Walker) recordRange(e ast.Expr, start sem.Point) {
	c := sem.ClassOf(e.Type())
	if c == nil || start == w.prev || start == sem.Unreachable {
		return
	}

	r := &sem.ExprRange{Start: start, End: w.prev, Of: c}
	if ne, ok := e.(*ast.NameExpr); ok {
		r.Local = ne.Local
	}

	setRange(e, r)
	w.method.Ranges = append(w.method.Ranges, r)
}

// setRange stores a recorded range on the expression node that carries it.
func setRange(e ast.Expr, r *sem.ExprRange) {
	switch v := e.(type) {
	case *ast.NameExpr:
		v.Range = r
	case *ast.DotExpr:
		v.Range = r
	case *ast.CallExpr:
		v.Range = r
	case *ast.IndexExpr:
		v.Range = r
	case *ast.NewExpr:
		v.Range = r
	case *ast.TakeExpr:
		v.Range = r
	case *ast.CastExpr:
		v.Range = r
	}
}

// -----------------------------------------------------------------------------

// error raises a compile error that aborts walking of the current member.
func (w *Walker) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(span, msg, args...))
}

// recError reports a compile error without aborting the walk.
func (w *Walker) recError(span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileError(w.file.AbsPath, span, msg, args...)
}
