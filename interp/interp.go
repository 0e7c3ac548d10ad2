// Package interp is the tree-walking evaluator used when the compiler is not
// asked to produce native code.  It executes the checked AST directly;
// memory is garbage-collected by the host, so the ownership analyses have no
// runtime effect here.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"sablec/ast"
	"sablec/codegen"
	"sablec/report"
	"sablec/sem"
)

// Value is a runtime value: nil (null), bool, Char, int32, float64, string,
// *Object, or *ArrayVal.
type Value interface{}

// Char is the runtime shape of a character value.  It is distinct from
// int32 so that dynamic dispatch on values can tell the two apart.
type Char rune

// Object is a class instance.
type Object struct {
	Class  *sem.Class
	Fields map[*sem.Member]Value

	// A stable identity for GetHashCode.
	id int32
}

// nextObjectID numbers instances as they are created.
var nextObjectID int32

// ArrayVal is an array instance.
type ArrayVal struct {
	Elem  sem.Type
	Items []Value
}

// memberBody pairs a resolved method with its AST body.
type memberBody struct {
	params []*sem.Local
	body   *ast.Block

	// For constructors: the definition, for delegation.
	ctor *ast.CtorDef
}

// Interp executes a checked program.
type Interp struct {
	files  []*ast.SourceFile
	bodies map[*sem.Member]*memberBody

	args []string

	// The static field store.
	statics map[*sem.Member]Value

	out io.Writer
	in  *bufio.Reader
}

// New builds an interpreter over the checked files.
func New(files []*ast.SourceFile, args []string) *Interp {
	it := &Interp{
		files:  files,
		bodies: make(map[*sem.Member]*memberBody),
		args:   args,
		out:    os.Stdout,
		in:     bufio.NewReader(os.Stdin),
	}

	for _, file := range files {
		for _, def := range file.Classes {
			it.indexClass(def)
		}
	}

	return it
}

// indexClass maps every resolved member of a class to its AST body.
func (it *Interp) indexClass(def *ast.ClassDef) {
	for _, md := range def.Members {
		switch v := md.(type) {
		case *ast.MethodDef:
			if v.Body != nil {
				it.bodies[v.Sym] = &memberBody{params: v.Sym.Params, body: v.Body}
			}
		case *ast.CtorDef:
			it.bodies[v.Sym] = &memberBody{params: v.Sym.Params, body: v.Body, ctor: v}
		case *ast.PropertyDef:
			if v.GetBody != nil {
				it.bodies[v.Sym.Getter] = &memberBody{body: v.GetBody}
			}
			if v.SetBody != nil {
				it.bodies[v.Sym.Setter] = &memberBody{params: v.Sym.Setter.Params, body: v.SetBody}
			}
		case *ast.IndexerDef:
			if v.GetBody != nil {
				it.bodies[v.Sym.Getter] = &memberBody{params: v.Sym.Getter.Params, body: v.GetBody}
			}
			if v.SetBody != nil {
				it.bodies[v.Sym.Setter] = &memberBody{params: v.Sym.Setter.Params, body: v.SetBody}
			}
		}
	}
}

// Run executes the program's Main.
func (it *Interp) Run() {
	_, main := codegen.FindMain(it.files)
	if main == nil {
		report.ReportFatal("no static Main method found")
	}

	var args []Value
	if len(main.Params) == 1 {
		items := make([]Value, len(it.args))
		for i, a := range it.args {
			items[i] = a
		}

		args = []Value{&ArrayVal{Elem: sem.StringType{}, Items: items}}
	}

	it.call(main, nil, args)
}

// fail terminates the process with an evaluator failure.  There is no
// recovery.
func (it *Interp) fail(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "runtime error: %s\n", fmt.Sprintf(msg, args...))
	os.Exit(1)
}

// -----------------------------------------------------------------------------

// frame is a single activation record.
type frame struct {
	this   *Object
	locals map[*sem.Local]Value
}

// Enumeration of control-flow outcomes of statement execution.
const (
	ctrlNone = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// call invokes a resolved member with virtual dispatch against the receiver.
func (it *Interp) call(m *sem.Member, this *Object, args []Value) Value {
	if this != nil {
		m = dispatch(m, this.Class)
	}

	if m.Extern || it.bodies[m] == nil {
		return it.callBuiltin(m, this, args)
	}

	mb := it.bodies[m]
	f := &frame{this: this, locals: make(map[*sem.Local]Value)}
	defer copyBackCells(mb.params, args, f)
	bindParams(mb.params, args, f)

	if mb.ctor != nil && mb.ctor.Delegate != ast.DelegateNone {
		target := m.Owner
		if mb.ctor.Delegate == ast.DelegateBase {
			target = m.Owner.Parent
		}

		dargs := make([]Value, len(mb.ctor.DelegateArgs))
		for i, a := range mb.ctor.DelegateArgs {
			dargs[i] = it.eval(a, f)
		}

		delegated := findCtorTarget(mb.ctor, target)
		if delegated != nil {
			it.callDirect(delegated, this, dargs)
		}
	}

	if mb.body == nil {
		return nil
	}

	ctrl, ret := it.execBlock(mb.body.Stmts, f)
	if ctrl == ctrlReturn {
		return ret
	}

	return nil
}

// callDirect invokes a member without dispatch, for constructor delegation.
func (it *Interp) callDirect(m *sem.Member, this *Object, args []Value) {
	if mb := it.bodies[m]; mb != nil {
		f := &frame{this: this, locals: make(map[*sem.Local]Value)}
		bindParams(mb.params, args, f)

		if mb.body != nil {
			it.execBlock(mb.body.Stmts, f)
		}
	}
}

// bindParams binds argument values to parameter locals, unwrapping the cells
// that alias ref and out arguments.
func bindParams(params []*sem.Local, args []Value, f *frame) {
	for i, p := range params {
		if i >= len(args) {
			break
		}

		if c, ok := args[i].(*cell); ok {
			f.locals[p] = c.v
		} else {
			f.locals[p] = args[i]
		}
	}
}

// copyBackCells writes the final parameter values back through the cells of
// ref and out arguments.
func copyBackCells(params []*sem.Local, args []Value, f *frame) {
	for i, p := range params {
		if i >= len(args) {
			break
		}

		if c, ok := args[i].(*cell); ok {
			c.v = f.locals[p]
		}
	}
}

// findCtorTarget recovers the constructor a delegation resolved to from the
// delegating constructor's CFG.
func findCtorTarget(def *ast.CtorDef, target *sem.Class) *sem.Member {
	for _, p := range def.Sym.Points {
		if n, ok := p.(*sem.Node); ok && n.Call != nil &&
			n.Call.Kind == sem.MemberConstructor && n.Call.Owner == target {
			return n.Call
		}
	}

	return nil
}

// dispatch finds the most-derived override of m for a receiver of the given
// runtime class.
func dispatch(m *sem.Member, rc *sem.Class) *sem.Member {
	if m.Kind != sem.MemberMethod {
		return m
	}

	for k := rc; k != nil; k = k.Parent {
		for _, cand := range k.Members {
			if cand.Kind == sem.MemberMethod && overridesOrIs(cand, m) {
				return cand
			}
		}
	}

	return m
}

// overridesOrIs returns whether cand is m or overrides it, transitively.
func overridesOrIs(cand, m *sem.Member) bool {
	if cand == m {
		return true
	}

	for _, ov := range m.OverriddenBy {
		if overridesOrIs(cand, ov) {
			return true
		}
	}

	return false
}

// instantiate allocates an instance of a class and runs its constructor.
func (it *Interp) instantiate(c *sem.Class, ctor *sem.Member, args []Value) *Object {
	nextObjectID++
	obj := &Object{Class: c, Fields: make(map[*sem.Member]Value), id: nextObjectID}

	if ctor != nil {
		it.call(ctor, obj, args)
	}

	return obj
}
