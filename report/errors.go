package report

import "fmt"

// LocalCompileError is a compilation error raised in a context in which the
// file is known by the caller and thus doesn't need to be passed along with
// the error.  The lexer and parser return these; the checker panics with them
// to abort the enclosing member.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	return lce.Message
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// CatchErrors recovers from a raised local compile error and reports it as a
// compile error in the given file.  It is intended to be deferred around the
// checking of a single definition so that a failed member does not stop the
// rest of the pass.  Any other panic is re-raised.
func CatchErrors(absPath string) {
	if x := recover(); x != nil {
		if lce, ok := x.(*LocalCompileError); ok {
			ReportCompileError(absPath, lce.Span, lce.Message)
		} else {
			panic(x)
		}
	}
}
