package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/driver"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// Diagnostic is an error or warning reported while a program runs.
type Diagnostic struct {
	Severity driver.DiagnosticSeverity
	Kind     runtime.ErrorKind
	Message  string
	Location driver.DiagnosticLocation
	// Trace is the call stack at the point of the report, outermost first.
	Trace []StackFrame
}

// Reporter receives diagnostics. It is the only way the interpreter talks to
// a log sink.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

type nopReporter struct{}

func (nopReporter) Report(Diagnostic) {}

// DescribeDiagnostic renders d as "runtime: <location> KIND: message"
// followed by the stack trace.
func DescribeDiagnostic(d Diagnostic) string {
	prefix := "runtime: "
	if d.Severity == driver.SeverityWarning {
		prefix = "warning: runtime: "
	}
	message := d.Kind.String()
	if d.Message != "" {
		message += ": " + d.Message
	}
	var b strings.Builder
	if loc := d.Location.String(); loc != "" {
		fmt.Fprintf(&b, "%s%s %s", prefix, loc, message)
	} else {
		fmt.Fprintf(&b, "%s%s", prefix, message)
	}
	if len(d.Trace) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatStackTrace(d.Trace))
	}
	return b.String()
}

// UncaughtError is returned by Interpret when an error thrown at the top
// level was not caught.
type UncaughtError struct {
	Value      *runtime.DataObject
	Diagnostic Diagnostic
}

func (e *UncaughtError) Error() string {
	return DescribeDiagnostic(e.Diagnostic)
}

// Kind returns the error kind of the thrown value.
func (e *UncaughtError) Kind() runtime.ErrorKind {
	return e.Diagnostic.Kind
}

func (i *Interpreter) location(pos ast.Span) driver.DiagnosticLocation {
	frame := i.currentFrame()
	path := frame.Path
	if path == "" {
		path = i.sourcePath
	}
	return driver.DiagnosticLocation{
		Path:      path,
		Line:      pos.Start.Line,
		Column:    pos.Start.Column,
		EndLine:   pos.End.Line,
		EndColumn: pos.End.Column,
	}
}

// setErrno records kind in the error register. The first code wins unless an
// error arrives while only a warning is recorded.
func (i *Interpreter) setErrno(kind runtime.ErrorKind) {
	if kind == runtime.ErrorNone {
		return
	}
	if i.errno == runtime.ErrorNone || (i.errno.IsWarning() && kind.IsError()) {
		i.errno = kind
	}
}

func (i *Interpreter) warn(kind runtime.ErrorKind, message string, pos ast.Span) {
	i.setErrno(kind)
	if !i.warnings {
		return
	}
	i.reporter.Report(Diagnostic{
		Severity: driver.SeverityWarning,
		Kind:     kind,
		Message:  message,
		Location: i.location(pos),
	})
}

// raise reports an error at pos and returns it as an ERROR value.
func (i *Interpreter) raise(kind runtime.ErrorKind, pos ast.Span, format string, args ...any) *runtime.DataObject {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return i.raiseError(runtime.NewErrorObject(kind, message), pos, i.depth())
}

// raiseErr raises a Go error returned by the runtime package.
func (i *Interpreter) raiseErr(err error, pos ast.Span) *runtime.DataObject {
	return i.raiseError(errorObjectOf(err), pos, i.depth())
}

func errorObjectOf(err error) *runtime.ErrorObject {
	var le *runtime.LangError
	if errors.As(err, &le) {
		return le.ErrorObject()
	}
	return runtime.NewErrorObject(runtime.ErrorSystemError, err.Error())
}

// raiseError records the error and offers it to the try frames. An
// intercepted error stops execution until the intercepting try statement
// handles it; otherwise it is reported and evaluation continues with the
// returned ERROR value.
func (i *Interpreter) raiseError(errObj *runtime.ErrorObject, pos ast.Span, depth int) *runtime.DataObject {
	value := runtime.ErrorValue(errObj.Kind, errObj.Message)
	if errObj.Kind.IsWarning() {
		i.warn(errObj.Kind, errObj.Message, pos)
		return value
	}
	i.setErrno(errObj.Kind)
	st := &i.state
	if st.stop {
		return value
	}
	if frame := st.intercept(depth); frame != nil {
		st.stop = true
		st.pending = value
		st.thrown = true
		st.pos = pos
		st.trace = i.StackTrace()
		st.caught = frame
		st.raiseDepth = depth
		return value
	}
	i.reporter.Report(Diagnostic{
		Severity: driver.SeverityError,
		Kind:     errObj.Kind,
		Message:  errObj.Message,
		Location: i.location(pos),
		Trace:    i.StackTrace(),
	})
	return value
}
