package interpreter

import (
	"fmt"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// StackFrame is one entry of the diagnostic call stack. Frames are values;
// moving to another source position replaces the top frame.
type StackFrame struct {
	Path     string
	File     string
	Class    *runtime.Object
	Function string
	Pos      ast.Span
}

func (f StackFrame) withPos(pos ast.Span) StackFrame {
	f.Pos = pos
	return f
}

func (f StackFrame) String() string {
	var b strings.Builder
	b.WriteString("at ")
	switch {
	case f.Path != "":
		fmt.Fprintf(&b, "%q", f.Path)
	default:
		b.WriteString("<shell>")
	}
	if f.Pos.Start.Line > 0 {
		fmt.Fprintf(&b, ":%s", f.Pos)
	}
	if f.Class != nil {
		fmt.Fprintf(&b, " in class %q", f.Class.Name())
	}
	switch {
	case f.Function != "":
		fmt.Fprintf(&b, " in function %q", f.Function)
	case f.Class == nil:
		b.WriteString(" in <main>")
	}
	return b.String()
}

// FormatStackTrace renders frames innermost first.
func FormatStackTrace(frames []StackFrame) string {
	lines := make([]string, 0, len(frames))
	for idx := len(frames) - 1; idx >= 0; idx-- {
		lines = append(lines, "    "+frames[idx].String())
	}
	return strings.Join(lines, "\n")
}

func (i *Interpreter) pushFrame(frame StackFrame) {
	i.callStack = append(i.callStack, frame)
}

func (i *Interpreter) popFrame() {
	if len(i.callStack) > 1 {
		i.callStack = i.callStack[:len(i.callStack)-1]
	}
}

func (i *Interpreter) currentFrame() StackFrame {
	return i.callStack[len(i.callStack)-1]
}

func (i *Interpreter) updatePos(pos ast.Span) {
	top := len(i.callStack) - 1
	i.callStack[top] = i.callStack[top].withPos(pos)
}

// StackTrace returns a copy of the call stack, outermost frame first.
func (i *Interpreter) StackTrace() []StackFrame {
	return append([]StackFrame(nil), i.callStack...)
}

// accessorClass is the class whose code is currently running, used for
// visibility checks.
func (i *Interpreter) accessorClass() *runtime.Object {
	return i.currentFrame().Class
}
