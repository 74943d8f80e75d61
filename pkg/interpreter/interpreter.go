package interpreter

import (
	"errors"
	"io"
	"path/filepath"
	"sync/atomic"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/driver"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

const (
	LangName    = "lang"
	LangVersion = "1.0.0"

	DefaultMaxCallDepth = 1000
)

var (
	// ErrOutermostScope is returned when the program scope would be exited.
	ErrOutermostScope = errors.New("interpreter: the outermost scope can not be exited")
	// ErrStopped is returned once ForceStop was observed.
	ErrStopped = errors.New("interpreter: execution stopped")
)

// Interpreter evaluates program trees. It is not safe for concurrent use;
// only ForceStop may be called from another goroutine.
type Interpreter struct {
	scopes    []*scope
	callStack []StackFrame
	state     executionState
	forceStop atomic.Bool

	natives  *NativeRegistry
	modules  []Module
	reserved map[string]*runtime.DataObject

	reporter     Reporter
	warnings     bool
	maxCallDepth int
	sourcePath   string
	stdout       io.Writer
	args         []string
	translations map[string]string

	errno runtime.ErrorKind
}

// Option configures an Interpreter.
type Option func(*Interpreter)

func WithReporter(r Reporter) Option {
	return func(i *Interpreter) {
		if r != nil {
			i.reporter = r
		}
	}
}

// WithNatives installs the native function table.
func WithNatives(r *NativeRegistry) Option {
	return func(i *Interpreter) {
		if r != nil {
			i.natives = r
		}
	}
}

// WithWarnings toggles whether warnings are forwarded to the reporter. The
// error register records warnings either way.
func WithWarnings(enabled bool) Option {
	return func(i *Interpreter) { i.warnings = enabled }
}

func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

// WithSourcePath sets the path reported for the program scope.
func WithSourcePath(path string) Option {
	return func(i *Interpreter) { i.sourcePath = path }
}

func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.stdout = w
		}
	}
}

// WithArgs sets the program arguments exposed as &LANG_ARGS.
func WithArgs(args []string) Option {
	return func(i *Interpreter) { i.args = append([]string(nil), args...) }
}

// WithTranslations seeds the translation map of the program scope.
func WithTranslations(translations map[string]string) Option {
	return func(i *Interpreter) {
		i.translations = make(map[string]string, len(translations))
		for k, v := range translations {
			i.translations[k] = v
		}
	}
}

// New returns an interpreter positioned in a fresh program scope.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		natives:      NewNativeRegistry(),
		reporter:     nopReporter{},
		warnings:     true,
		maxCallDepth: DefaultMaxCallDepth,
		stdout:       io.Discard,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.reserved = reservedVariables()
	i.callStack = []StackFrame{{Path: i.sourcePath, File: fileName(i.sourcePath)}}
	i.enterScope(false)
	for k, v := range i.translations {
		i.currentScope().translations[k] = v
	}
	return i
}

func fileName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// Interpret evaluates program in the program scope. It returns the value of
// the last statement, or the value of a top-level return. An error thrown at
// the top level and not caught stops the program and is returned as an
// *UncaughtError. Fatal conditions (ErrStopped, ErrOutermostScope,
// *runtime.DefinitionError) abort evaluation and are returned as is.
func (i *Interpreter) Interpret(program *ast.List) (*runtime.DataObject, error) {
	if program == nil {
		return runtime.Void(), nil
	}
	i.state = executionState{}
	value := i.interpretList(program)
	return i.finishProgram(value)
}

func (i *Interpreter) finishProgram(value *runtime.DataObject) (*runtime.DataObject, error) {
	st := &i.state
	defer func() { i.state = executionState{} }()
	if st.fatal != nil {
		return nil, st.fatal
	}
	if value == nil {
		value = runtime.Void()
	}
	if !st.stop {
		return value, nil
	}
	switch {
	case st.thrown:
		diag := Diagnostic{
			Severity: driver.SeverityError,
			Kind:     st.pending.ErrorObject().Kind,
			Message:  st.pending.ErrorObject().Message,
			Location: i.location(st.pos),
			Trace:    st.trace,
		}
		i.reporter.Report(diag)
		return st.pending, &UncaughtError{Value: st.pending, Diagnostic: diag}
	case st.pending != nil:
		return st.pending, nil
	default:
		// A break or continue outside of any loop ends the program.
		return value, nil
	}
}

// ForceStop asks the running evaluation to stop. It is sticky until
// ResetStop is called.
func (i *Interpreter) ForceStop() { i.forceStop.Store(true) }

func (i *Interpreter) ResetStop() { i.forceStop.Store(false) }

func (i *Interpreter) IsStopped() bool { return i.forceStop.Load() }

// GetAndClearError returns the error register and resets it.
func (i *Interpreter) GetAndClearError() runtime.ErrorKind {
	kind := i.errno
	i.errno = runtime.ErrorNone
	return kind
}

// Variable looks up name in the current scope and loaded modules.
func (i *Interpreter) Variable(name string) (*runtime.DataObject, bool) {
	return i.lookupVariable(name)
}

// SetVariable declares or updates name in the current scope.
func (i *Interpreter) SetVariable(name string, value *runtime.DataObject) error {
	slot, err := i.declareVariable(name)
	if err != nil {
		return err
	}
	return slot.SetData(value)
}

// Natives returns the native function table.
func (i *Interpreter) Natives() *NativeRegistry { return i.natives }

//-----------------------------------------------------------------------------
// runtime.Caller
//-----------------------------------------------------------------------------

// CallFunction invokes fp from native code. The returned error is only set
// for fatal conditions; language errors come back as ERROR values.
func (i *Interpreter) CallFunction(fp *runtime.FunctionPointer, args []*runtime.DataObject) (*runtime.DataObject, error) {
	value := i.callFunctionPointer(fp, args, i.currentFrame().Pos)
	if i.state.fatal != nil {
		return nil, i.state.fatal
	}
	return orVoid(value), nil
}

func (i *Interpreter) Warn(kind runtime.ErrorKind, message string) {
	i.warn(kind, message, i.currentFrame().Pos)
}

func (i *Interpreter) Translation(key string) (string, bool) {
	v, ok := i.currentScope().translations[key]
	return v, ok
}

func (i *Interpreter) Stdout() io.Writer { return i.stdout }

var _ runtime.Caller = (*Interpreter)(nil)
