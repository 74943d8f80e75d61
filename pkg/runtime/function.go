package runtime

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
)

// Caller is the slice of the interpreter exposed to native handlers.
type Caller interface {
	// CallFunction invokes fp with already evaluated arguments.
	CallFunction(fp *FunctionPointer, args []*DataObject) (*DataObject, error)
	// Warn reports a warning through the diagnostics channel.
	Warn(kind ErrorKind, message string)
	Translation(key string) (string, bool)
	Stdout() io.Writer
}

// NativeCallContext describes a native invocation.
type NativeCallContext struct {
	Caller Caller
	This   *Object
	Name   string
	Pos    ast.Span
}

// NativeHandler implements a native function body. Returning a *LangError
// raises the error as a language value; a nil value means VOID.
type NativeHandler func(ctx *NativeCallContext, args []*DataObject) (*DataObject, error)

//-----------------------------------------------------------------------------
// Parameters
//-----------------------------------------------------------------------------

type Parameter struct {
	Name       string
	Constraint *TypeConstraint
	Mode       ast.ParameterMode
}

func NewParameter(name string, constraint *TypeConstraint, mode ast.ParameterMode) *Parameter {
	if mode == "" {
		mode = ast.ParamNormal
	}
	return &Parameter{Name: name, Constraint: constraint, Mode: mode}
}

// SelectionConstraint is the constraint used to match an argument against the
// parameter during overload selection. Coercing modes accept every kind.
func (p *Parameter) SelectionConstraint() *TypeConstraint {
	switch p.Mode {
	case ast.ParamBoolean, ast.ParamNumber, ast.ParamCallable:
		return nil
	}
	if p.Constraint != nil {
		return p.Constraint
	}
	if p.Mode == ast.ParamVarArgs || p.Mode == ast.ParamCallByPointer {
		return nil
	}
	return ConstraintForName(p.Name)
}

// TextVarArgs reports whether a var-args parameter concatenates its values
// into one text value instead of collecting them into an array.
func (p *Parameter) TextVarArgs() bool {
	return p.Mode == ast.ParamVarArgs && strings.HasPrefix(p.Name, "$")
}

func (p *Parameter) String() string {
	var b strings.Builder
	switch p.Mode {
	case ast.ParamCallByPointer:
		b.WriteString("$[" + strings.TrimPrefix(p.Name, "$") + "]")
	default:
		b.WriteString(p.Name)
	}
	if p.Constraint != nil {
		b.WriteString(p.Constraint.String())
	}
	switch p.Mode {
	case ast.ParamVarArgs:
		b.WriteString("...")
	case ast.ParamBoolean:
		b.WriteString(" {boolean}")
	case ast.ParamNumber:
		b.WriteString(" {number}")
	case ast.ParamCallable:
		b.WriteString(" {callable}")
	}
	return b.String()
}

//-----------------------------------------------------------------------------
// Internal functions
//-----------------------------------------------------------------------------

// InternalFunction is one signature of a function bundle with either an AST
// body or a native handler.
type InternalFunction struct {
	Params           []*Parameter
	VarArgsIndex     int
	ReturnConstraint *TypeConstraint
	Body             *ast.List
	Native           NativeHandler
	Doc              string

	// Method metadata.
	SuperLevel     int
	Override       bool
	Visibility     ast.Visibility
	DeclaringClass *Object
}

func NewASTFunction(params []*Parameter, ret *TypeConstraint, body *ast.List) (*InternalFunction, error) {
	f, err := newInternalFunction(params, ret)
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = ast.NewList()
	}
	f.Body = body
	return f, nil
}

func NewNativeFunction(params []*Parameter, ret *TypeConstraint, handler NativeHandler) (*InternalFunction, error) {
	if handler == nil {
		return nil, NewLangError(ErrorInvalidFuncPtr, "native function without handler")
	}
	f, err := newInternalFunction(params, ret)
	if err != nil {
		return nil, err
	}
	f.Native = handler
	return f, nil
}

// MustNativeFunction is NewNativeFunction for statically known signatures.
func MustNativeFunction(params []*Parameter, ret *TypeConstraint, handler NativeHandler) *InternalFunction {
	f, err := NewNativeFunction(params, ret, handler)
	if err != nil {
		panic(err)
	}
	return f
}

func newInternalFunction(params []*Parameter, ret *TypeConstraint) (*InternalFunction, error) {
	f := &InternalFunction{Params: params, VarArgsIndex: -1, ReturnConstraint: ret, Visibility: ast.VisibilityPublic}
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		if p == nil || p.Name == "" {
			return nil, NewLangError(ErrorInvalidArguments, "parameter %d has no name", i+1)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, NewLangError(ErrorInvalidArguments, "duplicate parameter %s", p.Name)
		}
		seen[p.Name] = struct{}{}
		switch p.Mode {
		case ast.ParamVarArgs:
			if i != len(params)-1 {
				return nil, NewLangError(ErrorInvalidArguments, "var args parameter %s must be the last parameter", p.Name)
			}
			f.VarArgsIndex = i
		case ast.ParamCallByPointer:
			if !strings.HasPrefix(p.Name, "$") {
				return nil, NewLangError(ErrorInvalidArguments, "call by pointer parameter %s must be a $ variable", p.Name)
			}
		}
	}
	return f, nil
}

func (f *InternalFunction) IsNative() bool { return f.Native != nil }

func (f *InternalFunction) HasVarArgs() bool { return f.VarArgsIndex >= 0 }

// FixedCount is the number of parameters excluding the var-args slot.
func (f *InternalFunction) FixedCount() int {
	if f.HasVarArgs() {
		return len(f.Params) - 1
	}
	return len(f.Params)
}

// AcceptsCount reports whether n arguments satisfy the arity.
func (f *InternalFunction) AcceptsCount(n int) bool {
	if f.HasVarArgs() {
		return n >= f.FixedCount()
	}
	return n == len(f.Params)
}

// ParamForArg returns the parameter that receives argument i.
func (f *InternalFunction) ParamForArg(i int) *Parameter {
	if f.HasVarArgs() && i >= f.VarArgsIndex {
		return f.Params[f.VarArgsIndex]
	}
	if i < len(f.Params) {
		return f.Params[i]
	}
	return nil
}

// Matches reports whether args satisfy arity and every selection constraint.
func (f *InternalFunction) Matches(args []*DataObject) bool {
	if !f.AcceptsCount(len(args)) {
		return false
	}
	for i, arg := range args {
		p := f.ParamForArg(i)
		if p == nil || !p.SelectionConstraint().Allows(arg.Type()) {
			return false
		}
	}
	return true
}

// SignatureEqual reports whether f and g accept exactly the same arguments.
func (f *InternalFunction) SignatureEqual(g *InternalFunction) bool {
	if len(f.Params) != len(g.Params) || f.VarArgsIndex != g.VarArgsIndex {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].SelectionConstraint().Equal(g.Params[i].SelectionConstraint()) {
			return false
		}
	}
	return true
}

func (f *InternalFunction) Signature() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	sig := "(" + strings.Join(parts, ", ") + ")"
	if f.ReturnConstraint != nil {
		sig += ":" + f.ReturnConstraint.String()
	}
	return sig
}

// WithSuperLevel returns a shallow copy tagged with level.
func (f *InternalFunction) WithSuperLevel(level int) *InternalFunction {
	cp := *f
	cp.SuperLevel = level
	return &cp
}

// narrower reports whether f is strictly narrower than g for n arguments:
// parameters are compared left to right by admitted kind count, and a fixed
// parameter sorts before a var-args parameter at the same position.
func narrower(f, g *InternalFunction, n int) bool {
	for i := 0; i < n; i++ {
		pf, pg := f.ParamForArg(i), g.ParamForArg(i)
		cf, cg := pf.SelectionConstraint().Count(), pg.SelectionConstraint().Count()
		if cf != cg {
			return cf < cg
		}
		vf, vg := pf.Mode == ast.ParamVarArgs, pg.Mode == ast.ParamVarArgs
		if vf != vg {
			return !vf
		}
	}
	return !f.HasVarArgs() && g.HasVarArgs()
}

// SelectOverload picks the overload for args. A single overload is always
// selected so that binding can report the precise mismatch; otherwise the
// narrowest matching candidate wins and ties keep declaration order.
func SelectOverload(functions []*InternalFunction, args []*DataObject) (*InternalFunction, bool) {
	switch len(functions) {
	case 0:
		return nil, false
	case 1:
		return functions[0], true
	}
	var candidates []*InternalFunction
	for _, f := range functions {
		if f.Matches(args) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return narrower(candidates[i], candidates[j], len(args))
	})
	return candidates[0], true
}

// CheckOverloadSet rejects sets holding two overloads with identical
// signatures.
func CheckOverloadSet(functions []*InternalFunction) error {
	for i := 0; i < len(functions); i++ {
		for j := i + 1; j < len(functions); j++ {
			if functions[i].SignatureEqual(functions[j]) {
				return fmt.Errorf("ambiguous overloads %s and %s", functions[i].Signature(), functions[j].Signature())
			}
		}
	}
	return nil
}

//-----------------------------------------------------------------------------
// Function pointers
//-----------------------------------------------------------------------------

type Deprecation struct {
	RemoveVersion string
	Replacement   string
}

// FunctionPointer is a bundle of overloads plus binding metadata.
type FunctionPointer struct {
	Name      string
	Functions []*InternalFunction
	This      *Object

	Combinator bool
	// Bound holds the arguments supplied by earlier combinator calls.
	Bound []*DataObject
	// VarArgsStage is set once a var-args combinator received its prefix.
	VarArgsStage bool

	Deprecation *Deprecation
	// Path and File override the call-frame location in diagnostics.
	Path string
	File string
}

func NewFunctionPointer(name string, functions ...*InternalFunction) *FunctionPointer {
	return &FunctionPointer{Name: name, Functions: functions}
}

// BindThis returns a copy bound to obj.
func (fp *FunctionPointer) BindThis(obj *Object) *FunctionPointer {
	cp := *fp
	cp.This = obj
	return &cp
}

// WithBound returns a copy that carries additional combinator arguments.
func (fp *FunctionPointer) WithBound(args []*DataObject, varArgsStage bool) *FunctionPointer {
	cp := *fp
	cp.Bound = append(append([]*DataObject(nil), fp.Bound...), args...)
	cp.VarArgsStage = varArgsStage
	return &cp
}

func (fp *FunctionPointer) Equal(other *FunctionPointer) bool {
	if fp == other {
		return true
	}
	if fp == nil || other == nil {
		return false
	}
	if fp.This != other.This || len(fp.Functions) != len(other.Functions) || len(fp.Bound) != len(other.Bound) {
		return false
	}
	for i := range fp.Functions {
		if fp.Functions[i] != other.Functions[i] {
			return false
		}
	}
	for i := range fp.Bound {
		if !StrictEquals(fp.Bound[i], other.Bound[i]) {
			return false
		}
	}
	return true
}

// Signatures lists every overload signature, one per line.
func (fp *FunctionPointer) Signatures() string {
	lines := make([]string, len(fp.Functions))
	for i, f := range fp.Functions {
		lines[i] = "    " + fp.displayName() + f.Signature()
	}
	return strings.Join(lines, "\n")
}

func (fp *FunctionPointer) displayName() string {
	if fp.Name == "" {
		return "<anonymous>"
	}
	return fp.Name
}

func (fp *FunctionPointer) String() string {
	if fp == nil {
		return "<invalid function pointer>"
	}
	sigs := make([]string, len(fp.Functions))
	for i, f := range fp.Functions {
		sigs[i] = f.Signature()
	}
	prefix := "<"
	if fp.Combinator {
		prefix = "<combinator "
	}
	return prefix + fp.displayName() + strings.Join(sigs, "|") + ">"
}
