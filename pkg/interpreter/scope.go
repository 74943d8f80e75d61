package interpreter

import (
	"math"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

const (
	errnoVariable       = "$LANG_ERRNO"
	argsVariable        = "&LANG_ARGS"
	reservedPrefix      = "$LANG_"
	reservedTranslation = "lang."
)

// scope is one entry of the scope stack.
type scope struct {
	vars         map[string]*runtime.DataObject
	translations map[string]string
}

func newScope() *scope {
	return &scope{
		vars:         make(map[string]*runtime.DataObject),
		translations: make(map[string]string),
	}
}

func (i *Interpreter) currentScope() *scope { return i.scopes[len(i.scopes)-1] }

// depth is the nesting depth of the current scope; the program scope is 0.
func (i *Interpreter) depth() int { return len(i.scopes) - 1 }

// enterScope pushes a scope. With inherit set the caller's variables are
// copied by value (static slots are shared) and its translations are
// inherited, except for the reserved lang. namespace.
func (i *Interpreter) enterScope(inherit bool) {
	s := newScope()
	if inherit && len(i.scopes) > 0 {
		parent := i.currentScope()
		for name, slot := range parent.vars {
			if slot.IsLangVar() {
				continue
			}
			if slot.IsStatic() {
				s.vars[name] = slot
			} else {
				s.vars[name] = slot.Copy()
			}
		}
		for k, v := range parent.translations {
			if !strings.HasPrefix(k, reservedTranslation) {
				s.translations[k] = v
			}
		}
	}
	i.seedReserved(s)
	i.scopes = append(i.scopes, s)
}

// exitScope pops the current scope and hands the translations it added or
// changed back to the caller.
func (i *Interpreter) exitScope() error {
	if len(i.scopes) <= 1 {
		return ErrOutermostScope
	}
	s := i.currentScope()
	i.scopes = i.scopes[:len(i.scopes)-1]
	parent := i.currentScope()
	for k, v := range s.translations {
		if !strings.HasPrefix(k, reservedTranslation) {
			parent.translations[k] = v
		}
	}
	return nil
}

// ResetVars removes every non-reserved variable of the current scope and
// clears the error register.
func (i *Interpreter) ResetVars() {
	s := i.currentScope()
	for name, slot := range s.vars {
		if !slot.IsLangVar() {
			delete(s.vars, name)
		}
	}
	i.seedReserved(s)
	i.errno = runtime.ErrorNone
}

func (i *Interpreter) seedReserved(s *scope) {
	for name, slot := range i.reserved {
		s.vars[name] = slot
	}
	args := make([]*runtime.DataObject, len(i.args))
	for idx, a := range i.args {
		args[idx] = runtime.Text(a)
	}
	s.vars[argsVariable] = reservedSlot(argsVariable, runtime.Array(args...))
}

// reservedVariables builds the immutable reserved slots shared by every
// scope. &LANG_ARGS is built per scope since its elements are mutable.
func reservedVariables() map[string]*runtime.DataObject {
	vars := map[string]*runtime.DataObject{}
	add := func(name string, value *runtime.DataObject) {
		vars[name] = reservedSlot(name, value)
	}
	add("$LANG_VERSION", runtime.Text(LangVersion))
	add("$LANG_NAME", runtime.Text(LangName))
	add(errnoVariable, runtime.Int(0))
	for _, kind := range runtime.ErrorKinds() {
		add("$LANG_ERROR_"+kind.String(), runtime.ErrorValue(kind, ""))
	}
	for _, t := range runtime.DataTypes() {
		add("$LANG_TYPE_"+t.String(), runtime.TypeValue(t))
	}
	add("$LANG_INT_MAX", runtime.Int(math.MaxInt32))
	add("$LANG_INT_MIN", runtime.Int(math.MinInt32))
	add("$LANG_LONG_MAX", runtime.Long(math.MaxInt64))
	add("$LANG_LONG_MIN", runtime.Long(math.MinInt64))
	add("$LANG_FLOAT_NAN", runtime.Float(float32(math.NaN())))
	add("$LANG_FLOAT_POS_INF", runtime.Float(float32(math.Inf(1))))
	add("$LANG_FLOAT_NEG_INF", runtime.Float(float32(math.Inf(-1))))
	add("$LANG_DOUBLE_NAN", runtime.Double(math.NaN()))
	add("$LANG_DOUBLE_POS_INF", runtime.Double(math.Inf(1)))
	add("$LANG_DOUBLE_NEG_INF", runtime.Double(math.Inf(-1)))
	return vars
}

func reservedSlot(name string, value *runtime.DataObject) *runtime.DataObject {
	// Reserved names always satisfy their naming convention.
	_ = value.SetVariableName(name)
	value.SetFinal()
	value.SetLangVar()
	return value
}

func isReservedName(name string) bool {
	return strings.HasPrefix(name, reservedPrefix) || name == argsVariable
}
