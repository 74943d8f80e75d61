package runtime

import (
	"errors"
	"fmt"
	"sort"
)

// ErrorKind is a structured language error code: positive codes are errors,
// negative codes are warnings and zero means no error.
type ErrorKind int

const ErrorNone ErrorKind = 0

const (
	ErrorFinalVarChange ErrorKind = iota + 1
	ErrorStackOverflow
	ErrorInvalidArgCount
	ErrorInvalidArrPtr
	ErrorNoNum
	ErrorDivByZero
	ErrorIndexOutOfBounds
	ErrorInvalidArguments
	ErrorFunctionNotFound
	ErrorInvalidFuncPtr
	ErrorInvalidASTNode
	ErrorInvalidPtr
	ErrorIncompatibleDataType
	ErrorInvalidConPart
	ErrorInvalidAssignment
	ErrorMemberNotAccessible
	ErrorConstraintViolated
	ErrorNotFound
	ErrorStopped
	ErrorSystemError
	ErrorNegativeRepeatCount
	ErrorInvalidCombinatorCall
	ErrorNoBool
	ErrorNotCallable
)

const (
	WarningDeprecatedFuncCall ErrorKind = -(iota + 1)
	WarningVarShadowing
	WarningInvalidDocComment
)

type errorKindInfo struct {
	name        string
	description string
}

var errorKinds = map[ErrorKind]errorKindInfo{
	ErrorNone:                  {"NO_ERROR", "No error"},
	ErrorFinalVarChange:        {"FINAL_VAR_CHANGE", "LANG or final vars must not be changed"},
	ErrorStackOverflow:         {"STACK_OVERFLOW", "Stack overflow"},
	ErrorInvalidArgCount:       {"INVALID_ARG_COUNT", "Invalid argument count"},
	ErrorInvalidArrPtr:         {"INVALID_ARR_PTR", "Invalid array pointer"},
	ErrorNoNum:                 {"NO_NUM", "Value is not a number"},
	ErrorDivByZero:             {"DIV_BY_ZERO", "Integer division by 0"},
	ErrorIndexOutOfBounds:      {"INDEX_OUT_OF_BOUNDS", "Index out of bounds"},
	ErrorInvalidArguments:      {"INVALID_ARGUMENTS", "Invalid arguments"},
	ErrorFunctionNotFound:      {"FUNCTION_NOT_FOUND", "Function not found"},
	ErrorInvalidFuncPtr:        {"INVALID_FUNC_PTR", "Function pointer is invalid"},
	ErrorInvalidASTNode:        {"INVALID_AST_NODE", "Invalid AST node or AST node order"},
	ErrorInvalidPtr:            {"INVALID_PTR", "Invalid pointer"},
	ErrorIncompatibleDataType:  {"INCOMPATIBLE_DATA_TYPE", "Incompatible data type"},
	ErrorInvalidConPart:        {"INVALID_CON_PART", "Invalid statement in control flow statement"},
	ErrorInvalidAssignment:     {"INVALID_ASSIGNMENT", "Invalid assignment"},
	ErrorMemberNotAccessible:   {"MEMBER_NOT_ACCESSIBLE", "The class/object member is not visible from the current scope"},
	ErrorConstraintViolated:    {"CONSTRAINT_VIOLATED", "The data type constraint was violated"},
	ErrorNotFound:              {"NOT_FOUND", "Not found"},
	ErrorStopped:               {"STOPPED", "Execution was stopped"},
	ErrorSystemError:           {"SYSTEM_ERROR", "System error"},
	ErrorNegativeRepeatCount:   {"NEGATIVE_REPEAT_COUNT", "Negative repeat count"},
	ErrorInvalidCombinatorCall: {"INVALID_COMBINATOR_CALL", "Invalid combinator call"},
	ErrorNoBool:                {"NO_BOOL", "Value is not a boolean"},
	ErrorNotCallable:           {"NOT_CALLABLE", "Value is not callable"},
	WarningDeprecatedFuncCall:  {"DEPRECATED_FUNC_CALL", "A deprecated function was called"},
	WarningVarShadowing:        {"VAR_SHADOWING_WARNING", "A variable is shadowed"},
	WarningInvalidDocComment:   {"INVALID_DOC_COMMENT", "Doc comment is invalid"},
}

func (k ErrorKind) String() string {
	if info, ok := errorKinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("UNKNOWN_ERROR_%d", int(k))
}

func (k ErrorKind) Description() string {
	if info, ok := errorKinds[k]; ok {
		return info.description
	}
	return "Unknown error"
}

func (k ErrorKind) IsError() bool   { return k > 0 }
func (k ErrorKind) IsWarning() bool { return k < 0 }

// ParseErrorKind looks an error kind up by name.
func ParseErrorKind(name string) (ErrorKind, bool) {
	for kind, info := range errorKinds {
		if info.name == name {
			return kind, true
		}
	}
	return ErrorNone, false
}

// ErrorKinds returns every known kind except ErrorNone, errors first.
func ErrorKinds() []ErrorKind {
	out := make([]ErrorKind, 0, len(errorKinds))
	for kind := range errorKinds {
		if kind != ErrorNone {
			out = append(out, kind)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a > 0) != (b > 0) {
			return a > 0
		}
		if a > 0 {
			return a < b
		}
		return a > b
	})
	return out
}

//-----------------------------------------------------------------------------
// Error values
//-----------------------------------------------------------------------------

// ErrorObject is the payload of an ERROR value.
type ErrorObject struct {
	Kind    ErrorKind
	Message string
}

func NewErrorObject(kind ErrorKind, message string) *ErrorObject {
	return &ErrorObject{Kind: kind, Message: message}
}

func (e *ErrorObject) String() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// LangError carries a structured language error through Go error returns.
type LangError struct {
	Kind    ErrorKind
	Message string
}

func NewLangError(kind ErrorKind, format string, args ...any) *LangError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &LangError{Kind: kind, Message: msg}
}

func (e *LangError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Is matches any LangError of the same kind.
func (e *LangError) Is(target error) bool {
	var other *LangError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// ErrorObject converts the error into an ERROR payload.
func (e *LangError) ErrorObject() *ErrorObject {
	return NewErrorObject(e.Kind, e.Message)
}

// KindOf extracts the language error kind from err. Errors that are not
// language errors map to SYSTEM_ERROR.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorNone
	}
	var langErr *LangError
	if errors.As(err, &langErr) {
		return langErr.Kind
	}
	return ErrorSystemError
}

// DefinitionError reports a malformed struct or class definition. It is a
// fatal condition and never becomes a language value.
type DefinitionError struct {
	What    string
	Name    string
	Message string
}

func (e *DefinitionError) Error() string {
	name := e.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("invalid %s definition %s: %s", e.What, name, e.Message)
}

func structDefinitionError(name, format string, args ...any) *DefinitionError {
	return &DefinitionError{What: "struct", Name: name, Message: fmt.Sprintf(format, args...)}
}

func classDefinitionError(name, format string, args ...any) *DefinitionError {
	return &DefinitionError{What: "class", Name: name, Message: fmt.Sprintf(format, args...)}
}
