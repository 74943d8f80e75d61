package interpreter

import (
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// validVariableName reports whether name follows one of the variable naming
// conventions.
func validVariableName(name string) bool {
	for _, prefix := range []string{"$", "&", "fp.", "mp."} {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return true
		}
	}
	return false
}

// lookupVariable resolves name in the current scope, then in loaded modules
// (latest first). Reading $LANG_ERRNO consumes the error register.
func (i *Interpreter) lookupVariable(name string) (*runtime.DataObject, bool) {
	if name == errnoVariable {
		return reservedSlot(errnoVariable, runtime.Int(int32(i.GetAndClearError()))), true
	}
	if slot, ok := i.currentScope().vars[name]; ok {
		return slot, true
	}
	for idx := len(i.modules) - 1; idx >= 0; idx-- {
		if slot, ok := i.modules[idx].Variables()[name]; ok {
			return slot, true
		}
	}
	return nil, false
}

// declareVariable returns the current scope's slot for name, creating a null
// slot when it does not exist yet.
func (i *Interpreter) declareVariable(name string) (*runtime.DataObject, error) {
	s := i.currentScope()
	if slot, ok := s.vars[name]; ok {
		if slot.IsLangVar() {
			return nil, runtime.NewLangError(runtime.ErrorFinalVarChange, "%s is a reserved variable", name)
		}
		return slot, nil
	}
	if isReservedName(name) {
		return nil, runtime.NewLangError(runtime.ErrorFinalVarChange, "%s is a reserved variable", name)
	}
	if !validVariableName(name) {
		return nil, runtime.NewLangError(runtime.ErrorInvalidAssignment, "invalid variable name %q", name)
	}
	slot := runtime.NewNamedDataObject(name)
	s.vars[name] = slot
	return slot, nil
}

func (i *Interpreter) interpretVariableName(n *ast.VariableName) *runtime.DataObject {
	if slot, ok := i.lookupVariable(n.Name); ok {
		return slot
	}
	if fp, ok := i.lookupFunction(n.Name); ok {
		return runtime.FunctionPointerValue(fp)
	}
	return i.raise(runtime.ErrorNotFound, n.Span(), "variable %s is not defined", n.Name)
}

// interpretUnprocessedVariableName resolves a raw name; an unknown name is
// plain text.
func (i *Interpreter) interpretUnprocessedVariableName(n *ast.UnprocessedVariableName) *runtime.DataObject {
	if slot, ok := i.lookupVariable(n.Name); ok {
		return slot
	}
	if fp, ok := i.lookupFunction(n.Name); ok {
		return runtime.FunctionPointerValue(fp)
	}
	return runtime.Text(n.Name)
}

//-----------------------------------------------------------------------------
// Assignment
//-----------------------------------------------------------------------------

func (i *Interpreter) interpretAssignment(n *ast.Assignment) *runtime.DataObject {
	switch target := n.Target.(type) {
	case *ast.VariableName:
		value, ok := i.interpretValue(n.Value)
		if !ok {
			return nil
		}
		return i.assignVariable(target, value, n.Span())
	case *ast.UnprocessedVariableName:
		value, ok := i.interpretValue(n.Value)
		if !ok {
			return nil
		}
		return i.assignVariable(ast.NewVariableName(target.Name, nil), value, n.Span())
	case *ast.Operation:
		return i.assignOperation(target, n.Value, n.Span())
	default:
		return i.raise(runtime.ErrorInvalidAssignment, n.Span(), "can not assign to %s", n.Target.NodeType())
	}
}

// assignVariable declares or updates a variable of the current scope. A new
// variable receives the value first, then its naming and declared
// constraints, so a violating declaration never becomes visible.
func (i *Interpreter) assignVariable(target *ast.VariableName, value *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	var constraint *runtime.TypeConstraint
	if target.Constraint != nil {
		c, err := runtime.ConstraintFromAST(target.Constraint)
		if err != nil {
			return i.raiseErr(err, pos)
		}
		constraint = c
	}
	s := i.currentScope()
	slot, exists := s.vars[target.Name]
	if (exists && slot.IsLangVar()) || isReservedName(target.Name) {
		return i.raise(runtime.ErrorFinalVarChange, pos, "%s is a reserved variable", target.Name)
	}
	if !exists {
		if !validVariableName(target.Name) {
			return i.raise(runtime.ErrorInvalidAssignment, pos, "invalid variable name %q", target.Name)
		}
		slot = runtime.NewDataObject()
		if err := slot.SetData(value); err != nil {
			return i.raiseErr(err, pos)
		}
		if err := slot.SetVariableName(target.Name); err != nil {
			return i.raiseErr(err, pos)
		}
	} else if err := slot.SetData(value); err != nil {
		return i.raiseErr(err, pos)
	}
	if constraint != nil {
		if err := slot.SetTypeConstraint(constraint); err != nil {
			return i.raiseErr(err, pos)
		}
	}
	if target.Static || target.Final {
		if err := slot.SetData(withModifiers(slot, target)); err != nil {
			return i.raiseErr(err, pos)
		}
	}
	if !exists {
		s.vars[target.Name] = slot
	}
	return slot
}

// withModifiers returns slot's value carrying the declared static and final
// modifiers, for SetData to transfer onto the slot.
func withModifiers(slot *runtime.DataObject, target *ast.VariableName) *runtime.DataObject {
	decl := slot.CopyValue()
	decl.SetStatic(target.Static || slot.IsStatic())
	if target.Final {
		decl.SetFinal()
	}
	decl.SetCopyStaticAndFinal(true)
	return decl
}

// assignOperation stores into a member, an element or a pointer target. The
// target location is evaluated before the value.
func (i *Interpreter) assignOperation(target *ast.Operation, valueNode ast.Node, pos ast.Span) *runtime.DataObject {
	switch target.Operator {
	case ast.OpNon:
		return i.interpretAssignment(ast.WithSpan(ast.NewAssignment(target.Left, valueNode), pos))
	case ast.OpGetItem:
		collection, ok := i.interpretValue(target.Left)
		if !ok {
			return nil
		}
		index, ok := i.interpretValue(target.Right)
		if !ok {
			return nil
		}
		value, ok := i.interpretValue(valueNode)
		if !ok {
			return nil
		}
		return i.setItem(collection, index, value, pos)
	case ast.OpMemberAccess, ast.OpMemberAccessPointer, ast.OpDereference:
		var slot *runtime.DataObject
		if target.Operator == ast.OpDereference {
			ptr, ok := i.interpretValue(target.Left)
			if !ok {
				return nil
			}
			if ptr.Type() != runtime.TypeVarPointer {
				return i.raise(runtime.ErrorInvalidPtr, pos, "can not dereference %s", ptr.Type())
			}
			slot = ptr.VarPointer()
		} else {
			slot = i.interpretMemberAccess(target)
			if i.state.stop {
				return nil
			}
			if slot == nil || slot.VariableName() == "" {
				return i.raise(runtime.ErrorInvalidAssignment, pos, "member access does not denote an assignable slot")
			}
		}
		value, ok := i.interpretValue(valueNode)
		if !ok {
			return nil
		}
		if slot.IsLangVar() {
			return i.raise(runtime.ErrorFinalVarChange, pos, "%s is a reserved variable", slot.VariableName())
		}
		if err := slot.SetData(value); err != nil {
			return i.raiseErr(err, pos)
		}
		return slot
	default:
		return i.raise(runtime.ErrorInvalidAssignment, pos, "can not assign to the result of %s", target.Operator)
	}
}

//-----------------------------------------------------------------------------
// Translations
//-----------------------------------------------------------------------------

func (i *Interpreter) interpretTranslation(n *ast.Translation) *runtime.DataObject {
	if n.Key == "" {
		return i.raise(runtime.ErrorInvalidArguments, n.Span(), "translation key must not be empty")
	}
	value, ok := i.interpretValue(n.Value)
	if !ok {
		return nil
	}
	text := value.ToText()
	i.currentScope().translations[n.Key] = text
	return runtime.Text(text)
}
