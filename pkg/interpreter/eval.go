package interpreter

import (
	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// interpretNode evaluates one node. Statements without a value return nil.
func (i *Interpreter) interpretNode(node ast.Node) *runtime.DataObject {
	if node == nil {
		return nil
	}
	if i.checkForceStop() || i.state.fatal != nil {
		return nil
	}
	if span := node.Span(); !span.IsZero() {
		i.updatePos(span)
	}
	switch n := node.(type) {
	case *ast.List:
		return i.interpretList(n)
	case *ast.ArgumentSeparator:
		return runtime.ArgumentSeparator(n.Original)
	case *ast.IntValue:
		return runtime.Int(n.Value)
	case *ast.LongValue:
		return runtime.Long(n.Value)
	case *ast.FloatValue:
		return runtime.Float(n.Value)
	case *ast.DoubleValue:
		return runtime.Double(n.Value)
	case *ast.CharValue:
		return runtime.Char(n.Value)
	case *ast.TextValue:
		return runtime.Text(n.Value)
	case *ast.NullValue:
		return runtime.Null()
	case *ast.VoidValue:
		return runtime.Void()
	case *ast.UnprocessedVariableName:
		return i.interpretUnprocessedVariableName(n)
	case *ast.VariableName:
		return i.interpretVariableName(n)
	case *ast.Unpack:
		return i.raise(runtime.ErrorInvalidASTNode, n.Span(), "unpacking is only allowed in argument lists and array literals")
	case *ast.Super:
		return i.raise(runtime.ErrorInvalidASTNode, n.Span(), "super is only allowed as the left operand of a member access")
	case *ast.Operation:
		return i.interpretOperation(n)
	case *ast.Assignment:
		return i.interpretAssignment(n)
	case *ast.Translation:
		return i.interpretTranslation(n)
	case *ast.FunctionCall:
		return i.interpretFunctionCall(n)
	case *ast.CallValue:
		return i.interpretCallValue(n)
	case *ast.IfStatement:
		return i.interpretIfStatement(n)
	case *ast.LoopStatement:
		return i.interpretLoopStatement(n)
	case *ast.ContinueBreak:
		return i.interpretContinueBreak(n)
	case *ast.TryStatement:
		return i.interpretTryStatement(n)
	case *ast.Return:
		return i.interpretReturn(n)
	case *ast.Throw:
		return i.interpretThrow(n)
	case *ast.ArrayLiteral:
		return i.interpretArrayLiteral(n)
	case *ast.FunctionDefinition:
		return i.interpretFunctionDefinition(n)
	case *ast.StructDefinition:
		return i.interpretStructDefinition(n)
	case *ast.ClassDefinition:
		return i.interpretClassDefinition(n)
	case *ast.ParsingError:
		return i.raise(runtime.ErrorInvalidASTNode, n.Span(), "parsing error: %s", n.Message)
	default:
		return i.raise(runtime.ErrorInvalidASTNode, node.Span(), "unsupported node type %s", node.NodeType())
	}
}

// interpretList runs nodes in order until one of them stops execution and
// returns the last value produced.
func (i *Interpreter) interpretList(list *ast.List) *runtime.DataObject {
	if list == nil {
		return nil
	}
	var last *runtime.DataObject
	for _, node := range list.Nodes {
		if i.state.stop {
			break
		}
		if value := i.interpretNode(node); value != nil {
			last = value
		}
	}
	return last
}

// interpretValue evaluates an expression operand. ok is false once execution
// stopped.
func (i *Interpreter) interpretValue(node ast.Node) (*runtime.DataObject, bool) {
	value := i.interpretNode(node)
	if i.state.stop {
		return nil, false
	}
	return orVoid(value), true
}

func (i *Interpreter) interpretArrayLiteral(n *ast.ArrayLiteral) *runtime.DataObject {
	elements := make([]*runtime.DataObject, 0, len(n.Elements))
	for _, el := range n.Elements {
		if _, sep := el.(*ast.ArgumentSeparator); sep {
			continue
		}
		if unpack, ok := el.(*ast.Unpack); ok {
			spread, ok := i.interpretUnpack(unpack)
			if !ok {
				return nil
			}
			for _, v := range spread {
				elements = append(elements, v.CopyValue())
			}
			continue
		}
		value, ok := i.interpretValue(el)
		if !ok {
			return nil
		}
		elements = append(elements, value.CopyValue())
	}
	return runtime.Array(elements...)
}

// interpretUnpack evaluates an unpack node into its element slots.
func (i *Interpreter) interpretUnpack(n *ast.Unpack) ([]*runtime.DataObject, bool) {
	value, ok := i.interpretValue(n.Value)
	if !ok {
		return nil, false
	}
	switch value.Type() {
	case runtime.TypeArray, runtime.TypeList:
		return value.ToArray(), true
	default:
		i.raise(runtime.ErrorInvalidArguments, n.Span(), "only arrays and lists can be unpacked, got %s", value.Type())
		return nil, !i.state.stop
	}
}

func orVoid(value *runtime.DataObject) *runtime.DataObject {
	if value == nil {
		return runtime.Void()
	}
	return value
}
