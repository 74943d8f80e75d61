package ast

import "fmt"

type NodeType string

const (
	NodeList                    NodeType = "List"
	NodeArgumentSeparator       NodeType = "ArgumentSeparator"
	NodeIntValue                NodeType = "IntValue"
	NodeLongValue               NodeType = "LongValue"
	NodeFloatValue              NodeType = "FloatValue"
	NodeDoubleValue             NodeType = "DoubleValue"
	NodeCharValue               NodeType = "CharValue"
	NodeTextValue               NodeType = "TextValue"
	NodeNullValue               NodeType = "NullValue"
	NodeVoidValue               NodeType = "VoidValue"
	NodeUnprocessedVariableName NodeType = "UnprocessedVariableName"
	NodeVariableName            NodeType = "VariableName"
	NodeUnpack                  NodeType = "Unpack"
	NodeSuper                   NodeType = "Super"
	NodeOperation               NodeType = "Operation"
	NodeAssignment              NodeType = "Assignment"
	NodeTranslation             NodeType = "Translation"
	NodeFunctionCall            NodeType = "FunctionCall"
	NodeCallValue               NodeType = "CallValue"
	NodeIfStatement             NodeType = "IfStatement"
	NodeLoopStatement           NodeType = "LoopStatement"
	NodeContinueBreak           NodeType = "ContinueBreak"
	NodeTryStatement            NodeType = "TryStatement"
	NodeReturn                  NodeType = "Return"
	NodeThrow                   NodeType = "Throw"
	NodeArrayLiteral            NodeType = "ArrayLiteral"
	NodeFunctionDefinition      NodeType = "FunctionDefinition"
	NodeStructDefinition        NodeType = "StructDefinition"
	NodeClassDefinition         NodeType = "ClassDefinition"
	NodeParsingError            NodeType = "ParsingError"
)

// Position is a 1-based line/column pair; the zero value means "unknown".
type Position struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
}

type Span struct {
	Start Position `yaml:"start"`
	End   Position `yaml:"end"`
}

func (s Span) IsZero() bool { return s == Span{} }

func (s Span) String() string {
	switch {
	case s.Start.Line > 0 && s.Start.Column > 0:
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	case s.Start.Line > 0:
		return fmt.Sprintf("%d", s.Start.Line)
	default:
		return "?"
	}
}

// Node is implemented by every concrete node kind. The set of kinds is closed:
// evaluators switch exhaustively over the concrete pointer types.
type Node interface {
	NodeType() NodeType
	Span() Span
	Children() []Node
	isNode()
}

// Header carries the fields shared by all nodes.
type Header struct {
	Type NodeType
	Pos  Span
}

func newHeader(kind NodeType) Header {
	return Header{Type: kind}
}

func (h *Header) NodeType() NodeType { return h.Type }
func (h *Header) Span() Span         { return h.Pos }
func (h *Header) SetSpan(span Span)  { h.Pos = span }
func (*Header) isNode()              {}

// WithSpan sets the span of n and returns it, for use in builders and decoders.
func WithSpan[T interface {
	Node
	SetSpan(Span)
}](n T, span Span) T {
	n.SetSpan(span)
	return n
}

func nonNil(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

//-----------------------------------------------------------------------------
// Composite
//-----------------------------------------------------------------------------

// List is an ordered sequence of nodes: a program, a block body, or a group of
// argument parts.
type List struct {
	Header
	Nodes []Node
}

func NewList(nodes ...Node) *List {
	return &List{Header: newHeader(NodeList), Nodes: nodes}
}

func (n *List) Children() []Node { return n.Nodes }

// ArgumentSeparator delimits arguments inside a call's argument list.
type ArgumentSeparator struct {
	Header
	Original string
}

func NewArgumentSeparator(original string) *ArgumentSeparator {
	return &ArgumentSeparator{Header: newHeader(NodeArgumentSeparator), Original: original}
}

func (n *ArgumentSeparator) Children() []Node { return nil }

//-----------------------------------------------------------------------------
// Value literals
//-----------------------------------------------------------------------------

type IntValue struct {
	Header
	Value int32
}

func NewIntValue(v int32) *IntValue {
	return &IntValue{Header: newHeader(NodeIntValue), Value: v}
}

func (n *IntValue) Children() []Node { return nil }

type LongValue struct {
	Header
	Value int64
}

func NewLongValue(v int64) *LongValue {
	return &LongValue{Header: newHeader(NodeLongValue), Value: v}
}

func (n *LongValue) Children() []Node { return nil }

type FloatValue struct {
	Header
	Value float32
}

func NewFloatValue(v float32) *FloatValue {
	return &FloatValue{Header: newHeader(NodeFloatValue), Value: v}
}

func (n *FloatValue) Children() []Node { return nil }

type DoubleValue struct {
	Header
	Value float64
}

func NewDoubleValue(v float64) *DoubleValue {
	return &DoubleValue{Header: newHeader(NodeDoubleValue), Value: v}
}

func (n *DoubleValue) Children() []Node { return nil }

type CharValue struct {
	Header
	Value rune
}

func NewCharValue(v rune) *CharValue {
	return &CharValue{Header: newHeader(NodeCharValue), Value: v}
}

func (n *CharValue) Children() []Node { return nil }

type TextValue struct {
	Header
	Value string
}

func NewTextValue(v string) *TextValue {
	return &TextValue{Header: newHeader(NodeTextValue), Value: v}
}

func (n *TextValue) Children() []Node { return nil }

type NullValue struct {
	Header
}

func NewNullValue() *NullValue {
	return &NullValue{Header: newHeader(NodeNullValue)}
}

func (n *NullValue) Children() []Node { return nil }

type VoidValue struct {
	Header
}

func NewVoidValue() *VoidValue {
	return &VoidValue{Header: newHeader(NodeVoidValue)}
}

func (n *VoidValue) Children() []Node { return nil }

//-----------------------------------------------------------------------------
// Variable references
//-----------------------------------------------------------------------------

// TypeConstraint is the source form of a value-kind constraint: either the
// listed kinds only, or (Deny) every kind except the listed ones.
type TypeConstraint struct {
	Types []string
	Deny  bool
}

// UnprocessedVariableName is a raw name that has not been resolved yet. If no
// variable of that name exists when it is evaluated, it evaluates to its text.
type UnprocessedVariableName struct {
	Header
	Name string
}

func NewUnprocessedVariableName(name string) *UnprocessedVariableName {
	return &UnprocessedVariableName{Header: newHeader(NodeUnprocessedVariableName), Name: name}
}

func (n *UnprocessedVariableName) Children() []Node { return nil }

// VariableName is a resolved variable reference. Constraint, Final and Static
// only matter when the node is the target of a declaring assignment.
type VariableName struct {
	Header
	Name       string
	Constraint *TypeConstraint
	Final      bool
	Static     bool
}

func NewVariableName(name string, constraint *TypeConstraint) *VariableName {
	return &VariableName{Header: newHeader(NodeVariableName), Name: name, Constraint: constraint}
}

func (n *VariableName) Children() []Node { return nil }

// Unpack spreads an array or list value into separate call arguments.
type Unpack struct {
	Header
	Value Node
}

func NewUnpack(value Node) *Unpack {
	return &Unpack{Header: newHeader(NodeUnpack), Value: value}
}

func (n *Unpack) Children() []Node { return nonNil(n.Value) }

// Super refers to the current method's this-object one inheritance level up.
// It is only valid as the left operand of a member access.
type Super struct {
	Header
}

func NewSuper() *Super {
	return &Super{Header: newHeader(NodeSuper)}
}

func (n *Super) Children() []Node { return nil }

//-----------------------------------------------------------------------------
// Operations
//-----------------------------------------------------------------------------

// Operation is a unary, binary or ternary operator application. Unused
// operands are nil: unary operators only set Left, ternary operators use all
// three operands.
type Operation struct {
	Header
	Operator Operator
	Category Category
	Left     Node
	Middle   Node
	Right    Node
}

func NewOperation(op Operator, category Category, left, middle, right Node) *Operation {
	return &Operation{Header: newHeader(NodeOperation), Operator: op, Category: category, Left: left, Middle: middle, Right: right}
}

func (n *Operation) Children() []Node { return nonNil(n.Left, n.Middle, n.Right) }

// Assignment stores Value into Target. Target is a VariableName (declaring or
// updating a variable), a member access, or a GET_ITEM operation.
type Assignment struct {
	Header
	Target Node
	Value  Node
}

func NewAssignment(target, value Node) *Assignment {
	return &Assignment{Header: newHeader(NodeAssignment), Target: target, Value: value}
}

func (n *Assignment) Children() []Node { return nonNil(n.Target, n.Value) }

// Translation stores a text value under Key in the current scope's
// translation map.
type Translation struct {
	Header
	Key   string
	Value Node
}

func NewTranslation(key string, value Node) *Translation {
	return &Translation{Header: newHeader(NodeTranslation), Key: key, Value: value}
}

func (n *Translation) Children() []Node { return nonNil(n.Value) }

//-----------------------------------------------------------------------------
// Calls
//-----------------------------------------------------------------------------

// FunctionCall calls a callable by name: a native (func./fn. prefix), a
// function pointer variable, a method (mp. prefix, inside classes), or a
// struct/class value (instantiation).
type FunctionCall struct {
	Header
	Name string
	Args []Node
}

func NewFunctionCall(name string, args []Node) *FunctionCall {
	return &FunctionCall{Header: newHeader(NodeFunctionCall), Name: name, Args: args}
}

func (n *FunctionCall) Children() []Node { return n.Args }

// CallValue calls the value produced by Callee.
type CallValue struct {
	Header
	Callee Node
	Args   []Node
}

func NewCallValue(callee Node, args []Node) *CallValue {
	return &CallValue{Header: newHeader(NodeCallValue), Callee: callee, Args: args}
}

func (n *CallValue) Children() []Node { return append(nonNil(n.Callee), n.Args...) }

//-----------------------------------------------------------------------------
// Control flow
//-----------------------------------------------------------------------------

// IfPart with a nil Condition is the else part.
type IfPart struct {
	Condition Node
	Body      *List
}

type IfStatement struct {
	Header
	Parts []*IfPart
}

func NewIfStatement(parts ...*IfPart) *IfStatement {
	return &IfStatement{Header: newHeader(NodeIfStatement), Parts: parts}
}

func (n *IfStatement) Children() []Node {
	var out []Node
	for _, p := range n.Parts {
		out = append(out, nonNil(p.Condition)...)
		if p.Body != nil {
			out = append(out, p.Body)
		}
	}
	return out
}

type LoopKind string

const (
	LoopLoop    LoopKind = "loop"
	LoopWhile   LoopKind = "while"
	LoopUntil   LoopKind = "until"
	LoopRepeat  LoopKind = "repeat"
	LoopForEach LoopKind = "foreach"
	LoopElse    LoopKind = "else"
)

// LoopPart describes one part of a loop statement. Condition is used by
// while/until; Variable and Count by repeat; Variable and Collection by
// foreach. Variable may be nil for repeat.
type LoopPart struct {
	Kind       LoopKind
	Condition  Node
	Variable   Node
	Count      Node
	Collection Node
	Body       *List
}

type LoopStatement struct {
	Header
	Parts []*LoopPart
}

func NewLoopStatement(parts ...*LoopPart) *LoopStatement {
	return &LoopStatement{Header: newHeader(NodeLoopStatement), Parts: parts}
}

func (n *LoopStatement) Children() []Node {
	var out []Node
	for _, p := range n.Parts {
		out = append(out, nonNil(p.Condition, p.Variable, p.Count, p.Collection)...)
		if p.Body != nil {
			out = append(out, p.Body)
		}
	}
	return out
}

// ContinueBreak is `con.break` / `con.continue` with an optional level
// expression (nil means one level).
type ContinueBreak struct {
	Header
	Continue bool
	Levels   Node
}

func NewContinueBreak(isContinue bool, levels Node) *ContinueBreak {
	return &ContinueBreak{Header: newHeader(NodeContinueBreak), Continue: isContinue, Levels: levels}
}

func (n *ContinueBreak) Children() []Node { return nonNil(n.Levels) }

type TryKind string

const (
	TryTry     TryKind = "try"
	TrySoftTry TryKind = "softtry"
	TryNonTry  TryKind = "nontry"
	TryCatch   TryKind = "catch"
	TryElse    TryKind = "else"
	TryFinally TryKind = "finally"
)

// TryPart is one part of a try statement. Errors is only used by catch parts:
// nil accepts every error, otherwise each node must evaluate to an error value.
type TryPart struct {
	Kind   TryKind
	Errors []Node
	Body   *List
}

type TryStatement struct {
	Header
	Parts []*TryPart
}

func NewTryStatement(parts ...*TryPart) *TryStatement {
	return &TryStatement{Header: newHeader(NodeTryStatement), Parts: parts}
}

func (n *TryStatement) Children() []Node {
	var out []Node
	for _, p := range n.Parts {
		out = append(out, p.Errors...)
		if p.Body != nil {
			out = append(out, p.Body)
		}
	}
	return out
}

type Return struct {
	Header
	Value Node
}

func NewReturn(value Node) *Return {
	return &Return{Header: newHeader(NodeReturn), Value: value}
}

func (n *Return) Children() []Node { return nonNil(n.Value) }

// Throw raises Value (an error value) with an optional Message.
type Throw struct {
	Header
	Value   Node
	Message Node
}

func NewThrow(value, message Node) *Throw {
	return &Throw{Header: newHeader(NodeThrow), Value: value, Message: message}
}

func (n *Throw) Children() []Node { return nonNil(n.Value, n.Message) }

type ArrayLiteral struct {
	Header
	Elements []Node
}

func NewArrayLiteral(elements []Node) *ArrayLiteral {
	return &ArrayLiteral{Header: newHeader(NodeArrayLiteral), Elements: elements}
}

func (n *ArrayLiteral) Children() []Node { return n.Elements }

// ParsingError is produced by a parser for source it could not understand.
// Evaluating it reports an invalid-node error.
type ParsingError struct {
	Header
	Message string
}

func NewParsingError(message string) *ParsingError {
	return &ParsingError{Header: newHeader(NodeParsingError), Message: message}
}

func (n *ParsingError) Children() []Node { return nil }
