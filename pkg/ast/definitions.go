package ast

// Definitions

type ParameterMode string

const (
	ParamNormal        ParameterMode = "normal"
	ParamCallByPointer ParameterMode = "pointer"
	ParamVarArgs       ParameterMode = "varargs"
	ParamBoolean       ParameterMode = "boolean"
	ParamNumber        ParameterMode = "number"
	ParamCallable      ParameterMode = "callable"
)

type Parameter struct {
	Name       string
	Constraint *TypeConstraint
	Mode       ParameterMode
}

func NewParameter(name string, constraint *TypeConstraint, mode ParameterMode) *Parameter {
	if mode == "" {
		mode = ParamNormal
	}
	return &Parameter{Name: name, Constraint: constraint, Mode: mode}
}

// FunctionOverload is one signature of a function bundle together with its body.
type FunctionOverload struct {
	Params           []*Parameter
	ReturnConstraint *TypeConstraint
	Body             *List
	Doc              string
}

type Deprecation struct {
	RemoveVersion string
	Replacement   string
}

// FunctionDefinition evaluates to a function-pointer value. A named definition
// also binds the value to `fp.<Name>` in the current scope.
type FunctionDefinition struct {
	Header
	Name       string
	Overloads  []*FunctionOverload
	Combinator bool
	Deprecated *Deprecation
}

func NewFunctionDefinition(name string, overloads []*FunctionOverload, combinator bool, deprecated *Deprecation) *FunctionDefinition {
	return &FunctionDefinition{Header: newHeader(NodeFunctionDefinition), Name: name, Overloads: overloads, Combinator: combinator, Deprecated: deprecated}
}

func (n *FunctionDefinition) Children() []Node {
	var out []Node
	for _, o := range n.Overloads {
		if o.Body != nil {
			out = append(out, o.Body)
		}
	}
	return out
}

type StructMember struct {
	Name       string
	Constraint *TypeConstraint
}

// StructDefinition evaluates to a struct definition value; a named definition
// also binds it to `&<Name>`.
type StructDefinition struct {
	Header
	Name    string
	Members []*StructMember
}

func NewStructDefinition(name string, members []*StructMember) *StructDefinition {
	return &StructDefinition{Header: newHeader(NodeStructDefinition), Name: name, Members: members}
}

func (n *StructDefinition) Children() []Node { return nil }

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

type ClassStaticMember struct {
	Name       string
	Constraint *TypeConstraint
	Value      Node
	Final      bool
	Visibility Visibility
}

type ClassMember struct {
	Name       string
	Constraint *TypeConstraint
	Final      bool
	Visibility Visibility
}

type ClassMethod struct {
	Name       string
	Override   bool
	Visibility Visibility
	Function   *FunctionDefinition
}

type ClassConstructor struct {
	Visibility Visibility
	Function   *FunctionDefinition
}

// ClassDefinition evaluates to a class value; a named definition also binds it
// to `&<Name>`.
type ClassDefinition struct {
	Header
	Name          string
	Parents       []Node
	StaticMembers []*ClassStaticMember
	Members       []*ClassMember
	Methods       []*ClassMethod
	Constructors  []*ClassConstructor
}

func NewClassDefinition(name string, parents []Node) *ClassDefinition {
	return &ClassDefinition{Header: newHeader(NodeClassDefinition), Name: name, Parents: parents}
}

func (n *ClassDefinition) Children() []Node {
	out := append([]Node{}, n.Parents...)
	for _, s := range n.StaticMembers {
		out = append(out, nonNil(s.Value)...)
	}
	for _, m := range n.Methods {
		if m.Function != nil {
			out = append(out, m.Function)
		}
	}
	for _, c := range n.Constructors {
		if c.Function != nil {
			out = append(out, c.Function)
		}
	}
	return out
}
