package ast

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrEmptyProgram is returned when a document contains no program tree.
var ErrEmptyProgram = errors.New("ast: empty program document")

// DecodeYAML decodes a YAML-encoded program tree. The document is either a
// sequence of nodes or a single node; a non-List root is wrapped in a List.
func DecodeYAML(data []byte) (*List, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: parse yaml: %w", err)
	}
	if raw == nil {
		return nil, ErrEmptyProgram
	}
	return decodeList(raw)
}

// DecodeNode decodes a single node from its generic map form.
func DecodeNode(node map[string]any) (Node, error) {
	return decodeNode(node)
}

func decodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	decoded, err := decodeNodeOfType(node, typ)
	if err != nil {
		return nil, err
	}
	if spanRaw, ok := node["span"].(map[string]any); ok {
		if h, ok := decoded.(interface{ SetSpan(Span) }); ok {
			h.SetSpan(decodeSpan(spanRaw))
		}
	} else if line, ok := node["line"].(int); ok {
		if h, ok := decoded.(interface{ SetSpan(Span) }); ok {
			col, _ := node["column"].(int)
			h.SetSpan(Span{Start: Position{Line: line, Column: col}})
		}
	}
	return decoded, nil
}

func decodeNodeOfType(node map[string]any, typ string) (Node, error) {
	switch NodeType(typ) {
	case NodeList:
		return decodeList(node["nodes"])
	case NodeArgumentSeparator:
		original, _ := node["original"].(string)
		return NewArgumentSeparator(original), nil
	case NodeIntValue:
		v, err := decodeInt(node["value"], math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return NewIntValue(int32(v)), nil
	case NodeLongValue:
		v, err := decodeInt(node["value"], math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, err
		}
		return NewLongValue(v), nil
	case NodeFloatValue:
		v, err := decodeFloat(node["value"])
		if err != nil {
			return nil, err
		}
		return NewFloatValue(float32(v)), nil
	case NodeDoubleValue:
		v, err := decodeFloat(node["value"])
		if err != nil {
			return nil, err
		}
		return NewDoubleValue(v), nil
	case NodeCharValue:
		s, _ := node["value"].(string)
		if utf8.RuneCountInString(s) != 1 {
			return nil, fmt.Errorf("ast: char value must be exactly one character, got %q", s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return NewCharValue(r), nil
	case NodeTextValue:
		s, ok := node["value"].(string)
		if !ok && node["value"] != nil {
			s = fmt.Sprint(node["value"])
		}
		return NewTextValue(s), nil
	case NodeNullValue:
		return NewNullValue(), nil
	case NodeVoidValue:
		return NewVoidValue(), nil
	case NodeUnprocessedVariableName:
		name, _ := node["name"].(string)
		return NewUnprocessedVariableName(name), nil
	case NodeVariableName:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("ast: variable name missing")
		}
		constraint, err := decodeConstraint(node["constraint"])
		if err != nil {
			return nil, err
		}
		v := NewVariableName(name, constraint)
		v.Final, _ = node["final"].(bool)
		v.Static, _ = node["static"].(bool)
		return v, nil
	case NodeUnpack:
		value, err := decodeRequired(node, "value", typ)
		if err != nil {
			return nil, err
		}
		return NewUnpack(value), nil
	case NodeSuper:
		return NewSuper(), nil
	case NodeOperation:
		return decodeOperation(node)
	case NodeAssignment:
		target, err := decodeRequired(node, "target", typ)
		if err != nil {
			return nil, err
		}
		value, err := decodeRequired(node, "value", typ)
		if err != nil {
			return nil, err
		}
		return NewAssignment(target, value), nil
	case NodeTranslation:
		key, _ := node["key"].(string)
		if key == "" {
			return nil, fmt.Errorf("ast: translation key missing")
		}
		value, err := decodeRequired(node, "value", typ)
		if err != nil {
			return nil, err
		}
		return NewTranslation(key, value), nil
	case NodeFunctionCall:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("ast: function call name missing")
		}
		args, err := decodeArguments(node["args"])
		if err != nil {
			return nil, err
		}
		return NewFunctionCall(name, args), nil
	case NodeCallValue:
		callee, err := decodeRequired(node, "callee", typ)
		if err != nil {
			return nil, err
		}
		args, err := decodeArguments(node["args"])
		if err != nil {
			return nil, err
		}
		return NewCallValue(callee, args), nil
	case NodeIfStatement:
		return decodeIfStatement(node)
	case NodeLoopStatement:
		return decodeLoopStatement(node)
	case NodeContinueBreak:
		isContinue, _ := node["continue"].(bool)
		levels, err := decodeOptional(node["levels"])
		if err != nil {
			return nil, err
		}
		return NewContinueBreak(isContinue, levels), nil
	case NodeTryStatement:
		return decodeTryStatement(node)
	case NodeReturn:
		value, err := decodeOptional(node["value"])
		if err != nil {
			return nil, err
		}
		return NewReturn(value), nil
	case NodeThrow:
		value, err := decodeRequired(node, "value", typ)
		if err != nil {
			return nil, err
		}
		message, err := decodeOptional(node["message"])
		if err != nil {
			return nil, err
		}
		return NewThrow(value, message), nil
	case NodeArrayLiteral:
		elements, err := decodeNodes(node["elements"])
		if err != nil {
			return nil, err
		}
		return NewArrayLiteral(elements), nil
	case NodeFunctionDefinition:
		return decodeFunctionDefinition(node)
	case NodeStructDefinition:
		return decodeStructDefinition(node)
	case NodeClassDefinition:
		return decodeClassDefinition(node)
	case NodeParsingError:
		message, _ := node["message"].(string)
		return NewParsingError(message), nil
	case "":
		return nil, fmt.Errorf("ast: node without type: %v", node)
	default:
		return nil, fmt.Errorf("ast: unsupported node type %q", typ)
	}
}

func decodeRequired(node map[string]any, key, typ string) (Node, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("ast: %s missing %s", typ, key)
	}
	return decodeAny(raw)
}

func decodeOptional(raw any) (Node, error) {
	if raw == nil {
		return nil, nil
	}
	return decodeAny(raw)
}

func decodeAny(raw any) (Node, error) {
	switch v := raw.(type) {
	case map[string]any:
		return decodeNode(v)
	case []any:
		return decodeList(v)
	default:
		return nil, fmt.Errorf("ast: expected node, got %T", raw)
	}
}

func decodeList(raw any) (*List, error) {
	switch v := raw.(type) {
	case nil:
		return NewList(), nil
	case *List:
		return v, nil
	case []any:
		nodes, err := decodeNodes(v)
		if err != nil {
			return nil, err
		}
		return NewList(nodes...), nil
	case map[string]any:
		node, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		if list, ok := node.(*List); ok {
			return list, nil
		}
		return NewList(node), nil
	default:
		return nil, fmt.Errorf("ast: expected node list, got %T", raw)
	}
}

func decodeNodes(raw any) ([]Node, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("ast: expected sequence, got %T", raw)
	}
	out := make([]Node, 0, len(items))
	for _, item := range items {
		node, err := decodeAny(item)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

// decodeArguments inserts separators between arguments unless the document
// already spells them out.
func decodeArguments(raw any) ([]Node, error) {
	nodes, err := decodeNodes(raw)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if _, ok := n.(*ArgumentSeparator); ok {
			return nodes, nil
		}
	}
	return Args(nodes...), nil
}

func decodeSpan(raw map[string]any) Span {
	var span Span
	if start, ok := raw["start"].(map[string]any); ok {
		span.Start.Line, _ = start["line"].(int)
		span.Start.Column, _ = start["column"].(int)
	}
	if end, ok := raw["end"].(map[string]any); ok {
		span.End.Line, _ = end["line"].(int)
		span.End.Column, _ = end["column"].(int)
	}
	return span
}

func decodeInt(raw any, min, max int64) (int64, error) {
	var v int64
	switch n := raw.(type) {
	case int:
		v = int64(n)
	case int64:
		v = n
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("ast: integer %d out of range", n)
		}
		v = int64(n)
	default:
		return 0, fmt.Errorf("ast: expected integer value, got %T", raw)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("ast: integer %d out of range", v)
	}
	return v, nil
}

func decodeFloat(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("ast: expected floating point value, got %T", raw)
	}
}

func decodeConstraint(raw any) (*TypeConstraint, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		types, err := decodeTypeNames(v)
		if err != nil {
			return nil, err
		}
		return &TypeConstraint{Types: types}, nil
	case map[string]any:
		types, err := decodeTypeNames(v["types"])
		if err != nil {
			return nil, err
		}
		deny, _ := v["deny"].(bool)
		return &TypeConstraint{Types: types, Deny: deny}, nil
	default:
		return nil, fmt.Errorf("ast: invalid type constraint %T", raw)
	}
}

// decodeTypeNames reads a list of data type names. An unquoted NULL is a
// YAML null, so a null item names the NULL type.
func decodeTypeNames(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("ast: expected type name list, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			out = append(out, "NULL")
			continue
		}
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("ast: expected string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeOperation(node map[string]any) (Node, error) {
	opName, _ := node["operator"].(string)
	op := Operator(opName)
	info, ok := op.Info()
	if !ok {
		return nil, fmt.Errorf("ast: unknown operator %q", opName)
	}
	category := Category(stringOr(node["category"], string(info.Category)))
	if info.Category == CategoryAll && node["category"] == nil {
		category = CategoryGeneral
	}
	switch category {
	case CategoryGeneral, CategoryMath, CategoryCondition, CategoryAll:
	default:
		return nil, fmt.Errorf("ast: unknown operator category %q", category)
	}
	left, err := decodeOptional(node["left"])
	if err != nil {
		return nil, err
	}
	middle, err := decodeOptional(node["middle"])
	if err != nil {
		return nil, err
	}
	right, err := decodeOptional(node["right"])
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, fmt.Errorf("ast: operation %s missing left operand", op)
	}
	if info.Arity >= 2 && right == nil {
		return nil, fmt.Errorf("ast: operation %s missing right operand", op)
	}
	if info.Arity == 3 && middle == nil {
		return nil, fmt.Errorf("ast: operation %s missing middle operand", op)
	}
	return NewOperation(op, category, left, middle, right), nil
}

func decodeIfStatement(node map[string]any) (Node, error) {
	partsRaw, _ := node["parts"].([]any)
	parts := make([]*IfPart, 0, len(partsRaw))
	for _, raw := range partsRaw {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: invalid if part %T", raw)
		}
		cond, err := decodeOptional(m["condition"])
		if err != nil {
			return nil, err
		}
		body, err := decodeList(m["body"])
		if err != nil {
			return nil, err
		}
		parts = append(parts, &IfPart{Condition: cond, Body: body})
	}
	return NewIfStatement(parts...), nil
}

func decodeLoopStatement(node map[string]any) (Node, error) {
	partsRaw, _ := node["parts"].([]any)
	parts := make([]*LoopPart, 0, len(partsRaw))
	for _, raw := range partsRaw {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: invalid loop part %T", raw)
		}
		part := &LoopPart{Kind: LoopKind(stringOr(m["kind"], string(LoopLoop)))}
		var err error
		if part.Condition, err = decodeOptional(m["condition"]); err != nil {
			return nil, err
		}
		if part.Variable, err = decodeOptional(m["variable"]); err != nil {
			return nil, err
		}
		if part.Count, err = decodeOptional(m["count"]); err != nil {
			return nil, err
		}
		if part.Collection, err = decodeOptional(m["collection"]); err != nil {
			return nil, err
		}
		if part.Body, err = decodeList(m["body"]); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return NewLoopStatement(parts...), nil
}

func decodeTryStatement(node map[string]any) (Node, error) {
	partsRaw, _ := node["parts"].([]any)
	parts := make([]*TryPart, 0, len(partsRaw))
	for _, raw := range partsRaw {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: invalid try part %T", raw)
		}
		part := &TryPart{Kind: TryKind(stringOr(m["kind"], string(TryTry)))}
		var err error
		if m["errors"] != nil {
			if part.Errors, err = decodeNodes(m["errors"]); err != nil {
				return nil, err
			}
		}
		if part.Body, err = decodeList(m["body"]); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return NewTryStatement(parts...), nil
}

func decodeFunctionDefinition(node map[string]any) (*FunctionDefinition, error) {
	name, _ := node["name"].(string)
	combinator, _ := node["combinator"].(bool)
	var deprecated *Deprecation
	if dep, ok := node["deprecated"].(map[string]any); ok {
		deprecated = &Deprecation{
			RemoveVersion: stringOr(dep["removeVersion"], ""),
			Replacement:   stringOr(dep["replacement"], ""),
		}
	}
	var overloads []*FunctionOverload
	if raw, ok := node["overloads"].([]any); ok {
		for _, item := range raw {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("ast: invalid function overload %T", item)
			}
			overload, err := decodeOverload(m)
			if err != nil {
				return nil, err
			}
			overloads = append(overloads, overload)
		}
	} else {
		overload, err := decodeOverload(node)
		if err != nil {
			return nil, err
		}
		overloads = append(overloads, overload)
	}
	return NewFunctionDefinition(name, overloads, combinator, deprecated), nil
}

func decodeOverload(m map[string]any) (*FunctionOverload, error) {
	paramsRaw, _ := m["params"].([]any)
	params := make([]*Parameter, 0, len(paramsRaw))
	for _, raw := range paramsRaw {
		switch p := raw.(type) {
		case string:
			params = append(params, NewParameter(p, nil, ParamNormal))
		case map[string]any:
			name, _ := p["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("ast: parameter name missing")
			}
			constraint, err := decodeConstraint(p["constraint"])
			if err != nil {
				return nil, err
			}
			params = append(params, NewParameter(name, constraint, ParameterMode(stringOr(p["mode"], string(ParamNormal)))))
		default:
			return nil, fmt.Errorf("ast: invalid parameter %T", raw)
		}
	}
	ret, err := decodeConstraint(m["returnConstraint"])
	if err != nil {
		return nil, err
	}
	body, err := decodeList(m["body"])
	if err != nil {
		return nil, err
	}
	doc, _ := m["doc"].(string)
	return &FunctionOverload{Params: params, ReturnConstraint: ret, Body: body, Doc: doc}, nil
}

func decodeStructDefinition(node map[string]any) (Node, error) {
	name, _ := node["name"].(string)
	membersRaw, _ := node["members"].([]any)
	members := make([]*StructMember, 0, len(membersRaw))
	for _, raw := range membersRaw {
		switch m := raw.(type) {
		case string:
			members = append(members, &StructMember{Name: m})
		case map[string]any:
			constraint, err := decodeConstraint(m["constraint"])
			if err != nil {
				return nil, err
			}
			members = append(members, &StructMember{Name: stringOr(m["name"], ""), Constraint: constraint})
		default:
			return nil, fmt.Errorf("ast: invalid struct member %T", raw)
		}
	}
	return NewStructDefinition(name, members), nil
}

func decodeClassDefinition(node map[string]any) (Node, error) {
	name, _ := node["name"].(string)
	parents, err := decodeNodes(node["parents"])
	if err != nil {
		return nil, err
	}
	def := NewClassDefinition(name, parents)
	for _, raw := range asMaps(node["staticMembers"]) {
		constraint, err := decodeConstraint(raw["constraint"])
		if err != nil {
			return nil, err
		}
		value, err := decodeOptional(raw["value"])
		if err != nil {
			return nil, err
		}
		final, _ := raw["final"].(bool)
		def.StaticMembers = append(def.StaticMembers, &ClassStaticMember{
			Name:       stringOr(raw["name"], ""),
			Constraint: constraint,
			Value:      value,
			Final:      final,
			Visibility: decodeVisibility(raw["visibility"]),
		})
	}
	for _, raw := range asMaps(node["members"]) {
		constraint, err := decodeConstraint(raw["constraint"])
		if err != nil {
			return nil, err
		}
		final, _ := raw["final"].(bool)
		def.Members = append(def.Members, &ClassMember{
			Name:       stringOr(raw["name"], ""),
			Constraint: constraint,
			Final:      final,
			Visibility: decodeVisibility(raw["visibility"]),
		})
	}
	for _, raw := range asMaps(node["methods"]) {
		fnRaw, ok := raw["function"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: method %v missing function", raw["name"])
		}
		fn, err := decodeFunctionDefinition(fnRaw)
		if err != nil {
			return nil, err
		}
		override, _ := raw["override"].(bool)
		def.Methods = append(def.Methods, &ClassMethod{
			Name:       stringOr(raw["name"], ""),
			Override:   override,
			Visibility: decodeVisibility(raw["visibility"]),
			Function:   fn,
		})
	}
	for _, raw := range asMaps(node["constructors"]) {
		fnRaw, ok := raw["function"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: constructor missing function")
		}
		fn, err := decodeFunctionDefinition(fnRaw)
		if err != nil {
			return nil, err
		}
		def.Constructors = append(def.Constructors, &ClassConstructor{
			Visibility: decodeVisibility(raw["visibility"]),
			Function:   fn,
		})
	}
	return def, nil
}

func decodeVisibility(raw any) Visibility {
	switch Visibility(stringOr(raw, "")) {
	case VisibilityPrivate:
		return VisibilityPrivate
	case VisibilityProtected:
		return VisibilityProtected
	default:
		return VisibilityPublic
	}
}

func asMaps(raw any) []map[string]any {
	items, _ := raw.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringOr(raw any, fallback string) string {
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	return fallback
}
