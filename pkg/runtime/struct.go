package runtime

import (
	"strings"
)

// Struct is either a definition (member names and constraints, no storage)
// or an instance bound to a definition with one slot per member.
type Struct struct {
	name        string
	members     []string
	constraints []*TypeConstraint

	definition *Struct
	values     []*DataObject
}

// NewStructDefinition builds a struct definition. constraints may be nil or
// hold one (possibly nil) entry per member.
func NewStructDefinition(name string, members []string, constraints []*TypeConstraint) (*Struct, error) {
	if constraints != nil && len(constraints) != len(members) {
		return nil, structDefinitionError(name, "%d constraints for %d members", len(constraints), len(members))
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m == "" {
			return nil, structDefinitionError(name, "member name must not be empty")
		}
		if _, dup := seen[m]; dup {
			return nil, structDefinitionError(name, "duplicate member %s", m)
		}
		seen[m] = struct{}{}
	}
	if constraints == nil {
		constraints = make([]*TypeConstraint, len(members))
	}
	return &Struct{
		name:        name,
		members:     append([]string(nil), members...),
		constraints: append([]*TypeConstraint(nil), constraints...),
	}, nil
}

// NewStructInstance creates an instance of def. values may be nil for an
// instance with every member set to null; otherwise it must hold one value per
// member.
func NewStructInstance(def *Struct, values []*DataObject) (*Struct, error) {
	if def == nil || !def.IsDefinition() {
		return nil, NewLangError(ErrorIncompatibleDataType, "struct instances can only be created from struct definitions")
	}
	if values != nil && len(values) != len(def.members) {
		return nil, NewLangError(ErrorInvalidArgCount, "struct %s expects %d values, got %d", def.Name(), len(def.members), len(values))
	}
	inst := &Struct{
		name:        def.name,
		members:     def.members,
		constraints: def.constraints,
		definition:  def,
		values:      make([]*DataObject, len(def.members)),
	}
	for i, member := range def.members {
		slot := NewDataObject()
		if err := slot.SetVariableName(member); err != nil {
			return nil, err
		}
		if values != nil && values[i] != nil {
			if err := slot.SetData(values[i]); err != nil {
				return nil, err
			}
		}
		if c := def.constraints[i]; c != nil {
			if err := slot.SetTypeConstraint(c); err != nil {
				return nil, err
			}
		}
		inst.values[i] = slot
	}
	return inst, nil
}

func (s *Struct) Name() string         { return s.name }
func (s *Struct) IsDefinition() bool    { return s.definition == nil }
func (s *Struct) MemberNames() []string { return s.members }

// Definition returns the definition an instance was built from, or s itself
// for a definition.
func (s *Struct) Definition() *Struct {
	if s.definition == nil {
		return s
	}
	return s.definition
}

func (s *Struct) MemberConstraint(name string) *TypeConstraint {
	if i := s.IndexOf(name); i >= 0 {
		return s.constraints[i]
	}
	return nil
}

func (s *Struct) IndexOf(name string) int {
	for i, m := range s.members {
		if m == name {
			return i
		}
	}
	return -1
}

// Values returns the member slots of an instance (nil for definitions).
func (s *Struct) Values() []*DataObject {
	return s.values
}

// Member returns the slot for name.
func (s *Struct) Member(name string) (*DataObject, error) {
	if s.IsDefinition() {
		return nil, NewLangError(ErrorIncompatibleDataType, "struct definition %s has no member values", s.describe())
	}
	i := s.IndexOf(name)
	if i < 0 {
		return nil, NewLangError(ErrorIncompatibleDataType, "struct %s has no member %s", s.describe(), name)
	}
	return s.values[i], nil
}

// SetMember assigns value to the member slot, honouring its constraint.
func (s *Struct) SetMember(name string, value *DataObject) error {
	slot, err := s.Member(name)
	if err != nil {
		return err
	}
	return slot.SetData(value)
}

// IsInstanceOf reports whether s is an instance of the definition def.
// Definitions are compared by structure: the same member names in the same
// order with equal constraints.
func (s *Struct) IsInstanceOf(def *Struct) bool {
	if s.IsDefinition() || def == nil || !def.IsDefinition() {
		return false
	}
	base := s.definition
	if base == def {
		return true
	}
	if !equalStrings(base.members, def.members) {
		return false
	}
	for idx, c := range base.constraints {
		if !c.Equal(def.constraints[idx]) {
			return false
		}
	}
	return true
}

// DeepCopy clones an instance's member values. Definitions are returned as is.
func (s *Struct) DeepCopy() *Struct {
	if s.IsDefinition() {
		return s
	}
	cp := &Struct{
		name:        s.name,
		members:     s.members,
		constraints: s.constraints,
		definition:  s.definition,
		values:      make([]*DataObject, len(s.values)),
	}
	for i, v := range s.values {
		slot := v.DeepCopy()
		slot.variableName = v.variableName
		slot.constraint = v.constraint
		cp.values[i] = slot
	}
	return cp
}

func (s *Struct) describe() string {
	if s.name == "" {
		return "<anonymous>"
	}
	return s.name
}

func (s *Struct) writeText(b *strings.Builder, depth int) {
	if s.IsDefinition() {
		b.WriteString("<Struct[Definition]:")
		b.WriteString(s.describe())
		b.WriteString(">{")
		b.WriteString(strings.Join(s.members, ", "))
		b.WriteString("}")
		return
	}
	b.WriteString("{")
	for i, m := range s.members {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m)
		b.WriteString(": ")
		s.values[i].writeText(b, depth+1)
	}
	b.WriteString("}")
}
