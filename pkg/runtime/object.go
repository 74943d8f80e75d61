package runtime

import (
	"sort"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
)

const (
	// ConstructorName names the constructor method of every class.
	ConstructorName = "construct"
	methodPrefix    = "mp."
	aliasPrefix     = "fp."
)

// MethodAlias returns the function pointer alias of a method name
// ("mp.x" -> "fp.x").
func MethodAlias(method string) string {
	return aliasPrefix + strings.TrimPrefix(method, methodPrefix)
}

// StaticMember is a shared static slot. Subclasses reference the same slot.
type StaticMember struct {
	Slot           *DataObject
	Visibility     ast.Visibility
	DeclaringClass *Object
}

// MemberDefinition describes an instance member.
type MemberDefinition struct {
	Name           string
	Constraint     *TypeConstraint
	Final          bool
	Visibility     ast.Visibility
	DeclaringClass *Object
}

type StaticMemberSpec struct {
	Name       string
	Value      *DataObject
	Constraint *TypeConstraint
	Final      bool
	Visibility ast.Visibility
}

type MemberSpec struct {
	Name       string
	Constraint *TypeConstraint
	Final      bool
	Visibility ast.Visibility
}

type MethodSpec struct {
	Name       string
	Override   bool
	Visibility ast.Visibility
	Functions  []*InternalFunction
}

type ConstructorSpec struct {
	Visibility ast.Visibility
	Functions  []*InternalFunction
}

// ClassSpec is the evaluated form of a class definition.
type ClassSpec struct {
	Name         string
	Parents      []*Object
	Statics      []StaticMemberSpec
	Members      []MemberSpec
	Methods      []MethodSpec
	Constructors []ConstructorSpec
}

// Object is either a class or an instance of a class.
type Object struct {
	name   string
	parent *Object
	class  *Object

	statics      []*StaticMember
	members      []*MemberDefinition
	methods      map[string][]*InternalFunction
	constructors []*InternalFunction

	memberValues []*DataObject
	superLevel   int
	initialized  bool
	bound        map[string]*FunctionPointer
}

// NewClass validates spec and builds the class. Validation runs in order:
// parent count, member name collisions, per-method overload ambiguity,
// override flags, constructor ambiguity.
func NewClass(spec ClassSpec) (*Object, error) {
	if len(spec.Parents) > 1 {
		return nil, classDefinitionError(spec.Name, "at most one parent class is allowed, got %d", len(spec.Parents))
	}
	var parent *Object
	if len(spec.Parents) == 1 {
		parent = spec.Parents[0]
		if parent == nil || !parent.IsClass() {
			return nil, classDefinitionError(spec.Name, "parent must be a class")
		}
	}
	class := &Object{name: spec.Name, parent: parent, methods: map[string][]*InternalFunction{}}

	if err := class.checkNames(spec); err != nil {
		return nil, err
	}

	own := map[string][]*InternalFunction{}
	var ownOrder []string
	for _, m := range spec.Methods {
		if !strings.HasPrefix(m.Name, methodPrefix) || len(m.Name) == len(methodPrefix) {
			return nil, classDefinitionError(spec.Name, "method name %q must start with %q", m.Name, methodPrefix)
		}
		if _, ok := own[m.Name]; !ok {
			ownOrder = append(ownOrder, m.Name)
		}
		for _, f := range m.Functions {
			fn := f.WithSuperLevel(0)
			fn.Override = m.Override
			fn.Visibility = visibilityOrPublic(m.Visibility)
			fn.DeclaringClass = class
			own[m.Name] = append(own[m.Name], fn)
		}
	}
	for _, name := range ownOrder {
		if err := CheckOverloadSet(own[name]); err != nil {
			return nil, classDefinitionError(spec.Name, "method %s: %v", name, err)
		}
	}
	for _, name := range ownOrder {
		for _, fn := range own[name] {
			inherited := parent != nil && parent.hasSignature(name, fn)
			if fn.Override && !inherited {
				return nil, classDefinitionError(spec.Name, "method %s%s is marked override but no parent method has that signature", name, fn.Signature())
			}
			if !fn.Override && inherited {
				return nil, classDefinitionError(spec.Name, "method %s%s overrides a parent method and must be marked override", name, fn.Signature())
			}
		}
	}

	for _, c := range spec.Constructors {
		for _, f := range c.Functions {
			fn := f.WithSuperLevel(0)
			fn.Visibility = visibilityOrPublic(c.Visibility)
			fn.DeclaringClass = class
			class.constructors = append(class.constructors, fn)
		}
	}
	if len(class.constructors) == 0 {
		fn, _ := NewASTFunction(nil, nil, nil)
		fn.DeclaringClass = class
		class.constructors = []*InternalFunction{fn}
	}
	if err := CheckOverloadSet(class.constructors); err != nil {
		return nil, classDefinitionError(spec.Name, "constructors: %v", err)
	}

	for _, s := range spec.Statics {
		slot := NewDataObject()
		if err := slot.SetVariableName(s.Name); err != nil {
			return nil, classDefinitionError(spec.Name, "static member %s: %v", s.Name, err)
		}
		if s.Value != nil {
			if err := slot.SetData(s.Value); err != nil {
				return nil, classDefinitionError(spec.Name, "static member %s: %v", s.Name, err)
			}
		}
		if s.Constraint != nil {
			if err := slot.SetTypeConstraint(s.Constraint); err != nil {
				return nil, classDefinitionError(spec.Name, "static member %s: %v", s.Name, err)
			}
		}
		slot.SetStatic(true)
		if s.Final {
			slot.SetFinal()
		}
		class.statics = append(class.statics, &StaticMember{Slot: slot, Visibility: visibilityOrPublic(s.Visibility), DeclaringClass: class})
	}
	if parent != nil {
		class.statics = append(class.statics, parent.statics...)
		class.members = append(class.members, parent.members...)
	}
	for _, m := range spec.Members {
		class.members = append(class.members, &MemberDefinition{
			Name:           m.Name,
			Constraint:     m.Constraint,
			Final:          m.Final,
			Visibility:     visibilityOrPublic(m.Visibility),
			DeclaringClass: class,
		})
	}

	for name, fns := range own {
		class.methods[name] = append(class.methods[name], fns...)
	}
	if parent != nil {
		for name, fns := range parent.methods {
			for _, f := range fns {
				class.methods[name] = append(class.methods[name], f.WithSuperLevel(f.SuperLevel+1))
			}
		}
	}
	return class, nil
}

func (c *Object) checkNames(spec ClassSpec) error {
	inherited := map[string]bool{}
	inheritedAliases := map[string]bool{}
	if c.parent != nil {
		for _, s := range c.parent.statics {
			inherited[s.Slot.VariableName()] = true
		}
		for _, m := range c.parent.members {
			inherited[m.Name] = true
		}
		for name := range c.parent.methods {
			inheritedAliases[MethodAlias(name)] = true
		}
	}
	own := map[string]bool{}
	declare := func(kind, name string) error {
		if name == "" {
			return classDefinitionError(spec.Name, "%s name must not be empty", kind)
		}
		if own[name] {
			return classDefinitionError(spec.Name, "%s %s collides with another member of the class", kind, name)
		}
		if inherited[name] || inheritedAliases[name] {
			return classDefinitionError(spec.Name, "%s %s collides with an inherited member", kind, name)
		}
		own[name] = true
		return nil
	}
	for _, s := range spec.Statics {
		if err := declare("static member", s.Name); err != nil {
			return err
		}
	}
	for _, m := range spec.Members {
		if err := declare("member", m.Name); err != nil {
			return err
		}
	}
	aliases := map[string]bool{}
	for _, m := range spec.Methods {
		alias := MethodAlias(m.Name)
		if aliases[alias] {
			continue
		}
		aliases[alias] = true
		if own[alias] || inherited[alias] {
			return classDefinitionError(spec.Name, "method alias %s of %s collides with a member", alias, m.Name)
		}
		own[alias] = true
	}
	return nil
}

func (c *Object) hasSignature(method string, fn *InternalFunction) bool {
	for _, f := range c.methods[method] {
		if f.SignatureEqual(fn) {
			return true
		}
	}
	return false
}

func visibilityOrPublic(v ast.Visibility) ast.Visibility {
	if v == "" {
		return ast.VisibilityPublic
	}
	return v
}

//-----------------------------------------------------------------------------
// Instances
//-----------------------------------------------------------------------------

// NewInstance allocates an uninitialized instance of class c: statics are
// shared, members are fresh unconstrained null slots and every method is
// rebound to the instance.
func (c *Object) NewInstance() (*Object, error) {
	if !c.IsClass() {
		return nil, NewLangError(ErrorIncompatibleDataType, "objects can only be created from classes")
	}
	inst := &Object{
		name:         c.name,
		class:        c,
		statics:      c.statics,
		members:      c.members,
		methods:      c.methods,
		constructors: c.constructors,
		memberValues: make([]*DataObject, len(c.members)),
		bound:        make(map[string]*FunctionPointer, len(c.methods)),
	}
	for i, m := range c.members {
		slot := NewDataObject()
		slot.variableName = m.Name
		inst.memberValues[i] = slot
	}
	for name := range c.methods {
		inst.bound[name] = NewFunctionPointer(name, c.MethodOverloads(name, 0)...).BindThis(inst)
	}
	return inst, nil
}

// PostConstruct applies member constraints and finality after the
// constructor ran and marks the instance initialized.
func (o *Object) PostConstruct() error {
	if o.IsClass() {
		return NewLangError(ErrorIncompatibleDataType, "class %s can not be post constructed", o.describe())
	}
	if o.initialized {
		return NewLangError(ErrorInvalidArguments, "object of class %s is already initialized", o.describe())
	}
	for i, m := range o.members {
		slot := o.memberValues[i]
		constraint := m.Constraint
		if constraint == nil {
			constraint = ConstraintForName(m.Name)
		}
		if constraint != nil {
			if err := slot.SetTypeConstraint(constraint); err != nil {
				return err
			}
		}
		if m.Final {
			slot.SetFinal()
		}
	}
	o.initialized = true
	return nil
}

func (o *Object) Name() string        { return o.name }
func (o *Object) IsClass() bool       { return o.class == nil }
func (o *Object) IsInitialized() bool { return o.initialized }

// Class returns the class of an instance, or nil for classes.
func (o *Object) Class() *Object { return o.class }

// Parent returns the parent class of a class or of an instance's class.
func (o *Object) Parent() *Object {
	if o.class != nil {
		return o.class.parent
	}
	return o.parent
}

func (o *Object) SuperLevel() int { return o.superLevel }

// SetSuperLevel changes the dispatch level and returns the previous one.
func (o *Object) SetSuperLevel(level int) int {
	prev := o.superLevel
	o.superLevel = level
	return prev
}

func (o *Object) Statics() []*StaticMember { return o.statics }

func (o *Object) Static(name string) (*StaticMember, bool) {
	for _, s := range o.statics {
		if s.Slot.VariableName() == name {
			return s, true
		}
	}
	return nil, false
}

func (o *Object) Members() []*MemberDefinition { return o.members }

// Member returns an instance member slot and its definition.
func (o *Object) Member(name string) (*DataObject, *MemberDefinition, bool) {
	if o.IsClass() {
		return nil, nil, false
	}
	for i, m := range o.members {
		if m.Name == name {
			return o.memberValues[i], m, true
		}
	}
	return nil, nil, false
}

func (o *Object) HasMethod(name string) bool {
	_, ok := o.methods[name]
	return ok
}

// BoundMethod returns the method bundle bound to this instance.
func (o *Object) BoundMethod(name string) (*FunctionPointer, bool) {
	fp, ok := o.bound[name]
	return fp, ok
}

// MethodOverloads returns the overloads of name declared at minLevel or
// above. An overload hidden by an identical signature at a lower level is
// dropped, so the most derived implementation wins.
func (o *Object) MethodOverloads(name string, minLevel int) []*InternalFunction {
	var out []*InternalFunction
	for _, f := range o.methods[name] {
		if f.SuperLevel < minLevel {
			continue
		}
		shadowed := false
		for _, g := range o.methods[name] {
			if g.SuperLevel >= minLevel && g.SuperLevel < f.SuperLevel && g.SignatureEqual(f) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SuperLevel < out[j].SuperLevel })
	return out
}

// Constructors returns the constructor overloads of the class at level
// inheritance levels above o's class, tagged with that level.
func (o *Object) Constructors(level int) ([]*InternalFunction, bool) {
	class := o
	if o.class != nil {
		class = o.class
	}
	for i := 0; i < level; i++ {
		class = class.parent
		if class == nil {
			return nil, false
		}
	}
	out := make([]*InternalFunction, len(class.constructors))
	for i, f := range class.constructors {
		out[i] = f.WithSuperLevel(level)
	}
	return out, true
}

// IsSubclassOf reports whether class o is other or derives from it.
func (o *Object) IsSubclassOf(other *Object) bool {
	if other == nil {
		return false
	}
	for c := o; c != nil; c = c.parent {
		if c == other {
			return true
		}
	}
	return false
}

// IsInstanceOf walks the class chain of an instance. A class is never an
// instance of anything.
func (o *Object) IsInstanceOf(class *Object) bool {
	if o.IsClass() || class == nil || !class.IsClass() {
		return false
	}
	return o.class.IsSubclassOf(class)
}

// Accessible reports whether code running in accessor (nil outside any
// class) may access a member with the given visibility declared in declaring.
func Accessible(visibility ast.Visibility, declaring, accessor *Object) bool {
	switch visibility {
	case ast.VisibilityPrivate:
		return accessor != nil && accessor == declaring
	case ast.VisibilityProtected:
		return accessor != nil && accessor.IsSubclassOf(declaring)
	default:
		return true
	}
}

func (o *Object) describe() string {
	if o.name == "" {
		return "<anonymous>"
	}
	return o.name
}

func (o *Object) String() string {
	if o.IsClass() {
		return "<Class:" + o.describe() + ">"
	}
	return "<Object:" + o.describe() + ">"
}
