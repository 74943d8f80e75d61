package interpreter

import (
	"fmt"
	"sort"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// Module is a unit of exported variables and functions loaded into an
// interpreter. Exported names take part in lookup after the scope chain.
type Module interface {
	Name() string
	Variables() map[string]*runtime.DataObject
	Functions() map[string]*runtime.FunctionPointer
}

// StaticModule is a Module assembled by host code.
type StaticModule struct {
	ModuleName string
	Vars       map[string]*runtime.DataObject
	Funcs      map[string]*runtime.FunctionPointer
}

func (m *StaticModule) Name() string { return m.ModuleName }

func (m *StaticModule) Variables() map[string]*runtime.DataObject {
	if m.Vars == nil {
		return map[string]*runtime.DataObject{}
	}
	return m.Vars
}

func (m *StaticModule) Functions() map[string]*runtime.FunctionPointer {
	if m.Funcs == nil {
		return map[string]*runtime.FunctionPointer{}
	}
	return m.Funcs
}

// LoadModule makes the exports of m visible. Names exported by an already
// loaded module are rejected.
func (i *Interpreter) LoadModule(m Module) error {
	if m == nil || m.Name() == "" {
		return fmt.Errorf("load module: module must have a name")
	}
	for _, loaded := range i.modules {
		if loaded.Name() == m.Name() {
			return fmt.Errorf("load module %s: already loaded", m.Name())
		}
		if name, ok := collision(loaded, m); ok {
			return fmt.Errorf("load module %s: %s is already exported by module %s", m.Name(), name, loaded.Name())
		}
	}
	for name := range m.Variables() {
		if isReservedName(name) {
			return fmt.Errorf("load module %s: %s is a reserved variable", m.Name(), name)
		}
		if !validVariableName(name) {
			return fmt.Errorf("load module %s: invalid variable name %q", m.Name(), name)
		}
	}
	i.modules = append(i.modules, m)
	return nil
}

func collision(a, b Module) (string, bool) {
	var names []string
	for name := range b.Variables() {
		if _, ok := a.Variables()[name]; ok {
			names = append(names, name)
		}
	}
	for name := range b.Functions() {
		if _, ok := a.Functions()[name]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return names[0], true
}

// UnloadModule removes the module called name. It reports whether the module
// was loaded.
func (i *Interpreter) UnloadModule(name string) bool {
	for idx, m := range i.modules {
		if m.Name() == name {
			i.modules = append(i.modules[:idx], i.modules[idx+1:]...)
			return true
		}
	}
	return false
}

// Modules returns the names of the loaded modules in load order.
func (i *Interpreter) Modules() []string {
	names := make([]string, len(i.modules))
	for idx, m := range i.modules {
		names[idx] = m.Name()
	}
	return names
}

func (i *Interpreter) moduleFunction(name string) (*runtime.FunctionPointer, bool) {
	for idx := len(i.modules) - 1; idx >= 0; idx-- {
		if fp, ok := i.modules[idx].Functions()[name]; ok {
			return fp, true
		}
	}
	return nil, false
}
