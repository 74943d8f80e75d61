package interpreter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

const (
	nativePrefix      = "func."
	nativeShortPrefix = "fn."
)

// NativeRegistry is the statically built table of native functions. Names
// are stored without prefix and resolve as both "func.<name>" and
// "fn.<name>".
type NativeRegistry struct {
	functions map[string]*runtime.FunctionPointer
}

func NewNativeRegistry() *NativeRegistry {
	return &NativeRegistry{functions: make(map[string]*runtime.FunctionPointer)}
}

func nativeKey(name string) string {
	switch {
	case strings.HasPrefix(name, nativePrefix):
		return strings.TrimPrefix(name, nativePrefix)
	case strings.HasPrefix(name, nativeShortPrefix):
		return strings.TrimPrefix(name, nativeShortPrefix)
	default:
		return name
	}
}

// Register adds a native function with one or more overloads.
func (r *NativeRegistry) Register(name string, functions ...*runtime.InternalFunction) error {
	key := nativeKey(name)
	if key == "" {
		return fmt.Errorf("native function name must not be empty")
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("native function %s%s is already registered", nativePrefix, key)
	}
	if len(functions) == 0 {
		return fmt.Errorf("native function %s%s has no signature", nativePrefix, key)
	}
	for _, f := range functions {
		if f == nil || !f.IsNative() {
			return fmt.Errorf("native function %s%s: every signature needs a handler", nativePrefix, key)
		}
	}
	if err := runtime.CheckOverloadSet(functions); err != nil {
		return fmt.Errorf("native function %s%s: %w", nativePrefix, key, err)
	}
	r.functions[key] = runtime.NewFunctionPointer(nativePrefix+key, functions...)
	return nil
}

// MustRegister is Register for start-up code with static signatures.
func (r *NativeRegistry) MustRegister(name string, functions ...*runtime.InternalFunction) {
	if err := r.Register(name, functions...); err != nil {
		panic(err)
	}
}

// Lookup resolves a "func." or "fn." name.
func (r *NativeRegistry) Lookup(name string) (*runtime.FunctionPointer, bool) {
	fp, ok := r.functions[nativeKey(name)]
	return fp, ok
}

// Names returns the registered names with the "func." prefix, sorted.
func (r *NativeRegistry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for key := range r.functions {
		names = append(names, nativePrefix+key)
	}
	sort.Strings(names)
	return names
}
