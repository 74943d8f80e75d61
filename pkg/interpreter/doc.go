// Package interpreter evaluates Lang program trees produced by pkg/ast. It owns
// the scope stack, the diagnostic call stack and the shared execution state
// through which return, throw, break/continue and try statements propagate.
// Natives are supplied through a NativeRegistry and modules through Module
// values; diagnostics leave the interpreter only through a Reporter.
package interpreter
