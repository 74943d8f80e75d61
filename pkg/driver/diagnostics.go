package driver

import (
	"fmt"
	"strings"
)

// DiagnosticSeverity classifies a diagnostic.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota
	SeverityWarning
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// DiagnosticLocation points at a source range inside a program file.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

func (l DiagnosticLocation) IsZero() bool { return l == DiagnosticLocation{} }

func (l DiagnosticLocation) String() string {
	var parts []string
	if l.Path != "" {
		parts = append(parts, l.Path)
	}
	if l.Line > 0 {
		parts = append(parts, fmt.Sprint(l.Line))
		if l.Column > 0 {
			parts = append(parts, fmt.Sprint(l.Column))
		}
	}
	return strings.Join(parts, ":")
}

// ProgramDiagnostic describes a problem found while loading a program file.
type ProgramDiagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	Location DiagnosticLocation
}

// ProgramDiagnosticError wraps a ProgramDiagnostic as an error.
type ProgramDiagnosticError struct {
	Diagnostic ProgramDiagnostic
	Err        error
}

func (e *ProgramDiagnosticError) Error() string {
	loc := e.Diagnostic.Location.String()
	if loc == "" {
		return e.Diagnostic.Message
	}
	return loc + ": " + e.Diagnostic.Message
}

func (e *ProgramDiagnosticError) Unwrap() error { return e.Err }
