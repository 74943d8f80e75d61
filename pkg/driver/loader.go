package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
)

// Program is a decoded program file.
type Program struct {
	Path string
	Root *ast.List
}

// LoadProgram reads a YAML-encoded program tree from path. Decoding
// failures are returned as *ProgramDiagnosticError.
func LoadProgram(path string) (*Program, error) {
	if path == "" {
		return nil, fmt.Errorf("loader: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", absPath, err)
	}
	root, err := ast.DecodeYAML(data)
	if err != nil {
		return nil, programError(absPath, err)
	}
	return &Program{Path: absPath, Root: root}, nil
}

// LoadPrograms loads every path in order and stops at the first failure.
func LoadPrograms(paths []string) ([]*Program, error) {
	programs := make([]*Program, 0, len(paths))
	for _, path := range paths {
		program, err := LoadProgram(path)
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	return programs, nil
}

func programError(path string, err error) *ProgramDiagnosticError {
	message := err.Error()
	if errors.Is(err, ast.ErrEmptyProgram) {
		message = "program file is empty"
	}
	return &ProgramDiagnosticError{
		Diagnostic: ProgramDiagnostic{
			Severity: SeverityError,
			Message:  message,
			Location: DiagnosticLocation{Path: path},
		},
		Err: err,
	}
}
