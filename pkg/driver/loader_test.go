package driver

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
)

func TestLoadProgram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.yml")
	writeFile(t, path, `
- type: Assignment
  target: {type: VariableName, name: $a}
  value: {type: IntValue, value: 1}
`)
	program, err := LoadProgram(path)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if program.Path != path {
		t.Fatalf("Path = %q, want %q", program.Path, path)
	}
	want := ast.Prog(ast.Assign(ast.Var("$a"), ast.Int(1)))
	if diff := cmp.Diff(want, program.Root); diff != "" {
		t.Fatalf("program mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProgramReportsDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		contents string
		message  string
	}{
		{"empty", "", "program file is empty"},
		{"unknown node", "- {type: Nope}\n", "Nope"},
		{"broken yaml", "- [\n", "ast: parse yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yml")
			writeFile(t, path, tc.contents)
			_, err := LoadProgram(path)
			var diagErr *ProgramDiagnosticError
			if !errors.As(err, &diagErr) {
				t.Fatalf("expected *ProgramDiagnosticError, got %v", err)
			}
			if diagErr.Diagnostic.Location.Path != path {
				t.Fatalf("location path = %q, want %q", diagErr.Diagnostic.Location.Path, path)
			}
			if !strings.Contains(diagErr.Diagnostic.Message, tc.message) {
				t.Fatalf("message %q does not mention %q", diagErr.Diagnostic.Message, tc.message)
			}
			if !strings.HasPrefix(err.Error(), path+": ") {
				t.Fatalf("error %q is not prefixed with the path", err.Error())
			}
		})
	}
}

func TestLoadProgramsStopsAtMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	writeFile(t, good, "[]\n")
	if _, err := LoadPrograms([]string{good, filepath.Join(dir, "missing.yml")}); err == nil {
		t.Fatalf("expected an error for the missing file")
	}
	programs, err := LoadPrograms([]string{good})
	if err != nil {
		t.Fatalf("LoadPrograms: %v", err)
	}
	if len(programs) != 1 || len(programs[0].Root.Nodes) != 0 {
		t.Fatalf("unexpected programs %+v", programs)
	}
}
