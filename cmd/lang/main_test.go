package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const helloProgram = `
- type: FunctionCall
  name: func.println
  args:
    - {type: TextValue, value: hello}
`

func writeProgram(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("version output = %q, want %q", stdout, cliToolVersion)
	}
}

func TestHelp(t *testing.T) {
	code, _, stderr := runCLI(t, "--help")
	if code != 0 || !strings.HasPrefix(stderr, "Usage:") {
		t.Fatalf("unexpected help result %d %q", code, stderr)
	}
}

func TestRunProgramFile(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "hello.yml", helloProgram)
	code, stdout, stderr := runCLI(t, "run", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if stdout != "hello\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "hello\n")
	}
}

func TestRunKeepsProgramOutputInOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, word := range []string{"one", "two", "three"} {
		paths = append(paths, writeProgram(t, dir, word+".yml", strings.ReplaceAll(helloProgram, "hello", word)))
	}
	code, stdout, stderr := runCLI(t, append([]string{"--jobs", "3"}, paths...)...)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if stdout != "one\ntwo\nthree\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunReportsErrorsAndContinues(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "div.yml", `
- type: Operation
  operator: DIV
  category: math
  left: {type: IntValue, value: 1}
  right: {type: IntValue, value: 0}
`+helloProgram)
	code, stdout, stderr := runCLI(t, path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "hello\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "level=ERROR") || !strings.Contains(stderr, "kind=DIV_BY_ZERO") {
		t.Fatalf("stderr does not carry the diagnostic: %q", stderr)
	}
}

func TestRunUncaughtErrorFails(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "throw.yml", `
- type: Throw
  value: {type: VariableName, name: $LANG_ERROR_NO_NUM}
`)
	code, _, stderr := runCLI(t, path)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if strings.Count(stderr, "kind=NO_NUM") != 1 {
		t.Fatalf("expected the uncaught error to be reported once: %q", stderr)
	}
}

func TestRunPassesProgramArguments(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "args.yml", `
- type: FunctionCall
  name: func.println
  args:
    - type: FunctionCall
      name: func.len
      args:
        - {type: VariableName, name: "&LANG_ARGS"}
`)
	code, stdout, stderr := runCLI(t, path, "--", "a", "b")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if stdout != "2\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "2\n")
	}
}

func TestRunWithManifest(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "main.yml", `
- type: FunctionCall
  name: func.println
  args:
    - type: FunctionCall
      name: func.getTranslationValue
      args:
        - {type: TextValue, value: greeting}
`)
	manifest := writeProgram(t, dir, "lang.yml", `
name: demo
entries: main.yml
translations:
  greeting: hi there
`)
	code, stdout, stderr := runCLI(t, "run", "--manifest", manifest)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if stdout != "hi there\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunWithoutStdlib(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "hello.yml", helloProgram)
	code, stdout, stderr := runCLI(t, "--no-stdlib", path)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if stdout != "" || !strings.Contains(stderr, "kind=FUNCTION_NOT_FOUND") {
		t.Fatalf("expected a missing native, got stdout %q stderr %q", stdout, stderr)
	}
}

func TestRunLoadFailure(t *testing.T) {
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "missing.yml"))
	if code != 1 || !strings.Contains(stderr, "failed to load program") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.yml", helloProgram)
	bad := writeProgram(t, dir, "bad.yml", "- {type: Nope}\n")

	code, stdout, _ := runCLI(t, "check", good)
	if code != 0 || stdout != "ok "+good+" (1 top-level nodes)\n" {
		t.Fatalf("unexpected check result %d %q", code, stdout)
	}

	code, _, stderr := runCLI(t, "check", good, bad)
	if code != 1 || !strings.HasPrefix(stderr, bad+": ") {
		t.Fatalf("unexpected check result %d %q", code, stderr)
	}
}
