package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifestAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	writeFile(t, path, `
name: demo
entries: main.yml
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	want := &Manifest{
		Path:         path,
		Name:         "demo",
		Entries:      []string{filepath.Join(dir, "main.yml")},
		Warnings:     true,
		MaxCallDepth: DefaultMaxCallDepth,
		Translations: map[string]string{},
		Stdlib:       true,
	}
	if diff := cmp.Diff(want, manifest); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
	if manifest.Dir() != dir {
		t.Fatalf("Dir = %q, want %q", manifest.Dir(), dir)
	}
}

func TestLoadManifestKeepsExplicitSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	writeFile(t, path, `
name: demo
entries:
  - src/a.yml
  - " src/b.yml "
args: [one, two]
warnings: false
maxCallDepth: 50
stdlib: false
translations:
  greeting: hello
  app.title: Demo
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Warnings || manifest.Stdlib {
		t.Fatalf("expected explicit false settings to survive, got warnings=%v stdlib=%v", manifest.Warnings, manifest.Stdlib)
	}
	if manifest.MaxCallDepth != 50 {
		t.Fatalf("MaxCallDepth = %d, want 50", manifest.MaxCallDepth)
	}
	wantEntries := []string{filepath.Join(dir, "src", "a.yml"), filepath.Join(dir, "src", "b.yml")}
	if diff := cmp.Diff(wantEntries, manifest.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"one", "two"}, manifest.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"app.title", "greeting"}, manifest.TranslationKeys()); diff != "" {
		t.Fatalf("translation keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	writeFile(t, path, `
entries: [main.yml, main.yml]
maxCallDepth: 0
translations:
  lang.internal: x
`)
	_, err := LoadManifest(path)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(validation.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %q", validation.Issues)
	}
	if !strings.HasPrefix(err.Error(), "manifest validation failed:\n- name must be provided") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	writeFile(t, path, "name: demo\nentries: main.yml\nversion: 1\n")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "manifest: parse") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	writeFile(t, path, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected an empty manifest error, got %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, ManifestFileName)
	writeFile(t, manifestPath, "name: demo\nentries: main.yml\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if got != manifestPath {
		t.Fatalf("FindManifest = %q, want %q", got, manifestPath)
	}

	program := filepath.Join(nested, "main.yml")
	writeFile(t, program, "[]")
	got, err = FindManifest(program)
	if err != nil {
		t.Fatalf("FindManifest from file: %v", err)
	}
	if got != manifestPath {
		t.Fatalf("FindManifest = %q, want %q", got, manifestPath)
	}
}

func TestFindManifestNotFound(t *testing.T) {
	_, err := FindManifest(t.TempDir())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}
