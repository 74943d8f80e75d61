package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "lang.yml"

const (
	DefaultMaxCallDepth = 1000

	reservedTranslationPrefix = "lang."
)

// ErrManifestNotFound is returned when no manifest exists in a directory or
// any of its parents.
var ErrManifestNotFound = errors.New("manifest: lang.yml not found")

// Manifest represents the parsed contents of lang.yml.
type Manifest struct {
	Path string
	Name string
	// Entries are absolute paths of the program files, in manifest order.
	Entries      []string
	Args         []string
	Warnings     bool
	MaxCallDepth int
	Translations map[string]string
	Stdlib       bool
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// TranslationKeys returns the translation keys in sorted order.
func (m *Manifest) TranslationKeys() []string {
	keys := make([]string, 0, len(m.Translations))
	for k := range m.Translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses lang.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}
	// Without dereferencing, explicit false and zero settings survive.
	if err := mergo.Merge(&raw, manifestDefaults(), mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("manifest: apply defaults: %w", err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start towards the file system root and returns
// the path of the first lang.yml found.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched from %s)", ErrManifestNotFound, start)
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if len(m.Entries) == 0 {
		errs.Issues = append(errs.Issues, "entries must list at least one program file")
	}
	seen := make(map[string]struct{}, len(m.Entries))
	for _, entry := range m.Entries {
		if _, dup := seen[entry]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("entry %s is listed more than once", entry))
		}
		seen[entry] = struct{}{}
	}
	if m.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("maxCallDepth must be positive (got %d)", m.MaxCallDepth))
	}
	for _, key := range m.TranslationKeys() {
		switch {
		case key == "":
			errs.Issues = append(errs.Issues, "translations must not use empty keys")
		case strings.HasPrefix(key, reservedTranslationPrefix):
			errs.Issues = append(errs.Issues, fmt.Sprintf("translation key %q uses the reserved %q namespace", key, reservedTranslationPrefix))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type manifestFile struct {
	Name         string            `yaml:"name"`
	Entries      stringList        `yaml:"entries"`
	Args         stringList        `yaml:"args"`
	Warnings     *bool             `yaml:"warnings"`
	MaxCallDepth *int              `yaml:"maxCallDepth"`
	Translations map[string]string `yaml:"translations"`
	Stdlib       *bool             `yaml:"stdlib"`
}

func manifestDefaults() manifestFile {
	warnings := true
	depth := DefaultMaxCallDepth
	stdlib := true
	return manifestFile{
		Warnings:     &warnings,
		MaxCallDepth: &depth,
		Stdlib:       &stdlib,
	}
}

func (mf manifestFile) toManifest(path string) *Manifest {
	dir := filepath.Dir(path)
	result := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Args:         mf.Args.Clone(),
		Translations: make(map[string]string, len(mf.Translations)),
	}
	for _, entry := range mf.Entries.Clone() {
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(dir, entry)
		}
		result.Entries = append(result.Entries, filepath.Clean(entry))
	}
	for k, v := range mf.Translations {
		result.Translations[strings.TrimSpace(k)] = v
	}
	if mf.Warnings != nil {
		result.Warnings = *mf.Warnings
	}
	if mf.MaxCallDepth != nil {
		result.MaxCallDepth = *mf.MaxCallDepth
	}
	if mf.Stdlib != nil {
		result.Stdlib = *mf.Stdlib
	}
	return result
}

type stringList []string

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("manifest: expected a string or a list of strings")
	}
}
