package recipe

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/tabkit/errors"
	"github.com/kbukum/tabkit/validation"
)

// Loader loads recipe definitions by name.
type Loader interface {
	Load(name string) (*Recipe, error)
	List() ([]Summary, error)
}

// FileLoader loads recipes from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories for
// recipe YAML files, in order.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

var extensions = []string{".yaml", ".yml"}

// Load returns the recipe named name, read from {name}.yaml or {name}.yml
// in the first directory holding one.
func (l *FileLoader) Load(name string) (*Recipe, error) {
	if strings.ContainsAny(name, `/\`) || name == "" || name == "." || name == ".." {
		return nil, errors.InvalidInput("name", fmt.Sprintf("%q is not a recipe name", name))
	}
	for _, dir := range l.dirs {
		for _, ext := range extensions {
			path := filepath.Join(dir, name+ext)
			r, err := ParseFile(path)
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if r.Name != name {
				return nil, errors.InvalidInput("name",
					fmt.Sprintf("%s declares recipe %q, expected %q", path, r.Name, name))
			}
			return r, nil
		}
	}
	return nil, errors.NotFound("recipe", name)
}

// List summarises every recipe file in the configured directories. A name
// found in several directories is listed once, from the first.
func (l *FileLoader) List() ([]Summary, error) {
	seen := map[string]bool{}
	var out []Summary
	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("recipe: reading %s: %w", dir, err)
		}
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ext)
			if seen[name] {
				continue
			}
			seen[name] = true
			r, err := ParseFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			out = append(out, r.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ParseFile reads and validates one recipe file.
func ParseFile(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("recipe: parsing %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a recipe document. Unknown keys are
// rejected so that misspelt step options do not pass silently.
func Parse(data []byte) (*Recipe, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var r Recipe
	if err := dec.Decode(&r); err != nil {
		return nil, errors.InvalidInput("recipe", err.Error()).WithCause(err)
	}
	if err := validation.Validate(r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Marshal encodes r as a YAML document.
func Marshal(r *Recipe) ([]byte, error) {
	return yaml.Marshal(r)
}

// Resolve flattens r's includes into one list of steps: the steps of each
// included recipe, in include order, then r's own. An include reached
// twice along different paths contributes its steps once; a cycle is an
// error.
func Resolve(r *Recipe, loader Loader) ([]Step, error) {
	stack := make(map[string]bool)
	resolved := make(map[string]bool)
	return resolve(r, loader, stack, resolved)
}

func resolve(r *Recipe, loader Loader, stack, resolved map[string]bool) ([]Step, error) {
	if stack[r.Name] {
		return nil, errors.InvalidInput("includes", fmt.Sprintf("circular include of recipe %q", r.Name))
	}
	stack[r.Name] = true
	defer delete(stack, r.Name)

	var steps []Step
	for _, name := range r.Includes {
		if resolved[name] {
			continue
		}
		sub, err := loader.Load(name)
		if err != nil {
			return nil, fmt.Errorf("recipe %q: include %q: %w", r.Name, name, err)
		}
		subSteps, err := resolve(sub, loader, stack, resolved)
		if err != nil {
			return nil, err
		}
		steps = append(steps, subSteps...)
	}
	steps = append(steps, r.Steps...)
	resolved[r.Name] = true
	return steps, nil
}
