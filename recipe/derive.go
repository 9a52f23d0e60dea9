package recipe

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/tabkit/csvio"
	"github.com/kbukum/tabkit/tabstream"
)

// Builder makes a derive function for a step with the given number of
// inputs and constant args, or explains why it cannot.
type Builder func(inputs int, args []string) (tabstream.DeriveFunc, error)

// Registry provides named derive function lookup for add_field steps.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Builtins returns a Registry holding the standard derive functions.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register("concat", concat)
	r.Register("upper", unary(strings.ToUpper))
	r.Register("lower", unary(strings.ToLower))
	r.Register("trim", unary(strings.TrimSpace))
	r.Register("const", constant)
	r.Register("coalesce", coalesce)
	return r
}

// Register adds a builder under name, replacing any previous one.
func (r *Registry) Register(name string, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = b
}

// Get retrieves a builder by name.
func (r *Registry) Get(name string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[name]
	return b, ok
}

// List returns sorted names of all registered builders.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// concat joins its inputs as text, separated by args[0] when given.
func concat(inputs int, args []string) (tabstream.DeriveFunc, error) {
	if inputs == 0 {
		return nil, fmt.Errorf("concat needs at least one input")
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("concat takes at most one arg (the separator), got %d", len(args))
	}
	sep := ""
	if len(args) == 1 {
		sep = args[0]
	}
	return func(values ...tabstream.Value) (tabstream.Value, error) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = csvio.FormatValue(v)
		}
		return strings.Join(parts, sep), nil
	}, nil
}

func unary(fn func(string) string) Builder {
	return func(inputs int, args []string) (tabstream.DeriveFunc, error) {
		if inputs != 1 {
			return nil, fmt.Errorf("needs exactly one input, got %d", inputs)
		}
		if len(args) != 0 {
			return nil, fmt.Errorf("takes no args, got %d", len(args))
		}
		return func(values ...tabstream.Value) (tabstream.Value, error) {
			return fn(csvio.FormatValue(values[0])), nil
		}, nil
	}
}

// constant yields args[0] for every row.
func constant(inputs int, args []string) (tabstream.DeriveFunc, error) {
	if inputs != 0 {
		return nil, fmt.Errorf("const takes no inputs, got %d", inputs)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("const needs exactly one arg, got %d", len(args))
	}
	value := args[0]
	return func(...tabstream.Value) (tabstream.Value, error) {
		return value, nil
	}, nil
}

// coalesce yields the first input that is not empty text, then args[0]
// when given, then "".
func coalesce(inputs int, args []string) (tabstream.DeriveFunc, error) {
	if inputs == 0 {
		return nil, fmt.Errorf("coalesce needs at least one input")
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("coalesce takes at most one arg (the fallback), got %d", len(args))
	}
	fallback := ""
	if len(args) == 1 {
		fallback = args[0]
	}
	return func(values ...tabstream.Value) (tabstream.Value, error) {
		for _, v := range values {
			if csvio.FormatValue(v) != "" {
				return v, nil
			}
		}
		return fallback, nil
	}, nil
}
