package recipe

import (
	"fmt"

	"github.com/kbukum/tabkit/tabstream"
	"github.com/kbukum/tabkit/validation"
)

// Compile resolves r's includes and builds one filter running every step
// in order.
func Compile(r *Recipe, loader Loader, reg *Registry) (tabstream.Filter, error) {
	steps, err := Resolve(r, loader)
	if err != nil {
		return nil, err
	}
	return CompileSteps(steps, reg)
}

// CompileSteps builds the filter for an already flattened list of steps.
// Every step is checked before any filter is built; all problems are
// reported together.
func CompileSteps(steps []Step, reg *Registry) (tabstream.Filter, error) {
	v := validation.New()
	filters := make([]tabstream.Filter, 0, len(steps))
	for i, s := range steps {
		if f := compileStep(v, fmt.Sprintf("steps[%d]", i), s, reg); f != nil {
			filters = append(filters, f)
		}
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return tabstream.Pipe(filters...), nil
}

func compileStep(v *validation.Validator, at string, s Step, reg *Registry) tabstream.Filter {
	field := func(name string) string { return at + "." + name }
	before := len(v.Errors())

	switch s.Op {
	case OpPad:
		if s.Filler == nil {
			return tabstream.Pad
		}
		return tabstream.PadWith(*s.Filler)

	case OpRename:
		v.Custom(len(s.Mapping) > 0, field("mapping"), "is required for rename")
		if len(v.Errors()) > before {
			return nil
		}
		return tabstream.Rename(s.Mapping)

	case OpDelete:
		v.Custom(len(s.Fields) > 0, field("fields"), "is required for delete")
		if len(v.Errors()) > before {
			return nil
		}
		return tabstream.DeleteFields(s.Fields...)

	case OpAddRowNumber:
		v.Required(field("field"), s.Field)
		if len(v.Errors()) > before {
			return nil
		}
		return tabstream.AddRowNumber(s.Field)

	case OpAddField:
		v.Required(field("field"), s.Field).Required(field("func"), s.Func)
		if len(v.Errors()) > before {
			return nil
		}
		build, ok := reg.Get(s.Func)
		if !ok {
			v.AddError(field("func"), fmt.Sprintf("unknown function %q (have %v)", s.Func, reg.List()))
			return nil
		}
		derive, err := build(len(s.Inputs), s.Args)
		if err != nil {
			v.AddError(field("func"), fmt.Sprintf("%s: %v", s.Func, err))
			return nil
		}
		spec := tabstream.FieldSpec{Output: s.Field, Inputs: s.Inputs, Derive: derive}
		if err := validation.Validate(spec); err != nil {
			v.AddError(at, err.Error())
			return nil
		}
		return tabstream.AddField(spec)

	default:
		v.AddError(field("op"), fmt.Sprintf("unknown op %q", s.Op))
		return nil
	}
}
