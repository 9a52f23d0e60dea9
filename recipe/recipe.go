package recipe

import (
	stderrors "errors"

	"github.com/kbukum/tabkit/errors"
)

// Step operations.
const (
	OpPad          = "pad"
	OpRename       = "rename"
	OpDelete       = "delete"
	OpAddField     = "add_field"
	OpAddRowNumber = "add_row_number"
)

// Recipe is a named, ordered list of steps.
type Recipe struct {
	Name        string   `yaml:"name" json:"name" validate:"required,recipe_name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Includes    []string `yaml:"includes,omitempty" json:"includes,omitempty" validate:"dive,recipe_name"`
	Steps       []Step   `yaml:"steps" json:"steps" validate:"dive"`
}

// Step is one filter in a recipe. Which fields apply depends on Op:
//
//	pad             filler (optional, default "")
//	rename          mapping of new label to old label
//	delete          fields
//	add_field       field, func, inputs, args
//	add_row_number  field
type Step struct {
	Op      string            `yaml:"op" json:"op" validate:"required,oneof=pad rename delete add_field add_row_number"`
	Filler  *string           `yaml:"filler,omitempty" json:"filler,omitempty"`
	Mapping map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty" validate:"dive,keys,column,endkeys,column"`
	Fields  []string          `yaml:"fields,omitempty" json:"fields,omitempty" validate:"dive,column"`
	Field   string            `yaml:"field,omitempty" json:"field,omitempty" validate:"omitempty,column"`
	Func    string            `yaml:"func,omitempty" json:"func,omitempty"`
	Inputs  []string          `yaml:"inputs,omitempty" json:"inputs,omitempty" validate:"dive,column"`
	Args    []string          `yaml:"args,omitempty" json:"args,omitempty"`
}

// Summary is the listing form of a recipe.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       int    `json:"steps"`
}

// Summary returns the listing form of r.
func (r *Recipe) Summary() Summary {
	return Summary{Name: r.Name, Description: r.Description, Steps: len(r.Steps)}
}

var errNoStorage = errors.Internal(stderrors.New("recipe runner has no storage configured"))
