// Package validation checks recipes and request input.
//
// Struct tag validation covers recipe documents; the programmatic
// Validator covers query parameters. Both report failures as a single
// INVALID_INPUT AppError with per-field details.
//
// # Struct Tag Validation
//
//	type Step struct {
//	    Op     string   `yaml:"op" validate:"required,oneof=pad rename delete"`
//	    Fields []string `yaml:"fields" validate:"dive,column"`
//	}
//	err := validation.Validate(step)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("path", path).
//	    Columns("columns", columns).
//	    Validate()
package validation
