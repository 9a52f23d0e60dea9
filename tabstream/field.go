package tabstream

import (
	"github.com/kbukum/tabkit/errors"
)

// DeriveFunc computes a derived value from the input column values, passed
// in the order the inputs were declared.
type DeriveFunc func(args ...Value) (Value, error)

// FieldSpec describes one derived column: its label, the columns feeding
// the derivation, and the derivation itself.
type FieldSpec struct {
	Output string     `json:"output" yaml:"output" validate:"required"`
	Inputs []string   `json:"inputs" yaml:"inputs"`
	Derive DeriveFunc `json:"-" yaml:"-" validate:"required"`
}

// NewFieldAdder builds a filter appending the column output, computed by
// derive from the named input columns.
func NewFieldAdder(output string, derive DeriveFunc, inputs ...string) Filter {
	return AddField(FieldSpec{Output: output, Inputs: inputs, Derive: derive})
}

// AddField builds a filter appending the column described by spec. The
// header gains spec.Output as its last label and every row gains the
// derived value as its last cell.
func AddField(spec FieldSpec) Filter {
	inputs := append([]string(nil), spec.Inputs...)
	return func(s Stream) Stream {
		return newFilter(s, func(_ Stream, header Header) (Row, rowFunc, error) {
			if spec.Derive == nil {
				return nil, nil, errors.InvalidInput("derive", "no derive function for column "+spec.Output)
			}
			args, err := RowExtractor(header, inputs)
			if err != nil {
				return nil, nil, err
			}
			out := append(header.Row(), spec.Output)
			return out, func(row Row) (Row, error) {
				v, err := spec.Derive(args(row)...)
				if err != nil {
					return nil, errors.DeriveFailed(spec.Output, err)
				}
				next := make(Row, len(row), len(row)+1)
				copy(next, row)
				return append(next, v), nil
			}, nil
		})
	}
}
