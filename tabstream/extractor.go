package tabstream

import (
	"slices"

	"github.com/kbukum/tabkit/errors"
)

// IndexOf returns the first position of name in header, scanning left to
// right. Duplicate labels resolve to their leftmost occurrence.
func IndexOf(header Header, name string) (int, error) {
	if i := slices.Index(header, name); i >= 0 {
		return i, nil
	}
	return -1, errors.ColumnNotFound(name, header)
}

// Indices resolves every name against header, preserving request order and
// repeats.
func Indices(header Header, names []string) ([]int, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx, err := IndexOf(header, name)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}
	return indices, nil
}

// ExtractorFor returns a function projecting a row onto fixed positions.
// The result is always a Row, whatever the number of positions.
func ExtractorFor(indices []int) func(Row) Row {
	idx := slices.Clone(indices)
	return func(row Row) Row {
		out := make(Row, len(idx))
		for i, j := range idx {
			out[i] = row[j]
		}
		return out
	}
}

// RowExtractor resolves names against header and returns a projection that
// always yields a Row: empty for no names, one value wide for one name.
// Filters that build new rows out of fields use this form.
func RowExtractor(header Header, names []string) (func(Row) Row, error) {
	indices, err := Indices(header, names)
	if err != nil {
		return nil, err
	}
	return ExtractorFor(indices), nil
}

// ValueExtractor resolves names against header and returns a projection
// with a single-value shortcut: one name yields the bare value at that
// column, any other count yields a Row in request order.
func ValueExtractor(header Header, names []string) (func(Row) Value, error) {
	indices, err := Indices(header, names)
	if err != nil {
		return nil, err
	}
	if len(indices) == 1 {
		at := indices[0]
		return func(row Row) Value { return row[at] }, nil
	}
	extract := ExtractorFor(indices)
	return func(row Row) Value { return extract(row) }, nil
}
