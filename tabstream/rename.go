package tabstream

import (
	"cmp"
	"maps"
	"slices"

	"github.com/kbukum/tabkit/errors"
)

// RenamePlan is the output header of a rename together with the source
// position of every output column.
type RenamePlan struct {
	Header  Header
	Indices []int
}

// PlanRename resolves a new-label to old-label mapping against header.
//
// Each old label must exist; it resolves to its first position and stops
// being a label of its own unless it is also a new label. New labels take
// over the position of their old label, overwriting an original column of
// the same name. Output columns are ordered by source position; at equal
// positions a surviving original label comes first, then new labels in
// alphabetical order.
func PlanRename(header Header, newToOld map[string]string) (RenamePlan, error) {
	original := make(map[string]int, len(header))
	for i, label := range header {
		if _, seen := original[label]; !seen {
			original[label] = i
		}
	}
	labels := maps.Clone(original)

	renamed := make(map[string]int, len(newToOld))
	for _, newLabel := range slices.Sorted(maps.Keys(newToOld)) {
		old := newToOld[newLabel]
		index, ok := original[old]
		if !ok {
			return RenamePlan{}, errors.UnknownColumn(old, header)
		}
		delete(labels, old)
		renamed[newLabel] = index
	}
	maps.Copy(labels, renamed)

	type column struct {
		label      string
		index      int
		introduced bool
	}
	columns := make([]column, 0, len(labels))
	for label, index := range labels {
		_, known := original[label]
		columns = append(columns, column{label: label, index: index, introduced: !known})
	}
	slices.SortFunc(columns, func(a, b column) int {
		if c := cmp.Compare(a.index, b.index); c != 0 {
			return c
		}
		if a.introduced != b.introduced {
			if a.introduced {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.label, b.label)
	})

	plan := RenamePlan{
		Header:  make(Header, len(columns)),
		Indices: make([]int, len(columns)),
	}
	for i, c := range columns {
		plan.Header[i] = c.label
		plan.Indices[i] = c.index
	}
	return plan, nil
}

// Rename builds a filter relabelling columns from a new-label to old-label
// mapping. One mapping covers plain renames, label swaps, overwriting a
// column with another column's values, and duplicating a column under
// extra names (map several new labels to the same old one, including the
// old label itself to keep it).
func Rename(newToOld map[string]string) Filter {
	mapping := maps.Clone(newToOld)
	return func(s Stream) Stream {
		return newFilter(s, func(_ Stream, header Header) (Row, rowFunc, error) {
			plan, err := PlanRename(header, mapping)
			if err != nil {
				return nil, nil, err
			}
			extract := ExtractorFor(plan.Indices)
			return plan.Header.Row(), func(row Row) (Row, error) {
				return extract(row), nil
			}, nil
		})
	}
}
