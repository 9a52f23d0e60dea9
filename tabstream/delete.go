package tabstream

// DeleteFields builds a filter removing the named columns. Survivors keep
// their relative order; names missing from the header are ignored, so
// applying the filter twice equals applying it once.
//
// Survivors are kept by position, not re-resolved by name: on a header
// with a repeated label every surviving copy keeps its own values, where
// a first-match lookup would repeat the first copy's values.
func DeleteFields(names ...string) Filter {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	return func(s Stream) Stream {
		return newFilter(s, func(_ Stream, header Header) (Row, rowFunc, error) {
			keep := make([]int, 0, len(header))
			for i, label := range header {
				if _, ok := drop[label]; !ok {
					keep = append(keep, i)
				}
			}
			extract := ExtractorFor(keep)
			return extract(header.Row()), func(row Row) (Row, error) {
				return extract(row), nil
			}, nil
		})
	}
}
