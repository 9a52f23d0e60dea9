package tabstream

// AddRowNumber builds a filter that prepends a column named field holding
// the 1-based ordinal of each data row.
func AddRowNumber(field string) Filter {
	return func(s Stream) Stream {
		return newFilter(s, func(_ Stream, header Header) (Row, rowFunc, error) {
			n := 0
			out := append(Row{field}, header.Row()...)
			return out, func(row Row) (Row, error) {
				n++
				next := make(Row, 0, len(row)+1)
				next = append(next, n)
				return append(next, row...), nil
			}, nil
		})
	}
}
