package tabstream

// Pipe composes filters left to right: Pipe(f1, f2)(s) is f2(f1(s)).
// Header compatibility is not checked up front; a later filter reports a
// missing column when it meets the header the earlier one produced.
func Pipe(filters ...Filter) Filter {
	fs := append([]Filter(nil), filters...)
	return func(s Stream) Stream {
		for _, f := range fs {
			s = f(s)
		}
		return s
	}
}
