package tabstream

import (
	"github.com/kbukum/tabkit/errors"
)

// Filler is the value Pad appends for missing trailing cells.
const Filler = ""

// Pad repairs short rows by appending empty strings until they match the
// header length. A row longer than the header ends the stream with a
// ROW_TOO_LONG error carrying the row and, when the source can tell, its
// line number.
func Pad(s Stream) Stream {
	return PadWith(Filler)(s)
}

// PadWith is Pad with a caller-chosen filler value.
func PadWith(filler Value) Filter {
	return func(s Stream) Stream {
		it := newFilter(s, func(source Stream, header Header) (Row, rowFunc, error) {
			width := len(header)
			return header.Row(), func(row Row) (Row, error) {
				switch {
				case len(row) == width:
					return row, nil
				case len(row) < width:
					out := make(Row, width)
					copy(out, row)
					for i := len(row); i < width; i++ {
						out[i] = filler
					}
					return out, nil
				default:
					return nil, errors.RowTooLong(row, width, lineOf(source))
				}
			}, nil
		})
		it.checked = false
		return it
	}
}
