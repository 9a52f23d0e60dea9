package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kbukum/tabkit/tabstream"
)

// Write encodes every element of s, header first, as delimited text and
// returns the number of data rows written. s is closed on return.
func Write(ctx context.Context, w io.Writer, s tabstream.Stream, opts ...Option) (int, error) {
	o := buildOptions(opts)
	cw := csv.NewWriter(w)
	cw.Comma = o.Comma

	count := -1
	err := tabstream.ForEach(ctx, s, func(_ context.Context, row tabstream.Row) error {
		count++
		return cw.Write(Format(row))
	})
	cw.Flush()
	if count < 0 {
		count = 0
	}
	if err != nil {
		return count, err
	}
	return count, cw.Error()
}

// Format renders a row as text fields.
func Format(row tabstream.Row) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = FormatValue(v)
	}
	return out
}

// FormatValue renders one value as text. Nil renders as the empty string.
func FormatValue(v tabstream.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
