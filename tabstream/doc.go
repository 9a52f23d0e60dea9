// Package tabstream provides composable filters over header-tagged tabular
// streams.
//
// A header-tagged stream is a lazy, single-pass Iterator[Row] whose first
// element is the header (a row of string labels) and whose remaining
// elements are rows of that header. Filters pull the header on their first
// Next call, resolve column names against it exactly once, and then map
// every row through the resulting positional plan. Nothing is buffered:
// each Next on a filter pulls at most one element from upstream.
//
// # Filters
//
//   - Pad: append empty strings to short rows, reject long ones
//   - DeleteFields: drop columns by name
//   - Rename: relabel, swap, overwrite or duplicate columns
//   - AddField / NewFieldAdder: append a derived column
//   - AddRowNumber: prepend a 1-based row ordinal
//   - Pipe: compose filters left to right
//
// Select is the terminal consumer: it drops the header and yields the
// requested values, bare for a single column and as Rows otherwise.
//
// # Usage
//
//	clean := tabstream.Pipe(
//	    tabstream.Pad,
//	    tabstream.Rename(map[string]string{"id": "ID"}),
//	    tabstream.DeleteFields("internal"),
//	)
//	values, err := tabstream.Select(ctx, clean(src), "id", "name")
//	if err != nil {
//	    return err
//	}
//	rows, err := tabstream.Collect(ctx, values)
//
// Column names resolve to their first occurrence in the header. Every
// failure (unknown column, row too long, derive error) ends the pass; a
// consumer that stops pulling simply leaves the rest unread.
package tabstream
