package tabstream

import (
	"context"

	"github.com/kbukum/tabkit/errors"
)

// Value is an opaque cell value. Values decoded from delimited text are
// strings; derived columns may hold anything.
type Value = any

// Row is an ordered sequence of values, one per header position.
type Row []Value

// Header is an ordered sequence of column labels.
type Header []string

// Row returns the header as a stream element.
func (h Header) Row() Row {
	row := make(Row, len(h))
	for i, label := range h {
		row[i] = label
	}
	return row
}

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Stream is a header-tagged stream: the first element is the header, every
// following element is a row of that header.
type Stream = Iterator[Row]

// ValueStream is the plain, header-less output of Select.
type ValueStream = Iterator[Value]

// Filter transforms one header-tagged stream into another.
type Filter func(Stream) Stream

// LineReporter is implemented by streams that know the source line of the
// element most recently returned by Next.
type LineReporter interface {
	Line() int
}

// HeaderOf interprets a stream element as a header. Every label must be a string.
func HeaderOf(row Row) (Header, error) {
	header := make(Header, len(row))
	for i, v := range row {
		label, ok := v.(string)
		if !ok {
			return nil, errors.InvalidHeader(i, v)
		}
		header[i] = label
	}
	return header, nil
}

// lineOf returns the current source line of s, or 0 if s cannot tell.
func lineOf(s Stream) int {
	if lr, ok := s.(LineReporter); ok {
		return lr.Line()
	}
	return 0
}

// --- Constructors ---

// FromSlice returns an iterator over items.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: items}
}

// FromRows creates a stream over in-memory rows; rows[0] is the header.
func FromRows(rows ...Row) Stream {
	return &sliceIter[Row]{items: rows}
}

// FromStrings creates a stream over tokenized text records; records[0] is
// the header.
func FromStrings(records [][]string) Stream {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = StringsRow(rec)
	}
	return &sliceIter[Row]{items: rows}
}

// StringsRow converts a tokenized text record into a Row.
func StringsRow(rec []string) Row {
	row := make(Row, len(rec))
	for i, s := range rec {
		row[i] = s
	}
	return row
}

// --- Terminals ---

// Collect pulls every element and returns them as a slice, closing it on return.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var result []T
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ForEach pulls every element and calls fn for each, closing it on return.
func ForEach[T any](ctx context.Context, it Iterator[T], fn func(context.Context, T) error) error {
	defer it.Close()
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.index >= len(it.items) {
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

// rowFunc maps one data row to its output row.
type rowFunc func(row Row) (Row, error)

// planFunc inspects the header once and returns the output header together
// with the per-row transformation bound to it.
type planFunc func(source Stream, header Header) (Row, rowFunc, error)

// headerIter is the shared state machine behind every stream filter:
// "header not yet seen" then "processing rows". A failure is terminal, so
// later calls return the same error without pulling upstream.
type headerIter struct {
	source  Stream
	plan    planFunc
	apply   rowFunc
	width   int
	checked bool
	started bool
	done    bool
	err     error
}

func newFilter(source Stream, plan planFunc) *headerIter {
	return &headerIter{source: source, plan: plan, checked: true}
}

func (it *headerIter) Next(ctx context.Context) (Row, bool, error) {
	if it.err != nil {
		return nil, false, it.err
	}
	if it.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return nil, false, err
	}
	row, ok, err := it.source.Next(ctx)
	if err != nil {
		it.err = err
		return nil, false, err
	}
	if !ok {
		it.done = true
		return nil, false, nil
	}
	if !it.started {
		it.started = true
		header, err := HeaderOf(row)
		if err != nil {
			it.err = err
			return nil, false, err
		}
		out, apply, err := it.plan(it.source, header)
		if err != nil {
			it.err = err
			return nil, false, err
		}
		it.apply = apply
		it.width = len(header)
		return out, true, nil
	}
	if it.checked && len(row) != it.width {
		it.err = errors.RowLength(len(row), it.width)
		return nil, false, it.err
	}
	out, err := it.apply(row)
	if err != nil {
		it.err = err
		return nil, false, err
	}
	return out, true, nil
}

// Line reports the source line of the last element, when upstream knows it.
func (it *headerIter) Line() int { return lineOf(it.source) }

func (it *headerIter) Close() error { return it.source.Close() }
