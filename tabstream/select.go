package tabstream

import (
	"context"

	"github.com/kbukum/tabkit/errors"
)

// Select consumes the header of s and returns the values of the requested
// columns for every following row. One column yields bare values; several
// columns yield Rows in request order, repeats included. The header itself
// is not part of the result, so Select ends a chain of filters.
//
// Requesting no columns is rejected before s is touched. Otherwise the
// header is pulled immediately, so unknown columns are reported here rather
// than on the first row.
func Select(ctx context.Context, s Stream, columns ...string) (ValueStream, error) {
	if len(columns) == 0 {
		return nil, errors.EmptyProjection()
	}
	first, ok, err := s.Next(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.MissingHeader()
	}
	header, err := HeaderOf(first)
	if err != nil {
		return nil, err
	}
	extract, err := ValueExtractor(header, columns)
	if err != nil {
		return nil, err
	}
	return &selectIter{source: s, extract: extract, width: len(header)}, nil
}

type selectIter struct {
	source  Stream
	extract func(Row) Value
	width   int
	err     error
}

func (it *selectIter) Next(ctx context.Context) (Value, bool, error) {
	if it.err != nil {
		return nil, false, it.err
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return nil, false, err
	}
	row, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		it.err = err
		return nil, false, err
	}
	if len(row) != it.width {
		it.err = errors.RowLength(len(row), it.width)
		return nil, false, it.err
	}
	return it.extract(row), true, nil
}

func (it *selectIter) Line() int { return lineOf(it.source) }

func (it *selectIter) Close() error { return it.source.Close() }
