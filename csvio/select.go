package csvio

import (
	"context"

	"github.com/kbukum/tabkit/errors"
	"github.com/kbukum/tabkit/storage"
	"github.com/kbukum/tabkit/tabstream"
)

// Open downloads the object at path and decodes it as a padded,
// header-tagged stream. Closing the stream releases the object.
func Open(ctx context.Context, d storage.Downloader, path string, opts ...Option) (tabstream.Stream, error) {
	rc, err := d.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	return tabstream.Pad(NewReader(rc, opts...)), nil
}

// SelectFrom opens the object at path and yields the requested columns of
// every data row, as tabstream.Select does. The object is released when
// the values are exhausted, on the first error, or on Close, whichever
// comes first.
func SelectFrom(ctx context.Context, d storage.Downloader, path string, columns ...string) (tabstream.ValueStream, error) {
	s, err := Open(ctx, d, path)
	if err != nil {
		return nil, err
	}
	values, err := tabstream.Select(ctx, s, columns...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return &releasing[tabstream.Value]{source: values}, nil
}

// Body splits a stream into its header and the rows that follow it, the
// shape most record-at-a-time consumers want. s is padded first, so every
// row has the header's length. The returned rows own s.
func Body(ctx context.Context, s tabstream.Stream) (tabstream.Header, tabstream.Iterator[tabstream.Row], error) {
	padded := tabstream.Pad(s)
	first, ok, err := padded.Next(ctx)
	if err == nil && !ok {
		err = errors.MissingHeader()
	}
	if err != nil {
		_ = padded.Close()
		return nil, nil, err
	}
	header, err := tabstream.HeaderOf(first)
	if err != nil {
		_ = padded.Close()
		return nil, nil, err
	}
	return header, &releasing[tabstream.Row]{source: padded}, nil
}

// releasing closes its source as soon as the source is exhausted or
// fails, and at most once.
type releasing[T any] struct {
	source tabstream.Iterator[T]
	closed bool
}

func (r *releasing[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := r.source.Next(ctx)
	if err != nil || !ok {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}
	return v, ok, err
}

func (r *releasing[T]) Line() int {
	if lr, ok := r.source.(tabstream.LineReporter); ok {
		return lr.Line()
	}
	return 0
}

func (r *releasing[T]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.source.Close()
}
