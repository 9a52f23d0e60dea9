package csvio

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"

	"github.com/kbukum/tabkit/errors"
	"github.com/kbukum/tabkit/tabstream"
)

// Options configure the delimited-text dialect.
type Options struct {
	Comma            rune
	Comment          rune
	LazyQuotes       bool
	TrimLeadingSpace bool
}

// Option mutates Options.
type Option func(*Options)

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) Option {
	return func(o *Options) { o.Comma = r }
}

// WithComment sets the comment-line prefix; zero disables comments.
func WithComment(r rune) Option {
	return func(o *Options) { o.Comment = r }
}

// WithLazyQuotes tolerates quotes appearing in unquoted fields.
func WithLazyQuotes() Option {
	return func(o *Options) { o.LazyQuotes = true }
}

// WithTrimLeadingSpace drops leading white space of every field.
func WithTrimLeadingSpace() Option {
	return func(o *Options) { o.TrimLeadingSpace = true }
}

func buildOptions(opts []Option) Options {
	o := Options{Comma: ','}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Reader decodes delimited text into a header-tagged stream. Records may
// have any length; use tabstream.Pad to repair short ones.
type Reader struct {
	csv    *csv.Reader
	closer io.Closer
	line   int
	done   bool
	err    error
}

// NewReader creates a Reader over r. If r is also an io.Closer it is closed
// by Close.
func NewReader(r io.Reader, opts ...Option) *Reader {
	o := buildOptions(opts)
	cr := csv.NewReader(r)
	cr.Comma = o.Comma
	cr.Comment = o.Comment
	cr.LazyQuotes = o.LazyQuotes
	cr.TrimLeadingSpace = o.TrimLeadingSpace
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	rd := &Reader{csv: cr}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// Next decodes the next record.
func (r *Reader) Next(ctx context.Context) (tabstream.Row, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	if r.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		r.err = err
		return nil, false, err
	}
	rec, err := r.csv.Read()
	if stderrors.Is(err, io.EOF) {
		r.done = true
		return nil, false, nil
	}
	if err != nil {
		line := r.line + 1
		var perr *csv.ParseError
		if stderrors.As(err, &perr) {
			line = perr.StartLine
		}
		r.err = errors.MalformedInput(line, err)
		return nil, false, r.err
	}
	r.line, _ = r.csv.FieldPos(0)
	return tabstream.StringsRow(rec), true, nil
}

// Line returns the line on which the last decoded record started.
func (r *Reader) Line() int { return r.line }

// Close closes the underlying reader when it is closable.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}

var (
	_ tabstream.Stream       = (*Reader)(nil)
	_ tabstream.LineReporter = (*Reader)(nil)
)
