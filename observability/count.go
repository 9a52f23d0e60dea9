package observability

import (
	"context"

	"github.com/kbukum/tabkit/tabstream"
)

// CountRows returns a filter that records every data row passing through
// it under stage, and the first error it sees. The stream is unchanged.
func CountRows(m *Metrics, stage string) tabstream.Filter {
	return func(s tabstream.Stream) tabstream.Stream {
		return &countingStream{source: s, metrics: m, stage: stage}
	}
}

type countingStream struct {
	source  tabstream.Stream
	metrics *Metrics
	stage   string
	header  bool
	failed  bool
}

func (c *countingStream) Next(ctx context.Context) (tabstream.Row, bool, error) {
	row, ok, err := c.source.Next(ctx)
	if err != nil {
		if !c.failed {
			c.failed = true
			c.metrics.RecordError(ctx, ErrorCode(err), c.stage)
		}
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	if !c.header {
		c.header = true
		return row, true, nil
	}
	c.metrics.RecordRows(ctx, c.stage, 1)
	return row, true, nil
}

func (c *countingStream) Line() int {
	if lr, ok := c.source.(tabstream.LineReporter); ok {
		return lr.Line()
	}
	return 0
}

func (c *countingStream) Close() error { return c.source.Close() }
