package endpoint

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/tabkit/csvio"
	"github.com/kbukum/tabkit/errors"
	"github.com/kbukum/tabkit/observability"
	"github.com/kbukum/tabkit/server"
	"github.com/kbukum/tabkit/storage"
	"github.com/kbukum/tabkit/tabstream"
	"github.com/kbukum/tabkit/validation"
)

// SelectResult holds the projected values. With one column each value is
// a bare string; with several it is an array in request order.
type SelectResult struct {
	Columns []string          `json:"columns"`
	Values  []tabstream.Value `json:"values"`
}

// Select returns a handler projecting ?columns= out of CSV data. The data
// is the request body, or the stored object named by ?path= when d is set.
// Short rows are padded before projection. The dialect parameters apply
// to request bodies only.
func Select(d storage.Downloader, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		columns := columnsParam(c)
		if err := validation.New().Columns("columns", columns).Validate(); err != nil {
			server.RespondWithError(c, err)
			return
		}
		opts, err := dialectOptions(c)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}

		path := c.Query("path")
		ctx, pass := observability.StartPass(c.Request.Context(), metrics, observability.SpanSelect,
			attribute.StringSlice(observability.AttrColumns, columns),
			attribute.String(observability.AttrPath, path))

		var values tabstream.ValueStream
		switch {
		case path == "":
			values, err = tabstream.Select(ctx, tabstream.Pad(csvio.NewReader(c.Request.Body, opts...)), columns...)
		case d == nil:
			err = errors.InvalidInput("path", "no storage is configured")
		default:
			values, err = csvio.SelectFrom(ctx, d, path, columns...)
		}
		if err != nil {
			pass.End(ctx, 0, err)
			server.RespondWithError(c, err)
			return
		}

		out, err := tabstream.Collect(ctx, values)
		pass.End(ctx, len(out), err)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		if out == nil {
			out = []tabstream.Value{}
		}
		server.RespondOKWithMeta(c, SelectResult{Columns: columns, Values: out}, &server.Meta{Total: len(out)})
	}
}
