package recipe

import (
	"context"
	stderrors "errors"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/tabkit/csvio"
	"github.com/kbukum/tabkit/logger"
	"github.com/kbukum/tabkit/observability"
	"github.com/kbukum/tabkit/storage"
	"github.com/kbukum/tabkit/tabstream"
)

// Runner applies named recipes to delimited-text data.
type Runner struct {
	loader   Loader
	registry *Registry
	storage  storage.Storage
	metrics  *observability.Metrics
	log      *logger.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStorage sets the storage Run reads from and writes to.
func WithStorage(s storage.Storage) RunnerOption {
	return func(r *Runner) { r.storage = s }
}

// WithMetrics records passes and rows on m.
func WithMetrics(m *observability.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithRegistry replaces the builtin derive functions.
func WithRegistry(reg *Registry) RunnerOption {
	return func(r *Runner) { r.registry = reg }
}

// NewRunner creates a Runner loading recipes through loader.
func NewRunner(loader Loader, log *logger.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		loader:   loader,
		registry: Builtins(),
		log:      log.WithComponent("recipe"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recipes lists the available recipes.
func (r *Runner) Recipes() ([]Summary, error) {
	return r.loader.List()
}

// Filter loads and compiles the recipe called name.
func (r *Runner) Filter(name string) (tabstream.Filter, error) {
	rec, err := r.loader.Load(name)
	if err != nil {
		return nil, err
	}
	return Compile(rec, r.loader, r.registry)
}

// Apply reads delimited text from in, runs it through the recipe called
// name and writes the result to out. It returns the number of data rows
// written. Input rows are padded before the recipe runs.
func (r *Runner) Apply(ctx context.Context, name string, in io.Reader, out io.Writer, opts ...csvio.Option) (int, error) {
	filter, err := r.Filter(name)
	if err != nil {
		return 0, err
	}

	ctx, pass := observability.StartPass(ctx, r.metrics, observability.SpanRecipeApply,
		attribute.String(observability.AttrRecipe, name))
	stream := tabstream.Pipe(
		tabstream.Pad,
		filter,
		observability.CountRows(r.metrics, name),
	)(csvio.NewReader(in, opts...))

	n, err := csvio.Write(ctx, out, stream, opts...)
	pass.End(ctx, n, err)

	log := r.log.WithContext(ctx)
	if err != nil {
		log.Error("recipe failed", logger.MergeWithError(logger.PassFields(name, n, pass.Duration()), err))
		return n, err
	}
	log.Info("recipe applied", logger.PassFields(name, n, pass.Duration()))
	return n, nil
}

// Run applies the recipe called name to the storage object src and
// uploads the result to dst. The output is streamed; nothing is buffered
// in full.
func (r *Runner) Run(ctx context.Context, name, src, dst string) (int, error) {
	if r.storage == nil {
		return 0, errNoStorage
	}
	rc, err := r.storage.Download(ctx, src)
	if err != nil {
		return 0, err
	}
	// rc is closed here only; Apply must not close it.
	defer rc.Close()

	pr, pw := io.Pipe()
	type result struct {
		rows int
		err  error
	}
	done := make(chan result, 1)
	go func() {
		n, err := r.Apply(ctx, name, io.NopCloser(rc), pw)
		pw.CloseWithError(err)
		done <- result{n, err}
	}()

	uploadErr := r.storage.Upload(ctx, dst, pr)
	// Unblock Apply if the upload stopped reading early.
	pr.CloseWithError(io.ErrClosedPipe)
	res := <-done

	err = res.err
	if uploadErr != nil && (err == nil || stderrors.Is(err, io.ErrClosedPipe)) {
		err = uploadErr
	}
	if err != nil {
		if derr := r.storage.Delete(ctx, dst); derr != nil {
			r.log.Warn("could not remove partial output", logger.MergeWithError(logger.Fields(logger.FieldPath, dst), derr))
		}
		return res.rows, err
	}
	r.log.Debug("recipe output stored", logger.Fields(
		logger.FieldRecipe, name,
		logger.FieldPath, dst,
		logger.FieldRows, res.rows,
	))
	return res.rows, nil
}
