package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/kbukum/tabkit/bootstrap"
	"github.com/kbukum/tabkit/csvio"
	"github.com/kbukum/tabkit/tabstream"
	"github.com/kbukum/tabkit/validation"
	"github.com/kbukum/tabkit/version"
)

type command func(ctx context.Context, args []string) error

var commands = map[string]command{
	"serve":   serveCmd,
	"recipes": recipesCmd,
	"apply":   applyCmd,
	"run":     runCmd,
	"select":  selectCmd,
	"version": versionCmd,
}

type globalFlags struct {
	configFile string
	envFile    string
}

func newFlagSet(name string, g *globalFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&g.configFile, "config", "", "config file (default: search ./cmd/tabkit, ./config, .)")
	fs.StringVar(&g.envFile, "env-file", "", ".env file with TABKIT_ overrides")
	return fs
}

func serveCmd(ctx context.Context, args []string) error {
	var g globalFlags
	if err := newFlagSet("serve", &g).Parse(args); err != nil {
		return err
	}
	app, err := newApp(ctx, &g, false)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func recipesCmd(ctx context.Context, args []string) error {
	var g globalFlags
	if err := newFlagSet("recipes", &g).Parse(args); err != nil {
		return err
	}
	app, err := newApp(ctx, &g, true)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(_ context.Context, a *bootstrap.App) error {
		list, err := a.Runner.Recipes()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTEPS\tDESCRIPTION")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.Steps, s.Description)
		}
		return tw.Flush()
	})
}

func applyCmd(ctx context.Context, args []string) error {
	var (
		g       globalFlags
		in, out string
		comma   string
		lazy    bool
	)
	fs := newFlagSet("apply", &g)
	fs.StringVarP(&in, "in", "i", "-", "input CSV file, - for stdin")
	fs.StringVarP(&out, "out", "o", "-", "output CSV file, - for stdout")
	fs.StringVar(&comma, "comma", ",", "field delimiter")
	fs.BoolVar(&lazy, "lazy-quotes", false, "accept bare quotes in unquoted fields")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: tabkit apply NAME [-i in] [-o out]")
	}
	opts, _, err := dialect(comma, lazy)
	if err != nil {
		return err
	}

	app, err := newApp(ctx, &g, true)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context, a *bootstrap.App) error {
		r, closeIn, err := openInput(in)
		if err != nil {
			return err
		}
		defer closeIn()
		w, closeOut, err := openOutput(out)
		if err != nil {
			return err
		}
		if _, err := a.Runner.Apply(ctx, fs.Arg(0), r, w, opts...); err != nil {
			_ = closeOut()
			if out != "-" {
				_ = os.Remove(out)
			}
			return err
		}
		return closeOut()
	})
}

func runCmd(ctx context.Context, args []string) error {
	var g globalFlags
	fs := newFlagSet("run", &g)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: tabkit run NAME SRC DST")
	}
	app, err := newApp(ctx, &g, true)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context, a *bootstrap.App) error {
		n, err := a.Runner.Run(ctx, fs.Arg(0), fs.Arg(1), fs.Arg(2))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d rows written to %s\n", n, fs.Arg(2))
		return nil
	})
}

func selectCmd(ctx context.Context, args []string) error {
	var (
		g       globalFlags
		columns []string
		in      string
		comma   string
	)
	fs := newFlagSet("select", &g)
	fs.StringSliceVarP(&columns, "columns", "c", nil, "columns to print, in order")
	fs.StringVarP(&in, "in", "i", "-", "input CSV file, - for stdin")
	fs.StringVar(&comma, "comma", ",", "field delimiter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.New().Columns("columns", columns).Validate(); err != nil {
		return err
	}
	opts, delim, err := dialect(comma, false)
	if err != nil {
		return err
	}

	r, closeIn, err := openInput(in)
	if err != nil {
		return err
	}
	defer closeIn()

	values, err := tabstream.Select(ctx, tabstream.Pad(csvio.NewReader(r, opts...)), columns...)
	if err != nil {
		return err
	}
	return writeValues(ctx, os.Stdout, values, delim)
}

func versionCmd(_ context.Context, _ []string) error {
	fmt.Println("tabkit", version.Get())
	return nil
}

// writeValues prints Select output as header-less delimited text.
func writeValues(ctx context.Context, w io.Writer, values tabstream.ValueStream, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	err := tabstream.ForEach(ctx, values, func(_ context.Context, v tabstream.Value) error {
		if row, ok := v.(tabstream.Row); ok {
			return cw.Write(csvio.Format(row))
		}
		return cw.Write([]string{csvio.FormatValue(v)})
	})
	cw.Flush()
	if err != nil {
		return err
	}
	return cw.Error()
}

// dialect turns the --comma and --lazy-quotes flags into reader options
// and the delimiter they select.
func dialect(comma string, lazy bool) ([]csvio.Option, rune, error) {
	if comma == `\t` || comma == "tab" {
		comma = "\t"
	}
	runes := []rune(comma)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\n' || runes[0] == '\r' {
		return nil, 0, fmt.Errorf("--comma must be a single character other than a quote or line break (got %q)", comma)
	}
	opts := []csvio.Option{csvio.WithComma(runes[0])}
	if lazy {
		opts = append(opts, csvio.WithLazyQuotes())
	}
	return opts, runes[0], nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
