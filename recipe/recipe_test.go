package recipe

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/kbukum/tabkit/errors"
	"github.com/kbukum/tabkit/logger"
	"github.com/kbukum/tabkit/storage"
	"github.com/kbukum/tabkit/storage/local"
	"github.com/kbukum/tabkit/tabstream"
)

func writeRecipes(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func apply(t *testing.T, f tabstream.Filter, text string) []tabstream.Row {
	t.Helper()
	var records [][]string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		records = append(records, strings.Split(line, ","))
	}
	rows, err := tabstream.Collect(context.Background(), f(tabstream.FromStrings(records)))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return rows
}

const cleanUsers = `
name: clean-users
description: tidy the users export
steps:
  - op: rename
    mapping: {id: user_id}
  - op: delete
    fields: [note]
  - op: add_field
    field: full
    func: concat
    inputs: [first, last]
    args: [" "]
  - op: add_row_number
    field: n
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(cleanUsers))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "clean-users" || len(r.Steps) != 4 {
		t.Fatalf("unexpected recipe %+v", r)
	}
	if r.Steps[0].Mapping["id"] != "user_id" {
		t.Errorf("unexpected mapping %v", r.Steps[0].Mapping)
	}
	if got := r.Summary(); got != (Summary{Name: "clean-users", Description: "tidy the users export", Steps: 4}) {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ``},
		{"not yaml", `name: [unclosed`},
		{"unknown key", "name: x\nsteps:\n  - op: pad\n    fillr: '-'\n"},
		{"bad name", "name: Not Valid\nsteps: []\n"},
		{"bad op", "name: x\nsteps:\n  - op: explode\n"},
		{"blank column", "name: x\nsteps:\n  - op: delete\n    fields: ['']\n"},
		{"blank mapping key", "name: x\nsteps:\n  - op: rename\n    mapping: {' a': b}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	r, err := Parse([]byte(cleanUsers))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, data)
	}
	if !reflect.DeepEqual(r, again) {
		t.Errorf("round trip changed the recipe:\n%+v\n%+v", r, again)
	}
}

func TestFileLoader_Load(t *testing.T) {
	first := writeRecipes(t, map[string]string{"clean-users.yaml": cleanUsers})
	second := writeRecipes(t, map[string]string{
		"clean-users.yml": "name: clean-users\nsteps: []\n",
		"pad-only.yml":    "name: pad-only\nsteps:\n  - op: pad\n",
	})
	l := NewFileLoader(filepath.Join(first, "missing"), first, second)

	r, err := l.Load("clean-users")
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Steps) != 4 {
		t.Errorf("expected the first directory to win, got %+v", r)
	}
	if _, err := l.Load("pad-only"); err != nil {
		t.Errorf("expected .yml to be found: %v", err)
	}
}

func TestFileLoader_LoadErrors(t *testing.T) {
	dir := writeRecipes(t, map[string]string{
		"renamed.yaml": "name: other\nsteps: []\n",
		"broken.yaml":  "name: broken\nsteps:\n  - op: nope\n",
	})
	l := NewFileLoader(dir)

	tests := []struct {
		name string
		code apperrors.ErrorCode
	}{
		{"absent", apperrors.ErrCodeNotFound},
		{"renamed", apperrors.ErrCodeInvalidInput},
		{"broken", apperrors.ErrCodeInvalidInput},
		{"../etc", apperrors.ErrCodeInvalidInput},
		{"", apperrors.ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := l.Load(tc.name); !apperrors.HasCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestFileLoader_List(t *testing.T) {
	first := writeRecipes(t, map[string]string{
		"b.yaml":    "name: b\nsteps:\n  - op: pad\n",
		"notes.txt": "ignored",
	})
	second := writeRecipes(t, map[string]string{
		"a.yml":  "name: a\nsteps: []\n",
		"b.yaml": "name: b\nsteps: []\n",
	})
	got, err := NewFileLoader(first, second, filepath.Join(first, "missing")).List()
	if err != nil {
		t.Fatal(err)
	}
	want := []Summary{{Name: "a"}, {Name: "b", Steps: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolve(t *testing.T) {
	dir := writeRecipes(t, map[string]string{
		"base.yaml":     "name: base\nsteps:\n  - op: pad\n",
		"left.yaml":     "name: left\nincludes: [base]\nsteps:\n  - op: delete\n    fields: [l]\n",
		"right.yaml":    "name: right\nincludes: [base]\nsteps:\n  - op: delete\n    fields: [r]\n",
		"top.yaml":      "name: top\nincludes: [left, right]\nsteps:\n  - op: add_row_number\n    field: n\n",
		"loop-a.yaml":   "name: loop-a\nincludes: [loop-b]\nsteps: []\n",
		"loop-b.yaml":   "name: loop-b\nincludes: [loop-a]\nsteps: []\n",
		"dangling.yaml": "name: dangling\nincludes: [ghost]\nsteps: []\n",
	})
	l := NewFileLoader(dir)

	top, err := l.Load("top")
	if err != nil {
		t.Fatal(err)
	}
	steps, err := Resolve(top, l)
	if err != nil {
		t.Fatal(err)
	}
	var ops []string
	for _, s := range steps {
		ops = append(ops, s.Op)
	}
	if want := []string{OpPad, OpDelete, OpDelete, OpAddRowNumber}; !reflect.DeepEqual(ops, want) {
		t.Errorf("ops = %v, want %v (shared include once)", ops, want)
	}

	loop, _ := l.Load("loop-a")
	if _, err := Resolve(loop, l); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("expected circular include error, got %v", err)
	}

	dangling, _ := l.Load("dangling")
	if _, err := Resolve(dangling, l); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND for a missing include, got %v", err)
	}
}

func TestCompileSteps(t *testing.T) {
	dash := "-"
	tests := []struct {
		name  string
		steps []Step
		in    string
		want  string
	}{
		{"no steps", nil, "a,b\n1,2", "a,b\n1,2"},
		{"pad custom filler", []Step{{Op: OpPad, Filler: &dash}}, "a,b\n1", "a,b\n1,-"},
		{"rename swap", []Step{{Op: OpRename, Mapping: map[string]string{"a": "b", "b": "a"}}}, "a,b\n1,2", "b,a\n1,2"},
		{"delete", []Step{{Op: OpDelete, Fields: []string{"a"}}}, "a,b\n1,2", "b\n2"},
		{"upper", []Step{{Op: OpAddField, Field: "A", Func: "upper", Inputs: []string{"a"}}}, "a\nx", "a,A\nx,X"},
		{"const", []Step{{Op: OpAddField, Field: "src", Func: "const", Args: []string{"crm"}}}, "a\nx", "a,src\nx,crm"},
		{"coalesce", []Step{{Op: OpAddField, Field: "c", Func: "coalesce", Inputs: []string{"a", "b"}, Args: []string{"none"}}}, "a,b\n,y\n,", "a,b,c\n,y,y\n,,none"},
		{"concat in order", []Step{{Op: OpAddField, Field: "ab", Func: "concat", Inputs: []string{"b", "a"}, Args: []string{"/"}}}, "a,b\n1,2", "a,b,ab\n1,2,2/1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := CompileSteps(tc.steps, Builtins())
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got := apply(t, f, tc.in)
			want := apply(t, tabstream.Pipe(), tc.want)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestCompileSteps_RowNumbers(t *testing.T) {
	f, err := CompileSteps([]Step{{Op: OpAddRowNumber, Field: "n"}}, Builtins())
	if err != nil {
		t.Fatal(err)
	}
	got := apply(t, f, "a\nx\ny")
	want := []tabstream.Row{{"n", "a"}, {1, "x"}, {2, "y"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompileSteps_ReportsEveryProblem(t *testing.T) {
	steps := []Step{
		{Op: OpRename},
		{Op: OpDelete},
		{Op: OpAddRowNumber},
		{Op: OpAddField, Field: "x", Func: "missing"},
		{Op: OpAddField, Field: "x", Func: "upper", Inputs: []string{"a", "b"}},
		{Op: "explode"},
	}
	_, err := CompileSteps(steps, Builtins())
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	for _, want := range []string{
		"steps[0].mapping", "steps[1].fields", "steps[2].field",
		"steps[3].func", "steps[4].func", "steps[5].op",
	} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("message %q does not mention %s", appErr.Message, want)
		}
	}
}

func TestCompile_UnknownColumnSurfacesLazily(t *testing.T) {
	f, err := CompileSteps([]Step{{Op: OpRename, Mapping: map[string]string{"x": "ghost"}}}, Builtins())
	if err != nil {
		t.Fatalf("compile must not need a header: %v", err)
	}
	_, err = tabstream.Collect(context.Background(), f(tabstream.FromRows(tabstream.Row{"a"})))
	if !apperrors.HasCode(err, apperrors.ErrCodeUnknownColumn) {
		t.Fatalf("expected UNKNOWN_COLUMN, got %v", err)
	}
}

func TestBuiltins(t *testing.T) {
	reg := Builtins()
	if got := reg.List(); !reflect.DeepEqual(got, []string{"coalesce", "concat", "const", "lower", "trim", "upper"}) {
		t.Errorf("unexpected builtins %v", got)
	}

	arity := []struct {
		fn     string
		inputs int
		args   []string
		ok     bool
	}{
		{"concat", 0, nil, false},
		{"concat", 2, []string{",", ";"}, false},
		{"upper", 2, nil, false},
		{"trim", 1, []string{"x"}, false},
		{"lower", 1, nil, true},
		{"const", 1, []string{"v"}, false},
		{"const", 0, nil, false},
		{"coalesce", 0, nil, false},
	}
	for _, tc := range arity {
		b, _ := reg.Get(tc.fn)
		_, err := b(tc.inputs, tc.args)
		if (err == nil) != tc.ok {
			t.Errorf("%s(%d inputs, %v): err = %v, want ok=%v", tc.fn, tc.inputs, tc.args, err, tc.ok)
		}
	}

	trim, _ := reg.Get("trim")
	fn, err := trim(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := fn("  x "); v != "x" {
		t.Errorf("trim = %q", v)
	}
	concat, _ := reg.Get("concat")
	fn, _ = concat(2, nil)
	if v, _ := fn(1, nil); v != "1" {
		t.Errorf("concat of non-strings = %q", v)
	}
}

func TestConfig(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if !reflect.DeepEqual(c.Dirs, []string{DefaultDir}) {
		t.Errorf("unexpected defaults %v", c.Dirs)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
	c.Dirs = append(c.Dirs, "")
	if err := c.Validate(); err == nil {
		t.Error("expected empty dir to be rejected")
	}
}

func newRunner(t *testing.T) (*Runner, *local.Storage) {
	t.Helper()
	dir := writeRecipes(t, map[string]string{
		"clean-users.yaml": cleanUsers,
		"strict.yaml":      "name: strict\nsteps:\n  - op: delete\n    fields: [x]\n",
	})
	store, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(NewFileLoader(dir), logger.Nop(), WithStorage(store)), store
}

func TestRunner_Apply(t *testing.T) {
	r, _ := newRunner(t)
	in := "user_id,first,last,note\n7,ann,lee,x\n8,bob\n"
	var out bytes.Buffer

	n, err := r.Apply(context.Background(), "clean-users", strings.NewReader(in), &out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	want := "n,id,first,last,full\n1,7,ann,lee,ann lee\n2,8,bob,,bob \n"
	if out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunner_ApplyErrors(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	if _, err := r.Apply(ctx, "nope", strings.NewReader("a\n"), &bytes.Buffer{}); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if _, err := r.Apply(ctx, "strict", strings.NewReader("a\n1,2\n"), &bytes.Buffer{}); !apperrors.HasCode(err, apperrors.ErrCodeRowTooLong) {
		t.Errorf("expected ROW_TOO_LONG, got %v", err)
	}
}

func TestRunner_Recipes(t *testing.T) {
	r, _ := newRunner(t)
	list, err := r.Recipes()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "clean-users" || list[1].Name != "strict" {
		t.Errorf("unexpected listing %+v", list)
	}
}

func TestRunner_Run(t *testing.T) {
	r, store := newRunner(t)
	ctx := context.Background()
	if err := store.Upload(ctx, "in/users.csv", strings.NewReader("x,y\n1,2\n3\n")); err != nil {
		t.Fatal(err)
	}

	n, err := r.Run(ctx, "strict", "in/users.csv", "out/users.csv")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	rc, err := store.Download(ctx, "out/users.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	var got bytes.Buffer
	if _, err := got.ReadFrom(rc); err != nil {
		t.Fatal(err)
	}
	if got.String() != "y\n2\n\n" {
		t.Errorf("unexpected output %q", got.String())
	}
}

func TestRunner_RunFailureRemovesOutput(t *testing.T) {
	r, store := newRunner(t)
	ctx := context.Background()
	if err := store.Upload(ctx, "bad.csv", strings.NewReader("x\n1\n1,2\n")); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Run(ctx, "strict", "bad.csv", "out.csv"); !apperrors.HasCode(err, apperrors.ErrCodeRowTooLong) {
		t.Fatalf("expected ROW_TOO_LONG, got %v", err)
	}
	if ok, _ := store.Exists(ctx, "out.csv"); ok {
		t.Error("partial output should have been removed")
	}
}

func TestRunner_RunWithoutStorage(t *testing.T) {
	r := NewRunner(NewFileLoader(t.TempDir()), logger.Nop())
	if _, err := r.Run(context.Background(), "x", "a", "b"); !apperrors.HasCode(err, apperrors.ErrCodeInternal) {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
}

// closeCounter counts how often downloaded bodies are closed.
type closeCounter struct {
	*local.Storage
	closes int
}

func (c *closeCounter) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := c.Storage.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	return &countedBody{ReadCloser: rc, owner: c}, nil
}

type countedBody struct {
	io.ReadCloser
	owner *closeCounter
}

func (b *countedBody) Close() error {
	b.owner.closes++
	return b.ReadCloser.Close()
}

var _ storage.Storage = (*closeCounter)(nil)

func TestRunner_RunClosesSourceOnce(t *testing.T) {
	tests := []struct {
		name   string
		recipe string
		input  string
	}{
		{"success", "strict", "x,y\n1,2\n"},
		{"row error", "strict", "x\n1,2\n"},
		{"unknown recipe", "missing", "x\n1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, base := newRunner(t)
			store := &closeCounter{Storage: base}
			ctx := context.Background()
			if err := store.Upload(ctx, "in.csv", strings.NewReader(tc.input)); err != nil {
				t.Fatal(err)
			}
			r := NewRunner(NewFileLoader(writeRecipes(t, map[string]string{
				"strict.yaml": "name: strict\nsteps:\n  - op: delete\n    fields: [x]\n",
			})), logger.Nop(), WithStorage(store))

			_, _ = r.Run(ctx, tc.recipe, "in.csv", "out.csv")
			if store.closes != 1 {
				t.Errorf("source closed %d times, want 1", store.closes)
			}
		})
	}
}
