package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/tabkit/config"
	"github.com/kbukum/tabkit/logger"
	"github.com/kbukum/tabkit/recipe"
	"github.com/kbukum/tabkit/storage"
	_ "github.com/kbukum/tabkit/storage/local"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	recipes := t.TempDir()
	content := "name: upper-name\nsteps:\n  - op: add_field\n    field: shout\n    func: upper\n    inputs: [name]\n"
	if err := os.WriteFile(filepath.Join(recipes, "upper-name.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		ServiceConfig: config.ServiceConfig{Name: "tabkit-test", Version: "1.0.0", Environment: "development"},
		Storage:       storage.Config{Provider: storage.ProviderLocal, BasePath: t.TempDir()},
		Recipes:       recipe.Config{Dirs: []string{recipes}},
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestNew(t *testing.T) {
	app, err := New(context.Background(), newTestConfig(t), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Storage == nil || app.Runner == nil || app.Server == nil || app.Metrics == nil {
		t.Fatalf("expected every component to be wired: %+v", app)
	}

	s := app.Summary()
	if s.Recipes != 1 || s.Service != "tabkit-test" || !strings.HasPrefix(s.Storage, "local:") {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Fields()["recipes"] != 1 {
		t.Errorf("unexpected fields %v", s.Fields())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{"invalid config", func(c *config.Config) { c.Environment = "moon" }, "config validation"},
		{"unregistered provider", func(c *config.Config) {
			c.Storage = storage.Config{Provider: storage.ProviderS3, Bucket: "b", Region: "r"}
		}, "creating storage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			tt.mutate(cfg)
			_, err := New(context.Background(), cfg, WithLogger(logger.Nop()))
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestRunTask(t *testing.T) {
	app, err := New(context.Background(), newTestConfig(t), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	var stopped []string
	app.OnStop(
		func(context.Context) error { stopped = append(stopped, "first"); return nil },
		func(context.Context) error { stopped = append(stopped, "second"); return nil },
	)

	var out bytes.Buffer
	err = app.RunTask(context.Background(), func(ctx context.Context, a *App) error {
		_, err := a.Runner.Apply(ctx, "upper-name", strings.NewReader("name\nann\n"), &out)
		return err
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if out.String() != "name,shout\nann,ANN\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if strings.Join(stopped, ",") != "second,first" {
		t.Errorf("expected hooks in reverse order, got %v", stopped)
	}
}

func TestRunTask_JoinsErrors(t *testing.T) {
	app, err := New(context.Background(), newTestConfig(t), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	hookErr := errors.New("flush failed")
	taskErr := errors.New("task failed")
	app.OnStop(func(context.Context) error { return hookErr })

	err = app.RunTask(context.Background(), func(context.Context, *App) error { return taskErr })
	if !errors.Is(err, taskErr) || !errors.Is(err, hookErr) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestRun_ServesUntilCanceled(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)

	app, err := New(context.Background(), cfg, WithLogger(logger.Nop()), WithGracefulTimeout(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	stopped := false
	app.OnStop(func(context.Context) error { stopped = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	url := "http://" + cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port) + "/health"
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200 from /health, got %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never answered: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !stopped {
		t.Error("expected stop hooks to run")
	}
}

func TestRunHooks_ReverseOrderAndJoin(t *testing.T) {
	var order []int
	errA := errors.New("a")
	hooks := []Hook{
		func(context.Context) error { order = append(order, 0); return errA },
		func(context.Context) error { order = append(order, 1); return nil },
	}
	err := runHooks(context.Background(), hooks)
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 0 {
		t.Errorf("unexpected order %v", order)
	}
}

func TestStorageName(t *testing.T) {
	tests := []struct {
		cfg  storage.Config
		want string
	}{
		{storage.Config{Provider: storage.ProviderLocal, BasePath: "/data"}, "local:/data"},
		{storage.Config{Provider: storage.ProviderS3, Bucket: "exports"}, "s3://exports"},
	}
	for _, tt := range tests {
		if got := storageName(tt.cfg); got != tt.want {
			t.Errorf("storageName = %q, want %q", got, tt.want)
		}
	}
}
