package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func jsonLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithWriter(&Config{Level: level, Format: "json"}, "tabkit", &buf), &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("invalid json log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestJSONOutput(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.Info("recipe applied", Fields(FieldRecipe, "clean", FieldRows, 3))

	entry := lastEntry(t, buf)
	if entry["message"] != "recipe applied" {
		t.Errorf("unexpected message %v", entry["message"])
	}
	if entry[FieldRecipe] != "clean" {
		t.Errorf("expected recipe field, got %v", entry[FieldRecipe])
	}
	if entry[FieldRows] != float64(3) {
		t.Errorf("expected rows=3, got %v", entry[FieldRows])
	}
	if entry["service"] != "tabkit" {
		t.Errorf("expected service field, got %v", entry["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := jsonLogger(t, "warn")
	l.Info("dropped")
	l.Debug("dropped too")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("kept")
	if entry := lastEntry(t, buf); entry["level"] != "warn" {
		t.Errorf("expected warn level, got %v", entry["level"])
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := jsonLogger(t, "loud")
	l.Debug("hidden")
	l.Info("shown")
	if entry := lastEntry(t, buf); entry["message"] != "shown" {
		t.Errorf("expected info entry, got %v", entry)
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug should be filtered at the fallback level")
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.WithComponent("storage").WithFields(Fields(FieldPath, "in/a.csv")).Info("download")

	entry := lastEntry(t, buf)
	if entry[FieldComponent] != "storage" {
		t.Errorf("expected component field, got %v", entry[FieldComponent])
	}
	if entry[FieldPath] != "in/a.csv" {
		t.Errorf("expected path field, got %v", entry[FieldPath])
	}
}

func TestWithError(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.WithError(errors.New("boom")).Error("failed")
	if entry := lastEntry(t, buf); entry[FieldError] != "boom" {
		t.Errorf("expected error field, got %v", entry[FieldError])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := jsonLogger(t, "info")

	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when the context has no request id")
	}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	if RequestIDFromContext(ctx) != "req-1" {
		t.Fatalf("request id not stored")
	}
	l.WithContext(ctx).Info("handled")
	if entry := lastEntry(t, buf); entry[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id field, got %v", entry[FieldRequestID])
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "tabkit", &buf)
	l.Info("hello", Fields("k", "v"))
	out := buf.String()
	for _, want := range []string{"[TAB]", "[INF]", "hello", "k:"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output %q missing %q", out, want)
		}
	}
}

func TestNop(t *testing.T) {
	Nop().Error("nothing happens", Fields("a", 1))
}

func TestGlobalLogger(t *testing.T) {
	saved := globalLogger
	defer func() { globalLogger = saved }()

	l, buf := jsonLogger(t, "info")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Fatal("expected the logger just set")
	}
	Info("via global")
	if entry := lastEntry(t, buf); entry["message"] != "via global" {
		t.Errorf("unexpected entry %v", entry)
	}

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Error("expected a default global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" || !cfg.Timestamp {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	cfg = Config{Level: "debug", Format: "json"}
	cfg.ApplyDefaults()
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("defaults overwrote explicit values: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"pretty", Config{Level: "debug", Format: "pretty", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kvs  []interface{}
		want map[string]interface{}
	}{
		{"pairs", []interface{}{"a", 1, "b", "x"}, map[string]interface{}{"a": 1, "b": "x"}},
		{"odd", []interface{}{"a", 1, "dangling"}, map[string]interface{}{"a": 1}},
		{"non-string key", []interface{}{42, "v", "k", true}, map[string]interface{}{"k": true}},
		{"empty", nil, map[string]interface{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fields(tt.kvs...)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q: got %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("apply", errors.New("bad"))
	if f[FieldOperation] != "apply" || f[FieldError] != "bad" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestPassFields(t *testing.T) {
	f := PassFields("clean", 7, 1500*time.Millisecond)
	if f[FieldRecipe] != "clean" || f[FieldRows] != 7 || f[FieldDuration] != int64(1500) {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestMergeWithError(t *testing.T) {
	f := MergeWithError(nil, errors.New("x"))
	if f[FieldError] != "x" {
		t.Errorf("expected error on nil map, got %v", f)
	}
	f = MergeWithError(Fields("a", 1), errors.New("y"))
	if f["a"] != 1 || f[FieldError] != "y" {
		t.Errorf("unexpected merge %v", f)
	}
}
