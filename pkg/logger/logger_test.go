package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func captureStdOut(fn func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() {
		os.Stdout = orig
	}()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()
	return buf.String()
}

func TestInit_DevStd_TextOutput(t *testing.T) {
	cfg := Config{
		Service: "demo",
		Version: "v0.0.1",
		Env:     EnvDev,
		Backend: BackendStd,
		Level:   slog.LevelDebug,
	}

	out := captureStdOut(func() {
		Init(cfg)
		slog.Info("hello relay")
	})

	if strings.Contains(out, "{") && strings.Contains(out, "}") {
		t.Fatalf("expected text output in dev/std, got JSON: %s", out)
	}
	if !strings.Contains(out, "hello relay") {
		t.Fatalf("message missing: %s", out)
	}
	if !strings.Contains(out, "service=demo") {
		t.Fatalf("service attr missing: %s", out)
	}
}

func TestInit_ProdDefaultsToZapJSON(t *testing.T) {
	out := captureStdOut(func() {
		Init(Config{Service: "demo", Env: EnvProd})
		slog.Info("json line")
	})

	if !strings.Contains(out, "{") {
		t.Fatalf("expected JSON output in prod, got: %s", out)
	}
	if !strings.Contains(out, "json line") {
		t.Fatalf("message missing: %s", out)
	}
}

func TestL_LazyInit(t *testing.T) {
	def = nil
	if L() == nil {
		t.Fatal("L() must self-initialize")
	}
}
