package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func captureStdOut(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestInit_DevStd_TextOutput(t *testing.T) {
	out := captureStdOut(t, func() {
		Init(Config{
			Service: "demo",
			Version: "1.2.3",
			Env:     EnvDev,
			Backend: BackendStd,
		})
		slog.Info("booted", slog.String("k", "v"))
	})

	for _, want := range []string{"msg=booted", "service=demo", "env=dev", "version=1.2.3", "k=v"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %s", want, out)
		}
	}
}

func TestInit_DefaultsBackendByEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	out := captureStdOut(t, func() {
		Init(Config{Service: "demo"})
		slog.Info("ping")
	})

	// dev defaults to the text handler, not JSON
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected text output in dev, got %s", out)
	}
}

func TestEnsureInstanceID(t *testing.T) {
	if got := ensureInstanceID("custom"); got != "custom" {
		t.Fatalf("explicit id must win, got %q", got)
	}
	if got := ensureInstanceID(""); got == "" {
		t.Fatal("generated id must not be empty")
	}
}
