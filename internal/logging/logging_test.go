package logging

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "corebench.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogInvocation("fib", 2, 150*time.Millisecond, "pass", nil, 75025)
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "benchmark=fib worker=2 elapsed=150ms verdict=pass value=75025") {
		t.Fatalf("expected LogInvocation content, got: %s", content)
	}
}

func TestInitConsole(t *testing.T) {
	var buf bytes.Buffer
	prev := console
	console = &buf
	t.Cleanup(func() {
		console = prev
		log.SetOutput(os.Stderr)
	})

	if err := Init("", true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("to console")
	if !strings.Contains(buf.String(), "to console") {
		t.Fatalf("expected console output, got: %q", buf.String())
	}
}

func TestBuildInvocationMessageDefaults(t *testing.T) {
	msg := buildInvocationMessage(" ", 1, time.Second, " ", errors.New("boom"), nil)
	if !strings.Contains(msg, "[ERROR]") {
		t.Fatalf("expected error status, got: %s", msg)
	}
	if !strings.Contains(msg, "benchmark=unknown") {
		t.Fatalf("expected default name, got: %s", msg)
	}
	if strings.Contains(msg, "verdict=") {
		t.Fatalf("expected empty verdict to be omitted, got: %s", msg)
	}
	if !strings.Contains(msg, `error="boom"`) {
		t.Fatalf("expected quoted error, got: %s", msg)
	}
}

func TestFormatValueVariants(t *testing.T) {
	if got := formatValue(nil); got != "null" {
		t.Fatalf("nil value: %s", got)
	}
	if got := formatValue(" "); got != `""` {
		t.Fatalf("empty string value: %s", got)
	}
	if got := formatValue([]byte("hi")); got != "hi" {
		t.Fatalf("byte value: %s", got)
	}
	if got := formatValue(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer value: %s", got)
	}
	if got := formatValue(map[string]any{"ok": true}); got != `{"ok":true}` {
		t.Fatalf("json value: %s", got)
	}
}

func TestInitDiscard(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	if err := Init("", false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("discard")
	if buf.Len() != 0 {
		t.Fatalf("expected log output discarded, got: %s", buf.String())
	}
}
