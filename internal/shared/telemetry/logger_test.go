package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = orig
	}()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read output: %v", err)
	}
	return buf.String()
}

func TestWarnWritesJSONLine(t *testing.T) {
	out := captureStdout(t, func() {
		Warn("storage.delete_failed", map[string]any{
			"key":   "resumes/user_1/x_cv.pdf",
			"error": errors.New("permission denied"),
		})
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &payload); err != nil {
		t.Fatalf("decode log json: %v (%s)", err, out)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", payload["level"])
	}
	if payload["msg"] != "storage.delete_failed" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["error"] != "permission denied" {
		t.Fatalf("expected error rendered as string, got %v", payload["error"])
	}
	if payload["ts"] == "" {
		t.Fatalf("expected timestamp")
	}
}

func TestReservedFieldsWin(t *testing.T) {
	out := captureStdout(t, func() {
		Info("hello", map[string]any{"level": "spoofed", "msg": "spoofed"})
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["level"] != "info" || payload["msg"] != "hello" {
		t.Fatalf("reserved fields overwritten: %v", payload)
	}
}
