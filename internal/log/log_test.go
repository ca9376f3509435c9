package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter_TextOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelDebug})
	logger.Info("resolved session", "patient_id", "p-1")

	out := buf.String()
	if !strings.Contains(out, "resolved session") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, "patient_id=p-1") {
		t.Errorf("output missing attribute: %s", out)
	}
}

func TestNewWithWriter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{JSON: true})
	logger.Info("indexed chunk", "key", "form:abc")

	out := buf.String()
	if !strings.Contains(out, `"msg":"indexed chunk"`) {
		t.Errorf("output not JSON encoded: %s", out)
	}
	if !strings.Contains(out, `"key":"form:abc"`) {
		t.Errorf("output missing attribute: %s", out)
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo})
	logger.Debug("poll tick")
	logger.Info("poll delivered batch")

	out := buf.String()
	if strings.Contains(out, "poll tick") {
		t.Error("debug entry leaked through an info-level logger")
	}
	if !strings.Contains(out, "poll delivered batch") {
		t.Error("info entry missing")
	}
}

func TestComponentContext(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{})
	logger.With("component", "poller").Info("started")

	if !strings.Contains(buf.String(), "component=poller") {
		t.Errorf("output missing component attribute: %s", buf.String())
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	if logger == nil {
		t.Fatal("NewNop() returned nil")
	}
	logger.Error("must not panic and must go nowhere")
}

func TestNew(t *testing.T) {
	if New(Config{}) == nil {
		t.Fatal("New() returned nil")
	}
}
