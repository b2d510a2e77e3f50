package logger_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.trai.ch/plank/internal/adapters/logger"
)

func TestLogger_Info(t *testing.T) {
	log := logger.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.Info("plan written", "target", "root", "packages", 3)

	out := buf.String()
	if !strings.Contains(out, "plan written") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "target=root") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestLogger_Warn(t *testing.T) {
	log := logger.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.Warn("merge collision", "at", "node_modules/a")

	out := buf.String()
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "merge collision") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestLogger_Error(t *testing.T) {
	log := logger.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.Error(errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "boom") {
		t.Errorf("unexpected output: %q", out)
	}
}
