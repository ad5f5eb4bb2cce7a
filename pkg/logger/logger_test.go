package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitWithOutput_JSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	InitWithOutput(&buf)
	defer Init()

	Component("board").WithField("seed", 42).Debug("Level generated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "board" || entry["msg"] != "Level generated" || entry["seed"] != float64(42) {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestInitWithOutput_DefaultLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "nonsense")
	t.Setenv("LOG_FORMAT", "")

	var buf bytes.Buffer
	InitWithOutput(&buf)
	defer Init()

	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %s", Log.GetLevel())
	}
	Log.Debug("hidden")
	Log.Info("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}
