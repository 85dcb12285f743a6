package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func testLogger(level LogLevel, structured bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{
		level:         level,
		structured:    structured,
		consoleLogger: log.New(&buf, "", 0),
	}, &buf
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLogLevel(c.in); got != c.want {
			t.Errorf("ParseLogLevel(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := testLogger(LevelWarn, false)

	logger.Debug("radio", "suppressed")
	logger.Info("radio", "suppressed")
	logger.Warn("radio", "squelch open")
	logger.Errorf("radio", "failed after %d retries", 3)

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("Expected debug and info suppressed at warn level, got: %s", out)
	}
	if !strings.Contains(out, "squelch open") {
		t.Errorf("Expected warn message, got: %s", out)
	}
	if !strings.Contains(out, "failed after 3 retries") {
		t.Errorf("Expected formatted error message, got: %s", out)
	}
}

func TestHumanFormat(t *testing.T) {
	logger, buf := testLogger(LevelDebug, false)

	logger.Info("serial", "port opened", map[string]interface{}{"device": "/dev/ttyUSB0"})

	out := buf.String()
	if !strings.Contains(out, "[INFO] serial: port opened") {
		t.Errorf("Expected level and component in output, got: %s", out)
	}
	if !strings.Contains(out, "device=/dev/ttyUSB0") {
		t.Errorf("Expected fields in output, got: %s", out)
	}
}

func TestStructuredFormat(t *testing.T) {
	logger, buf := testLogger(LevelDebug, true)

	logger.Warnf("web", "slow poll: %dms", 1200)

	out := buf.String()
	for _, want := range []string{`"level":"WARN"`, `"component":"web"`, `"message":"slow poll: 1200ms"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in structured output, got: %s", want, out)
		}
	}
}
