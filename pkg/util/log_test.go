package util

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// captureLog redirects Logger into a buffer for the duration of the test.
func captureLog(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	out, lvl, formatter := Logger.Out, Logger.Level, Logger.Formatter
	t.Cleanup(func() {
		Logger.SetOutput(out)
		Logger.SetLevel(lvl)
		Logger.SetFormatter(formatter)
	})
	var buf bytes.Buffer
	Logger.SetOutput(&buf)
	if err := SetLogLevel(level); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestSetLogLevel(t *testing.T) {
	captureLog(t, "info")

	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"warn", false},
		{"verbose", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if err := SetLogLevel(tt.level); (err != nil) != tt.wantErr {
				t.Errorf("SetLogLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestSetLogFormat(t *testing.T) {
	tests := []struct {
		format   string
		wantJSON bool
		wantErr  bool
	}{
		{"", false, false},
		{"text", false, false},
		{"json", true, false},
		{"yaml", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			buf := captureLog(t, "info")
			err := SetLogFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetLogFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			WithOperation("create", "route").Info("mutation applied")
			line := buf.Bytes()
			var rec map[string]interface{}
			isJSON := json.Unmarshal(line, &rec) == nil
			if isJSON != tt.wantJSON {
				t.Fatalf("JSON output = %v, want %v: %s", isJSON, tt.wantJSON, line)
			}
			if isJSON && (rec["operation"] != "create" || rec["resource"] != "route") {
				t.Errorf("fields = %v", rec)
			}
			if !isJSON && !strings.Contains(string(line), "operation=create resource=route") {
				t.Errorf("text output missing fields: %s", line)
			}
		})
	}
}

func TestWithResource(t *testing.T) {
	buf := captureLog(t, "info")
	WithResource("link").Info("refreshed")
	if !strings.Contains(buf.String(), "resource=link") {
		t.Errorf("expected resource field in output, got: %s", buf.String())
	}
}

func TestDebugfOnlyAtDebug(t *testing.T) {
	buf := captureLog(t, "warn")
	Debugf("backend %s", "http://localhost:3005")
	if buf.Len() != 0 {
		t.Errorf("debug logged at warn level: %s", buf.String())
	}
	Warnf("warn %d", 1)
	if buf.Len() == 0 {
		t.Error("expected warn output")
	}

	buf.Reset()
	if err := SetLogLevel("debug"); err != nil {
		t.Fatal(err)
	}
	Debugf("backend %s", "http://localhost:3005")
	if !strings.Contains(buf.String(), "backend http://localhost:3005") {
		t.Errorf("debug output = %q", buf.String())
	}
}
