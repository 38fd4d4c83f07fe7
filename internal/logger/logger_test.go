package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNamedLoggerWritesComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")

	opts := Options{Level: "debug", File: FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}}
	if err := Configure(opts); err != nil {
		t.Fatalf("failed to configure logger: %v", err)
	}

	Named("obj").Warn("unrecognized directive", zap.Int("line", 7))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	got := string(content)
	for _, want := range []string{"obj", "unrecognized directive", `"line": 7`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in log output, got %q", want, got)
		}
	}
}

func TestNopWithoutOutputs(t *testing.T) {
	if err := Configure(Options{Level: "info"}); err != nil {
		t.Fatalf("failed to configure logger: %v", err)
	}
	Info("discarded")
	Named("mesh").Error("discarded")
	Sync()
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Configure(Options{Level: "warn", Console: &buf}); err != nil {
		t.Fatalf("failed to configure logger: %v", err)
	}
	t.Cleanup(func() { _ = Configure(Options{}) })

	Info("hidden")
	Named("weld").Warn("non-finite tangent")
	Sync()

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("info message passed a warn level: %q", got)
	}
	if !strings.Contains(got, "WARN") || !strings.Contains(got, "non-finite tangent") {
		t.Errorf("expected uncolored warning, got %q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("expected no color escapes, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{" DEBUG ", zapcore.DebugLevel, false},
		{"Info", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if err := Configure(Options{Level: "loud"}); err == nil {
		t.Error("expected Configure to reject an unknown level")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			if err := Configure(Options{Level: tt.level, File: FileConfig{Path: logFile, MaxSizeMB: 10}}); err != nil {
				t.Fatalf("failed to configure logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/objview.log")

	if cfg.Path != "/tmp/objview.log" {
		t.Errorf("expected path /tmp/objview.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation settings: %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
