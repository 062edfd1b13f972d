package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewLogger(t *testing.T) {
	l := NewLoggerInDir(t.TempDir(), "", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}
	l.SetConsole(&bytes.Buffer{})

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")
	l.Critical("Test critical message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLogFileCreation(t *testing.T) {
	dir := t.TempDir()

	l := NewLoggerInDir(dir, "", "")
	defer l.Close()

	for _, name := range []string{"combined.log", "error.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			t.Errorf("Expected %s to be created", name)
		}
	}
}

func TestErrorsReachErrorFile(t *testing.T) {
	dir := t.TempDir()
	console := &bytes.Buffer{}

	l := NewLoggerInDir(dir, "", "")
	l.SetConsole(console)
	l.Info("solo combinado", "TEST")
	l.Error("fallo grave", "TEST")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		t.Fatalf("reading combined.log: %v", err)
	}
	errorsLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("reading error.log: %v", err)
	}

	if !strings.Contains(string(combined), "solo combinado") || !strings.Contains(string(combined), "fallo grave") {
		t.Errorf("combined.log missing entries: %s", combined)
	}
	if strings.Contains(string(errorsLog), "solo combinado") {
		t.Error("error.log should not contain info entries")
	}
	if !strings.Contains(string(errorsLog), "fallo grave") {
		t.Error("error.log should contain error entries")
	}
	if !strings.Contains(console.String(), "[TEST]: fallo grave") {
		t.Errorf("console output = %q", console.String())
	}
}

func TestWebhookRouting(t *testing.T) {
	l := &Logger{errorWebhookURL: "err-hook", logsWebhookURL: "logs-hook"}

	if got := l.webhookFor(LevelCritical); got != "err-hook" {
		t.Errorf("webhookFor(Critical) = %v", got)
	}
	if got := l.webhookFor(LevelInfo); got != "logs-hook" {
		t.Errorf("webhookFor(Info) = %v", got)
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
