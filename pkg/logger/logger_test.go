package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(Options{Dir: t.TempDir(), MinLevel: LevelDebug, Console: &out})
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()

	if !strings.Contains(out.String(), "Test info message") {
		t.Errorf("console output = %q, want it to contain the info message", out.String())
	}
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

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"error", LevelError},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"info", LevelInfo},
		{"", LevelDebug},
		{"verbose", LevelDebug},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMinLevelFiltersConsole(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(Options{Dir: t.TempDir(), MinLevel: LevelWarn, Console: &out})
	defer l.Close()

	l.Info("hidden", "TEST")
	l.Warn("shown", "TEST")
	l.System("always", "TEST")

	got := out.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("console output = %q, info should be filtered", got)
	}
	if !strings.Contains(got, "shown") || !strings.Contains(got, "always") {
		t.Errorf("console output = %q, want warn and system lines", got)
	}
}

func TestLogFileCreation(t *testing.T) {
	logsDir := filepath.Join(t.TempDir(), "logs")

	var out bytes.Buffer
	l := NewLogger(Options{Dir: logsDir, MinLevel: LevelDebug, Console: &out})
	l.Error("boom", "TEST")
	l.Close()

	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		t.Error("Expected logs directory to be created")
	}

	combined, err := os.ReadFile(filepath.Join(logsDir, "combined.log"))
	if err != nil {
		t.Fatalf("Expected combined.log to be created: %v", err)
	}

	var entry map[string]any
	line := strings.TrimSpace(strings.SplitN(string(combined), "\n", 2)[0])
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("combined.log line is not JSON: %v (%q)", err, line)
	}
	if entry["msg"] != "boom" || entry["prefix"] != "TEST" {
		t.Errorf("combined.log entry = %v, want msg=boom prefix=TEST", entry)
	}

	errorLog, err := os.ReadFile(filepath.Join(logsDir, "error.log"))
	if err != nil {
		t.Fatalf("Expected error.log to be created: %v", err)
	}
	if !strings.Contains(string(errorLog), "boom") {
		t.Errorf("error.log = %q, want it to contain the error", errorLog)
	}
}

func TestWebhookFor(t *testing.T) {
	l := &Logger{errorWebhookURL: "err", logsWebhookURL: "logs"}

	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelCritical, "err"},
		{LevelError, "err"},
		{LevelWarn, "logs"},
		{LevelInfo, "logs"},
		{LevelDebug, ""},
	}

	for _, tt := range tests {
		if got := l.webhookFor(tt.level); got != tt.want {
			t.Errorf("webhookFor(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init(Options{Dir: t.TempDir(), Console: &bytes.Buffer{}})
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init(Options{Dir: "different"})
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
