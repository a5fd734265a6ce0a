package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "viewer.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1, // smallest size lumberjack accepts
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	longMessage := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("frame %d: %s", i, longMessage)
	}
	Sync()

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var rotated int
	for _, f := range files {
		name := f.Name()
		if name == "viewer.log" {
			continue
		}
		if strings.HasPrefix(name, "viewer-") && strings.HasSuffix(name, ".log") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("expected rotated log files, found %d entries", len(files))
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
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}

			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			content := readLog(t, logFile)
			for _, exp := range tt.expected {
				if !strings.Contains(content, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(content, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNamedJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "json.log")
	err := Setup(Options{
		Level: "info",
		JSON:  true,
		File:  FileConfig{Path: logFile, MaxSizeMB: 1},
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	Named("terrain").Info("mesh built", zap.Int("vertices", 4225))

	line := strings.TrimSpace(readLog(t, logFile))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["logger"] != "terrain" {
		t.Errorf("logger = %v, want terrain", entry["logger"])
	}
	if entry["msg"] != "mesh built" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["vertices"] != float64(4225) {
		t.Errorf("vertices = %v", entry["vertices"])
	}
}

func TestSetupWithoutSinks(t *testing.T) {
	if err := Setup(Options{Level: "debug"}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	// Must not panic.
	Info("dropped")
	Named("x").Debug("dropped")
	Sync()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/viewer.log")

	if cfg.Path != "/tmp/viewer.log" {
		t.Errorf("expected path /tmp/viewer.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
