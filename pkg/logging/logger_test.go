package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	originalLevel, hadLevel := os.LookupEnv(LogLevelEnv)
	defer func() {
		if hadLevel {
			os.Setenv(LogLevelEnv, originalLevel)
		} else {
			os.Unsetenv(LogLevelEnv)
		}
	}()
	os.Setenv(LogLevelEnv, "WARN")

	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)
	ctx := context.Background()

	logger.Info(ctx, "dropped")
	if buf.Len() != 0 {
		t.Errorf("INFO written at WARN level: %s", buf.String())
	}

	logger.Warn(ctx, "kept", "password", "hunter2")
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if entry["msg"] != "kept" {
		t.Errorf("Expected message 'kept', got %v", entry["msg"])
	}
	if entry["password"] != "[REDACTED]" {
		t.Errorf("Expected password to be redacted, got %v", entry["password"])
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error(context.Background(), "nothing", errors.New("ignored"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded", " error ", slog.LevelError},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if level := ParseLevel(tt.input); level != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestRunID(t *testing.T) {
	t.Run("generate run ID", func(t *testing.T) {
		id1 := GenerateRunID()
		id2 := GenerateRunID()

		if id1 == "" || id2 == "" {
			t.Error("GenerateRunID() returned empty string")
		}
		if id1 == id2 {
			t.Error("GenerateRunID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("GenerateRunID() returned wrong length: %d", len(id1))
		}
	})

	t.Run("context with run ID", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "run-42")
		if got := GetRunID(ctx); got != "run-42" {
			t.Errorf("GetRunID() = %q, want %q", got, "run-42")
		}
	})

	t.Run("context without run ID", func(t *testing.T) {
		if got := GetRunID(context.Background()); got != "" {
			t.Errorf("GetRunID() = %q, want empty string", got)
		}
	})

	t.Run("auto-generate run ID", func(t *testing.T) {
		id := GetRunID(WithRunID(context.Background(), ""))
		if len(id) != 16 {
			t.Errorf("auto-generated run ID has wrong length: %d", len(id))
		}
	})
}

func TestSanitizeAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"password field", slog.String("password", "secret123"), "[REDACTED]"},
		{"token field", slog.String("auth_token", "bearer-token"), "[REDACTED]"},
		{"case insensitive", slog.String("API_SECRET", "x"), "[REDACTED]"},
		{"config path", slog.String("config", "rope.json"), "rope.json"},
		{"particle field", slog.Int("particle", 9), "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeAttributes(nil, tt.attr)
			if result.Value.String() != tt.expected {
				t.Errorf("sanitizeAttributes() = %q, want %q", result.Value.String(), tt.expected)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer

	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := &Logger{slog.New(handler)}

	ctx := WithRunID(context.Background(), "run-123")

	tests := []struct {
		name  string
		log   func()
		level string
	}{
		{"info", func() { logger.Info(ctx, "message", "particle", 3) }, "INFO"},
		{"warn", func() { logger.Warn(ctx, "message", "particle", 3) }, "WARN"},
		{"debug", func() { logger.Debug(ctx, "message", "particle", 3) }, "DEBUG"},
		{"error", func() { logger.Error(ctx, "message", errors.New("boom"), "particle", 3) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Failed to parse log JSON: %v", err)
			}
			if entry["level"] != tt.level {
				t.Errorf("Expected level %q, got %v", tt.level, entry["level"])
			}
			if entry["run_id"] != "run-123" {
				t.Errorf("Expected run_id 'run-123', got %v", entry["run_id"])
			}
			if entry["particle"] != float64(3) {
				t.Errorf("Expected particle 3, got %v", entry["particle"])
			}
			if tt.level == "ERROR" && entry["error"] != "boom" {
				t.Errorf("Expected error 'boom', got %v", entry["error"])
			}
		})
	}
}

func TestLogWithoutRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{slog.New(slog.NewJSONHandler(&buf, nil))}

	logger.Info(context.Background(), "test message")

	if strings.Contains(buf.String(), "run_id") {
		t.Error("Log should not contain run_id when none is set in context")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wrap nil error", func(t *testing.T) {
		if result := WrapError(nil, "context"); result != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", result)
		}
	})

	t.Run("wrap error with formatted context", func(t *testing.T) {
		originalErr := errors.New("original error")
		wrapped := WrapError(originalErr, "loading %s", "rope.json")

		expectedMsg := "loading rope.json: original error"
		if wrapped.Error() != expectedMsg {
			t.Errorf("WrapError() = %q, want %q", wrapped.Error(), expectedMsg)
		}
		if !errors.Is(wrapped, originalErr) {
			t.Error("WrapError() should preserve original error")
		}
	})
}
