package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"regular email", "alice@example.com"},
		{"plus address", "bob+work@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if !strings.HasPrefix(got, "user:") {
				t.Errorf("AnonymizeEmail(%q) = %q, want user: prefix", tt.email, got)
			}
			if len(got) != len("user:")+16 {
				t.Errorf("AnonymizeEmail(%q) = %q, want 16 hex chars after prefix", tt.email, got)
			}
			if strings.Contains(got, tt.email) {
				t.Errorf("AnonymizeEmail(%q) leaks the address: %q", tt.email, got)
			}
			if again := AnonymizeEmail(tt.email); again != got {
				t.Errorf("AnonymizeEmail not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestAnonymizeEmailEmpty(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %q, want empty", got)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "example.com"},
		{"no-at-sign", ""},
		{"two@ats@here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.email); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil).Key = %q, want empty group", attr.Key)
	}
}

func TestSetupWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(&buf, false)

	logger.Debug("should be filtered")
	logger.Info("hello", Operation("test_op"), UserHash("alice@example.com"))

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "operation=test_op") {
		t.Errorf("missing operation attr in %q", out)
	}
	if strings.Contains(out, "alice@example.com") {
		t.Errorf("raw email leaked into log output: %q", out)
	}
}

func TestSetupDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(&buf, true)

	logger.Debug("debug enabled")
	if !strings.Contains(buf.String(), "debug enabled") {
		t.Error("debug message not logged with debug=true")
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	adapter := NewSlogAdapter(logger)
	adapter.Info("message", "key", "value")

	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("adapter did not forward attrs: %q", buf.String())
	}
	if adapter.Logger() != logger {
		t.Error("Logger() did not return wrapped logger")
	}
}

func TestNewSlogAdapterNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.Logger() == nil {
		t.Error("nil logger should fall back to slog.Default")
	}
}
