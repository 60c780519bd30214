package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewConsole_SplitsLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewConsole(&out, &errOut, zerolog.DebugLevel)

	logger.Info().Msg("page served")
	logger.Error().Msg("query failed")

	if !strings.Contains(out.String(), "page served") {
		t.Errorf("expected info on stdout writer, got %q", out.String())
	}
	if strings.Contains(out.String(), "query failed") {
		t.Errorf("error leaked to stdout writer: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "query failed") {
		t.Errorf("expected error on stderr writer, got %q", errOut.String())
	}
}

func TestNewConsole_RespectsLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewConsole(&out, &errOut, zerolog.WarnLevel)

	logger.Info().Msg("hidden")
	if out.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", out.String())
	}
}

func TestNew_WritesRotatingFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "logs", "browseby.log")

	logger, cleanup, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info().Str("page", "author").Msg("cache warmed")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"page":"author"`) {
		t.Errorf("expected JSON log line, got %q", data)
	}
}
