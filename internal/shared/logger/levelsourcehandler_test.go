package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		withSource []slog.Level
		wantSource bool
	}{
		{
			name:       "info without source config",
			level:      slog.LevelInfo,
			withSource: []slog.Level{slog.LevelWarn, slog.LevelError},
			wantSource: false,
		},
		{
			name:       "warn with source config",
			level:      slog.LevelWarn,
			withSource: []slog.Level{slog.LevelWarn, slog.LevelError},
			wantSource: true,
		},
		{
			name:       "error with source config",
			level:      slog.LevelError,
			withSource: []slog.Level{slog.LevelWarn, slog.LevelError},
			wantSource: true,
		},
		{
			name:       "info with all levels configured",
			level:      slog.LevelInfo,
			withSource: []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError},
			wantSource: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			})
			l := slog.New(NewLevelSourceHandler(base, tt.withSource...))

			l.Log(context.Background(), tt.level, "test message")

			got := strings.Contains(buf.String(), "source=")
			if got != tt.wantSource {
				t.Errorf("source attribute present = %v, want %v; output: %s", got, tt.wantSource, buf.String())
			}
		})
	}
}

func TestLevelSourceHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{AddSource: false})
	l := slog.New(NewLevelSourceHandler(base, slog.LevelWarn)).With("component", "quota")

	l.Warn("limit exceeded")

	out := buf.String()
	if !strings.Contains(out, "component=quota") {
		t.Errorf("expected component attr in output: %s", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("expected source attr in output: %s", out)
	}
}
