package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type levelSourceHandler struct {
	handler    slog.Handler
	withSource map[slog.Level]bool
}

// NewLevelSourceHandler wraps a handler so that source location is attached
// only for the given levels. This keeps info-level volume down in production
// while warn and error stay traceable. The wrapped handler must be built
// with AddSource: false or locations would point into this file.
func NewLevelSourceHandler(handler slog.Handler, levels ...slog.Level) slog.Handler {
	withSource := make(map[slog.Level]bool, len(levels))
	for _, l := range levels {
		withSource[l] = true
	}
	return &levelSourceHandler{handler: handler, withSource: withSource}
}

func (h *levelSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.withSource[r.Level] {
		// skip Callers, this frame and the slog internal frame
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		frame, _ := runtime.CallersFrames(pcs[:]).Next()

		r.AddAttrs(slog.Attr{
			Key: slog.SourceKey,
			Value: slog.AnyValue(&slog.Source{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			}),
		})
	}
	return h.handler.Handle(ctx, r)
}

func (h *levelSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelSourceHandler{handler: h.handler.WithAttrs(attrs), withSource: h.withSource}
}

func (h *levelSourceHandler) WithGroup(name string) slog.Handler {
	return &levelSourceHandler{handler: h.handler.WithGroup(name), withSource: h.withSource}
}

func (h *levelSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
