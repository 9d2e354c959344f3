package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

// contextHandler decorates records with correlation fields carried in context.
type contextHandler struct {
	next slog.Handler
}

func newHandler(w io.Writer, format logFormat, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr}
	var next slog.Handler
	if format == formatJSON {
		next = slog.NewJSONHandler(w, opts)
	} else {
		next = slog.NewTextHandler(w, opts)
	}
	return &contextHandler{next: next}
}

// Enabled reports whether the wrapped handler accepts the level.
func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle appends context fields not already present on the record.
func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	seen := make(map[string]struct{}, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		seen[a.Key] = struct{}{}
		return true
	})
	add := func(a slog.Attr) {
		if _, ok := seen[a.Key]; ok {
			return
		}
		r.AddAttrs(a)
	}
	if rid := RIDFrom(ctx); rid != "" {
		add(slog.String("rid", CompactRID(rid)))
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		add(slog.Int("update_id", id))
	}
	if id := UserIDFrom(ctx); id != 0 {
		add(slog.Int64("user_id", id))
	}
	if id := ChatIDFrom(ctx); id != 0 {
		add(slog.Int64("chat_id", id))
	}
	if name := HandlerFrom(ctx); name != "" {
		add(slog.String("handler", name))
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs returns a handler whose wrapped handler carries attrs.
func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup returns a handler whose wrapped handler opens a group.
func (h *contextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &contextHandler{next: h.next.WithGroup(name)}
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey:
			return slog.String("ts", a.Value.Time().UTC().Truncate(time.Millisecond).Format(timeFormatMillis))
		case slog.MessageKey:
			// event carries the message
			return slog.Attr{}
		}
	}
	if a.Value.Kind() == slog.KindDuration {
		return slog.Int64(durationKey(a.Key), RoundMS(a.Value.Duration()).Milliseconds())
	}
	if a.Value.Kind() == slog.KindString {
		a.Value = slog.StringValue(strings.TrimSpace(a.Value.String()))
	}
	return a
}

func durationKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	default:
		return key + "_ms"
	}
}
