// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// SlogHandler is an slog.Handler that writes through zerolog. Components
// that only speak slog, such as the sutureslog supervisor hook, end up in
// the same JSON stream as everything else.
type SlogHandler struct {
	logger zerolog.Logger
	prefix string // open groups joined with "."
}

// NewSlogHandler adapts logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogHandler(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// NewSlogLogger is an *slog.Logger on the global logger, tagged with
// component.
func NewSlogLogger(component string) *slog.Logger {
	return slog.New(NewSlogHandler(WithComponent(component)))
}

// Enabled honors both the handler's and the global level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := zerologLevel(level)
	return zl >= h.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

// Handle emits one record.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	ev := h.logger.WithLevel(zerologLevel(record.Level))
	record.Attrs(func(a slog.Attr) bool {
		ev = putAttr(ev, h.prefix, a)
		return true
	})
	ev.Msg(record.Message)
	return nil
}

// WithAttrs renders attrs into a child logger once, so later records do
// not pay for them again.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	zctx := h.logger.With()
	for _, a := range attrs {
		zctx = putAttr(zctx, h.prefix, a)
	}
	return &SlogHandler{logger: zctx.Logger(), prefix: h.prefix}
}

// WithGroup nests subsequent keys under name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, prefix: h.prefix + name + "."}
}

// fieldSink is the field API shared by *zerolog.Event and zerolog.Context.
type fieldSink[T any] interface {
	Str(key, val string) T
	Int64(key string, i int64) T
	Uint64(key string, i uint64) T
	Float64(key string, f float64) T
	Bool(key string, b bool) T
	Dur(key string, d time.Duration) T
	Time(key string, t time.Time) T
	Interface(key string, i any) T
}

func putAttr[T fieldSink[T]](dst T, prefix string, a slog.Attr) T {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return dst
	}
	key := prefix + a.Key

	switch v.Kind() {
	case slog.KindGroup:
		nested := prefix
		if a.Key != "" {
			nested = key + "."
		}
		for _, ga := range v.Group() {
			dst = putAttr(dst, nested, ga)
		}
		return dst
	case slog.KindString:
		return dst.Str(key, v.String())
	case slog.KindInt64:
		return dst.Int64(key, v.Int64())
	case slog.KindUint64:
		return dst.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		return dst.Float64(key, v.Float64())
	case slog.KindBool:
		return dst.Bool(key, v.Bool())
	case slog.KindDuration:
		return dst.Dur(key, v.Duration())
	case slog.KindTime:
		return dst.Time(key, v.Time())
	default:
		return dst.Interface(key, v.Any())
	}
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	case level >= slog.LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
