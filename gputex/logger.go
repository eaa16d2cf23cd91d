//go:build !nogpu

package gputex

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

func slogger() *slog.Logger { return loggerPtr.Load() }

func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// SetLogger sets the package-level logger, which every Backend shares.
// NewFontAtlas and later fontatlas.SetLogger calls invoke it when a Backend
// is wired in as the FontAtlas's TextureBackend, since Backend implements
// the loggerSetter interface fontatlas looks for.
func (b *Backend) SetLogger(l *slog.Logger) {
	setLogger(l)
}
