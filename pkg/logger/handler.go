package logger

import (
	"context"
	"log/slog"
	"strings"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// RedactedValue replaces the value of attributes whose key names a credential.
const RedactedValue = "[REDACTED]"

var secretKeys = []string{"private_key", "secret", "password", "authorization"}

// middlewareHandler runs records through its middlewares, first one outermost, before
// handing them to next. Attributes bound with WithAttrs are redacted once, up front.
type middlewareHandler struct {
	next        slog.Handler
	middlewares []middleware
	handle      handleFunc
}

func newMiddlewareHandler(next slog.Handler, middlewares ...middleware) *middlewareHandler {
	h := &middlewareHandler{next: next, middlewares: middlewares, handle: next.Handle}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h.handle = middlewares[i](h.handle)
	}
	return h
}

func (h *middlewareHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h *middlewareHandler) Handle(ctx context.Context, rec slog.Record) error {
	return h.handle(ctx, rec)
}

func (h *middlewareHandler) WithGroup(group string) slog.Handler {
	return newMiddlewareHandler(h.next.WithGroup(group), h.middlewares...)
}

func (h *middlewareHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = redactAttr(attr)
	}
	return newMiddlewareHandler(h.next.WithAttrs(redacted), h.middlewares...)
}

// middlewareRedactSecrets rewrites credential attributes of a record, wallet keys
// and provider secrets included, so they never reach the output.
func middlewareRedactSecrets() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			redacted := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
			rec.Attrs(func(attr slog.Attr) bool {
				redacted.AddAttrs(redactAttr(attr))
				return true
			})
			return next(ctx, redacted)
		}
	}
}

func redactAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		out := make([]any, len(group))
		for i, a := range group {
			out[i] = redactAttr(a)
		}
		return slog.Group(attr.Key, out...)
	}
	if isSecretKey(attr.Key) {
		return slog.String(attr.Key, RedactedValue)
	}
	return attr
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, secret := range secretKeys {
		if strings.Contains(key, secret) {
			return true
		}
	}
	return false
}
