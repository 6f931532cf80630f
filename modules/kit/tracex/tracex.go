package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type spanIDKey struct{}
type sessionIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, traceIDKey{})
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, spanIDKey{})
}

// WithSessionID 标记请求所属的对局，0 视为未设置。
func WithSessionID(ctx context.Context, sessionID int64) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

func SessionIDFrom(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(sessionIDKey{}).(int64)
	return v, ok && v != 0
}

// Ensure 入口没带 trace id 时补一个新的。
func Ensure(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		if _, ok := TraceIDFrom(ctx); ok {
			return ctx
		}
		traceID = NewTraceID()
	}
	return WithTraceID(ctx, traceID)
}

func stringFrom(ctx context.Context, key any) (string, bool) {
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
