package logx

import (
	"context"

	"Arcanus/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 适配 zap，nil 入参退化为 Nop。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

// Named 给子系统加前缀，例如 "session"、"notifier"。
func (z *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{logger: z.logger.Named(name)}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	return &ZapLogger{logger: z.logger.With(ContextFields(ctx)...)}
}

// ContextFields 取出 context 上的 trace_id/span_id/session_id。
func ContextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	if sess, ok := tracex.SessionIDFrom(ctx); ok {
		fields = append(fields, zap.Int64("session_id", sess))
	}
	return fields
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.logger.Info(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.logger.Error(msg, fields...) }
func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.logger.Debug(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.logger.Warn(msg, fields...) }
