package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是引擎与传输层共用的日志接口，WithContext 负责把 trace/span/会话字段带上。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}
