package transport

import (
	"Arcanus/modules/kit/logx"
	"Arcanus/modules/kit/tracex"
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	SpanHTTP = "http"
	SpanWS   = "ws"
)

// AccessLog 一次 HTTP 请求或一帧 ws 消息的访问记录。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	SessionID   int64
	PlayerID    int
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 以 background 为父 context，生成新的 trace id。
func NewContext(span, action string) context.Context {
	return NewContextWithParent(context.Background(), span, action, "")
}

// NewContextWithParent 保留父 context 的取消信号；traceID 为空且父 context 没有时新生成。
func NewContextWithParent(parent context.Context, span, action, traceID string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx = tracex.WithSpanID(tracex.Ensure(ctx, traceID), span)

	al := &AccessLog{
		BizCode:   SystemError,
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 只在失败时有意义，空串忽略。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WithSession 记下请求涉及的对局，同时写进 trace context 供下游日志使用。
func WithSession(ctx context.Context, sessionID int64) context.Context {
	if al := FromContext(ctx); al != nil {
		al.SessionID = sessionID
	}
	return tracex.WithSessionID(ctx, sessionID)
}

func SetPlayer(ctx context.Context, playerID int) {
	if al := FromContext(ctx); al != nil {
		al.PlayerID = playerID
	}
}

// WriteAccessLog 在中间件或 dispatch 结束时调用一次。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	if al.SessionID != 0 {
		ctx = tracex.WithSessionID(ctx, al.SessionID)
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.PlayerID != 0 {
		fields = append(fields, zap.Int("player_id", al.PlayerID))
	}
	if al.BizCode == OK {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
