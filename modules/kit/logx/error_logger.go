package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BizLog 业务拒绝：请求不合法或目标不存在，INFO 级别、无堆栈。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 技术错误。Isolated 表示只影响单个玩家的失败（例如推送失败），
// 调用方会吞掉它继续处理其它玩家，因此降为 WARN。
type SysLog struct {
	Action   string
	Err      error
	Isolated bool
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

func NewIsolatedSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err, Isolated: true}
}

// ReportAccessWithLoggerContext 按 biz_code 分级：0 INFO，1~499 WARN，>=500 ERROR。
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)

	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := orDefault(biz.Action, "biz_reject")
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		base = append(base, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		base = append(base, zap.String("biz_message", biz.Message))
	}
	base = append(base, fields...)
	l.WithContext(ctx).Info(compose(action, "reason", biz.Reason, "msg", biz.Message), base...)
}

func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)

	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if sys.Isolated {
		base = append(base, zap.Bool("isolated", true))
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	msg := compose(action, "reason", meta.Reason, "error", meta.Error)
	if meta.Reason == "" {
		msg = compose(action, "error", meta.Error, "msg", meta.Msg)
	}
	withCtx := l.WithContext(ctx)
	if sys.Isolated {
		withCtx.Warn(msg, base...)
		return
	}
	withCtx.Error(msg, base...)
}

// compose 拼出 "action, k1:v1, k2:v2"，空值跳过。
func compose(action, k1, v1, k2, v2 string) string {
	msg := action
	if v1 != "" {
		msg = fmt.Sprintf("%s, %s:%s", msg, k1, v1)
	}
	if v2 != "" {
		msg = fmt.Sprintf("%s, %s:%s", msg, k2, v2)
	}
	return msg
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
