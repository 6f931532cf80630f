package actor

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/transport"
	"Arcanus/internal/world/actors"
	"Arcanus/modules/kit/errx"
	"Arcanus/modules/kit/tracex"
	"context"
	"errors"
	"fmt"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Reason  string
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		r.root.Stop(r.manager)
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// CreateSession 建一局新游戏，返回会话 id。
func (r *Runtime) CreateSession(ctx context.Context, req *messages.HWCreateSession) (*messages.WHCreateSession, error) {
	if req != nil && req.TraceId == "" {
		req.TraceId, _ = tracex.TraceIDFrom(ctx)
	}
	return Ask[*messages.WHCreateSession](ctx, r, req)
}

// Send 把会话请求投给管理 actor，等待类型为 T 的回复。
func Send[T any](ctx context.Context, r *Runtime, msg messages.SessionMessage) (T, error) {
	return Ask[T](ctx, r, msg)
}

// Ask 请求管理 actor；FailResp 会转换成 RuntimeError。
func Ask[T any](ctx context.Context, r *Runtime, msg any) (T, error) {
	var zero T
	if r == nil {
		return zero, unavailable("actor runtime 未初始化")
	}
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	switch v := res.(type) {
	case *messages.FailResp:
		return zero, &RuntimeError{Code: v.Code, Reason: v.Reason, Message: v.Message}
	case T:
		return v, nil
	default:
		return zero, &RuntimeError{
			Code:    transport.SystemError,
			Reason:  string(errx.CodeInternal),
			Message: fmt.Sprintf("actor 回复类型不符: %T", res),
			Cause:   errx.ErrInternal.WithData("reply", fmt.Sprintf("%T", res)),
		}
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, unavailable("actor runtime 未初始化")
	}
	if pid == nil {
		return nil, unavailable("actor pid 为空")
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err == nil {
		return res, nil
	}
	sentinel := errx.ErrUnavailable
	if errors.Is(err, protoactor.ErrTimeout) {
		sentinel = errx.ErrTimeout
	}
	return nil, &RuntimeError{
		Code:    transport.SystemError,
		Reason:  sentinel.CodeText(),
		Message: "actor 请求失败",
		Cause:   sentinel.WithData("timeout", timeout.String()).WithCause(err),
	}
}

func unavailable(msg string) *RuntimeError {
	return &RuntimeError{
		Code:    transport.SystemError,
		Reason:  errx.ErrUnavailable.CodeText(),
		Message: msg,
		Cause:   errx.ErrUnavailable,
	}
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
