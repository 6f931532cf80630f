package errx

import (
	"errors"
	"fmt"
	"runtime"
)

// Code 是错误的稳定标识，errors.Is 只比较它。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Reason 暴露一个字符串原因码，WithReason 会把它写进 data.reason。
type Reason interface {
	ReasonCode() string
}

const reasonKey = "reason"

// Error 不可变：With* 都返回副本，哨兵错误可以放心派生。
// 系统类错误在第一次挂 cause 时记录一次调用栈。
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

// NewBiz 调用方可以修正的错误（目标不存在、参数越界），不记栈。
func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

// NewSys 技术故障（推送失败、actor 不可达）。
func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := string(e.code)
	if e.msg != "" {
		head += ": " + e.msg
	}
	if e.cause == nil {
		return head
	}
	return fmt.Sprintf("%s: %v", head, e.cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	return ok && t != nil && e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string { return string(e.Code()) }

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// Data 返回副本。
func (e *Error) Data() map[string]any {
	if e == nil {
		return nil
	}
	return cloneAnyMap(e.data)
}

// DataValue 读取单个上下文字段，例如 "urn"、"player_id"。
func (e *Error) DataValue(key string) (any, bool) {
	if e == nil || e.data == nil {
		return nil, false
	}
	v, ok := e.data[key]
	return v, ok
}

func (e *Error) Reason() string {
	v, _ := e.DataValue(reasonKey)
	s, _ := v.(string)
	return s
}

func (e *Error) Stack() []uintptr {
	if e == nil {
		return nil
	}
	return cloneStack(e.stack)
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.clone()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithReason(reason Reason) *Error {
	if reason == nil {
		return e.WithData(reasonKey, "")
	}
	return e.WithData(reasonKey, reason.ReasonCode())
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.clone()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	for k, v := range data {
		next.data[k] = v
	}
	return next
}

// WithCause 下层已经带栈时不再重复捕获。
func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

func (e *Error) clone() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		data:  cloneAnyMap(e.data),
		cause: e.cause,
		stack: cloneStack(e.stack),
		kind:  e.kind,
	}
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStack(in []uintptr) []uintptr {
	if len(in) == 0 {
		return nil
	}
	return append([]uintptr(nil), in...)
}

func captureStack(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	for i := 0; i < 32 && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// CodeOf 返回链上第一个 *Error 的错误码，没有则为空串。
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return ""
}

// IsSys 链上第一个 *Error 是否为系统类错误。
func IsSys(err error) bool {
	var e *Error
	return errors.As(err, &e) && e != nil && e.kind == kindSys
}
