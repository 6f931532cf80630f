package actors

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/transport"
	"Arcanus/internal/world/service"
	"Arcanus/modules/kit/errx"
	"errors"
)

const busyMessage = "系统繁忙，请稍后重试"

func fail(code int, msg string) *messages.FailResp {
	return &messages.FailResp{Code: code, Message: msg}
}

// failFromError 业务错误原样带回，系统错误只给通用提示。Reason 优先取细分原因，没有时取错误码。
func failFromError(err error) *messages.FailResp {
	resp := &messages.FailResp{
		Code:    transport.SystemError,
		Reason:  reasonOf(err),
		Message: busyMessage,
	}
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		resp.Code = transport.NotFound
	case errors.Is(err, service.ErrCoordinatesOutOfRange),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrPathNotFound):
		resp.Code = transport.InvalidParam
	default:
		return resp
	}
	resp.Message = err.Error()
	return resp
}

func reasonOf(err error) string {
	var e *errx.Error
	if errors.As(err, &e) && e.Reason() != "" {
		return e.Reason()
	}
	return string(errx.CodeOf(err))
}
