package handler

import (
	"Arcanus/internal/shared/transport"
	worldactor "Arcanus/internal/world/actor"
	"context"
	"errors"
)

const busyMessage = "系统繁忙，请稍后重试"

// HandleError 把会话 actor 的失败转换成对外业务码，系统错误不透出细节。
func HandleError(ctx context.Context, err error) (int, string) {
	var re *worldactor.RuntimeError
	if !errors.As(err, &re) {
		transport.SetErrorReason(ctx, err.Error())
		return transport.SystemError, busyMessage
	}
	if re.Reason != "" {
		transport.SetErrorReason(ctx, re.Reason)
	} else {
		transport.SetErrorReason(ctx, re.Error())
	}
	if re.Code == transport.SystemError || re.Code == transport.OK {
		return transport.SystemError, busyMessage
	}
	return re.Code, re.Message
}
