package service

import (
	"Arcanus/internal/world/entity"
	"Arcanus/modules/kit/errx"
)

type Code = errx.Code

const (
	// CodeRecordNotFound 引用了真实状态中不存在的 URN，说明调用方状态已不同步。
	CodeRecordNotFound Code = "FOW_RECORD_NOT_FOUND"
	// CodeCoordinatesOutOfRange 坐标超出地图范围，属于编程错误。
	CodeCoordinatesOutOfRange Code = "FOW_COORDINATES_OUT_OF_RANGE"
	// CodePathNotFound 移动路径无法回溯到起点。
	CodePathNotFound Code = "FOW_PATH_NOT_FOUND"
	// CodeInvalidTarget 持续法术同时指定了单位和地点。
	CodeInvalidTarget Code = "FOW_INVALID_SPELL_TARGET"
	// CodePlayerNotConnected / CodeSendFailed 只影响单个玩家，记录日志后继续处理其他玩家。
	CodePlayerNotConnected Code = "FOW_PLAYER_NOT_CONNECTED"
	CodeSendFailed         Code = "FOW_SEND_FAILED"
)

type Error = errx.Error

var (
	ErrRecordNotFound        = errx.NewBiz(CodeRecordNotFound, "记录不存在")
	ErrCoordinatesOutOfRange = errx.NewBiz(CodeCoordinatesOutOfRange, "坐标超出地图范围")
	ErrPathNotFound          = errx.NewBiz(CodePathNotFound, "无法确定移动方向")
	ErrInvalidTarget         = errx.NewBiz(CodeInvalidTarget, "持续法术目标不合法")
	ErrPlayerNotConnected    = errx.NewBiz(CodePlayerNotConnected, "玩家未连接")
	ErrSendFailed            = errx.NewSys(CodeSendFailed, "消息发送失败")
)

// Reason 细分错误原因，例如 "unit_not_found"，随 FailResp.Reason 返回给调用方。
type Reason string

func (r Reason) ReasonCode() string { return string(r) }

func recordNotFound(kind string, urn any) *Error {
	return ErrRecordNotFound.WithReason(Reason(kind + "_not_found")).WithData("kind", kind).WithData("urn", urn)
}

func checkCoordinates(cs entity.CoordinateSystem, c entity.Coordinates) error {
	if cs.Contains(c) {
		return nil
	}
	return ErrCoordinatesOutOfRange.WithData("location", c.String())
}
