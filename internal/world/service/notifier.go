package service

import (
	"context"

	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/service/port"
	"Arcanus/modules/kit/logx"

	"go.uber.org/zap"
)

// notifier 把消息投递给单个玩家。失败只影响该玩家：记录日志后返回，调用方继续处理下一个玩家。
type notifier struct {
	conns port.Connections
	log   logx.Logger
}

func newNotifier(conns port.Connections, log logx.Logger) *notifier {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &notifier{conns: conns, log: log}
}

// send AI 玩家没有连接，直接跳过。
func (n *notifier) send(ctx context.Context, player *entity.Player, msg dto.ClientMessage) {
	if !player.Human || n.conns == nil {
		return
	}
	fields := []zap.Field{
		zap.Int("player_id", int(player.PlayerID)),
		zap.String("message", msg.MessageName()),
	}
	if !n.conns.IsConnected(player.PlayerID) {
		logx.ReportBizWithLoggerContext(ctx, n.log,
			logx.NewBizLog("fow_send", string(CodePlayerNotConnected), "玩家离线，跳过推送"), fields...)
		return
	}
	if err := n.conns.Send(player.PlayerID, msg); err != nil {
		sysErr := ErrSendFailed.WithData("player_id", int(player.PlayerID)).WithCause(err)
		logx.ReportSysErrorWithLoggerContext(ctx, n.log, logx.NewIsolatedSysLog("fow_send", sysErr), fields...)
	}
}
