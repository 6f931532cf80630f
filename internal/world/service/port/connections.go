package port

import (
	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
)

// Connections 连接/会话层。Send 只负责入队，不等待送达；
// 同一玩家的消息必须按调用顺序送达。
type Connections interface {
	Send(playerID entity.PlayerID, msg dto.ClientMessage) error
	IsConnected(playerID entity.PlayerID) bool
}
