package connections

import (
	"Arcanus/internal/shared/session"
	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/service"
)

// SessionConnections 把一局游戏内的玩家映射到 ws 连接。
type SessionConnections struct {
	mgr       session.Manager
	sessionID entity.SessionID
}

func New(mgr session.Manager, sessionID entity.SessionID) *SessionConnections {
	return &SessionConnections{mgr: mgr, sessionID: sessionID}
}

func (c *SessionConnections) key(playerID entity.PlayerID) session.Key {
	return session.Key{SessionID: int64(c.sessionID), UID: int(playerID)}
}

func (c *SessionConnections) IsConnected(playerID entity.PlayerID) bool {
	_, ok := c.mgr.GetConn(c.key(playerID))
	return ok
}

// Send 以消息名作为推送路由，连接的发送队列保证同一玩家按调用顺序送达。
func (c *SessionConnections) Send(playerID entity.PlayerID, msg dto.ClientMessage) error {
	conn, ok := c.mgr.GetConn(c.key(playerID))
	if !ok {
		return service.ErrPlayerNotConnected.WithData("player_id", int(playerID))
	}
	return conn.Push(msg.MessageName(), msg)
}
