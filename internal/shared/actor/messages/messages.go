package messages

// FailResp 会话 actor 处理失败时的统一回复。Code 为对外业务码，Reason 为内部错误码。
type FailResp struct {
	Code    int
	Reason  string
	Message string
}

// WHAck 无返回数据的成功回复。
type WHAck struct{}

// SessionMessage 路由到单局游戏 actor 的请求。
type SessionMessage interface {
	SessionID() int64
	TraceID() string
}

type SessionBaseMessage struct {
	SessionId int64
	// TraceId 透传入口的 trace id，为空时由会话 actor 生成。
	TraceId string
}

func (m SessionBaseMessage) SessionID() int64 {
	return m.SessionId
}

func (m SessionBaseMessage) TraceID() string {
	return m.TraceId
}
