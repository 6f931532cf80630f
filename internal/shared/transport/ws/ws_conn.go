package ws

import "errors"

type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

var (
	ErrConnClosed     = errors.New("ws connection closed")
	ErrSendQueueFull  = errors.New("ws send queue full")
	ErrUnauthorized   = errors.New("ws unauthorized")
	ErrNilRequestBody = errors.New("ws request body is nil")
)

// WSConn 一条已升级的连接，Push 不阻塞调用方。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	Addr() string
	// Push 投递一条服务端推送，连接已关闭或发送队列已满时返回错误。
	Push(name string, data any) error
	Close()
	// Done 用于感知连接生命周期结束（连接关闭时该 channel 会被关闭）
	Done() <-chan struct{}
}

type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}

const (
	ConnKeyUID   = "uid"
	HeartbeatMsg = "heartbeat"
)
