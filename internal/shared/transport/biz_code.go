package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 对外业务码，HTTP/WS 响应体共用。
const (
	OK           = 0
	InvalidParam = 1
	NotFound     = 2
	Conflict     = 3
	SystemError  = 500
)
