package ws

import (
	"Arcanus/modules/kit/logx"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Authenticator 在升级前识别请求方，返回的 uid 会挂到连接属性 ConnKeyUID。
type Authenticator func(r *http.Request) (int, error)

type Server struct {
	router    *Router
	log       logx.Logger
	auth      Authenticator
	onOpen    func(r *http.Request, uid int, conn WSConn)
	queueSize int
	upgrader  websocket.Upgrader
}

type Option func(*Server)

func WithAuthenticator(a Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

// WithOnOpen 连接建立且读写循环启动后回调。
func WithOnOpen(fn func(r *http.Request, uid int, conn WSConn)) Option {
	return func(s *Server) { s.onOpen = fn }
}

func WithSendQueue(n int) Option {
	return func(s *Server) { s.queueSize = n }
}

func NewServer(r *Router, l logx.Logger, opts ...Option) *Server {
	if l == nil {
		l = logx.NewZapLogger(nil)
	}
	s := &Server{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	uid := 0
	if s.auth != nil {
		id, err := s.auth(req)
		if err != nil {
			s.log.Warn("websocket auth failed", zap.String("remote", req.RemoteAddr), zap.Error(err))
			http.Error(resp, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		uid = id
	}

	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	conn := NewWsServer(wsConn, s.queueSize, s.log)
	conn.SetProperty(ConnKeyUID, uid)
	conn.Router(s.router)
	conn.Run()
	s.log.Info("websocket upgrade success", zap.Int("uid", uid), zap.String("remote", conn.Addr()))

	if s.onOpen != nil {
		s.onOpen(req, uid, conn)
	}
}
