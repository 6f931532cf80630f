package ws

import (
	"Arcanus/modules/kit/logx"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultSendQueue = 256
	writeWait        = 10 * time.Second
)

type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, queueSize int, l logx.Logger) *WsServer {
	if queueSize <= 0 {
		queueSize = defaultSendQueue
	}
	if l == nil {
		l = logx.NewZapLogger(nil)
	}
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, queueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(name string, data any) error {
	return s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

// enqueue 不阻塞：慢连接的积压由调用方感知，不拖住会话 actor。
func (s *WsServer) enqueue(msg *WsMsgResp) error {
	select {
	case <-s.done:
		return ErrConnClosed
	default:
	}
	select {
	case s.outChan <- msg:
		return nil
	case <-s.done:
		return ErrConnClosed
	default:
		return ErrSendQueueFull
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			e := fmt.Sprintf("%v", err)
			s.log.Error("ws readMsgLoop error", zap.String("err", e))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			s.log.Warn("ws_server readMsgLoop unmarshal json error", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else if s.router != nil {
			s.log.Debug("ws_server read msg", zap.String("name", reqBody.Name), zap.Int64("seq", reqBody.Seq))
			s.router.Dispatch(&req, &resp)
		} else {
			continue
		}

		if err := s.enqueue(&resp); err != nil {
			s.log.Warn("ws_server reply dropped", zap.String("name", reqBody.Name), zap.Error(err))
		}
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			if err := s.write(msg); err != nil {
				s.log.Warn("ws_server write error", zap.String("name", msg.Body.Name), zap.Error(err))
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) error {
	data, err := json.Marshal(msg.Body)
	if err != nil {
		// 单条消息序列化失败不关连接
		s.log.Error("ws_server write marshal json error", zap.String("name", msg.Body.Name), zap.Error(err))
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
