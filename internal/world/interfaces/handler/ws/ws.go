package ws

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/session"
	"Arcanus/internal/shared/transport"
	"Arcanus/internal/shared/transport/ws"
	worldactor "Arcanus/internal/world/actor"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/interfaces/handler"
	"Arcanus/modules/kit/logx"
	"Arcanus/modules/kit/tracex"
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const (
	// SnapshotMsg 连接建立后和客户端主动请求时下发的完整视野。
	SnapshotMsg = "fow.snapshot"
	// RejectedMsg 连接参数无效，推送后服务端关闭连接。
	RejectedMsg = "session.rejected"
)

type WsHandler struct {
	rt       *worldactor.Runtime
	sessions session.Manager
	log      logx.Logger
}

func NewWsHandler(rt *worldactor.Runtime, sessions session.Manager, log logx.Logger) *WsHandler {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &WsHandler{rt: rt, sessions: sessions, log: log}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	fow := r.Group("fow")
	fow.Handle("snapshot", h.Snapshot)
}

// OnOpen 把连接挂到 ?session_id= 指定的会话，玩家 id 来自令牌。
func (h *WsHandler) OnOpen(r *http.Request, uid int, conn ws.WSConn) {
	ctx := transport.NewContextWithParent(r.Context(), transport.SpanWS, "WS attach", "")
	transport.SetPlayer(ctx, uid)
	defer transport.WriteAccessLog(ctx, h.log)

	sid, err := strconv.ParseInt(r.URL.Query().Get("session_id"), 10, 64)
	if err != nil || sid <= 0 {
		transport.SetBizCode(ctx, transport.InvalidParam)
		h.reject(ctx, conn, "session_id 有误")
		return
	}
	ctx = transport.WithSession(ctx, sid)
	key := session.Key{SessionID: sid, UID: uid}
	// 先绑定再取快照：之间发生的事件会被推送，客户端按 URN/坐标幂等合并
	h.sessions.Bind(key, handler.TokenFromRequest(r), conn)
	view, err := h.fogView(ctx, key)
	if err != nil {
		h.sessions.UnbindConn(conn)
		code, msg := handler.HandleError(ctx, err)
		transport.SetBizCode(ctx, transport.BizCode(code))
		h.reject(ctx, conn, msg)
		return
	}
	transport.SetBizCode(ctx, transport.OK)
	if err := conn.Push(SnapshotMsg, view); err != nil {
		h.log.WithContext(ctx).Warn("push snapshot failed", zap.String("key", key.String()), zap.Error(err))
	}
	h.log.WithContext(ctx).Info("player attached", zap.String("key", key.String()), zap.String("remote", conn.Addr()))
}

func (h *WsHandler) Snapshot(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	if req == nil || req.Conn == nil {
		h.fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	key, ok := h.sessions.GetKey(req.Conn)
	if !ok {
		h.fail(resp, transport.NotFound, "连接未加入会话")
		return
	}
	ctx = transport.WithSession(ctx, key.SessionID)
	view, err := h.fogView(ctx, key)
	if err != nil {
		code, msg := handler.HandleError(ctx, err)
		h.fail(resp, code, msg)
		return
	}
	h.ok(resp, view)
}

func (h *WsHandler) fogView(ctx context.Context, key session.Key) (*messages.WHFogView, error) {
	traceID, _ := tracex.TraceIDFrom(ctx)
	return worldactor.Send[*messages.WHFogView](ctx, h.rt, &messages.HWFogView{
		SessionBaseMessage: messages.SessionBaseMessage{SessionId: key.SessionID, TraceId: traceID},
		PlayerID:           entity.PlayerID(key.UID),
	})
}

// reject 尽力推送原因后关闭连接。
func (h *WsHandler) reject(ctx context.Context, conn ws.WSConn, msg string) {
	h.log.WithContext(ctx).Warn("attach rejected", zap.String("reason", msg), zap.String("remote", conn.Addr()))
	_ = conn.Push(RejectedMsg, msg)
	conn.Close()
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}
