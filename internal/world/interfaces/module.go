package interfaces

import (
	"Arcanus/internal/shared/session"
	transporthttp "Arcanus/internal/shared/transport/http"
	"Arcanus/internal/shared/transport/ws"
	worldactor "Arcanus/internal/world/actor"
	httphandler "Arcanus/internal/world/interfaces/handler/http"
	wshandler "Arcanus/internal/world/interfaces/handler/ws"
	"Arcanus/modules/kit/logx"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *wshandler.WsHandler
	httpHandler *httphandler.HttpHandler
}

func New(rt *worldactor.Runtime, s session.Manager, log logx.Logger, devToken bool) *Module {
	return &Module{
		wsHandler:   wshandler.NewWsHandler(rt, s, log),
		httpHandler: httphandler.NewHttpHandler(rt, devToken),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

// OnOpen 交给 ws.WithOnOpen，新连接据此加入会话。
func (m *Module) OnOpen(r *http.Request, uid int, conn ws.WSConn) {
	m.wsHandler.OnOpen(r, uid, conn)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
