package http

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/security"
	"Arcanus/internal/shared/transport"
	worldactor "Arcanus/internal/world/actor"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/interfaces/handler"
	"Arcanus/modules/kit/tracex"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	rt       *worldactor.Runtime
	devToken bool
}

func NewHttpHandler(rt *worldactor.Runtime, devToken bool) *HttpHandler {
	return &HttpHandler{rt: rt, devToken: devToken}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	if h.devToken {
		group.GET("/dev/token", h.DevToken)
	}

	group.POST("/sessions", h.CreateSession)
	s := group.Group("/sessions/:sid")
	s.DELETE("", h.StopSession)
	s.POST("/terrain", h.SetTerrain)
	s.POST("/cities", h.SetCity)
	s.POST("/cities/raze", h.RazeCity)
	s.POST("/buildings", h.AddBuildings)
	s.POST("/buildings/destroy", h.DestroyBuildings)
	s.POST("/units", h.AddUnit)
	s.DELETE("/units/:urn", h.KillUnit)
	s.POST("/units/move", h.MoveUnitStack)
	s.POST("/spells", h.AddSpell)
	s.DELETE("/spells/:urn", h.SwitchOffSpell)
	s.POST("/world-updates/process", h.ProcessWorldUpdates)
	s.POST("/combat-area-effects", h.AddCombatAreaEffect)
	s.DELETE("/combat-area-effects/:urn", h.CancelCombatAreaEffect)
	s.POST("/combats/end", h.EndCombat)
	s.POST("/turns/start", h.StartTurn)
	s.GET("/players/:pid/fog", h.FogView)
}

// DevToken 本地调试签发令牌，生产配置不开放。
func (h *HttpHandler) DevToken(c *gin.Context) {
	uid, err := strconv.Atoi(c.Query("uid"))
	if err != nil || uid <= 0 {
		h.fail(c, transport.InvalidParam, "uid 有误")
		return
	}
	token, err := security.Award(uid)
	if err != nil {
		transport.SetErrorReason(c.Request.Context(), err.Error())
		h.fail(c, transport.SystemError, "签发失败")
		return
	}
	h.ok(c, TokenResp{Token: token})
}

func (h *HttpHandler) CreateSession(c *gin.Context) {
	var req CreateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	msg := &messages.HWCreateSession{
		Coords:   req.Map,
		Settings: req.FogOfWar,
		TileType: req.TileType,
	}
	for _, p := range req.Players {
		msg.Players = append(msg.Players, messages.PlayerSeed{PlayerID: p.PlayerID, Name: p.Name, Human: p.Human})
	}
	resp, err := h.rt.CreateSession(c.Request.Context(), msg)
	if err != nil {
		h.error(c, err)
		return
	}
	h.ok(c, resp)
}

func (h *HttpHandler) StopSession(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWStopSession{SessionBaseMessage: base})
}

func (h *HttpHandler) SetTerrain(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req SetTerrainReq
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWSetTerrain{
		SessionBaseMessage: base,
		Location:           req.Location,
		TileType:           req.TileType,
		MapFeature:         req.MapFeature,
		NodeOwner:          req.NodeOwner,
	})
}

func (h *HttpHandler) SetCity(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req SetCityReq
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWSetCity{SessionBaseMessage: base, Location: req.Location, City: req.City})
}

func (h *HttpHandler) RazeCity(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req LocationReq
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWRazeCity{SessionBaseMessage: base, Location: req.Location})
}

func (h *HttpHandler) AddBuildings(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req AddBuildingsReq
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHBuildings](h, c, &messages.HWAddBuildings{
		SessionBaseMessage: base,
		CityLocation:       req.CityLocation,
		BuildingIDs:        req.BuildingIDs,
	})
}

func (h *HttpHandler) DestroyBuildings(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req DestroyBuildingsReq
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWDestroyBuildings{
		SessionBaseMessage: base,
		BuildingURNs:       req.BuildingURNs,
		Sold:               req.Sold,
	})
}

func (h *HttpHandler) AddUnit(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req entity.Unit
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHUnit](h, c, &messages.HWAddUnit{SessionBaseMessage: base, Unit: req})
}

func (h *HttpHandler) KillUnit(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	urn, ok := h.urn(c)
	if !ok {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWKillUnit{SessionBaseMessage: base, UnitURN: entity.UnitURN(urn)})
}

func (h *HttpHandler) MoveUnitStack(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req MoveUnitStackReq
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWMoveUnitStack{
		SessionBaseMessage: base,
		UnitURNs:           req.UnitURNs,
		From:               req.From,
		Path:               req.Path,
	})
}

func (h *HttpHandler) AddSpell(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req entity.MaintainedSpell
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHSpell](h, c, &messages.HWAddSpell{SessionBaseMessage: base, Spell: req})
}

// SwitchOffSpell ?deferred=true 时只入队，等 world-updates/process 统一处理。
func (h *HttpHandler) SwitchOffSpell(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	urn, ok := h.urn(c)
	if !ok {
		return
	}
	deferred, _ := strconv.ParseBool(c.Query("deferred"))
	send[*messages.WHAck](h, c, &messages.HWSwitchOffSpell{
		SessionBaseMessage: base,
		SpellURN:           entity.SpellURN(urn),
		Deferred:           deferred,
	})
}

func (h *HttpHandler) ProcessWorldUpdates(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWProcessWorldUpdates{SessionBaseMessage: base})
}

func (h *HttpHandler) AddCombatAreaEffect(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req entity.CombatAreaEffect
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHCombatAreaEffect](h, c, &messages.HWAddCombatAreaEffect{SessionBaseMessage: base, CombatAreaEffect: req})
}

func (h *HttpHandler) CancelCombatAreaEffect(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	urn, ok := h.urn(c)
	if !ok {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWCancelCombatAreaEffect{
		SessionBaseMessage:  base,
		CombatAreaEffectURN: entity.CombatAreaEffectURN(urn),
	})
}

func (h *HttpHandler) EndCombat(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	var req EndCombatReq
	if !h.bind(c, &req) {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWEndCombat{
		SessionBaseMessage: base,
		Location:           req.Location,
		WinningSide:        req.WinningSide,
	})
}

func (h *HttpHandler) StartTurn(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	send[*messages.WHAck](h, c, &messages.HWStartTurn{SessionBaseMessage: base})
}

func (h *HttpHandler) FogView(c *gin.Context) {
	base, ok := h.base(c)
	if !ok {
		return
	}
	pid, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		h.fail(c, transport.InvalidParam, "pid 有误")
		return
	}
	send[*messages.WHFogView](h, c, &messages.HWFogView{SessionBaseMessage: base, PlayerID: entity.PlayerID(pid)})
}

func send[T any](h *HttpHandler, c *gin.Context, msg messages.SessionMessage) {
	resp, err := worldactor.Send[T](c.Request.Context(), h.rt, msg)
	if err != nil {
		h.error(c, err)
		return
	}
	h.ok(c, resp)
}

// base 解析路径里的会话 id，并带上入口 trace id。
func (h *HttpHandler) base(c *gin.Context) (messages.SessionBaseMessage, bool) {
	sid, err := strconv.ParseInt(c.Param("sid"), 10, 64)
	if err != nil || sid <= 0 {
		h.fail(c, transport.InvalidParam, "sid 有误")
		return messages.SessionBaseMessage{}, false
	}
	traceID, _ := tracex.TraceIDFrom(c.Request.Context())
	return messages.SessionBaseMessage{SessionId: sid, TraceId: traceID}, true
}

func (h *HttpHandler) urn(c *gin.Context) (int, bool) {
	urn, err := strconv.Atoi(c.Param("urn"))
	if err != nil || urn <= 0 {
		h.fail(c, transport.InvalidParam, "urn 有误")
		return 0, false
	}
	return urn, true
}

func (h *HttpHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return false
	}
	return true
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, Error(code, msg))
}

func (h *HttpHandler) error(c *gin.Context, err error) {
	code, msg := handler.HandleError(c.Request.Context(), err)
	h.fail(c, code, msg)
}

