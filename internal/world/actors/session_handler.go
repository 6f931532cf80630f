package actors

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/transport"
	"Arcanus/internal/world/entity"
	"Arcanus/modules/kit/errx"
	"Arcanus/modules/kit/logx"
	"context"
	"fmt"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type SessionHandler struct{}

var SH = &SessionHandler{}

func (h *SessionHandler) HandleSetTerrain(ctx actor.Context, s *SessionActor, req *messages.HWSetTerrain) {
	c := s.context(req.TraceID())
	if !h.checkLocation(ctx, s, req.Location) {
		return
	}
	cell := s.game.TrueMap.Map.At(req.Location)
	terrain := cell.Terrain.Clone()
	if terrain == nil {
		terrain = &entity.TerrainData{}
	}
	terrain.TileTypeID = req.TileType
	terrain.MapFeatureID = req.MapFeature
	terrain.NodeOwnerID = req.NodeOwner
	cell.Terrain = terrain

	if err := s.engine.MidTurn.UpdatePlayerMemoryOfTerrain(c, s.game, req.Location); err != nil {
		h.fail(ctx, s, c, "setTerrain", err)
		return
	}
	ctx.Respond(&messages.WHAck{})
}

// HandleSetCity 建城或城市易主后，新旧城主的视野都要重算。
func (h *SessionHandler) HandleSetCity(ctx actor.Context, s *SessionActor, req *messages.HWSetCity) {
	c := s.context(req.TraceID())
	if !h.checkLocation(ctx, s, req.Location) {
		return
	}
	cell := s.game.TrueMap.Map.At(req.Location)
	var previousOwner entity.PlayerID
	if cell.City != nil {
		previousOwner = cell.City.OwnerID
	}
	city := req.City
	cell.City = city.Clone()

	if err := s.engine.MidTurn.UpdatePlayerMemoryOfCity(c, s.game, req.Location); err != nil {
		h.fail(ctx, s, c, "setCity", err)
		return
	}
	for _, id := range []entity.PlayerID{previousOwner, city.OwnerID} {
		if err := h.recompute(c, s, id, "setCity"); err != nil {
			h.fail(ctx, s, c, "setCity", err)
			return
		}
		if previousOwner == city.OwnerID {
			break
		}
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleRazeCity(ctx actor.Context, s *SessionActor, req *messages.HWRazeCity) {
	c := s.context(req.TraceID())
	if err := s.engine.Multi.RazeCity(c, s.game, req.Location); err != nil {
		h.fail(ctx, s, c, "razeCity", err)
		return
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleAddBuildings(ctx actor.Context, s *SessionActor, req *messages.HWAddBuildings) {
	c := s.context(req.TraceID())
	if len(req.BuildingIDs) == 0 {
		ctx.Respond(fail(transport.InvalidParam, "building_ids is empty"))
		return
	}
	added, err := s.engine.MidTurn.AddBuildings(c, s.game, req.CityLocation, req.BuildingIDs...)
	if err != nil {
		h.fail(ctx, s, c, "addBuildings", err)
		return
	}
	resp := &messages.WHBuildings{Buildings: make([]entity.Building, 0, len(added))}
	for _, b := range added {
		resp.Buildings = append(resp.Buildings, *b)
	}
	ctx.Respond(resp)
}

func (h *SessionHandler) HandleDestroyBuildings(ctx actor.Context, s *SessionActor, req *messages.HWDestroyBuildings) {
	c := s.context(req.TraceID())
	if err := s.engine.MidTurn.DestroyBuildings(c, s.game, req.BuildingURNs, req.Sold); err != nil {
		h.fail(ctx, s, c, "destroyBuildings", err)
		return
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleAddUnit(ctx actor.Context, s *SessionActor, req *messages.HWAddUnit) {
	c := s.context(req.TraceID())
	if s.game.FindPlayer(req.Unit.OwnerID) == nil {
		ctx.Respond(fail(transport.InvalidParam, fmt.Sprintf("unknown owner %d", req.Unit.OwnerID)))
		return
	}
	if v, ok := req.Unit.Skill(entity.SkillScouting); ok && (v < 0 || v > maxScoutingRange(s.game.Coords)) {
		ctx.Respond(fail(transport.InvalidParam, fmt.Sprintf("scouting skill %d out of range", v)))
		return
	}
	u, err := s.engine.MidTurn.AddUnit(c, s.game, req.Unit)
	if err != nil {
		h.fail(ctx, s, c, "addUnit", err)
		return
	}
	ctx.Respond(&messages.WHUnit{Unit: *u.Clone()})
}

func (h *SessionHandler) HandleKillUnit(ctx actor.Context, s *SessionActor, req *messages.HWKillUnit) {
	c := s.context(req.TraceID())
	if err := s.engine.MidTurn.KillUnit(c, s.game, req.UnitURN); err != nil {
		h.fail(ctx, s, c, "killUnit", err)
		return
	}
	ctx.Respond(&messages.WHAck{})
}

// maxScoutingRange 超过地图最长边的侦查值没有意义。
func maxScoutingRange(cs entity.CoordinateSystem) int {
	return max(cs.Width, cs.Height)
}

// HandleMoveUnitStack 逐格推进；中途失败时已走完的格子保留。
func (h *SessionHandler) HandleMoveUnitStack(ctx actor.Context, s *SessionActor, req *messages.HWMoveUnitStack) {
	c := s.context(req.TraceID())
	if len(req.UnitURNs) == 0 || len(req.Path) == 0 {
		ctx.Respond(fail(transport.InvalidParam, "unit_urns and path are required"))
		return
	}
	from := req.From
	for _, to := range req.Path {
		if err := s.engine.Multi.MoveUnitStackOneCell(c, s.game, req.UnitURNs, from, to); err != nil {
			h.fail(ctx, s, c, "moveUnitStack", err, zap.String("at", from.String()))
			return
		}
		from = to
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleAddSpell(ctx actor.Context, s *SessionActor, req *messages.HWAddSpell) {
	c := s.context(req.TraceID())
	spell, err := s.engine.MidTurn.AddMaintainedSpell(c, s.game, req.Spell)
	if err != nil {
		h.fail(ctx, s, c, "addSpell", err)
		return
	}
	ctx.Respond(&messages.WHSpell{Spell: *spell.Clone()})
}

func (h *SessionHandler) HandleSwitchOffSpell(ctx actor.Context, s *SessionActor, req *messages.HWSwitchOffSpell) {
	c := s.context(req.TraceID())
	if req.Deferred {
		s.updates.SwitchOffSpell(req.SpellURN)
		ctx.Respond(&messages.WHAck{})
		return
	}
	if err := s.engine.MidTurn.SwitchOffMaintainedSpell(c, s.game, req.SpellURN); err != nil {
		h.fail(ctx, s, c, "switchOffSpell", err)
		return
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleProcessWorldUpdates(ctx actor.Context, s *SessionActor, req *messages.HWProcessWorldUpdates) {
	c := s.context(req.TraceID())
	if err := s.updates.Process(c, s.game); err != nil {
		h.fail(ctx, s, c, "processWorldUpdates", err, zap.Int("pending", s.updates.Pending()))
		return
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleAddCombatAreaEffect(ctx actor.Context, s *SessionActor, req *messages.HWAddCombatAreaEffect) {
	c := s.context(req.TraceID())
	cae, err := s.engine.MidTurn.AddCombatAreaEffect(c, s.game, req.CombatAreaEffect)
	if err != nil {
		h.fail(ctx, s, c, "addCombatAreaEffect", err)
		return
	}
	ctx.Respond(&messages.WHCombatAreaEffect{CombatAreaEffect: *cae.Clone()})
}

func (h *SessionHandler) HandleCancelCombatAreaEffect(ctx actor.Context, s *SessionActor, req *messages.HWCancelCombatAreaEffect) {
	c := s.context(req.TraceID())
	if err := s.engine.MidTurn.RemoveCombatAreaEffect(c, s.game, req.CombatAreaEffectURN); err != nil {
		h.fail(ctx, s, c, "cancelCombatAreaEffect", err)
		return
	}
	ctx.Respond(&messages.WHAck{})
}

// HandleEndCombat 胜方获得经验，关闭战斗中施放的法术，最后让参战单位退出战斗。
func (h *SessionHandler) HandleEndCombat(ctx actor.Context, s *SessionActor, req *messages.HWEndCombat) {
	c := s.context(req.TraceID())
	if req.WinningSide != entity.CombatSideNone {
		if err := s.engine.Multi.GrantExperienceToUnitsInCombat(c, s.game, req.Location, req.WinningSide); err != nil {
			h.fail(ctx, s, c, "endCombat", err)
			return
		}
	}
	if err := s.engine.Multi.SwitchOffSpellsCastInCombat(c, s.game, req.Location, s.updates); err != nil {
		h.fail(ctx, s, c, "endCombat", err)
		return
	}

	var released []entity.UnitURN
	for _, u := range s.game.TrueMap.Units {
		if !u.InCombatAt(req.Location) {
			continue
		}
		u.CombatLocation = nil
		u.CombatPosition = nil
		u.CombatSide = entity.CombatSideNone
		released = append(released, u.UnitURN)
	}
	for _, urn := range released {
		if err := s.engine.MidTurn.UpdatePlayerMemoryOfUnit(c, s.game, urn); err != nil {
			h.fail(ctx, s, c, "endCombat", err)
			return
		}
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleStartTurn(ctx actor.Context, s *SessionActor, req *messages.HWStartTurn) {
	c := s.context(req.TraceID())
	if err := s.engine.StartTurn(c, s.game); err != nil {
		h.fail(ctx, s, c, "startTurn", err)
		return
	}
	ctx.Respond(&messages.WHAck{})
}

func (h *SessionHandler) HandleFogView(ctx actor.Context, s *SessionActor, req *messages.HWFogView) {
	player := s.game.FindPlayer(req.PlayerID)
	if player == nil {
		ctx.Respond(fail(transport.NotFound, fmt.Sprintf("player %d not found", req.PlayerID)))
		return
	}
	ctx.Respond(fogView(player))
}

// fogView 只读取玩家自己的视野和记忆，返回的是副本。
func fogView(player *entity.Player) *messages.WHFogView {
	view := &messages.WHFogView{
		PlayerID: player.PlayerID,
		Counts:   make(map[string]int),
	}
	for state, n := range player.FogOfWar.Counts() {
		view.Counts[state.String()] = n
	}
	mem := player.Memory
	for _, u := range mem.Units {
		view.Units = append(view.Units, *u.Clone())
	}
	for _, b := range mem.Buildings {
		view.Buildings = append(view.Buildings, *b)
	}
	for _, sp := range mem.Spells {
		view.Spells = append(view.Spells, *sp.Clone())
	}
	for _, cae := range mem.CombatAreaEffects {
		view.CombatAreaEffects = append(view.CombatAreaEffects, *cae.Clone())
	}
	return view
}

func (h *SessionHandler) recompute(c context.Context, s *SessionActor, id entity.PlayerID, triggeredFrom string) error {
	if id == 0 {
		return nil
	}
	player := s.game.FindPlayer(id)
	if player == nil {
		return nil
	}
	return s.engine.Processing.UpdateAndSendFogOfWar(c, s.game, player, triggeredFrom)
}

func (h *SessionHandler) checkLocation(ctx actor.Context, s *SessionActor, loc entity.Coordinates) bool {
	if s.game.Coords.Contains(loc) {
		return true
	}
	ctx.Respond(fail(transport.InvalidParam, "coordinates out of range: "+loc.String()))
	return false
}

// fail 业务拒绝记 biz 日志，系统错误记 sys 日志，每条请求只记一次。
func (h *SessionHandler) fail(ctx actor.Context, s *SessionActor, c context.Context, action string, err error, fields ...zap.Field) {
	if errx.IsSys(err) || errx.CodeOf(err) == "" {
		logx.ReportSysErrorWithLoggerContext(c, s.log, logx.NewSysLog(action, err), fields...)
	} else {
		logx.ReportBizWithLoggerContext(c, s.log, logx.NewBizLog(action, string(errx.CodeOf(err)), err.Error()), fields...)
	}
	ctx.Respond(failFromError(err))
}
