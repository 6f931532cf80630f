package actors

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/transport"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/service/port"
	"Arcanus/modules/kit/logx"
	"fmt"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type SessionID = entity.SessionID

// Defaults 创建会话时未指定的参数。
type Defaults struct {
	Coords      entity.CoordinateSystem
	Settings    entity.FogOfWarSettings
	TileType    entity.TileTypeID
	// MaxMapCells 单局地图 宽×高×位面 的上限，0 取 DefaultMaxMapCells。
	MaxMapCells int
}

// DefaultMaxMapCells 每个玩家还要各复制一份地图与可见性网格，需限制单局规模。
const DefaultMaxMapCells = 1 << 18

// Deps 所有会话共享的只读依赖。Connections 为每个会话生成独立的连接视图。
type Deps struct {
	Rules       port.Rules
	Stats       port.UnitStats
	Connections func(id SessionID) port.Connections
	Defaults    Defaults
	Log         logx.Logger
}

type ManagerActor struct {
	deps     Deps
	sessions map[SessionID]*actor.PID
	nextID   SessionID
}

func NewManagerActor(deps Deps) *ManagerActor {
	if deps.Log == nil {
		deps.Log = logx.NewZapLogger(nil)
	}
	return &ManagerActor{
		deps:     deps,
		sessions: make(map[SessionID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.HWCreateSession:
		m.createSession(ctx, msg)
	case *messages.HWStopSession:
		m.stopSession(ctx, msg)
	case *actor.Terminated:
		m.forget(msg.Who)
	case messages.SessionMessage:
		if msg == nil {
			ctx.Respond(fail(transport.InvalidParam, "nil request"))
			return
		}
		pid, ok := m.sessions[SessionID(msg.SessionID())]
		if !ok {
			ctx.Respond(fail(transport.NotFound, fmt.Sprintf("session %d not found", msg.SessionID())))
			return
		}
		ctx.Forward(pid)
	}
}

func (m *ManagerActor) createSession(ctx actor.Context, req *messages.HWCreateSession) {
	if req == nil {
		ctx.Respond(fail(transport.InvalidParam, "nil request"))
		return
	}
	game, err := m.newGame(m.nextID+1, req)
	if err != nil {
		ctx.Respond(fail(transport.InvalidParam, err.Error()))
		return
	}
	m.nextID++

	var conns port.Connections
	if m.deps.Connections != nil {
		conns = m.deps.Connections(game.SessionID)
	}
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(game, m.deps.Rules, m.deps.Stats, conns, m.deps.Log)
	})
	pid := ctx.Spawn(props)
	m.sessions[game.SessionID] = pid

	m.deps.Log.Info("session created",
		zap.Int64("session_id", int64(game.SessionID)),
		zap.Int("players", len(game.Players)),
	)
	ctx.Respond(&messages.WHCreateSession{SessionID: game.SessionID})
}

func (m *ManagerActor) stopSession(ctx actor.Context, req *messages.HWStopSession) {
	id := SessionID(req.SessionID())
	pid, ok := m.sessions[id]
	if !ok {
		ctx.Respond(fail(transport.NotFound, fmt.Sprintf("session %d not found", id)))
		return
	}
	delete(m.sessions, id)
	ctx.Stop(pid)
	ctx.Respond(&messages.WHAck{})
}

func (m *ManagerActor) forget(who *actor.PID) {
	for id, pid := range m.sessions {
		if pid.Equal(who) {
			delete(m.sessions, id)
			return
		}
	}
}

// newGame 地图每格都先铺上默认地形，玩家记忆从空白开始。
func (m *ManagerActor) newGame(id SessionID, req *messages.HWCreateSession) (*entity.Game, error) {
	cs := m.deps.Defaults.Coords
	if req.Coords != nil {
		cs = *req.Coords
	}
	if cs.Width <= 0 || cs.Height <= 0 || cs.Depth <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%dx%d", cs.Width, cs.Height, cs.Depth)
	}
	limit := m.deps.Defaults.MaxMapCells
	if limit <= 0 {
		limit = DefaultMaxMapCells
	}
	if cs.Width > limit || cs.Height > limit || cs.Depth > limit || cs.Width*cs.Height > limit/cs.Depth {
		return nil, fmt.Errorf("map size %dx%dx%d exceeds %d cells", cs.Width, cs.Height, cs.Depth, limit)
	}
	settings := m.deps.Defaults.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	tile := m.deps.Defaults.TileType
	if req.TileType != "" {
		tile = req.TileType
	}
	if len(req.Players) == 0 {
		return nil, fmt.Errorf("session needs at least one player")
	}

	g := entity.NewGame(id, cs, settings)
	for _, seed := range req.Players {
		if seed.PlayerID == 0 {
			return nil, fmt.Errorf("player id 0 is reserved")
		}
		if g.FindPlayer(seed.PlayerID) != nil {
			return nil, fmt.Errorf("duplicate player id %d", seed.PlayerID)
		}
		g.AddPlayer(seed.PlayerID, seed.Name, seed.Human)
	}
	if tile != "" {
		g.TrueMap.Map.Each(func(_ entity.Coordinates, cell *entity.MapCell) {
			cell.Terrain = &entity.TerrainData{TileTypeID: tile}
		})
	}
	return g, nil
}
