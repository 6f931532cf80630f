package actors

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/transport"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/service"
	"Arcanus/internal/world/service/port"
	"Arcanus/modules/kit/logx"
	"Arcanus/modules/kit/tracex"
	"context"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// SessionActor 独占一局游戏的全部状态，消息串行处理，引擎本身不加锁。
type SessionActor struct {
	state      State
	game       *entity.Game
	engine     *service.Engine
	updates    *service.WorldUpdates
	dispatcher *Dispatcher
	log        logx.Logger
}

func NewSessionActor(g *entity.Game, rules port.Rules, stats port.UnitStats, conns port.Connections, log logx.Logger) *SessionActor {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	engine := service.NewEngine(rules, stats, conns, log)
	return &SessionActor{
		state:      None,
		game:       g,
		engine:     engine,
		updates:    engine.NewWorldUpdates(),
		dispatcher: NewDispatcher(),
		log:        log,
	}
}

func (s *SessionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		s.state = Init
		s.init()
		return
	case *actor.Stopping:
		s.state = Stopping
		return
	case *actor.Stopped:
		s.state = Offline
		s.log.Info("session stopped", zap.Int64("session_id", int64(s.game.SessionID)))
		return
	case *actor.Restarting:
		s.state = Init
		return
	case messages.SessionMessage:
		if msg == nil {
			ctx.Respond(fail(transport.InvalidParam, "nil request"))
			return
		}
		if s.state != Online {
			ctx.Respond(fail(transport.SystemError, "session not online"))
			return
		}
		s.dispatcher.Dispatch(ctx, s, msg)
	default:
		return
	}
}

// init 开局为每个玩家计算一次初始视野。
func (s *SessionActor) init() {
	ctx := s.context("")
	if err := s.engine.RecomputeAll(ctx, s.game, "newGame"); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, s.log, logx.NewSysLog("session init", err))
	}
	s.state = Online
}

// context 每条消息一个请求级 context，沿用入口的 trace id。
func (s *SessionActor) context(traceID string) context.Context {
	ctx := tracex.Ensure(context.Background(), traceID)
	ctx = tracex.WithSessionID(ctx, int64(s.game.SessionID))
	return tracex.WithSpanID(ctx, "session")
}

func (s *SessionActor) Game() *entity.Game {
	return s.game
}

func (s *SessionActor) Engine() *service.Engine {
	return s.engine
}
