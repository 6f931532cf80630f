package actors

import (
	"Arcanus/internal/shared/actor/messages"
	"Arcanus/internal/shared/transport"
	"reflect"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleSetTerrain)
	register(d, SH.HandleSetCity)
	register(d, SH.HandleRazeCity)
	register(d, SH.HandleAddBuildings)
	register(d, SH.HandleDestroyBuildings)
	register(d, SH.HandleAddUnit)
	register(d, SH.HandleKillUnit)
	register(d, SH.HandleMoveUnitStack)
	register(d, SH.HandleAddSpell)
	register(d, SH.HandleSwitchOffSpell)
	register(d, SH.HandleProcessWorldUpdates)
	register(d, SH.HandleAddCombatAreaEffect)
	register(d, SH.HandleCancelCombatAreaEffect)
	register(d, SH.HandleEndCombat)
	register(d, SH.HandleStartTurn)
	register(d, SH.HandleFogView)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, s *SessionActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, s *SessionActor, req messages.SessionMessage) {
	if req == nil {
		ctx.Respond(fail(transport.InvalidParam, "nil req"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(transport.InvalidParam, "no handler for request body"))
		return
	}

	if bodyType != handler.reqType {
		ctx.Respond(fail(transport.InvalidParam, "request body type mismatch"))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(s),
		reflect.ValueOf(req),
	})
}
