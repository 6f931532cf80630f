package service

import (
	"context"

	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/service/port"
	"Arcanus/modules/kit/logx"
)

// Engine 组装战争迷雾各组件。方法不加锁，同一局游戏只能由其会话 actor 串行调用；
// 不同会话可以共享同一个 Engine。
type Engine struct {
	Calculations *Calculations
	Duplication  *Duplication
	Processing   *Processing
	MidTurn      *MidTurnChanges
	Multi        *MultiChanges

	log logx.Logger
}

func NewEngine(rules port.Rules, stats port.UnitStats, conns port.Connections, log logx.Logger) *Engine {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	n := newNotifier(conns, log)
	calc := NewCalculations()
	dup := NewDuplication()
	proc := NewProcessing(calc, dup, rules, n)
	midTurn := NewMidTurnChanges(calc, dup, proc, n)
	return &Engine{
		Calculations: calc,
		Duplication:  dup,
		Processing:   proc,
		MidTurn:      midTurn,
		Multi:        NewMultiChanges(calc, dup, proc, midTurn, rules, stats, n),
		log:          log,
	}
}

// NewWorldUpdates 每局游戏各自持有一个队列。
func (e *Engine) NewWorldUpdates() *WorldUpdates {
	return NewWorldUpdates(e.MidTurn, e.log)
}

// RecomputeAll 为所有玩家重算视野并推送变化，用于开局和回合开始。
func (e *Engine) RecomputeAll(ctx context.Context, g *entity.Game, triggeredFrom string) error {
	for _, player := range g.Players {
		if err := e.Processing.UpdateAndSendFogOfWar(ctx, g, player, triggeredFrom); err != nil {
			return err
		}
	}
	return nil
}

// StartTurn 回合开始：治疗与经验、重置行动点，最后为所有玩家重算视野。
func (e *Engine) StartTurn(ctx context.Context, g *entity.Game) error {
	if err := e.Multi.HealUnitsAndGainExperience(ctx, g, 0); err != nil {
		return err
	}
	if err := e.Multi.ResetUnitOverlandMovement(ctx, g, 0); err != nil {
		return err
	}
	return e.RecomputeAll(ctx, g, "startTurn")
}
