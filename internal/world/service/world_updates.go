package service

import (
	"context"
	"slices"

	"Arcanus/internal/world/entity"
	"Arcanus/modules/kit/logx"

	"go.uber.org/zap"
)

// WorldUpdates 待执行的世界更新队列。同一 URN 只入队一次，按入队顺序执行。
// 只在所属会话 actor 内使用，不加锁。
type WorldUpdates struct {
	midTurn *MidTurnChanges
	log     logx.Logger

	switchOffSpells []entity.SpellURN
}

func NewWorldUpdates(midTurn *MidTurnChanges, log logx.Logger) *WorldUpdates {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &WorldUpdates{midTurn: midTurn, log: log}
}

// SwitchOffSpell 排队关闭一个持续法术；已在队列中时返回 false。
func (w *WorldUpdates) SwitchOffSpell(urn entity.SpellURN) bool {
	if slices.Contains(w.switchOffSpells, urn) {
		return false
	}
	w.switchOffSpells = append(w.switchOffSpells, urn)
	return true
}

func (w *WorldUpdates) Pending() int {
	return len(w.switchOffSpells)
}

// Process 执行并清空队列。执行前已被其他途径移除的法术（例如随目标单位一起死亡）直接跳过。
// 出错时剩余更新保留在队列中。
func (w *WorldUpdates) Process(ctx context.Context, g *entity.Game) error {
	for len(w.switchOffSpells) > 0 {
		urn := w.switchOffSpells[0]
		if g.TrueMap.FindSpell(urn) == nil {
			w.log.WithContext(ctx).Debug("scheduled spell already gone",
				zap.Int64("session_id", int64(g.SessionID)),
				zap.Int("spell_urn", int(urn)))
		} else if err := w.midTurn.SwitchOffMaintainedSpell(ctx, g, urn); err != nil {
			return err
		}
		w.switchOffSpells = w.switchOffSpells[1:]
	}
	w.switchOffSpells = nil
	return nil
}
