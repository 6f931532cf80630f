package service

import "Arcanus/internal/world/entity"

// FogOfWarCalculations 只读的可见性判断，只看永久状态，不看重算期间的临时标记。
type FogOfWarCalculations interface {
	CanSeeMidTurn(state entity.PermanentVisibility, setting entity.FogOfWarSetting) bool
	CanSeeMidTurnOnAnyPlaneIfTower(location entity.Coordinates, setting entity.FogOfWarSetting, trueMap *entity.MapVolume, fogOfWar *entity.VisibilityGrid) bool
	CanSeeUnitMidTurn(unit *entity.Unit, trueMap *entity.MapVolume, player *entity.Player, settings entity.FogOfWarSettings) bool
	CanSeeSpellMidTurn(spell *entity.MaintainedSpell, trueState *entity.FogOfWarMemory, player *entity.Player, settings entity.FogOfWarSettings) bool
	CanSeeCombatAreaEffectMidTurn(cae *entity.CombatAreaEffect, fogOfWar *entity.VisibilityGrid, settings entity.FogOfWarSettings) bool
}

type Calculations struct{}

func NewCalculations() *Calculations {
	return &Calculations{}
}

// CanSeeMidTurn CAN_SEE 一定可见；HAVE_SEEN 只有在“看见过一次就始终可见”策略下可见。
func (c *Calculations) CanSeeMidTurn(state entity.PermanentVisibility, setting entity.FogOfWarSetting) bool {
	switch state {
	case entity.CanSee:
		return true
	case entity.HaveSeen:
		return setting == entity.AlwaysSeeOnceSeen
	default:
		return false
	}
}

// CanSeeMidTurnOnAnyPlaneIfTower 位于已攻占巫师之塔上的地点，任一位面可见即视为可见。
func (c *Calculations) CanSeeMidTurnOnAnyPlaneIfTower(location entity.Coordinates, setting entity.FogOfWarSetting, trueMap *entity.MapVolume, fogOfWar *entity.VisibilityGrid) bool {
	if !trueMap.IsClearedTower(location) {
		return c.CanSeeMidTurn(fogOfWar.State(location), setting)
	}
	depth := trueMap.CoordinateSystem().Depth
	for plane := 0; plane < depth; plane++ {
		at := entity.Coordinates{X: location.X, Y: location.Y, Plane: plane}
		if c.CanSeeMidTurn(fogOfWar.State(at), setting) {
			return true
		}
	}
	return false
}

func (c *Calculations) CanSeeUnitMidTurn(unit *entity.Unit, trueMap *entity.MapVolume, player *entity.Player, settings entity.FogOfWarSettings) bool {
	if unit == nil || !unit.IsAlive() {
		return false
	}
	return c.CanSeeMidTurnOnAnyPlaneIfTower(unit.Location, settings.Units, trueMap, player.FogOfWar)
}

// CanSeeSpellMidTurn 单位法术跟随目标单位的可见性；城市/地点法术看该地点；全局法术所有人可见。
func (c *Calculations) CanSeeSpellMidTurn(spell *entity.MaintainedSpell, trueState *entity.FogOfWarMemory, player *entity.Player, settings entity.FogOfWarSettings) bool {
	switch {
	case spell.TargetsUnit():
		return c.CanSeeUnitMidTurn(trueState.FindUnit(spell.UnitURN), trueState.Map, player, settings)
	case spell.CityLocation != nil:
		return c.CanSeeMidTurn(player.FogOfWar.State(*spell.CityLocation), settings.CitiesSpellsAndCombatAreaEffects)
	default:
		return true
	}
}

func (c *Calculations) CanSeeCombatAreaEffectMidTurn(cae *entity.CombatAreaEffect, fogOfWar *entity.VisibilityGrid, settings entity.FogOfWarSettings) bool {
	if cae.MapLocation == nil {
		return true
	}
	return c.CanSeeMidTurn(fogOfWar.State(*cae.MapLocation), settings.CitiesSpellsAndCombatAreaEffects)
}
