package service

import (
	"context"

	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
)

// UpdateAndSendFogOfWar 重算玩家可见区域，按策略更新其记忆，并把全部变化合并成一条消息发给该玩家。
//
// 顺序：
// 1) MarkVisibleArea 只打临时标记；
// 2) 按临时标记对地形、城市、建筑逐格执行 UPDATE/FORGET；
// 3) 折叠临时标记为永久状态；
// 4) 基于新的永久状态用可见性判断同步单位、法术、战斗区域效果。
func (p *Processing) UpdateAndSendFogOfWar(ctx context.Context, g *entity.Game, player *entity.Player, triggeredFrom string) error {
	if err := p.MarkVisibleArea(g, player); err != nil {
		player.FogOfWar.ClearMarkers()
		return err
	}

	msg := &dto.FogOfWarVisibleAreaChangedMessage{TriggeredFrom: triggeredFrom}
	p.updateCells(g, player, msg)

	for _, c := range player.FogOfWar.Collapse() {
		msg.FogOfWarUpdates = append(msg.FogOfWarUpdates, dto.FogOfWarStateUpdate{
			Location: c,
			State:    player.FogOfWar.State(c),
		})
	}

	p.updateUnits(g, player, msg)
	p.updateSpells(g, player, msg)
	p.updateCombatAreaEffects(g, player, msg)

	if !msg.IsEmpty() {
		p.notify.send(ctx, player, msg)
	}
	return nil
}

func (p *Processing) updateCells(g *entity.Game, player *entity.Player, msg *dto.FogOfWarVisibleAreaChangedMessage) {
	trueState := g.TrueMap
	mem := player.Memory
	settings := g.Settings

	trueBuildings := make(map[entity.Coordinates][]*entity.Building)
	for _, b := range trueState.Buildings {
		trueBuildings[b.CityLocation] = append(trueBuildings[b.CityLocation], b)
	}

	trueState.Map.Each(func(c entity.Coordinates, trueCell *entity.MapCell) {
		fogCell := player.FogOfWar.At(c)
		memCell := mem.Map.At(c)

		switch DetermineVisibleAreaChangedUpdateAction(fogCell, settings.TerrainAndNodeAuras) {
		case UpdateActionUpdate:
			if p.dup.CopyTerrainAndNodeAura(trueCell, memCell) {
				msg.TerrainUpdates = append(msg.TerrainUpdates, dto.UpdateTerrainMessage{Location: c, Terrain: memCell.Terrain.Clone()})
			}
		case UpdateActionForget:
			if p.dup.BlankTerrainAndNodeAura(memCell) {
				msg.TerrainUpdates = append(msg.TerrainUpdates, dto.UpdateTerrainMessage{Location: c})
			}
		}

		switch DetermineVisibleAreaChangedUpdateAction(fogCell, settings.CitiesSpellsAndCombatAreaEffects) {
		case UpdateActionUpdate:
			if p.dup.CopyCityData(trueCell, memCell, includeSensitiveCityData(trueCell.City, player, settings)) {
				msg.CityUpdates = append(msg.CityUpdates, dto.UpdateCityMessage{Location: c, City: memCell.City.Clone()})
			}
			for _, b := range trueBuildings[c] {
				if p.dup.CopyBuilding(b, mem) {
					msg.AddBuildings = append(msg.AddBuildings, *b)
				}
			}
			for _, b := range mem.BuildingsAt(c) {
				if trueState.FindBuilding(b.BuildingURN) == nil {
					mem.RemoveBuilding(b.BuildingURN)
					msg.DestroyBuildings = append(msg.DestroyBuildings, b.BuildingURN)
				}
			}
		case UpdateActionForget:
			if p.dup.BlankCityData(memCell) {
				msg.CityUpdates = append(msg.CityUpdates, dto.UpdateCityMessage{Location: c})
			}
			for _, b := range mem.BuildingsAt(c) {
				mem.RemoveBuilding(b.BuildingURN)
				msg.DestroyBuildings = append(msg.DestroyBuildings, b.BuildingURN)
			}
		}
	})
}

func (p *Processing) updateUnits(g *entity.Game, player *entity.Player, msg *dto.FogOfWarVisibleAreaChangedMessage) {
	trueState := g.TrueMap
	mem := player.Memory

	for _, u := range trueState.Units {
		if !p.calc.CanSeeUnitMidTurn(u, trueState.Map, player, g.Settings) {
			continue
		}
		if p.dup.CopyUnit(u, mem, u.OwnerID == player.PlayerID) {
			msg.AddOrUpdateUnits = append(msg.AddOrUpdateUnits, *mem.FindUnit(u.UnitURN))
		}
	}

	for _, remembered := range append([]*entity.Unit(nil), mem.Units...) {
		trueUnit := trueState.FindUnit(remembered.UnitURN)
		if p.calc.CanSeeUnitMidTurn(trueUnit, trueState.Map, player, g.Settings) {
			continue
		}
		// 看得见记忆中的位置却看不到单位，说明单位已离开或死亡；FORGET 策略下直接忘掉
		if g.Settings.Units != entity.Forget &&
			!p.calc.CanSeeMidTurnOnAnyPlaneIfTower(remembered.Location, g.Settings.Units, trueState.Map, player.FogOfWar) {
			continue
		}
		mem.RemoveUnit(remembered.UnitURN)
		msg.KillUnits = append(msg.KillUnits, remembered.UnitURN)
	}
}

func (p *Processing) updateSpells(g *entity.Game, player *entity.Player, msg *dto.FogOfWarVisibleAreaChangedMessage) {
	trueState := g.TrueMap
	mem := player.Memory
	setting := g.Settings.CitiesSpellsAndCombatAreaEffects

	for _, s := range trueState.Spells {
		if !p.calc.CanSeeSpellMidTurn(s, trueState, player, g.Settings) {
			continue
		}
		if p.dup.CopyMaintainedSpell(s, mem) {
			msg.AddOrUpdateSpells = append(msg.AddOrUpdateSpells, *s)
		}
	}

	for _, remembered := range append([]*entity.MaintainedSpell(nil), mem.Spells...) {
		trueSpell := trueState.FindSpell(remembered.SpellURN)
		if trueSpell != nil && p.calc.CanSeeSpellMidTurn(trueSpell, trueState, player, g.Settings) {
			continue
		}
		forget := false
		switch {
		case remembered.TargetsUnit():
			// 目标单位已从记忆移除，或目标单位可见但法术已不在
			forget = mem.FindUnit(remembered.UnitURN) == nil ||
				p.calc.CanSeeUnitMidTurn(trueState.FindUnit(remembered.UnitURN), trueState.Map, player, g.Settings)
		case remembered.CityLocation != nil:
			forget = setting == entity.Forget ||
				p.calc.CanSeeMidTurn(player.FogOfWar.State(*remembered.CityLocation), setting)
		default:
			forget = true
		}
		if forget {
			mem.RemoveSpell(remembered.SpellURN)
			msg.SwitchOffSpells = append(msg.SwitchOffSpells, remembered.SpellURN)
		}
	}
}

func (p *Processing) updateCombatAreaEffects(g *entity.Game, player *entity.Player, msg *dto.FogOfWarVisibleAreaChangedMessage) {
	trueState := g.TrueMap
	mem := player.Memory
	setting := g.Settings.CitiesSpellsAndCombatAreaEffects

	for _, cae := range trueState.CombatAreaEffects {
		if !p.calc.CanSeeCombatAreaEffectMidTurn(cae, player.FogOfWar, g.Settings) {
			continue
		}
		if p.dup.CopyCombatAreaEffect(cae, mem) {
			msg.AddOrUpdateCombatAreaEffs = append(msg.AddOrUpdateCombatAreaEffs, *cae)
		}
	}

	for _, remembered := range append([]*entity.CombatAreaEffect(nil), mem.CombatAreaEffects...) {
		trueCAE := trueState.FindCombatAreaEffect(remembered.CombatAreaEffectURN)
		if trueCAE != nil && p.calc.CanSeeCombatAreaEffectMidTurn(trueCAE, player.FogOfWar, g.Settings) {
			continue
		}
		forget := remembered.MapLocation == nil || setting == entity.Forget ||
			p.calc.CanSeeMidTurn(player.FogOfWar.State(*remembered.MapLocation), setting)
		if forget {
			mem.RemoveCombatAreaEffect(remembered.CombatAreaEffectURN)
			msg.CancelCombatAreaEffs = append(msg.CancelCombatAreaEffs, remembered.CombatAreaEffectURN)
		}
	}
}

// includeSensitiveCityData 城主总能看到建造内容与进度；其他玩家取决于配置。
func includeSensitiveCityData(city *entity.CityData, player *entity.Player, settings entity.FogOfWarSettings) bool {
	if city == nil {
		return false
	}
	return city.OwnerID == player.PlayerID || settings.SeeEnemyCityConstruction
}
