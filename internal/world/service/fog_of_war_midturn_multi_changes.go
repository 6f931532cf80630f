package service

import (
	"context"

	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/service/port"
)

// HealPercent 每回合治疗最大生命值的百分比，向上取整。
const HealPercent = 5

// MultiChanges 同时涉及多个实体或地点的批量事件。
type MultiChanges struct {
	calc    FogOfWarCalculations
	dup     FogOfWarDuplication
	proc    FogOfWarProcessing
	midTurn *MidTurnChanges
	rules   port.Rules
	stats   port.UnitStats
	notify  *notifier
}

func NewMultiChanges(calc FogOfWarCalculations, dup FogOfWarDuplication, proc FogOfWarProcessing, midTurn *MidTurnChanges,
	rules port.Rules, stats port.UnitStats, n *notifier) *MultiChanges {
	return &MultiChanges{
		calc:    calc,
		dup:     dup,
		proc:    proc,
		midTurn: midTurn,
		rules:   rules,
		stats:   stats,
		notify:  n,
	}
}

// MoveUnitStackOneCell 把一队单位移动一格（可能经塔换位面）。移动合法性由调用方保证。
//
// 每个玩家分别判断起点、终点是否可见：
// - 都不可见：不处理；
// - 都可见：更新记忆中的位置并推送移动消息；
// - 起点可见终点不可见：推送“移动后释放”消息并从记忆中移除；
// - 起点不可见终点可见：把单位及其法术完整复制进记忆，推送新增消息。
func (m *MultiChanges) MoveUnitStackOneCell(ctx context.Context, g *entity.Game, unitURNs []entity.UnitURN, moveFrom, moveTo entity.Coordinates) error {
	for _, c := range []entity.Coordinates{moveFrom, moveTo} {
		if err := checkCoordinates(g.Coords, c); err != nil {
			return err
		}
	}
	units := make([]*entity.Unit, 0, len(unitURNs))
	for _, urn := range unitURNs {
		u := g.TrueMap.FindUnit(urn)
		if u == nil {
			return recordNotFound("unit", urn)
		}
		units = append(units, u)
	}
	if len(units) == 0 {
		return nil
	}

	for _, u := range units {
		u.Location = moveTo
	}

	for _, player := range g.Players {
		canSeeFrom := m.calc.CanSeeMidTurnOnAnyPlaneIfTower(moveFrom, g.Settings.Units, g.TrueMap.Map, player.FogOfWar)
		canSeeTo := m.calc.CanSeeMidTurnOnAnyPlaneIfTower(moveTo, g.Settings.Units, g.TrueMap.Map, player.FogOfWar)

		switch {
		case canSeeFrom && canSeeTo:
			for _, u := range units {
				m.dup.CopyUnit(u, player.Memory, u.OwnerID == player.PlayerID)
			}
			m.notify.send(ctx, player, dto.MoveUnitStackOverlandMessage{MoveFrom: moveFrom, MoveTo: moveTo, UnitURNs: unitURNs})

		case canSeeFrom:
			for _, u := range units {
				removeUnitFromMemory(player.Memory, u.UnitURN)
			}
			m.notify.send(ctx, player, dto.MoveUnitStackOverlandMessage{MoveFrom: moveFrom, MoveTo: moveTo, UnitURNs: unitURNs, FreeAfterMoving: true})

		case canSeeTo:
			msg := &dto.FogOfWarVisibleAreaChangedMessage{TriggeredFrom: "moveUnitStack"}
			for _, u := range units {
				if m.dup.CopyUnit(u, player.Memory, u.OwnerID == player.PlayerID) {
					msg.AddOrUpdateUnits = append(msg.AddOrUpdateUnits, *player.Memory.FindUnit(u.UnitURN))
				}
				for _, s := range g.TrueMap.SpellsOnUnit(u.UnitURN) {
					if m.dup.CopyMaintainedSpell(s, player.Memory) {
						msg.AddOrUpdateSpells = append(msg.AddOrUpdateSpells, *s)
					}
				}
			}
			if !msg.IsEmpty() {
				m.notify.send(ctx, player, msg)
			}
		}
	}

	if err := m.clearMapFeature(ctx, g, moveTo); err != nil {
		return err
	}
	return m.midTurn.recompute(ctx, g, "moveUnitStack", units[0].OwnerID)
}

// clearMapFeature 走进有怪物的地图特征会清除它；走进未攻占的巫师之塔会把两个位面的塔都标记为已攻占。
// 无论谁能看到，真实状态都会改变。
func (m *MultiChanges) clearMapFeature(ctx context.Context, g *entity.Game, location entity.Coordinates) error {
	terrain := g.TrueMap.Map.At(location).Terrain
	if terrain == nil || terrain.MapFeatureID == "" {
		return nil
	}

	if terrain.MapFeatureID == entity.FeatureUnclearedTower {
		for plane := 0; plane < g.Coords.Depth; plane++ {
			at := entity.Coordinates{X: location.X, Y: location.Y, Plane: plane}
			t := g.TrueMap.Map.At(at).Terrain
			if t == nil || t.MapFeatureID != entity.FeatureUnclearedTower {
				continue
			}
			t.MapFeatureID = entity.FeatureClearedTower
			if err := m.midTurn.UpdatePlayerMemoryOfTerrain(ctx, g, at); err != nil {
				return err
			}
		}
		return nil
	}

	if m.rules.MapFeatureHostsMonsters(terrain.MapFeatureID) {
		terrain.MapFeatureID = ""
		return m.midTurn.UpdatePlayerMemoryOfTerrain(ctx, g, location)
	}
	return nil
}

// SwitchOffSpellsCastInCombat 战斗结束时关闭该战斗中施放的法术；战斗外施放的持续法术不受影响。
func (m *MultiChanges) SwitchOffSpellsCastInCombat(ctx context.Context, g *entity.Game, combatLocation entity.Coordinates, updates *WorldUpdates) error {
	if err := checkCoordinates(g.Coords, combatLocation); err != nil {
		return err
	}
	for _, s := range g.TrueMap.Spells {
		if !s.CastInCombat {
			continue
		}
		switch {
		case s.TargetsUnit():
			u := g.TrueMap.FindUnit(s.UnitURN)
			if u != nil && (u.InCombatAt(combatLocation) || u.Location == combatLocation) {
				updates.SwitchOffSpell(s.SpellURN)
			}
		case s.CityLocation != nil && *s.CityLocation == combatLocation:
			updates.SwitchOffSpell(s.SpellURN)
		}
	}
	return updates.Process(ctx, g)
}

// SwitchOffSpellsInLocation castingPlayerID 为 0 时关闭该地点的全部法术，否则只关闭该玩家施放的。
func (m *MultiChanges) SwitchOffSpellsInLocation(ctx context.Context, g *entity.Game, location entity.Coordinates, castingPlayerID entity.PlayerID) error {
	if err := checkCoordinates(g.Coords, location); err != nil {
		return err
	}
	var urns []entity.SpellURN
	for _, s := range g.TrueMap.Spells {
		if s.CityLocation == nil || *s.CityLocation != location {
			continue
		}
		if castingPlayerID != 0 && s.CastingPlayerID != castingPlayerID {
			continue
		}
		urns = append(urns, s.SpellURN)
	}
	for _, urn := range urns {
		if err := m.midTurn.SwitchOffMaintainedSpell(ctx, g, urn); err != nil {
			return err
		}
	}
	return nil
}

// DestroyAllBuildingsInLocation 复用单建筑销毁流程，可见性与通知规则一致。
func (m *MultiChanges) DestroyAllBuildingsInLocation(ctx context.Context, g *entity.Game, location entity.Coordinates) error {
	if err := checkCoordinates(g.Coords, location); err != nil {
		return err
	}
	var urns []entity.BuildingURN
	for _, b := range g.TrueMap.BuildingsAt(location) {
		urns = append(urns, b.BuildingURN)
	}
	if len(urns) == 0 {
		return nil
	}
	return m.midTurn.DestroyBuildings(ctx, g, urns, false)
}

// RazeCity 摧毁全部建筑、关闭该地所有法术、清空真实城市数据，然后为原城主重算视野。
func (m *MultiChanges) RazeCity(ctx context.Context, g *entity.Game, location entity.Coordinates) error {
	if err := checkCoordinates(g.Coords, location); err != nil {
		return err
	}
	cell := g.TrueMap.Map.At(location)
	if cell.City == nil {
		return recordNotFound("city", location.String())
	}
	owner := cell.City.OwnerID

	if err := m.DestroyAllBuildingsInLocation(ctx, g, location); err != nil {
		return err
	}
	if err := m.SwitchOffSpellsInLocation(ctx, g, location, 0); err != nil {
		return err
	}
	cell.City = nil
	if err := m.midTurn.UpdatePlayerMemoryOfCity(ctx, g, location); err != nil {
		return err
	}
	return m.midTurn.recompute(ctx, g, "razeCity", owner)
}

// HealUnitsAndGainExperience onlyPlayerID 为 0 时处理所有玩家的单位。
// 治疗只作用于可治疗伤害；没有经验技能的单位不获得经验。
func (m *MultiChanges) HealUnitsAndGainExperience(ctx context.Context, g *entity.Game, onlyPlayerID entity.PlayerID) error {
	var changed []entity.UnitURN
	for _, u := range g.TrueMap.Units {
		if !u.IsAlive() || (onlyPlayerID != 0 && u.OwnerID != onlyPlayerID) {
			continue
		}
		realm := m.rules.UnitMagicRealm(u)
		updated := false
		if m.rules.HealEligible(realm) && u.TotalDamage(entity.DamageHealable) > 0 {
			if u.HealDamage(HealAmount(m.stats.FullHitPoints(u))) > 0 {
				updated = true
			}
		}
		if m.rules.ExperienceEligible(realm) && gainExperience(u) {
			updated = true
		}
		if updated {
			changed = append(changed, u.UnitURN)
		}
	}
	return m.updateUnits(ctx, g, changed)
}

// GrantExperienceToUnitsInCombat 战斗结算时为胜方参战单位增加一次经验。
func (m *MultiChanges) GrantExperienceToUnitsInCombat(ctx context.Context, g *entity.Game, combatLocation entity.Coordinates, side entity.CombatSide) error {
	if err := checkCoordinates(g.Coords, combatLocation); err != nil {
		return err
	}
	var changed []entity.UnitURN
	for _, u := range g.TrueMap.Units {
		if !u.IsAlive() || !u.InCombatAt(combatLocation) || u.CombatSide != side {
			continue
		}
		if m.rules.ExperienceEligible(m.rules.UnitMagicRealm(u)) && gainExperience(u) {
			changed = append(changed, u.UnitURN)
		}
	}
	return m.updateUnits(ctx, g, changed)
}

// ResetUnitOverlandMovement 行动点重置为移动速度的两倍（每格 2 点）。
// 只写入真实状态和所有者记忆，客户端在新回合开始时自行重置，不推送消息。
func (m *MultiChanges) ResetUnitOverlandMovement(ctx context.Context, g *entity.Game, onlyPlayerID entity.PlayerID) error {
	for _, u := range g.TrueMap.Units {
		if !u.IsAlive() || (onlyPlayerID != 0 && u.OwnerID != onlyPlayerID) {
			continue
		}
		u.DoubleOverlandMovesLeft = 2 * m.stats.MovementSpeed(u)

		owner := g.FindPlayer(u.OwnerID)
		if owner == nil {
			continue
		}
		if mem := owner.Memory.FindUnit(u.UnitURN); mem != nil {
			mem.DoubleOverlandMovesLeft = u.DoubleOverlandMovesLeft
		} else {
			m.dup.CopyUnit(u, owner.Memory, true)
		}
	}
	return nil
}

func (m *MultiChanges) updateUnits(ctx context.Context, g *entity.Game, urns []entity.UnitURN) error {
	for _, urn := range urns {
		if err := m.midTurn.UpdatePlayerMemoryOfUnit(ctx, g, urn); err != nil {
			return err
		}
	}
	return nil
}

// HealAmount 最大生命值的 HealPercent%，向上取整。
func HealAmount(fullHitPoints int) int {
	if fullHitPoints <= 0 {
		return 0
	}
	return (fullHitPoints*HealPercent + 99) / 100
}

// gainExperience 没有经验技能的单位（召唤生物等）经验固定，不增长。
func gainExperience(u *entity.Unit) bool {
	exp, ok := u.Skill(entity.SkillExperience)
	if !ok {
		return false
	}
	u.SetSkill(entity.SkillExperience, exp+1)
	return true
}
