package service

import (
	"context"
	"slices"

	"Arcanus/internal/world/dto"
	"Arcanus/internal/world/entity"
)

// UpdateAction 重算结束时对某类数据应采取的动作。
type UpdateAction int8

const (
	UpdateActionNone UpdateAction = iota
	// UpdateActionForget 清空记忆，有内容被清除时通知。
	UpdateActionForget
	// UpdateActionUpdate 比较并复制，有变化时通知。
	UpdateActionUpdate
	// UpdateActionNeverLostSightOf 回合中的增量更新已保持同步，无需处理。
	UpdateActionNeverLostSightOf
)

func (a UpdateAction) String() string {
	switch a {
	case UpdateActionNone:
		return "NONE"
	case UpdateActionForget:
		return "FORGET"
	case UpdateActionUpdate:
		return "UPDATE"
	case UpdateActionNeverLostSightOf:
		return "NEVER_LOST_SIGHT_OF"
	}
	return "UNKNOWN"
}

// DetermineVisibleAreaChangedUpdateAction 有临时标记时按标记判断，否则按重算前的永久状态判断。
func DetermineVisibleAreaChangedUpdateAction(cell entity.FogCell, setting entity.FogOfWarSetting) UpdateAction {
	switch cell.Marker {
	case entity.MarkerSeeingForFirstTime:
		return UpdateActionUpdate
	case entity.MarkerRegainedAfterLoss:
		if setting == entity.AlwaysSeeOnceSeen {
			return UpdateActionNeverLostSightOf
		}
		return UpdateActionUpdate
	case entity.MarkerContinuouslySeen:
		return UpdateActionNeverLostSightOf
	}

	switch cell.State {
	case entity.HaveSeen:
		if setting == entity.AlwaysSeeOnceSeen {
			return UpdateActionNeverLostSightOf
		}
	case entity.CanSee:
		// 本次重算没有标记，说明刚失去视野
		switch setting {
		case entity.Forget:
			return UpdateActionForget
		case entity.AlwaysSeeOnceSeen:
			return UpdateActionNeverLostSightOf
		}
	}
	return UpdateActionNone
}

// MidTurnChanges 处理回合中的单个离散事件：先改真实状态，再逐个玩家更新记忆并推送。
type MidTurnChanges struct {
	calc   FogOfWarCalculations
	dup    FogOfWarDuplication
	proc   FogOfWarProcessing
	notify *notifier
}

func NewMidTurnChanges(calc FogOfWarCalculations, dup FogOfWarDuplication, proc FogOfWarProcessing, n *notifier) *MidTurnChanges {
	return &MidTurnChanges{calc: calc, dup: dup, proc: proc, notify: n}
}

// UpdatePlayerMemoryOfTerrain 真实地形已变化，同步给能看到该格的玩家。
func (m *MidTurnChanges) UpdatePlayerMemoryOfTerrain(ctx context.Context, g *entity.Game, location entity.Coordinates) error {
	if err := checkCoordinates(g.Coords, location); err != nil {
		return err
	}
	trueCell := g.TrueMap.Map.At(location)
	for _, player := range g.Players {
		if !m.calc.CanSeeMidTurn(player.FogOfWar.State(location), g.Settings.TerrainAndNodeAuras) {
			continue
		}
		memCell := player.Memory.Map.At(location)
		if m.dup.CopyTerrainAndNodeAura(trueCell, memCell) {
			m.notify.send(ctx, player, dto.UpdateTerrainMessage{Location: location, Terrain: memCell.Terrain.Clone()})
		}
	}
	return nil
}

// UpdatePlayerMemoryOfCity 真实城市数据已变化，同步给能看到该城市的玩家。
func (m *MidTurnChanges) UpdatePlayerMemoryOfCity(ctx context.Context, g *entity.Game, location entity.Coordinates) error {
	if err := checkCoordinates(g.Coords, location); err != nil {
		return err
	}
	trueCell := g.TrueMap.Map.At(location)
	for _, player := range g.Players {
		if !m.calc.CanSeeMidTurn(player.FogOfWar.State(location), g.Settings.CitiesSpellsAndCombatAreaEffects) {
			continue
		}
		memCell := player.Memory.Map.At(location)
		if m.dup.CopyCityData(trueCell, memCell, includeSensitiveCityData(trueCell.City, player, g.Settings)) {
			m.notify.send(ctx, player, dto.UpdateCityMessage{Location: location, City: memCell.City.Clone()})
		}
	}
	return nil
}

// UpdatePlayerMemoryOfUnit 真实单位已变化（伤害、经验、状态），同步给能看到它的玩家。
func (m *MidTurnChanges) UpdatePlayerMemoryOfUnit(ctx context.Context, g *entity.Game, urn entity.UnitURN) error {
	unit := g.TrueMap.FindUnit(urn)
	if unit == nil {
		return recordNotFound("unit", urn)
	}
	for _, player := range g.Players {
		if !m.calc.CanSeeUnitMidTurn(unit, g.TrueMap.Map, player, g.Settings) {
			continue
		}
		if m.dup.CopyUnit(unit, player.Memory, unit.OwnerID == player.PlayerID) {
			m.notify.send(ctx, player, dto.AddOrUpdateUnitMessage{Unit: *player.Memory.FindUnit(urn)})
		}
	}
	return nil
}

// AddBuildings 在同一城市一次性新建多个建筑，每个玩家最多收到一条消息。
func (m *MidTurnChanges) AddBuildings(ctx context.Context, g *entity.Game, cityLocation entity.Coordinates, buildingIDs ...entity.BuildingID) ([]*entity.Building, error) {
	if err := checkCoordinates(g.Coords, cityLocation); err != nil {
		return nil, err
	}
	added := make([]*entity.Building, 0, len(buildingIDs))
	for _, id := range buildingIDs {
		b := &entity.Building{BuildingURN: g.NextBuildingURN(), BuildingID: id, CityLocation: cityLocation}
		g.TrueMap.Buildings = append(g.TrueMap.Buildings, b)
		added = append(added, b)
	}

	for _, player := range g.Players {
		if !m.calc.CanSeeMidTurn(player.FogOfWar.State(cityLocation), g.Settings.CitiesSpellsAndCombatAreaEffects) {
			continue
		}
		var msg dto.AddBuildingMessage
		for _, b := range added {
			if m.dup.CopyBuilding(b, player.Memory) {
				msg.Buildings = append(msg.Buildings, *b)
			}
		}
		if len(msg.Buildings) > 0 {
			m.notify.send(ctx, player, msg)
		}
	}

	return added, m.recomputeCityOwners(ctx, g, "addBuildings", cityLocation)
}

// DestroyBuildings 任一 URN 不存在时整个操作失败，不做任何修改。
// buildingSold 表示城主出售建筑，城主收到的消息会带上本回合已出售的标记。
func (m *MidTurnChanges) DestroyBuildings(ctx context.Context, g *entity.Game, urns []entity.BuildingURN, buildingSold bool) error {
	destroyed := make([]*entity.Building, 0, len(urns))
	for _, urn := range urns {
		b := g.TrueMap.FindBuilding(urn)
		if b == nil {
			return recordNotFound("building", urn)
		}
		destroyed = append(destroyed, b)
	}

	var locations []entity.Coordinates
	for _, b := range destroyed {
		g.TrueMap.RemoveBuilding(b.BuildingURN)
		locations = appendUnique(locations, b.CityLocation)
	}

	for _, player := range g.Players {
		msg := dto.DestroyBuildingMessage{}
		for _, b := range destroyed {
			if !m.calc.CanSeeMidTurn(player.FogOfWar.State(b.CityLocation), g.Settings.CitiesSpellsAndCombatAreaEffects) {
				continue
			}
			if player.Memory.RemoveBuilding(b.BuildingURN) {
				msg.BuildingURNs = append(msg.BuildingURNs, b.BuildingURN)
				if buildingSold && cityOwner(g, b.CityLocation) == player.PlayerID {
					msg.UpdateBuildingSoldThisTurn = true
				}
			}
		}
		if len(msg.BuildingURNs) > 0 {
			m.notify.send(ctx, player, msg)
		}
	}

	return m.recomputeCityOwners(ctx, g, "destroyBuildings", locations...)
}

// AddMaintainedSpell 分配 URN 后加入真实状态；spell 中的 SpellURN 会被忽略。
func (m *MidTurnChanges) AddMaintainedSpell(ctx context.Context, g *entity.Game, spell entity.MaintainedSpell) (*entity.MaintainedSpell, error) {
	if err := m.checkSpellTarget(g, &spell); err != nil {
		return nil, err
	}
	s := spell.Clone()
	s.SpellURN = g.NextSpellURN()
	g.TrueMap.Spells = append(g.TrueMap.Spells, s)

	for _, player := range g.Players {
		if !m.calc.CanSeeSpellMidTurn(s, g.TrueMap, player, g.Settings) {
			continue
		}
		if m.dup.CopyMaintainedSpell(s, player.Memory) {
			m.notify.send(ctx, player, dto.AddOrUpdateMaintainedSpellMessage{Spell: *s})
		}
	}
	return s, m.recomputeAfterSpellChange(ctx, g, "addMaintainedSpell", s)
}

// SwitchOffMaintainedSpell 能看到该法术的玩家从记忆中移除它；看不到的玩家保留过期记忆。
func (m *MidTurnChanges) SwitchOffMaintainedSpell(ctx context.Context, g *entity.Game, urn entity.SpellURN) error {
	s := g.TrueMap.FindSpell(urn)
	if s == nil {
		return recordNotFound("spell", urn)
	}
	for _, player := range g.Players {
		if !m.calc.CanSeeSpellMidTurn(s, g.TrueMap, player, g.Settings) {
			continue
		}
		if player.Memory.RemoveSpell(urn) {
			m.notify.send(ctx, player, dto.SwitchOffMaintainedSpellMessage{SpellURN: urn})
		}
	}
	g.TrueMap.RemoveSpell(urn)
	return m.recomputeAfterSpellChange(ctx, g, "switchOffMaintainedSpell", s)
}

// AddCombatAreaEffect MapLocation 为空表示全局效果。
func (m *MidTurnChanges) AddCombatAreaEffect(ctx context.Context, g *entity.Game, cae entity.CombatAreaEffect) (*entity.CombatAreaEffect, error) {
	if cae.MapLocation != nil {
		if err := checkCoordinates(g.Coords, *cae.MapLocation); err != nil {
			return nil, err
		}
	}
	c := cae.Clone()
	c.CombatAreaEffectURN = g.NextCombatAreaEffectURN()
	g.TrueMap.CombatAreaEffects = append(g.TrueMap.CombatAreaEffects, c)

	for _, player := range g.Players {
		if !m.calc.CanSeeCombatAreaEffectMidTurn(c, player.FogOfWar, g.Settings) {
			continue
		}
		if m.dup.CopyCombatAreaEffect(c, player.Memory) {
			m.notify.send(ctx, player, dto.AddOrUpdateCombatAreaEffectMessage{CombatAreaEffect: *c})
		}
	}
	if c.MapLocation == nil {
		return c, nil
	}
	return c, m.recomputeCityOwners(ctx, g, "addCombatAreaEffect", *c.MapLocation)
}

func (m *MidTurnChanges) RemoveCombatAreaEffect(ctx context.Context, g *entity.Game, urn entity.CombatAreaEffectURN) error {
	c := g.TrueMap.FindCombatAreaEffect(urn)
	if c == nil {
		return recordNotFound("combat_area_effect", urn)
	}
	g.TrueMap.RemoveCombatAreaEffect(urn)

	for _, player := range g.Players {
		if !m.calc.CanSeeCombatAreaEffectMidTurn(c, player.FogOfWar, g.Settings) {
			continue
		}
		if player.Memory.RemoveCombatAreaEffect(urn) {
			m.notify.send(ctx, player, dto.CancelCombatAreaEffectMessage{CombatAreaEffectURN: urn})
		}
	}
	if c.MapLocation == nil {
		return nil
	}
	return m.recomputeCityOwners(ctx, g, "removeCombatAreaEffect", *c.MapLocation)
}

// AddUnit 分配 URN 并以存活状态加入真实状态，随后为所有者重算视野。
func (m *MidTurnChanges) AddUnit(ctx context.Context, g *entity.Game, unit entity.Unit) (*entity.Unit, error) {
	if err := checkCoordinates(g.Coords, unit.Location); err != nil {
		return nil, err
	}
	u := unit.Clone()
	u.UnitURN = g.NextUnitURN()
	u.Status = entity.UnitStatusAlive
	g.TrueMap.Units = append(g.TrueMap.Units, u)

	for _, player := range g.Players {
		if !m.calc.CanSeeUnitMidTurn(u, g.TrueMap.Map, player, g.Settings) {
			continue
		}
		if m.dup.CopyUnit(u, player.Memory, u.OwnerID == player.PlayerID) {
			m.notify.send(ctx, player, dto.AddOrUpdateUnitMessage{Unit: *player.Memory.FindUnit(u.UnitURN)})
		}
	}
	return u, m.recompute(ctx, g, "addUnit", u.OwnerID)
}

// KillUnit 单位连同针对它的法术一起从真实状态移除。
// 能看到单位的玩家同步移除；客户端收到 KillUnit 后自行释放该单位身上的法术。
func (m *MidTurnChanges) KillUnit(ctx context.Context, g *entity.Game, urn entity.UnitURN) error {
	u := g.TrueMap.FindUnit(urn)
	if u == nil {
		return recordNotFound("unit", urn)
	}

	for _, player := range g.Players {
		if !m.calc.CanSeeUnitMidTurn(u, g.TrueMap.Map, player, g.Settings) {
			continue
		}
		if removeUnitFromMemory(player.Memory, urn) {
			m.notify.send(ctx, player, dto.KillUnitMessage{UnitURN: urn})
		}
	}

	removeUnitFromMemory(g.TrueMap, urn)
	u.Status = entity.UnitStatusDead
	return m.recompute(ctx, g, "killUnit", u.OwnerID)
}

func (m *MidTurnChanges) checkSpellTarget(g *entity.Game, spell *entity.MaintainedSpell) error {
	if spell.TargetsUnit() && spell.CityLocation != nil {
		return ErrInvalidTarget.WithData("spell_id", string(spell.SpellID))
	}
	if spell.TargetsUnit() && g.TrueMap.FindUnit(spell.UnitURN) == nil {
		return recordNotFound("unit", spell.UnitURN)
	}
	if spell.CityLocation != nil {
		return checkCoordinates(g.Coords, *spell.CityLocation)
	}
	return nil
}

// recomputeAfterSpellChange 地点法术影响城主的视野（以及施法者对敌方地点的视野）；
// 洞察类全局法术影响施法者的视野。
func (m *MidTurnChanges) recomputeAfterSpellChange(ctx context.Context, g *entity.Game, triggeredFrom string, s *entity.MaintainedSpell) error {
	var players []entity.PlayerID
	switch {
	case s.CityLocation != nil:
		if owner := cityOwner(g, *s.CityLocation); owner != 0 {
			players = append(players, owner)
		}
		players = appendUnique(players, s.CastingPlayerID)
	case s.SpellID == entity.SpellAwareness || s.SpellID == entity.SpellNatureAwareness:
		players = append(players, s.CastingPlayerID)
	}
	return m.recompute(ctx, g, triggeredFrom, players...)
}

// recomputeCityOwners 建筑/战斗区域效果变化后只为城主重算视野。
func (m *MidTurnChanges) recomputeCityOwners(ctx context.Context, g *entity.Game, triggeredFrom string, locations ...entity.Coordinates) error {
	var owners []entity.PlayerID
	for _, loc := range locations {
		if owner := cityOwner(g, loc); owner != 0 {
			owners = appendUnique(owners, owner)
		}
	}
	return m.recompute(ctx, g, triggeredFrom, owners...)
}

func (m *MidTurnChanges) recompute(ctx context.Context, g *entity.Game, triggeredFrom string, playerIDs ...entity.PlayerID) error {
	for _, id := range playerIDs {
		player := g.FindPlayer(id)
		if player == nil {
			continue
		}
		if err := m.proc.UpdateAndSendFogOfWar(ctx, g, player, triggeredFrom); err != nil {
			return err
		}
	}
	return nil
}

// MovementPath 寻路结果：每个格子记录到达它的前一个格子。
type MovementPath map[entity.Coordinates]entity.Coordinates

// DetermineMovementDirection 从终点沿 path 回溯，找到起点之后的第一步。
// 经过巫师之塔时 (x,y) 不变而位面改变，此时第一步是塔所在格（取离开塔时的位面），而不是塔之后的格子。
func DetermineMovementDirection(cs entity.CoordinateSystem, moveFrom, moveTo entity.Coordinates, path MovementPath) (entity.Coordinates, error) {
	for _, c := range []entity.Coordinates{moveFrom, moveTo} {
		if err := checkCoordinates(cs, c); err != nil {
			return entity.Coordinates{}, err
		}
	}
	notFound := func() error {
		return ErrPathNotFound.WithData("from", moveFrom.String()).WithData("to", moveTo.String())
	}

	var next *entity.Coordinates
	cur := moveTo
	for steps := 0; steps <= cs.Width*cs.Height*cs.Depth; steps++ {
		prev, ok := path[cur]
		if !ok {
			return entity.Coordinates{}, notFound()
		}
		if prev == moveFrom {
			step := cur
			switch {
			case cur.SameCell(moveFrom):
				// 起点就在塔上，先换位面再走，真正的一步在换位面之后
				if next == nil {
					return entity.Coordinates{}, notFound()
				}
				step = *next
			case next != nil && next.SameCell(cur):
				step = *next
			}
			if !adjacentOnAnyPlane(cs, moveFrom, step) {
				return entity.Coordinates{}, notFound()
			}
			return step, nil
		}
		c := cur
		next = &c
		cur = prev
	}
	return entity.Coordinates{}, notFound()
}

func adjacentOnAnyPlane(cs entity.CoordinateSystem, a, b entity.Coordinates) bool {
	b.Plane = a.Plane
	return cs.Adjacent(a, b)
}

// removeUnitFromMemory 移除单位以及针对它的法术。
func removeUnitFromMemory(mem *entity.FogOfWarMemory, urn entity.UnitURN) bool {
	if !mem.RemoveUnit(urn) {
		return false
	}
	for _, s := range mem.SpellsOnUnit(urn) {
		mem.RemoveSpell(s.SpellURN)
	}
	return true
}

func cityOwner(g *entity.Game, location entity.Coordinates) entity.PlayerID {
	if city := g.TrueMap.Map.At(location).City; city != nil {
		return city.OwnerID
	}
	return 0
}

func appendUnique[T comparable](list []T, v T) []T {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
