package entity

import "slices"

// FogOfWarMemory 同一结构既用于服务端真实状态，也用于每个玩家的记忆副本。
// 副本只会是真实状态的子集或过期快照，不会出现真实状态里从未存在过的数据。
type FogOfWarMemory struct {
	Map               *MapVolume
	Buildings         []*Building
	Units             []*Unit
	Spells            []*MaintainedSpell
	CombatAreaEffects []*CombatAreaEffect
}

func NewFogOfWarMemory(cs CoordinateSystem) *FogOfWarMemory {
	return &FogOfWarMemory{Map: NewMapVolume(cs)}
}

func (m *FogOfWarMemory) FindBuilding(urn BuildingURN) *Building {
	if i := m.buildingIndex(urn); i >= 0 {
		return m.Buildings[i]
	}
	return nil
}

// RemoveBuilding 按 URN 删除并保持其余元素的相对顺序；不存在时返回 false。
func (m *FogOfWarMemory) RemoveBuilding(urn BuildingURN) bool {
	i := m.buildingIndex(urn)
	if i < 0 {
		return false
	}
	m.Buildings = slices.Delete(m.Buildings, i, i+1)
	return true
}

// BuildingsAt 返回位于指定城市的建筑（保持列表顺序）。
func (m *FogOfWarMemory) BuildingsAt(loc Coordinates) []*Building {
	var out []*Building
	for _, b := range m.Buildings {
		if b.CityLocation == loc {
			out = append(out, b)
		}
	}
	return out
}

func (m *FogOfWarMemory) buildingIndex(urn BuildingURN) int {
	return slices.IndexFunc(m.Buildings, func(b *Building) bool { return b.BuildingURN == urn })
}

func (m *FogOfWarMemory) FindUnit(urn UnitURN) *Unit {
	if i := m.unitIndex(urn); i >= 0 {
		return m.Units[i]
	}
	return nil
}

func (m *FogOfWarMemory) RemoveUnit(urn UnitURN) bool {
	i := m.unitIndex(urn)
	if i < 0 {
		return false
	}
	m.Units = slices.Delete(m.Units, i, i+1)
	return true
}

func (m *FogOfWarMemory) unitIndex(urn UnitURN) int {
	return slices.IndexFunc(m.Units, func(u *Unit) bool { return u.UnitURN == urn })
}

func (m *FogOfWarMemory) FindSpell(urn SpellURN) *MaintainedSpell {
	if i := m.spellIndex(urn); i >= 0 {
		return m.Spells[i]
	}
	return nil
}

func (m *FogOfWarMemory) RemoveSpell(urn SpellURN) bool {
	i := m.spellIndex(urn)
	if i < 0 {
		return false
	}
	m.Spells = slices.Delete(m.Spells, i, i+1)
	return true
}

// SpellsOnUnit 返回针对某个单位的所有持续法术。
func (m *FogOfWarMemory) SpellsOnUnit(urn UnitURN) []*MaintainedSpell {
	var out []*MaintainedSpell
	for _, s := range m.Spells {
		if s.UnitURN == urn {
			out = append(out, s)
		}
	}
	return out
}

// FindSpellCastBy 查找某玩家施放的某个持续法术（任意目标）。
func (m *FogOfWarMemory) FindSpellCastBy(caster PlayerID, id SpellID) *MaintainedSpell {
	for _, s := range m.Spells {
		if s.CastingPlayerID == caster && s.SpellID == id {
			return s
		}
	}
	return nil
}

func (m *FogOfWarMemory) spellIndex(urn SpellURN) int {
	return slices.IndexFunc(m.Spells, func(s *MaintainedSpell) bool { return s.SpellURN == urn })
}

func (m *FogOfWarMemory) FindCombatAreaEffect(urn CombatAreaEffectURN) *CombatAreaEffect {
	if i := m.combatAreaEffectIndex(urn); i >= 0 {
		return m.CombatAreaEffects[i]
	}
	return nil
}

func (m *FogOfWarMemory) RemoveCombatAreaEffect(urn CombatAreaEffectURN) bool {
	i := m.combatAreaEffectIndex(urn)
	if i < 0 {
		return false
	}
	m.CombatAreaEffects = slices.Delete(m.CombatAreaEffects, i, i+1)
	return true
}

func (m *FogOfWarMemory) combatAreaEffectIndex(urn CombatAreaEffectURN) int {
	return slices.IndexFunc(m.CombatAreaEffects, func(c *CombatAreaEffect) bool { return c.CombatAreaEffectURN == urn })
}
