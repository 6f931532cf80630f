package service

import (
	"slices"

	"Arcanus/internal/world/entity"
)

// FogOfWarDuplication 真实实体与玩家记忆之间的逐字段比较复制。
// 所有 Copy* 在且仅在记忆被写入时返回 true（首次创建也算变化）。
type FogOfWarDuplication interface {
	CopyTerrainAndNodeAura(source, destination *entity.MapCell) bool
	BlankTerrainAndNodeAura(destination *entity.MapCell) bool
	CopyCityData(source, destination *entity.MapCell, includeSensitive bool) bool
	BlankCityData(destination *entity.MapCell) bool
	CopyBuilding(source *entity.Building, destination *entity.FogOfWarMemory) bool
	CopyUnit(source *entity.Unit, destination *entity.FogOfWarMemory, includeMovementFields bool) bool
	CopyMaintainedSpell(source *entity.MaintainedSpell, destination *entity.FogOfWarMemory) bool
	CopyCombatAreaEffect(source *entity.CombatAreaEffect, destination *entity.FogOfWarMemory) bool
}

type Duplication struct{}

func NewDuplication() *Duplication {
	return &Duplication{}
}

func (d *Duplication) CopyTerrainAndNodeAura(source, destination *entity.MapCell) bool {
	src := source.Terrain
	if src == nil {
		// 真实地形为空时等价于清空
		return d.BlankTerrainAndNodeAura(destination)
	}
	dst := destination.Terrain
	if dst == nil {
		destination.Terrain = src.Clone()
		return true
	}
	if *dst == *src {
		return false
	}
	*dst = *src
	return true
}

func (d *Duplication) BlankTerrainAndNodeAura(destination *entity.MapCell) bool {
	if destination.Terrain == nil {
		return false
	}
	destination.Terrain = nil
	return true
}

func (d *Duplication) CopyCityData(source, destination *entity.MapCell, includeSensitive bool) bool {
	src := source.City
	if src == nil {
		return d.BlankCityData(destination)
	}
	dst := destination.City
	if dst == nil {
		dst = &entity.CityData{}
		destination.City = dst
		copyCityFields(src, dst, includeSensitive)
		return true
	}
	return copyCityFields(src, dst, includeSensitive)
}

func copyCityFields(src, dst *entity.CityData, includeSensitive bool) bool {
	changed := false
	set(&dst.OwnerID, src.OwnerID, &changed)
	set(&dst.RaceID, src.RaceID, &changed)
	set(&dst.CitySizeID, src.CitySizeID, &changed)
	set(&dst.CityName, src.CityName, &changed)
	set(&dst.Population, src.Population, &changed)
	set(&dst.NumberOfRebels, src.NumberOfRebels, &changed)
	set(&dst.MinimumFarmers, src.MinimumFarmers, &changed)
	set(&dst.OptionalFarmers, src.OptionalFarmers, &changed)

	// 不包含敏感字段时清空它们；此前可见、现在不可见同样算一次变化
	var (
		building   entity.BuildingID
		unit       entity.UnitID
		production *int
	)
	if includeSensitive {
		building = src.CurrentlyConstructingBuildingID
		unit = src.CurrentlyConstructingUnitID
		production = src.ProductionSoFar
	}
	set(&dst.CurrentlyConstructingBuildingID, building, &changed)
	set(&dst.CurrentlyConstructingUnitID, unit, &changed)
	if !sameIntPtr(dst.ProductionSoFar, production) {
		dst.ProductionSoFar = cloneIntPtr(production)
		changed = true
	}
	return changed
}

func (d *Duplication) BlankCityData(destination *entity.MapCell) bool {
	if destination.City == nil {
		return false
	}
	destination.City = nil
	return true
}

func (d *Duplication) CopyBuilding(source *entity.Building, destination *entity.FogOfWarMemory) bool {
	dst := destination.FindBuilding(source.BuildingURN)
	if dst == nil {
		destination.Buildings = append(destination.Buildings, source.Clone())
		return true
	}
	changed := false
	set(&dst.BuildingID, source.BuildingID, &changed)
	set(&dst.CityLocation, source.CityLocation, &changed)
	return changed
}

func (d *Duplication) CopyUnit(source *entity.Unit, destination *entity.FogOfWarMemory, includeMovementFields bool) bool {
	dst := destination.FindUnit(source.UnitURN)
	if dst == nil {
		dst = source.Clone()
		if !includeMovementFields {
			dst.DoubleOverlandMovesLeft = 0
		}
		destination.Units = append(destination.Units, dst)
		return true
	}

	changed := false
	set(&dst.UnitID, source.UnitID, &changed)
	set(&dst.OwnerID, source.OwnerID, &changed)
	set(&dst.Location, source.Location, &changed)
	set(&dst.Status, source.Status, &changed)
	set(&dst.CombatSide, source.CombatSide, &changed)
	if !entity.SameCoordinates(dst.CombatLocation, source.CombatLocation) {
		dst.CombatLocation = cloneCoordinates(source.CombatLocation)
		changed = true
	}
	if !entity.SameCoordinates(dst.CombatPosition, source.CombatPosition) {
		dst.CombatPosition = cloneCoordinates(source.CombatPosition)
		changed = true
	}
	if !slices.Equal(dst.Skills, source.Skills) {
		dst.Skills = slices.Clone(source.Skills)
		changed = true
	}
	if !slices.Equal(dst.Damage, source.Damage) {
		dst.Damage = slices.Clone(source.Damage)
		changed = true
	}
	moves := 0
	if includeMovementFields {
		moves = source.DoubleOverlandMovesLeft
	}
	set(&dst.DoubleOverlandMovesLeft, moves, &changed)
	return changed
}

func (d *Duplication) CopyMaintainedSpell(source *entity.MaintainedSpell, destination *entity.FogOfWarMemory) bool {
	dst := destination.FindSpell(source.SpellURN)
	if dst == nil {
		destination.Spells = append(destination.Spells, source.Clone())
		return true
	}
	changed := false
	set(&dst.SpellID, source.SpellID, &changed)
	set(&dst.CastingPlayerID, source.CastingPlayerID, &changed)
	set(&dst.UnitURN, source.UnitURN, &changed)
	set(&dst.UnitSkillID, source.UnitSkillID, &changed)
	set(&dst.CitySpellEffectID, source.CitySpellEffectID, &changed)
	set(&dst.CastInCombat, source.CastInCombat, &changed)
	if !entity.SameCoordinates(dst.CityLocation, source.CityLocation) {
		dst.CityLocation = cloneCoordinates(source.CityLocation)
		changed = true
	}
	return changed
}

func (d *Duplication) CopyCombatAreaEffect(source *entity.CombatAreaEffect, destination *entity.FogOfWarMemory) bool {
	dst := destination.FindCombatAreaEffect(source.CombatAreaEffectURN)
	if dst == nil {
		destination.CombatAreaEffects = append(destination.CombatAreaEffects, source.Clone())
		return true
	}
	changed := false
	set(&dst.CombatAreaEffectID, source.CombatAreaEffectID, &changed)
	set(&dst.CastingPlayerID, source.CastingPlayerID, &changed)
	if !entity.SameCoordinates(dst.MapLocation, source.MapLocation) {
		dst.MapLocation = cloneCoordinates(source.MapLocation)
		changed = true
	}
	return changed
}

func set[T comparable](dst *T, src T, changed *bool) {
	if *dst != src {
		*dst = src
		*changed = true
	}
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneCoordinates(c *entity.Coordinates) *entity.Coordinates {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
