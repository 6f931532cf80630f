package dto

import "Arcanus/internal/world/entity"

type FogOfWarStateUpdate struct {
	Location entity.Coordinates         `json:"location"`
	State    entity.PermanentVisibility `json:"state"`
}

// FogOfWarVisibleAreaChangedMessage 一次可见区域重算（或单位进入视野）产生的全部变化，合并为一条消息。
type FogOfWarVisibleAreaChangedMessage struct {
	TriggeredFrom string `json:"triggered_from"`

	FogOfWarUpdates           []FogOfWarStateUpdate        `json:"fog_of_war_updates,omitempty"`
	TerrainUpdates            []UpdateTerrainMessage       `json:"terrain_updates,omitempty"`
	CityUpdates               []UpdateCityMessage          `json:"city_updates,omitempty"`
	AddBuildings              []entity.Building            `json:"add_buildings,omitempty"`
	DestroyBuildings          []entity.BuildingURN         `json:"destroy_buildings,omitempty"`
	AddOrUpdateUnits          []entity.Unit                `json:"add_or_update_units,omitempty"`
	KillUnits                 []entity.UnitURN             `json:"kill_units,omitempty"`
	AddOrUpdateSpells         []entity.MaintainedSpell     `json:"add_or_update_spells,omitempty"`
	SwitchOffSpells           []entity.SpellURN            `json:"switch_off_spells,omitempty"`
	AddOrUpdateCombatAreaEffs []entity.CombatAreaEffect    `json:"add_or_update_combat_area_effects,omitempty"`
	CancelCombatAreaEffs      []entity.CombatAreaEffectURN `json:"cancel_combat_area_effects,omitempty"`
}

func (*FogOfWarVisibleAreaChangedMessage) MessageName() string { return "fow.visibleAreaChanged" }

// IsEmpty 没有任何变化时不需要发送。
func (m *FogOfWarVisibleAreaChangedMessage) IsEmpty() bool {
	return len(m.FogOfWarUpdates) == 0 &&
		len(m.TerrainUpdates) == 0 &&
		len(m.CityUpdates) == 0 &&
		len(m.AddBuildings) == 0 &&
		len(m.DestroyBuildings) == 0 &&
		len(m.AddOrUpdateUnits) == 0 &&
		len(m.KillUnits) == 0 &&
		len(m.AddOrUpdateSpells) == 0 &&
		len(m.SwitchOffSpells) == 0 &&
		len(m.AddOrUpdateCombatAreaEffs) == 0 &&
		len(m.CancelCombatAreaEffs) == 0
}
