package dto

import "Arcanus/internal/world/entity"

// ClientMessage 推送给客户端的增量更新。MessageName 作为 ws 推送的路由名。
type ClientMessage interface {
	MessageName() string
}

type UpdateTerrainMessage struct {
	Location entity.Coordinates  `json:"location"`
	Terrain  *entity.TerrainData `json:"terrain"`
}

func (UpdateTerrainMessage) MessageName() string { return "fow.updateTerrain" }

type UpdateCityMessage struct {
	Location entity.Coordinates `json:"location"`
	City     *entity.CityData   `json:"city"`
}

func (UpdateCityMessage) MessageName() string { return "fow.updateCity" }

// AddBuildingMessage 同一事件新增的多个建筑合并为一条消息。
type AddBuildingMessage struct {
	Buildings []entity.Building `json:"buildings"`
}

func (AddBuildingMessage) MessageName() string { return "fow.addBuilding" }

type DestroyBuildingMessage struct {
	BuildingURNs []entity.BuildingURN `json:"building_urns"`
	// UpdateBuildingSoldThisTurn 城主出售建筑时置位，客户端据此禁用本回合再次出售。
	UpdateBuildingSoldThisTurn bool `json:"update_building_sold_this_turn,omitempty"`
}

func (DestroyBuildingMessage) MessageName() string { return "fow.destroyBuilding" }

type AddOrUpdateUnitMessage struct {
	Unit entity.Unit `json:"unit"`
}

func (AddOrUpdateUnitMessage) MessageName() string { return "fow.addOrUpdateUnit" }

type KillUnitMessage struct {
	UnitURN entity.UnitURN `json:"unit_urn"`
}

func (KillUnitMessage) MessageName() string { return "fow.killUnit" }

// MoveUnitStackOverlandMessage FreeAfterMoving=true 表示移动后客户端应从记忆中释放这些单位。
type MoveUnitStackOverlandMessage struct {
	MoveFrom        entity.Coordinates `json:"move_from"`
	MoveTo          entity.Coordinates `json:"move_to"`
	UnitURNs        []entity.UnitURN   `json:"unit_urns"`
	FreeAfterMoving bool               `json:"free_after_moving,omitempty"`
}

func (MoveUnitStackOverlandMessage) MessageName() string { return "fow.moveUnitStack" }

type AddOrUpdateMaintainedSpellMessage struct {
	Spell entity.MaintainedSpell `json:"spell"`
}

func (AddOrUpdateMaintainedSpellMessage) MessageName() string { return "fow.addOrUpdateSpell" }

type SwitchOffMaintainedSpellMessage struct {
	SpellURN entity.SpellURN `json:"spell_urn"`
}

func (SwitchOffMaintainedSpellMessage) MessageName() string { return "fow.switchOffSpell" }

type AddOrUpdateCombatAreaEffectMessage struct {
	CombatAreaEffect entity.CombatAreaEffect `json:"combat_area_effect"`
}

func (AddOrUpdateCombatAreaEffectMessage) MessageName() string { return "fow.addOrUpdateCAE" }

type CancelCombatAreaEffectMessage struct {
	CombatAreaEffectURN entity.CombatAreaEffectURN `json:"combat_area_effect_urn"`
}

func (CancelCombatAreaEffectMessage) MessageName() string { return "fow.cancelCAE" }
