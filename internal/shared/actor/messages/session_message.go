package messages

import "Arcanus/internal/world/entity"

type PlayerSeed struct {
	PlayerID entity.PlayerID
	Name     string
	Human    bool
}

// HWCreateSession 由管理 actor 直接处理；Coords/Settings 为空时用服务端配置。
type HWCreateSession struct {
	Players  []PlayerSeed
	Coords   *entity.CoordinateSystem
	Settings *entity.FogOfWarSettings
	TileType entity.TileTypeID
	TraceId  string
}

type WHCreateSession struct {
	SessionID entity.SessionID `json:"session_id"`
}

// HWStopSession 停止会话 actor 并释放状态。
type HWStopSession struct {
	SessionBaseMessage
}

type HWSetTerrain struct {
	SessionBaseMessage
	Location   entity.Coordinates
	TileType   entity.TileTypeID
	MapFeature entity.MapFeatureID
	NodeOwner  entity.PlayerID
}

type HWSetCity struct {
	SessionBaseMessage
	Location entity.Coordinates
	City     entity.CityData
}

type HWRazeCity struct {
	SessionBaseMessage
	Location entity.Coordinates
}

type HWAddBuildings struct {
	SessionBaseMessage
	CityLocation entity.Coordinates
	BuildingIDs  []entity.BuildingID
}

type WHBuildings struct {
	Buildings []entity.Building `json:"buildings"`
}

type HWDestroyBuildings struct {
	SessionBaseMessage
	BuildingURNs []entity.BuildingURN
	Sold         bool
}

type HWAddUnit struct {
	SessionBaseMessage
	Unit entity.Unit
}

type WHUnit struct {
	Unit entity.Unit `json:"unit"`
}

type HWKillUnit struct {
	SessionBaseMessage
	UnitURN entity.UnitURN
}

// HWMoveUnitStack 沿 Path 逐格移动，Path 不含起点。
type HWMoveUnitStack struct {
	SessionBaseMessage
	UnitURNs []entity.UnitURN
	From     entity.Coordinates
	Path     []entity.Coordinates
}

type HWAddSpell struct {
	SessionBaseMessage
	Spell entity.MaintainedSpell
}

type WHSpell struct {
	Spell entity.MaintainedSpell `json:"spell"`
}

// HWSwitchOffSpell Deferred 为 true 时只入队，等 HWProcessWorldUpdates 统一处理。
type HWSwitchOffSpell struct {
	SessionBaseMessage
	SpellURN entity.SpellURN
	Deferred bool
}

type HWProcessWorldUpdates struct {
	SessionBaseMessage
}

type HWAddCombatAreaEffect struct {
	SessionBaseMessage
	CombatAreaEffect entity.CombatAreaEffect
}

type WHCombatAreaEffect struct {
	CombatAreaEffect entity.CombatAreaEffect `json:"combat_area_effect"`
}

type HWCancelCombatAreaEffect struct {
	SessionBaseMessage
	CombatAreaEffectURN entity.CombatAreaEffectURN
}

// HWEndCombat 战斗结束：胜方获得经验，战斗中施放的法术关闭。
type HWEndCombat struct {
	SessionBaseMessage
	Location    entity.Coordinates
	WinningSide entity.CombatSide
}

type HWStartTurn struct {
	SessionBaseMessage
}

type HWFogView struct {
	SessionBaseMessage
	PlayerID entity.PlayerID
}

// WHFogView 某玩家当前的视野与记忆概要。
type WHFogView struct {
	PlayerID          entity.PlayerID           `json:"player_id"`
	Counts            map[string]int            `json:"counts"`
	Units             []entity.Unit             `json:"units"`
	Buildings         []entity.Building         `json:"buildings"`
	Spells            []entity.MaintainedSpell  `json:"spells"`
	CombatAreaEffects []entity.CombatAreaEffect `json:"combat_area_effects"`
}
