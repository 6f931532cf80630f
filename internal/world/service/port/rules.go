package port

import "Arcanus/internal/world/entity"

// Rules 静态规则库的只读查询（建筑、单位、魔法领域、地图特征）。
type Rules interface {
	// BuildingScoutingRange 建筑为所在城市提供的侦查范围加成，没有加成返回 0。
	BuildingScoutingRange(id entity.BuildingID) int
	// UnitScoutingRange 单位类型自带的基础侦查范围。
	UnitScoutingRange(unit *entity.Unit) int
	UnitMagicRealm(unit *entity.Unit) entity.MagicRealmID
	HealEligible(realm entity.MagicRealmID) bool
	ExperienceEligible(realm entity.MagicRealmID) bool
	MapFeatureHostsMonsters(id entity.MapFeatureID) bool
}

// UnitStats 外部的单位属性计算器（受技能、法术、经验等影响）。
type UnitStats interface {
	MovementSpeed(unit *entity.Unit) int
	FullHitPoints(unit *entity.Unit) int
}
