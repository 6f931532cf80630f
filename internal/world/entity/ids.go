package entity

// SessionID 标识一局游戏；不同会话之间没有共享状态。
type SessionID int64

// PlayerID 为 0 表示“无玩家”（例如中立的战斗区域效果、无人占领的节点）。
type PlayerID int

// URN 由服务端按实体种类单调分配，永不复用。
type (
	BuildingURN         int
	UnitURN             int
	SpellURN            int
	CombatAreaEffectURN int
)

// 静态规则库中的字符串标识，保持强类型避免混用。
type (
	TileTypeID         string
	MapFeatureID       string
	BuildingID         string
	UnitID             string
	UnitSkillID        string
	SpellID            string
	CitySpellEffectID  string
	CombatAreaEffectID string
	MagicRealmID       string
	RaceID             string
	CitySizeID         string
)

const (
	// FeatureUnclearedTower 未被攻占的巫师之塔，只存在于一个位面上。
	FeatureUnclearedTower MapFeatureID = "MF_TOWER_UNCLEARED"
	// FeatureClearedTower 已攻占的巫师之塔，两个位面同一 (x,y) 互通。
	FeatureClearedTower MapFeatureID = "MF_TOWER_CLEARED"
)

const (
	SkillScouting   UnitSkillID = "US_SCOUTING"
	SkillFlight     UnitSkillID = "US_FLIGHT"
	SkillExperience UnitSkillID = "US_EXPERIENCE"
)

const (
	// SpellNatureAwareness 看见主位面的全部地图。
	SpellNatureAwareness SpellID = "SP_NATURE_AWARENESS"
	// SpellAwareness 看见所有位面的全部地图。
	SpellAwareness SpellID = "SP_AWARENESS"
)

// BuildingFortress 巫师要塞所在城市的位面即为玩家的主位面。
const BuildingFortress BuildingID = "BL_FORTRESS"
