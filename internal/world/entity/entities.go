package entity

import "slices"

type Building struct {
	BuildingURN  BuildingURN `json:"building_urn"`
	BuildingID   BuildingID  `json:"building_id"`
	CityLocation Coordinates `json:"city_location"`
}

func (b *Building) Clone() *Building {
	out := *b
	return &out
}

type UnitStatus int8

const (
	UnitStatusAlive UnitStatus = iota
	UnitStatusDead
)

func (s UnitStatus) String() string {
	if s == UnitStatusAlive {
		return "ALIVE"
	}
	return "DEAD"
}

type CombatSide int8

const (
	CombatSideNone CombatSide = iota
	CombatSideAttacker
	CombatSideDefender
)

type DamageType int8

const (
	// DamageHealable 可以通过回合开始的治疗恢复。
	DamageHealable DamageType = iota
	// DamagePermanent 只能通过特定法术恢复，治疗不处理。
	DamagePermanent
)

type UnitDamage struct {
	DamageType DamageType `json:"damage_type"`
	Amount     int        `json:"amount"`
}

type UnitSkillValue struct {
	SkillID UnitSkillID `json:"skill_id"`
	Value   int         `json:"value"`
}

// Unit 单位。CombatLocation 非空表示单位正在参与该位置上的战斗。
type Unit struct {
	UnitURN        UnitURN          `json:"unit_urn"`
	UnitID         UnitID           `json:"unit_id"`
	OwnerID        PlayerID         `json:"owner_id"`
	Location       Coordinates      `json:"location"`
	CombatLocation *Coordinates     `json:"combat_location,omitempty"`
	CombatSide     CombatSide       `json:"combat_side,omitempty"`
	CombatPosition *Coordinates     `json:"combat_position,omitempty"`
	Skills         []UnitSkillValue `json:"skills,omitempty"`
	Damage         []UnitDamage     `json:"damage,omitempty"`
	Status         UnitStatus       `json:"status"`

	// DoubleOverlandMovesLeft 以半格为单位（每格 2 点）。只有单位所有者能看到。
	DoubleOverlandMovesLeft int `json:"double_overland_moves_left,omitempty"`
}

func (u *Unit) Clone() *Unit {
	out := *u
	out.CombatLocation = cloneCoordinates(u.CombatLocation)
	out.CombatPosition = cloneCoordinates(u.CombatPosition)
	out.Skills = slices.Clone(u.Skills)
	out.Damage = slices.Clone(u.Damage)
	return &out
}

func (u *Unit) IsAlive() bool {
	return u.Status == UnitStatusAlive
}

// Skill 返回技能值；技能不存在时 ok=false。
func (u *Unit) Skill(id UnitSkillID) (value int, ok bool) {
	for _, s := range u.Skills {
		if s.SkillID == id {
			return s.Value, true
		}
	}
	return 0, false
}

func (u *Unit) HasSkill(id UnitSkillID) bool {
	_, ok := u.Skill(id)
	return ok
}

// SetSkill 更新已有技能的值，不存在则追加。
func (u *Unit) SetSkill(id UnitSkillID, value int) {
	for i := range u.Skills {
		if u.Skills[i].SkillID == id {
			u.Skills[i].Value = value
			return
		}
	}
	u.Skills = append(u.Skills, UnitSkillValue{SkillID: id, Value: value})
}

// TotalDamage 按类型汇总伤害。
func (u *Unit) TotalDamage(t DamageType) int {
	total := 0
	for _, d := range u.Damage {
		if d.DamageType == t {
			total += d.Amount
		}
	}
	return total
}

// HealDamage 从可治疗伤害里扣除至多 amount 点，返回实际治疗量。永久伤害不受影响。
func (u *Unit) HealDamage(amount int) int {
	healed := 0
	out := u.Damage[:0]
	for _, d := range u.Damage {
		if d.DamageType == DamageHealable && amount > 0 {
			n := min(d.Amount, amount)
			d.Amount -= n
			amount -= n
			healed += n
		}
		if d.Amount > 0 {
			out = append(out, d)
		}
	}
	u.Damage = out
	return healed
}

// InCombatAt 判断单位是否正在指定位置的战斗里。
func (u *Unit) InCombatAt(loc Coordinates) bool {
	return u.CombatLocation != nil && *u.CombatLocation == loc
}

// MaintainedSpell 持续法术。UnitURN 与 CityLocation 至多一个有值；
// 两者都为空表示全局（跨地图）附魔，所有人都能看到。
type MaintainedSpell struct {
	SpellURN          SpellURN          `json:"spell_urn"`
	SpellID           SpellID           `json:"spell_id"`
	CastingPlayerID   PlayerID          `json:"casting_player_id"`
	UnitURN           UnitURN           `json:"unit_urn,omitempty"`
	UnitSkillID       UnitSkillID       `json:"unit_skill_id,omitempty"`
	CityLocation      *Coordinates      `json:"city_location,omitempty"`
	CitySpellEffectID CitySpellEffectID `json:"city_spell_effect_id,omitempty"`
	CastInCombat      bool              `json:"cast_in_combat,omitempty"`
}

func (s *MaintainedSpell) Clone() *MaintainedSpell {
	out := *s
	out.CityLocation = cloneCoordinates(s.CityLocation)
	return &out
}

func (s *MaintainedSpell) TargetsUnit() bool {
	return s.UnitURN != 0
}

// IsGlobal 既不针对单位也不针对地点的全局附魔。
func (s *MaintainedSpell) IsGlobal() bool {
	return s.UnitURN == 0 && s.CityLocation == nil
}

// CombatAreaEffect 战斗区域效果。CastingPlayerID 为 0 表示中立效果，MapLocation 为空表示全局效果。
type CombatAreaEffect struct {
	CombatAreaEffectURN CombatAreaEffectURN `json:"combat_area_effect_urn"`
	CombatAreaEffectID  CombatAreaEffectID  `json:"combat_area_effect_id"`
	CastingPlayerID     PlayerID            `json:"casting_player_id,omitempty"`
	MapLocation         *Coordinates        `json:"map_location,omitempty"`
}

func (c *CombatAreaEffect) Clone() *CombatAreaEffect {
	out := *c
	out.MapLocation = cloneCoordinates(c.MapLocation)
	return &out
}

func cloneCoordinates(c *Coordinates) *Coordinates {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// SameCoordinates 比较两个可空坐标。
func SameCoordinates(a, b *Coordinates) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
