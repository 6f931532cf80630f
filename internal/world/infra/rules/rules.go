package rules

import (
	"Arcanus/internal/world/entity"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 单位类型缺省的侦查范围。
const defaultUnitScoutingRange = 1

type BuildingDef struct {
	ScoutingRange int `yaml:"scouting_range"`
}

type UnitDef struct {
	MagicRealm    entity.MagicRealmID `yaml:"magic_realm"`
	ScoutingRange *int                `yaml:"scouting_range"`
	// Movement 每回合可移动格数。
	Movement  int `yaml:"movement"`
	HitPoints int `yaml:"hit_points"`
	Figures   int `yaml:"figures"`
}

type MagicRealmDef struct {
	Heal       bool `yaml:"heal"`
	Experience bool `yaml:"experience"`
}

type MapFeatureDef struct {
	Monsters bool `yaml:"monsters"`
}

// Rules 静态规则库，启动时从 yaml 读入后只读，可被多个会话共享。
type Rules struct {
	Buildings   map[entity.BuildingID]BuildingDef     `yaml:"buildings"`
	Units       map[entity.UnitID]UnitDef             `yaml:"units"`
	MagicRealms map[entity.MagicRealmID]MagicRealmDef `yaml:"magic_realms"`
	MapFeatures map[entity.MapFeatureID]MapFeatureDef `yaml:"map_features"`
}

func Load(path string) (*Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return r, nil
}

func Parse(raw []byte) (*Rules, error) {
	r := &Rules{}
	if err := yaml.Unmarshal(raw, r); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rules) validate() error {
	for id, u := range r.Units {
		if u.MagicRealm == "" {
			return fmt.Errorf("unit %s: magic_realm is required", id)
		}
		if _, ok := r.MagicRealms[u.MagicRealm]; !ok {
			return fmt.Errorf("unit %s: unknown magic realm %s", id, u.MagicRealm)
		}
		if u.Movement < 0 || u.HitPoints < 0 || u.Figures < 0 {
			return fmt.Errorf("unit %s: negative stats", id)
		}
	}
	for id, b := range r.Buildings {
		if b.ScoutingRange < 0 {
			return fmt.Errorf("building %s: negative scouting_range", id)
		}
	}
	return nil
}

func (r *Rules) BuildingScoutingRange(id entity.BuildingID) int {
	return r.Buildings[id].ScoutingRange
}

func (r *Rules) UnitScoutingRange(unit *entity.Unit) int {
	def, ok := r.Units[unit.UnitID]
	if !ok || def.ScoutingRange == nil {
		return defaultUnitScoutingRange
	}
	return *def.ScoutingRange
}

func (r *Rules) UnitMagicRealm(unit *entity.Unit) entity.MagicRealmID {
	return r.Units[unit.UnitID].MagicRealm
}

func (r *Rules) HealEligible(realm entity.MagicRealmID) bool {
	return r.MagicRealms[realm].Heal
}

func (r *Rules) ExperienceEligible(realm entity.MagicRealmID) bool {
	return r.MagicRealms[realm].Experience
}

func (r *Rules) MapFeatureHostsMonsters(id entity.MapFeatureID) bool {
	return r.MapFeatures[id].Monsters
}

// MovementSpeed 基础移动力，未登记的单位类型不能移动。
func (r *Rules) MovementSpeed(unit *entity.Unit) int {
	return r.Units[unit.UnitID].Movement
}

// FullHitPoints 满血总生命值 = 单体生命 × 人数。
func (r *Rules) FullHitPoints(unit *entity.Unit) int {
	def := r.Units[unit.UnitID]
	figures := def.Figures
	if figures == 0 {
		figures = 1
	}
	return def.HitPoints * figures
}
