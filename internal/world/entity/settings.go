package entity

import (
	"fmt"
	"strings"
)

// FogOfWarSetting 失去视野后玩家记忆如何处理。
type FogOfWarSetting int8

const (
	// Forget 失去视野即清空记忆。
	Forget FogOfWarSetting = iota
	// RememberAsLastSeen 保留最后一次看到的样子。
	RememberAsLastSeen
	// AlwaysSeeOnceSeen 看见过一次之后始终保持同步。
	AlwaysSeeOnceSeen
)

var settingNames = map[FogOfWarSetting]string{
	Forget:             "FORGET",
	RememberAsLastSeen: "REMEMBER_AS_LAST_SEEN",
	AlwaysSeeOnceSeen:  "ALWAYS_SEE_ONCE_SEEN",
}

func (s FogOfWarSetting) String() string {
	if name, ok := settingNames[s]; ok {
		return name
	}
	return fmt.Sprintf("FogOfWarSetting(%d)", int8(s))
}

func ParseFogOfWarSetting(raw string) (FogOfWarSetting, error) {
	want := strings.ToUpper(strings.TrimSpace(raw))
	for s, name := range settingNames {
		if name == want {
			return s, nil
		}
	}
	return Forget, fmt.Errorf("unknown fog of war setting %q", raw)
}

func (s FogOfWarSetting) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *FogOfWarSetting) UnmarshalText(text []byte) error {
	v, err := ParseFogOfWarSetting(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// FogOfWarSettings 三类实体各自独立的策略。
type FogOfWarSettings struct {
	Units                            FogOfWarSetting `json:"units" mapstructure:"units" env:"UNITS"`
	TerrainAndNodeAuras              FogOfWarSetting `json:"terrain_and_node_auras" mapstructure:"terrain_and_node_auras" env:"TERRAIN"`
	CitiesSpellsAndCombatAreaEffects FogOfWarSetting `json:"cities_spells_and_combat_area_effects" mapstructure:"cities_spells_and_combat_area_effects" env:"CITIES"`
	// SeeEnemyCityConstruction 为 true 时非城主也能看到城市正在建造的内容和进度。
	SeeEnemyCityConstruction bool `json:"see_enemy_city_construction" mapstructure:"see_enemy_city_construction" env:"SEE_ENEMY_CITY_CONSTRUCTION"`
}
