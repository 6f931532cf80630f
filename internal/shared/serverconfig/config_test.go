package serverconfig

import (
	"Arcanus/internal/world/entity"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConf = `
log:
  level: info
httpserver:
  host: 127.0.0.1
  port: 8090
  send_queue: 64
game:
  rules_file: configs/rules.yml
  ask_timeout: 2s
  map:
    width: 60
    height: 40
    depth: 2
    wraps_left_to_right: true
  fog_of_war:
    units: forget
    terrain_and_node_auras: remember_as_last_seen
    cities_spells_and_combat_area_effects: always_see_once_seen
jwt_secret: local-secret
`

func TestLoadFrom_文件与环境变量叠加(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(path, []byte(testConf), 0o644); err != nil {
		t.Fatalf("写配置失败: %v", err)
	}
	t.Setenv("ARCANUS_GAME_FOW_UNITS", "REMEMBER_AS_LAST_SEEN")
	t.Setenv("ARCANUS_HTTP_PORT", "9000")
	t.Setenv("ARCANUS_LOG_LEVEL", "debug")
	t.Setenv("JWT_SECRET", "")

	LoadFrom(path)

	if Conf.HTTPServer.Port != 9000 || Conf.HTTPServer.Host != "127.0.0.1" {
		t.Fatalf("期望端口被环境变量覆盖，实际 %+v", Conf.HTTPServer)
	}
	if Conf.Log.Level != "debug" {
		t.Fatalf("期望日志级别 debug，实际 %q", Conf.Log.Level)
	}
	want := entity.FogOfWarSettings{
		Units:                            entity.RememberAsLastSeen,
		TerrainAndNodeAuras:              entity.RememberAsLastSeen,
		CitiesSpellsAndCombatAreaEffects: entity.AlwaysSeeOnceSeen,
	}
	if Conf.Game.FogOfWar != want {
		t.Fatalf("期望战争迷雾设置 %+v，实际 %+v", want, Conf.Game.FogOfWar)
	}
	if Conf.Game.Map.Width != 60 || !Conf.Game.Map.WrapsLeftToRight || Conf.Game.Map.Depth != 2 {
		t.Fatalf("期望地图坐标系来自配置文件，实际 %+v", Conf.Game.Map)
	}
	if Conf.Game.AskTimeout != 2*time.Second {
		t.Fatalf("期望 ask_timeout=2s，实际 %v", Conf.Game.AskTimeout)
	}
	if os.Getenv("JWT_SECRET") != "local-secret" {
		t.Fatalf("期望 JWT_SECRET 回填配置值")
	}
}

func TestApplyEnv_非法迷雾设置报错(t *testing.T) {
	t.Setenv("ARCANUS_GAME_FOW_CITIES", "sometimes")
	var c Config
	if err := ApplyEnv(&c); err == nil {
		t.Fatalf("期望非法取值报错")
	}
}
