package serverconfig

import (
	"Arcanus/internal/shared/config"
	"Arcanus/internal/world/entity"
	"time"
)

type Config struct {
	Log        config.LogConfig `yaml:"log" mapstructure:"log" envPrefix:"LOG_"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver" envPrefix:"HTTP_"`
	Game       GameConfig       `yaml:"game" mapstructure:"game" envPrefix:"GAME_"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret" env:"JWT_SECRET"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host" env:"HOST"`
	Port int    `yaml:"port" mapstructure:"port" env:"PORT"`
	// SendQueue 每条 ws 连接的待发送消息上限，满了直接丢弃并记日志。
	SendQueue int `yaml:"send_queue" mapstructure:"send_queue" env:"SEND_QUEUE"`
	// DevToken 为 true 时开放 /dev/token 签发调试令牌。
	DevToken bool `yaml:"dev_token" mapstructure:"dev_token" env:"DEV_TOKEN"`
}

type GameConfig struct {
	Map         entity.CoordinateSystem `yaml:"map" mapstructure:"map"`
	FogOfWar    entity.FogOfWarSettings `yaml:"fog_of_war" mapstructure:"fog_of_war" envPrefix:"FOW_"`
	RulesFile   string                  `yaml:"rules_file" mapstructure:"rules_file" env:"RULES_FILE"`
	// MaxMapCells 建局请求可指定的地图格子总数上限。
	MaxMapCells int                     `yaml:"max_map_cells" mapstructure:"max_map_cells" env:"MAX_MAP_CELLS"`
	// AskTimeout 请求会话 actor 的超时。
	AskTimeout  time.Duration           `yaml:"ask_timeout" mapstructure:"ask_timeout" env:"ASK_TIMEOUT"`
}
