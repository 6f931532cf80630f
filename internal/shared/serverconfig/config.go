package serverconfig

import (
	"Arcanus/internal/shared/config"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-viper/mapstructure/v2"
)

const (
	defaultConfigRelPath = "configs/conf.yml"
	// EnvPrefix 环境变量覆盖的统一前缀，例如 ARCANUS_GAME_FOW_UNITS。
	EnvPrefix = "ARCANUS_"
)

var Conf Config

func Load() {
	LoadFrom(defaultConfigRelPath)
}

// LoadFrom 读取配置文件后再叠加环境变量，失败直接 panic。
func LoadFrom(path string) {
	config.Load(path, &Conf, mapstructure.TextUnmarshallerHookFunc())
	if err := ApplyEnv(&Conf); err != nil {
		panic(err)
	}
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
}

// ApplyEnv 用 ARCANUS_ 前缀的环境变量覆盖已加载的配置。
func ApplyEnv(c *Config) error {
	return env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
}
