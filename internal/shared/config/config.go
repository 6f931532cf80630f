package config

import (
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
)

const defaultConfigRelPath = "configs/conf.yml"

// Load 把配置文件解析到 out（必须是指针）。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）且文件存在则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
//
// hooks 会追加在默认 decode hook（字符串切片、时长）之后。
func Load(cfgName string, out any, hooks ...mapstructure.DecodeHookFunc) {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	if cfgName != "" {
		path := cfgName
		if !filepath.IsAbs(path) {
			path = filepath.Join(curDir, cfgName)
		}
		if fileExist(path) {
			load(path, out, hooks)
			return
		}
		// 相对路径找不到时按约定向上查找同名相对路径
		if !filepath.IsAbs(cfgName) {
			load(findConfigUpward(curDir, cfgName), out, hooks)
			return
		}
	}

	load(findConfigUpward(curDir, defaultConfigRelPath), out, hooks)
}

func findConfigUpward(startDir, rel string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched " + rel + " from: " + startDir)
		}
		dir = parent
	}
}
