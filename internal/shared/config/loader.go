package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// reloadMu 串行化热更新时的 Unmarshal，读方自行决定是否拷贝快照。
var reloadMu sync.Mutex

func load(configPath string, out any, hooks []mapstructure.DecodeHookFunc) {
	if !fileExist(configPath) {
		panic(fmt.Sprintf("config file not exist, configPath=%v", configPath))
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	opt := viper.DecodeHook(decodeHook(hooks))

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更", e.Name)
		reloadMu.Lock()
		defer reloadMu.Unlock()
		if err := v.Unmarshal(out, opt); err != nil {
			// 热更新失败保留旧值，不影响正在运行的会话
			log.Printf("viper unmarshal change config data failed, err=%v\n", err)
		}
	})
	v.WatchConfig()

	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}
	if err := v.Unmarshal(out, opt); err != nil {
		panic(err)
	}
}

func decodeHook(extra []mapstructure.DecodeHookFunc) mapstructure.DecodeHookFunc {
	all := []mapstructure.DecodeHookFunc{
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	}
	all = append(all, extra...)
	return mapstructure.ComposeDecodeHookFunc(all...)
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
