package config

// LogConfig 各进程共用的日志配置。
type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir" env:"FILE_DIR"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level" env:"LEVEL"` // debug/info/warn/error
	Dev        bool   `yaml:"dev" mapstructure:"dev" env:"DEV"`
}
