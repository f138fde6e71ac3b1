// Package config 提供基于viper的应用配置加载
// 支持配置文件、环境变量和默认值三级覆盖
package config

import (
	"fmt"
	"strings"

	"github.com/notehubio/notehub/internal/logger"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   logger.Config  `mapstructure:"logger"`
	Client   ClientConfig   `mapstructure:"client"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	// Port 监听端口
	Port int `mapstructure:"port"`
	// ReadTimeout 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// WriteTimeout 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Driver 数据库驱动，目前支持sqlite
	Driver string `mapstructure:"driver"`
	// DSN 数据库连接字符串
	DSN string `mapstructure:"dsn"`
	// MaxIdleConns 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `mapstructure:"max_open_conns"`
	// ConnMaxLifetime 连接最大存活时间（秒）
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
}

// ClientConfig 客户端配置
type ClientConfig struct {
	// BaseURL 服务端基础地址
	BaseURL string `mapstructure:"base_url"`
	// Timeout 单次请求超时（秒），超时后请求以超时错误失败
	Timeout int `mapstructure:"timeout"`
}

// Load 加载应用配置
// 读取顺序: 默认值 < config.yaml < 环境变量（NOTEHUB_前缀）
// 返回:
//   *Config - 应用配置
//   error - 配置文件解析错误（文件缺失不视为错误）
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("NOTEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "notehub.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "console")
	v.SetDefault("logger.file_path", "logs/app.log")

	v.SetDefault("client.base_url", "http://localhost:3000")
	v.SetDefault("client.timeout", 10)
}
