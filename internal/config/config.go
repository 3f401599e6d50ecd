package config

import (
	"searchconsole-go/pkg/cache"
	"searchconsole-go/pkg/logger"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	GSC     GSCConfig     `mapstructure:"gsc"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Storage StorageConfig `mapstructure:"storage"`
	Logger  logger.Config `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type GSCConfig struct {
	// Endpoint overrides the production API base URL (tests, proxies).
	Endpoint string `mapstructure:"endpoint"`
	// Sites are the properties warmed by sync runs.
	Sites []string `mapstructure:"sites"`
	// RateLimit is the sustained upstream requests-per-second ceiling.
	RateLimit int `mapstructure:"rate_limit"`
}

type CacheConfig struct {
	// Backend selects "memory" or "redis".
	Backend string `mapstructure:"backend"`
	// TTLMinutes is the result-set expiry; 60 by default.
	TTLMinutes int `mapstructure:"ttl_minutes"`
	// MaxEntries bounds the in-memory backend.
	MaxEntries int               `mapstructure:"max_entries"`
	Redis      cache.RedisConfig `mapstructure:"redis"`
}

type StorageConfig struct {
	// DataDir holds the settings file (branded rules, last sync).
	DataDir string `mapstructure:"data_dir"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
