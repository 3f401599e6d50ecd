package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	if err := m.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config, err := m.unmarshal()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	config, err := m.unmarshal()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) {
	m.viper.SetConfigFile(configPath)

	m.viper.SetEnvPrefix("GSC")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	m.viper.SetDefault("server.host", "0.0.0.0")
	m.viper.SetDefault("server.port", 8080)
	m.viper.SetDefault("gsc.rate_limit", 10)
	m.viper.SetDefault("cache.backend", "memory")
	m.viper.SetDefault("cache.ttl_minutes", 60)
	m.viper.SetDefault("cache.max_entries", 1000)
	m.viper.SetDefault("storage.data_dir", "data")
	m.viper.SetDefault("logger.level", "info")
	m.viper.SetDefault("logger.format", "json")
	m.viper.SetDefault("logger.output", "stdout")
}

func (m *manager) unmarshal() (*Config, error) {
	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.GSC.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive")
	}

	switch config.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend: %s", config.Cache.Backend)
	}
	if config.Cache.Backend == "redis" && config.Cache.Redis.Addr == "" {
		return fmt.Errorf("redis backend requires an address")
	}

	if config.Storage.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}

	return nil
}
